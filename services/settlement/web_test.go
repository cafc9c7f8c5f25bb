package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
	"github.com/MarcGrol/shopcore/services/settlement/signature"
)

const signingSecret = "topsecret"

func TestCreatePaymentIntent(t *testing.T) {

	t.Run("Create payment intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.payer.EXPECT().UseAPIKey("api_key")
		f.payer.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(stripe.PaymentIntent{ID: "pi_123"}, nil)

		// when
		response := postForm(f.router, "/payment/intent", url.Values{
			"amount":  {"25.00"},
			"receipt": {"receipt_1"},
		})

		// then
		assert.Equal(t, 200, response.Code)
		got := PaymentIntent{}
		err := json.Unmarshal(response.Body.Bytes(), &got)
		assert.NoError(t, err)
		assert.Equal(t, "pi_123", got.IntentUID)
		assert.Equal(t, int64(2500), got.AmountInCents)
		assert.Equal(t, "INR", got.Currency)
		assert.Equal(t, "key_id", got.KeyID)
		assert.Equal(t, "receipt_1", got.Receipt)
	})

	t.Run("Amount is truncated to minor units", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		f.payer.EXPECT().UseAPIKey(gomock.Any())
		f.payer.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(stripe.PaymentIntent{ID: "pi_123"}, nil)

		response := postForm(f.router, "/payment/intent", url.Values{
			"amount":  {"10.999"},
			"receipt": {"receipt_1"},
		})

		assert.Equal(t, 200, response.Code)
		got := PaymentIntent{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.Equal(t, int64(1099), got.AmountInCents)
	})

	t.Run("Missing receipt gets timestamp-derived default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.payer.EXPECT().UseAPIKey(gomock.Any())
		f.payer.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(stripe.PaymentIntent{ID: "pi_123"}, nil)

		response := postForm(f.router, "/payment/intent", url.Values{
			"amount": {"10.00"},
		})

		assert.Equal(t, 200, response.Code)
		got := PaymentIntent{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.True(t, strings.HasPrefix(got.Receipt, "receipt_"))
	})

	t.Run("Negative amount never reaches the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		response := postForm(f.router, "/payment/intent", url.Values{
			"amount": {"-5"},
		})

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Unparsable amount never reaches the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		response := postForm(f.router, "/payment/intent", url.Values{
			"amount": {"twenty"},
		})

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Non-finite or overflowing amount never reaches the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		// ParseFloat accepts all of these; the conversion to minor
		// units would overflow int64
		for _, amount := range []string{"Inf", "+Inf", "-Inf", "NaN", "1e300"} {
			response := postForm(f.router, "/payment/intent", url.Values{
				"amount": {amount},
			})

			assert.Equal(t, 400, response.Code, "amount %s", amount)
		}
	})

	t.Run("Gateway failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		f.payer.EXPECT().UseAPIKey(gomock.Any())
		f.payer.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(stripe.PaymentIntent{}, assert.AnError)

		response := postForm(f.router, "/payment/intent", url.Values{
			"amount":  {"10.00"},
			"receipt": {"receipt_1"},
		})

		assert.Equal(t, 503, response.Code)
	})
}

func TestVerifyAndSettle(t *testing.T) {

	t.Run("Valid signature settles the order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)
		givenPendingGatewayOrder(f, "order_1", 2500)

		// given
		f.nower.EXPECT().Now().Return(mytime.ExampleTime)
		f.publisher.EXPECT().Publish(gomock.Any(), orderevents.TopicName, orderevents.OrderSettled{
			OrderUID:          "order_1",
			GatewayOrderUID:   "gw_order_1",
			GatewayPaymentUID: "gw_payment_1",
			AmountInCents:     2500,
		}).Return(nil)

		// when
		response := postForm(f.router, "/payment/verify", url.Values{
			"orderUID":          {"order_1"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
			"gatewaySignature":  {sign("gw_order_1", "gw_payment_1")},
		})

		// then
		assert.Equal(t, 200, response.Code)
		stored, _, _ := f.orderStore.Get(f.ctx, "order_1")
		assert.Equal(t, order.PaymentStatusPaid, stored.PaymentStatus)
		assert.Equal(t, order.StatusPlaced, stored.Status)
		assert.Equal(t, "gw_order_1", stored.GatewayOrderUID)
		assert.Equal(t, "gw_payment_1", stored.GatewayPaymentUID)
	})

	t.Run("Replayed settlement is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)
		givenPendingGatewayOrder(f, "order_1", 2500)

		f.nower.EXPECT().Now().Return(mytime.ExampleTime).Times(2)
		// settled event goes out once, not twice
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		form := url.Values{
			"orderUID":          {"order_1"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
			"gatewaySignature":  {sign("gw_order_1", "gw_payment_1")},
		}

		// when
		first := postForm(f.router, "/payment/verify", form)
		second := postForm(f.router, "/payment/verify", form)

		// then
		assert.Equal(t, 200, first.Code)
		assert.Equal(t, 200, second.Code)
	})

	t.Run("Forged signature never mutates the order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)
		givenPendingGatewayOrder(f, "order_1", 2500)

		// when
		response := postForm(f.router, "/payment/verify", url.Values{
			"orderUID":          {"order_1"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
			"gatewaySignature":  {signature.New("wrongsecret").Sign("gw_order_1", "gw_payment_1")},
		})

		// then
		assert.Equal(t, 403, response.Code)
		stored, _, _ := f.orderStore.Get(f.ctx, "order_1")
		assert.Equal(t, order.PaymentStatusPending, stored.PaymentStatus)
		assert.Equal(t, order.StatusPending, stored.Status)
	})

	t.Run("Signature over swapped fields fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)
		givenPendingGatewayOrder(f, "order_1", 2500)

		response := postForm(f.router, "/payment/verify", url.Values{
			"orderUID":          {"order_1"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
			"gatewaySignature":  {sign("gw_payment_1", "gw_order_1")},
		})

		assert.Equal(t, 403, response.Code)
	})

	t.Run("Missing field fails before verification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		response := postForm(f.router, "/payment/verify", url.Values{
			"orderUID":          {"order_1"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
		})

		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "gatewaySignature")
	})

	t.Run("Unknown order with valid signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(t, ctrl)

		f.nower.EXPECT().Now().Return(mytime.ExampleTime)

		response := postForm(f.router, "/payment/verify", url.Values{
			"orderUID":          {"order_42"},
			"gatewayOrderUID":   {"gw_order_1"},
			"gatewayPaymentUID": {"gw_payment_1"},
			"gatewaySignature":  {sign("gw_order_1", "gw_payment_1")},
		})

		assert.Equal(t, 404, response.Code)
	})
}

type fixture struct {
	ctx        context.Context
	router     *mux.Router
	orderStore mystore.Store[order.Order]
	payer      *MockPayer
	publisher  *mypublisher.MockPublisher
	nower      *mytime.MockNower
}

func setup(t *testing.T, ctrl *gomock.Controller) fixture {
	c := context.TODO()
	orderStore, _, _ := mystore.NewInMemoryStore[order.Order](c)
	vault, _, _ := mystore.NewInMemoryStore[gatewayvault.Credentials](c)
	payer := NewMockPayer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	nower := mytime.NewMockNower(ctrl)

	_ = vault.Put(c, gatewayvault.CurrentGatewayCredentials, gatewayvault.Credentials{
		KeyID:         "key_id",
		APIKey:        "api_key",
		SigningSecret: signingSecret,
		Currency:      "INR",
	})

	sut := NewWebService(payer, orderStore, vault, publisher, nower)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return fixture{
		ctx:        c,
		router:     router,
		orderStore: orderStore,
		payer:      payer,
		publisher:  publisher,
		nower:      nower,
	}
}

func givenPendingGatewayOrder(f fixture, orderUID string, amountInCents int64) {
	_ = f.orderStore.Put(f.ctx, orderUID, order.Order{
		UID:                orderUID,
		UserUID:            "marc",
		TotalAmountInCents: amountInCents,
		Status:             order.StatusPending,
		PaymentStatus:      order.PaymentStatusPending,
		PaymentMethod:      order.PaymentMethodGateway,
		CreatedAt:          mytime.ExampleTime,
	})
}

func sign(gatewayOrderUID string, gatewayPaymentUID string) string {
	return signature.New(signingSecret).Sign(gatewayOrderUID, gatewayPaymentUID)
}

func postForm(router *mux.Router, path string, form url.Values) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
