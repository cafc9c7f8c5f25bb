package settlement

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
	"github.com/MarcGrol/shopcore/services/settlement/signature"
)

const defaultCurrency = "INR"

// maxAmount keeps the minor-unit conversion safely inside int64.
// ParseFloat accepts "Inf" and huge exponents; converting those to
// int64 is implementation-defined, so they must be rejected up front.
const maxAmount = 1 << 50

func (s *service) createPaymentIntent(c context.Context, amountValue string, receipt string) (PaymentIntent, error) {
	amount, err := strconv.ParseFloat(amountValue, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 || amount > maxAmount {
		// fail before any gateway call is made
		return PaymentIntent{}, myerrors.NewInvalidInputErrorf("invalid amount %q: must be a positive number", amountValue)
	}

	// The gateway expects minor currency units. Truncation is
	// intentional: fractions of a cent are dropped, not rounded.
	amountInCents := int64(amount * 100)

	if receipt == "" {
		receipt = fmt.Sprintf("receipt_%d", s.nower.Now().UnixMilli())
	}

	credentials, exists, err := s.vault.Get(c, gatewayvault.CurrentGatewayCredentials)
	if err != nil || !exists {
		return PaymentIntent{}, myerrors.NewInternalError(fmt.Errorf("gateway credentials not configured"))
	}
	currency := credentials.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	s.logger.Log(c, receipt, mylog.SeverityInfo, "Create payment intent of %d %s (receipt %s)", amountInCents, currency, receipt)

	s.payer.UseAPIKey(credentials.APIKey)
	params := stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("receipt", receipt)

	intent, err := s.payer.CreateIntent(c, params)
	if err != nil {
		return PaymentIntent{}, myerrors.NewUnavailableError(fmt.Errorf("error creating payment intent: %s", err))
	}

	return PaymentIntent{
		IntentUID:     intent.ID,
		AmountInCents: amountInCents,
		Currency:      currency,
		KeyID:         credentials.KeyID,
		Receipt:       receipt,
	}, nil
}

// verifyAndSettle is the sole trust boundary of the checkout workflow:
// only a caller that holds the shared signing secret can produce a
// signature that passes.
func (s *service) verifyAndSettle(c context.Context, orderUID string, gatewayOrderUID string, gatewayPaymentUID string, gatewaySignature string) (order.Order, error) {
	err := validateSettlementFields(orderUID, gatewayOrderUID, gatewayPaymentUID, gatewaySignature)
	if err != nil {
		return order.Order{}, err
	}

	credentials, exists, err := s.vault.Get(c, gatewayvault.CurrentGatewayCredentials)
	if err != nil || !exists {
		return order.Order{}, myerrors.NewInternalError(fmt.Errorf("gateway credentials not configured"))
	}

	verifier := signature.New(credentials.SigningSecret)
	if !verifier.Verify(gatewayOrderUID, gatewayPaymentUID, gatewaySignature) {
		s.logger.Log(c, orderUID, mylog.SeverityWarn, "Rejected settlement of order %s: signature mismatch", orderUID)
		// deliberately uniform: no detail that helps forging a signature
		return order.Order{}, myerrors.NewAuthenticationError(fmt.Errorf("payment verification failed"))
	}

	now := s.nower.Now()

	var settled order.Order
	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		ord, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		if ord.IsPaid() {
			// settlement is idempotent: replaying a valid payload is a no-op
			settled = ord
			return nil
		}

		ord.MarkSettled(gatewayOrderUID, gatewayPaymentUID, gatewaySignature, now)

		err = s.orderStore.Put(c, orderUID, ord)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", orderUID, err))
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderSettled{
			OrderUID:          orderUID,
			GatewayOrderUID:   gatewayOrderUID,
			GatewayPaymentUID: gatewayPaymentUID,
			AmountInCents:     ord.TotalAmountInCents,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		settled = ord
		return nil
	})
	if err != nil {
		return order.Order{}, err
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Settled payment of order %s (gateway payment %s)", orderUID, gatewayPaymentUID)

	return settled, nil
}

// Each field gets its own error so the payment initiator can tell what
// it forgot to send. Runs before any cryptographic work or lookup.
func validateSettlementFields(orderUID string, gatewayOrderUID string, gatewayPaymentUID string, gatewaySignature string) error {
	if orderUID == "" {
		return myerrors.NewInvalidInputErrorf("missing orderUID")
	}
	if gatewayOrderUID == "" {
		return myerrors.NewInvalidInputErrorf("missing gatewayOrderUID")
	}
	if gatewayPaymentUID == "" {
		return myerrors.NewInvalidInputErrorf("missing gatewayPaymentUID")
	}
	if gatewaySignature == "" {
		return myerrors.NewInvalidInputErrorf("missing gatewaySignature")
	}
	return nil
}
