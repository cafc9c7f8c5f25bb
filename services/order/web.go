package order

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcore/lib/mycontext"
	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/myhttp"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/lib/myuuid"
	"github.com/MarcGrol/shopcore/services/cart"
	"github.com/MarcGrol/shopcore/services/catalog"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewWebService(orderStore mystore.Store[Order], cartStore mystore.Store[cart.Item], productStore mystore.Store[catalog.Product],
	publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("order")
	return &webService{
		logger:  logger,
		service: newService(orderStore, cartStore, productStore, publisher, nower, uuider, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/order", s.listOrdersPage()).Methods("GET")
	router.HandleFunc("/order", s.placeOrderPage()).Methods("POST")
	router.HandleFunc("/order/{orderUID}", s.getOrderPage()).Methods("GET")
	router.HandleFunc("/order/track/{orderUID}", s.trackOrderPage()).Methods("GET")
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		userUID, err := myhttp.UserUIDFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		orders, err := s.service.listOrders(c, userUID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) placeOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		userUID, err := myhttp.UserUIDFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		order, err := s.service.placeOrder(c, userUID, r.Form.Get("paymentMethod"))
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, placeOrderResponse{
			Order: order,
			// shareable with the recipient, no identity header needed
			TrackingURL: myhttp.HostnameWithScheme(r) + "/order/track/" + order.UID,
		})
	}
}

type placeOrderResponse struct {
	Order
	TrackingURL string `json:"trackingURL"`
}

func (s *webService) getOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

// trackOrderPage exposes only the delivery status of an order, not the
// full order: it is meant to be shared with the recipient.
func (s *webService) trackOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orderTrackingResponse{
			OrderUID:      order.UID,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			Total:         order.GetDisplayTotal(),
			LastModified:  order.Timestamp(),
		})
	}
}

type orderTrackingResponse struct {
	OrderUID      string        `json:"orderUID"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Total         string        `json:"total"`
	LastModified  string        `json:"lastModified"`
}
