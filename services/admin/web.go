package admin

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcore/lib/mycontext"
	"github.com/MarcGrol/shopcore/lib/myhttp"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mypubsub"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/services/catalog"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewWebService(orderStore mystore.Store[order.Order], productStore mystore.Store[catalog.Product],
	publisher mypublisher.Publisher, subscriber mypubsub.PubSub, nower mytime.Nower) *webService {
	logger := mylog.New("admin")
	return &webService{
		logger:  logger,
		service: newService(orderStore, productStore, publisher, subscriber, nower, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/admin/analytics", s.analyticsPage()).Methods("GET")
	router.HandleFunc("/admin/order/{orderUID}/status/{status}", s.updateOrderStatusPage()).Methods("PUT")
	router.HandleFunc("/admin/event", s.handleEventEnvelope()).Methods("POST")
}

func (s *webService) Subscribe(c context.Context) error {
	return s.service.Subscribe(c)
}

func (s *webService) analyticsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		analytics, err := s.service.getAnalytics(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, analytics)
	}
}

func (s *webService) updateOrderStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]
		status := mux.Vars(r)["status"]

		updated, err := s.service.updateOrderStatus(c, orderUID, status)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, updated)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := orderevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
