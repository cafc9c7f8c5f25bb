package settlement

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
	"github.com/MarcGrol/shopcore/lib/myvault"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewWebService(payer Payer, orderStore mystore.Store[order.Order], vault myvault.VaultReader[gatewayvault.Credentials],
	publisher mypublisher.Publisher, nower mytime.Nower) *webService {
	logger := mylog.New("settlement")
	return &webService{
		logger:  logger,
		service: newService(payer, orderStore, vault, publisher, nower, logger),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/payment/intent", s.createPaymentIntentPage()).Methods("POST")
	router.HandleFunc("/payment/verify", s.verifyPaymentPage()).Methods("POST")
}

func (s *webService) createPaymentIntentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		intent, err := s.service.createPaymentIntent(c, r.Form.Get("amount"), r.Form.Get("receipt"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, intent)
	}
}

func (s *webService) verifyPaymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		settled, err := s.service.verifyAndSettle(c,
			r.Form.Get("orderUID"),
			r.Form.Get("gatewayOrderUID"),
			r.Form.Get("gatewayPaymentUID"),
			r.Form.Get("gatewaySignature"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, settled)
	}
}
