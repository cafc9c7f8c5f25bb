package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcore/lib/mycontext"
	"github.com/MarcGrol/shopcore/lib/myhttp"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/myvault"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
)

type webService struct {
	logger mylog.Logger
	vault  myvault.VaultReader[gatewayvault.Credentials]
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(vault myvault.VaultReader[gatewayvault.Credentials]) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger: logger,
		vault:  vault,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

// warmupPage touches the vault so a fresh instance has its stores and
// credentials loaded before real traffic arrives.
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, _, err := s.vault.Get(c, gatewayvault.CurrentGatewayCredentials)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
