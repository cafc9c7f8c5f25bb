package settlement

import (
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/lib/myvault"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
)

type service struct {
	payer      Payer
	orderStore mystore.Store[order.Order]
	vault      myvault.VaultReader[gatewayvault.Credentials]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func newService(payer Payer, orderStore mystore.Store[order.Order], vault myvault.VaultReader[gatewayvault.Credentials],
	publisher mypublisher.Publisher, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		payer:      payer,
		orderStore: orderStore,
		vault:      vault,
		publisher:  publisher,
		nower:      nower,
		logger:     logger,
	}
}
