package cart

import (
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/services/catalog"
)

type service struct {
	cartStore    mystore.Store[Item]
	productStore mystore.Store[catalog.Product]
	nower        mytime.Nower
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func newService(cartStore mystore.Store[Item], productStore mystore.Store[catalog.Product], nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		cartStore:    cartStore,
		productStore: productStore,
		nower:        nower,
		logger:       logger,
	}
}
