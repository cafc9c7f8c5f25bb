package order

import (
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/lib/myuuid"
	"github.com/MarcGrol/shopcore/services/cart"
	"github.com/MarcGrol/shopcore/services/catalog"
)

type service struct {
	orderStore   mystore.Store[Order]
	cartStore    mystore.Store[cart.Item]
	productStore mystore.Store[catalog.Product]
	publisher    mypublisher.Publisher
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func newService(orderStore mystore.Store[Order], cartStore mystore.Store[cart.Item], productStore mystore.Store[catalog.Product],
	publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		orderStore:   orderStore,
		cartStore:    cartStore,
		productStore: productStore,
		publisher:    publisher,
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}
