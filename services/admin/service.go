package admin

import (
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mypubsub"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/services/catalog"
	"github.com/MarcGrol/shopcore/services/order"
)

type service struct {
	orderStore   mystore.Store[order.Order]
	productStore mystore.Store[catalog.Product]
	publisher    mypublisher.Publisher
	subscriber   mypubsub.PubSub
	nower        mytime.Nower
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func newService(orderStore mystore.Store[order.Order], productStore mystore.Store[catalog.Product],
	publisher mypublisher.Publisher, subscriber mypubsub.PubSub, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		orderStore:   orderStore,
		productStore: productStore,
		publisher:    publisher,
		subscriber:   subscriber,
		nower:        nower,
		logger:       logger,
	}
}
