package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
)

// placeOrder atomically converts the user's cart into a durable order:
// the cart read, the price snapshots, the order write and the cart
// drain all commit or roll back together. A concurrent checkout of the
// same user observes the drained cart and fails with the empty-cart
// error instead of creating a duplicate order.
func (s *service) placeOrder(c context.Context, userUID string, requestedPaymentMethod string) (Order, error) {
	method := ResolvePaymentMethod(requestedPaymentMethod)
	orderUID := s.uuider.Create()
	now := s.nower.Now()

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Place order %s for user %s (method %s)", orderUID, userUID, method)

	var order Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		items, err := s.cartStore.Query(c, []mystore.Filter{
			{Field: "UserUID", Compare: "=", Value: userUID},
		}, "CreatedAt")
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching cart of user %s: %s", userUID, err))
		}
		if len(items) == 0 {
			return myerrors.NewInvalidInputErrorf("cart of user %s is empty", userUID)
		}

		// insertion order of the cart becomes the line order
		sort.Slice(items, func(i, j int) bool {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		})

		lines := make([]Line, 0, len(items))
		var total int64
		for _, item := range items {
			// Snapshot the price as it is right now: later catalog
			// changes must never touch this order.
			product, found, err := s.productStore.Get(c, item.ProductUID)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error fetching product %s: %s", item.ProductUID, err))
			}
			if !found {
				// product vanished between add-to-cart and checkout:
				// abort the whole transaction, never persist a partial order
				return myerrors.NewNotFoundError(fmt.Errorf("product with uid %s no longer exists", item.ProductUID))
			}

			line := Line{
				ProductUID:             product.UID,
				ProductName:            product.Name,
				PriceAtPurchaseInCents: product.PriceInCents,
				Quantity:               item.Quantity,
			}
			lines = append(lines, line)
			total += line.TotalInCents()
		}

		order = Order{
			UID:                orderUID,
			UserUID:            userUID,
			Lines:              lines,
			TotalAmountInCents: total,
			Status:             initialStatus(method),
			PaymentStatus:      PaymentStatusPending,
			PaymentMethod:      method,
			CreatedAt:          now,
		}

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", orderUID, err))
		}

		// drain the entire cart
		for _, item := range items {
			err = s.cartStore.Delete(c, item.UID)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error removing cart item %s: %s", item.UID, err))
			}
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPlaced{
			OrderUID:      orderUID,
			UserUID:       userUID,
			AmountInCents: total,
			PaymentMethod: string(method),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (s *service) listOrders(c context.Context, userUID string) ([]Order, error) {
	s.logger.Log(c, userUID, mylog.SeverityInfo, "Fetch orders of user %s", userUID)

	orders, err := s.orderStore.Query(c, []mystore.Filter{
		{Field: "UserUID", Compare: "=", Value: userUID},
	}, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	// newest first
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (s *service) getOrder(c context.Context, orderUID string) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Fetch details of order %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}

	return order, nil
}
