package admin

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
)

const salesWindowInDays = 30

func (s *service) getAnalytics(c context.Context) (Analytics, error) {
	s.logger.Log(c, "analytics", mylog.SeverityInfo, "Compute shop analytics")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return Analytics{}, myerrors.NewInternalError(fmt.Errorf("error fetching orders: %s", err))
	}
	products, err := s.productStore.List(c)
	if err != nil {
		return Analytics{}, myerrors.NewInternalError(fmt.Errorf("error fetching products: %s", err))
	}

	analytics := Analytics{
		TotalOrders:           len(orders),
		TotalProducts:         len(products),
		OrdersByStatus:        map[string]int{},
		OrdersByPaymentMethod: map[string]int{},
	}

	salesPerDay := map[string]*DailySale{}
	salesPerProduct := map[string]*ProductSales{}

	windowStart := startOfDay(s.nower.Now()).AddDate(0, 0, -(salesWindowInDays - 1))

	for _, o := range orders {
		analytics.OrdersByStatus[string(o.Status)]++
		analytics.OrdersByPaymentMethod[string(o.PaymentMethod)]++

		switch o.Status {
		case order.StatusPending, order.StatusPlaced:
			analytics.OpenOrders++
		case order.StatusDelivered:
			analytics.CompletedOrders++
		}

		// revenue: gateway orders once paid, COD orders once delivered
		if o.IsPaid() || o.Status == order.StatusDelivered {
			analytics.TotalRevenueInCents += o.TotalAmountInCents
		}

		if !o.CreatedAt.Before(windowStart) {
			day := o.CreatedAt.Format("2006-01-02")
			sale, exists := salesPerDay[day]
			if !exists {
				sale = &DailySale{Day: day}
				salesPerDay[day] = sale
			}
			sale.OrderCount++
			sale.AmountInCents += o.TotalAmountInCents
		}

		if o.Status == order.StatusCancelled {
			continue
		}
		for _, line := range o.Lines {
			sales, exists := salesPerProduct[line.ProductUID]
			if !exists {
				sales = &ProductSales{
					ProductUID:  line.ProductUID,
					ProductName: line.ProductName,
				}
				salesPerProduct[line.ProductUID] = sales
			}
			sales.QuantitySold += line.Quantity
			sales.RevenueInCents += line.TotalInCents()
		}
	}

	for _, sale := range salesPerDay {
		analytics.DailySales = append(analytics.DailySales, *sale)
	}
	sort.Slice(analytics.DailySales, func(i, j int) bool {
		return analytics.DailySales[i].Day < analytics.DailySales[j].Day
	})

	for _, sales := range salesPerProduct {
		analytics.TopProducts = append(analytics.TopProducts, *sales)
	}
	sort.Slice(analytics.TopProducts, func(i, j int) bool {
		if analytics.TopProducts[i].QuantitySold != analytics.TopProducts[j].QuantitySold {
			return analytics.TopProducts[i].QuantitySold > analytics.TopProducts[j].QuantitySold
		}
		return analytics.TopProducts[i].RevenueInCents > analytics.TopProducts[j].RevenueInCents
	})
	if len(analytics.TopProducts) > 10 {
		analytics.TopProducts = analytics.TopProducts[:10]
	}

	return analytics, nil
}

func (s *service) updateOrderStatus(c context.Context, orderUID string, newStatus string) (order.Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Admin: update status of order %s to %s", orderUID, newStatus)

	status := order.OrderStatus(newStatus)
	if status != order.StatusDelivered && status != order.StatusCancelled {
		return order.Order{}, myerrors.NewInvalidInputErrorf("unsupported status %s", newStatus)
	}

	now := s.nower.Now()

	var updated order.Order
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		ord, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", orderUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		err = ord.TransitionTo(status, now)
		if err != nil {
			return err
		}

		err = s.orderStore.Put(c, orderUID, ord)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", orderUID, err))
		}

		if status == order.StatusDelivered {
			err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderDelivered{
				OrderUID: orderUID,
			})
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
			}
		}

		updated = ord
		return nil
	})
	if err != nil {
		return order.Order{}, err
	}

	return updated, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
