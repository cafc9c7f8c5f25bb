package admin

import (
	"context"
	"fmt"

	"github.com/MarcGrol/shopcore/lib/myhttp"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/services/order/orderevents"
)

func (s *service) Subscribe(c context.Context) error {

	err := s.subscriber.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, orderevents.TopicName, myhttp.GuessHostnameWithScheme()+"/admin/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", orderevents.TopicName, err)
	}

	return nil
}

func (s *service) OnOrderPlaced(c context.Context, topic string, event orderevents.OrderPlaced) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Audit: order %s placed by %s for %d cents (%s)",
		event.OrderUID, event.UserUID, event.AmountInCents, event.PaymentMethod)
	return nil
}

func (s *service) OnOrderSettled(c context.Context, topic string, event orderevents.OrderSettled) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Audit: order %s settled via gateway payment %s for %d cents",
		event.OrderUID, event.GatewayPaymentUID, event.AmountInCents)
	return nil
}

func (s *service) OnOrderDelivered(c context.Context, topic string, event orderevents.OrderDelivered) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Audit: order %s delivered", event.OrderUID)
	return nil
}
