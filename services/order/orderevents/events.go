package orderevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/myevents"
)

const (
	TopicName          = "order"
	orderPlacedName    = TopicName + ".placed"
	orderSettledName   = TopicName + ".settled"
	orderDeliveredName = TopicName + ".delivered"
)

type OrderEventService interface {
	Subscribe(c context.Context) error
	OnOrderPlaced(c context.Context, topic string, event OrderPlaced) error
	OnOrderSettled(c context.Context, topic string, event OrderSettled) error
	OnOrderDelivered(c context.Context, topic string, event OrderDelivered) error
}

func DispatchEvent(c context.Context, reader io.Reader, service OrderEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case orderPlacedName:
		{
			event := OrderPlaced{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderPlaced(c, envelope.Topic, event)
		}
	case orderSettledName:
		{
			event := OrderSettled{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderSettled(c, envelope.Topic, event)
		}
	case orderDeliveredName:
		{
			event := OrderDelivered{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderDelivered(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

type OrderPlaced struct {
	OrderUID      string
	UserUID       string
	AmountInCents int64
	PaymentMethod string
}

func (e OrderPlaced) GetEventTypeName() string {
	return orderPlacedName
}

func (e OrderPlaced) GetAggregateName() string {
	return e.OrderUID
}

type OrderSettled struct {
	OrderUID          string
	GatewayOrderUID   string
	GatewayPaymentUID string
	AmountInCents     int64
}

func (e OrderSettled) GetEventTypeName() string {
	return orderSettledName
}

func (e OrderSettled) GetAggregateName() string {
	return e.OrderUID
}

type OrderDelivered struct {
	OrderUID string
}

func (e OrderDelivered) GetEventTypeName() string {
	return orderDeliveredName
}

func (e OrderDelivered) GetAggregateName() string {
	return e.OrderUID
}
