package order

import (
	"fmt"
	"time"

	"github.com/MarcGrol/shopcore/lib/myerrors"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPlaced    OrderStatus = "PLACED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodGateway PaymentMethod = "GATEWAY"
)

// ResolvePaymentMethod normalizes the requested payment method at the
// boundary: anything that is not an exact known value becomes COD.
// Unrecognized methods are coerced, not rejected.
func ResolvePaymentMethod(value string) PaymentMethod {
	switch PaymentMethod(value) {
	case PaymentMethodCOD:
		return PaymentMethodCOD
	case PaymentMethodGateway:
		return PaymentMethodGateway
	default:
		return PaymentMethodCOD
	}
}

type Order struct {
	UID                string
	UserUID            string
	Lines              []Line `datastore:",noindex"`
	TotalAmountInCents int64
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	PaymentMethod      PaymentMethod

	// Populated after successful settlement only
	GatewayOrderUID   string
	GatewayPaymentUID string
	GatewaySignature  string `datastore:",noindex"`

	CreatedAt    time.Time
	LastModified *time.Time
}

// Line is an immutable snapshot of a product at order-creation time.
// Later catalog price changes never affect the order.
type Line struct {
	ProductUID             string
	ProductName            string
	PriceAtPurchaseInCents int64
	Quantity               int
}

func (l Line) TotalInCents() int64 {
	return l.PriceAtPurchaseInCents * int64(l.Quantity)
}

// initialStatus implements the method-dependent initial state:
// COD orders are placed right away with payment pending,
// gateway orders stay pending until settlement.
func initialStatus(method PaymentMethod) OrderStatus {
	if method == PaymentMethodCOD {
		return StatusPlaced
	}
	return StatusPending
}

func (o Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// MarkSettled applies the settlement transition: payment PENDING->PAID,
// status ->PLACED, and records the gateway correlation fields.
func (o *Order) MarkSettled(gatewayOrderUID string, gatewayPaymentUID string, gatewaySignature string, now time.Time) {
	o.PaymentStatus = PaymentStatusPaid
	o.Status = StatusPlaced
	o.GatewayOrderUID = gatewayOrderUID
	o.GatewayPaymentUID = gatewayPaymentUID
	o.GatewaySignature = gatewaySignature
	o.LastModified = &now
}

// TransitionTo applies an administrative status change. Delivery is
// only valid for a placed order, cancellation for any non-terminal one.
func (o *Order) TransitionTo(newStatus OrderStatus, now time.Time) error {
	switch newStatus {
	case StatusDelivered:
		if o.Status != StatusPlaced {
			return myerrors.NewInvalidInputErrorf("order %s cannot go from %s to %s", o.UID, o.Status, newStatus)
		}
	case StatusCancelled:
		if o.Status != StatusPending && o.Status != StatusPlaced {
			return myerrors.NewInvalidInputErrorf("order %s cannot go from %s to %s", o.UID, o.Status, newStatus)
		}
	default:
		return myerrors.NewInvalidInputErrorf("unsupported status %s", newStatus)
	}

	o.Status = newStatus
	o.LastModified = &now

	return nil
}

func (o Order) GetDisplayTotal() string {
	return fmt.Sprintf("%.2f", float64(o.TotalAmountInCents)/100.0)
}

func (o Order) Timestamp() string {
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}
