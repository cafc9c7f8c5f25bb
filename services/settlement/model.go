package settlement

// PaymentIntent is relayed to the payment initiator so it can hand the
// buyer over to the gateway.
type PaymentIntent struct {
	IntentUID     string
	AmountInCents int64
	Currency      string
	KeyID         string
	Receipt       string
}
