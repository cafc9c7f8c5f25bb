package settlement

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

const gatewayTimeout = 10 * time.Second

//go:generate mockgen -source=payer.go -package settlement -destination payer_mock.go Payer
type Payer interface {
	UseAPIKey(apiKey string)
	CreateIntent(c context.Context, params stripe.PaymentIntentParams) (stripe.PaymentIntent, error)
}

type stripePayer struct{}

func NewPayer() Payer {
	// Bound the only external call with unbounded latency:
	// a slow gateway fails the request instead of hanging it.
	stripe.SetHTTPClient(&http.Client{
		Timeout: gatewayTimeout,
	})
	return &stripePayer{}
}

func (p *stripePayer) UseAPIKey(apiKey string) {
	stripe.Key = apiKey
}

func (p *stripePayer) CreateIntent(c context.Context, params stripe.PaymentIntentParams) (stripe.PaymentIntent, error) {
	params.Context = c
	intent, err := paymentintent.New(&params)
	if err != nil {
		return stripe.PaymentIntent{}, err
	}

	return *intent, nil
}
