package gatewayvault

// CurrentGatewayCredentials is the vault key under which the active
// credential set is stored. The signing secret is shared out-of-band
// with the gateway and never leaves the settlement service.
const CurrentGatewayCredentials = "gateway_credentials"

type Credentials struct {
	KeyID         string
	APIKey        string
	SigningSecret string
	Currency      string
}
