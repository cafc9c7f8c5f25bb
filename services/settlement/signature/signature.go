package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier computes and checks the gateway callback signature:
// HMAC-SHA256 over "<gatewayOrderUID>|<gatewayPaymentUID>" keyed with
// the shared signing secret, rendered as lowercase hex.
type Verifier struct {
	secret []byte
}

func New(secret string) Verifier {
	return Verifier{
		secret: []byte(secret),
	}
}

func (v Verifier) Sign(gatewayOrderUID string, gatewayPaymentUID string) string {
	return hex.EncodeToString(v.mac(gatewayOrderUID, gatewayPaymentUID))
}

// Verify compares raw mac bytes with hmac.Equal instead of comparing
// hex strings, so the comparison is constant-time.
func (v Verifier) Verify(gatewayOrderUID string, gatewayPaymentUID string, providedSignature string) bool {
	provided, err := hex.DecodeString(providedSignature)
	if err != nil {
		return false
	}

	return hmac.Equal(provided, v.mac(gatewayOrderUID, gatewayPaymentUID))
}

func (v Verifier) mac(gatewayOrderUID string, gatewayPaymentUID string) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderUID + "|" + gatewayPaymentUID))
	return mac.Sum(nil)
}
