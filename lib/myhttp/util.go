package myhttp

import (
	"fmt"
	"net/http"
	"os"

	"github.com/MarcGrol/shopcore/lib/myerrors"
)

const userUIDHeader = "X-User-UID"

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func GuessHostnameWithScheme() string {
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if project != "" {
		return fmt.Sprintf("https://%s.appspot.com", project)
	}

	return "http://localhost:8080"
}

// UserUIDFromRequest extracts the already-authenticated user identity.
// Authentication itself happens upstream (gateway or app-engine IAP).
func UserUIDFromRequest(r *http.Request) (string, error) {
	userUID := r.Header.Get(userUIDHeader)
	if userUID == "" {
		return "", myerrors.NewAuthenticationError(fmt.Errorf("missing %s header", userUIDHeader))
	}

	return userUID, nil
}
