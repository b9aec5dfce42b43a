package middleware

import (
	"net/http"
	"strings"

	"go-membership-api/internal/auth"
	"go-membership-api/pkg/apierror"
)

const bearerPrefix = "Bearer "

type tokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// IdentityHandler is a protected handler. The verified identity is passed in
// explicitly instead of through the request context.
type IdentityHandler func(w http.ResponseWriter, r *http.Request, identity auth.Identity)

type AuthGate struct {
	verifier tokenVerifier
}

func NewAuthGate(verifier tokenVerifier) *AuthGate {
	return &AuthGate{verifier: verifier}
}

// Protect wraps next so it only runs for requests carrying a valid
// "Bearer <token>" header. Every rejection is the same 401.
func (g *AuthGate) Protect(next IdentityHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if len(header) < len(bearerPrefix) || !strings.HasPrefix(header, bearerPrefix) {
			writeUnauthenticated(w)
			return
		}

		identity, err := g.verifier.Verify(header[len(bearerPrefix):])
		if err != nil {
			writeUnauthenticated(w)
			return
		}

		next(w, r, identity)
	})
}

func writeUnauthenticated(w http.ResponseWriter) {
	failure := apierror.Unauthenticated()
	writeEnvelope(w, failure.HTTPStatus, failure.AppCode, failure.Message)
}
