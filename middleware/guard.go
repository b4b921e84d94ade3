package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	flexauth "github.com/flexauth/flexauth"
)

// Guard returns middleware running the authenticator chain. Each scheme is
// tried in order: a (nil, nil) outcome falls through to the next scheme, an
// error produces a 401 with the scheme's message, and a successful identity
// is stored in the request context after CSRF enforcement (403 on failure).
//
// With required set, a request no scheme authenticates is rejected with a
// generic 401; otherwise it proceeds anonymously.
func Guard(required bool, schemes ...flexauth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := flexauth.WithClientIP(r.Context(), clientIP(r))
			req := flexauth.FromHTTPRequest(r)

			for _, scheme := range schemes {
				identity, err := scheme.Authenticate(ctx, req)
				if err != nil {
					writeError(w, http.StatusUnauthorized, err)
					return
				}
				if identity == nil {
					continue
				}

				if err := scheme.EnforceCSRF(req); err != nil {
					writeError(w, http.StatusForbidden, err)
					return
				}

				ctx = flexauth.WithIdentity(ctx, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if required {
				writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards a handler with the given schemes, rejecting
// unauthenticated requests.
func RequireAuth(schemes ...flexauth.Authenticator) func(http.Handler) http.Handler {
	return Guard(true, schemes...)
}

// OptionalAuth runs the schemes but lets unauthenticated requests through
// anonymously.
func OptionalAuth(schemes ...flexauth.Authenticator) func(http.Handler) http.Handler {
	return Guard(false, schemes...)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
