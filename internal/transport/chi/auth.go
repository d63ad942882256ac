package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const authChallenge = `Bearer realm="revisor"`

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// against apiKeys. Blank keys are ignored; with none left, auth is disabled.
// Generation credentials travel in request bodies and are unrelated to these keys.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg == "" && !validKey(validKeys, []byte(token)) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", authChallenge)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively. A non-empty msg describes the rejection.
func bearerToken(header string) (token, msg string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}

func validKey(keys [][]byte, token []byte) bool {
	ok := 0
	for _, k := range keys {
		ok |= subtle.ConstantTimeCompare(k, token)
	}
	return ok == 1
}
