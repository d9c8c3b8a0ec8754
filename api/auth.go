/*
auth.go - Query-token authentication

The UI lives on a kitchen tablet; bookmarkable token-in-URL access is the
whole authentication story. Every /api request must carry ?token= matching
one of the configured tokens. Comparison is constant-time per candidate.
*/
package api

import (
	"crypto/subtle"
	"net/http"
)

// TokenAuth returns middleware that rejects requests whose ?token= query
// parameter matches none of the given tokens.
func TokenAuth(tokens []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.URL.Query().Get("token")
			if supplied == "" || !tokenMatches(tokens, supplied) {
				writeError(w, http.StatusForbidden, "Token missing or invalid", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenMatches(tokens []string, supplied string) bool {
	matched := false
	for _, t := range tokens {
		if len(t) == len(supplied) &&
			subtle.ConstantTimeCompare([]byte(t), []byte(supplied)) == 1 {
			matched = true
		}
	}
	return matched
}
