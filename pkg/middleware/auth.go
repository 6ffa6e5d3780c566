package middleware

import (
	"medbook/pkg/auth"
	"medbook/pkg/logger"
	"net/http"
	"strings"
)

// Authentication verifies the Bearer token and attaches the actor to the
// request context. Paths in skipPrefixes (login, health, public booking
// links) pass through unauthenticated.
func Authentication(tm *auth.TokenManager, log *logger.Logger, skipPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				rejectUnauthenticated(w, log, r, "missing bearer token")
				return
			}

			actor, err := tm.Parse(token)
			if err != nil {
				rejectUnauthenticated(w, log, r, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Unauthenticated request rejected",
		"request_id", requestID,
		"path", r.URL.Path,
		"reason", reason,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
