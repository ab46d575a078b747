package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rahadianw/siteops/internal/audit"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/core/events"
)

// AuditTrail publishes an audit event for every authenticated mutating
// request. GET traffic and anonymous requests are not recorded.
func AuditTrail(bus *events.EventBus) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if r.Method == http.MethodGet {
				return
			}
			account, ok := auth.UserFromContext(r.Context())
			if !ok || account == nil {
				return
			}

			event := events.BaseEvent{
				ID:        uuid.NewString(),
				Type:      audit.EventHTTPRequest,
				Timestamp: time.Now(),
				Data: map[string]interface{}{
					"user_id":     account.ID,
					"action":      r.Method + " " + r.URL.Path,
					"entity_type": entityTypeFromPath(r.URL.Path),
					"ip_address":  clientIP(r),
					"user_agent":  r.UserAgent(),
				},
			}

			// handlers run on the bus; errors never reach the request
			_ = bus.Publish(r.Context(), event)
		})
	}
}

// entityTypeFromPath takes the first path segment after the API prefix.
func entityTypeFromPath(path string) string {
	path = strings.TrimPrefix(path, "/api/v1")
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			return segment
		}
	}
	return "unknown"
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
