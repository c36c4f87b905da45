package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/http/ban"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
)

// Throttle limits requests per client IP. Banned clients get 403; clients
// over the limit get 429 and a strike, and enough strikes lead to a ban.
// Errors from the ban store are logged and do not block the request.
func Throttle(limiter *rl.Limiter, guard *ban.Guard, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			banned, ttl, err := guard.IsBanned(r.Context(), ip)
			if err != nil {
				logger.Error("❌ failed to check ban", zap.String("ip", ip), zap.Error(err))
			}
			if banned {
				w.Header().Set("Retry-After", fmt.Sprint(int(math.Ceil(ttl.Seconds()))))
				unauthorized(w, http.StatusForbidden, "too many requests, try again later")
				return
			}

			if !limiter.Allow(ip) {
				if _, err := guard.Strike(r.Context(), ip, r.URL.Path); err != nil {
					logger.Error("❌ failed to record strike", zap.String("ip", ip), zap.Error(err))
				}
				w.Header().Set("Retry-After", "1")
				unauthorized(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
