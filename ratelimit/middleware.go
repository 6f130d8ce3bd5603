package ratelimit

import (
	"net"
	"net/http"
	"strconv"

	"github.com/user/tutoria-go/apperror"
	"github.com/user/tutoria-go/auth"
)

// clientAddr extracts the client address from the request. The RealIP
// middleware runs earlier in the chain, so RemoteAddr already holds the
// proxy-resolved address; the port is stripped when present.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware gates requests through the limiter, keyed by client address
// plus route path. Rejections carry the retry-after hint both in the
// envelope and in the Retry-After header.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddr(r) + ":" + r.URL.Path

		if d := l.Check(key); !d.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter))
			auth.WriteError(w, r, apperror.NewRateLimitError("Too many attempts. Please try again later.", d.RetryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}
