package auditlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/tutoria-go/auth"
)

// maxBodySnapshot caps how much of a request body the audit log will keep.
const maxBodySnapshot = 64 << 10 // 64 KiB

// Middleware records one HTTP entry per request: method, path, status,
// latency, client address, user agent, the authenticated user when present,
// and a sanitized snapshot of the JSON body. The entry is enqueued after
// the handler has written its response, so the client never waits on it.
//
// This middleware runs upstream of the auth middleware, so it installs a
// claims slot in the context for the auth middleware to fill; reading
// r.Context() after the handler would only see the slot, never claims
// attached in a child context. The record is deferred so a panicking
// handler still leaves an HTTP entry behind.
func Middleware(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			body := snapshotBody(r)

			r = r.WithContext(auth.NewContextWithClaimsHolder(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					// Nothing written yet: the handler panicked before
					// responding and the outer recovery will answer 500.
					status = http.StatusInternalServerError
				}

				entry := &Entry{
					Level:        LevelHTTP,
					Message:      fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, status),
					Method:       r.Method,
					Path:         r.URL.Path,
					StatusCode:   status,
					ResponseTime: int(time.Since(start).Milliseconds()),
					IP:           clientAddr(r),
					UserAgent:    r.UserAgent(),
				}
				if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
					id := claims.UserID
					entry.UserID = &id
				}
				if body != nil {
					entry.Metadata = map[string]interface{}{
						"query": r.URL.Query(),
						"body":  SanitizeBody(body),
					}
				}

				logger.Record(entry)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// snapshotBody reads and restores the request body, returning its parsed
// JSON object when there is one. Non-JSON and non-object bodies are skipped.
func snapshotBody(r *http.Request) map[string]interface{} {
	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySnapshot))
	if err != nil {
		return nil
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), r.Body))

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	return body
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
