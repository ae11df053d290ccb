// Package httpmw holds the chi middleware shared by the HTTP surfaces.
package httpmw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one entry per served request. It expects
// middleware.RequestID to run first so the id is available.
func RequestLogger(logger logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				entry := logger.WithFields(logrus.Fields{
					"method":        r.Method,
					"path":          r.URL.Path,
					"remote_addr":   r.RemoteAddr,
					"status":        ww.Status(),
					"latency_ms":    float64(time.Since(start).Nanoseconds()) / 1e6,
					"bytes_written": ww.BytesWritten(),
					"request_id":    middleware.GetReqID(r.Context()),
				})
				if ww.Status() >= http.StatusInternalServerError {
					entry.Warn("served request")
					return
				}
				entry.Info("served request")
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
