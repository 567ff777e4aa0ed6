package httpapi

import (
	"expvar"
	"log"
	"net/http"
	"time"
)

var (
	requestsTotal  = expvar.NewInt("http_requests_total")
	requestsErrors = expvar.NewInt("http_requests_errors")
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware はアクセスログと簡易カウンタを記録します。
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)

		requestsTotal.Add(1)
		if writer.status >= http.StatusInternalServerError {
			requestsErrors.Add(1)
		}

		log.Printf("request method=%s path=%s status=%d duration_ms=%d",
			r.Method, r.URL.Path, writer.status, time.Since(start).Milliseconds())
	})
}

func logWriteFailure(r *http.Request, err error) {
	log.Printf("response write failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
}
