package middleware

import (
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/metrics"
	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics counts requests per route template and status, and logs each request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.Default().HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		config.GetLogger().Infow("Handled request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"request_id", RequestIDFrom(r.Context()),
		)
	})
}
