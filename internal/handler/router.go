package handler

import (
	"net/http"

	"github.com/fakhrymubarak/city-weather/internal/metrics"
	"github.com/fakhrymubarak/city-weather/internal/middleware"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/gorilla/mux"
)

// NewRouter registers the API routes with request-id, metrics and rate-limit middleware.
func NewRouter(h *WeatherHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Metrics)

	limited := func(fn http.HandlerFunc) http.Handler {
		return middleware.RateLimitMiddleware(fn)
	}
	r.Handle("/weather", limited(h.HandleWeather)).Methods(http.MethodGet)
	r.Handle("/weather/detail", limited(h.HandleDetail)).Methods(http.MethodGet)
	r.Handle("/weather/major", limited(h.HandleMajorCities)).Methods(http.MethodGet)
	r.Handle("/geocode", limited(h.HandleGeocode)).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Default().Handler()).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		errMsg := "Method not allowed"
		w.Header().Set("Allow", http.MethodGet)
		h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.Response{
			Error:   &errMsg,
			Message: "Error",
		})
	})
	return r
}
