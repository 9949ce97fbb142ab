package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/city-weather/internal/apperror"
	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/fakhrymubarak/city-weather/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
}

func NewWeatherHandler(svc ...service.WeatherServiceInterface) *WeatherHandler {
	var weatherService service.WeatherServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		weatherService = svc[0]
	} else {
		weatherService = service.NewWeatherService(nil, nil)
	}
	return &WeatherHandler{
		WeatherService: weatherService,
	}
}

type currentQuery struct {
	Location string `validate:"required,max=200"`
	Direct   bool
}

type detailQuery struct {
	Location string `validate:"required,max=200"`
	Days     int    `validate:"omitempty,min=1,max=5"`
}

type geocodeQuery struct {
	Query    string `validate:"required,max=200"`
	Language string `validate:"omitempty,max=35"`
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeBadRequest(w http.ResponseWriter, msg string) {
	h.writeJSONResponse(w, http.StatusBadRequest, model.Response{
		Error:   &msg,
		Kind:    string(apperror.KindValidation),
		Message: "Error",
	})
}

// writeError maps an error kind to a status code.
func (h *WeatherHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := http.StatusBadGateway
	errMsg := "Failed to fetch weather data"
	switch kind {
	case apperror.KindValidation:
		status, errMsg = http.StatusBadRequest, err.Error()
	case apperror.KindNotFound:
		status, errMsg = http.StatusNotFound, "Location not found"
	case apperror.KindConfig:
		status = http.StatusInternalServerError
	}
	config.GetLogger().Warnw("Request failed", "path", r.URL.Path, "kind", kind, "stage", apperror.Stage(err), "error", err)
	h.writeJSONResponse(w, status, model.Response{
		Error:   &errMsg,
		Kind:    string(kind),
		Message: "Error",
	})
}

// HandleWeather serves current conditions for ?location=, via geocoding unless direct=true.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	q := currentQuery{
		Location: r.URL.Query().Get("location"),
		Direct:   r.URL.Query().Get("direct") == "true",
	}
	if q.Location == "" {
		h.writeBadRequest(w, "Missing 'location' query parameter")
		return
	}
	if err := validate.Struct(q); err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}

	var (
		current *model.CurrentConditions
		err     error
	)
	if q.Direct {
		current, err = h.WeatherService.CurrentByName(r.Context(), q.Location)
	} else {
		current, err = h.WeatherService.CurrentByNameWithFallback(r.Context(), q.Location)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    current,
		Message: "Success",
	})
}

// HandleDetail serves the detail view for ?location=&days=.
func (h *WeatherHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	q := detailQuery{Location: r.URL.Query().Get("location")}
	if q.Location == "" {
		h.writeBadRequest(w, "Missing 'location' query parameter")
		return
	}
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			h.writeBadRequest(w, "'days' must be an integer")
			return
		}
		q.Days = days
		if days == 0 {
			h.writeBadRequest(w, "'days' must be between 1 and 5")
			return
		}
	}
	if err := validate.Struct(q); err != nil {
		h.writeBadRequest(w, detailValidationMessage(err))
		return
	}

	detail, err := h.WeatherService.Detail(r.Context(), q.Location, q.Days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    detail,
		Message: "Success",
	})
}

func detailValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Days" {
		return "'days' must be between 1 and 5"
	}
	return err.Error()
}

// HandleMajorCities serves the configured city batch. Partial failures still return 200.
func (h *WeatherHandler) HandleMajorCities(w http.ResponseWriter, r *http.Request) {
	batch := h.WeatherService.MajorCities(r.Context())
	msg := "Success"
	switch {
	case batch.AllFailed():
		msg = "No city data available"
	case batch.Failed > 0:
		msg = "Some cities are unavailable"
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    batch,
		Message: msg,
	})
}

// HandleGeocode resolves ?q= to a place.
func (h *WeatherHandler) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	q := geocodeQuery{
		Query:    r.URL.Query().Get("q"),
		Language: r.URL.Query().Get("lang"),
	}
	if q.Query == "" {
		h.writeBadRequest(w, "Missing 'q' query parameter")
		return
	}
	if err := validate.Struct(q); err != nil {
		h.writeBadRequest(w, err.Error())
		return
	}

	place, err := h.WeatherService.Resolve(r.Context(), q.Query, q.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    place,
		Message: "Success",
	})
}
