package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/city-weather/internal/apperror"
	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/sony/gobreaker"
)

const (
	opCurrent       = "weather.current"
	opCurrentByName = "weather.current_by_name"
	opForecast      = "weather.forecast"
)

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.CurrentConditions, error)
	ForecastByCoordinates(ctx context.Context, lat, lon float64) ([]model.ForecastSample, error)
	CurrentByName(ctx context.Context, name string) (*model.CurrentConditions, error)
}

// WeatherRepositoryConfig holds the OpenWeatherMap settings.
type WeatherRepositoryConfig struct {
	BaseURL  string
	APIKey   string
	Language string
	Breaker  *gobreaker.CircuitBreaker
}

// DefaultWeatherRepositoryConfig reads the openweathermap section of the config.
func DefaultWeatherRepositoryConfig() WeatherRepositoryConfig {
	return WeatherRepositoryConfig{
		BaseURL:  config.GetOpenWeatherApiUrl(),
		APIKey:   config.GetOpenWeatherMapAPIKey(),
		Language: config.GetOpenWeatherLanguage(),
		Breaker:  NewCircuitBreaker("openweathermap", config.GetCircuitBreakerConfig()),
	}
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	upstream *upstream
	apiKey   string
	language string
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(cfg WeatherRepositoryConfig, httpClient ...*http.Client) WeatherRepository {
	return &weatherRepository{
		upstream: newUpstream("openweathermap", cfg.BaseURL, cfg.Breaker, httpClient...),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
	}
}

func (r *weatherRepository) params(extra map[string]string) map[string]string {
	p := map[string]string{
		"appid": r.apiKey,
		"units": "metric",
	}
	if r.language != "" {
		p["lang"] = r.language
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func coordinates(lat, lon float64) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(lon, 'f', -1, 64),
	}
}

// CurrentByCoordinates fetches current conditions at a point.
func (r *weatherRepository) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.CurrentConditions, error) {
	return r.current(ctx, opCurrent, coordinates(lat, lon))
}

// CurrentByName asks the provider to resolve name itself. No fallback is attempted.
func (r *weatherRepository) CurrentByName(ctx context.Context, name string) (*model.CurrentConditions, error) {
	if name == "" {
		return nil, apperror.Validation(opCurrentByName, "name required")
	}
	return r.current(ctx, opCurrentByName, map[string]string{"q": name})
}

func (r *weatherRepository) current(ctx context.Context, op string, query map[string]string) (*model.CurrentConditions, error) {
	if r.apiKey == "" {
		return nil, apperror.Config(op, "OPENWEATHERMAP_API_KEY is not set")
	}
	body, err := r.upstream.get(ctx, op, "/weather", r.params(query), nil)
	if err != nil {
		return nil, err
	}

	var data model.OpenWeatherMapResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apperror.Malformed(op, err)
	}
	conditions := data.Conditions()
	return &conditions, nil
}

// ForecastByCoordinates fetches the multi-day 3-hourly forecast at a point.
func (r *weatherRepository) ForecastByCoordinates(ctx context.Context, lat, lon float64) ([]model.ForecastSample, error) {
	if r.apiKey == "" {
		return nil, apperror.Config(opForecast, "OPENWEATHERMAP_API_KEY is not set")
	}
	body, err := r.upstream.get(ctx, opForecast, "/forecast", r.params(coordinates(lat, lon)), nil)
	if err != nil {
		return nil, err
	}

	var data model.ForecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apperror.Malformed(opForecast, err)
	}
	return data.Samples(), nil
}
