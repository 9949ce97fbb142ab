package service

import (
	"context"

	"github.com/fakhrymubarak/city-weather/internal/apperror"
	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/forecast"
	"github.com/fakhrymubarak/city-weather/internal/metrics"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/fakhrymubarak/city-weather/internal/redis"
	"github.com/fakhrymubarak/city-weather/internal/repository"
	"golang.org/x/sync/errgroup"
)

const opCurrentWithFallback = "weather.current_with_fallback"

// Fallback stages reported in an AggregateError.
const (
	StageGeocode = "geocode"
	StageWeather = "weather"
)

// WeatherServiceInterface is what the handlers, CLI and scheduler depend on.
type WeatherServiceInterface interface {
	Resolve(ctx context.Context, query, language string) (*model.Place, error)
	CurrentByName(ctx context.Context, name string) (*model.CurrentConditions, error)
	CurrentByNameWithFallback(ctx context.Context, name string) (*model.CurrentConditions, error)
	Detail(ctx context.Context, city string, days int) (*model.Detail, error)
	FetchCities(ctx context.Context, cities []string) model.BatchResult
	MajorCities(ctx context.Context) model.BatchResult
}

// WeatherService composes the location resolver and the weather repository.
type WeatherService struct {
	Resolver        repository.LocationResolver
	WeatherRepo     repository.WeatherRepository
	Cities          []string
	ForecastDays    int
	GeocodeLanguage string
}

// NewWeatherService wires the service. Nil collaborators are built from config.
func NewWeatherService(resolver repository.LocationResolver, weatherRepo repository.WeatherRepository) *WeatherService {
	if resolver == nil {
		cache := redis.NewPlaceCache(redis.GetClient(), config.GetCachePrefix(), config.GetCacheExpiration())
		resolver = repository.NewGeocodeRepository(repository.DefaultGeocodeRepositoryConfig(), cache)
	}
	if weatherRepo == nil {
		weatherRepo = repository.NewWeatherRepository(repository.DefaultWeatherRepositoryConfig())
	}
	return &WeatherService{
		Resolver:        resolver,
		WeatherRepo:     weatherRepo,
		Cities:          config.GetMajorCities(),
		ForecastDays:    config.GetForecastMaxDays(),
		GeocodeLanguage: config.GetNominatimLanguage(),
	}
}

func (s *WeatherService) Resolve(ctx context.Context, query, language string) (*model.Place, error) {
	return s.Resolver.Resolve(ctx, query, repository.ResolveOptions{Language: language})
}

// CurrentByName is the direct provider lookup, without coordinate resolution.
func (s *WeatherService) CurrentByName(ctx context.Context, name string) (*model.CurrentConditions, error) {
	return s.WeatherRepo.CurrentByName(ctx, name)
}

// CurrentByNameWithFallback geocodes name and queries the provider by coordinates.
// Failures come back as an *apperror.AggregateError naming the stage that failed.
func (s *WeatherService) CurrentByNameWithFallback(ctx context.Context, name string) (*model.CurrentConditions, error) {
	if name == "" {
		return nil, apperror.Validation(opCurrentWithFallback, "city name required")
	}

	place, err := s.Resolve(ctx, name, s.GeocodeLanguage)
	if err != nil {
		return nil, &apperror.AggregateError{
			Op:     opCurrentWithFallback,
			Causes: []apperror.Cause{{Stage: StageGeocode, Err: err}},
		}
	}

	current, err := s.WeatherRepo.CurrentByCoordinates(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return nil, &apperror.AggregateError{
			Op:     opCurrentWithFallback,
			Causes: []apperror.Cause{{Stage: StageWeather, Err: err}},
		}
	}
	return current, nil
}

// Detail resolves city, then loads current conditions and a daily forecast digest.
// days <= 0 uses the configured default.
func (s *WeatherService) Detail(ctx context.Context, city string, days int) (*model.Detail, error) {
	if days <= 0 {
		days = s.ForecastDays
	}

	place, err := s.Resolve(ctx, city, s.GeocodeLanguage)
	if err != nil {
		return nil, err
	}
	current, err := s.WeatherRepo.CurrentByCoordinates(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return nil, err
	}
	samples, err := s.WeatherRepo.ForecastByCoordinates(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return nil, err
	}

	return &model.Detail{
		Query:   city,
		Place:   *place,
		Current: *current,
		IconURL: current.IconURL(),
		Daily:   forecast.Summarize(samples, days),
		Theme:   string(ThemeFor(current.ConditionMain)),
	}, nil
}

// FetchCities looks up every city concurrently. Each failure is recorded in its
// own result; the batch never fails as a whole.
func (s *WeatherService) FetchCities(ctx context.Context, cities []string) model.BatchResult {
	results := make([]model.CityResult, len(cities))

	var g errgroup.Group
	for i, city := range cities {
		i, city := i, city
		g.Go(func() error {
			results[i] = s.fetchCity(ctx, city)
			return nil
		})
	}
	_ = g.Wait()

	batch := model.BatchResult{Results: results}
	for _, r := range results {
		if r.Status == model.CityStatusOK {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
		metrics.Default().BatchCitiesTotal.WithLabelValues(string(r.Status)).Inc()
	}
	if batch.Failed > 0 {
		config.GetLogger().Warnw("Some city lookups failed", "failed", batch.Failed, "succeeded", batch.Succeeded)
	}
	return batch
}

// MajorCities runs FetchCities over the configured city list.
func (s *WeatherService) MajorCities(ctx context.Context) model.BatchResult {
	return s.FetchCities(ctx, s.Cities)
}

func (s *WeatherService) fetchCity(ctx context.Context, city string) model.CityResult {
	current, err := s.CurrentByNameWithFallback(ctx, city)
	if err != nil {
		config.GetLogger().Infow("City lookup failed", "city", city, "kind", apperror.KindOf(err), "error", err)
		return model.CityResult{
			City:      city,
			Status:    model.CityStatusUnavailable,
			Error:     err.Error(),
			ErrorKind: string(apperror.KindOf(err)),
			Err:       err,
		}
	}
	return model.CityResult{
		City:       city,
		Status:     model.CityStatusOK,
		Conditions: current,
		IconURL:    current.IconURL(),
	}
}
