package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/city-weather/internal/apperror"
	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/fakhrymubarak/city-weather/internal/redis"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

const opResolve = "geocode.resolve"

// ResolveOptions tunes a single resolution. An empty Language uses the configured default.
type ResolveOptions struct {
	Language string
}

// LocationResolver maps free-text place names to coordinates.
type LocationResolver interface {
	Resolve(ctx context.Context, query string, opts ResolveOptions) (*model.Place, error)
}

// PlaceCache is the resolver's cache. Get returns redis.ErrCacheMiss for absent keys.
type PlaceCache interface {
	Get(ctx context.Context, query string) (*model.Place, error)
	Set(ctx context.Context, query string, place *model.Place) error
}

// GeocodeRepositoryConfig holds the Nominatim settings.
type GeocodeRepositoryConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	Breaker   *gobreaker.CircuitBreaker
}

// DefaultGeocodeRepositoryConfig reads the nominatim section of the config.
func DefaultGeocodeRepositoryConfig() GeocodeRepositoryConfig {
	return GeocodeRepositoryConfig{
		BaseURL:   config.GetNominatimApiUrl(),
		UserAgent: config.GetNominatimUserAgent(),
		Language:  config.GetNominatimLanguage(),
		Breaker:   NewCircuitBreaker("nominatim", config.GetCircuitBreakerConfig()),
	}
}

// geocodeRepository implements LocationResolver against Nominatim.
type geocodeRepository struct {
	upstream  *upstream
	cache     PlaceCache
	userAgent string
	language  string
	inflight  singleflight.Group
}

// NewGeocodeRepository creates a resolver. cache may be nil to disable caching.
func NewGeocodeRepository(cfg GeocodeRepositoryConfig, cache PlaceCache, httpClient ...*http.Client) LocationResolver {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	return &geocodeRepository{
		upstream:  newUpstream("nominatim", cfg.BaseURL, cfg.Breaker, httpClient...),
		cache:     cache,
		userAgent: cfg.UserAgent,
		language:  lang,
	}
}

// Resolve returns the top-ranked place for query. The query is used verbatim as the cache key.
func (r *geocodeRepository) Resolve(ctx context.Context, query string, opts ResolveOptions) (*model.Place, error) {
	if query == "" {
		return nil, apperror.Validation(opResolve, "query required")
	}
	if place, ok := r.getFromCache(ctx, query); ok {
		return place, nil
	}

	lang := opts.Language
	if lang == "" {
		lang = r.language
	}

	// Identical concurrent misses share one lookup. The lookup runs detached from any
	// single caller; each caller stops waiting when its own context is done.
	shared := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(query+"\x00"+lang, func() (interface{}, error) {
		place, err := r.fetchFromNominatim(shared, query, lang)
		if err != nil {
			return nil, err
		}
		r.cachePlace(shared, query, place)
		return *place, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, apperror.Transport(opResolve, 0, "", ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	place := res.Val.(model.Place)
	return &place, nil
}

func (r *geocodeRepository) getFromCache(ctx context.Context, query string) (*model.Place, bool) {
	if r.cache == nil {
		return nil, false
	}
	place, err := r.cache.Get(ctx, query)
	switch {
	case err == nil && place != nil:
		r.upstream.metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return place, true
	case err == nil, errors.Is(err, redis.ErrCacheMiss):
		r.upstream.metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
	default:
		r.upstream.metrics.GeocodeCacheTotal.WithLabelValues("error").Inc()
		config.GetLogger().Warnw("Geocode cache read failed", "query", query, "error", err)
	}
	return nil, false
}

func (r *geocodeRepository) cachePlace(ctx context.Context, query string, place *model.Place) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, query, place); err != nil {
		config.GetLogger().Warnw("Geocode cache write failed", "query", query, "error", err)
	}
}

func (r *geocodeRepository) fetchFromNominatim(ctx context.Context, query, lang string) (*model.Place, error) {
	params := map[string]string{
		"q":               query,
		"format":          "jsonv2",
		"limit":           "1",
		"accept-language": lang,
	}
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": r.userAgent,
	}
	body, err := r.upstream.get(ctx, opResolve, "/search", params, headers)
	if err != nil {
		return nil, err
	}

	var results []model.NominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Anything but an array is treated like an empty result set.
			return nil, apperror.NotFound(opResolve, "no place matches "+strconv.Quote(query))
		}
		return nil, apperror.Malformed(opResolve, err)
	}
	if len(results) == 0 {
		return nil, apperror.NotFound(opResolve, "no place matches "+strconv.Quote(query))
	}
	return toPlace(results[0])
}

func toPlace(top model.NominatimResult) (*model.Place, error) {
	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return nil, apperror.Malformed(opResolve, errors.Wrapf(err, "latitude %q", top.Lat))
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return nil, apperror.Malformed(opResolve, errors.Wrapf(err, "longitude %q", top.Lon))
	}
	name := top.DisplayName
	if name == "" {
		name = top.Name
	}
	return &model.Place{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: name,
		SourceType:  top.Type,
	}, nil
}
