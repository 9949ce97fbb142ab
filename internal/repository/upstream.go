package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/fakhrymubarak/city-weather/internal/apperror"
	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// upstream is one remote provider: a resty client and an optional circuit breaker.
type upstream struct {
	name    string
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Collector
}

// NewCircuitBreaker builds a breaker for the named provider, or returns nil when disabled.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			config.GetLogger().Warnw("Circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	})
}

func newUpstream(name, baseURL string, breaker *gobreaker.CircuitBreaker, httpClient ...*http.Client) *upstream {
	hc := &http.Client{Timeout: config.GetHTTPTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &upstream{
		name:    name,
		client:  resty.NewWithClient(hc).SetBaseURL(baseURL),
		breaker: breaker,
		metrics: metrics.Default(),
	}
}

// get issues a single GET and returns the body of a 2xx response. There are no retries.
func (u *upstream) get(ctx context.Context, op, path string, params, headers map[string]string) ([]byte, error) {
	start := time.Now()
	call := func() (interface{}, error) {
		resp, err := u.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetHeaders(headers).
			Get(path)
		if err != nil {
			return nil, apperror.Transport(op, 0, "", err)
		}
		if !resp.IsSuccess() {
			return nil, apperror.Transport(op, resp.StatusCode(), resp.String(), nil)
		}
		return resp.Body(), nil
	}

	var (
		result interface{}
		err    error
	)
	if u.breaker != nil {
		result, err = u.breaker.Execute(call)
	} else {
		result, err = call()
	}
	u.metrics.UpstreamDuration.WithLabelValues(u.name).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		u.metrics.UpstreamRequestsTotal.WithLabelValues(u.name, path, "circuit_open").Inc()
		return nil, apperror.Transport(op, 0, "", err)
	case err != nil:
		u.metrics.UpstreamRequestsTotal.WithLabelValues(u.name, path, "error").Inc()
		return nil, err
	}
	u.metrics.UpstreamRequestsTotal.WithLabelValues(u.name, path, "ok").Inc()
	return result.([]byte), nil
}
