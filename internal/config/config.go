package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test")
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_header_timeout", "15s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")

	viper.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5")
	viper.SetDefault("openweathermap.language", "kr")

	viper.SetDefault("nominatim.api_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("nominatim.user_agent", "K-Weather/1.0 (example@example.com)")
	viper.SetDefault("nominatim.language", "en")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("cache.prefix", "geo_cache_")
	viper.SetDefault("cache.expiration", "30m")

	viper.SetDefault("forecast.max_days", 5)
	viper.SetDefault("cities.major", []string{"서울", "부산", "대구", "인천", "제주"})
	viper.SetDefault("scheduler.warmup_interval", "15m")
	viper.SetDefault("http.timeout", "10s")

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 5)
	viper.SetDefault("circuit_breaker.interval", "1m")
	viper.SetDefault("circuit_breaker.timeout", "2m")
}

func initConfig() {
	once.Do(func() {
		setDefaults()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
			return
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file, using defaults", "error", err)
		}

		if !isTestRun() {
			return
		}
		viper.SetConfigName("config_test")
		if err = viper.MergeInConfig(); err != nil {
			GetLogger().Warnw("Error merging test config file", "error", err)
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

// GetOpenWeatherMapAPIKey reads the credential from the environment (optionally a .env file),
// falling back to openweathermap.api_key in the config.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	if key := os.Getenv("OPENWEATHERMAP_API_KEY"); key != "" {
		return key
	}
	initConfig()
	return viper.GetString("openweathermap.api_key")
}

func GetOpenWeatherLanguage() string {
	initConfig()
	return viper.GetString("openweathermap.language")
}

func GetNominatimApiUrl() string {
	initConfig()
	return viper.GetString("nominatim.api_url")
}

func GetNominatimUserAgent() string {
	initConfig()
	return viper.GetString("nominatim.user_agent")
}

func GetNominatimLanguage() string {
	initConfig()
	return viper.GetString("nominatim.language")
}

func GetRedisAddr() string {
	initConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return viper.GetString("server.port")
}

func GetCachePrefix() string {
	initConfig()
	return viper.GetString("cache.prefix")
}

// GetCacheExpiration returns the geocode cache TTL. Defaults to 30m if invalid.
func GetCacheExpiration() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("cache.expiration"), 30*time.Minute)
}

// GetServerTimeout returns one of the server.*_timeout values.
func GetServerTimeout(key string) time.Duration {
	initConfig()
	return parseDuration(viper.GetString("server."+key), 15*time.Second)
}

func GetHTTPTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("http.timeout"), 10*time.Second)
}

func GetForecastMaxDays() int {
	initConfig()
	days := viper.GetInt("forecast.max_days")
	if days <= 0 {
		return 5
	}
	return days
}

func GetMajorCities() []string {
	initConfig()
	return viper.GetStringSlice("cities.major")
}

func GetWarmupInterval() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("scheduler.warmup_interval"), 15*time.Minute)
}

// CircuitBreakerConfig mirrors the circuit_breaker section.
type CircuitBreakerConfig struct {
	Enabled     bool
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

func GetCircuitBreakerConfig() CircuitBreakerConfig {
	initConfig()
	return CircuitBreakerConfig{
		Enabled:     viper.GetBool("circuit_breaker.enabled"),
		MaxRequests: viper.GetUint32("circuit_breaker.max_requests"),
		Interval:    parseDuration(viper.GetString("circuit_breaker.interval"), time.Minute),
		Timeout:     parseDuration(viper.GetString("circuit_breaker.timeout"), 2*time.Minute),
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("rate_limiter.cleanup_timeout"), 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
// Rate is expressed in requests per minute.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
