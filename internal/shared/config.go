package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	CatalogPath   string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	NominatimBase string
	GeocodeUA     string
	GeocodeRPS    int
	LLMBase       string
	LLMKey        string
	LLMModel      string
	Workers       int
	SearchRadius  float64
	GeoCacheTTL   time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		CatalogPath:   env("CATALOG_PATH", "cinemas_groupedBig.json"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		NominatimBase: env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUA:     env("GEOCODER_USER_AGENT", "CinemaMapApp/1.0 (App)"),
		GeocodeRPS:    atoi("GEOCODER_RPS", 1),
		LLMBase:       env("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		LLMKey:        env("OPENAI_API_KEY", ""),
		LLMModel:      env("OPENAI_MODEL", "gpt-4o"),
		Workers:       atoi("GEOCODE_WORKERS", 4),
		SearchRadius:  float64(atoi("SEARCH_RADIUS_KM", 50)),
		GeoCacheTTL:   time.Duration(atoi("GEO_CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.LLMKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty; free-text parsing disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
