package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "cineplan/internal/adapters/http_server"
	"cineplan/internal/adapters/llm"
	"cineplan/internal/adapters/nominatim"
	"cineplan/internal/adapters/observability"
	redisad "cineplan/internal/adapters/redis"
	"cineplan/internal/app"
	"cineplan/internal/catalog"
	"cineplan/internal/domain"
	"cineplan/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// venue catalog: missing or corrupt data is a startup failure
	f, err := os.Open(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).
			Msg("venue catalog missing; run cmd/geocoder to produce it")
	}
	cat, ignored, err := catalog.Load(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("venue catalog is corrupt")
	}
	if ignored > 0 {
		log.Info().Int("ignored", ignored).Msg("venues without valid coordinates were ignored at load")
	}
	log.Info().Int("venues", cat.Len()).Msg("venue catalog loaded")

	// geocoding with a per-raw-label redis cache
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	var geocoder domain.Geocoder = nominatim.New(cfg.NominatimBase, cfg.GeocodeUA, cfg.GeocodeRPS)
	geocoder = nominatim.NewCached(geocoder, cache, int(cfg.GeoCacheTTL.Seconds()))

	sel := app.NewSelector(geocoder, cat)

	// free-text parsing is optional; the pre-parsed API paths work without it
	var parser domain.IntentParser
	if cfg.LLMKey != "" {
		p, err := llm.New(cfg.LLMBase, cfg.LLMKey, cfg.LLMModel, 2)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize LLM client")
		}
		parser = p
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Store:         app.NewSessionStore(),
		Planner:       app.NewPlanner(sel),
		Refiner:       app.NewRefiner(sel),
		Parser:        parser,
		DefaultRadius: cfg.SearchRadius,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
