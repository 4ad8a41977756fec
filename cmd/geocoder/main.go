// Command geocoder builds the pre-geocoded venue catalog: it reads raw
// venue records, resolves missing coordinates through Nominatim with a
// bounded worker pool, and writes the enriched file cmd/api loads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"cineplan/internal/adapters/nominatim"
	"cineplan/internal/adapters/observability"
	"cineplan/internal/shared"
)

type rawVenue struct {
	Name    string          `json:"cinema"`
	Address string          `json:"adresse"`
	Lat     *float64        `json:"lat,omitempty"`
	Lon     *float64        `json:"lon,omitempty"`
	Contact json.RawMessage `json:"contact,omitempty"`
	Rooms   json.RawMessage `json:"salles"`
}

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	in := flag.String("in", "cinemas_raw.json", "raw venue records")
	out := flag.String("out", cfg.CatalogPath, "enriched catalog output")
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("cannot read raw venues")
	}
	var venues []rawVenue
	if err := json.Unmarshal(data, &venues); err != nil {
		log.Fatal().Err(err).Str("path", *in).Msg("raw venue file is not valid JSON")
	}

	log.Info().
		Str("base", cfg.NominatimBase).
		Int("workers", cfg.Workers).
		Int("venues", len(venues)).
		Msg("geocoder starting")

	geocoder := nominatim.New(cfg.NominatimBase, cfg.GeocodeUA, cfg.GeocodeRPS)

	ctx := context.Background()
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	var mu sync.Mutex
	resolved, failed := 0, 0

	for i := range venues {
		if venues[i].Lat != nil && venues[i].Lon != nil {
			continue // already geocoded
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(v *rawVenue) {
			defer wg.Done()
			defer sem.Release(1)

			coord, err := geocoder.Resolve(ctx, v.Address)
			if err != nil {
				log.Warn().Str("venue", v.Name).Err(err).Msg("geocode failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			v.Lat, v.Lon = &coord.Lat, &coord.Lon
			mu.Lock()
			resolved++
			mu.Unlock()
			log.Info().Str("venue", v.Name).Float64("lat", coord.Lat).Float64("lon", coord.Lon).Msg("geocode ok")
		}(&venues[i])
	}

	wg.Wait()

	enriched, err := json.MarshalIndent(venues, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal enriched catalog failed")
	}
	if err := os.WriteFile(*out, enriched, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("write catalog failed")
	}

	log.Info().
		Int("resolved", resolved).
		Int("failed", failed).
		Str("out", *out).
		Msg("geocoding completed")
}
