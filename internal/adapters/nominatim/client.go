package nominatim

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cineplan/internal/adapters/observability"
	"cineplan/internal/domain"
	"cineplan/internal/geo"
)

// Client geocodes free-text place labels against a Nominatim instance.
// Vague regional labels go through the alias table first, and every query
// is pinned to France unless the caller already did so.
type Client struct {
	base string
	hc   *http.Client
	ua   string
	rl   *rate.Limiter
}

const defaultTimeout = 10 * time.Second

func New(base, userAgent string, rps int) *Client {
	if rps <= 0 {
		rps = 1 // Nominatim usage policy: stay polite by default
	}
	if userAgent == "" {
		userAgent = "cineplan/1.0"
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: defaultTimeout},
		ua:   userAgent,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve implements domain.Geocoder. It returns domain.ErrGeoNotFound when
// the service knows no such place and domain.ErrGeoUnavailable on timeout or
// transport failure; nothing else escapes this boundary.
func (c *Client) Resolve(ctx context.Context, label string) (geo.Coordinate, error) {
	query := label
	if corrected, ok := resolveAlias(label); ok {
		query = corrected
	}
	if !strings.Contains(strings.ToLower(query), ", france") {
		query += ", France"
	}

	u := fmt.Sprintf("%s/search?%s", c.base, url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode())

	var out []searchResult
	start := time.Now()
	err := c.get(ctx, u, &out)
	observability.ObserveExternal("nominatim", "search", statusOf(err), time.Since(start))
	if err != nil {
		if errors.Is(err, domain.ErrGeoNotFound) {
			return geo.Coordinate{}, domain.ErrGeoNotFound
		}
		return geo.Coordinate{}, fmt.Errorf("%w: %s", domain.ErrGeoUnavailable, err)
	}
	if len(out) == 0 {
		return geo.Coordinate{}, domain.ErrGeoNotFound
	}

	lat, err1 := strconv.ParseFloat(out[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(out[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return geo.Coordinate{}, domain.ErrGeoNotFound
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return 0
}

// get performs a GET with client-side rate limiting, retries on transient
// failures, and JSON decode into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 2 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrGeoNotFound

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			resp.Body.Close()
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 2 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			resp.Body.Close()
			return fmt.Errorf("bad status %d", resp.StatusCode)
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff doubles each attempt (200ms, 400ms, ...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
