package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ailandscape/landscape-cli/internal/store"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "landscape.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initGeocoder(s store.Store) (geocode.Client, error) {
	if cfg.Geocoder.Key == "" {
		return nil, eris.New("geocoder API key is required (LANDSCAPE_GEOCODER_KEY)")
	}

	opts := []geocode.Option{
		geocode.WithCache(store.NewGeocodeCache(s)),
		geocode.WithLanguage(cfg.Geocoder.Language),
		geocode.WithRateLimit(cfg.Geocoder.RequestsPerSecond),
		geocode.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second,
		}),
	}
	if cfg.Geocoder.BaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(cfg.Geocoder.BaseURL))
	}

	return geocode.NewClient(cfg.Geocoder.Key, opts...), nil
}
