// Package store persists the organisation catalogue. Postgres is the
// production backend; SQLite backs local runs and scratch environments.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// Store defines the persistence interface for the import pipeline. Lookup
// methods return (nil, nil) on a miss; only infrastructure failures surface
// as errors.
type Store interface {
	// Countries
	CountryByName(ctx context.Context, name string) (*model.Country, error)
	CountryByAlpha2(ctx context.Context, alpha2 string) (*model.Country, error)
	SeedCountries(ctx context.Context, countries []model.Country) error

	// Organisations
	OrganisationByMatchHash(ctx context.Context, hash string) (*model.Organisation, error)
	// CreateOrganisation inserts the organisation, assigning a
	// collision-free slug derived from org.Slug, and sets ID, Slug and the
	// timestamps on the passed value.
	CreateOrganisation(ctx context.Context, org *model.Organisation) error
	UpdateOrganisation(ctx context.Context, org *model.Organisation) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Lookups and associations
	LookupIDByName(ctx context.Context, category model.AssociationCategory, name string) (*int64, error)
	SeedLookups(ctx context.Context, category model.AssociationCategory, names []string) error
	// SyncAssociations replaces the organisation's tags in every given
	// category with exactly the provided ids, all within one transaction.
	SyncAssociations(ctx context.Context, orgID int64, assoc map[model.AssociationCategory][]int64) error

	// Logos
	LogoByOrganisation(ctx context.Context, orgID int64) (*model.Logo, error)
	UpsertLogo(ctx context.Context, logo *model.Logo) error
	DeleteLogo(ctx context.Context, orgID int64) error

	// Geocode response cache
	GetGeocodeCache(ctx context.Context, key string) (json.RawMessage, bool, error)
	PutGeocodeCache(ctx context.Context, key, source string, direction geocode.Direction, response json.RawMessage, ttl time.Duration) error
	SweepExpiredGeocodeCache(ctx context.Context) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// GeocodeCache adapts a Store to the geocode.Cache interface.
type GeocodeCache struct {
	store Store
}

// NewGeocodeCache wires the store's geocoding_cache table into the geocode
// client.
func NewGeocodeCache(s Store) *GeocodeCache {
	return &GeocodeCache{store: s}
}

func (c *GeocodeCache) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	return c.store.GetGeocodeCache(ctx, key)
}

func (c *GeocodeCache) Put(ctx context.Context, key, source string, direction geocode.Direction, response json.RawMessage, ttl time.Duration) error {
	return c.store.PutGeocodeCache(ctx, key, source, direction, response, ttl)
}
