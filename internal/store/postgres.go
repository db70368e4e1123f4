package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ailandscape/landscape-cli/internal/db"
	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists the hot-path queries to prepare on each new
// connection. A bulk import hits these once or more per row.
var preparedStatements = map[string]string{
	"org_by_match_hash": `SELECT ` + organisationColumns + ` FROM organisations WHERE match_hash = $1`,
	"slug_exists":       `SELECT EXISTS (SELECT 1 FROM organisations WHERE slug = $1)`,
	"country_by_name":   `SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE lower(name) = lower($1)`,
	"lookup_by_name":    `SELECT id FROM lookups WHERE category = $1 AND lower(name) = lower($2)`,
	"geocache_get":      `SELECT response FROM geocoding_cache WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
	"logo_by_org":       `SELECT id, uuid, organisation_id, filename, original_filename, file_extension, mime_type, alt, width, height, size, source, created_at, updated_at FROM logos WHERE organisation_id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access (e.g. country seeding).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS countries (
	id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	slug   TEXT NOT NULL UNIQUE,
	name   TEXT NOT NULL,
	alpha2 TEXT NOT NULL UNIQUE,
	alpha3 TEXT NOT NULL,
	lat    DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng    DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS organisations (
	id                  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	slug                TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	short_description   TEXT,
	description         TEXT,
	country_id          BIGINT REFERENCES countries(id),
	region              TEXT,
	city                TEXT,
	postal_code         TEXT,
	address_1           TEXT,
	address_2           TEXT,
	formatted_address   TEXT,
	lat                 DOUBLE PRECISION,
	lng                 DOUBLE PRECISION,
	location_confidence INTEGER,
	location_source     TEXT,
	location_data       JSONB,
	website_url         TEXT,
	social_bluesky      TEXT,
	social_facebook     TEXT,
	social_instagram    TEXT,
	social_linkedin     TEXT,
	social_x            TEXT,
	marketplace_slug    TEXT,
	founding_year       INTEGER,
	number_of_employees INTEGER,
	turnover            INTEGER,
	source              TEXT NOT NULL,
	is_active           BOOLEAN NOT NULL DEFAULT true,
	match_hash          TEXT NOT NULL UNIQUE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_organisations_match_hash ON organisations(match_hash);
CREATE INDEX IF NOT EXISTS idx_organisations_country_id ON organisations(country_id);

CREATE TABLE IF NOT EXISTS lookups (
	id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	category TEXT NOT NULL,
	name     TEXT NOT NULL,
	UNIQUE (category, name)
);

CREATE INDEX IF NOT EXISTS idx_lookups_category ON lookups(category);

CREATE TABLE IF NOT EXISTS organisation_associations (
	organisation_id BIGINT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
	category        TEXT NOT NULL,
	lookup_id       BIGINT NOT NULL REFERENCES lookups(id) ON DELETE CASCADE,
	PRIMARY KEY (organisation_id, category, lookup_id)
);

CREATE INDEX IF NOT EXISTS idx_org_assoc_lookup ON organisation_associations(lookup_id);

CREATE TABLE IF NOT EXISTS logos (
	id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	uuid              TEXT NOT NULL,
	organisation_id   BIGINT NOT NULL UNIQUE REFERENCES organisations(id) ON DELETE CASCADE,
	filename          TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_extension    TEXT NOT NULL,
	mime_type         TEXT NOT NULL,
	alt               TEXT NOT NULL DEFAULT '',
	width             INTEGER NOT NULL DEFAULT 0,
	height            INTEGER NOT NULL DEFAULT 0,
	size              BIGINT NOT NULL DEFAULT 0,
	source            TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS geocoding_cache (
	id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	key        TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	direction  TEXT NOT NULL,
	response   JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_geocoding_cache_expires_at ON geocoding_cache(expires_at);
`

const organisationColumns = `id, slug, name, short_description, description, country_id, region, city, postal_code, address_1, address_2, formatted_address, lat, lng, location_confidence, location_source, location_data, website_url, social_bluesky, social_facebook, social_instagram, social_linkedin, social_x, marketplace_slug, founding_year, number_of_employees, turnover, source, is_active, match_hash, created_at, updated_at`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CountryByName(ctx context.Context, name string) (*model.Country, error) {
	return s.scanCountry(s.pool.QueryRow(ctx,
		`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE lower(name) = lower($1)`,
		strings.TrimSpace(name),
	), "postgres: country by name")
}

func (s *PostgresStore) CountryByAlpha2(ctx context.Context, alpha2 string) (*model.Country, error) {
	return s.scanCountry(s.pool.QueryRow(ctx,
		`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE alpha2 = $1`,
		strings.ToUpper(strings.TrimSpace(alpha2)),
	), "postgres: country by alpha2")
}

func (s *PostgresStore) scanCountry(row pgx.Row, op string) (*model.Country, error) {
	var c model.Country
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Alpha2, &c.Alpha3, &c.Lat, &c.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, op)
	}
	return &c, nil
}

func (s *PostgresStore) SeedCountries(ctx context.Context, countries []model.Country) error {
	rows := make([][]any, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, []any{c.Slug, c.Name, c.Alpha2, c.Alpha3, c.Lat, c.Lng})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "countries",
		Columns:      []string{"slug", "name", "alpha2", "alpha3", "lat", "lng"},
		ConflictKeys: []string{"alpha2"},
	}, rows)
	return eris.Wrap(err, "postgres: seed countries")
}

func (s *PostgresStore) OrganisationByMatchHash(ctx context.Context, hash string) (*model.Organisation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+organisationColumns+` FROM organisations WHERE match_hash = $1`, hash)

	org, err := scanOrganisation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: organisation by match hash")
	}
	return org, nil
}

func (s *PostgresStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organisations WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrap(err, "postgres: slug exists")
	}
	return exists, nil
}

func (s *PostgresStore) CreateOrganisation(ctx context.Context, org *model.Organisation) error {
	slug, err := s.resolveSlug(ctx, org)
	if err != nil {
		return err
	}
	org.Slug = slug

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	org.RecomputeMatchHash()

	err = s.pool.QueryRow(ctx,
		`INSERT INTO organisations (slug, name, short_description, description, country_id, region, city, postal_code, address_1, address_2, formatted_address, lat, lng, location_confidence, location_source, location_data, website_url, social_bluesky, social_facebook, social_instagram, social_linkedin, social_x, marketplace_slug, founding_year, number_of_employees, turnover, source, is_active, match_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		 RETURNING id`,
		org.Slug, org.Name, org.ShortDescription, org.Description, org.CountryID,
		org.Region, org.City, org.PostalCode, org.Address1, org.Address2,
		org.FormattedAddress, org.Lat, org.Lng, org.LocationConfidence,
		nullableString(string(org.LocationSource)), nullableJSON(org.LocationData),
		org.WebsiteURL, org.SocialBluesky, org.SocialFacebook, org.SocialInstagram,
		org.SocialLinkedIn, org.SocialX, org.MarketplaceSlug, org.FoundingYear,
		bandValue(org.Employees), bandValue(org.Turnover),
		string(org.Source), org.IsActive, org.MatchHash, org.CreatedAt, org.UpdatedAt,
	).Scan(&org.ID)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert organisation %q", org.Name)
	}
	return nil
}

func (s *PostgresStore) UpdateOrganisation(ctx context.Context, org *model.Organisation) error {
	org.UpdatedAt = time.Now().UTC()
	org.RecomputeMatchHash()

	tag, err := s.pool.Exec(ctx,
		`UPDATE organisations SET name = $1, short_description = $2, description = $3, country_id = $4, region = $5, city = $6, postal_code = $7, address_1 = $8, address_2 = $9, formatted_address = $10, lat = $11, lng = $12, location_confidence = $13, location_source = $14, location_data = $15, website_url = $16, social_bluesky = $17, social_facebook = $18, social_instagram = $19, social_linkedin = $20, social_x = $21, marketplace_slug = $22, founding_year = $23, number_of_employees = $24, turnover = $25, source = $26, is_active = $27, match_hash = $28, updated_at = $29 WHERE id = $30`,
		org.Name, org.ShortDescription, org.Description, org.CountryID,
		org.Region, org.City, org.PostalCode, org.Address1, org.Address2,
		org.FormattedAddress, org.Lat, org.Lng, org.LocationConfidence,
		nullableString(string(org.LocationSource)), nullableJSON(org.LocationData),
		org.WebsiteURL, org.SocialBluesky, org.SocialFacebook, org.SocialInstagram,
		org.SocialLinkedIn, org.SocialX, org.MarketplaceSlug, org.FoundingYear,
		bandValue(org.Employees), bandValue(org.Turnover),
		string(org.Source), org.IsActive, org.MatchHash, org.UpdatedAt, org.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update organisation %d", org.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("organisation not found: %d", org.ID)
	}
	return nil
}

// resolveSlug finds the first free slug for the organisation: the bare base,
// then base-<cc>, then base-<cc>-N from 2, then base-N as the countryless
// fallback.
func (s *PostgresStore) resolveSlug(ctx context.Context, org *model.Organisation) (string, error) {
	base := org.Slug
	if base == "" {
		base = model.Slugify(org.Name)
	}

	var candidates []string
	candidates = append(candidates, base)

	cc := ""
	if org.CountryID != nil {
		country, err := s.countryByID(ctx, *org.CountryID)
		if err != nil {
			return "", err
		}
		if country != nil {
			cc = strings.ToLower(country.Alpha2)
		}
	}
	if cc != "" {
		candidates = append(candidates, base+"-"+cc)
		for n := 2; n <= 50; n++ {
			candidates = append(candidates, fmt.Sprintf("%s-%s-%d", base, cc, n))
		}
	}
	for n := 2; n <= 50; n++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", base, n))
	}

	for _, candidate := range candidates {
		exists, err := s.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", eris.Errorf("postgres: no free slug for %q", base)
}

func (s *PostgresStore) countryByID(ctx context.Context, id int64) (*model.Country, error) {
	return s.scanCountry(s.pool.QueryRow(ctx,
		`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE id = $1`, id,
	), "postgres: country by id")
}

func (s *PostgresStore) LookupIDByName(ctx context.Context, category model.AssociationCategory, name string) (*int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM lookups WHERE category = $1 AND lower(name) = lower($2)`,
		string(category), strings.TrimSpace(name),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: lookup %s %q", category, name)
	}
	return &id, nil
}

func (s *PostgresStore) SeedLookups(ctx context.Context, category model.AssociationCategory, names []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: seed lookups: begin tx")
	}
	defer tx.Rollback(ctx)

	for _, name := range names {
		if _, err := tx.Exec(ctx,
			`INSERT INTO lookups (category, name) VALUES ($1, $2)
			 ON CONFLICT (category, name) DO NOTHING`,
			string(category), name,
		); err != nil {
			return eris.Wrapf(err, "postgres: seed %s lookup %q", category, name)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: seed lookups: commit")
}

func (s *PostgresStore) SyncAssociations(ctx context.Context, orgID int64, assoc map[model.AssociationCategory][]int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: sync associations: begin tx")
	}
	defer tx.Rollback(ctx)

	for _, category := range model.AssociationCategories {
		ids, ok := assoc[category]
		if !ok {
			continue
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM organisation_associations WHERE organisation_id = $1 AND category = $2`,
			orgID, string(category),
		); err != nil {
			return eris.Wrapf(err, "postgres: clear %s associations", category)
		}

		rows := make([][]any, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, []any{orgID, string(category), id})
		}
		if _, err := db.CopyFrom(ctx, tx, "organisation_associations",
			[]string{"organisation_id", "category", "lookup_id"}, rows); err != nil {
			return eris.Wrapf(err, "postgres: insert %s associations", category)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: sync associations: commit")
}

func (s *PostgresStore) LogoByOrganisation(ctx context.Context, orgID int64) (*model.Logo, error) {
	var l model.Logo
	var source string
	err := s.pool.QueryRow(ctx,
		`SELECT id, uuid, organisation_id, filename, original_filename, file_extension, mime_type, alt, width, height, size, source, created_at, updated_at FROM logos WHERE organisation_id = $1`,
		orgID,
	).Scan(&l.ID, &l.UUID, &l.OrganisationID, &l.Filename, &l.OriginalName,
		&l.FileExtension, &l.MimeType, &l.Alt, &l.Width, &l.Height, &l.Size,
		&source, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: logo for organisation %d", orgID)
	}
	l.Source = model.LogoSource(source)
	return &l, nil
}

func (s *PostgresStore) UpsertLogo(ctx context.Context, logo *model.Logo) error {
	if logo.UUID == "" {
		logo.UUID = uuid.New().String()
	}
	now := time.Now().UTC()
	if logo.CreatedAt.IsZero() {
		logo.CreatedAt = now
	}
	logo.UpdatedAt = now

	err := s.pool.QueryRow(ctx,
		`INSERT INTO logos (uuid, organisation_id, filename, original_filename, file_extension, mime_type, alt, width, height, size, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (organisation_id) DO UPDATE SET
			uuid = EXCLUDED.uuid,
			filename = EXCLUDED.filename,
			original_filename = EXCLUDED.original_filename,
			file_extension = EXCLUDED.file_extension,
			mime_type = EXCLUDED.mime_type,
			alt = EXCLUDED.alt,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			size = EXCLUDED.size,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		logo.UUID, logo.OrganisationID, logo.Filename, logo.OriginalName,
		logo.FileExtension, logo.MimeType, logo.Alt, logo.Width, logo.Height,
		logo.Size, string(logo.Source), logo.CreatedAt, logo.UpdatedAt,
	).Scan(&logo.ID)
	return eris.Wrapf(err, "postgres: upsert logo for organisation %d", logo.OrganisationID)
}

func (s *PostgresStore) DeleteLogo(ctx context.Context, orgID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM logos WHERE organisation_id = $1`, orgID)
	return eris.Wrapf(err, "postgres: delete logo for organisation %d", orgID)
}

func (s *PostgresStore) GetGeocodeCache(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var response []byte
	err := s.pool.QueryRow(ctx,
		`SELECT response FROM geocoding_cache WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&response)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "postgres: get geocode cache")
	}
	return response, true, nil
}

func (s *PostgresStore) PutGeocodeCache(ctx context.Context, key, source string, direction geocode.Direction, response json.RawMessage, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO geocoding_cache (key, source, direction, response, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (key) DO UPDATE SET
			source = EXCLUDED.source,
			direction = EXCLUDED.direction,
			response = EXCLUDED.response,
			cached_at = EXCLUDED.cached_at,
			expires_at = EXCLUDED.expires_at`,
		key, source, string(direction), []byte(response), now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: put geocode cache")
}

func (s *PostgresStore) SweepExpiredGeocodeCache(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM geocoding_cache WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: sweep geocode cache")
	}
	return tag.RowsAffected(), nil
}

// rowScanner is satisfied by pgx.Row and *sql.Row, letting both drivers
// share the organisation scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganisation(row rowScanner) (*model.Organisation, error) {
	var o model.Organisation
	var locationSource *string
	var source string
	var employees, turnover *int64

	err := row.Scan(&o.ID, &o.Slug, &o.Name, &o.ShortDescription, &o.Description,
		&o.CountryID, &o.Region, &o.City, &o.PostalCode, &o.Address1, &o.Address2,
		&o.FormattedAddress, &o.Lat, &o.Lng, &o.LocationConfidence,
		&locationSource, &o.LocationData, &o.WebsiteURL, &o.SocialBluesky,
		&o.SocialFacebook, &o.SocialInstagram, &o.SocialLinkedIn, &o.SocialX,
		&o.MarketplaceSlug, &o.FoundingYear, &employees, &turnover, &source,
		&o.IsActive, &o.MatchHash, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if locationSource != nil {
		o.LocationSource = model.LocationSource(*locationSource)
	}
	o.Source = model.OrganisationSource(source)
	if employees != nil {
		band := model.EmployeeBand(*employees)
		o.Employees = &band
	}
	if turnover != nil {
		band := model.TurnoverBand(*turnover)
		o.Turnover = &band
	}
	return &o, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

func bandValue[T ~int](band *T) *int64 {
	if band == nil {
		return nil
	}
	v := int64(*band)
	return &v
}
