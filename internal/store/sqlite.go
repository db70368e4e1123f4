package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS countries (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	slug   TEXT NOT NULL UNIQUE,
	name   TEXT NOT NULL,
	alpha2 TEXT NOT NULL UNIQUE,
	alpha3 TEXT NOT NULL,
	lat    REAL NOT NULL DEFAULT 0,
	lng    REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS organisations (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	slug                TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	short_description   TEXT,
	description         TEXT,
	country_id          INTEGER REFERENCES countries(id),
	region              TEXT,
	city                TEXT,
	postal_code         TEXT,
	address_1           TEXT,
	address_2           TEXT,
	formatted_address   TEXT,
	lat                 REAL,
	lng                 REAL,
	location_confidence INTEGER,
	location_source     TEXT,
	location_data       TEXT,
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
	is_active           BOOLEAN NOT NULL DEFAULT 1,
	match_hash          TEXT NOT NULL UNIQUE,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_organisations_match_hash ON organisations(match_hash);
CREATE INDEX IF NOT EXISTS idx_organisations_country_id ON organisations(country_id);

CREATE TABLE IF NOT EXISTS lookups (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	name     TEXT NOT NULL,
	UNIQUE (category, name)
);

CREATE TABLE IF NOT EXISTS organisation_associations (
	organisation_id INTEGER NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
	category        TEXT NOT NULL,
	lookup_id       INTEGER NOT NULL REFERENCES lookups(id) ON DELETE CASCADE,
	PRIMARY KEY (organisation_id, category, lookup_id)
);

CREATE TABLE IF NOT EXISTS logos (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid              TEXT NOT NULL,
	organisation_id   INTEGER NOT NULL UNIQUE REFERENCES organisations(id) ON DELETE CASCADE,
	filename          TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_extension    TEXT NOT NULL,
	mime_type         TEXT NOT NULL,
	alt               TEXT NOT NULL DEFAULT '',
	width             INTEGER NOT NULL DEFAULT 0,
	height            INTEGER NOT NULL DEFAULT 0,
	size              INTEGER NOT NULL DEFAULT 0,
	source            TEXT NOT NULL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS geocoding_cache (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	key        TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	direction  TEXT NOT NULL,
	response   TEXT NOT NULL,
	cached_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_geocoding_cache_expires_at ON geocoding_cache(expires_at);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CountryByName(ctx context.Context, name string) (*model.Country, error) {
	return scanSQLiteCountry(s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE lower(name) = lower(?)`,
		strings.TrimSpace(name),
	), "sqlite: country by name")
}

func (s *SQLiteStore) CountryByAlpha2(ctx context.Context, alpha2 string) (*model.Country, error) {
	return scanSQLiteCountry(s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE alpha2 = ?`,
		strings.ToUpper(strings.TrimSpace(alpha2)),
	), "sqlite: country by alpha2")
}

func scanSQLiteCountry(row *sql.Row, op string) (*model.Country, error) {
	var c model.Country
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Alpha2, &c.Alpha3, &c.Lat, &c.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, op)
	}
	return &c, nil
}

func (s *SQLiteStore) SeedCountries(ctx context.Context, countries []model.Country) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed countries: begin tx")
	}
	defer tx.Rollback()

	for _, c := range countries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO countries (slug, name, alpha2, alpha3, lat, lng) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (alpha2) DO UPDATE SET slug = excluded.slug, name = excluded.name,
				alpha3 = excluded.alpha3, lat = excluded.lat, lng = excluded.lng`,
			c.Slug, c.Name, c.Alpha2, c.Alpha3, c.Lat, c.Lng,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed country %s", c.Alpha2)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: seed countries: commit")
}

func (s *SQLiteStore) OrganisationByMatchHash(ctx context.Context, hash string) (*model.Organisation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+organisationColumns+` FROM organisations WHERE match_hash = ?`, hash)

	org, err := scanOrganisation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: organisation by match hash")
	}
	return org, nil
}

func (s *SQLiteStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM organisations WHERE slug = ?)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: slug exists")
	}
	return exists, nil
}

func (s *SQLiteStore) CreateOrganisation(ctx context.Context, org *model.Organisation) error {
	slug, err := s.resolveSlug(ctx, org)
	if err != nil {
		return err
	}
	org.Slug = slug

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	org.RecomputeMatchHash()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO organisations (slug, name, short_description, description, country_id, region, city, postal_code, address_1, address_2, formatted_address, lat, lng, location_confidence, location_source, location_data, website_url, social_bluesky, social_facebook, social_instagram, social_linkedin, social_x, marketplace_slug, founding_year, number_of_employees, turnover, source, is_active, match_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.Slug, org.Name, org.ShortDescription, org.Description, org.CountryID,
		org.Region, org.City, org.PostalCode, org.Address1, org.Address2,
		org.FormattedAddress, org.Lat, org.Lng, org.LocationConfidence,
		nullableString(string(org.LocationSource)), nullableJSON(org.LocationData),
		org.WebsiteURL, org.SocialBluesky, org.SocialFacebook, org.SocialInstagram,
		org.SocialLinkedIn, org.SocialX, org.MarketplaceSlug, org.FoundingYear,
		bandValue(org.Employees), bandValue(org.Turnover),
		string(org.Source), org.IsActive, org.MatchHash, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert organisation %q", org.Name)
	}

	org.ID, err = res.LastInsertId()
	return eris.Wrap(err, "sqlite: insert organisation id")
}

func (s *SQLiteStore) UpdateOrganisation(ctx context.Context, org *model.Organisation) error {
	org.UpdatedAt = time.Now().UTC()
	org.RecomputeMatchHash()

	res, err := s.db.ExecContext(ctx,
		`UPDATE organisations SET name = ?, short_description = ?, description = ?, country_id = ?, region = ?, city = ?, postal_code = ?, address_1 = ?, address_2 = ?, formatted_address = ?, lat = ?, lng = ?, location_confidence = ?, location_source = ?, location_data = ?, website_url = ?, social_bluesky = ?, social_facebook = ?, social_instagram = ?, social_linkedin = ?, social_x = ?, marketplace_slug = ?, founding_year = ?, number_of_employees = ?, turnover = ?, source = ?, is_active = ?, match_hash = ?, updated_at = ? WHERE id = ?`,
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
		return eris.Wrapf(err, "sqlite: update organisation %d", org.ID)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: update organisation rows affected")
	}
	if n == 0 {
		return eris.Errorf("organisation not found: %d", org.ID)
	}
	return nil
}

func (s *SQLiteStore) resolveSlug(ctx context.Context, org *model.Organisation) (string, error) {
	base := org.Slug
	if base == "" {
		base = model.Slugify(org.Name)
	}

	var candidates []string
	candidates = append(candidates, base)

	cc := ""
	if org.CountryID != nil {
		country, err := scanSQLiteCountry(s.db.QueryRowContext(ctx,
			`SELECT id, slug, name, alpha2, alpha3, lat, lng FROM countries WHERE id = ?`, *org.CountryID,
		), "sqlite: country by id")
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
	return "", eris.Errorf("sqlite: no free slug for %q", base)
}

func (s *SQLiteStore) LookupIDByName(ctx context.Context, category model.AssociationCategory, name string) (*int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM lookups WHERE category = ? AND lower(name) = lower(?)`,
		string(category), strings.TrimSpace(name),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: lookup %s %q", category, name)
	}
	return &id, nil
}

func (s *SQLiteStore) SeedLookups(ctx context.Context, category model.AssociationCategory, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: seed lookups: begin tx")
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO lookups (category, name) VALUES (?, ?)`,
			string(category), name,
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed %s lookup %q", category, name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: seed lookups: commit")
}

func (s *SQLiteStore) SyncAssociations(ctx context.Context, orgID int64, assoc map[model.AssociationCategory][]int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: sync associations: begin tx")
	}
	defer tx.Rollback()

	for _, category := range model.AssociationCategories {
		ids, ok := assoc[category]
		if !ok {
			continue
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM organisation_associations WHERE organisation_id = ? AND category = ?`,
			orgID, string(category),
		); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s associations", category)
		}

		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO organisation_associations (organisation_id, category, lookup_id) VALUES (?, ?, ?)`,
				orgID, string(category), id,
			); err != nil {
				return eris.Wrapf(err, "sqlite: insert %s association", category)
			}
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: sync associations: commit")
}

func (s *SQLiteStore) LogoByOrganisation(ctx context.Context, orgID int64) (*model.Logo, error) {
	var l model.Logo
	var source string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, uuid, organisation_id, filename, original_filename, file_extension, mime_type, alt, width, height, size, source, created_at, updated_at FROM logos WHERE organisation_id = ?`,
		orgID,
	).Scan(&l.ID, &l.UUID, &l.OrganisationID, &l.Filename, &l.OriginalName,
		&l.FileExtension, &l.MimeType, &l.Alt, &l.Width, &l.Height, &l.Size,
		&source, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: logo for organisation %d", orgID)
	}
	l.Source = model.LogoSource(source)
	return &l, nil
}

func (s *SQLiteStore) UpsertLogo(ctx context.Context, logo *model.Logo) error {
	if logo.UUID == "" {
		logo.UUID = uuid.New().String()
	}
	now := time.Now().UTC()
	if logo.CreatedAt.IsZero() {
		logo.CreatedAt = now
	}
	logo.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO logos (uuid, organisation_id, filename, original_filename, file_extension, mime_type, alt, width, height, size, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (organisation_id) DO UPDATE SET
			uuid = excluded.uuid,
			filename = excluded.filename,
			original_filename = excluded.original_filename,
			file_extension = excluded.file_extension,
			mime_type = excluded.mime_type,
			alt = excluded.alt,
			width = excluded.width,
			height = excluded.height,
			size = excluded.size,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		logo.UUID, logo.OrganisationID, logo.Filename, logo.OriginalName,
		logo.FileExtension, logo.MimeType, logo.Alt, logo.Width, logo.Height,
		logo.Size, string(logo.Source), logo.CreatedAt, logo.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert logo for organisation %d", logo.OrganisationID)
	}

	if logo.ID == 0 {
		existing, err := s.LogoByOrganisation(ctx, logo.OrganisationID)
		if err != nil {
			return err
		}
		if existing != nil {
			logo.ID = existing.ID
		}
	}
	return nil
}

func (s *SQLiteStore) DeleteLogo(ctx context.Context, orgID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM logos WHERE organisation_id = ?`, orgID)
	return eris.Wrapf(err, "sqlite: delete logo for organisation %d", orgID)
}

func (s *SQLiteStore) GetGeocodeCache(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var response []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT response FROM geocoding_cache WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, time.Now().UTC(),
	).Scan(&response)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "sqlite: get geocode cache")
	}
	return response, true, nil
}

func (s *SQLiteStore) PutGeocodeCache(ctx context.Context, key, source string, direction geocode.Direction, response json.RawMessage, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocoding_cache (key, source, direction, response, cached_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET
			source = excluded.source,
			direction = excluded.direction,
			response = excluded.response,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at`,
		key, source, string(direction), string(response), now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: put geocode cache")
}

func (s *SQLiteStore) SweepExpiredGeocodeCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM geocoding_cache WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: sweep geocode cache")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: sweep geocode cache rows affected")
}
