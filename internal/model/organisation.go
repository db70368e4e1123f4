package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ShortDescriptionLimit is the character budget for an organisation's short
// description. Longer values are truncated on import.
const ShortDescriptionLimit = 140

// Organisation is a catalogue entry. Name is deliberately not unique; two
// organisations in different countries may share a name, which is why slug
// collision resolution and the match hash both fold in the country.
type Organisation struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`

	Name             string  `json:"name"`
	ShortDescription *string `json:"short_description,omitempty"`
	Description      *string `json:"description,omitempty"`

	CountryID        *int64  `json:"country_id,omitempty"`
	Region           *string `json:"region,omitempty"`
	City             *string `json:"city,omitempty"`
	PostalCode       *string `json:"postal_code,omitempty"`
	Address1         *string `json:"address_1,omitempty"`
	Address2         *string `json:"address_2,omitempty"`
	FormattedAddress *string `json:"formatted_address,omitempty"`

	Lat                *float64       `json:"lat,omitempty"`
	Lng                *float64       `json:"lng,omitempty"`
	LocationConfidence *int           `json:"location_confidence,omitempty"`
	LocationSource     LocationSource `json:"location_source,omitempty"`
	LocationData       []byte         `json:"-"` // raw geocoder payload, stored as JSON

	WebsiteURL      *string `json:"website_url,omitempty"`
	SocialBluesky   *string `json:"social_bluesky,omitempty"`
	SocialFacebook  *string `json:"social_facebook,omitempty"`
	SocialInstagram *string `json:"social_instagram,omitempty"`
	SocialLinkedIn  *string `json:"social_linkedin,omitempty"`
	SocialX         *string `json:"social_x,omitempty"`
	MarketplaceSlug *string `json:"marketplace_slug,omitempty"`

	FoundingYear *int          `json:"founding_year,omitempty"`
	Employees    *EmployeeBand `json:"number_of_employees,omitempty"`
	Turnover     *TurnoverBand `json:"turnover,omitempty"`

	Source    OrganisationSource `json:"source"`
	IsActive  bool               `json:"is_active"`
	MatchHash string             `json:"match_hash"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchHashFor computes the deduplication key for a name/country pair:
// sha256 of the NFC-normalized, lowercased name joined with the country id
// (or "unknown" when the organisation has no country). Two rows with the
// same normalized name and country collapse to one record.
func MatchHashFor(name string, countryID *int64) string {
	normalized := strings.ToLower(norm.NFC.String(name))

	country := "unknown"
	if countryID != nil {
		country = strconv.FormatInt(*countryID, 10)
	}

	sum := sha256.Sum256([]byte(normalized + "|" + country))
	return hex.EncodeToString(sum[:])
}

// RecomputeMatchHash refreshes MatchHash from the current name and country.
// Must be called whenever either changes, on update as well as creation.
func (o *Organisation) RecomputeMatchHash() {
	o.MatchHash = MatchHashFor(o.Name, o.CountryID)
}
