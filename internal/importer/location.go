package importer

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/internal/store"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// ErrUnsupportedCountry marks a row whose country is missing from the
// reference set, either as spelled in the sheet or as resolved by the
// geocoder.
var ErrUnsupportedCountry = eris.New("importer: unsupported country")

// postalSeparators strips the characters that vary between spellings of the
// same postal code ("75 008" vs "75-008" vs "75008").
var postalSeparators = regexp.MustCompile(`[\s-]+`)

// Location is a resolved row location: the reference country plus whatever
// the geocoder could add. Source stays empty when geocoding produced no
// usable match.
type Location struct {
	Country          *model.Country
	PostalCode       *string
	Confidence       int
	Lat              *float64
	Lng              *float64
	Source           model.LocationSource
	FormattedAddress *string
	Response         json.RawMessage
}

// LocationResolver turns a row's address cells into a Location.
type LocationResolver struct {
	store    store.Store
	geocoder geocode.Client
}

func NewLocationResolver(s store.Store, g geocode.Client) *LocationResolver {
	return &LocationResolver{store: s, geocoder: g}
}

// Resolve resolves the row's country against the reference set, geocodes the
// street address, and reconciles the two. The sheet's own values win except
// where the geocoder demonstrably describes the same place more precisely: a
// postal code is only replaced by a spelling variant of itself, and the
// country is only replaced by a country the reference set also supports.
// Geocoder misses degrade the location, never the row; only an unsupported
// country fails it.
func (r *LocationResolver) Resolve(ctx context.Context, row rowValues) (*Location, error) {
	countryName := attributeValue(row, "country")
	if countryName == nil {
		return nil, ErrUnsupportedCountry
	}
	country, err := r.store.CountryByName(ctx, *countryName)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, ErrUnsupportedCountry
	}

	loc := &Location{
		Country:    country,
		PostalCode: attributeValue(row, "postal_code"),
	}

	result := r.geocoder.SingleBest(ctx, geocodeQuery(row), country.Alpha2)
	if result != nil {
		if loc.PostalCode != nil && result.PostalCode != "" && *loc.PostalCode != result.PostalCode {
			if samePostalCode(*loc.PostalCode, result.PostalCode) {
				loc.PostalCode = &result.PostalCode
			}
		}

		geocoded, err := r.store.CountryByAlpha2(ctx, result.CountryCode)
		if err != nil {
			return nil, err
		}
		if geocoded == nil {
			return nil, ErrUnsupportedCountry
		}
		loc.Country = geocoded

		loc.Source = model.LocationSourceOpenCage
		loc.Confidence = result.Confidence
		loc.Lat = result.Lat
		loc.Lng = result.Lng
		loc.Response = result.Response
	}

	loc.FormattedAddress = formatAddress(row, loc, result)
	return loc, nil
}

// geocodeQuery joins the row's street-level cells into one query string, nil
// when the row has no address at all.
func geocodeQuery(row rowValues) *string {
	var parts []string
	for _, attr := range addressAttributes {
		if v := attributeValue(row, attr); v != nil {
			parts = append(parts, *v)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	q := strings.Join(parts, ", ")
	return &q
}

func samePostalCode(a, b string) bool {
	return postalSeparators.ReplaceAllString(a, "") == postalSeparators.ReplaceAllString(b, "")
}

// formatAddress synthesizes a display address. Each field prefers the
// sheet's own cell and falls back to the geocoder's value when the cell is
// blank; the geocoder's pre-formatted string is a last resort when nothing
// else is usable.
func formatAddress(row rowValues, loc *Location, result *geocode.Result) *string {
	city := attributeValue(row, "city")
	region := attributeValue(row, "region")
	postal := loc.PostalCode
	if result != nil {
		if city == nil && result.City != "" {
			city = &result.City
		}
		if region == nil && result.Region != "" {
			region = &result.Region
		}
		if postal == nil && result.PostalCode != "" {
			postal = &result.PostalCode
		}
	}

	var parts []string
	if v := attributeValue(row, "address_1"); v != nil {
		parts = append(parts, *v)
	}
	if v := attributeValue(row, "address_2"); v != nil {
		parts = append(parts, *v)
	}

	var postalCity []string
	if postal != nil {
		postalCity = append(postalCity, *postal)
	}
	if city != nil {
		postalCity = append(postalCity, *city)
	}
	if len(postalCity) > 0 {
		parts = append(parts, strings.Join(postalCity, " "))
	}

	if region != nil {
		parts = append(parts, *region)
	}
	if loc.Country != nil {
		parts = append(parts, loc.Country.Name)
	}

	if len(parts) > 0 {
		formatted := strings.Join(parts, ", ")
		return &formatted
	}
	if result != nil && result.Formatted != "" {
		return &result.Formatted
	}
	return nil
}
