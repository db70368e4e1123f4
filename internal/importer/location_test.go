package importer

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailandscape/landscape-cli/internal/store"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// stubGeocoder serves canned results keyed by the exact query string.
type stubGeocoder struct {
	available bool
	results   map[string]geocode.Result
	calls     int
}

func (g *stubGeocoder) Forward(_ context.Context, address, _ string, _ int, _ bool) geocode.Result {
	g.calls++
	if r, ok := g.results[address]; ok {
		return r
	}
	return geocode.Result{Query: address, Source: geocode.SourceOpenCage}
}

func (g *stubGeocoder) Reverse(context.Context, float64, float64, bool) geocode.Result {
	return geocode.Result{}
}

func (g *stubGeocoder) SingleBest(ctx context.Context, address *string, countryHint string) *geocode.Result {
	if address == nil {
		return nil
	}
	r := g.Forward(ctx, *address, countryHint, 1, true)
	if r.Confidence == 0 {
		return nil
	}
	return &r
}

func (g *stubGeocoder) IsAvailable(context.Context, bool) bool { return g.available }

func floatPtr(v float64) *float64 { return &v }

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, store.Seed(ctx, s))
	return s
}

func berlinResult(confidence int) geocode.Result {
	return geocode.Result{
		Source:      geocode.SourceOpenCage,
		Confidence:  confidence,
		Lat:         floatPtr(52.5166),
		Lng:         floatPtr(13.3888),
		CountryCode: "DE",
		Country:     "Germany",
		City:        "Berlin",
		PostalCode:  "10117",
		Formatted:   "Unter den Linden 1, 10117 Berlin, Germany",
		Response:    json.RawMessage(`{"results":[{}],"total_results":1}`),
	}
}

func TestLocationResolver_UnsupportedCountry(t *testing.T) {
	resolver := NewLocationResolver(newTestStore(t), &stubGeocoder{})

	_, err := resolver.Resolve(context.Background(), fakeRow{"country": "Atlantis"})
	assert.ErrorIs(t, err, ErrUnsupportedCountry)
}

func TestLocationResolver_GeocoderMissKeepsSourceValues(t *testing.T) {
	resolver := NewLocationResolver(newTestStore(t), &stubGeocoder{})

	loc, err := resolver.Resolve(context.Background(), fakeRow{
		"country":        "Germany",
		"postal_code":    "10117",
		"address_line_1": "Unter den Linden 1",
		"city":           "Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, "DE", loc.Country.Alpha2)
	require.NotNil(t, loc.PostalCode)
	assert.Equal(t, "10117", *loc.PostalCode)
	assert.Empty(t, loc.Source)
	assert.Nil(t, loc.Lat)
	require.NotNil(t, loc.FormattedAddress)
	assert.Equal(t, "Unter den Linden 1, 10117 Berlin, Germany", *loc.FormattedAddress)
}

func TestLocationResolver_AdoptsGeocodedData(t *testing.T) {
	geocoder := &stubGeocoder{results: map[string]geocode.Result{
		"Unter den Linden 1, Berlin": berlinResult(9),
	}}
	resolver := NewLocationResolver(newTestStore(t), geocoder)

	loc, err := resolver.Resolve(context.Background(), fakeRow{
		"country":        "Germany",
		"address_line_1": "Unter den Linden 1",
		"city":           "Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, 9, loc.Confidence)
	require.NotNil(t, loc.Lat)
	assert.InDelta(t, 52.5166, *loc.Lat, 0.0001)
	assert.NotEmpty(t, loc.Response)
	assert.Equal(t, "DE", loc.Country.Alpha2)
}

func TestLocationResolver_PostalReconciliation(t *testing.T) {
	t.Run("adopts a spelling variant", func(t *testing.T) {
		result := berlinResult(8)
		result.PostalCode = "10 117"
		geocoder := &stubGeocoder{results: map[string]geocode.Result{"Berlin": result}}
		resolver := NewLocationResolver(newTestStore(t), geocoder)

		loc, err := resolver.Resolve(context.Background(), fakeRow{
			"country": "Germany", "postal_code": "10117", "city": "Berlin",
		})
		require.NoError(t, err)
		require.NotNil(t, loc.PostalCode)
		assert.Equal(t, "10 117", *loc.PostalCode)
	})

	t.Run("keeps a genuinely different code", func(t *testing.T) {
		result := berlinResult(8)
		result.PostalCode = "99999"
		geocoder := &stubGeocoder{results: map[string]geocode.Result{"Berlin": result}}
		resolver := NewLocationResolver(newTestStore(t), geocoder)

		loc, err := resolver.Resolve(context.Background(), fakeRow{
			"country": "Germany", "postal_code": "10117", "city": "Berlin",
		})
		require.NoError(t, err)
		require.NotNil(t, loc.PostalCode)
		assert.Equal(t, "10117", *loc.PostalCode)
	})

	t.Run("never invents a code the sheet lacks", func(t *testing.T) {
		geocoder := &stubGeocoder{results: map[string]geocode.Result{"Berlin": berlinResult(8)}}
		resolver := NewLocationResolver(newTestStore(t), geocoder)

		loc, err := resolver.Resolve(context.Background(), fakeRow{
			"country": "Germany", "city": "Berlin",
		})
		require.NoError(t, err)
		assert.Nil(t, loc.PostalCode)
	})
}

func TestLocationResolver_CountryReconciliation(t *testing.T) {
	t.Run("adopts the geocoded country", func(t *testing.T) {
		result := berlinResult(7)
		result.CountryCode = "FR"
		geocoder := &stubGeocoder{results: map[string]geocode.Result{"Strasbourg": result}}
		resolver := NewLocationResolver(newTestStore(t), geocoder)

		loc, err := resolver.Resolve(context.Background(), fakeRow{
			"country": "Germany", "city": "Strasbourg",
		})
		require.NoError(t, err)
		assert.Equal(t, "France", loc.Country.Name)
	})

	t.Run("fails on a country outside the reference set", func(t *testing.T) {
		result := berlinResult(7)
		result.CountryCode = "US"
		geocoder := &stubGeocoder{results: map[string]geocode.Result{"Berlin": result}}
		resolver := NewLocationResolver(newTestStore(t), geocoder)

		_, err := resolver.Resolve(context.Background(), fakeRow{
			"country": "Germany", "city": "Berlin",
		})
		assert.ErrorIs(t, err, ErrUnsupportedCountry)
	})
}

func TestLocationResolver_FormattedAddressFillsGapsFromGeocoder(t *testing.T) {
	result := berlinResult(8)
	result.Region = "Berlin"
	geocoder := &stubGeocoder{results: map[string]geocode.Result{
		"Unter den Linden 1": result,
	}}
	resolver := NewLocationResolver(newTestStore(t), geocoder)

	// Only a street line on the sheet: city, region and postal code come
	// from the geocoder.
	loc, err := resolver.Resolve(context.Background(), fakeRow{
		"country":        "Germany",
		"address_line_1": "Unter den Linden 1",
	})
	require.NoError(t, err)
	require.NotNil(t, loc.FormattedAddress)
	assert.Equal(t, "Unter den Linden 1, 10117 Berlin, Berlin, Germany", *loc.FormattedAddress)

	// The stored postal code still only ever comes from the sheet.
	assert.Nil(t, loc.PostalCode)
}

func TestLocationResolver_FormattedAddressFallsBackToGeocoder(t *testing.T) {
	// A row with nothing but name and country still gets the country line.
	resolver := NewLocationResolver(newTestStore(t), &stubGeocoder{})

	loc, err := resolver.Resolve(context.Background(), fakeRow{"country": "Germany"})
	require.NoError(t, err)
	require.NotNil(t, loc.FormattedAddress)
	assert.Equal(t, "Germany", *loc.FormattedAddress)
}
