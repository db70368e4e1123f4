package geocode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestHasValidCoordinates(t *testing.T) {
	cases := []struct {
		name string
		lat  *float64
		lng  *float64
		want bool
	}{
		{"both nil", nil, nil, false},
		{"lat only", ptr(52.5), nil, false},
		{"berlin", ptr(52.5), ptr(13.4), true},
		{"null island", ptr(0), ptr(0), false},
		{"zero lat only", ptr(0), ptr(13.4), true},
		{"lat out of range", ptr(91), ptr(13.4), false},
		{"lng out of range", ptr(52.5), ptr(-181), false},
		{"boundary", ptr(-90), ptr(180), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Result{Lat: tc.lat, Lng: tc.lng}
			assert.Equal(t, tc.want, r.HasValidCoordinates())
		})
	}
}

func TestHasValidResponse(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    bool
	}{
		{"not json", `not json`, false},
		{"missing results", `{"total_results":0}`, false},
		{"missing total", `{"results":[]}`, false},
		{"empty ok", `{"results":[],"total_results":0}`, true},
		{"error status", `{"results":[],"total_results":0,"status":{"code":402,"message":"quota exceeded"}}`, false},
		{"ok status", `{"results":[],"total_results":0,"status":{"code":200,"message":"OK"}}`, true},
		{
			"result missing geometry",
			`{"results":[{"formatted":"x","confidence":1}],"total_results":1}`,
			false,
		},
		{
			"result missing confidence",
			`{"results":[{"formatted":"x","geometry":{"lat":1,"lng":2}}],"total_results":1}`,
			false,
		},
		{
			"geometry missing lng",
			`{"results":[{"formatted":"x","confidence":1,"geometry":{"lat":1}}],"total_results":1}`,
			false,
		},
		{
			"complete result",
			`{"results":[{"formatted":"x","confidence":1,"geometry":{"lat":1,"lng":2}}],"total_results":1}`,
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Result{Response: json.RawMessage(tc.payload)}
			assert.Equal(t, tc.want, r.HasValidResponse())
		})
	}
}

func TestFormatResponse(t *testing.T) {
	t.Run("garbage payload is a soft miss", func(t *testing.T) {
		result, err := formatResponse("q", json.RawMessage(`oops`))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Confidence)
		assert.Equal(t, "q", result.Query)
		assert.Equal(t, SourceOpenCage, result.Source)
	})

	t.Run("malformed first result is a hard error", func(t *testing.T) {
		payload := `{"results":[{"confidence":"not a number"}],"total_results":1}`
		_, err := formatResponse("q", json.RawMessage(payload))
		assert.Error(t, err)
	})

	t.Run("country code uppercased", func(t *testing.T) {
		payload := `{"results":[{"confidence":7,"formatted":"x",
			"geometry":{"lat":48.8,"lng":2.3},
			"components":{"country_code":"fr","country":"France"}}],"total_results":1}`
		result, err := formatResponse("q", json.RawMessage(payload))
		require.NoError(t, err)
		assert.Equal(t, "FR", result.CountryCode)
		assert.Equal(t, 7, result.Confidence)
	})
}
