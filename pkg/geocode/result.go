package geocode

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// SourceOpenCage identifies the backing geocoding provider.
const SourceOpenCage = "opencage"

// Direction distinguishes forward (address -> coordinates) from reverse
// (coordinates -> address) lookups in the cache.
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
)

// Result is the formatted output of one geocoding call. Confidence 0 means
// "no usable match"; all optional fields are zero in that case but the raw
// provider payload is always preserved. Immutable once constructed.
type Result struct {
	Query       string          `json:"query"`
	Source      string          `json:"source"`
	Confidence  int             `json:"confidence"`
	MatchType   string          `json:"type,omitempty"`
	Lat         *float64        `json:"lat"`
	Lng         *float64        `json:"lng"`
	CountryCode string          `json:"alpha2,omitempty"`
	Country     string          `json:"country,omitempty"`
	Region      string          `json:"region,omitempty"`
	City        string          `json:"city,omitempty"`
	PostalCode  string          `json:"postal_code,omitempty"`
	Formatted   string          `json:"formatted_address,omitempty"`
	Response    json.RawMessage `json:"response"`
}

// HasValidCoordinates reports whether the result carries coordinates that
// could describe a real place: both present, within [-90,90]x[-180,180],
// and not the exact (0,0) "null island" pair, which providers emit for bad
// matches rather than real locations.
func (r *Result) HasValidCoordinates() bool {
	if r.Lat == nil || r.Lng == nil {
		return false
	}
	lat, lng := *r.Lat, *r.Lng
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return true
}

// HasValidResponse reports whether the raw provider payload has the
// structure a well-formed response must have: a results array, an integer
// total_results, an OK status when one is present, and geometry plus
// confidence plus a formatted string on the first result when any results
// were returned.
func (r *Result) HasValidResponse() bool {
	var payload struct {
		Results      []map[string]json.RawMessage `json:"results"`
		TotalResults *int                         `json:"total_results"`
		Status       *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"status"`
	}
	if err := json.Unmarshal(r.Response, &payload); err != nil {
		return false
	}
	if payload.Results == nil || payload.TotalResults == nil {
		return false
	}
	if payload.Status != nil {
		if payload.Status.Code != 200 {
			return false
		}
		if payload.Status.Message != "" && payload.Status.Message != "OK" {
			return false
		}
	}
	if *payload.TotalResults > 0 && len(payload.Results) > 0 {
		first := payload.Results[0]
		for _, field := range []string{"geometry", "formatted", "confidence"} {
			if _, ok := first[field]; !ok {
				return false
			}
		}
		var geometry struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(first["geometry"], &geometry); err != nil {
			return false
		}
		if geometry.Lat == nil || geometry.Lng == nil {
			return false
		}
	}
	return true
}

// providerResponse mirrors the subset of the provider's wire format the
// client extracts from.
type providerResponse struct {
	Results      []providerResult `json:"results"`
	TotalResults int              `json:"total_results"`
}

type providerResult struct {
	Confidence int               `json:"confidence"`
	Formatted  string            `json:"formatted"`
	Geometry   *providerGeometry `json:"geometry"`
	Components struct {
		Country        string `json:"country"`
		CountryCode    string `json:"country_code"`
		State          string `json:"state"`
		Postcode       string `json:"postcode"`
		NormalizedCity string `json:"_normalized_city"`
		Type           string `json:"_type"`
	} `json:"components"`
}

type providerGeometry struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// emptyPayload is cached and returned when the provider call itself failed,
// so callers still receive a structurally valid zero-confidence result.
var emptyPayload = json.RawMessage(`{"results":[],"total_results":0}`)

// formatResponse turns a raw provider payload into a Result. Payloads
// without a results array or with zero total results yield a
// zero-confidence result with the raw payload preserved. A payload whose
// first result cannot be decoded is a data error, not a soft miss.
func formatResponse(query string, raw json.RawMessage) (Result, error) {
	empty := Result{
		Query:    query,
		Source:   SourceOpenCage,
		Response: raw,
	}

	var probe struct {
		Results      []json.RawMessage `json:"results"`
		TotalResults int               `json:"total_results"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return empty, nil
	}
	if probe.Results == nil || probe.TotalResults == 0 || len(probe.Results) == 0 {
		return empty, nil
	}

	var first providerResult
	if err := json.Unmarshal(probe.Results[0], &first); err != nil {
		return Result{}, eris.Wrap(err, "geocode: malformed provider result")
	}

	result := Result{
		Query:       query,
		Source:      SourceOpenCage,
		Confidence:  first.Confidence,
		MatchType:   first.Components.Type,
		CountryCode: strings.ToUpper(first.Components.CountryCode),
		Country:     first.Components.Country,
		Region:      first.Components.State,
		City:        first.Components.NormalizedCity,
		PostalCode:  first.Components.Postcode,
		Formatted:   first.Formatted,
		Response:    raw,
	}
	if first.Geometry != nil {
		result.Lat = first.Geometry.Lat
		result.Lng = first.Geometry.Lng
	}
	return result, nil
}
