package geocode

import (
	"regexp"
	"strings"
)

// greekAvenuePrefix matches the various spellings of "Leoforos" (avenue)
// at the start of a Greek address. The backing map data omits the prefix,
// so queries carrying it routinely miss.
var greekAvenuePrefix = regexp.MustCompile(`(?i)^(Leoforos|Leof\.|L\.|Λεωφόρος|Λεωφορος|Λεωφ\.)\s+`)

var leadingSeparators = regexp.MustCompile(`^[\s,]+`)

// normalizeAddress applies country-specific rewrites that improve match
// rates against the provider's map data.
func normalizeAddress(address, countryCode string) string {
	if countryCode == "" {
		return address
	}

	normalized := address
	if strings.ToUpper(countryCode) == "GR" {
		normalized = greekAvenuePrefix.ReplaceAllString(normalized, "")
	}

	return leadingSeparators.ReplaceAllString(normalized, "")
}
