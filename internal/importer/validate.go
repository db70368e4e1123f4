package importer

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the hard limit on organisation names.
const MaxNameLength = 255

// foundingYearFloor rejects typo years; no imported organisation predates
// industrial record keeping.
const foundingYearFloor = 1800

// HasRequiredFieldValues reports whether every listed attribute has a
// non-blank value. A wholly empty row returns false too; callers must check
// Row.IsEmpty first to tell "skip silently" apart from "missing values".
func HasRequiredFieldValues(row rowValues, attributes []string) bool {
	if row.IsEmpty() {
		return false
	}
	for _, attr := range attributes {
		if attributeValue(row, attr) == nil {
			return false
		}
	}
	return true
}

// ValidateWebsiteURL accepts an absent URL as valid-with-nil. A present URL
// must parse as an absolute http(s) URL; anything else is invalid and
// coerced to nil.
func ValidateWebsiteURL(raw *string) (bool, *string) {
	if raw == nil {
		return true, nil
	}

	u, err := url.Parse(*raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false, nil
	}
	return true, raw
}

// ValidateFoundingYear accepts an absent year as valid-with-nil. A present
// year must be an integer within [1800, current year].
func ValidateFoundingYear(raw *string) (bool, *int) {
	if raw == nil {
		return true, nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return false, nil
	}
	if year < foundingYearFloor || year > time.Now().Year() {
		return false, nil
	}
	return true, &year
}

// ValidateLength reports whether the value fits within max characters.
// Absent values are always valid.
func ValidateLength(value *string, max int) bool {
	if value == nil {
		return true
	}
	return utf8.RuneCountInString(*value) <= max
}

// Truncate limits a string to max characters, appending an ellipsis when it
// was cut.
func Truncate(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return strings.TrimRight(string(runes[:max]), " ") + "..."
}
