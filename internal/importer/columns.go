package importer

import "github.com/ailandscape/landscape-cli/internal/model"

// rowValues is the slice of fetcher.Row the importer reads: trimmed cell
// access by column key. Tests substitute plain map-backed fakes.
type rowValues interface {
	Get(key string) string
	IsEmpty() bool
}

// columnToAttribute maps spreadsheet column keys (heading row, underscore
// form) to organisation attribute names. Every key in this map must be
// present in the heading row for the sheet to be importable.
var columnToAttribute = map[string]string{
	"name":                    "name",
	"short_description":       "short_description",
	"full_description":        "description",
	"founding_year":           "founding_year",
	"country":                 "country",
	"region":                  "region",
	"city":                    "city",
	"postal_code":             "postal_code",
	"address_line_1":          "address_1",
	"address_line_2":          "address_2",
	"website":                 "website_url",
	"linkedin":                "social_linkedin",
	"x":                       "social_x",
	"facebook":                "social_facebook",
	"instagram":               "social_instagram",
	"bluesky":                 "social_bluesky",
	"marketplace_vendor_slug": "marketplace_slug",
	"number_of_employees":     "number_of_employees",
	"turnover":                "turnover",
}

// requiredColumns is the structural gate: every one of these column keys
// must appear in the heading row, in any order. Fixed ordering keeps the
// fatal error message stable.
var requiredColumns = []string{
	"name",
	"short_description",
	"full_description",
	"founding_year",
	"country",
	"region",
	"city",
	"postal_code",
	"address_line_1",
	"address_line_2",
	"website",
	"linkedin",
	"x",
	"facebook",
	"instagram",
	"bluesky",
	"marketplace_vendor_slug",
	"number_of_employees",
	"turnover",
}

// requiredFields are the attributes that must carry a value in every data
// row. A row missing any of them fails; it is never silently skipped.
var requiredFields = []string{"name", "country", "website_url"}

// addressAttributes are the source fields joined into the geocoding query,
// in this order.
var addressAttributes = []string{"address_1", "city", "region"}

// associationColumns groups the optional association columns by category.
// Multi-valued categories spread across numbered columns.
var associationColumns = map[model.AssociationCategory][]string{
	model.CategoryOrganisationType:   {"organisation_type"},
	model.CategoryIndustrySector:     {"industry_sector_1", "industry_sector_2"},
	model.CategoryEnterpriseFunction: {"enterprise_function_1", "enterprise_function_2"},
	model.CategoryAISolution:         {"ai_solution_1", "ai_solution_2"},
	model.CategoryTechnologyType:     {"technology_type_1", "technology_type_2"},
	model.CategoryOfferType:          {"offer_type_1", "offer_type_2"},
}

// attributeToColumn is the reverse of columnToAttribute, built once.
var attributeToColumn = func() map[string]string {
	m := make(map[string]string, len(columnToAttribute))
	for col, attr := range columnToAttribute {
		m[attr] = col
	}
	return m
}()

// attributeValue reads the cell backing an organisation attribute, nil when
// the cell is blank or the attribute has no column.
func attributeValue(row rowValues, attribute string) *string {
	col, ok := attributeToColumn[attribute]
	if !ok {
		return nil
	}
	v := row.Get(col)
	if v == "" {
		return nil
	}
	return &v
}
