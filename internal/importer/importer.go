package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ailandscape/landscape-cli/internal/fetcher"
	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/internal/storage"
	"github.com/ailandscape/landscape-cli/internal/store"
	"github.com/ailandscape/landscape-cli/pkg/geocode"
)

// ImportName labels the run in its summary line and logs.
const ImportName = "Organisations Import"

// Importer orchestrates one import run. Rows are independent: a failing row
// is recorded and the run moves on; only a precondition failure (empty
// sheet, wrong columns, unreachable geocoder) aborts the whole run.
type Importer struct {
	store    store.Store
	geocoder geocode.Client
	location *LocationResolver
	logos    *LogoSync
	prefetch int
}

// NewImporter wires an import run over the given store, geocoder, and file
// areas. prefetch caps the concurrent geocode cache warm-up; values below 2
// disable it.
func NewImporter(s store.Store, g geocode.Client, importArea, mediaArea *storage.Area, prefetch int) *Importer {
	return &Importer{
		store:    s,
		geocoder: g,
		location: NewLocationResolver(s, g),
		logos:    NewLogoSync(s, importArea, mediaArea),
		prefetch: prefetch,
	}
}

// Run imports every row of the sheet. folder is the path within the import
// area holding the sheet's logo files. The returned Stats is complete even
// when the run aborts early.
func (imp *Importer) Run(ctx context.Context, sheet *fetcher.Sheet, folder string) *Stats {
	stats := NewStats(ImportName)
	stats.Start()

	if sheet.IsEmpty() {
		stats.RecordFatal("Sheet is empty. No data to import.")
		return stats
	}
	if !sheet.HasColumns(requiredColumns...) {
		stats.RecordFatal("Sheet does not have the required columns. Expected: " + strings.Join(requiredColumns, ", "))
		return stats
	}
	if !imp.geocoder.IsAvailable(ctx, false) {
		stats.RecordFatal("Geocoding API service is not available")
		return stats
	}

	imp.warmGeocodeCache(ctx, sheet)

	// Association lookups repeat heavily across rows; resolve each
	// category/name pair once per run.
	lookups := map[string]*int64{}

	for i := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			stats.RecordFatal(err.Error())
			return stats
		}
		imp.processRow(ctx, &sheet.Rows[i], folder, lookups, stats)
	}

	stats.Finish()
	zap.L().Info("import finished", zap.String("summary", stats.Summary()))
	return stats
}

// warmGeocodeCache runs the rows' forward lookups concurrently before the
// sequential pass, so the per-row work hits the cache instead of the rate
// limited provider. Results are discarded; failures here surface later, per
// row.
func (imp *Importer) warmGeocodeCache(ctx context.Context, sheet *fetcher.Sheet) {
	if imp.prefetch < 2 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.prefetch)

	for i := range sheet.Rows {
		row := &sheet.Rows[i]
		if row.IsEmpty() || !HasRequiredFieldValues(row, requiredFields) {
			continue
		}
		query := geocodeQuery(row)
		if query == nil {
			continue
		}
		countryName := attributeValue(row, "country")

		g.Go(func() error {
			country, err := imp.store.CountryByName(gctx, *countryName)
			if err != nil || country == nil {
				return nil
			}
			imp.geocoder.SingleBest(gctx, query, country.Alpha2)
			return nil
		})
	}

	_ = g.Wait()
}

func (imp *Importer) processRow(ctx context.Context, row *fetcher.Row, folder string, lookups map[string]*int64, stats *Stats) {
	index := row.Index

	stats.RecordProcessed(index)

	if row.IsEmpty() {
		stats.RecordSkip(index, "empty row")
		return
	}

	if !HasRequiredFieldValues(row, requiredFields) {
		stats.RecordError(index, "Missing required field values. Expected: "+strings.Join(requiredFields, ", "))
		return
	}

	name := *attributeValue(row, "name")
	if !ValidateLength(&name, MaxNameLength) {
		stats.RecordError(index, fmt.Sprintf("Too long name for '%s' - %d characters (max: %d)",
			name, utf8.RuneCountInString(name), MaxNameLength))
		return
	}

	location, err := imp.location.Resolve(ctx, row)
	if err != nil {
		if errors.Is(err, ErrUnsupportedCountry) {
			stats.RecordError(index, fmt.Sprintf("Invalid, unsupported or unresolved country for '%s'.", name))
		} else {
			stats.RecordError(index, fmt.Sprintf("Failed to create/update organisation '%s': %s", name, err.Error()))
		}
		return
	}

	websiteOK, websiteURL := ValidateWebsiteURL(attributeValue(row, "website_url"))
	if !websiteOK {
		stats.RecordWarning(index, fmt.Sprintf("Invalid website URL for '%s'", name))
	}

	yearOK, foundingYear := ValidateFoundingYear(attributeValue(row, "founding_year"))
	if !yearOK {
		stats.RecordWarning(index, fmt.Sprintf("Invalid founding year for '%s'", name))
	}

	org := imp.buildOrganisation(row, name, location, stats, index)
	org.WebsiteURL = websiteURL
	org.FoundingYear = foundingYear

	existing, err := imp.store.OrganisationByMatchHash(ctx, model.MatchHashFor(name, org.CountryID))
	if err != nil {
		stats.RecordError(index, fmt.Sprintf("Failed to create/update organisation '%s': %s", name, err.Error()))
		return
	}

	if existing == nil {
		org.Slug = model.Slugify(name)
		if err := imp.store.CreateOrganisation(ctx, org); err != nil {
			stats.RecordError(index, fmt.Sprintf("Failed to create/update organisation '%s': %s", name, err.Error()))
			return
		}
		stats.RecordCreated(name)
	} else {
		org.ID = existing.ID
		org.Slug = existing.Slug
		org.CreatedAt = existing.CreatedAt
		if err := imp.store.UpdateOrganisation(ctx, org); err != nil {
			stats.RecordError(index, fmt.Sprintf("Failed to create/update organisation '%s': %s", name, err.Error()))
			return
		}
		stats.RecordUpdated(name)
	}

	if filename := imp.logos.FindLogo(name, folder, stats, index); filename != "" {
		imp.logos.ImportLogo(ctx, org, folder, filename, stats, index)
	} else {
		imp.logos.DeleteStaleLogo(ctx, org, stats, index)
	}

	imp.syncAssociations(ctx, row, org, lookups, stats, index)
}

// buildOrganisation assembles the record from the row's cells and the
// resolved location. Band coercion failures degrade to nil with a warning.
func (imp *Importer) buildOrganisation(row rowValues, name string, location *Location, stats *Stats, index int) *model.Organisation {
	org := &model.Organisation{
		Name:        name,
		Description: attributeValue(row, "description"),

		Region:   attributeValue(row, "region"),
		City:     attributeValue(row, "city"),
		Address1: attributeValue(row, "address_1"),
		Address2: attributeValue(row, "address_2"),

		SocialBluesky:   ExtractBlueskyHandle(attributeValue(row, "social_bluesky")),
		SocialFacebook:  ExtractFacebookHandle(attributeValue(row, "social_facebook")),
		SocialInstagram: ExtractInstagramHandle(attributeValue(row, "social_instagram")),
		SocialLinkedIn:  ExtractLinkedInHandle(attributeValue(row, "social_linkedin")),
		SocialX:         ExtractXHandle(attributeValue(row, "social_x")),
		MarketplaceSlug: attributeValue(row, "marketplace_slug"),

		Source:   model.OrgSourceImportXLS,
		IsActive: true,
	}

	if v := attributeValue(row, "short_description"); v != nil {
		short := Truncate(*v, model.ShortDescriptionLimit)
		org.ShortDescription = &short
	}

	if v := attributeValue(row, "number_of_employees"); v != nil {
		if band, ok := model.EmployeeBandFromOriginal(*v); ok {
			org.Employees = &band
		} else {
			stats.RecordWarning(index, fmt.Sprintf("Invalid number of employees for '%s'", name))
		}
	}
	if v := attributeValue(row, "turnover"); v != nil {
		if band, ok := model.TurnoverBandFromOriginal(*v); ok {
			org.Turnover = &band
		} else {
			stats.RecordWarning(index, fmt.Sprintf("Invalid turnover for '%s'", name))
		}
	}

	org.CountryID = &location.Country.ID
	org.PostalCode = location.PostalCode
	org.FormattedAddress = location.FormattedAddress
	org.Lat = location.Lat
	org.Lng = location.Lng
	org.LocationSource = location.Source
	org.LocationData = location.Response
	if location.Source != "" {
		confidence := location.Confidence
		org.LocationConfidence = &confidence
	}

	return org
}

// syncAssociations replaces the organisation's tags in every category with
// whatever the row names. Unknown names are dropped silently; a category
// with no resolvable names is cleared.
func (imp *Importer) syncAssociations(ctx context.Context, row rowValues, org *model.Organisation, lookups map[string]*int64, stats *Stats, index int) {
	assoc := make(map[model.AssociationCategory][]int64, len(associationColumns))

	for _, category := range model.AssociationCategories {
		ids := []int64{}
		for _, col := range associationColumns[category] {
			value := row.Get(col)
			if value == "" {
				continue
			}
			id, err := imp.lookupID(ctx, lookups, category, value)
			if err != nil {
				stats.RecordWarning(index, fmt.Sprintf("Failed to sync associations for '%s': %s", org.Name, err.Error()))
				return
			}
			if id != nil {
				ids = append(ids, *id)
			}
		}
		assoc[category] = ids
	}

	if err := imp.store.SyncAssociations(ctx, org.ID, assoc); err != nil {
		stats.RecordWarning(index, fmt.Sprintf("Failed to sync associations for '%s': %s", org.Name, err.Error()))
	}
}

func (imp *Importer) lookupID(ctx context.Context, lookups map[string]*int64, category model.AssociationCategory, name string) (*int64, error) {
	key := string(category) + ":" + name
	if id, ok := lookups[key]; ok {
		return id, nil
	}
	id, err := imp.store.LookupIDByName(ctx, category, name)
	if err != nil {
		return nil, err
	}
	lookups[key] = id
	return id, nil
}
