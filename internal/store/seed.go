package store

import (
	"context"
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ailandscape/landscape-cli/internal/model"
)

//go:embed countries.yaml
var countriesYAML []byte

//go:embed lookups.yaml
var lookupsYAML []byte

type countrySeedFile struct {
	Countries []struct {
		Name   string  `yaml:"name"`
		Alpha2 string  `yaml:"alpha2"`
		Alpha3 string  `yaml:"alpha3"`
		Lat    float64 `yaml:"lat"`
		Lng    float64 `yaml:"lng"`
	} `yaml:"countries"`
}

// SeedCountryList decodes the embedded country reference set. Slugs derive
// from names, so the YAML stays minimal.
func SeedCountryList() ([]model.Country, error) {
	var file countrySeedFile
	if err := yaml.Unmarshal(countriesYAML, &file); err != nil {
		return nil, eris.Wrap(err, "store: decode embedded countries")
	}

	countries := make([]model.Country, 0, len(file.Countries))
	for _, c := range file.Countries {
		countries = append(countries, model.Country{
			Slug:   model.Slugify(c.Name),
			Name:   c.Name,
			Alpha2: c.Alpha2,
			Alpha3: c.Alpha3,
			Lat:    c.Lat,
			Lng:    c.Lng,
		})
	}
	return countries, nil
}

type lookupSeedFile struct {
	Lookups map[string][]string `yaml:"lookups"`
}

// SeedLookupList decodes the embedded lookup reference set, keyed by
// association category.
func SeedLookupList() (map[model.AssociationCategory][]string, error) {
	var file lookupSeedFile
	if err := yaml.Unmarshal(lookupsYAML, &file); err != nil {
		return nil, eris.Wrap(err, "store: decode embedded lookups")
	}

	lookups := make(map[model.AssociationCategory][]string, len(file.Lookups))
	for category, names := range file.Lookups {
		lookups[model.AssociationCategory(category)] = names
	}
	return lookups, nil
}

// Seed loads the embedded reference data into the store. Safe to run on
// every migrate; it converges rather than duplicates.
func Seed(ctx context.Context, s Store) error {
	countries, err := SeedCountryList()
	if err != nil {
		return err
	}
	if err := s.SeedCountries(ctx, countries); err != nil {
		return err
	}

	lookups, err := SeedLookupList()
	if err != nil {
		return err
	}
	for _, category := range model.AssociationCategories {
		names, ok := lookups[category]
		if !ok {
			continue
		}
		if err := s.SeedLookups(ctx, category, names); err != nil {
			return err
		}
	}
	return nil
}
