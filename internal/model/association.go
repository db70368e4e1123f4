package model

// AssociationCategory names one of the lookup dimensions an organisation can
// be tagged with. Each category is synced as a full replacement: the set of
// tags on file after an import is exactly the set the source row carried.
type AssociationCategory string

const (
	CategoryOrganisationType   AssociationCategory = "organisation_type"
	CategoryIndustrySector     AssociationCategory = "industry_sector"
	CategoryEnterpriseFunction AssociationCategory = "enterprise_function"
	CategoryAISolution         AssociationCategory = "ai_solution"
	CategoryTechnologyType     AssociationCategory = "technology_type"
	CategoryOfferType          AssociationCategory = "offer_type"
)

// AssociationCategories lists every category in sync order.
var AssociationCategories = []AssociationCategory{
	CategoryOrganisationType,
	CategoryIndustrySector,
	CategoryEnterpriseFunction,
	CategoryAISolution,
	CategoryTechnologyType,
	CategoryOfferType,
}
