package model

// OrganisationSource records how an organisation record entered the system.
type OrganisationSource string

const (
	OrgSourceImportXLS     OrganisationSource = "import_xls"
	OrgSourceImportAPI     OrganisationSource = "import_api"
	OrgSourceImportLegacy  OrganisationSource = "import_legacy"
	OrgSourceUserManual    OrganisationSource = "user_manual"
	OrgSourceUserAdmin     OrganisationSource = "user_admin"
	OrgSourcePartnerPortal OrganisationSource = "partner_portal"
	OrgSourceAggregator    OrganisationSource = "data_aggregator"
	OrgSourceUnknown       OrganisationSource = "unknown"
)

// LogoSource records how a logo asset was produced. Anything other than
// LogoSourceImportXLS is protected from being overwritten by an import run.
type LogoSource string

const (
	LogoSourceImportXLS  LogoSource = "import_xls"
	LogoSourceUserUpload LogoSource = "user_upload"
	LogoSourceUserAdmin  LogoSource = "user_admin"
	LogoSourceUnknown    LogoSource = "unknown"
)

// LocationSource records which backend produced an organisation's location.
type LocationSource string

const (
	LocationSourceManual    LocationSource = "manual"
	LocationSourceOpenCage  LocationSource = "opencage"
	LocationSourceGoogle    LocationSource = "google"
	LocationSourceMapbox    LocationSource = "mapbox"
	LocationSourceOSM       LocationSource = "osm"
	LocationSourceImportXLS LocationSource = "import_xls"
	LocationSourceUnknown   LocationSource = "unknown"
)
