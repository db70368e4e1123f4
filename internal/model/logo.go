package model

import "time"

// Logo is the single logo asset attached to an organisation. UUID is the
// stable filename root under the media area ("logos/<uuid>.<ext>"); it is
// reused across imports while the file's byte size is unchanged and rotated
// when it differs.
type Logo struct {
	ID             int64      `json:"id"`
	UUID           string     `json:"uuid"`
	OrganisationID int64      `json:"organisation_id"`
	Filename       string     `json:"filename"`
	OriginalName   string     `json:"original_filename"`
	FileExtension  string     `json:"file_extension"`
	MimeType       string     `json:"mime_type"`
	Alt            string     `json:"alt"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Size           int64      `json:"size"`
	Source         LogoSource `json:"source"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StoragePath returns the logo's path within the media area.
func (l *Logo) StoragePath() string {
	return "logos/" + l.Filename
}
