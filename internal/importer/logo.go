package importer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/internal/storage"
	"github.com/ailandscape/landscape-cli/internal/store"
)

// logoExtensions is the probe order for logo files in the import folder.
var logoExtensions = []string{"png", "webp", "jpg"}

// mimeToExtension normalizes the sniffed MIME type to the stored file
// extension. Unlisted types keep the source file's own extension.
var mimeToExtension = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/pjpeg":   "jpg",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// LogoSync moves logo files from the import folder into the managed media
// area and keeps the logo rows in step. Every failure is a warning scoped to
// the logo; a row never fails because of its logo.
type LogoSync struct {
	store      store.Store
	importArea *storage.Area
	mediaArea  *storage.Area
}

func NewLogoSync(s store.Store, importArea, mediaArea *storage.Area) *LogoSync {
	return &LogoSync{store: s, importArea: importArea, mediaArea: mediaArea}
}

// FindLogo probes the import folder for "<slug>.png", then ".webp", then
// ".jpg", where slug is the underscore form of the organisation name.
// Returns the matching filename, or "" with a recorded warning when the
// organisation ships no logo.
func (l *LogoSync) FindLogo(name, folder string, stats *Stats, index int) string {
	slug := model.SlugifyUnderscore(name)

	filename := ""
	for _, ext := range logoExtensions {
		filename = slug + "." + ext
		if l.importArea.Exists(path.Join(folder, filename)) {
			return filename
		}
	}

	stats.RecordWarning(index, fmt.Sprintf("Logo '%s' not found for '%s' in /%s.", filename, name, folder))
	return ""
}

// ImportLogo copies the logo file into the media area and upserts the
// organisation's logo row. Logos that did not come from an import run are
// never touched. The stored filename is "<uuid>.<ext>": the UUID is kept and
// the copy skipped while the byte size matches the previous import, and
// rotated otherwise, so a changed logo gets a fresh URL. Files whose
// dimensions cannot be decoded are never persisted. The media file is
// written and the row persisted before the superseded file is removed; a
// crash mid-sync leaves an orphan file, never a row pointing at nothing.
func (l *LogoSync) ImportLogo(ctx context.Context, org *model.Organisation, folder, filename string, stats *Stats, index int) {
	warn := func(err error) {
		stats.RecordWarning(index, fmt.Sprintf("Failed to import logo for '%s': %s", org.Name, err.Error()))
	}

	existing, err := l.store.LogoByOrganisation(ctx, org.ID)
	if err != nil {
		warn(err)
		return
	}
	if existing != nil && existing.Source != model.LogoSourceImportXLS {
		return
	}

	data, err := l.importArea.Read(path.Join(folder, filename))
	if err != nil {
		warn(err)
		return
	}

	ext := mimeToExtension[mimetype.Detect(data).String()]
	if ext == "" {
		ext = strings.TrimPrefix(path.Ext(filename), ".")
	}

	id := uuid.NewString()
	needsCopy := true
	oldPath := ""
	if existing != nil {
		dest := "logos/" + existing.UUID + "." + ext
		if size, sizeErr := l.mediaArea.Size(dest); sizeErr == nil && size == int64(len(data)) {
			id = existing.UUID
			needsCopy = false
		} else {
			oldPath = existing.StoragePath()
		}
	}
	stored := id + "." + ext

	if needsCopy {
		if err := l.mediaArea.Write("logos/"+stored, data); err != nil {
			warn(err)
			return
		}
	}

	cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(data))
	if cfgErr != nil {
		warn(cfgErr)
		return
	}

	logo := &model.Logo{
		UUID:           id,
		OrganisationID: org.ID,
		Filename:       stored,
		OriginalName:   filename,
		FileExtension:  ext,
		MimeType:       mimetype.Detect(data).String(),
		Alt:            org.Name + " logo",
		Width:          cfg.Width,
		Height:         cfg.Height,
		Size:           int64(len(data)),
		Source:         model.LogoSourceImportXLS,
		UpdatedAt:      time.Now().UTC(),
	}
	if existing != nil {
		logo.ID = existing.ID
		logo.CreatedAt = existing.CreatedAt
	} else {
		logo.CreatedAt = logo.UpdatedAt
	}
	if err := l.store.UpsertLogo(ctx, logo); err != nil {
		warn(err)
		return
	}

	if oldPath != "" && oldPath != logo.StoragePath() {
		if err := l.mediaArea.Delete(oldPath); err != nil {
			warn(err)
		}
	}
}

// DeleteStaleLogo removes an organisation's previously imported logo when
// the current import ships none. Logos from other sources are left alone.
func (l *LogoSync) DeleteStaleLogo(ctx context.Context, org *model.Organisation, stats *Stats, index int) {
	warn := func(err error) {
		stats.RecordWarning(index, fmt.Sprintf("Failed to delete existing logo for '%s': %s", org.Name, err.Error()))
	}

	existing, err := l.store.LogoByOrganisation(ctx, org.ID)
	if err != nil {
		warn(err)
		return
	}
	if existing == nil || existing.Source != model.LogoSourceImportXLS {
		return
	}

	if err := l.store.DeleteLogo(ctx, org.ID); err != nil {
		warn(err)
		return
	}
	if err := l.mediaArea.Delete(existing.StoragePath()); err != nil {
		warn(err)
	}
}
