package importer

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailandscape/landscape-cli/internal/model"
	"github.com/ailandscape/landscape-cli/internal/storage"
	"github.com/ailandscape/landscape-cli/internal/store"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

type logoFixture struct {
	store      store.Store
	sync       *LogoSync
	importArea *storage.Area
	mediaArea  *storage.Area
	org        *model.Organisation
}

func newLogoFixture(t *testing.T) *logoFixture {
	t.Helper()
	s := newTestStore(t)
	importArea := storage.NewArea(t.TempDir())
	mediaArea := storage.NewArea(t.TempDir())

	org := &model.Organisation{
		Name:     "Acme AI",
		Slug:     "acme-ai",
		Source:   model.OrgSourceImportXLS,
		IsActive: true,
	}
	require.NoError(t, s.CreateOrganisation(context.Background(), org))

	return &logoFixture{
		store:      s,
		sync:       NewLogoSync(s, importArea, mediaArea),
		importArea: importArea,
		mediaArea:  mediaArea,
		org:        org,
	}
}

func TestLogoSync_FindLogo(t *testing.T) {
	f := newLogoFixture(t)
	stats := NewStats(ImportName)

	require.NoError(t, f.importArea.Write("2026/acme_ai.webp", []byte("webp bytes")))

	assert.Equal(t, "acme_ai.webp", f.sync.FindLogo("Acme AI", "2026", stats, 0))
	assert.Empty(t, stats.Warnings())
}

func TestLogoSync_FindLogo_ProbeOrder(t *testing.T) {
	f := newLogoFixture(t)
	stats := NewStats(ImportName)

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", []byte("png")))
	require.NoError(t, f.importArea.Write("2026/acme_ai.jpg", []byte("jpg")))

	// png wins over jpg.
	assert.Equal(t, "acme_ai.png", f.sync.FindLogo("Acme AI", "2026", stats, 0))
}

func TestLogoSync_FindLogo_Missing(t *testing.T) {
	f := newLogoFixture(t)
	stats := NewStats(ImportName)

	assert.Empty(t, f.sync.FindLogo("Acme AI", "2026", stats, 3))
	require.Len(t, stats.Warnings(), 1)
	assert.Equal(t, "Row 5: Logo 'acme_ai.jpg' not found for 'Acme AI' in /2026.", stats.Warnings()[0])
}

func TestLogoSync_ImportLogo_Creates(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()
	stats := NewStats(ImportName)

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", pngBytes(t, 3, 2)))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", stats, 0)
	assert.Empty(t, stats.Warnings())

	logo, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, logo)

	assert.Equal(t, "png", logo.FileExtension)
	assert.Equal(t, "image/png", logo.MimeType)
	assert.Equal(t, 3, logo.Width)
	assert.Equal(t, 2, logo.Height)
	assert.Equal(t, "Acme AI logo", logo.Alt)
	assert.Equal(t, "acme_ai.png", logo.OriginalName)
	assert.Equal(t, model.LogoSourceImportXLS, logo.Source)
	assert.True(t, f.mediaArea.Exists(logo.StoragePath()))
}

func TestLogoSync_ImportLogo_ReusesUUIDForUnchangedFile(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()
	data := pngBytes(t, 3, 2)

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", data))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", NewStats(ImportName), 0)

	first, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Backdate the stored file; an unchanged import must not rewrite it.
	stamp := time.Now().Add(-time.Hour)
	mediaPath, err := f.mediaArea.Path(first.StoragePath())
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(mediaPath, stamp, stamp))

	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", NewStats(ImportName), 0)

	second, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.UUID, second.UUID)
	assert.Equal(t, first.Filename, second.Filename)

	info, err := os.Stat(mediaPath)
	require.NoError(t, err)
	assert.WithinDuration(t, stamp, info.ModTime(), time.Second)
}

func TestLogoSync_ImportLogo_UndecodableImageNotPersisted(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()
	stats := NewStats(ImportName)

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", []byte("not an image at all")))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", stats, 0)

	require.Len(t, stats.Warnings(), 1)
	assert.Contains(t, stats.Warnings()[0], "Failed to import logo for 'Acme AI'")

	logo, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	assert.Nil(t, logo)
}

func TestLogoSync_ImportLogo_RotatesUUIDForChangedFile(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", pngBytes(t, 3, 2)))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", NewStats(ImportName), 0)

	first, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", pngBytes(t, 16, 16)))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", NewStats(ImportName), 0)

	second, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.NotEqual(t, first.UUID, second.UUID)
	assert.Equal(t, 16, second.Width)
	assert.True(t, f.mediaArea.Exists(second.StoragePath()))
	// The superseded file was cleaned up after the row was persisted.
	assert.False(t, f.mediaArea.Exists(first.StoragePath()))
}

func TestLogoSync_ImportLogo_ProtectsForeignLogos(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()

	manual := &model.Logo{
		UUID:           "manual-uuid",
		OrganisationID: f.org.ID,
		Filename:       "manual-uuid.png",
		FileExtension:  "png",
		MimeType:       "image/png",
		Source:         model.LogoSourceUserUpload,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, f.store.UpsertLogo(ctx, manual))

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", pngBytes(t, 3, 2)))
	stats := NewStats(ImportName)
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", stats, 0)

	logo, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, logo)
	assert.Equal(t, "manual-uuid", logo.UUID)
	assert.Equal(t, model.LogoSourceUserUpload, logo.Source)
	assert.Empty(t, stats.Warnings())
}

func TestLogoSync_DeleteStaleLogo(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()

	require.NoError(t, f.importArea.Write("2026/acme_ai.png", pngBytes(t, 3, 2)))
	f.sync.ImportLogo(ctx, f.org, "2026", "acme_ai.png", NewStats(ImportName), 0)

	logo, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, logo)

	f.sync.DeleteStaleLogo(ctx, f.org, NewStats(ImportName), 0)

	gone, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.False(t, f.mediaArea.Exists(logo.StoragePath()))
}

func TestLogoSync_DeleteStaleLogo_ProtectsForeignLogos(t *testing.T) {
	f := newLogoFixture(t)
	ctx := context.Background()

	manual := &model.Logo{
		UUID:           "manual-uuid",
		OrganisationID: f.org.ID,
		Filename:       "manual-uuid.png",
		FileExtension:  "png",
		MimeType:       "image/png",
		Source:         model.LogoSourceUserAdmin,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, f.store.UpsertLogo(ctx, manual))

	f.sync.DeleteStaleLogo(ctx, f.org, NewStats(ImportName), 0)

	logo, err := f.store.LogoByOrganisation(ctx, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, logo)
	assert.Equal(t, "manual-uuid", logo.UUID)
}
