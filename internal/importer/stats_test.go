package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Summary(t *testing.T) {
	stats := NewStats(ImportName)
	stats.Start()

	stats.RecordProcessed(0)
	stats.RecordCreated("Acme AI")
	stats.RecordProcessed(1)
	stats.RecordUpdated("Beta Corp")
	stats.RecordWarning(1, "Invalid website URL for 'Beta Corp'")
	stats.RecordProcessed(2)
	stats.RecordError(2, "Missing required field values. Expected: name, country, website_url")
	stats.RecordSkip(3, "empty row")

	stats.Finish()

	assert.Regexp(t,
		`^Organisations Import: Processed 3, skipped 1 rows\. Created 1, updated 1 entries with 1 warnings\. 1 failed\. Completed in \d+\.\d\ds$`,
		stats.Summary())
	assert.Equal(t, 2, stats.Succeeded())
	assert.True(t, stats.HasErrors())
	assert.False(t, stats.HasFatal())
}

func TestStats_RowNumbersInMessages(t *testing.T) {
	stats := NewStats(ImportName)

	// The first data row of the sheet is spreadsheet row 2.
	stats.RecordError(0, "boom")
	stats.RecordWarning(4, "careful")

	require.Len(t, stats.Errors(), 1)
	assert.Equal(t, "Row 2: boom", stats.Errors()[0])
	require.Len(t, stats.Warnings(), 1)
	assert.Equal(t, "Row 6: careful", stats.Warnings()[0])
}

func TestStats_FatalFinishesRun(t *testing.T) {
	stats := NewStats(ImportName)
	stats.Start()
	stats.RecordFatal("Sheet is empty. No data to import.")

	assert.True(t, stats.HasFatal())
	assert.Equal(t, "Sheet is empty. No data to import.", stats.FatalError())
	// Finish was implied by the fatal; the summary carries a duration.
	assert.Regexp(t, `Completed in \d+\.\d\ds$`, stats.Summary())
}

func TestStats_AccessorsCopy(t *testing.T) {
	stats := NewStats(ImportName)
	stats.RecordError(0, "one")

	errs := stats.Errors()
	errs[0] = "mutated"
	assert.Equal(t, "Row 2: one", stats.Errors()[0])
}
