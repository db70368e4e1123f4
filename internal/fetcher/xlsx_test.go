package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeSheet(t *testing.T, headings []string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	ws, err := f.AddSheet("Organisations")
	require.NoError(t, err)

	head := ws.AddRow()
	for _, h := range headings {
		head.AddCell().SetString(h)
	}
	for _, row := range rows {
		r := ws.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadSheet_NormalizesHeadings(t *testing.T) {
	path := writeSheet(t,
		[]string{"Name", "Website URL", "Short Description"},
		[][]string{{"Acme AI", "https://acme.example", "  Builds things  "}},
	)

	sheet, err := ReadSheet(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "website_url", "short_description"}, sheet.Columns)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	assert.Equal(t, "Acme AI", row.Get("name"))
	assert.Equal(t, "https://acme.example", row.Get("website_url"))
	// Cell values come back trimmed.
	assert.Equal(t, "Builds things", row.Get("short_description"))
	assert.Equal(t, "", row.Get("no_such_column"))
}

func TestReadSheet_RowNumbering(t *testing.T) {
	path := writeSheet(t,
		[]string{"Name"},
		[][]string{{"First"}, {"Second"}},
	)

	sheet, err := ReadSheet(path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)

	assert.Equal(t, 0, sheet.Rows[0].Index)
	assert.Equal(t, 2, sheet.Rows[0].Number())
	assert.Equal(t, 3, sheet.Rows[1].Number())
}

func TestReadSheet_ShortRowsPadded(t *testing.T) {
	path := writeSheet(t,
		[]string{"Name", "Country", "Website URL"},
		[][]string{{"Acme AI"}},
	)

	sheet, err := ReadSheet(path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	assert.Equal(t, "Acme AI", row.Get("name"))
	assert.Equal(t, "", row.Get("country"))
	assert.False(t, row.Has("website_url"))
	assert.False(t, row.IsEmpty())
}

func TestReadSheet_EmptyStates(t *testing.T) {
	t.Run("heading only", func(t *testing.T) {
		path := writeSheet(t, []string{"Name"}, nil)
		sheet, err := ReadSheet(path)
		require.NoError(t, err)
		assert.True(t, sheet.IsEmpty())
		assert.Nil(t, sheet.First())
	})

	t.Run("blank data row", func(t *testing.T) {
		path := writeSheet(t, []string{"Name", "Country"}, [][]string{{"", "  "}})
		sheet, err := ReadSheet(path)
		require.NoError(t, err)
		require.NotNil(t, sheet.First())
		assert.True(t, sheet.First().IsEmpty())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSheet(filepath.Join(t.TempDir(), "nope.xlsx"))
		assert.Error(t, err)
	})
}

func TestSheet_HasColumns(t *testing.T) {
	path := writeSheet(t, []string{"Name", "Country", "Website URL"}, nil)
	sheet, err := ReadSheet(path)
	require.NoError(t, err)

	assert.True(t, sheet.HasColumns("name", "country", "website_url"))
	assert.False(t, sheet.HasColumns("name", "turnover"))
}
