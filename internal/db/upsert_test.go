package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countryUpsert = UpsertConfig{
	Table:        "countries",
	Columns:      []string{"slug", "name", "alpha2", "alpha3", "lat", "lng"},
	ConflictKeys: []string{"alpha2"},
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, countryUpsert, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_ValidatesConfig(t *testing.T) {
	rows := [][]any{{"germany", "Germany", "DE", "DEU", 51.0, 9.0}}

	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{Table: "countries", ConflictKeys: []string{"alpha2"}}, rows)
	assert.ErrorContains(t, err, "no columns")

	_, err = BulkUpsert(context.TODO(), nil, UpsertConfig{Table: "countries", Columns: []string{"alpha2"}}, rows)
	assert.ErrorContains(t, err, "no conflict keys")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_countries"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_countries"}, countryUpsert.Columns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "countries" .+ ON CONFLICT \("alpha2"\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	rows := [][]any{
		{"germany", "Germany", "DE", "DEU", 51.0, 9.0},
		{"france", "France", "FR", "FRA", 46.0, 2.0},
	}
	n, err := BulkUpsert(context.Background(), mock, countryUpsert, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_countries"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_countries"}, countryUpsert.Columns).
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	rows := [][]any{{"germany", "Germany", "DE", "DEU", 51.0, 9.0}}
	_, err = BulkUpsert(context.Background(), mock, countryUpsert, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table")
	assert.NoError(t, mock.ExpectationsWereMet())
}
