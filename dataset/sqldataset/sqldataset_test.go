package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrijadukic/indecision-trees/dataset"
)

type numberedAdapter struct{}

func (numberedAdapter) DB() *sql.DB                         { return nil }
func (numberedAdapter) ColumnName(n string) (string, error) { return n, nil }
func (numberedAdapter) Placeholder(n int) string            { return fmt.Sprintf("$%d", n) }
func (numberedAdapter) IDColumnDefinition() string          { return `"id" SERIAL PRIMARY KEY` }
func (numberedAdapter) Close() error                        { return nil }

func TestInsertStatement(t *testing.T) {
	header := []string{"weather", "play"}
	records := []dataset.Record{
		{"weather": "sunny", "play": "no"},
		{"weather": "rainy", "play": "yes"},
	}
	stmt, args := insertStatement(numberedAdapter{}, "samples", []string{quote("weather"), quote("play")}, header, records)
	require.Equal(t, `INSERT INTO "samples" ("weather", "play") VALUES ($1, $2), ($3, $4)`, stmt)
	require.Equal(t, []interface{}{"sunny", "no", "rainy", "yes"}, args)
}

func TestInvalidTable(t *testing.T) {
	require.Error(t, validTable(""))
	require.Error(t, validTable(`sam"ples`))
	require.NoError(t, validTable(DefaultTable))
}

func TestWriteRejectsIDColumn(t *testing.T) {
	d := dataset.New([]string{"id", "play"}, []dataset.Record{{"id": "1", "play": "no"}})
	n, err := Write(context.Background(), numberedAdapter{}, DefaultTable, d)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"id"`)
	require.Equal(t, 0, n)
}
