package pgadapter

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/dataset/sqldataset"
)

func TestPlaceholder(t *testing.T) {
	a := &adapter{}
	require.Equal(t, "$1", a.Placeholder(1))
	require.Equal(t, "$12", a.Placeholder(12))
	_, err := a.ColumnName("id")
	require.Error(t, err)
	_, err = a.ColumnName(`a"b`)
	require.Error(t, err)
	c, err := a.ColumnName("outlook")
	require.NoError(t, err)
	require.Equal(t, "outlook", c)
}

// TestWriteRead runs against the database in INDECISION_TEST_POSTGRES_URL
func TestWriteRead(t *testing.T) {
	url := os.Getenv("INDECISION_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("INDECISION_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	a, err := New(url)
	require.NoError(t, err)
	defer a.Close()

	table := "samples_" + uuid.New().String()[:8]
	d := dataset.New([]string{"weather", "play"}, []dataset.Record{
		{"weather": "sunny", "play": "no"},
		{"weather": "rainy", "play": "yes"},
	})
	_, err = sqldataset.Write(ctx, a, table, d)
	require.NoError(t, err)
	defer a.DB().ExecContext(ctx, `DROP TABLE "`+table+`"`)

	read, err := sqldataset.Read(ctx, a, table)
	require.NoError(t, err)
	require.Equal(t, d.Header(), read.Header())
	require.Equal(t, d.Records(), read.Records())
}
