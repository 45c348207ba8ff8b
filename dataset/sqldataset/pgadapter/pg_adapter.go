/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"
	"strings"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/andrijadukic/indecision-trees/dataset/sqldataset"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as column name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`column name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

func (a *adapter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (a *adapter) IDColumnDefinition() string {
	return `"id" SERIAL PRIMARY KEY`
}

func (a *adapter) Close() error {
	return a.db.Close()
}
