package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/andrijadukic/indecision-trees/dataset"
)

// DefaultTable is the table datasets are read from and written to when
// no other is given
const DefaultTable = "samples"

// MaxRecordInsertionsPerStatement is the maximum number
// of records that are allowed to be added with a single
// insert command by Write. Writing more will result in
// making more insertion commands.
const MaxRecordInsertionsPerStatement = 50

// IDColumn is the name of the primary key column of dataset tables. It orders
// the records and is not a column of the dataset, so datasets cannot use it.
const IDColumn = "id"

/*
Adapter is an interface providing what reading and writing datasets on
a specific database engine needs.
*/
type Adapter interface {
	// DB returns the database the adapter works on
	DB() *sql.DB
	// ColumnName takes the name of a dataset column and returns the name
	// of the table column for it or an error if it cannot be used.
	ColumnName(string) (string, error)
	// Placeholder returns the placeholder for the n-th (from 1) parameter
	// of a statement.
	Placeholder(n int) string
	// IDColumnDefinition returns the definition of the auto-incrementing
	// id primary key column for a CREATE TABLE statement.
	IDColumnDefinition() string
	// Close releases the database
	Close() error
}

/*
Read takes a context, an adapter and a table name and returns a dataset with the
records in the table, ordered by id. The header holds the columns of the table
but id, in the order they were declared. NULL values are an error.
*/
func Read(ctx context.Context, a Adapter, table string) (*dataset.Dataset, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	header, err := tableColumns(ctx, a, table)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("table %s has no columns besides id", table)
	}
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = quote(h)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(quoted, ", "), quote(table), quote(IDColumn))
	rows, err := a.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying records from %s: %v", table, err)
	}
	defer rows.Close()
	d := dataset.New(header, nil)
	values := make([]sql.NullString, len(header))
	dest := make([]interface{}, len(header))
	for i := range values {
		dest[i] = &values[i]
	}
	for n := 1; rows.Next(); n++ {
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning record %d from %s: %v", n, table, err)
		}
		r := make(dataset.Record, len(header))
		for i, v := range values {
			if !v.Valid {
				return nil, fmt.Errorf("record %d from %s has NULL value for column %s", n, table, header[i])
			}
			r[header[i]] = v.String
		}
		d.Insert(r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records from %s: %v", table, err)
	}
	return d, nil
}

func tableColumns(ctx context.Context, a Adapter, table string) ([]string, error) {
	rows, err := a.DB().QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1=0", quote(table)))
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %v", table, err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %v", table, err)
	}
	header := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != IDColumn {
			header = append(header, c)
		}
	}
	return header, nil
}

/*
Write takes a context, an adapter, a table name and a dataset, creates the table
if it does not exist and inserts the records of the dataset on it in a single
transaction. It returns the number of records written and an error if not all
could be written.
*/
func Write(ctx context.Context, a Adapter, table string, d *dataset.Dataset) (int, error) {
	if err := validTable(table); err != nil {
		return 0, err
	}
	header := d.Header()
	columns := make([]string, len(header))
	for i, h := range header {
		if h == IDColumn {
			return 0, fmt.Errorf("column %q is reserved for the primary key of table %s", h, table)
		}
		c, err := a.ColumnName(h)
		if err != nil {
			return 0, err
		}
		columns[i] = quote(c)
	}
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s(", quote(table)))
	for _, c := range columns {
		createStmtBuf.WriteString(fmt.Sprintf("%s TEXT NOT NULL, ", c))
	}
	createStmtBuf.WriteString(a.IDColumnDefinition())
	createStmtBuf.WriteString(")")
	_, err := a.DB().ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return 0, fmt.Errorf("ensuring table %s exists: %v", table, err)
	}

	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	records := d.Records()
	for start := 0; start < len(records); start += MaxRecordInsertionsPerStatement {
		end := start + MaxRecordInsertionsPerStatement
		if end > len(records) {
			end = len(records)
		}
		stmt, args := insertStatement(a, table, columns, header, records[start:end])
		_, err = tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting records %d to %d: %v", start+1, end, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("committing records: %v", err)
	}
	return len(records), nil
}

func insertStatement(a Adapter, table string, columns, header []string, records []dataset.Record) (string, []interface{}) {
	var stmtBuf bytes.Buffer
	args := make([]interface{}, 0, len(records)*len(header))
	stmtBuf.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quote(table), strings.Join(columns, ", ")))
	for i, r := range records {
		if i > 0 {
			stmtBuf.WriteString(", ")
		}
		stmtBuf.WriteString("(")
		for j, h := range header {
			if j > 0 {
				stmtBuf.WriteString(", ")
			}
			args = append(args, r[h])
			stmtBuf.WriteString(a.Placeholder(len(args)))
		}
		stmtBuf.WriteString(")")
	}
	return stmtBuf.String(), args
}

func validTable(table string) error {
	if table == "" || strings.ContainsAny(table, `"`) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

func quote(name string) string {
	return `"` + name + `"`
}
