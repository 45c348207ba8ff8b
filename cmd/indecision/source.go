package main

import (
	"context"
	"fmt"
	"strings"

	mgo "gopkg.in/mgo.v2"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/dataset/csv"
	"github.com/andrijadukic/indecision-trees/dataset/mongodataset"
	"github.com/andrijadukic/indecision-trees/dataset/sqldataset"
	"github.com/andrijadukic/indecision-trees/dataset/sqldataset/pgadapter"
	"github.com/andrijadukic/indecision-trees/dataset/sqldataset/sqlite3adapter"
)

type sourceKind int

const (
	csvSource sourceKind = iota
	sqlite3Source
	postgreSQLSource
	mongoDBSource
)

func (sk sourceKind) String() string {
	switch sk {
	case sqlite3Source:
		return "SQLite3"
	case postgreSQLSource:
		return "PostgreSQL"
	case mongoDBSource:
		return "MongoDB"
	}
	return "CSV"
}

/*
kindOf tells how a dataset location given on the command line is accessed:
PostgreSQL and MongoDB connection URLs, SQLite3 .db files and anything else,
including "" for the standard streams, as CSV.
*/
func kindOf(location string) sourceKind {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgreSQLSource
	case strings.HasPrefix(location, "mongodb://"):
		return mongoDBSource
	case strings.HasSuffix(location, ".db"):
		return sqlite3Source
	}
	return csvSource
}

// readDataset reads the dataset at the given location. table names the SQL
// table or MongoDB collection to read and is ignored for CSV.
func readDataset(ctx context.Context, l logger, location, table string) (*dataset.Dataset, error) {
	kind := kindOf(location)
	switch kind {
	case sqlite3Source, postgreSQLSource:
		l.Logf("Creating %v adapter for %s...", kind, location)
		adapter, err := sqlAdapter(kind, location)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		l.Logf("Reading table %s over %v adapter...", table, kind)
		return sqldataset.Read(ctx, adapter, table)
	case mongoDBSource:
		l.Logf("Dialing MongoDB at %s...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("dialing MongoDB at %s: %v", location, err)
		}
		defer session.Close()
		l.Logf("Reading collection %s...", table)
		return mongodataset.Read(ctx, session, table)
	}
	if location == "" {
		l.Logf("Reading CSV dataset from STDIN...")
	} else {
		l.Logf("Reading CSV dataset from %s...", location)
	}
	return csv.ReadFile(location)
}

// writeDataset writes d to the given location, see readDataset.
func writeDataset(ctx context.Context, l logger, location, table string, d *dataset.Dataset) error {
	kind := kindOf(location)
	switch kind {
	case sqlite3Source, postgreSQLSource:
		l.Logf("Creating %v adapter for %s...", kind, location)
		adapter, err := sqlAdapter(kind, location)
		if err != nil {
			return err
		}
		defer adapter.Close()
		l.Logf("Writing table %s over %v adapter...", table, kind)
		n, err := sqldataset.Write(ctx, adapter, table, d)
		l.Logf("%d records written", n)
		return err
	case mongoDBSource:
		l.Logf("Dialing MongoDB at %s...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return fmt.Errorf("dialing MongoDB at %s: %v", location, err)
		}
		defer session.Close()
		l.Logf("Writing collection %s...", table)
		n, err := mongodataset.Write(ctx, session, table, d)
		l.Logf("%d records written", n)
		return err
	}
	if location == "" {
		l.Logf("Writing CSV dataset to STDOUT...")
	} else {
		l.Logf("Writing CSV dataset to %s...", location)
	}
	return csv.WriteFile(location, d)
}

func sqlAdapter(kind sourceKind, location string) (sqldataset.Adapter, error) {
	if kind == postgreSQLSource {
		return pgadapter.New(location)
	}
	return sqlite3adapter.New(location)
}
