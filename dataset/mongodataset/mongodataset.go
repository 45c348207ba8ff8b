/*
Package mongodataset reads and writes datasets on MongoDB collections.

Each record is stored as a document with a field per column. The order of
the fields of the documents determines the order of the dataset header, and
the _id field of the documents is not part of it.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/andrijadukic/indecision-trees/dataset"
)

const (
	// DefaultCollection is the collection datasets are read from and written
	// to when no other is given
	DefaultCollection = "samples"

	// MaxDocumentInsertionsPerCall is the maximum number of documents Write
	// inserts with a single call to the database.
	MaxDocumentInsertionsPerCall = 500
)

/*
Read takes a context, a MongoDB session and the name of a collection on the
session's default database and returns a dataset with a record per document,
ordered by _id. The header is given by the fields of the first document, and
every other document must have exactly the same fields. Values of any type are
turned into strings with their default format.
*/
func Read(ctx context.Context, session *mgo.Session, collection string) (*dataset.Dataset, error) {
	iter := session.DB("").C(collection).Find(nil).Sort("_id").Iter()
	var d *dataset.Dataset
	var doc bson.D
	for n := 1; iter.Next(&doc); n++ {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		if d == nil {
			d = dataset.New(headerFromDoc(doc), nil)
		}
		r, err := recordFromDoc(doc, d.Header())
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("reading document %d from %s: %v", n, collection, err)
		}
		d.Insert(r)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("reading documents from %s: %v", collection, err)
	}
	if d == nil {
		return nil, fmt.Errorf("collection %s has no documents to take the columns from", collection)
	}
	return d, nil
}

/*
Write takes a context, a MongoDB session, the name of a collection on the
session's default database and a dataset and inserts a document for each record
of the dataset on the collection, with fields in header order. It returns the
number of records written and an error if not all could be written.
*/
func Write(ctx context.Context, session *mgo.Session, collection string, d *dataset.Dataset) (int, error) {
	header := d.Header()
	for _, h := range header {
		if err := validFieldName(h); err != nil {
			return 0, err
		}
	}
	c := session.DB("").C(collection)
	records := d.Records()
	for start := 0; start < len(records); start += MaxDocumentInsertionsPerCall {
		if err := ctx.Err(); err != nil {
			return start, err
		}
		end := start + MaxDocumentInsertionsPerCall
		if end > len(records) {
			end = len(records)
		}
		docs := make([]interface{}, 0, end-start)
		for _, r := range records[start:end] {
			docs = append(docs, docFromRecord(r, header))
		}
		err := c.Insert(docs...)
		if err != nil {
			return start, fmt.Errorf("inserting records %d to %d into %s: %v", start+1, end, collection, err)
		}
	}
	return len(records), nil
}

func headerFromDoc(doc bson.D) []string {
	header := make([]string, 0, len(doc))
	for _, e := range doc {
		if e.Name != "_id" {
			header = append(header, e.Name)
		}
	}
	return header
}

func recordFromDoc(doc bson.D, header []string) (dataset.Record, error) {
	r := make(dataset.Record, len(header))
	for _, e := range doc {
		if e.Name == "_id" {
			continue
		}
		if e.Value == nil {
			return nil, fmt.Errorf("field %s is null", e.Name)
		}
		r[e.Name] = fmt.Sprintf("%v", e.Value)
	}
	if len(r) != len(header) {
		return nil, fmt.Errorf("fields %v do not match columns %v", headerFromDoc(doc), header)
	}
	for _, h := range header {
		if _, ok := r[h]; !ok {
			return nil, fmt.Errorf("missing field %s", h)
		}
	}
	return r, nil
}

func docFromRecord(r dataset.Record, header []string) bson.D {
	doc := make(bson.D, 0, len(header))
	for _, h := range header {
		doc = append(doc, bson.DocElem{Name: h, Value: r[h]})
	}
	return doc
}

func validFieldName(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid column name %q: reserved collection field", "_id")
	}
	if name == "" || strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid column name %q: empty or contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}
