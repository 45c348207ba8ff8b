/*
Package csv reads and writes datasets as CSV: a header row with the names of
the columns followed by a row per record.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/andrijadukic/indecision-trees/dataset"
)

/*
Writer is an interface for a CSV stream to which records
can be written.
*/
type Writer interface {
	// Write takes a record and writes a row with its values
	// in header order, or returns an error.
	Write(dataset.Record) error
	// Count returns the total number of records written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count  int
	header []string
	w      *csv.Writer
}

/*
Read takes an io.Reader for a CSV stream and returns a dataset with the
records parsed from it or an error.

The header or first row of the CSV content is expected to consist of the names
of the columns. Every other row must have a value for each of them.
*/
func Read(reader io.Reader) (*dataset.Dataset, error) {
	var d *dataset.Dataset
	err := ReadByRecord(reader, func(header []string) error {
		d = dataset.New(header, nil)
		return nil
	}, func(_ int, r dataset.Record) (bool, error) {
		d.Insert(r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
ReadByRecord takes an io.Reader for a CSV stream, a function called with the
header once it is read, which may abort the reading with an error, and a lambda function on an integer and a record that
returns a boolean value. It parses the records from the reader and for each it
calls the lambda function with the record and its index as parameters. If the
lambda function returns true, it will continue processing the next record,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or if the lambda returns one.
*/
func ReadByRecord(reader io.Reader, onHeader func([]string) error, lambda func(int, dataset.Record) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return fmt.Errorf("parsing header: duplicated column %q", h)
		}
		seen[h] = true
	}
	err = onHeader(header)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		record := make(dataset.Record, len(header))
		for i, h := range header {
			record[h] = row[i]
		}
		ok, err := lambda(l-2, record)
		if err != nil {
			return fmt.Errorf("processing line %d: %v", l, err)
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFile takes a filepath string, opens the file to which the filepath points
to and uses Read to return a dataset or an error read from it. If the filepath
is "" os.Stdin is used instead.
*/
func ReadFile(filepath string) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	d, err := Read(f)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return d, err
}

/*
NewWriter takes an io.Writer and the header of the records to
write and returns a Writer that will write them on the io.Writer,
after writing the header.
*/
func NewWriter(writer io.Writer, header []string) (Writer, error) {
	w := csv.NewWriter(writer)
	h := append([]string(nil), header...)
	err := w.Write(h)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{header: h, w: w}, nil
}

/*
Write takes a writer and a dataset and dumps to the writer the dataset in
CSV format. It returns an error if something went wrong when writing to the
writer.
*/
func Write(writer io.Writer, d *dataset.Dataset) error {
	cw, err := NewWriter(writer, d.Header())
	if err != nil {
		return err
	}
	for _, r := range d.Records() {
		err = cw.Write(r)
		if err != nil {
			return err
		}
	}
	return cw.Flush()
}

/*
WriteFile takes a filepath and a dataset and writes the dataset in CSV format
on the file, creating or truncating it. If the filepath is "" os.Stdout is
used instead.
*/
func WriteFile(filepath string, d *dataset.Dataset) error {
	if filepath == "" {
		return Write(os.Stdout, d)
	}
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("creating CSV file %s: %v", filepath, err)
	}
	err = Write(f, d)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing CSV file %s: %v", filepath, err)
	}
	return f.Close()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(r dataset.Record) error {
	row := make([]string, len(cw.header))
	for j, h := range cw.header {
		v, ok := r.ValueFor(h)
		if !ok {
			return fmt.Errorf("writing CSV row for record %d: no value for column %s", cw.count+1, h)
		}
		row[j] = v
	}
	err := cw.w.Write(row)
	if err != nil {
		return fmt.Errorf("writing CSV row for record %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
