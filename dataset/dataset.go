package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Error represents an error related with datasets and the operations
// performed on them
type Error string

const (
	// ErrColumnLength is returned when inserting a column whose number of
	// values does not match the number of records in the dataset.
	ErrColumnLength = Error("column length does not match dataset length")
	// ErrSampleSize is returned when asked to sample more records than
	// available, or a negative amount of them.
	ErrSampleSize = Error("sample size out of range")
	// ErrIndexOutOfRange is returned when asked to sample a record by a
	// position the dataset does not have.
	ErrIndexOutOfRange = Error("record index out of range")
	// ErrEmpty is returned by operations that need at least one record
	// to produce a meaningful result.
	ErrEmpty = Error("dataset has no records")
	// ErrNoRandomSource is returned when a random sample is requested
	// without providing a source of randomness.
	ErrNoRandomSource = Error("no random source to sample records")
)

func (e Error) Error() string {
	return string(e)
}

/*
DomainError is returned when counting the values of a column against a
declared domain and a record holds a value outside it.
*/
type DomainError struct {
	Column string
	Value  string
}

func (de *DomainError) Error() string {
	return fmt.Sprintf("value %q of column %s is not in its declared domain", de.Value, de.Column)
}

/*
Dataset represents a collection of records along an ordered header with the
names of their columns.

The header order matters: its last column is the default class label of a
dataset and it determines where new columns are inserted. Values are always
addressed by column name though, never by position.

Every record is expected to hold exactly the columns in the header. This is not
validated: records with other columns are a mistake of whoever built the dataset.

Datasets derived from another one (by removing or keeping columns, grouping or
sampling) share no records with it and can be modified freely.
*/
type Dataset struct {
	header  []string
	records []Record
}

/*
New takes a header with the names of the columns and a slice of records and
returns a dataset with them. The header is copied, the dataset takes ownership
of the records slice.
*/
func New(header []string, records []Record) *Dataset {
	h := make([]string, len(header))
	copy(h, header)
	if records == nil {
		records = []Record{}
	}
	return &Dataset{h, records}
}

// Len returns the number of records in the dataset
func (d *Dataset) Len() int {
	return len(d.records)
}

// Header returns a copy of the names of the columns of the dataset in order
func (d *Dataset) Header() []string {
	h := make([]string, len(d.header))
	copy(h, d.header)
	return h
}

// Insert appends the given record to the dataset
func (d *Dataset) Insert(r Record) {
	d.records = append(d.records, r)
}

/*
InsertColumn takes the name of a new column, a slice of values with one value
per record and a position and adds the column to the dataset, setting the i-th
value on the i-th record and inserting the name in the header at the given
position (0 being the front). Positions beyond the header are clamped to its
ends.

It returns ErrColumnLength if the number of values differs from the number of
records.
*/
func (d *Dataset) InsertColumn(name string, values []string, position int) error {
	if len(values) != len(d.records) {
		return fmt.Errorf("inserting column %s with %d values into dataset with %d records: %w", name, len(values), len(d.records), ErrColumnLength)
	}
	for i, r := range d.records {
		r[name] = values[i]
	}
	if position < 0 {
		position = 0
	}
	if position > len(d.header) {
		position = len(d.header)
	}
	d.header = append(d.header, "")
	copy(d.header[position+1:], d.header[position:])
	d.header[position] = name
	return nil
}

// Column returns the values of the records for the given column, in record order.
func (d *Dataset) Column(name string) []string {
	values := make([]string, len(d.records))
	for i, r := range d.records {
		values[i] = r[name]
	}
	return values
}

// Records returns the records in the dataset. They are not copied.
func (d *Dataset) Records() []Record {
	return d.records
}

// Record returns the record at position i
func (d *Dataset) Record(i int) Record {
	return d.records[i]
}

/*
Remove returns a new dataset with the same records as d except for the values
of the given column, which is also removed from the header.
*/
func (d *Dataset) Remove(name string) *Dataset {
	header := make([]string, 0, len(d.header))
	for _, h := range d.header {
		if h != name {
			header = append(header, h)
		}
	}
	records := make([]Record, len(d.records))
	for i, r := range d.records {
		nr := make(Record, len(r))
		for k, v := range r {
			if k != name {
				nr[k] = v
			}
		}
		records[i] = nr
	}
	return &Dataset{header, records}
}

/*
KeepColumns returns a new dataset with the same records as d but keeping only
the values for the given columns. The header of the new dataset keeps the
relative order the columns had on d's header.
*/
func (d *Dataset) KeepColumns(names ...string) *Dataset {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	header := make([]string, 0, len(names))
	for _, h := range d.header {
		if keep[h] {
			header = append(header, h)
		}
	}
	records := make([]Record, len(d.records))
	for i, r := range d.records {
		nr := make(Record, len(names))
		for k, v := range r {
			if keep[k] {
				nr[k] = v
			}
		}
		records[i] = nr
	}
	return &Dataset{header, records}
}

// Unique returns the distinct values of the given column, sorted
func (d *Dataset) Unique(name string) []string {
	encountered := make(map[string]bool)
	result := []string{}
	for _, r := range d.records {
		v := r[name]
		if !encountered[v] {
			encountered[v] = true
			result = append(result, v)
		}
	}
	sort.Strings(result)
	return result
}

/*
ValueFrequency takes the name of a column and a domain of values and returns
the number of records holding each value for the column.

When domain is nil, the result has a key for every value observed in the column.
Otherwise the result has exactly the values in domain as keys (values in domain
not observed count 0) and a record holding a value outside the domain makes it
return a *DomainError.
*/
func (d *Dataset) ValueFrequency(name string, domain []string) (map[string]int, error) {
	frequencies := make(map[string]int)
	if domain == nil {
		for _, r := range d.records {
			frequencies[r[name]]++
		}
		return frequencies, nil
	}
	for _, v := range domain {
		frequencies[v] = 0
	}
	for _, r := range d.records {
		v := r[name]
		if _, ok := frequencies[v]; !ok {
			return nil, &DomainError{name, v}
		}
		frequencies[v]++
	}
	return frequencies, nil
}

/*
ValueDistribution works like ValueFrequency but returns each count divided by
the number of records in the dataset. It returns ErrEmpty on an empty dataset.
*/
func (d *Dataset) ValueDistribution(name string, domain []string) (map[string]float64, error) {
	if len(d.records) == 0 {
		return nil, ErrEmpty
	}
	frequencies, err := d.ValueFrequency(name, domain)
	if err != nil {
		return nil, err
	}
	count := float64(len(d.records))
	result := make(map[string]float64, len(frequencies))
	for v, f := range frequencies {
		result[v] = float64(f) / count
	}
	return result, nil
}

/*
MostFrequent returns the value of the given column with the most occurrences
counted with ValueFrequency and the given domain. Among values tied for the
highest count, the lexicographically smallest one is returned.
*/
func (d *Dataset) MostFrequent(name string, domain []string) (string, error) {
	frequencies, err := d.ValueFrequency(name, domain)
	if err != nil {
		return "", err
	}
	return MostFrequentKey(frequencies)
}

/*
MostFrequentKey returns the key with the highest count in the given map,
breaking ties by picking the lexicographically smallest key. It returns
ErrEmpty if the map has no keys.
*/
func MostFrequentKey(counts map[string]int) (string, error) {
	if len(counts) == 0 {
		return "", ErrEmpty
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, nil
}

/*
Entropy takes a label column and its domain and returns the entropy in bits of
the dataset for that column: a measure of the disinformation we have on the
classes of the records that belong to it. Values with no records do not
contribute to it.

Terms are added in sorted value order, so equal distributions always yield
the exact same float.
*/
func (d *Dataset) Entropy(label string, domain []string) (float64, error) {
	distribution, err := d.ValueDistribution(label, domain)
	if err != nil {
		return 0.0, err
	}
	values := make([]string, 0, len(distribution))
	for v := range distribution {
		values = append(values, v)
	}
	sort.Strings(values)
	var result float64
	for _, v := range values {
		p := distribution[v]
		if p == 0 {
			continue
		}
		result -= p * math.Log2(p)
	}
	return result, nil
}

/*
GroupBy takes the name of a column and partitions the records of the dataset
by their value for it. Each resulting dataset keeps the full header of d,
including the grouping column.
*/
func (d *Dataset) GroupBy(name string) map[string]*Dataset {
	groups := make(map[string]*Dataset)
	for _, r := range d.records {
		v := r[name]
		g, ok := groups[v]
		if !ok {
			g = &Dataset{d.Header(), []Record{}}
			groups[v] = g
		}
		g.records = append(g.records, r.Copy())
	}
	return groups
}

/*
Sample returns a new dataset with a selection of the records of d.

When indices is not nil, the selection consists of exactly the records at those
positions and in the given order, and rnd and k are ignored. ErrIndexOutOfRange
is returned for any position d does not have.

Otherwise k distinct records are drawn uniformly without replacement using rnd.
ErrSampleSize is returned if k is negative or greater than the number of records.
*/
func (d *Dataset) Sample(rnd *rand.Rand, k int, indices []int) (*Dataset, error) {
	if indices == nil {
		if rnd == nil {
			return nil, ErrNoRandomSource
		}
		var err error
		indices, err = SampleIndices(rnd, len(d.records), k)
		if err != nil {
			return nil, err
		}
	}
	records := make([]Record, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.records) {
			return nil, fmt.Errorf("sampling record %d from dataset with %d records: %w", i, len(d.records), ErrIndexOutOfRange)
		}
		records = append(records, d.records[i].Copy())
	}
	return &Dataset{d.Header(), records}, nil
}

/*
SampleIndices takes a source of randomness, a population size n and a sample
size k and returns k distinct integers in [0, n) drawn uniformly without
replacement, in draw order.
*/
func SampleIndices(rnd *rand.Rand, n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("drawing %d out of %d: %w", k, n, ErrSampleSize)
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k], nil
}

func (d *Dataset) String() string {
	return fmt.Sprintf("[ %v ]", len(d.records))
}
