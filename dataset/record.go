package dataset

import (
	"fmt"
	"sort"
	"strings"
)

/*
Record represents an item to classify or from which to learn how to classify
them: a mapping from column names to categorical values.
*/
type Record map[string]string

// ValueFor returns the value the record holds for the given column and whether
// the record holds one at all.
func (r Record) ValueFor(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Copy returns a record with the same values that shares nothing with r.
func (r Record) Copy() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

func (r Record) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s:%s", k, r[k]))
	}
	return fmt.Sprintf("[%s]", strings.Join(pairs, " "))
}
