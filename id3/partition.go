package id3

import (
	"fmt"
	"sort"

	"github.com/andrijadukic/indecision-trees/dataset"
)

/*
Partition represents a partition of a dataset according to a feature
into groups of records sharing its value, with the information gain the
split provides to predict the label
*/
type Partition struct {
	Feature string
	// Values holds the values of the feature observed in the dataset, sorted
	Values []string
	// Groups holds the records for each value, still including the feature
	Groups          map[string]*dataset.Dataset
	InformationGain float64
}

/*
NewPartition takes a dataset, a feature, a label and the domain of the label
and returns the partition of the dataset for the given feature. The information
gain is the entropy of the dataset minus the entropy of each group weighted by
its share of records.
*/
func NewPartition(d *dataset.Dataset, feature, label string, domain []string) (*Partition, error) {
	informationGain, err := d.Entropy(label, domain)
	if err != nil {
		return nil, fmt.Errorf("partitioning on %s: %w", feature, err)
	}
	totalCount := float64(d.Len())
	groups := d.GroupBy(feature)
	values := make([]string, 0, len(groups))
	for v := range groups {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		g := groups[v]
		gEntropy, err := g.Entropy(label, domain)
		if err != nil {
			return nil, fmt.Errorf("partitioning on %s: value %s: %w", feature, v, err)
		}
		informationGain -= gEntropy * float64(g.Len()) / totalCount
	}
	return &Partition{feature, values, groups, informationGain}, nil
}

// InformationGain returns the information gain of partitioning the
// dataset with the given feature to predict the label.
func InformationGain(d *dataset.Dataset, feature, label string, domain []string) (float64, error) {
	p, err := NewPartition(d, feature, label, domain)
	if err != nil {
		return 0.0, err
	}
	return p.InformationGain, nil
}

/*
bestPartition returns the partition with the highest information gain among
the given features. Features are expected sorted, so that on ties the
lexicographically smallest one wins.
*/
func bestPartition(d *dataset.Dataset, features []string, label string, domain []string) (*Partition, error) {
	var selected *Partition
	for _, f := range features {
		p, err := NewPartition(d, f, label, domain)
		if err != nil {
			return nil, err
		}
		if selected == nil || p.InformationGain > selected.InformationGain {
			selected = p
		}
	}
	return selected, nil
}
