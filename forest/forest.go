/*
Package forest grows random forests: ensembles of id3 decision trees, each
fitted on a random selection of the training records and features, that
predict by majority vote.
*/
package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/id3"
	"github.com/andrijadukic/indecision-trees/tree"
)

// Error represents an error fitting or querying a forest
type Error string

const (
	// ErrInvalidRatio is returned when fitting a forest whose feature or
	// example ratio is not in (0, 1]
	ErrInvalidRatio = Error("sampling ratios must be greater than 0 and at most 1")
	// ErrNoTrees is returned when fitting a forest of less than one tree
	ErrNoTrees = Error("a forest needs at least one tree")
	// ErrEmptyBag is returned when the example ratio selects no records
	// for the trees
	ErrEmptyBag = Error("example ratio selects no records")
)

func (e Error) Error() string {
	return string(e)
}

/*
Bag holds one of the trees of a forest along the selection of features and
records it was fitted with.
*/
type Bag struct {
	Model *id3.Model
	// Features holds the names of the selected features, sorted
	Features []string
	// Indices holds the positions of the selected records in the training
	// dataset, in the order they were drawn
	Indices []int
}

/*
Forest is a random forest classifier. Like id3.Model, the last column of the
dataset it is fitted with is the label it predicts.
*/
type Forest struct {
	NumTrees int
	// MaxDepth is the MaxDepth of every tree in the forest
	MaxDepth     int
	FeatureRatio float64
	ExampleRatio float64
	// NewNodeStore, when set, is called with the position of each tree to
	// obtain the store for its nodes.
	NewNodeStore func(i int) tree.NodeStore

	rnd      *rand.Rand
	label    string
	domain   []string
	features []string
	bags     []Bag
}

/*
New returns a forest of numTrees trees with the given maximum depth, each
fitted on round(featureRatio * features) features and round(exampleRatio *
records) records drawn from rnd. A nil rnd is replaced by one seeded with the
current time.
*/
func New(numTrees, maxDepth int, featureRatio, exampleRatio float64, rnd *rand.Rand) *Forest {
	return &Forest{
		NumTrees:     numTrees,
		MaxDepth:     maxDepth,
		FeatureRatio: featureRatio,
		ExampleRatio: exampleRatio,
		rnd:          rnd,
	}
}

/*
Fit takes a context and a training dataset and fits the trees of the forest.
For each tree, in order, it draws the records and then the features to use,
both uniformly and without replacement, so that forests fitted on the same
data with identically seeded sources end up with the same bags.
*/
func (f *Forest) Fit(ctx context.Context, d *dataset.Dataset) error {
	if f.NumTrees < 1 {
		return ErrNoTrees
	}
	if !validRatio(f.FeatureRatio) || !validRatio(f.ExampleRatio) {
		return ErrInvalidRatio
	}
	header := d.Header()
	if len(header) == 0 {
		return id3.ErrNoLabel
	}
	if d.Len() == 0 {
		return id3.ErrEmptyDataset
	}
	if f.rnd == nil {
		f.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	label := header[len(header)-1]
	features := header[:len(header)-1]
	sort.Strings(features)
	instanceSubsetSize := int(math.RoundToEven(f.ExampleRatio * float64(d.Len())))
	featureSubsetSize := int(math.RoundToEven(f.FeatureRatio * float64(len(features))))
	if instanceSubsetSize == 0 {
		return ErrEmptyBag
	}

	bags := make([]Bag, 0, f.NumTrees)
	for i := 0; i < f.NumTrees; i++ {
		bag, bagged, err := f.bagging(d, label, features, instanceSubsetSize, featureSubsetSize)
		if err != nil {
			return fmt.Errorf("bagging tree %d: %v", i, err)
		}
		bag.Model = id3.New(f.MaxDepth)
		if f.NewNodeStore != nil {
			bag.Model.NodeStore = f.NewNodeStore(i)
		}
		err = bag.Model.Fit(ctx, bagged)
		if err != nil {
			return fmt.Errorf("fitting tree %d: %w", i, err)
		}
		bags = append(bags, bag)
	}
	f.label = label
	f.domain = d.Unique(label)
	f.features = features
	f.bags = bags
	return nil
}

func (f *Forest) bagging(d *dataset.Dataset, label string, features []string, instanceSubsetSize, featureSubsetSize int) (Bag, *dataset.Dataset, error) {
	indices, err := dataset.SampleIndices(f.rnd, d.Len(), instanceSubsetSize)
	if err != nil {
		return Bag{}, nil, err
	}
	sample, err := d.Sample(nil, 0, indices)
	if err != nil {
		return Bag{}, nil, err
	}
	featureIndices, err := dataset.SampleIndices(f.rnd, len(features), featureSubsetSize)
	if err != nil {
		return Bag{}, nil, err
	}
	columns := make([]string, 0, len(featureIndices))
	for _, i := range featureIndices {
		columns = append(columns, features[i])
	}
	sort.Strings(columns)
	bagged := sample.KeepColumns(append(append([]string{}, columns...), label)...)
	return Bag{Features: columns, Indices: indices}, bagged, nil
}

func validRatio(r float64) bool {
	return r > 0 && r <= 1
}

/*
Predict takes a context and a dataset and returns the label predicted for each
of its records, in order. Every tree gets a vote for each record and the label
with the most votes wins, the lexicographically smallest among tied labels.
Votes for labels the forest was not fitted with are ignored.
*/
func (f *Forest) Predict(ctx context.Context, d *dataset.Dataset) ([]string, error) {
	if f.bags == nil {
		return nil, id3.ErrNotFitted
	}
	treePredictions := make([][]string, len(f.bags))
	for i, b := range f.bags {
		p, err := b.Model.Predict(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		treePredictions[i] = p
	}
	predictions := make([]string, d.Len())
	for i := range predictions {
		votes := make(map[string]int, len(f.domain))
		for _, v := range f.domain {
			votes[v] = 0
		}
		for _, p := range treePredictions {
			if _, ok := votes[p[i]]; ok {
				votes[p[i]]++
			}
		}
		winner, err := dataset.MostFrequentKey(votes)
		if err != nil {
			return nil, err
		}
		predictions[i] = winner
	}
	return predictions, nil
}

// Bags returns the trees of the forest with their selection of features and
// records, in the order they were fitted
func (f *Forest) Bags() []Bag {
	return append([]Bag(nil), f.bags...)
}

/*
PrintSamples returns two lines per tree of the forest: the space separated
names of its features and the space separated positions of its records.
*/
func (f *Forest) PrintSamples() []string {
	lines := make([]string, 0, 2*len(f.bags))
	for _, b := range f.bags {
		indices := make([]string, len(b.Indices))
		for i, index := range b.Indices {
			indices[i] = strconv.Itoa(index)
		}
		lines = append(lines, strings.Join(b.Features, " "), strings.Join(indices, " "))
	}
	return lines
}

// ClassLabel returns the name of the column the forest predicts
func (f *Forest) ClassLabel() string {
	return f.label
}

// ClassLabelDomain returns the sorted values the label may take
func (f *Forest) ClassLabelDomain() []string {
	return append([]string(nil), f.domain...)
}

// Features returns the sorted names of the columns available to the trees
func (f *Forest) Features() []string {
	return append([]string(nil), f.features...)
}
