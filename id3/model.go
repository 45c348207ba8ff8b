/*
Package id3 grows decision trees over categorical data choosing, at every
node, the feature whose values provide the highest information gain on the
class label.
*/
package id3

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/queue"
	"github.com/andrijadukic/indecision-trees/tree"
)

// Unlimited is the MaxDepth for trees that grow until their leaves are pure
// or they run out of features.
const Unlimited = -1

// Error represents an error fitting or querying a model
type Error string

const (
	// ErrEmptyDataset is returned when fitting a model with no records
	ErrEmptyDataset = Error("cannot fit a model on an empty dataset")
	// ErrNoLabel is returned when fitting a model with a dataset with no columns
	ErrNoLabel = Error("dataset has no columns to use as label")
	// ErrNotFitted is returned when querying a model before fitting it
	ErrNotFitted = Error("model has not been fitted")
)

func (e Error) Error() string {
	return string(e)
}

/*
Model is a decision tree classifier. The last column of the dataset it is
fitted with is the label it predicts, and the rest are the features it may
ask about.
*/
type Model struct {
	// MaxDepth limits the number of features asked about on the way to a
	// leaf. Negative values mean no limit and 0 yields a single leaf.
	MaxDepth int
	// NodeStore keeps the nodes of the grown tree. When nil, Fit uses a new
	// memory store.
	NodeStore tree.NodeStore

	label    string
	domain   []string
	features []string
	tree     *tree.Tree
}

// New returns a model that grows trees up to the given depth
func New(maxDepth int) *Model {
	return &Model{MaxDepth: maxDepth}
}

/*
Fit takes a context and a training dataset and grows the model's tree. The
label domain is fixed to the values of the label observed in the dataset.
*/
func (m *Model) Fit(ctx context.Context, d *dataset.Dataset) error {
	header := d.Header()
	if len(header) == 0 {
		return ErrNoLabel
	}
	if d.Len() == 0 {
		return ErrEmptyDataset
	}
	label := header[len(header)-1]
	features := header[:len(header)-1]
	sort.Strings(features)
	gs := &GrowthStrategy{Domain: d.Unique(label), MaxDepth: m.MaxDepth}

	ns := m.NodeStore
	if ns == nil {
		ns = tree.NewMemoryNodeStore()
	}
	q := queue.New()
	defer q.Stop(ctx)
	t, err := Seed(ctx, label, features, d, q, ns)
	if err != nil {
		return fmt.Errorf("seeding tree: %v", err)
	}
	err = Work(ctx, t, q, gs, 10*time.Millisecond)
	if err != nil {
		return fmt.Errorf("growing tree: %w", err)
	}
	m.label = label
	m.domain = gs.Domain
	m.features = features
	m.tree = t
	return nil
}

/*
Predict takes a context and a dataset and returns the label predicted for
each of its records, in order.
*/
func (m *Model) Predict(ctx context.Context, d *dataset.Dataset) ([]string, error) {
	if m.tree == nil {
		return nil, ErrNotFitted
	}
	predictions := make([]string, 0, d.Len())
	for i, r := range d.Records() {
		p, err := m.tree.Predict(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// ClassLabel returns the name of the column the model predicts
func (m *Model) ClassLabel() string {
	return m.label
}

// ClassLabelDomain returns the sorted values the label may take
func (m *Model) ClassLabelDomain() []string {
	return append([]string(nil), m.domain...)
}

// Features returns the sorted names of the columns the model may ask about
func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Tree returns the grown tree, nil before Fit
func (m *Model) Tree() *tree.Tree {
	return m.tree
}

// Print returns a "depth:feature" entry for each feature tested by the tree,
// in pre-order and separated by commas.
func (m *Model) Print(ctx context.Context) (string, error) {
	if m.tree == nil {
		return "", ErrNotFitted
	}
	lines, err := m.tree.Lines(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, ", "), nil
}

// PrettyPrint returns every node of the tree on its own line, indented with
// dashes by its distance from the root.
func (m *Model) PrettyPrint(ctx context.Context) (string, error) {
	if m.tree == nil {
		return "", ErrNotFitted
	}
	lines, err := m.tree.PrettyLines(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
