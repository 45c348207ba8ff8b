package queue

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrijadukic/indecision-trees/dataset"
)

// Task represents a subtree to be grown
// on a tree.Tree.
type Task struct {
	// An ID to identify the task on the queue
	ID string
	// The ID of the node the subtree hangs from,
	// or empty for the root of the tree.
	ParentID string
	// The dataset of training data with records
	// reaching the subtree.
	Dataset *dataset.Dataset
	// The list of features that can be used
	// to split the subtree into branches.
	// It should exclude the features used in
	// ancestor nodes.
	AvailableFeatures []string
	// The number of features tested above the
	// subtree.
	Depth int
}

// NewTask returns a task with a fresh ID to grow a subtree under the node
// with the given parentID from the given dataset and features at the
// given depth.
func NewTask(parentID string, d *dataset.Dataset, features []string, depth int) *Task {
	return &Task{
		ID:                uuid.NewString(),
		ParentID:          parentID,
		Dataset:           d,
		AvailableFeatures: features,
		Depth:             depth,
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s under %q depth %d}", t.ID, t.ParentID, t.Depth)
}
