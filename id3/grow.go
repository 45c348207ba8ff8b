package id3

import (
	"context"
	"fmt"
	"time"

	"github.com/andrijadukic/indecision-trees/dataset"
	"github.com/andrijadukic/indecision-trees/queue"
	"github.com/andrijadukic/indecision-trees/tree"
)

// GrowthStrategy holds what growing a tree needs to know
// beyond the training data: the values the label may
// take and how deep the tree may grow.
type GrowthStrategy struct {
	// Domain holds the values of the label, sorted.
	// Leaves predicting the most frequent label count
	// over it, and training records holding a label
	// outside it make growing fail.
	Domain []string
	// MaxDepth is the maximum number of features a
	// record may be asked about before reaching a leaf.
	// Negative values mean no limit.
	MaxDepth int
}

// Seed takes a context, a label, a slice of features,
// a dataset, a queue and a node store and sets everything
// up so that workers that consume from the queue afterwards
// grow a tree that predicts the given label using
// the features in the given slice and according to the training
// data on the given dataset.
// Specifically it will push a task to grow the root of the
// tree on the queue.
// The function returns the tree that can be grown or an error
// if the task cannot be pushed to the queue (in the amount of
// time allowed by the given context).
func Seed(ctx context.Context, label string, features []string, d *dataset.Dataset, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	t := tree.New("", ns, label)
	err := q.Push(ctx, queue.NewTask("", d, features, 0))
	if err != nil {
		return nil, err
	}
	return t, nil
}

// BranchOut takes a context, a task, a tree and a growth strategy,
// adds the node for the task's subtree to the tree using the task's
// dataset and available features to predict the tree's label and
// returns a set of tasks to develop the resulting children nodes or
// an error.
//
// The node is a leaf when every record in the dataset holds the same
// label, or when there are no features left or the maximum depth is
// reached, in which case it predicts the most frequent label. Otherwise
// it tests the feature with the highest information gain and gets a
// child for each of its values observed in the dataset.
func BranchOut(ctx context.Context, task *queue.Task, t *tree.Tree, gs *GrowthStrategy) ([]*queue.Task, error) {
	distribution, err := task.Dataset.ValueDistribution(t.Label, gs.Domain)
	if err != nil {
		return nil, err
	}
	for _, v := range gs.Domain {
		if distribution[v] == 1 {
			return nil, t.AddChild(ctx, task.ParentID, tree.NewLeafNode(v))
		}
	}
	if len(task.AvailableFeatures) == 0 || task.Depth == gs.MaxDepth {
		result, err := task.Dataset.MostFrequent(t.Label, gs.Domain)
		if err != nil {
			return nil, err
		}
		return nil, t.AddChild(ctx, task.ParentID, tree.NewLeafNode(result))
	}
	selectedPartition, err := bestPartition(task.Dataset, task.AvailableFeatures, t.Label, gs.Domain)
	if err != nil {
		return nil, err
	}
	fallback, err := task.Dataset.MostFrequent(t.Label, nil)
	if err != nil {
		return nil, err
	}
	fn := tree.NewFeatureNode(selectedPartition.Feature, task.Dataset, fallback)
	err = t.AddChild(ctx, task.ParentID, fn)
	if err != nil {
		return nil, err
	}
	stAvailableFeatures := make([]string, 0, len(task.AvailableFeatures)-1)
	for _, f := range task.AvailableFeatures {
		if f != selectedPartition.Feature {
			stAvailableFeatures = append(stAvailableFeatures, f)
		}
	}
	tasks := make([]*queue.Task, 0, len(selectedPartition.Values))
	for _, v := range selectedPartition.Values {
		vn := tree.NewValueNode(v)
		err = t.AddChild(ctx, fn.ID, vn)
		if err != nil {
			return nil, err
		}
		subset := selectedPartition.Groups[v].Remove(selectedPartition.Feature)
		tasks = append(tasks, queue.NewTask(vn.ID, subset, stAvailableFeatures, task.Depth+1))
	}
	return tasks, nil
}

// Work takes a context, a tree, a queue, a growth strategy
// and an emptyQueueSleep duration and enters a loop in which
// it:
//   - pulls a task for the queue,
//   - adds its subtree's node to the tree using BranchOut
//   - pushes the tasks for the new subtrees into the queue
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the given
// emptyQueueSleep duration and then retry.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if BranchOut returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error.
func Work(ctx context.Context, t *tree.Tree, q queue.Queue, gs *GrowthStrategy, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if r+p == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, t, q, gs)
		cancel()
		tcf()
		if err != nil {
			return fmt.Errorf("growing subtree at depth %d: %w", task.Depth, err)
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, q queue.Queue, gs *GrowthStrategy) error {
	defer func() {
		q.Drop(ctx, task.ID)
	}()
	tasks, err := BranchOut(ctx, task, t, gs)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID)
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
