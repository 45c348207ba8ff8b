package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrijadukic/indecision-trees/dataset"
)

// Error represents an error related with the structure of trees
type Error string

const (
	// ErrMalformedTree is returned when attaching a node to a parent that
	// does not admit children of its kind.
	ErrMalformedTree = Error("malformed tree")
	// ErrChildLimit is returned when attaching a node to a parent that
	// already has as many children as its kind admits.
	ErrChildLimit = Error("maximum child count exceeded")
	// ErrRootExists is returned when setting the root of a tree that
	// already has one.
	ErrRootExists = Error("tree already has a root")
	// ErrNoRoot is returned when querying a tree that has no root yet.
	ErrNoRoot = Error("tree has no root")
	// ErrMissingFeature is returned when predicting a record that holds no
	// value for a feature the tree asks about.
	ErrMissingFeature = Error("record has no value for feature")
)

func (e Error) Error() string {
	return string(e)
}

// Tree represents a decision tree. It is composed of a
// NodeStore where all its nodes are stored, the id for the
// root node of the tree and the label it is able to
// predict.
type Tree struct {
	NodeStore
	RootID string
	Label  string
}

// New takes the ID for the root Node, a NodeStore and the name of a label
// column and returns a tree composed of the nodes in the NodeStore connected
// to the node with the given root ID that predicts the given label.
// An empty rootID returns a tree to be built with AddChild.
func New(rootID string, nodeStore NodeStore, label string) *Tree {
	return &Tree{nodeStore, rootID, label}
}

/*
AddChild takes a context, the ID of a node already in the tree and a new node
and creates the new node in the tree's store as the last child of the one with
the given ID. An empty parentID makes the node the root of the tree, and
ErrRootExists is returned if the tree already has one.

Attachments that would make the tree malformed are rejected before anything
is created:
 * FeatureKind nodes only take ValueKind children (ErrMalformedTree)
 * ValueKind nodes only take one child, of FeatureKind or LeafKind
   (ErrMalformedTree, ErrChildLimit)
 * LeafKind nodes take no children (ErrChildLimit)
*/
func (t *Tree) AddChild(ctx context.Context, parentID string, n *Node) error {
	if parentID == "" {
		if t.RootID != "" {
			return ErrRootExists
		}
		if _, ok := kindNames[n.Kind]; !ok {
			return fmt.Errorf("adding root node of kind %v: %w", n.Kind, ErrMalformedTree)
		}
		n.ParentID = ""
		err := t.Create(ctx, n)
		if err != nil {
			return fmt.Errorf("creating root node: %v", err)
		}
		t.RootID = n.ID
		return nil
	}
	parent, err := t.getNode(ctx, parentID)
	if err != nil {
		return err
	}
	err = parent.Kind.accepts(n.Kind, len(parent.ChildIDs))
	if err != nil {
		return fmt.Errorf("adding %v node under %v node %s: %w", n.Kind, parent.Kind, parent.ID, err)
	}
	n.ParentID = parent.ID
	err = t.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("creating %v node under node %s: %v", n.Kind, parent.ID, err)
	}
	parent.ChildIDs = append(parent.ChildIDs, n.ID)
	err = t.Store(ctx, parent)
	if err != nil {
		return fmt.Errorf("linking node %s to parent %s: %v", n.ID, parent.ID, err)
	}
	return nil
}

/*
Predict takes a context and a record and returns the class label the tree
predicts for it, walking down from the root:
 * on a LeafKind node, its result is returned
 * on a ValueKind node, the walk continues on its child
 * on a FeatureKind node, the walk continues on the child for the value the
   record holds for the node's feature; if the value was never seen while
   training, the most frequent label among the training records that reached
   the node is returned instead.

ErrMissingFeature is returned if the record holds no value for a feature the
walk asks about.
*/
func (t *Tree) Predict(ctx context.Context, r dataset.Record) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nil tree cannot predict records")
	}
	if t.RootID == "" {
		return "", ErrNoRoot
	}
	n, err := t.getNode(ctx, t.RootID)
	if err != nil {
		return "", fmt.Errorf("predicting record: %v", err)
	}
	for {
		switch n.Kind {
		case LeafKind:
			return n.Result, nil
		case ValueKind:
			if len(n.ChildIDs) != 1 {
				return "", fmt.Errorf("predicting record: value node %s has %d children: %w", n.ID, len(n.ChildIDs), ErrMalformedTree)
			}
			n, err = t.getNode(ctx, n.ChildIDs[0])
			if err != nil {
				return "", fmt.Errorf("predicting record: %v", err)
			}
		case FeatureKind:
			v, ok := r.ValueFor(n.Feature)
			if !ok {
				return "", fmt.Errorf("predicting record %v: %w %s", r, ErrMissingFeature, n.Feature)
			}
			next, err := t.childWithValue(ctx, n, v)
			if err != nil {
				return "", fmt.Errorf("predicting record: %v", err)
			}
			if next == nil {
				return t.fallback(n)
			}
			n = next
		default:
			return "", fmt.Errorf("predicting record: node %s of %v: %w", n.ID, n.Kind, ErrMalformedTree)
		}
	}
}

func (t *Tree) childWithValue(ctx context.Context, n *Node, value string) (*Node, error) {
	for _, id := range n.ChildIDs {
		child, err := t.getNode(ctx, id)
		if err != nil {
			return nil, err
		}
		if child.Value == value {
			return child, nil
		}
	}
	return nil, nil
}

func (t *Tree) fallback(n *Node) (string, error) {
	if n.Dataset != nil {
		label, err := n.Dataset.MostFrequent(t.Label, nil)
		if err != nil {
			return "", fmt.Errorf("predicting unseen value for feature %s: %v", n.Feature, err)
		}
		return label, nil
	}
	return n.Fallback, nil
}

func (t *Tree) getNode(ctx context.Context, id string) (*Node, error) {
	n, err := t.NodeStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %v: %v", id, err)
	}
	if n == nil {
		return nil, fmt.Errorf("node %v not found", id)
	}
	return n, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context, a node
// and its distance from the root as parameters, and goes
// through the tree running the function with the context
// and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Children
// are visited in the order they were added.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node, int) error) error {
	if t.RootID == "" {
		return ErrNoRoot
	}
	n, err := t.getNode(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, 0, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, depth int, bottomup bool, f func(context.Context, *Node, int) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n, depth)
	}
	if err != nil {
		return err
	}
	for _, cID := range n.ChildIDs {
		c, err := t.getNode(ctx, cID)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, c, depth+1, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n, depth)
	}
	return err
}

/*
Lines returns a line "depth:feature" for every FeatureKind node of the tree in
pre-order, where depth is the number of FeatureKind nodes above it.
*/
func (t *Tree) Lines(ctx context.Context) ([]string, error) {
	lines := []string{}
	featureDepth := make(map[string]int)
	err := t.Traverse(ctx, false, func(ctx context.Context, n *Node, _ int) error {
		depth := featureDepth[n.ParentID]
		if n.Kind == FeatureKind {
			lines = append(lines, fmt.Sprintf("%d:%s", depth, n.Feature))
			depth++
		}
		if len(n.ChildIDs) > 0 {
			featureDepth[n.ID] = depth
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// PrettyLines returns a line for every node of the tree in pre-order with as
// many leading dashes as its distance from the root.
func (t *Tree) PrettyLines(ctx context.Context) ([]string, error) {
	lines := []string{}
	err := t.Traverse(ctx, false, func(ctx context.Context, n *Node, depth int) error {
		lines = append(lines, strings.Repeat("-", depth)+n.String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (t *Tree) String() string {
	lines, err := t.PrettyLines(context.TODO())
	if err != nil {
		return fmt.Sprintf("ERROR: %s", err.Error())
	}
	return strings.Join(lines, "\n")
}
