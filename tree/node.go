package tree

import (
	"fmt"

	"github.com/andrijadukic/indecision-trees/dataset"
)

/*
Kind identifies which of the three kinds of node a Node is. Each kind gives
meaning to a different field of the node and admits different children.
*/
type Kind int

const (
	// FeatureKind nodes test the value of a feature on the records they
	// classify and have one ValueKind child per value of the feature
	// observed while training.
	FeatureKind Kind = iota + 1
	// ValueKind nodes stand for one value of the feature tested by their
	// parent and have exactly one FeatureKind or LeafKind child.
	ValueKind
	// LeafKind nodes hold the class label for the records that reach them
	// and have no children.
	LeafKind
)

var kindNames = map[Kind]string{
	FeatureKind: "feature",
	ValueKind:   "value",
	LeafKind:    "leaf",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name as returned by its String method
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", name)
}

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree. It is informative only,
	// trees are always walked from the root down.
	ParentID string
	// An slice with the IDs of the nodes directly under this node
	ChildIDs []string
	// The kind of node, which determines which of the following fields
	// apply to it.
	Kind Kind
	// For FeatureKind nodes, the feature to ask about next on the record
	// being classified.
	Feature string
	// For ValueKind nodes, the value of the parent's feature that leads
	// to this node.
	Value string
	// For LeafKind nodes, the class label predicted for records reaching it.
	Result string
	// For FeatureKind nodes, the training records that reached the node.
	// It may be nil for nodes loaded from a store that does not keep them.
	Dataset *dataset.Dataset
	// For FeatureKind nodes, the class label most frequently observed in
	// Dataset. It is predicted for records holding a value for Feature that
	// was never seen while training.
	Fallback string
}

// NewFeatureNode returns a node testing the given feature that retains the
// given training records along the most frequent label observed in them.
func NewFeatureNode(feature string, d *dataset.Dataset, fallback string) *Node {
	return &Node{Kind: FeatureKind, Feature: feature, Dataset: d, Fallback: fallback}
}

// NewValueNode returns a node for the given value of its parent's feature
func NewValueNode(value string) *Node {
	return &Node{Kind: ValueKind, Value: value}
}

// NewLeafNode returns a node predicting the given class label
func NewLeafNode(result string) *Node {
	return &Node{Kind: LeafKind, Result: result}
}

// String returns the feature, value or result of the node depending on its kind
func (n *Node) String() string {
	switch n.Kind {
	case FeatureKind:
		return n.Feature
	case ValueKind:
		return n.Value
	case LeafKind:
		return n.Result
	}
	return fmt.Sprintf("<%v node %s>", n.Kind, n.ID)
}

/*
accepts returns nil if a node of kind k can take a child of the given kind when
it already has the given number of children, or the reason why it cannot.
*/
func (k Kind) accepts(child Kind, children int) error {
	switch k {
	case FeatureKind:
		if child != ValueKind {
			return ErrMalformedTree
		}
		return nil
	case ValueKind:
		if child != FeatureKind && child != LeafKind {
			return ErrMalformedTree
		}
		if children != 0 {
			return ErrChildLimit
		}
		return nil
	case LeafKind:
		return ErrChildLimit
	}
	return ErrMalformedTree
}
