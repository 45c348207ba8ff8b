package json

import (
	"encoding/json"
	"fmt"

	"github.com/andrijadukic/indecision-trees/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	// and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID       string   `json:"id"`
	ParentID string   `json:"pId,omitempty"`
	ChildIDs []string `json:"cIds,omitempty"`
	Kind     string   `json:"k"`
	Feature  string   `json:"f,omitempty"`
	Value    string   `json:"v,omitempty"`
	Result   string   `json:"r,omitempty"`
	Fallback string   `json:"fb,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that encodes nodes as JSON
objects. The training records retained by feature nodes are not encoded, only
their fallback label is, so decoded nodes have a nil Dataset.
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return &nodeEncodeDecoder{}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:       n.ID,
		ParentID: n.ParentID,
		Kind:     n.Kind.String(),
		Feature:  n.Feature,
		Value:    n.Value,
		Result:   n.Result,
		Fallback: n.Fallback,
	}
	if len(n.ChildIDs) > 0 {
		jn.ChildIDs = n.ChildIDs
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	k, err := tree.ParseKind(jn.Kind)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling node %v: %v", jn.ID, err)
	}
	n := &tree.Node{
		ID:       jn.ID,
		ParentID: jn.ParentID,
		Kind:     k,
		Feature:  jn.Feature,
		Value:    jn.Value,
		Result:   jn.Result,
		Fallback: jn.Fallback,
	}
	if len(jn.ChildIDs) > 0 {
		n.ChildIDs = jn.ChildIDs
	}
	return n, nil
}
