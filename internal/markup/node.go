// Package markup holds the parsed form of the game's XML data files: a tree
// whose nodes are either text leaves or ordered maps of named children.
//
// Repeated sibling elements with the same tag are folded into a single list
// node whose children are named "0", "1", ... in document order. Attributes
// are not kept.
package markup

import "strconv"

// Kind tags a Node as a text leaf or a map.
type Kind int

const (
	KindText Kind = iota
	KindMap
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "map"
}

// Node is one element of a parsed document.
type Node struct {
	Kind     Kind
	Text     string
	Children []Child
	// List is set on maps synthesized from repeated sibling tags.
	List bool
}

// Child is a named entry of a map node.
type Child struct {
	Name string
	Node *Node
}

// Text returns a text leaf.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Map returns a map node with the given children in order.
func Map(children ...Child) *Node {
	return &Node{Kind: KindMap, Children: children}
}

// List returns a list node holding items named by their index.
func List(items ...*Node) *Node {
	n := &Node{Kind: KindMap, List: true, Children: make([]Child, len(items))}
	for i, item := range items {
		n.Children[i] = Child{Name: strconv.Itoa(i), Node: item}
	}
	return n
}

func (n *Node) IsText() bool { return n != nil && n.Kind == KindText }
func (n *Node) IsMap() bool  { return n != nil && n.Kind == KindMap }

// IsEmpty reports whether n is nil, an empty text or a map without children.
func (n *Node) IsEmpty() bool {
	if n == nil {
		return true
	}
	if n.Kind == KindText {
		return n.Text == ""
	}
	return len(n.Children) == 0
}

// Child returns the child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if !n.IsMap() {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c.Node
		}
	}
	return nil
}

// ChildText returns the text of a leaf child.
func (n *Node) ChildText(name string) (string, bool) {
	c := n.Child(name)
	if !c.IsText() {
		return "", false
	}
	return c.Text, true
}

// Strings flattens n into its non-empty text values: a leaf yields its text,
// a list yields the text of each leaf item.
func (n *Node) Strings() []string {
	switch {
	case n.IsText():
		if n.Text == "" {
			return nil
		}
		return []string{n.Text}
	case n.IsMap() && n.List:
		var out []string
		for _, c := range n.Children {
			if c.Node.IsText() && c.Node.Text != "" {
				out = append(out, c.Node.Text)
			}
		}
		return out
	}
	return nil
}
