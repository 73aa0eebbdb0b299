package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type frame struct {
	name     string
	children []Child
	text     strings.Builder
}

// Parse reads an XML document and returns a map node whose children are the
// document's top-level elements. Leaf text is trimmed.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.Entity = xml.HTMLEntity
	// Files declaring a legacy charset are read as UTF-8.
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	stack := []*frame{{}}
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, &frame{name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 1 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, Child{Name: top.name, Node: top.node()})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("parse xml: unclosed element <%s>", stack[len(stack)-1].name)
	}
	return Map(group(stack[0].children)...), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func (f *frame) node() *Node {
	if len(f.children) == 0 {
		return Text(strings.TrimSpace(f.text.String()))
	}
	return Map(group(f.children)...)
}

// group folds repeated names into list nodes, keeping first-appearance order.
func group(children []Child) []Child {
	counts := make(map[string]int, len(children))
	for _, c := range children {
		counts[c.Name]++
	}
	if len(counts) == len(children) {
		return children
	}

	lists := make(map[string]*Node)
	out := make([]Child, 0, len(counts))
	for _, c := range children {
		if counts[c.Name] == 1 {
			out = append(out, c)
			continue
		}
		l, ok := lists[c.Name]
		if !ok {
			l = List()
			lists[c.Name] = l
			out = append(out, Child{Name: c.Name, Node: l})
		}
		l.Children = append(l.Children, Child{Name: strconv.Itoa(len(l.Children)), Node: c.Node})
	}
	return out
}
