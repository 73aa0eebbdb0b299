package parser

import (
	"context"
	"fmt"
	"slices"

	"mod-translator/internal/filetree"
	"mod-translator/internal/markup"
	"mod-translator/internal/textutil"
)

// DefsRoot is the container element of def files.
const DefsRoot = "Defs"

// Def is one def discovered in a Defs document.
type Def struct {
	DefType string
	DefName string
	Node    *markup.Node
}

// Field is one translatable leaf of a def.
type Field struct {
	Path  string
	Value string
}

// FindDefs returns the defs under the document's Defs container. A node with a
// defName leaf child is a def; defs do not nest.
func FindDefs(doc *markup.Node) []Def {
	container := doc.Child(DefsRoot)
	if container.IsEmpty() || !container.IsMap() {
		return nil
	}

	type item struct {
		defType string
		node    *markup.Node
	}
	stack := make([]item, 0, len(container.Children))
	for _, c := range slices.Backward(container.Children) {
		stack = append(stack, item{defType: c.Name, node: c.Node})
	}

	var defs []Def
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node.IsEmpty() || it.node.IsText() {
			continue
		}
		if name, ok := it.node.ChildText("defName"); ok && name != "" {
			defs = append(defs, Def{DefType: it.defType, DefName: name, Node: it.node})
			continue
		}
		for _, c := range slices.Backward(it.node.Children) {
			stack = append(stack, item{defType: it.defType, node: c.Node})
		}
	}
	return defs
}

// ExtractFields returns the allow-listed leaves below node in document order.
// Paths are prefix followed by ".tag" for every element on the way down.
func ExtractFields(node *markup.Node, prefix string) []Field {
	if !node.IsMap() {
		return nil
	}

	type item struct {
		name string
		path string
		node *markup.Node
	}
	push := func(stack []item, parent string, children []markup.Child) []item {
		for _, c := range slices.Backward(children) {
			stack = append(stack, item{name: c.Name, path: parent + "." + c.Name, node: c.Node})
		}
		return stack
	}

	var fields []Field
	stack := push(nil, prefix, node.Children)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node.IsEmpty() {
			continue
		}

		if IsTranslatable(it.name) {
			switch {
			case it.node.IsText():
				fields = append(fields, Field{Path: it.path, Value: it.node.Text})
				continue
			case it.node.List:
				for _, c := range it.node.Children {
					if c.Node.IsText() && c.Node.Text != "" {
						fields = append(fields, Field{Path: it.path + "." + c.Name, Value: c.Node.Text})
					}
				}
				continue
			}
		}
		if it.node.IsMap() {
			stack = push(stack, it.path, it.node.Children)
		}
	}
	return fields
}

// DefParser extracts translatable fields from def files.
type DefParser struct{}

func NewDefParser() *DefParser { return &DefParser{} }

func (p *DefParser) CanParse(ext string) bool {
	return ext == ".xml"
}

func (p *DefParser) Parse(ctx context.Context, file *filetree.File) (*ParseResult, error) {
	text, err := file.ReadText(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := markup.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path(), err)
	}

	result := &ParseResult{
		FilePath: file.Path(),
		FileType: FileTypeDefs,
	}
	for _, def := range FindDefs(doc) {
		for _, f := range ExtractFields(def.Node, "") {
			result.Texts = append(result.Texts, ExtractedText{
				DefType:   def.DefType,
				DefName:   def.DefName,
				FieldPath: f.Path,
				Values:    []string{textutil.UnescapeNewlines(f.Value)},
				File:      result.FilePath,
			})
		}
	}
	return result, nil
}
