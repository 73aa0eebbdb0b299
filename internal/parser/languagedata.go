package parser

import (
	"context"
	"fmt"
	"strings"

	"mod-translator/internal/filetree"
	"mod-translator/internal/markup"
	"mod-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// languageEntries returns the children of the LanguageData wrapper.
func languageEntries(ctx context.Context, file *filetree.File) ([]markup.Child, error) {
	text, err := file.ReadText(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := markup.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path(), err)
	}
	data := doc.Child(markup.LanguageDataRoot)
	if !data.IsMap() {
		return nil, nil
	}
	return data.Children, nil
}

func entryValues(n *markup.Node) []string {
	values := n.Strings()
	for i, v := range values {
		values[i] = textutil.UnescapeNewlines(v)
	}
	return values
}

// DefInjectedParser reads DefInjected translation files of one def type.
type DefInjectedParser struct {
	DefType string
}

// NewDefInjectedParser creates a parser for files below the DefInjected
// folder named defType.
func NewDefInjectedParser(defType string) *DefInjectedParser {
	return &DefInjectedParser{DefType: defType}
}

func (p *DefInjectedParser) CanParse(ext string) bool {
	return ext == ".xml"
}

func (p *DefInjectedParser) Parse(ctx context.Context, file *filetree.File) (*ParseResult, error) {
	entries, err := languageEntries(ctx, file)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		FilePath: file.Path(),
		FileType: FileTypeDefInjected,
	}
	for _, e := range entries {
		defName, fieldPath, ok := SplitInjectedName(e.Name)
		if !ok {
			log.Debug().Str("file", result.FilePath).Str("entry", e.Name).Msg("Skipping DefInjected entry without field path")
			continue
		}
		values := entryValues(e.Node)
		if len(values) == 0 {
			continue
		}
		result.Texts = append(result.Texts, ExtractedText{
			DefType:   p.DefType,
			DefName:   defName,
			FieldPath: fieldPath,
			Values:    values,
			File:      result.FilePath,
		})
	}
	return result, nil
}

// SplitInjectedName splits "Wall.label" into "Wall" and ".label".
func SplitInjectedName(name string) (defName, fieldPath string, ok bool) {
	i := strings.IndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i:], true
}

// KeyedParser reads Keyed translation files.
type KeyedParser struct{}

func NewKeyedParser() *KeyedParser { return &KeyedParser{} }

func (p *KeyedParser) CanParse(ext string) bool {
	return ext == ".xml"
}

func (p *KeyedParser) Parse(ctx context.Context, file *filetree.File) (*ParseResult, error) {
	entries, err := languageEntries(ctx, file)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		FilePath: file.Path(),
		FileType: FileTypeKeyed,
	}
	for _, e := range entries {
		values := entryValues(e.Node)
		if len(values) == 0 {
			continue
		}
		result.Texts = append(result.Texts, ExtractedText{
			DefType:   KeyedDefType,
			FieldPath: e.Name,
			Values:    values,
			File:      result.FilePath,
		})
	}
	return result, nil
}
