package parser

import (
	"context"

	"mod-translator/internal/filetree"
)

// File types reported in ParseResult.FileType.
const (
	FileTypeDefs        = "defs"
	FileTypeDefInjected = "definjected"
	FileTypeKeyed       = "keyed"
)

// KeyedDefType is the def type of flat keyed strings. Their DefName is empty.
const KeyedDefType = "Keyed"

// ExtractedText is one translatable string found in a mod file.
type ExtractedText struct {
	// DefType is the def's XML tag, the DefInjected folder name, or "Keyed".
	DefType string
	// DefName is empty for keyed strings.
	DefName string
	// FieldPath is the dot-joined path inside the def (leading dot), or the
	// key name for keyed strings.
	FieldPath string
	// Values holds more than one entry only when a file repeats an element.
	Values []string
	// File is the source path within the drop.
	File string
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path of the parsed file from the drop root.
	FilePath string
	// FileType is one of the FileType constants.
	FileType string
	// Texts are the extracted translatable strings in document order.
	Texts []ExtractedText
}

// Parser is the interface for all mod file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts translatable strings from a file.
	Parse(ctx context.Context, file *filetree.File) (*ParseResult, error)
}
