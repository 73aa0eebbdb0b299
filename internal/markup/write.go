package markup

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mod-translator/internal/textutil"
)

// LanguageDataRoot is the wrapper element of translation files.
const LanguageDataRoot = "LanguageData"

// Entry is one element of a LanguageData document.
type Entry struct {
	Name  string
	Value string
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeValue prepares a value for element content: markup characters are
// entity-escaped and line breaks become the literal `\n`.
func EscapeValue(s string) string {
	return textEscaper.Replace(textutil.EscapeNewlines(s))
}

// WriteLanguageData writes entries as a LanguageData document, one element
// per line.
func WriteLanguageData(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<" + LanguageDataRoot + ">\n")
	for _, e := range entries {
		if !ValidName(e.Name) {
			return fmt.Errorf("write language data: invalid element name %q", e.Name)
		}
		fmt.Fprintf(bw, "\t<%s>%s</%s>\n", e.Name, EscapeValue(e.Value), e.Name)
	}
	bw.WriteString("</" + LanguageDataRoot + ">\n")
	return bw.Flush()
}

// ValidName reports whether s can be used as an element name.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r > 0x7f:
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
