package cli

import (
	"fmt"
	"io"

	"mod-translator/internal/catalog"
	"mod-translator/internal/textutil"

	"github.com/fatih/color"
)

// fatih/color disables itself when stdout is not a terminal.
var (
	successColor  = color.New(color.FgGreen, color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	headerColor   = color.New(color.FgBlue, color.Bold)
	labelColor    = color.New(color.FgWhite, color.Bold)
	dimColor      = color.New(color.FgHiBlack)
	conflictColor = color.New(color.FgYellow)
	divergedColor = color.New(color.FgGreen)
)

// valueWidth bounds a value shown in key listings.
const valueWidth = 80

func printSection(w io.Writer, title string) {
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
}

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func printLabelValue(w io.Writer, label string, value any) {
	_, _ = labelColor.Fprintf(w, "  %-12s", label+":")
	fmt.Fprintf(w, " %v\n", value)
}

// printKey shows a key with its values. Conflicts list every candidate with
// its index; keys differing from def are highlighted.
func printKey(w io.Writer, k, def *catalog.TranslationKey) {
	id := k.ID().String()
	switch {
	case k.IsConflict():
		_, _ = conflictColor.Fprintf(w, "%s (conflict)\n", id)
		for i, v := range k.Values {
			fmt.Fprintf(w, "  [%d] %s\n", i, shorten(v))
		}
		return
	case def != nil && catalog.Diverged(def, k):
		_, _ = divergedColor.Fprint(w, id)
	default:
		fmt.Fprint(w, id)
	}
	v, _ := k.Value()
	fmt.Fprintf(w, "  %s\n", shorten(v))
	if def != nil && k != def {
		if dv, ok := def.Value(); ok && dv != v {
			_, _ = dimColor.Fprintf(w, "  default: %s\n", shorten(dv))
		}
	}
}

func shorten(s string) string {
	return textutil.Truncate(textutil.SingleLine(s), valueWidth)
}
