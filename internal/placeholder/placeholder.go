// Package placeholder finds the format tokens a game string carries, so a
// translation that loses one can be flagged before it ships.
package placeholder

import (
	"regexp"
	"slices"
)

// Token is one placeholder occurrence in a string.
type Token struct {
	Value      string
	Start, End int
}

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`),                    // {0}, {PAWN_label}
	regexp.MustCompile(`\[[a-zA-Z_][a-zA-Z0-9_]*\]`),           // [PAWN_nameDef]
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
	regexp.MustCompile(`%%`),
}

// Find returns the tokens of text in order of position. Where two patterns
// overlap the earlier, then longer, match wins.
func Find(text string) []Token {
	var all []Token
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, Token{Value: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	slices.SortStableFunc(all, func(a, b Token) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return (b.End - b.Start) - (a.End - a.Start)
	})

	filtered := all[:0]
	lastEnd := -1
	for _, t := range all {
		if t.Start >= lastEnd {
			filtered = append(filtered, t)
			lastEnd = t.End
		}
	}
	return filtered
}

// Values returns the token strings of text in order.
func Values(text string) []string {
	tokens := Find(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Value)
	}
	return out
}

// Missing returns the tokens of source that translated does not carry, as
// many times as they are short. Order follows source.
func Missing(source, translated string) []string {
	have := make(map[string]int)
	for _, v := range Values(translated) {
		have[v]++
	}
	var missing []string
	for _, v := range Values(source) {
		if have[v] > 0 {
			have[v]--
			continue
		}
		missing = append(missing, v)
	}
	return missing
}
