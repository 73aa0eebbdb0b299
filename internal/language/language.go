// Package language lists the language folder names the game recognises.
package language

import (
	"slices"
	"strings"
)

// Language is the folder name of a language under Languages/.
type Language string

const (
	English             Language = "English"
	ChineseSimplified   Language = "ChineseSimplified"
	ChineseTraditional  Language = "ChineseTraditional"
	Czech               Language = "Czech"
	Danish              Language = "Danish"
	Dutch               Language = "Dutch"
	Estonian            Language = "Estonian"
	Finnish             Language = "Finnish"
	French              Language = "French"
	German              Language = "German"
	Greek               Language = "Greek"
	Hungarian           Language = "Hungarian"
	Italian             Language = "Italian"
	Japanese            Language = "Japanese"
	Korean              Language = "Korean"
	Norwegian           Language = "Norwegian"
	Polish              Language = "Polish"
	Portuguese          Language = "Portuguese"
	PortugueseBrazilian Language = "PortugueseBrazilian"
	Romanian            Language = "Romanian"
	Russian             Language = "Russian"
	Slovak              Language = "Slovak"
	Spanish             Language = "Spanish"
	SpanishLatin        Language = "SpanishLatin"
	Swedish             Language = "Swedish"
	Turkish             Language = "Turkish"
	Ukrainian           Language = "Ukrainian"
)

var all = []Language{
	English, ChineseSimplified, ChineseTraditional, Czech, Danish, Dutch, Estonian,
	Finnish, French, German, Greek, Hungarian, Italian, Japanese, Korean, Norwegian,
	Polish, Portuguese, PortugueseBrazilian, Romanian, Russian, Slovak, Spanish,
	SpanishLatin, Swedish, Turkish, Ukrainian,
}

// All returns every recognised language.
func All() []Language {
	return slices.Clone(all)
}

// Parse maps a folder name to a Language. A native-name suffix such as
// "Russian (Русский)" is ignored.
func Parse(name string) (Language, bool) {
	if i := strings.IndexAny(name, " ("); i > 0 {
		name = name[:i]
	}
	l := Language(name)
	return l, slices.Contains(all, l)
}

func (l Language) String() string { return string(l) }
