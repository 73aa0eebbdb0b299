// Package modlayout recognises mod roots in a dropped tree and resolves which
// folders of a mod hold its definitions and its existing translations.
package modlayout

import (
	"context"

	"mod-translator/internal/filetree"
	"mod-translator/internal/markup"

	"github.com/rs/zerolog/log"
)

// ModRoot is a directory recognised as one mod.
type ModRoot struct {
	ModID string
	// Name is the display name from About.xml, or the id.
	Name string
	Dir  *filetree.Directory
}

// FindMods classifies dir and everything below it into mod roots.
//
// A directory holding About/About.xml with a packageId is a mod root and is
// not searched further. When mods are found below a directory, each sibling
// subtree without mods becomes its own root under fallbackID. A drop root
// without any mods becomes a single fallbackID root.
func FindMods(ctx context.Context, dir *filetree.Directory, fallbackID string) []ModRoot {
	if ctx.Err() != nil {
		return nil
	}
	if mod, ok := tryFindMod(ctx, dir); ok {
		return []ModRoot{mod}
	}

	var mods []ModRoot
	var orphans []*filetree.Directory
	for _, sub := range dir.Directories {
		deep := FindMods(ctx, sub, fallbackID)
		if len(deep) > 0 {
			mods = append(mods, deep...)
		} else {
			orphans = append(orphans, sub)
		}
	}

	if len(mods) > 0 {
		for _, o := range orphans {
			log.Debug().Str("dir", o.Path()).Str("mod", fallbackID).Msg("Assigning folder without metadata to fallback mod")
			mods = append(mods, ModRoot{ModID: fallbackID, Name: fallbackID, Dir: o})
		}
	} else if dir.IsRoot() {
		mods = append(mods, ModRoot{ModID: fallbackID, Name: fallbackID, Dir: dir})
	}
	return mods
}

func tryFindMod(ctx context.Context, dir *filetree.Directory) (ModRoot, bool) {
	about := dir.Dir("About")
	if about == nil {
		return ModRoot{}, false
	}
	file := about.File("About.xml")
	if file == nil {
		return ModRoot{}, false
	}

	doc, err := readDoc(ctx, file)
	if err != nil {
		log.Warn().Err(err).Str("file", file.Path()).Msg("Failed to read mod metadata")
		return ModRoot{}, false
	}
	meta := doc.Child("ModMetaData")
	id, ok := meta.ChildText("packageId")
	if !ok || id == "" {
		return ModRoot{}, false
	}
	name, ok := meta.ChildText("name")
	if !ok || name == "" {
		name = id
	}

	log.Info().Str("mod", id).Str("name", name).Str("dir", dir.Path()).Msg("Found mod")
	return ModRoot{ModID: id, Name: name, Dir: dir}, true
}

func readDoc(ctx context.Context, f *filetree.File) (*markup.Node, error) {
	text, err := f.ReadText(ctx)
	if err != nil {
		return nil, err
	}
	return markup.ParseString(text)
}
