package modlayout

import (
	"context"
	"slices"
	"strings"

	"mod-translator/internal/filetree"
	"mod-translator/internal/language"
	"mod-translator/internal/markup"

	"github.com/rs/zerolog/log"
)

// LatestVersion requests the highest version a mod declares.
const LatestVersion = "@latest"

// loadEverything in a load-folder list selects every folder of the mod.
const loadEverything = "/"

// loadOrderFiles are the recognised names of the load-order declaration.
var loadOrderFiles = []string{"LoadFolders.xml", "LoadOrder.xml"}

// LanguageFolder is a translation folder of one language.
type LanguageFolder struct {
	Language language.Language
	Dir      *filetree.Directory
}

// Layout lists the folders of a mod that hold data to extract.
type Layout struct {
	DefinitionFolders  []*filetree.Directory
	DefInjectedFolders []LanguageFolder
	KeyedFolders       []LanguageFolder
}

// ResolveLayout selects the definition folders of root for version (a literal
// version key or LatestVersion) and finds its Languages folders. Missing
// declarations or folders are not errors; the only error is ctx's.
func ResolveLayout(ctx context.Context, root *filetree.Directory, version string) (*Layout, error) {
	layout := &Layout{}

	if folders, ok := declaredFolders(ctx, root, version); ok {
		layout.DefinitionFolders = folders
	} else {
		layout.DefinitionFolders = versionFolders(root, version)
	}
	resolveLanguages(root, layout)

	log.Debug().
		Str("dir", root.Path()).
		Str("version", version).
		Int("def_folders", len(layout.DefinitionFolders)).
		Int("definjected_folders", len(layout.DefInjectedFolders)).
		Int("keyed_folders", len(layout.KeyedFolders)).
		Msg("Resolved mod layout")

	return layout, ctx.Err()
}

// declaredFolders reads the load-order declaration. ok is false when there is
// none or when it does not cover the requested version.
func declaredFolders(ctx context.Context, root *filetree.Directory, version string) ([]*filetree.Directory, bool) {
	var file *filetree.File
	for _, name := range loadOrderFiles {
		if file = root.File(name); file != nil {
			break
		}
	}
	if file == nil {
		return nil, false
	}

	doc, err := readDoc(ctx, file)
	if err != nil {
		log.Warn().Err(err).Str("file", file.Path()).Msg("Ignoring unreadable load-order declaration")
		return nil, false
	}
	loadFolders := doc.Child("loadFolders")
	if !loadFolders.IsMap() || loadFolders.IsEmpty() {
		return nil, false
	}

	if version == LatestVersion {
		keys := make([]string, 0, len(loadFolders.Children))
		for _, c := range loadFolders.Children {
			keys = append(keys, c.Name)
		}
		chosen, ok := HighestVersion(keys)
		if !ok {
			chosen = "1.0"
		}
		// A missing key loads everything; a declared empty list loads nothing.
		toLoad := []string{loadEverything}
		if node := loadFolders.Child(chosen); node != nil {
			toLoad = folderList(node)
		}
		log.Debug().Str("version", chosen).Strs("folders", toLoad).Msg("Using declared load folders")
		return selectFolders(root, toLoad), true
	}

	node := loadFolders.Child(version)
	if node == nil {
		node = loadFolders.Child("v" + version)
	}
	toLoad := folderList(node)
	if len(toLoad) == 0 {
		return nil, false
	}
	return selectFolders(root, toLoad), true
}

// folderList returns the li entries of a version node.
func folderList(n *markup.Node) []string {
	return n.Child("li").Strings()
}

// selectFolders resolves load-folder names against root in declaration order.
// Names may contain slashes to reach nested folders.
func selectFolders(root *filetree.Directory, names []string) []*filetree.Directory {
	if slices.Contains(names, loadEverything) {
		return slices.Clone(root.Directories)
	}

	var out []*filetree.Directory
	for _, name := range names {
		dir := lookup(root, name)
		if dir == nil || slices.Contains(out, dir) {
			continue
		}
		out = append(out, dir)
	}
	return out
}

func lookup(root *filetree.Directory, name string) *filetree.Directory {
	dir := root
	for _, part := range strings.Split(strings.Trim(name, "/"), "/") {
		if dir = dir.Dir(part); dir == nil {
			return nil
		}
	}
	return dir
}

// versionFolders is the fallback without a usable declaration: the folder
// named like the highest version, or the folder named exactly version.
func versionFolders(root *filetree.Directory, version string) []*filetree.Directory {
	name := version
	if version == LatestVersion {
		names := make([]string, 0, len(root.Directories))
		for _, d := range root.Directories {
			names = append(names, d.Name)
		}
		highest, ok := HighestVersion(names)
		if !ok {
			return nil
		}
		name = highest
	}
	if dir := root.Dir(name); dir != nil {
		return []*filetree.Directory{dir}
	}
	return nil
}

func resolveLanguages(root *filetree.Directory, layout *Layout) {
	languages := root.Dir("Languages")
	if languages == nil {
		return
	}
	for _, folder := range languages.Directories {
		lang, ok := language.Parse(folder.Name)
		if !ok {
			log.Debug().Str("folder", folder.Path()).Msg("Ignoring unrecognised language folder")
			continue
		}
		for _, dir := range folder.Directories {
			switch dir.Name {
			case "Keyed":
				layout.KeyedFolders = append(layout.KeyedFolders, LanguageFolder{Language: lang, Dir: dir})
			case "DefInjected":
				layout.DefInjectedFolders = append(layout.DefInjectedFolders, LanguageFolder{Language: lang, Dir: dir})
			}
		}
	}
}
