package filetree

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
)

// Entry is one dropped item or one child of a dropped directory.
type Entry interface {
	Name() string
	IsDir() bool
}

// FileEntry is an Entry whose content can be opened.
type FileEntry interface {
	Entry
	Open() (io.ReadCloser, error)
}

// DirEntry is an Entry whose children are listed by a DirReader.
type DirEntry interface {
	Entry
	Reader() DirReader
}

// DirReader lists a directory one page at a time. An empty page ends the
// listing.
type DirReader interface {
	ReadEntries(ctx context.Context) ([]Entry, error)
}

// ReadAll requests pages from r until an empty page is returned.
func ReadAll(ctx context.Context, r DirReader) ([]Entry, error) {
	var entries []Entry
	for {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		page, err := r.ReadEntries(ctx)
		if err != nil {
			return entries, err
		}
		if len(page) == 0 {
			return entries, nil
		}
		entries = append(entries, page...)
	}
}

// Build expands the dropped entries into a tree under a synthetic root.
// Entries that cannot be listed are logged and skipped.
func Build(ctx context.Context, entries []Entry) *Directory {
	root := NewRoot()
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		addEntry(ctx, e, root)
	}

	var files int
	root.Walk(func(*File) { files++ })
	log.Debug().Int("dropped", len(entries)).Int("files", files).Msg("Built directory tree")
	return root
}

func addEntry(ctx context.Context, e Entry, parent *Directory) {
	switch entry := e.(type) {
	case DirEntry:
		dir := &Directory{Name: entry.Name()}
		children, err := ReadAll(ctx, entry.Reader())
		if err != nil {
			log.Warn().Err(err).Str("dir", entry.Name()).Str("parent", parent.Path()).Msg("Skipping unreadable directory")
			return
		}
		for _, child := range children {
			addEntry(ctx, child, dir)
		}
		if dir.IsEmpty() {
			return
		}
		parent.AddDir(dir)
	case FileEntry:
		parent.AddFile(NewFile(entry.Name(), entry.Open))
	default:
		log.Warn().Str("entry", e.Name()).Str("parent", parent.Path()).Msg("Skipping entry of unknown kind")
	}
}
