package filetree

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog/log"
)

// DefaultPageSize matches the batch size browsers use for directory readers.
const DefaultPageSize = 100

type billyFile struct {
	fs   billy.Filesystem
	path string
	name string
}

func (f *billyFile) Name() string { return f.name }
func (f *billyFile) IsDir() bool  { return false }

func (f *billyFile) Open() (io.ReadCloser, error) {
	return f.fs.Open(f.path)
}

type billyDir struct {
	fs       billy.Filesystem
	path     string
	name     string
	pageSize int
}

func (d *billyDir) Name() string { return d.name }
func (d *billyDir) IsDir() bool  { return true }

func (d *billyDir) Reader() DirReader {
	return &billyDirReader{dir: d}
}

// billyDirReader serves a billy directory listing in fixed-size pages.
type billyDirReader struct {
	dir     *billyDir
	listing []os.FileInfo
	loaded  bool
	offset  int
}

func (r *billyDirReader) ReadEntries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.loaded {
		infos, err := r.dir.fs.ReadDir(r.dir.path)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.dir.path, err)
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
		r.listing = infos
		r.loaded = true
	}

	end := min(r.offset+r.dir.pageSize, len(r.listing))
	page := make([]Entry, 0, end-r.offset)
	for _, info := range r.listing[r.offset:end] {
		page = append(page, newBillyEntry(r.dir.fs, r.dir.fs.Join(r.dir.path, info.Name()), info, r.dir.pageSize))
	}
	r.offset = end
	return page, nil
}

func newBillyEntry(fs billy.Filesystem, p string, info os.FileInfo, pageSize int) Entry {
	if info.IsDir() {
		return &billyDir{fs: fs, path: p, name: info.Name(), pageSize: pageSize}
	}
	return &billyFile{fs: fs, path: p, name: info.Name()}
}

// BillyEntries stats each path on fs and returns the matching entries.
// Paths that cannot be stat'ed are logged and skipped.
func BillyEntries(fs billy.Filesystem, pageSize int, paths ...string) []Entry {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		info, err := fs.Stat(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Skipping unreadable entry")
			continue
		}
		entries = append(entries, newBillyEntry(fs, p, info, pageSize))
	}
	return entries
}

// OSEntries returns entries for paths on the local disk. Each path is served
// by an osfs rooted at its parent directory.
func OSEntries(pageSize int, paths ...string) []Entry {
	var entries []Entry
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Skipping unresolvable path")
			continue
		}
		fs := osfs.New(filepath.Dir(abs))
		entries = append(entries, BillyEntries(fs, pageSize, filepath.Base(abs))...)
	}
	return entries
}
