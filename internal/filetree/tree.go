// Package filetree turns a list of dropped files and folders into an
// in-memory directory tree. Empty folders are pruned while the tree is built.
package filetree

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// RootName is the name of the synthetic directory holding every dropped item.
const RootName = "/"

// File is a leaf of the tree. Its content is read lazily.
type File struct {
	Name   string
	Parent *Directory
	open   func() (io.ReadCloser, error)
}

// NewFile creates a detached file whose content is produced by open.
func NewFile(name string, open func() (io.ReadCloser, error)) *File {
	return &File{Name: name, open: open}
}

// ReadText returns the whole file content as a string, without a UTF-8 BOM.
func (f *File) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.open == nil {
		return "", fmt.Errorf("read %s: no content source", f.Path())
	}
	rc, err := f.open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Path(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path(), err)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// Ext returns the lower-cased extension including the dot.
func (f *File) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// Path returns the slash-separated path of the file from the drop root.
func (f *File) Path() string {
	if f.Parent == nil {
		return f.Name
	}
	return path.Join(f.Parent.Path(), f.Name)
}

// Directory is an inner node of the tree. Parent is nil only for the root.
type Directory struct {
	Name        string
	Parent      *Directory
	Files       []*File
	Directories []*Directory
}

// NewRoot returns an empty drop root.
func NewRoot() *Directory {
	return &Directory{Name: RootName}
}

// IsRoot reports whether d is the top-level root of a drop.
func (d *Directory) IsRoot() bool {
	return d.Parent == nil
}

// IsEmpty reports whether d holds neither files nor directories.
func (d *Directory) IsEmpty() bool {
	return len(d.Files) == 0 && len(d.Directories) == 0
}

// Dir returns the immediate subdirectory with the given name, or nil.
func (d *Directory) Dir(name string) *Directory {
	for _, sub := range d.Directories {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// File returns the immediate file with the given name, or nil.
func (d *Directory) File(name string) *File {
	for _, f := range d.Files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AddFile attaches f to d.
func (d *Directory) AddFile(f *File) {
	f.Parent = d
	d.Files = append(d.Files, f)
}

// AddDir attaches sub to d.
func (d *Directory) AddDir(sub *Directory) {
	sub.Parent = d
	d.Directories = append(d.Directories, sub)
}

// Walk calls fn for every file below d, files of a directory before its
// subdirectories.
func (d *Directory) Walk(fn func(*File)) {
	for _, f := range d.Files {
		fn(f)
	}
	for _, sub := range d.Directories {
		sub.Walk(fn)
	}
}

// AllFiles collects every file below d in Walk order.
func (d *Directory) AllFiles() []*File {
	var files []*File
	d.Walk(func(f *File) { files = append(files, f) })
	return files
}

// Path returns the slash-separated path from the drop root.
func (d *Directory) Path() string {
	if d.Parent == nil {
		return d.Name
	}
	return path.Join(d.Parent.Path(), d.Name)
}
