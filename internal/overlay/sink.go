package overlay

import (
	"archive/zip"
	"fmt"
	"io"
	"path"

	billy "github.com/go-git/go-billy/v5"
)

// Sink receives the files of an overlay. Close finalises the output.
type Sink interface {
	Create(name string) (io.Writer, error)
	Close() error
}

// ZipSink writes the overlay as a zip archive.
type ZipSink struct {
	zw *zip.Writer
}

// NewZipSink returns a sink writing a zip archive to w.
func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w)}
}

func (s *ZipSink) Create(name string) (io.Writer, error) {
	return s.zw.Create(name)
}

// Close writes the zip central directory. It does not close the underlying
// writer.
func (s *ZipSink) Close() error {
	return s.zw.Close()
}

// DirSink writes the overlay as plain files on a billy filesystem.
type DirSink struct {
	fs      billy.Filesystem
	current billy.File
}

// NewDirSink returns a sink writing below the root of fs.
func NewDirSink(fs billy.Filesystem) *DirSink {
	return &DirSink{fs: fs}
}

// Create closes the previously created file and opens name.
func (s *DirSink) Create(name string) (io.Writer, error) {
	if err := s.closeCurrent(); err != nil {
		return nil, err
	}
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", name, err)
	}
	f, err := s.fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	s.current = f
	return f, nil
}

func (s *DirSink) Close() error {
	return s.closeCurrent()
}

func (s *DirSink) closeCurrent() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
