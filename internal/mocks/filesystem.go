// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"distzip/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
type MockFileSystem struct {
	// Files maps paths to file contents for Open/Create.
	Files map[string][]byte
	// Dirs maps paths to directory entries for ReadDir.
	Dirs map[string][]os.DirEntry
	// Stats maps paths to FileInfo for Stat.
	Stats map[string]os.FileInfo
	// Errors maps paths to errors (for simulating per-path failures).
	Errors map[string]error
	// RenameErr, when set, makes every Rename fail (e.g. to simulate a
	// cross-device move) without blocking other operations on the path.
	RenameErr error
	// WalkEntries contains entries to return during Walk.
	WalkEntries []WalkEntry

	// Removed records paths passed to Remove, in order.
	Removed []string
}

// WalkEntry represents a file or directory entry for Walk testing.
type WalkEntry struct {
	Path string
	Info os.FileInfo
	Err  error
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:  make(map[string][]byte),
		Dirs:   make(map[string][]os.DirEntry),
		Stats:  make(map[string]os.FileInfo),
		Errors: make(map[string]error),
	}
}

// ReadDir reads the named directory and returns directory entries.
func (m *MockFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if entries, ok := m.Dirs[name]; ok {
		return entries, nil
	}
	return nil, os.ErrNotExist
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	if content, ok := m.Files[name]; ok {
		return &FileInfo{FileName: filepath.Base(name), FileSize: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

// MkdirAll creates a directory along with any necessary parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := m.Errors[path]; ok {
		return err
	}
	m.Stats[path] = &FileInfo{FileName: filepath.Base(path), Dir: true}
	return nil
}

// Remove removes the named file or empty directory.
func (m *MockFileSystem) Remove(name string) error {
	if err, ok := m.Errors["remove:"+name]; ok {
		return err
	}
	m.Removed = append(m.Removed, name)
	delete(m.Files, name)
	delete(m.Stats, name)
	return nil
}

// Rename renames (moves) oldpath to newpath.
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameErr != nil {
		return m.RenameErr
	}
	if err, ok := m.Errors[oldpath]; ok {
		return err
	}
	if content, ok := m.Files[oldpath]; ok {
		m.Files[newpath] = content
		delete(m.Files, oldpath)
	}
	if info, ok := m.Stats[oldpath]; ok {
		m.Stats[newpath] = info
		delete(m.Stats, oldpath)
	}
	return nil
}

// Open opens the named file for reading.
func (m *MockFileSystem) Open(name string) (fs.File, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &mockFile{name: name, content: content}, nil
}

// Create creates or truncates the named file. Written bytes land in the
// Files map as soon as they are written.
func (m *MockFileSystem) Create(name string) (io.WriteCloser, error) {
	if err, ok := m.Errors["create:"+name]; ok {
		return nil, err
	}
	m.Files[name] = nil
	return &mockWriter{fs: m, name: name}, nil
}

// Walk walks the file tree rooted at root, calling fn for each file or directory.
func (m *MockFileSystem) Walk(root string, fn ports.WalkFunc) error {
	for _, entry := range m.WalkEntries {
		if strings.HasPrefix(entry.Path, root) {
			if err := fn(entry.Path, entry.Info, entry.Err); err != nil {
				if err == filepath.SkipDir || err == filepath.SkipAll {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// DirEntry implements os.DirEntry for testing.
type DirEntry struct {
	EntryName string
	EntryDir  bool
	EntryInfo os.FileInfo
	InfoErr   error
}

func (e *DirEntry) Name() string { return e.EntryName }
func (e *DirEntry) IsDir() bool  { return e.EntryDir }
func (e *DirEntry) Type() fs.FileMode {
	if e.EntryDir {
		return fs.ModeDir
	}
	return 0
}
func (e *DirEntry) Info() (fs.FileInfo, error) {
	if e.InfoErr != nil {
		return nil, e.InfoErr
	}
	if e.EntryInfo != nil {
		return e.EntryInfo, nil
	}
	return &FileInfo{FileName: e.EntryName, Dir: e.EntryDir}, nil
}

// FileInfo implements os.FileInfo for testing.
type FileInfo struct {
	FileName string
	FileSize int64
	FileMode os.FileMode
	Modified time.Time
	Dir      bool
}

func (fi *FileInfo) Name() string { return fi.FileName }
func (fi *FileInfo) Size() int64  { return fi.FileSize }
func (fi *FileInfo) Mode() os.FileMode {
	if fi.Dir {
		return fi.FileMode | os.ModeDir
	}
	return fi.FileMode
}
func (fi *FileInfo) ModTime() time.Time { return fi.Modified }
func (fi *FileInfo) IsDir() bool        { return fi.Dir }
func (fi *FileInfo) Sys() interface{}   { return nil }

// mockFile implements fs.File for testing.
type mockFile struct {
	name    string
	content []byte
	offset  int
}

func (f *mockFile) Stat() (fs.FileInfo, error) {
	return &FileInfo{FileName: filepath.Base(f.name), FileSize: int64(len(f.content))}, nil
}

func (f *mockFile) Read(p []byte) (int, error) {
	if f.offset >= len(f.content) {
		return 0, io.EOF
	}
	n := copy(p, f.content[f.offset:])
	f.offset += n
	return n, nil
}

func (f *mockFile) Close() error { return nil }

// mockWriter accumulates writes into the owning mock's Files map.
type mockWriter struct {
	fs   *MockFileSystem
	name string
	buf  bytes.Buffer
}

func (w *mockWriter) Write(p []byte) (int, error) {
	if err, ok := w.fs.Errors["write:"+w.name]; ok {
		return 0, err
	}
	n, _ := w.buf.Write(p)
	w.fs.Files[w.name] = w.buf.Bytes()
	return n, nil
}

func (w *mockWriter) Close() error {
	w.fs.Files[w.name] = w.buf.Bytes()
	return nil
}

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
