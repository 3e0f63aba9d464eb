// Package library manages the operator-granted poster directory: recursive
// scanning for supported files, re-resolving scanned names back to openable
// content, and watching the tree for changes that invalidate the last scan.
package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/postercast/postercast/internal/abstract"
)

var (
	// ErrNoRoot means Scan or Open was called before a directory was granted.
	ErrNoRoot = errors.New("no directory loaded")
	// ErrNotFound means a previously scanned filename is no longer present
	// anywhere under the granted tree.
	ErrNotFound = errors.New("file not found")
)

// Library owns at most one granted root directory. A declined directory pick
// is represented by never calling SetRoot; that is not an error state.
type Library struct {
	mu   sync.Mutex
	root string

	openRefs map[string]struct{}
}

func New() *Library {
	return &Library{openRefs: map[string]struct{}{}}
}

// SetRoot grants a directory. The path must exist and be a directory.
func (l *Library) SetRoot(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoRoot
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory: " + path)
	}
	l.mu.Lock()
	l.root = filepath.Clean(path)
	l.mu.Unlock()
	return nil
}

// Selected reports whether a directory has been granted.
func (l *Library) Selected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.root != ""
}

// Root returns the granted directory, or "" when none is selected.
func (l *Library) Root() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.root
}

// Scan walks the granted tree, descending into every subdirectory, and
// returns the supported files in a stable order. Files whose extension is
// outside the supported set, or that fail file-type classification, are
// silently skipped.
func (l *Library) Scan() ([]abstract.ScannedFile, error) {
	root := l.Root()
	if root == "" {
		return nil, ErrNoRoot
	}

	files := make([]abstract.ScannedFile, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		ext := extensionOf(name)
		ft, ok := abstract.FileTypeForExtension(ext)
		if !ok {
			return nil
		}
		files = append(files, abstract.ScannedFile{
			Name:      name,
			Extension: ext,
			FileType:  ft,
			Ref:       path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir order is already lexical per directory; sorting the flat list
	// keeps results identical across filesystems.
	sort.Slice(files, func(i, j int) bool { return files[i].Ref < files[j].Ref })
	return files, nil
}

// Open re-resolves a previously scanned bare filename to an openable content
// reference by repeating the recursive search. ErrNotFound signals the file
// left the tree since the last scan, which callers surface rather than
// swallow.
func (l *Library) Open(name string) (string, error) {
	root := l.Root()
	if root == "" {
		return "", ErrNoRoot
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", ErrNotFound
	}

	l.mu.Lock()
	l.openRefs[found] = struct{}{}
	l.mu.Unlock()
	return found, nil
}

// Release frees a reference handed out by Open. Releasing an unknown
// reference is a no-op.
func (l *Library) Release(ref string) {
	l.mu.Lock()
	delete(l.openRefs, ref)
	l.mu.Unlock()
}

// OpenCount reports how many references are currently materialized. Used by
// callers that want to verify display cleanup.
func (l *Library) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.openRefs)
}

// extensionOf returns the lowercased text after the final dot, or "" when the
// name has no dot or ends with one.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
