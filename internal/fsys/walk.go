package fsys

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotRegular = errors.New("not a regular file")

// Entry is one regular file of the content, addressed relative to the root
// that was walked.
type Entry struct {
	Path     []string
	Length   int64
	FullPath string
}

// Stat describes a single regular file. Its relative path is its base name.
func Stat(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, ioError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return Entry{}, errors.Wrap(ErrNotRegular, path)
	}
	return Entry{
		Path:     []string{filepath.Base(path)},
		Length:   info.Size(),
		FullPath: path,
	}, nil
}

// Walk lists every regular file below root, depth first in os.ReadDir order
// (by name). Entries whose name starts with a dot are skipped. Symbolic links
// are followed; a link back to a directory already on the current path is
// ignored. Paths are relative to root itself, so root's own name is not part
// of them.
func Walk(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ioError("stat", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	w := walker{ancestors: make(map[string]struct{})}
	if err := w.walk(root, nil); err != nil {
		return nil, err
	}
	return w.entries, nil
}

type walker struct {
	entries   []Entry
	ancestors map[string]struct{}
}

func (w *walker) walk(dir string, prefix []string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ioError("resolve", dir, err)
	}
	if _, ok := w.ancestors[resolved]; ok {
		return nil
	}
	w.ancestors[resolved] = struct{}{}
	defer delete(w.ancestors, resolved)

	items, err := os.ReadDir(dir)
	if err != nil {
		return ioError("readdir", dir, err)
	}
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil {
			return ioError("stat", full, err)
		}
		path := append(append(make([]string, 0, len(prefix)+1), prefix...), name)
		switch {
		case info.IsDir():
			if err := w.walk(full, path); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			w.entries = append(w.entries, Entry{Path: path, Length: info.Size(), FullPath: full})
		}
	}
	return nil
}

// TotalLength sums the lengths of entries.
func TotalLength(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Length
	}
	return total
}
