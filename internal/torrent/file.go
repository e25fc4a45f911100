package torrent

import (
	"io"

	"github.com/WendelHime/torrentmeta/internal/fsys"
)

// Load opens and decodes the .torrent file at path under a shared lock.
func Load(path string) (*Torrent, error) {
	f, err := fsys.OpenShared(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Open(f)
}

// SaveFile atomically replaces the file at path with the encoded torrent.
// An empty path means Filename() in the working directory. The path written
// is returned.
func (t *Torrent) SaveFile(path string) (string, error) {
	if path == "" {
		name, err := t.Filename()
		if err != nil {
			return "", err
		}
		path = name
	}
	err := fsys.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return t.Save(w)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
