package fsys

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// OpenShared opens path for reading while holding a shared advisory lock on
// it. The lock is released by Close.
func OpenShared(path string) (io.ReadCloser, error) {
	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	if err := lock.RLock(); err != nil {
		return nil, ioError("lock", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, ioError("open", path, err)
	}
	return &lockedFile{File: f, lock: lock}, nil
}

type lockedFile struct {
	*os.File
	lock *flock.Flock
}

func (l *lockedFile) Close() error {
	err := l.File.Close()
	if unlockErr := l.lock.Unlock(); err == nil && unlockErr != nil {
		err = unlockErr
	}
	return ioError("close", l.Name(), err)
}

// WriteAtomic replaces the file at path with what fn writes. The data goes
// to a temporary file in the same directory which is synced and renamed over
// path only when fn and every flush succeed, so readers see either the old
// content or the new one. An existing destination is locked exclusively for
// the duration.
func WriteAtomic(path string, perm os.FileMode, fn func(io.Writer) error) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
		if err := lock.Lock(); err != nil {
			return ioError("lock", path, err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("create", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return ioError("write", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return ioError("sync", path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return ioError("chmod", path, err)
	}
	if err = tmp.Close(); err != nil {
		return ioError("close", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return ioError("rename", path, err)
	}
	return nil
}
