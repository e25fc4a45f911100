package fsys

import (
	"io"

	"github.com/pkg/errors"
)

// ErrSizeChanged means a file did not hold the number of bytes recorded
// when it was listed.
var ErrSizeChanged = errors.New("file size changed while reading")

// NewConcatReader returns one stream over the contents of entries in order.
// Files are opened one at a time under a shared lock, and each must yield
// exactly Entry.Length bytes.
func NewConcatReader(entries []Entry) io.ReadCloser {
	return &concatReader{entries: entries}
}

type concatReader struct {
	entries []Entry
	cur     io.ReadCloser
	read    int64
}

func (c *concatReader) Read(p []byte) (int, error) {
	for {
		if c.cur == nil {
			if len(c.entries) == 0 {
				return 0, io.EOF
			}
			f, err := OpenShared(c.entries[0].FullPath)
			if err != nil {
				return 0, err
			}
			c.cur = f
			c.read = 0
		}

		entry := c.entries[0]
		n, err := c.cur.Read(p)
		c.read += int64(n)
		if c.read > entry.Length {
			return n, ioError("read", entry.FullPath, ErrSizeChanged)
		}
		if err == io.EOF {
			if c.read != entry.Length {
				return n, ioError("read", entry.FullPath, ErrSizeChanged)
			}
			if err := c.closeCurrent(); err != nil {
				return n, err
			}
			c.entries = c.entries[1:]
			if n > 0 {
				return n, nil
			}
			continue
		}
		if err != nil {
			return n, ioError("read", entry.FullPath, err)
		}
		return n, nil
	}
}

func (c *concatReader) closeCurrent() error {
	if c.cur == nil {
		return nil
	}
	err := c.cur.Close()
	c.cur = nil
	return err
}

func (c *concatReader) Close() error {
	c.entries = nil
	return c.closeCurrent()
}
