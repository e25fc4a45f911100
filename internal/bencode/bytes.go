package bencode

import (
	"bytes"
	"io"
)

// ReadBytes reads exactly n bytes from r. It returns io.EOF if nothing could
// be read and io.ErrUnexpectedEOF if r ended early. The buffer grows with the
// data actually read, so a bogus length prefix does not allocate up front.
func ReadBytes(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	readed, err := io.CopyN(&buf, r, n)
	if err != nil {
		if err == io.EOF && readed > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
