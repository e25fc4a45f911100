package bencode

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Encoder writes values in canonical form: dictionary keys ascending
// byte-wise, integers without leading zeros.
type Encoder struct {
	w       *bufio.Writer
	scratch []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes v and flushes. Nothing is retried: a short write is an error.
func (e *Encoder) Encode(v Value) error {
	if err := e.encodeAny(v); err != nil {
		return err
	}
	return errors.Wrap(e.w.Flush(), "bencode: flush")
}

func Encode(w io.Writer, v Value) error {
	return NewEncoder(w).Encode(v)
}

func EncodeBytes(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) encodeAny(v Value) error {
	switch item := v.(type) {
	case Integer:
		return e.encodeInt(item)
	case ByteString:
		return e.encodeBytes(item)
	case List:
		return e.encodeList(item)
	case *Dictionary:
		if item == nil {
			return ErrNilValue
		}
		return e.encodeDict(item)
	default:
		return ErrNilValue
	}
}

func (e *Encoder) encodeInt(n Integer) error {
	e.scratch = append(e.scratch[:0], 'i')
	e.scratch = strconv.AppendInt(e.scratch, int64(n), 10)
	e.scratch = append(e.scratch, 'e')
	_, err := e.w.Write(e.scratch)
	return errors.Wrap(err, "bencode: write")
}

func (e *Encoder) encodeBytes(b []byte) error {
	e.scratch = strconv.AppendInt(e.scratch[:0], int64(len(b)), 10)
	e.scratch = append(e.scratch, ':')
	if _, err := e.w.Write(e.scratch); err != nil {
		return errors.Wrap(err, "bencode: write")
	}
	// written on its own, payloads such as "pieces" can be large
	_, err := e.w.Write(b)
	return errors.Wrap(err, "bencode: write")
}

func (e *Encoder) encodeList(list List) error {
	if err := e.w.WriteByte('l'); err != nil {
		return errors.Wrap(err, "bencode: write")
	}
	for _, item := range list {
		if err := e.encodeAny(item); err != nil {
			return err
		}
	}
	return errors.Wrap(e.w.WriteByte('e'), "bencode: write")
}

func (e *Encoder) encodeDict(d *Dictionary) error {
	if err := e.w.WriteByte('d'); err != nil {
		return errors.Wrap(err, "bencode: write")
	}
	for _, k := range d.SortedKeys() {
		if err := e.encodeBytes([]byte(k)); err != nil {
			return err
		}
		v, _ := d.Get(k)
		if err := e.encodeAny(v); err != nil {
			return err
		}
	}
	return errors.Wrap(e.w.WriteByte('e'), "bencode: write")
}
