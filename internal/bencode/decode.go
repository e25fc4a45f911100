package bencode

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// maxDepth bounds list and dictionary nesting.
const maxDepth = 512

// maxIntegerDigits is enough for any int64 including its sign.
const maxIntegerDigits = 20

// Decoder reads bencoded values from a stream, one byte at a time, keeping
// track of the offset for error reporting.
type Decoder struct {
	r      *bufio.Reader
	offset int64
	depth  int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Decode reads the next complete value. Dictionary keys are accepted in any
// order; duplicate keys keep the last value.
func (d *Decoder) Decode() (Value, error) {
	start := d.offset
	v, end, err := d.decodeNext()
	if err != nil {
		return nil, err
	}
	if end {
		return nil, malformed(start, "unexpected end marker")
	}
	return v, nil
}

// Decode reads a single value from r. Whatever follows the value is ignored,
// although buffering may have read some of it from r.
func Decode(r io.Reader) (Value, error) {
	return NewDecoder(r).Decode()
}

// DecodeBytes decodes data, which must hold exactly one value.
func DecodeBytes(data []byte) (Value, error) {
	d := NewDecoder(bytes.NewReader(data))
	v, err := d.Decode()
	if err != nil {
		return nil, err
	}
	if d.offset != int64(len(data)) {
		return nil, malformed(d.offset, "trailing data after value")
	}
	return v, nil
}

func (d *Decoder) readByte() (byte, error) {
	c, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, truncated(d.offset)
		}
		return 0, errors.Wrapf(err, "bencode: read at offset %d", d.offset)
	}
	d.offset++
	return c, nil
}

// decodeNext returns end=true when it consumed the 'e' that closes a collection.
func (d *Decoder) decodeNext() (Value, bool, error) {
	pos := d.offset
	c, err := d.readByte()
	if err != nil {
		return nil, false, err
	}
	switch {
	case c == 'e':
		return nil, true, nil
	case c == 'i':
		v, err := d.decodeInt()
		return v, false, err
	case c == 'l':
		v, err := d.decodeList(pos)
		return v, false, err
	case c == 'd':
		v, err := d.decodeDict(pos)
		return v, false, err
	case c >= '0' && c <= '9':
		v, err := d.decodeBytes(c)
		return v, false, err
	default:
		return nil, false, malformed(pos, "unexpected type marker %q", c)
	}
}

func (d *Decoder) decodeInt() (Integer, error) {
	start := d.offset
	digits := make([]byte, 0, 8)
	for {
		c, err := d.readByte()
		if err != nil {
			return 0, err
		}
		if c == 'e' {
			break
		}
		if len(digits) == maxIntegerDigits {
			return 0, malformed(start, "integer too long")
		}
		digits = append(digits, c)
	}
	if !validInteger(digits) {
		return 0, malformed(start, "invalid integer %q", digits)
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, malformed(start, "integer %q out of range", digits)
	}
	return Integer(n), nil
}

// validInteger accepts an optional '-' followed by at least one digit.
// Leading zeros are tolerated on read.
func validInteger(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (d *Decoder) decodeBytes(first byte) (ByteString, error) {
	start := d.offset - 1
	length := int64(first - '0')
	for {
		c, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if c == ':' {
			break
		}
		if c < '0' || c > '9' {
			return nil, malformed(d.offset-1, "invalid byte %q in string length", c)
		}
		if length > (math.MaxInt64-9)/10 {
			return nil, malformed(start, "string length overflows")
		}
		length = length*10 + int64(c-'0')
	}
	data, err := ReadBytes(d.r, length)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, truncated(d.offset)
		}
		return nil, errors.Wrapf(err, "bencode: read at offset %d", d.offset)
	}
	d.offset += length
	if data == nil {
		data = []byte{}
	}
	return ByteString(data), nil
}

func (d *Decoder) enter(pos int64) error {
	d.depth++
	if d.depth > maxDepth {
		return malformed(pos, "nesting deeper than %d", maxDepth)
	}
	return nil
}

func (d *Decoder) decodeList(pos int64) (List, error) {
	if err := d.enter(pos); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	list := List{}
	for {
		v, end, err := d.decodeNext()
		if err != nil {
			return nil, err
		}
		if end {
			return list, nil
		}
		list = append(list, v)
	}
}

func (d *Decoder) decodeDict(pos int64) (*Dictionary, error) {
	if err := d.enter(pos); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	dict := NewDictionary()
	for {
		keyPos := d.offset
		k, end, err := d.decodeNext()
		if err != nil {
			return nil, err
		}
		if end {
			return dict, nil
		}
		key, ok := k.(ByteString)
		if !ok {
			return nil, malformed(keyPos, "dictionary key is not a byte string")
		}
		valuePos := d.offset
		v, end, err := d.decodeNext()
		if err != nil {
			return nil, err
		}
		if end {
			return nil, malformed(valuePos, "missing value for key %q", key)
		}
		dict.Set(string(key), v)
	}
}
