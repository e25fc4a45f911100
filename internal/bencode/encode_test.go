package bencode

import (
	"bytes"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictOf(kv ...any) *Dictionary {
	d := NewDictionary()
	for i := 0; i < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1].(Value))
	}
	return d
}

func Test_encodeDict(t *testing.T) {
	d := dictOf(
		"y", String("q"),
		"t", String("aa"),
		"q", String("ping"),
		"a", dictOf("id", String("abcdefghij0123456789")),
	)
	out, err := EncodeBytes(d)
	if assert.NoError(t, err) {
		assert.Equal(t, "d1:ad2:id20:abcdefghij0123456789e1:q4:ping1:t2:aa1:y1:qe", string(out))
	}
}

func TestEncode_scalars(t *testing.T) {
	var tests = []struct {
		name     string
		value    Value
		expected string
	}{
		{"zero", Integer(0), "i0e"},
		{"negative", Integer(-17), "i-17e"},
		{"string", String("spam"), "4:spam"},
		{"empty string", ByteString{}, "0:"},
		{"binary", ByteString{0x00, 0xff, ':'}, "3:\x00\xff:"},
		{"empty list", List{}, "le"},
		{"empty dict", NewDictionary(), "de"},
		{"list keeps order", List{Integer(3), Integer(1), Integer(2)}, "li3ei1ei2ee"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := EncodeBytes(tt.value)
			if assert.NoError(t, err) {
				assert.Equal(t, tt.expected, string(out))
			}
		})
	}
}

func TestEncode_sortsKeysByteWise(t *testing.T) {
	d := dictOf(
		"b", Integer(1),
		"a", Integer(2),
		"B", Integer(3),
		"ab", Integer(4),
		"\xff", Integer(5),
	)
	out, err := EncodeBytes(d)
	require.NoError(t, err)
	assert.Equal(t, "d1:Bi3e1:ai2e2:abi4e1:bi1e1:\xffi5ee", string(out))
}

func TestEncode_nilValue(t *testing.T) {
	_, err := EncodeBytes(List{nil})
	assert.ErrorIs(t, err, ErrNilValue)

	var d *Dictionary
	_, err = EncodeBytes(d)
	assert.ErrorIs(t, err, ErrNilValue)
}

type shortWriter struct {
	limit int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		n := w.limit
		w.limit = 0
		return n, errors.New("disk full")
	}
	w.limit -= len(p)
	return len(p), nil
}

func TestEncode_writerFailure(t *testing.T) {
	big := ByteString(bytes.Repeat([]byte("x"), 8192))
	err := Encode(&shortWriter{limit: 100}, List{big, big})
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Integer(42),
		String("hello"),
		List{String("a"), List{Integer(-1)}, NewDictionary()},
		dictOf(
			"info", dictOf(
				"name", String("x"),
				"files", List{dictOf("length", Integer(3), "path", List{String("a"), String("b")})},
			),
			"announce", String("http://tracker/announce"),
			"nodes", List{List{String("router.example"), Integer(6881)}},
		),
	}
	for _, v := range values {
		out, err := EncodeBytes(v)
		require.NoError(t, err)
		decoded, err := DecodeBytes(out)
		require.NoError(t, err)
		assert.True(t, Equal(v, decoded), "round trip of %q", out)
	}
}

func TestEncode_readableByJackpal(t *testing.T) {
	d := dictOf(
		"zeta", Integer(1),
		"alpha", List{String("x"), Integer(2)},
		"mid", dictOf("k", String("v")),
	)
	out, err := EncodeBytes(d)
	require.NoError(t, err)

	decoded, err := jackpal.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"zeta":  int64(1),
		"alpha": []interface{}{"x", int64(2)},
		"mid":   map[string]interface{}{"k": "v"},
	}, decoded)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(dictOf("a", Integer(1), "b", Integer(2)), dictOf("b", Integer(2), "a", Integer(1))))
	assert.False(t, Equal(List{Integer(1), Integer(2)}, List{Integer(2), Integer(1)}))
	assert.False(t, Equal(String("1"), Integer(1)))
	assert.False(t, Equal(dictOf("a", Integer(1)), dictOf("a", Integer(1), "b", Integer(2))))
	assert.True(t, Equal(ByteString{}, ByteString(nil)))
}

func TestLookup(t *testing.T) {
	d := dictOf(
		"foo", String("bar"),
		"info", dictOf("piece length", Integer(16), "name", String("n")),
	)
	v, ok := Lookup(d, "info.piece length")
	assert.True(t, ok)
	assert.Equal(t, Integer(16), v)

	_, ok = Lookup(d, "foo.bar")
	assert.False(t, ok)
	_, ok = Lookup(d, "baz")
	assert.False(t, ok)

	s, ok := GetString(d, "info.name")
	assert.True(t, ok)
	assert.Equal(t, "n", s)
	_, ok = GetInt(d, "info.name")
	assert.False(t, ok)
	_, ok = GetDict(d, "info")
	assert.True(t, ok)
}

func TestDictionary_zeroValue(t *testing.T) {
	var d Dictionary
	_, ok := d.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Keys())
	assert.False(t, d.Delete("a"))

	d.Set("b", Integer(2))
	d.Set("a", Integer(1))
	assert.Equal(t, []string{"b", "a"}, d.Keys())
	out, err := EncodeBytes(&d)
	require.NoError(t, err)
	assert.Equal(t, "d1:ai1e1:bi2ee", string(out))

	var empty *Dictionary
	assert.Equal(t, 0, empty.Len())
	assert.True(t, Equal(empty, NewDictionary()))
	assert.False(t, Equal(empty, &d))
}
