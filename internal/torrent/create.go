package torrent

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/WendelHime/torrentmeta/internal/bencode"
	"github.com/WendelHime/torrentmeta/internal/fsys"
	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/pkg/errors"
)

var (
	ErrLengthMismatch = errors.New("torrent: content length does not match the declared length")
	ErrInvalidPath    = errors.New("torrent: invalid file path")
)

// now is replaced in tests.
var now = time.Now

// NewSingleFile builds a single-file torrent. content must yield exactly
// length bytes.
func NewSingleFile(name string, length int64, content io.Reader, pieceLength int64) (*Torrent, error) {
	pieces, err := hashExactly(content, length, pieceLength)
	if err != nil {
		return nil, err
	}
	info := bencode.NewDictionary()
	info.Set(keyName, bencode.String(name))
	info.Set(keyLength, bencode.Integer(length))
	info.Set(keyPieceLength, bencode.Integer(pieceLength))
	info.Set(keyPieces, bencode.ByteString(pieces))
	return newWithInfo(info), nil
}

// NewMultiFile builds a multi-file torrent. content is the concatenation of
// all files in the order given; pieces run across file boundaries.
func NewMultiFile(name string, files []models.File, content io.Reader, pieceLength int64) (*Torrent, error) {
	list := make(bencode.List, 0, len(files))
	var total int64
	for _, f := range files {
		if err := ValidatePath(f.Path); err != nil {
			return nil, err
		}
		path := make(bencode.List, 0, len(f.Path))
		for _, seg := range f.Path {
			path = append(path, bencode.String(seg))
		}
		entry := bencode.NewDictionary()
		entry.Set(keyLength, bencode.Integer(f.Length))
		entry.Set(keyPath, path)
		list = append(list, entry)
		total += f.Length
	}

	pieces, err := hashExactly(content, total, pieceLength)
	if err != nil {
		return nil, err
	}
	info := bencode.NewDictionary()
	info.Set(keyFiles, list)
	info.Set(keyName, bencode.String(name))
	info.Set(keyPieceLength, bencode.Integer(pieceLength))
	info.Set(keyPieces, bencode.ByteString(pieces))
	return newWithInfo(info), nil
}

// CreateOption adjusts how Create, CreateFromFile and CreateFromDirectory
// read the content.
type CreateOption func(*createConfig)

type createConfig struct {
	wrap func(r io.Reader, total int64) io.Reader
}

// WithContent wraps the content stream before it is hashed, for example to
// report progress or stop on cancellation. total is the number of bytes the
// stream will yield.
func WithContent(wrap func(r io.Reader, total int64) io.Reader) CreateOption {
	return func(c *createConfig) {
		c.wrap = wrap
	}
}

// Create hashes path with CreateFromDirectory when it is a directory and
// with CreateFromFile otherwise.
func Create(path string, pieceLength int64, opts ...CreateOption) (*Torrent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "torrent: create")
	}
	if info.IsDir() {
		return CreateFromDirectory(path, pieceLength, opts...)
	}
	return CreateFromFile(path, pieceLength, opts...)
}

// CreateFromFile hashes the regular file at path. The torrent is named after
// the file's base name.
func CreateFromFile(path string, pieceLength int64, opts ...CreateOption) (*Torrent, error) {
	entry, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	return fromEntries(entry.Path[0], []fsys.Entry{entry}, false, pieceLength, opts)
}

// CreateFromDirectory hashes every file below path as listed by fsys.Walk.
// The torrent is named after the directory; file paths are relative to it.
func CreateFromDirectory(path string, pieceLength int64, opts ...CreateOption) (*Torrent, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	entries, err := fsys.Walk(abs)
	if err != nil {
		return nil, err
	}
	return fromEntries(filepath.Base(abs), entries, true, pieceLength, opts)
}

func fromEntries(name string, entries []fsys.Entry, multi bool, pieceLength int64, opts []CreateOption) (*Torrent, error) {
	var cfg createConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	content := fsys.NewConcatReader(entries)
	defer content.Close()

	total := fsys.TotalLength(entries)
	var r io.Reader = content
	if cfg.wrap != nil {
		r = cfg.wrap(content, total)
	}
	if multi {
		return NewMultiFile(name, FilesOf(entries), r, pieceLength)
	}
	return NewSingleFile(name, total, r, pieceLength)
}

// FilesOf converts walker entries to torrent file records.
func FilesOf(entries []fsys.Entry) []models.File {
	files := make([]models.File, 0, len(entries))
	for _, e := range entries {
		files = append(files, models.File{Length: e.Length, Path: e.Path})
	}
	return files
}

func newWithInfo(info *bencode.Dictionary) *Torrent {
	t := New()
	t.root.Set(keyCreationDate, bencode.Integer(now().Unix()))
	t.root.Set(keyInfo, info)
	return t
}

// ValidatePath rejects file paths that would not stay below the content
// directory: no segments, or a segment that is empty, "." or "..", or holds a
// path separator.
func ValidatePath(path []string) error {
	if len(path) == 0 {
		return errors.Wrap(ErrInvalidPath, "empty path")
	}
	for _, seg := range path {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsRune(seg, '/') || strings.ContainsRune(seg, filepath.Separator) {
			return errors.Wrapf(ErrInvalidPath, "segment %q in %q", seg, path)
		}
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func hashExactly(content io.Reader, length, pieceLength int64) ([]byte, error) {
	counter := &countingReader{r: content}
	pieces, err := piece.Hash(counter, pieceLength)
	if err != nil {
		return nil, err
	}
	if counter.n != length {
		return nil, errors.Wrapf(ErrLengthMismatch, "read %d bytes, expected %d", counter.n, length)
	}
	return pieces, nil
}
