package torrent

import (
	"io"

	"github.com/WendelHime/torrentmeta/internal/bencode"
)

const (
	keyAnnounce     = "announce"
	keyAnnounceList = "announce-list"
	keyCreationDate = "creation date"
	keyInfo         = "info"
	keyNodes        = "nodes"
	keyPrivate      = "private"

	keyName        = "name"
	keyLength      = "length"
	keyFiles       = "files"
	keyPath        = "path"
	keyPieceLength = "piece length"
	keyPieces      = "pieces"
)

// DefaultName is what Name stores and returns when info.name is missing.
const DefaultName = "unnamed"

// Torrent is the metadata of a .torrent file. It owns its value tree; keys it
// does not know about are kept and written back unchanged. A Torrent is not
// safe for concurrent use.
type Torrent struct {
	root *bencode.Dictionary
}

// New returns a torrent with an empty root dictionary.
func New() *Torrent {
	return &Torrent{root: bencode.NewDictionary()}
}

// Open decodes one value from r. The root must be a dictionary; the rest of
// the schema is checked lazily by the accessors.
func Open(r io.Reader) (*Torrent, error) {
	v, err := bencode.Decode(r)
	if err != nil {
		return nil, err
	}
	root, ok := v.(*bencode.Dictionary)
	if !ok {
		return nil, &SchemaError{Key: "<root>", Want: "a dictionary"}
	}
	return &Torrent{root: root}, nil
}

// Save writes the canonical encoding of the torrent to w.
func (t *Torrent) Save(w io.Writer) error {
	return bencode.Encode(w, t.root)
}

// Root exposes the underlying tree, for keys without a typed accessor.
func (t *Torrent) Root() *bencode.Dictionary {
	return t.root
}

// info returns the info dictionary. With create set, a missing one is added.
func (t *Torrent) info(create bool) (*bencode.Dictionary, error) {
	v, ok := t.root.Get(keyInfo)
	if !ok {
		if !create {
			return nil, nil
		}
		info := bencode.NewDictionary()
		t.root.Set(keyInfo, info)
		return info, nil
	}
	info, ok := v.(*bencode.Dictionary)
	if !ok {
		return nil, &SchemaError{Key: keyInfo, Want: "a dictionary"}
	}
	return info, nil
}

// requireInfo is info(false) with a missing dictionary reported as an error.
func (t *Torrent) requireInfo() (*bencode.Dictionary, error) {
	info, err := t.info(false)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, &SchemaError{Key: keyInfo, Want: "present"}
	}
	return info, nil
}
