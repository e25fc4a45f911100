package torrent

import (
	"crypto/sha1"

	"github.com/WendelHime/torrentmeta/internal/bencode"
	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
)

// InfoHash is the SHA-1 of the canonical encoding of the info dictionary.
func (t *Torrent) InfoHash() (models.Hash, error) {
	info, err := t.requireInfo()
	if err != nil {
		return models.Hash{}, err
	}
	data, err := bencode.EncodeBytes(info)
	if err != nil {
		return models.Hash{}, err
	}
	sum := sha1.Sum(data)
	return models.Hash{Hash: sum[:]}, nil
}

func (t *Torrent) PieceLength() (int64, error) {
	info, err := t.requireInfo()
	if err != nil {
		return 0, err
	}
	n, ok := bencode.GetInt(info, keyPieceLength)
	if !ok || n <= 0 {
		return 0, &SchemaError{Key: "info.piece length", Want: "a positive integer"}
	}
	return n, nil
}

// Pieces returns the piece digests in order.
func (t *Torrent) Pieces() ([]models.Hash, error) {
	info, err := t.requireInfo()
	if err != nil {
		return nil, err
	}
	v, ok := info.Get(keyPieces)
	if !ok {
		return nil, &SchemaError{Key: "info.pieces", Want: "present"}
	}
	pieces, ok := v.(bencode.ByteString)
	if !ok {
		return nil, &SchemaError{Key: "info.pieces", Want: "a byte string"}
	}
	hashes, err := piece.Split(pieces)
	if err != nil {
		return nil, &SchemaError{Key: "info.pieces", Want: "a multiple of 20 bytes"}
	}
	return hashes, nil
}

// IsMultiFile reports whether the info dictionary uses the "files" form.
func (t *Torrent) IsMultiFile() bool {
	info, err := t.info(false)
	if err != nil || info == nil {
		return false
	}
	_, ok := info.Get(keyFiles)
	return ok
}

// Files lists the content files. A single-file torrent yields one file whose
// path is its name.
func (t *Torrent) Files() ([]models.File, error) {
	info, err := t.requireInfo()
	if err != nil {
		return nil, err
	}
	if !t.IsMultiFile() {
		length, ok := bencode.GetInt(info, keyLength)
		if !ok || length < 0 {
			return nil, &SchemaError{Key: "info.length", Want: "a non-negative integer"}
		}
		name, _ := bencode.GetString(info, keyName)
		return []models.File{{Length: length, Path: []string{name}}}, nil
	}

	schemaErr := &SchemaError{Key: "info.files", Want: "a list of {length, path} dictionaries"}
	list, ok := bencode.GetList(info, keyFiles)
	if !ok {
		return nil, schemaErr
	}
	files := make([]models.File, 0, len(list))
	for _, item := range list {
		entry, ok := item.(*bencode.Dictionary)
		if !ok {
			return nil, schemaErr
		}
		length, ok := bencode.GetInt(entry, keyLength)
		if !ok || length < 0 {
			return nil, schemaErr
		}
		segments, ok := bencode.GetList(entry, keyPath)
		if !ok {
			return nil, schemaErr
		}
		path := make([]string, 0, len(segments))
		for _, s := range segments {
			seg, ok := s.(bencode.ByteString)
			if !ok {
				return nil, schemaErr
			}
			path = append(path, string(seg))
		}
		files = append(files, models.File{Length: length, Path: path})
	}
	return files, nil
}

// TotalLength is the sum of all file lengths.
func (t *Torrent) TotalLength() (int64, error) {
	files, err := t.Files()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		total += f.Length
	}
	return total, nil
}
