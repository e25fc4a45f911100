package models

import "encoding/hex"

// Metafile is a typed, read-only view of a .torrent file.
type Metafile struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list"`
	CreationDate int64      `bencode:"creation date"`
	Private      int        `bencode:"private"`
	Info         Info       `bencode:"info"`
	InfoHash     Hash       `bencode:"-"`
}

type Info struct {
	Name         string `bencode:"name"`
	Length       int64  `bencode:"length"`
	PieceLength  int64  `bencode:"piece length"`
	Pieces       string `bencode:"pieces"`
	PiecesHashes []Hash `bencode:"-"`
	Files        []File `bencode:"files,omitempty"`
}

type File struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

// TotalLength is the size of the content, across all files for multi-file torrents.
func (i Info) TotalLength() int64 {
	if len(i.Files) == 0 {
		return i.Length
	}
	var total int64
	for _, f := range i.Files {
		total += f.Length
	}
	return total
}

type Hash struct {
	Hash []byte
}

func (h Hash) String() string {
	return string(h.Hash)
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h.Hash)
}
