package metainfo

import (
	"bytes"
	"crypto/sha1"
	"io"
	"log/slog"

	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/pkg/errors"
	"github.com/zeebo/bencode"
)

// MetafileDecoder turns a .torrent stream into a typed, read-only Metafile.
type MetafileDecoder interface {
	Decode(io.Reader) (models.Metafile, error)
}

type decoder struct {
	logger *slog.Logger
}

func NewDecoder(logger *slog.Logger) MetafileDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return decoder{logger: logger}
}

// rawMetafile mirrors the top level of a .torrent file. Info is kept raw so
// the info hash is computed over the exact bytes that were read.
type rawMetafile struct {
	Announce     string             `bencode:"announce"`
	AnnounceList [][]string         `bencode:"announce-list"`
	CreationDate int64              `bencode:"creation date"`
	Private      int                `bencode:"private"`
	Info         bencode.RawMessage `bencode:"info"`
}

func (d decoder) Decode(r io.Reader) (models.Metafile, error) {
	var response models.Metafile
	var raw rawMetafile
	if err := bencode.NewDecoder(r).Decode(&raw); err != nil {
		d.logger.Error("failed to decode metafile", "error", err)
		return response, errors.Wrap(err, "metainfo: decode")
	}
	if len(raw.Info) == 0 {
		return response, errors.New("metainfo: missing info dictionary")
	}

	sum := sha1.Sum(raw.Info)
	response.Announce = raw.Announce
	response.AnnounceList = raw.AnnounceList
	response.CreationDate = raw.CreationDate
	response.Private = raw.Private
	response.InfoHash = models.Hash{Hash: sum[:]}

	if err := bencode.NewDecoder(bytes.NewReader(raw.Info)).Decode(&response.Info); err != nil {
		d.logger.Error("failed to decode info dictionary", "error", err)
		return response, errors.Wrap(err, "metainfo: decode info")
	}

	hashes, err := piece.Split([]byte(response.Info.Pieces))
	if err != nil {
		d.logger.Error("failed to split pieces", "error", err, "length", len(response.Info.Pieces))
		return response, err
	}
	response.Info.PiecesHashes = hashes

	if len(response.Info.Files) == 0 {
		response.Info.Files = []models.File{{Length: response.Info.Length, Path: []string{response.Info.Name}}}
	}
	d.logger.Debug("decoded metafile",
		"name", response.Info.Name,
		"infohash", response.InfoHash.Hex(),
		"pieces", len(hashes))
	return response, nil
}
