package piece

import (
	"crypto/sha1"
	"io"

	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/pkg/errors"
)

// DefaultLength is the piece length used when none is configured (256 KiB).
const DefaultLength int64 = 262144

// MaxLength is the largest accepted piece length (128 MiB). A piece is held
// in memory while it is hashed.
const MaxLength int64 = 1 << 27

// HashSize is the width of one piece digest.
const HashSize = sha1.Size

var (
	ErrInvalidPieceLength = errors.New("piece length must be positive and at most 128 MiB")
	ErrInvalidPieces      = errors.New("pieces length is not a multiple of 20")
)

// Hash reads r to exhaustion in chunks of pieceLength bytes and returns the
// concatenated SHA-1 digests. The final chunk may be short. An empty source
// yields no digests. Chunks are filled with io.ReadFull, so when r is a
// concatenation of several files a piece straddles the boundary between them.
func Hash(r io.Reader, pieceLength int64) ([]byte, error) {
	if err := ValidateLength(pieceLength); err != nil {
		return nil, err
	}
	pieces := make([]byte, 0, HashSize)
	buf := make([]byte, pieceLength)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			sum := sha1.Sum(buf[:n])
			pieces = append(pieces, sum[:]...)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return pieces, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "hash piece %d", len(pieces)/HashSize)
		}
	}
}

// ValidateLength accepts piece lengths in (0, MaxLength].
func ValidateLength(pieceLength int64) error {
	if pieceLength <= 0 || pieceLength > MaxLength {
		return errors.Wrapf(ErrInvalidPieceLength, "got %d", pieceLength)
	}
	return nil
}

// Count returns the number of pieces needed for total bytes.
func Count(total, pieceLength int64) int64 {
	if total <= 0 || pieceLength <= 0 {
		return 0
	}
	return (total + pieceLength - 1) / pieceLength
}

// Split cuts a "pieces" string into its digests.
func Split(pieces []byte) ([]models.Hash, error) {
	if len(pieces)%HashSize != 0 {
		return nil, errors.Wrapf(ErrInvalidPieces, "got %d bytes", len(pieces))
	}
	hashes := make([]models.Hash, 0, len(pieces)/HashSize)
	for i := 0; i < len(pieces); i += HashSize {
		hashes = append(hashes, models.Hash{Hash: pieces[i : i+HashSize]})
	}
	return hashes, nil
}

// Layout describes where each piece sits in the content stream.
func Layout(hashes []models.Hash, total, pieceLength int64) []models.Piece {
	layout := make([]models.Piece, len(hashes))
	for i, h := range hashes {
		offset := int64(i) * pieceLength
		layout[i] = models.Piece{
			Index:  i,
			Offset: offset,
			Length: min(pieceLength, max(total-offset, 0)),
			Hash:   h,
		}
	}
	return layout
}
