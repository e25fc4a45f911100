package logic

import (
	"bytes"
	"context"
	"crypto/sha1"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/WendelHime/torrentmeta/internal/fsys"
	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/pkg/errors"
)

var ErrLengthMismatch = errors.New("content length does not match the torrent")

// Report is the outcome of a verification run.
type Report struct {
	Pieces int
	Bad    []int
}

func (r Report) OK() bool {
	return len(r.Bad) == 0
}

type Verifier interface {
	// Verify rehashes the content at path against the torrent's pieces. For a
	// single-file torrent path is the file; otherwise it is the directory that
	// holds the listed files.
	Verify(ctx context.Context, t *torrent.Torrent, path string) (Report, error)
}

type verifier struct {
	log      *slog.Logger
	progress io.Writer
}

func NewVerifier(logger *slog.Logger, progress io.Writer) Verifier {
	return &verifier{log: logger, progress: progress}
}

func (v *verifier) Verify(ctx context.Context, t *torrent.Torrent, path string) (Report, error) {
	hashes, err := t.Pieces()
	if err != nil {
		return Report{}, err
	}
	pieceLength, err := t.PieceLength()
	if err != nil {
		return Report{}, err
	}
	if err := piece.ValidateLength(pieceLength); err != nil {
		return Report{}, err
	}
	entries, err := contentEntries(t, path)
	if err != nil {
		return Report{}, err
	}
	total := fsys.TotalLength(entries)
	if want := piece.Count(total, pieceLength); want != int64(len(hashes)) {
		return Report{}, errors.Wrapf(ErrLengthMismatch, "%d bytes need %d pieces, torrent has %d", total, want, len(hashes))
	}

	content := fsys.NewConcatReader(entries)
	defer content.Close()
	bar := newBar(v.progress, total, "verifying")
	r := io.TeeReader(contextReader{ctx: ctx, r: content}, bar)

	report := Report{Pieces: len(hashes)}
	buf := make([]byte, pieceLength)
	for _, p := range piece.Layout(hashes, total, pieceLength) {
		data := buf[:p.Length]
		if _, err := io.ReadFull(r, data); err != nil {
			return report, errors.Wrapf(err, "read piece %d", p.Index)
		}
		if !checkHash(data, p) {
			v.log.Warn("piece is not valid", slog.Int("piece", p.Index), slog.Int64("offset", p.Offset))
			report.Bad = append(report.Bad, p.Index)
		}
	}
	_ = bar.Finish()

	v.log.Info("verified content",
		slog.String("path", path),
		slog.Int("pieces", report.Pieces),
		slog.Int("bad", len(report.Bad)))
	return report, nil
}

func checkHash(data []byte, p models.Piece) bool {
	sum := sha1.Sum(data)
	return bytes.Equal(sum[:], p.Hash.Hash)
}

// contentEntries maps the torrent's files onto disk below path and checks
// that every file exists with the recorded length. File paths from the
// torrent must stay below path.
func contentEntries(t *torrent.Torrent, path string) ([]fsys.Entry, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	multi := t.IsMultiFile()
	entries := make([]fsys.Entry, 0, len(files))
	for _, f := range files {
		full := path
		if multi {
			if err := torrent.ValidatePath(f.Path); err != nil {
				return nil, err
			}
			full = filepath.Join(append([]string{path}, f.Path...)...)
		}
		entry, err := fsys.Stat(full)
		if err != nil {
			return nil, err
		}
		if entry.Length != f.Length {
			return nil, errors.Wrapf(ErrLengthMismatch, "%s has %d bytes, torrent says %d", full, entry.Length, f.Length)
		}
		entry.Path = f.Path
		entries = append(entries, entry)
	}
	return entries, nil
}
