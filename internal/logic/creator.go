package logic

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/schollz/progressbar/v3"
)

// CreateOptions are applied to a freshly hashed torrent. Zero values leave
// the corresponding key out.
type CreateOptions struct {
	PieceLength  int64
	Name         string
	Announce     string
	AnnounceList [][]string
	Private      bool
	Nodes        []models.Node
}

type Creator interface {
	Create(ctx context.Context, source string, opts CreateOptions) (*torrent.Torrent, error)
}

type creator struct {
	log      *slog.Logger
	progress io.Writer
}

// NewCreator returns a Creator that draws hashing progress on progress. A nil
// progress writer hides the bar.
func NewCreator(logger *slog.Logger, progress io.Writer) Creator {
	return &creator{log: logger, progress: progress}
}

func (c *creator) Create(ctx context.Context, source string, opts CreateOptions) (*torrent.Torrent, error) {
	pieceLength := opts.PieceLength
	if pieceLength == 0 {
		pieceLength = piece.DefaultLength
	}

	var (
		bar   *progressbar.ProgressBar
		total int64
	)
	hashing := torrent.WithContent(func(r io.Reader, n int64) io.Reader {
		total = n
		c.log.Info("hashing content",
			slog.String("source", source),
			slog.Int64("bytes", total),
			slog.Int64("piece_length", pieceLength))
		bar = newBar(c.progress, total, "hashing")
		return io.TeeReader(contextReader{ctx: ctx, r: r}, bar)
	})

	start := time.Now()
	t, err := torrent.Create(source, pieceLength, hashing)
	if err != nil {
		c.log.Error("failed to create torrent", slog.String("source", source), slog.Any("error", err))
		return nil, err
	}
	_ = bar.Finish()

	if opts.Name != "" {
		if err := t.SetName(opts.Name); err != nil {
			return nil, err
		}
	}
	if opts.Announce != "" {
		t.SetAnnounce(opts.Announce)
	}
	if len(opts.AnnounceList) > 0 {
		t.SetAnnounceList(opts.AnnounceList)
	}
	t.SetPrivate(opts.Private)
	for _, n := range opts.Nodes {
		if err := t.AddNode(n.Host, n.Port); err != nil {
			return nil, err
		}
	}

	name, err := t.Name()
	if err != nil {
		return nil, err
	}
	c.log.Info("created torrent",
		slog.String("name", name),
		slog.Int64("pieces", piece.Count(total, pieceLength)),
		slog.Duration("elapsed", time.Since(start)))
	return t, nil
}
