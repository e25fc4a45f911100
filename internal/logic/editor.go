package logic

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/pkg/errors"
)

// Edit lists the changes to make to an existing torrent. Nil pointers and
// empty slices leave the torrent as it is. NoAnnounce is applied before
// Announce and AnnounceList, so both together replace the trackers.
type Edit struct {
	Name         *string
	Private      *bool
	NoAnnounce   bool
	Announce     *string
	AnnounceList [][]string
	// RemoveNodes holds "host" (every port) or "host:port".
	RemoveNodes []string
	AddNodes    []models.Node
}

type Editor interface {
	// Edit applies e to the torrent file at path and saves it in place.
	Edit(path string, e Edit) (*torrent.Torrent, error)
}

type editor struct {
	log *slog.Logger
}

func NewEditor(logger *slog.Logger) Editor {
	return &editor{log: logger}
}

func (ed *editor) Edit(path string, e Edit) (*torrent.Torrent, error) {
	t, err := torrent.Load(path)
	if err != nil {
		return nil, err
	}
	if err := Apply(t, e); err != nil {
		return nil, err
	}
	if _, err := t.SaveFile(path); err != nil {
		ed.log.Error("failed to save torrent", slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	ed.log.Info("saved torrent", slog.String("path", path))
	return t, nil
}

// Apply makes the changes in e to t without saving.
func Apply(t *torrent.Torrent, e Edit) error {
	if e.Name != nil {
		if err := t.SetName(*e.Name); err != nil {
			return err
		}
	}
	if e.Private != nil {
		t.SetPrivate(*e.Private)
	}
	if e.NoAnnounce {
		t.ClearAnnounce()
	}
	if e.Announce != nil {
		t.SetAnnounce(*e.Announce)
	}
	if len(e.AnnounceList) > 0 {
		t.SetAnnounceList(e.AnnounceList)
	}
	for _, addr := range e.RemoveNodes {
		if err := removeNode(t, addr); err != nil {
			return err
		}
	}
	for _, n := range e.AddNodes {
		if err := t.AddNode(n.Host, n.Port); err != nil {
			return err
		}
	}
	return nil
}

func removeNode(t *torrent.Torrent, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return t.RemoveNode(addr)
	}
	p, err := strconv.ParseInt(port, 10, 64)
	if err != nil {
		return errors.Wrapf(models.ErrInvalidNode, "%q", addr)
	}
	return t.RemoveNodePort(host, p)
}
