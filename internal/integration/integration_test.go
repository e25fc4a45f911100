package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/WendelHime/torrentmeta/internal/logic"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/cucumber/godog"
	"github.com/pkg/errors"
)

type IntegrationTest struct {
	Creator  logic.Creator
	Verifier logic.Verifier
	dir      string
	torrent  *torrent.Torrent
}

func (i *IntegrationTest) path(name string) string {
	return filepath.Join(i.dir, filepath.FromSlash(name))
}

func (i *IntegrationTest) aFileContaining(name, content string) error {
	p := i.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(content), 0o644)
}

func (i *IntegrationTest) iCreateATorrentFrom(name string, pieceLength int64) error {
	t, err := i.Creator.Create(context.Background(), i.path(name), logic.CreateOptions{PieceLength: pieceLength})
	if err != nil {
		return err
	}
	i.torrent = t
	return nil
}

func (i *IntegrationTest) iSaveAndReopenTheTorrent() error {
	path, err := i.torrent.SaveFile(filepath.Join(i.dir, "out.torrent"))
	if err != nil {
		return err
	}
	t, err := torrent.Load(path)
	if err != nil {
		return err
	}
	i.torrent = t
	return nil
}

func (i *IntegrationTest) iMarkTheTorrentPrivate() error {
	private := true
	return logic.Apply(i.torrent, logic.Edit{Private: &private})
}

func (i *IntegrationTest) iSetTheAnnounceURLTo(url string) error {
	return logic.Apply(i.torrent, logic.Edit{Announce: &url})
}

func (i *IntegrationTest) iAddTheNode(addr string) error {
	n, err := models.ParseNode(addr)
	if err != nil {
		return err
	}
	return logic.Apply(i.torrent, logic.Edit{AddNodes: []models.Node{n}})
}

func (i *IntegrationTest) iRemoveTheNode(addr string) error {
	return logic.Apply(i.torrent, logic.Edit{RemoveNodes: []string{addr}})
}

func (i *IntegrationTest) theTorrentNameShouldBe(expected string) error {
	name, err := i.torrent.Name()
	if err != nil {
		return err
	}
	if name != expected {
		return fmt.Errorf("expected name %q, got %q", expected, name)
	}
	return nil
}

func (i *IntegrationTest) theTorrentShouldHavePieces(expected int) error {
	pieces, err := i.torrent.Pieces()
	if err != nil {
		return err
	}
	if len(pieces) != expected {
		return fmt.Errorf("expected %d pieces, got %d", expected, len(pieces))
	}
	return nil
}

func (i *IntegrationTest) theTotalLengthShouldBe(expected int64) error {
	total, err := i.torrent.TotalLength()
	if err != nil {
		return err
	}
	if total != expected {
		return fmt.Errorf("expected %d bytes, got %d", expected, total)
	}
	return nil
}

func (i *IntegrationTest) theTorrentShouldBePrivate() error {
	if !i.torrent.IsPrivate() {
		return errors.New("torrent is not private")
	}
	return nil
}

func (i *IntegrationTest) theTorrentShouldNotBePrivate() error {
	if i.torrent.IsPrivate() {
		return errors.New("torrent is private")
	}
	return nil
}

func (i *IntegrationTest) theTorrentShouldListFiles(table *godog.Table) error {
	files, err := i.torrent.Files()
	if err != nil {
		return err
	}
	rows := table.Rows[1:]
	if len(files) != len(rows) {
		return fmt.Errorf("expected %d files, got %d", len(rows), len(files))
	}
	for n, row := range rows {
		path := row.Cells[0].Value
		length, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return err
		}
		got := strings.Join(files[n].Path, "/")
		if got != path || files[n].Length != length {
			return fmt.Errorf("file %d: expected %s (%d), got %s (%d)", n, path, length, got, files[n].Length)
		}
	}
	return nil
}

func (i *IntegrationTest) theContentShouldVerify(name string) error {
	report, err := i.Verifier.Verify(context.Background(), i.torrent, i.path(name))
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("bad pieces %v", report.Bad)
	}
	return nil
}

func (i *IntegrationTest) pieceShouldFailVerification(index int) error {
	report, err := i.Verifier.Verify(context.Background(), i.torrent, i.path("data.bin"))
	if err != nil {
		return err
	}
	if len(report.Bad) != 1 || report.Bad[0] != index {
		return fmt.Errorf("expected only piece %d to fail, got %v", index, report.Bad)
	}
	return nil
}

func (i *IntegrationTest) theAnnounceTiersShouldBe(expected string) error {
	tiers, err := i.torrent.Announce()
	if err != nil {
		return err
	}
	var got []string
	for _, tier := range tiers {
		got = append(got, strings.Join(tier, ","))
	}
	if strings.Join(got, ";") != expected {
		return fmt.Errorf("expected tiers %q, got %q", expected, got)
	}
	return nil
}

func (i *IntegrationTest) theNodesShouldBe(expected string) error {
	nodes, err := i.torrent.Nodes()
	if err != nil {
		return err
	}
	got := make([]string, 0, len(nodes))
	for _, n := range nodes {
		got = append(got, n.String())
	}
	if strings.Join(got, ",") != expected {
		return fmt.Errorf("expected nodes %q, got %q", expected, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	i := &IntegrationTest{
		Creator:  logic.NewCreator(logger, nil),
		Verifier: logic.NewVerifier(logger, nil),
	}
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "torrentmeta-")
		i.dir = dir
		return ctx, err
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return ctx, os.RemoveAll(i.dir)
	})

	ctx.Step(`^a file "([^"]*)" containing "([^"]*)"$`, i.aFileContaining)
	ctx.Step(`^the file "([^"]*)" is overwritten with "([^"]*)"$`, i.aFileContaining)
	ctx.Step(`^I create a torrent from "([^"]*)" with piece length (\d+)$`, i.iCreateATorrentFrom)
	ctx.Step(`^I save and reopen the torrent$`, i.iSaveAndReopenTheTorrent)
	ctx.Step(`^I mark the torrent private$`, i.iMarkTheTorrentPrivate)
	ctx.Step(`^I set the announce URL to "([^"]*)"$`, i.iSetTheAnnounceURLTo)
	ctx.Step(`^I add the node "([^"]*)"$`, i.iAddTheNode)
	ctx.Step(`^I remove the node "([^"]*)"$`, i.iRemoveTheNode)
	ctx.Step(`^the torrent name should be "([^"]*)"$`, i.theTorrentNameShouldBe)
	ctx.Step(`^the torrent should have (\d+) pieces$`, i.theTorrentShouldHavePieces)
	ctx.Step(`^the total length should be (\d+)$`, i.theTotalLengthShouldBe)
	ctx.Step(`^the torrent should be private$`, i.theTorrentShouldBePrivate)
	ctx.Step(`^the torrent should not be private$`, i.theTorrentShouldNotBePrivate)
	ctx.Step(`^the torrent should list files:$`, i.theTorrentShouldListFiles)
	ctx.Step(`^the content at "([^"]*)" should verify$`, i.theContentShouldVerify)
	ctx.Step(`^piece (\d+) should fail verification$`, i.pieceShouldFailVerification)
	ctx.Step(`^the announce tiers should be "([^"]*)"$`, i.theAnnounceTiersShouldBe)
	ctx.Step(`^the nodes should be "([^"]*)"$`, i.theNodesShouldBe)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
