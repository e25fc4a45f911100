package main

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/WendelHime/torrentmeta/internal/fsys"
	"github.com/WendelHime/torrentmeta/internal/metainfo"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var keys bool
	cmd := &cobra.Command{
		Use:   "inspect <file.torrent>",
		Short: "Print the contents of a torrent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readShared(args[0])
			if err != nil {
				return err
			}
			meta, err := metainfo.NewDecoder(a.logger).Decode(bytes.NewReader(data))
			if err != nil {
				return err
			}
			t, err := torrent.Open(bytes.NewReader(data))
			if err != nil {
				return err
			}
			nodes, err := t.Nodes()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if keys {
				fmt.Fprintln(out, strings.Join(t.Root().Keys(), "\n"))
				return nil
			}
			printMetafile(out, meta, nodes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keys, "keys", false, "list the top-level keys in file order")
	return cmd
}

func readShared(p string) ([]byte, error) {
	f, err := fsys.OpenShared(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func printMetafile(out io.Writer, meta models.Metafile, nodes []models.Node) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "name:\t%s\n", meta.Info.Name)
	fmt.Fprintf(w, "info hash:\t%s\n", meta.InfoHash.Hex())
	fmt.Fprintf(w, "size:\t%d\n", meta.Info.TotalLength())
	fmt.Fprintf(w, "piece length:\t%d\n", meta.Info.PieceLength)
	fmt.Fprintf(w, "pieces:\t%d\n", len(meta.Info.PiecesHashes))
	fmt.Fprintf(w, "private:\t%t\n", meta.Private == 1)
	if meta.CreationDate != 0 {
		fmt.Fprintf(w, "created:\t%s\n", time.Unix(meta.CreationDate, 0).UTC().Format(time.RFC3339))
	}
	if meta.Announce != "" {
		fmt.Fprintf(w, "announce:\t%s\n", meta.Announce)
	}
	for i, tier := range meta.AnnounceList {
		fmt.Fprintf(w, "tier %d:\t%s\n", i, strings.Join(tier, " "))
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "node:\t%s\n", n)
	}
	for _, f := range meta.Info.Files {
		fmt.Fprintf(w, "file:\t%s\t%d\n", path.Join(f.Path...), f.Length)
	}
	w.Flush()
}
