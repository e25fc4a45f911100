package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/WendelHime/torrentmeta/internal/logic"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		pieceLength int64
		announce    string
		tiers       []string
		private     bool
		name        string
		output      string
		nodes       []string
		quiet       bool
	)
	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create a torrent from a file or a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := logic.CreateOptions{
				PieceLength:  a.cfg.PieceLength,
				Announce:     a.cfg.Announce,
				AnnounceList: a.cfg.AnnounceList,
				Private:      a.cfg.Private,
				Name:         name,
			}
			if cmd.Flags().Changed("piece-length") {
				opts.PieceLength = pieceLength
			}
			if cmd.Flags().Changed("announce") {
				opts.Announce = announce
			}
			if cmd.Flags().Changed("tier") {
				opts.AnnounceList = parseTiers(tiers)
			}
			if cmd.Flags().Changed("private") {
				opts.Private = private
			}
			for _, s := range nodes {
				n, err := models.ParseNode(s)
				if err != nil {
					return err
				}
				opts.Nodes = append(opts.Nodes, n)
			}

			var progress io.Writer = cmd.ErrOrStderr()
			if quiet {
				progress = nil
			}
			t, err := logic.NewCreator(a.logger, progress).Create(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			path, err := t.SaveFile(output)
			if err != nil {
				return err
			}
			hash, err := t.InfoHash()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", hash.Hex(), path)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&pieceLength, "piece-length", 0, "piece length in bytes (default from config, 262144)")
	flags.StringVar(&announce, "announce", "", "tracker URL")
	flags.StringArrayVar(&tiers, "tier", nil, "comma separated tracker URLs forming one tier; repeat for more tiers")
	flags.BoolVar(&private, "private", false, "mark the torrent private")
	flags.StringVar(&name, "name", "", "torrent name (default: base name of path)")
	flags.StringVarP(&output, "output", "o", "", "output file (default: <name>.torrent)")
	flags.StringArrayVar(&nodes, "node", nil, "DHT node host:port; repeatable")
	flags.BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func parseTiers(values []string) [][]string {
	tiers := make([][]string, 0, len(values))
	for _, v := range values {
		var tier []string
		for _, url := range strings.Split(v, ",") {
			if url = strings.TrimSpace(url); url != "" {
				tier = append(tier, url)
			}
		}
		if len(tier) > 0 {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}
