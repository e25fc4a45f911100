package main

import (
	"fmt"
	"io"

	"github.com/WendelHime/torrentmeta/internal/logic"
	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "verify <file.torrent> <content>",
		Short: "Check content on disk against the piece hashes of a torrent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := torrent.Load(args[0])
			if err != nil {
				return err
			}
			var progress io.Writer = cmd.ErrOrStderr()
			if quiet {
				progress = nil
			}
			report, err := logic.NewVerifier(a.logger, progress).Verify(cmd.Context(), t, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !report.OK() {
				fmt.Fprintf(out, "bad pieces: %v\n", report.Bad)
				return errors.Errorf("%d of %d pieces failed", len(report.Bad), report.Pieces)
			}
			fmt.Fprintf(out, "ok: %d pieces\n", report.Pieces)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}
