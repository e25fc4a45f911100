package main

import (
	"fmt"

	"github.com/WendelHime/torrentmeta/internal/logic"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		name        string
		private     bool
		public      bool
		announce    string
		tiers       []string
		noAnnounce  bool
		removeNodes []string
		addNodes    []string
	)
	cmd := &cobra.Command{
		Use:   "edit <file.torrent>",
		Short: "Change the name, trackers, nodes or private flag of a torrent in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := logic.Edit{
				NoAnnounce:  noAnnounce,
				RemoveNodes: removeNodes,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				e.Name = &name
			}
			if private {
				e.Private = &private
			}
			if public {
				off := false
				e.Private = &off
			}
			if flags.Changed("announce") {
				e.Announce = &announce
			}
			if flags.Changed("tier") {
				e.AnnounceList = parseTiers(tiers)
			}
			for _, s := range addNodes {
				n, err := models.ParseNode(s)
				if err != nil {
					return err
				}
				e.AddNodes = append(e.AddNodes, n)
			}

			t, err := logic.NewEditor(a.logger).Edit(args[0], e)
			if err != nil {
				return err
			}
			hash, err := t.InfoHash()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", hash.Hex(), args[0])
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "new torrent name")
	flags.BoolVar(&private, "private", false, "mark the torrent private")
	flags.BoolVar(&public, "public", false, "remove the private flag")
	flags.StringVar(&announce, "announce", "", "tracker URL")
	flags.StringArrayVar(&tiers, "tier", nil, "comma separated tracker URLs forming one tier; repeat for more tiers")
	flags.BoolVar(&noAnnounce, "no-announce", false, "remove announce and announce-list before applying --announce/--tier")
	flags.StringArrayVar(&removeNodes, "remove-node", nil, "remove DHT nodes by host, or by host:port")
	flags.StringArrayVar(&addNodes, "add-node", nil, "add a DHT node host:port")
	cmd.MarkFlagsMutuallyExclusive("private", "public")
	return cmd
}
