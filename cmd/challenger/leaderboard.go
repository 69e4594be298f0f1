package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/httpclient"
	"github.com/bezalel6/computer-chess/pkg/store"
)

func newLeaderboardCmd(a *app) *cobra.Command {
	var (
		server string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show players ranked by XP",
		Long: `Reads the standings from the local database, or from a running
server when --server is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				players []store.Player
				err     error
			)
			if server != "" {
				c := httpclient.NewAPIClient(server, httpclient.WithToken(a.cfg.Server.Token))
				players, err = c.Leaderboard(cmd.Context(), limit)
			} else {
				var st *store.Store
				st, err = store.Open(a.cfg.Database.File, store.WithLogger(a.logger))
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
				players, err = st.Leaderboard(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			writeLeaderboard(cmd.OutOrStdout(), players)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "base URL of a challenger server")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of players")
	return cmd
}

func writeLeaderboard(w io.Writer, players []store.Player) {
	if len(players) == 0 {
		fmt.Fprintln(w, "no players")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tRANK\tXP\tGAMES\tWINS\tBEST STREAK")
	for i, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			i+1, p.Name, p.Rank, p.XP, p.Games, p.Wins, p.LongestStreak)
	}
	_ = tw.Flush()
}
