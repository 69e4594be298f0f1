package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bezalel6/computer-chess/pkg/bank"
	"github.com/bezalel6/computer-chess/pkg/challenge"
)

func newCatalogueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "List the challenge catalogue with configured overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.catalogue()
			if err != nil {
				return err
			}
			writeCatalogue(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>...",
		Short: "Check catalogue override files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				errs := bank.ValidateFile(path)
				if len(errs) == 0 {
					fmt.Fprintf(out, "%s: ok\n", path)
					continue
				}
				invalid++
				for _, e := range errs {
					fmt.Fprintf(out, "%s: %s\n", path, e.Error())
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d catalogue files are invalid", invalid, len(args))
			}
			return nil
		},
	})
	return cmd
}

func writeCatalogue(w io.Writer, b *bank.Bank) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tREWARD\tWINDOW\tENABLED\tDESCRIPTION")
	for _, def := range b.All() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%s\n",
			def.Type, challenge.BaseReward(def.Type), def.Window, !def.Disabled, def.Description)
	}
	_ = tw.Flush()
}
