package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Dump(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to dump configuration: %w", err)
			}
			return nil
		},
	}
}
