package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/initflags/internal/initflags"
	"github.com/zjrosen/initflags/internal/presentation"
)

func newKnownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "known",
		Short: "List recognised init flag names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatKnown(initflags.Known(), opts.cfg.Output)
		},
	}
}
