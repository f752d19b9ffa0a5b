package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/initflags/internal/initflags"
	"github.com/zjrosen/initflags/internal/presentation"
)

func newTagCmd(opts *options) *cobra.Command {
	var tokens []string

	cmd := &cobra.Command{
		Use:   "tag TAG...",
		Short: "Show whether debug logging is enabled for tags",
		Long: `Show whether debug logging is enabled for each tag, and which rule decided it.

Resolution order:
  1. tag listed in logging_debug_disabled_for_tags  -> off (disabled)
  2. tag listed in logging_debug_enabled_for_tags   -> on  (enabled)
  3. otherwise logging_debug_enabled_for_all         -> on/off (all)

Tags match exactly and case-sensitively.

Examples:
  # Using tokens from the config file
  initflags tag flags config

  # With extra tokens (repeatable, values may contain commas)
  initflags tag foo bar -f logging_debug_enabled_for_tags=foo,hello -f logging_debug_disabled_for_tags=foo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.loadTokens(cmd, tokens); err != nil {
				return err
			}
			results := presentation.ResolveTags(initflags.Default(), args)
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatTags(results, opts.cfg.Output)
		},
	}

	cmd.Flags().StringArrayVarP(&tokens, "flag", "f", nil,
		"init flag token NAME=VALUE, applied after config tokens (repeatable)")
	return cmd
}
