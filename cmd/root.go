package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/initflags/internal/config"
	"github.com/zjrosen/initflags/internal/initflags"
	"github.com/zjrosen/initflags/internal/log"
	"github.com/zjrosen/initflags/internal/presentation"
)

var version = "dev"

// options holds the state shared by the root command and its subcommands.
type options struct {
	cfgFile    string
	cfg        config.Config
	configPath string
	save       bool
	cleanup    func()
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "initflags [TOKEN...]",
		Short: "Parse init flag tokens and show the resulting settings",
		Long: `Parse NAME=VALUE init flag tokens and show the resulting settings.

Tokens come from the init_flags list in the config file followed by the
command line arguments; a later token for the same name wins. Names may carry
the INIT_ prefix. Only the exact value "true" enables a boolean flag, and
malformed or unknown tokens are ignored.

gd_core=true also enables gd_controller and gd_hci; gd_controller=true also
enables gd_hci.

Examples:
  # Show the default state
  initflags

  # Enable the core stack
  initflags INIT_gd_core=true

  # Debug logging tags; disabled tags always win
  initflags logging_debug_enabled_for_tags=foo,hello logging_debug_disabled_for_tags=foo

  # Machine readable output
  initflags -o json gd_hci=true | jq '.flags'

  # Persist the effective tokens into the config file
  initflags --save gatt_robust_caching=true`,
		Args:         cobra.ArbitraryArgs,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.cleanup != nil {
				opts.cleanup()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default: .initflags/config.yaml or ~/.config/initflags/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.OutputText,
		"output format: text, yaml or json")
	rootCmd.PersistentFlags().String("log-file", "",
		"write log entries to this file")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write log entries to stderr (or --log-file); debug entries follow the logging_debug_* init flags")
	rootCmd.Flags().BoolVar(&opts.save, "save", false,
		"save the effective tokens as init_flags in the config file")

	// Bind flags to viper
	_ = v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = v.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(newTagCmd(opts))
	rootCmd.AddCommand(newKnownCmd(opts))
	rootCmd.AddCommand(newInitConfigCmd())

	return rootCmd
}

func (o *options) initConfig(v *viper.Viper) error {
	cfg, used, err := config.Load(v, o.cfgFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg
	o.configPath = used
	if o.configPath == "" {
		o.configPath = config.DefaultConfigPath
	}
	return nil
}

// setupLogging routes log entries to the log file or stderr.
func (o *options) setupLogging(cmd *cobra.Command) error {
	switch {
	case o.cfg.LogFile != "":
		cleanup, err := log.Init(o.cfg.LogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		o.cleanup = cleanup
	case o.cfg.Debug:
		log.SetOutput(cmd.ErrOrStderr())
	}
	return nil
}

// loadTokens loads config tokens followed by extra into the process-wide store.
// Debug entries written while parsing are unfiltered; afterwards the
// logging_debug_* flags decide which categories get debug output.
func (o *options) loadTokens(cmd *cobra.Command, extra []string) ([]string, error) {
	if err := o.setupLogging(cmd); err != nil {
		return nil, err
	}
	tokens := config.Tokens(o.cfg, extra)
	initflags.Load(tokens)
	log.SetDebugFilter(initflags.IsDebugLoggingEnabledForTag)
	log.Debug(log.CatCmd, "Loaded tokens", "command", cmd.Name(), "config", o.configPath, "tokens", len(tokens))
	return tokens, nil
}

func runRoot(cmd *cobra.Command, opts *options, args []string) error {
	tokens, err := opts.loadTokens(cmd, args)
	if err != nil {
		return err
	}

	if opts.save {
		if err := config.SaveInitFlags(opts.configPath, tokens); err != nil {
			return fmt.Errorf("saving init flags: %w", err)
		}
		log.Info(log.CatCmd, "Saved init flags", "path", opts.configPath)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	return formatter.FormatSnapshot(initflags.Current(), opts.cfg.Output)
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
