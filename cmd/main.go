package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/podem-atpg/pkg/config"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

// Shared by all subcommands, set up before any of them runs
var (
	cfg    *config.Config
	logger *utils.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atpg",
		Short: "Stuck-at test pattern generation",
		Long: `A path-oriented test generator for single stuck-at faults in
combinational and sequential gate-level circuits.

        $ atpg run --circuit c17.bench --all --output tests.txt
        `,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.String("log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-file", "", "log file (default: stderr)")
	flags.Bool("debug", false, "enable debug logging")
	if err := flags.MarkHidden("debug"); err != nil {
		log.Panic(err.Error())
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newUnrollCmd())
	return rootCmd
}

// setup loads the configuration and builds the logger. Flags win over the
// configuration file and the environment.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	var err error
	if cfg, err = config.Load(path); err != nil {
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.Log.File = file
	}
	level, err := utils.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = log.DebugLevel
	}

	if cfg.Log.File != "" {
		logger, err = utils.NewFileLogger(level, cfg.Log.File)
		if err != nil {
			return err
		}
	} else {
		logger = utils.NewLogger(level)
	}
	utils.SetDefaultLogLevel(level)
	return nil
}

// reportError logs a failed command through the configured logger, or the
// default one when setup did not get that far
func reportError(err error) {
	l := logger
	if l == nil {
		l = utils.DefaultLogger
	}
	l.Error("%v", err)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}
