package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tickstate/pkg/logger"
)

// app carries what the persistent pre-run resolved for subcommands.
type app struct {
	cfg    Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "tickstate",
		Short:         "tickstate drives state machine scenarios on a tick loop",
		Long:          `tickstate loads state machines described in YAML, runs them on a fixed-rate loop and exposes their state over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			envFiles, _ := flags.GetStringSlice("env-file")
			cfg, err := loadConfig(envFiles)
			if err != nil {
				return err
			}

			if flags.Changed("env") {
				cfg.Env, _ = flags.GetString("env")
			}
			if flags.Changed("log-level") {
				cfg.LogLevel, _ = flags.GetString("log-level")
			}
			if flags.Changed("log-format") {
				cfg.LogFormat, _ = flags.GetString("log-format")
			}

			env, err := logger.ParseEnvironment(cfg.Env)
			if err != nil {
				return err
			}
			format, err := logger.ParseFormat(cfg.LogFormat)
			if err != nil {
				return err
			}

			opts := []logger.Option{
				logger.WithEnvironment(env, "tickstate"),
				logger.WithFormat(format),
				logger.WithOutput(cmd.ErrOrStderr()),
			}
			if cfg.LogLevel != "" {
				level, err := logger.ParseLevel(cfg.LogLevel)
				if err != nil {
					return err
				}
				opts = append(opts, logger.WithLevel(level))
			}

			a.cfg = cfg
			a.logger = logger.New(opts...)
			return nil
		},
	}

	cmd.PersistentFlags().StringSlice("env-file", nil, "read environment variables from these files before loading config")
	cmd.PersistentFlags().String("env", "", "environment: development, staging or production (env TICKSTATE_ENV)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (env TICKSTATE_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-format", "", "log format: text or json (env TICKSTATE_LOG_FORMAT)")

	cmd.AddCommand(
		newRunCmd(a),
		newValidateCmd(),
		newVersionCmd(),
	)
	return cmd
}
