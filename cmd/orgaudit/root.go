package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/orgaudit/pkg/configuration"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	envFiles []string
	logLevel string

	cfg    *configuration.Configuration
	logger *logrus.Logger
}

func (a *app) init() error {
	cfg, err := configuration.Load(a.envFiles)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("load configuration: %w", err))
	}
	if raw := strings.TrimSpace(a.logLevel); raw != "" {
		level, err := configuration.ParseLogLevel(raw)
		if err != nil {
			cfg.Unload()
			return withCode(exitUsage, fmt.Errorf("invalid --log-level: %w", err))
		}
		cfg.LogLevel = raw
		cfg.Logger().SetLevel(level)
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	return nil
}

func (a *app) close() {
	if a.cfg != nil {
		a.cfg.Unload()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "orgaudit",
		Short:         "Audit reporting lines and manager salaries from an employee file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", configuration.DefaultEnvFiles, "Env files to load when present")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (silent|error|warn|info|debug), overrides LOG_LEVEL")

	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newStructureCmd(a))
	cmd.AddCommand(newSalaryCmd(a))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
