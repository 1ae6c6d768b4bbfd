// Package cli implements the struct-mapper command with cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"struct-mapper/internal/config"
	"struct-mapper/internal/sample"
	"struct-mapper/mapper"
	"struct-mapper/rules"
)

// app is the state shared by the commands, filled before any of them runs.
type app struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "struct-mapper",
		Short: "Inspect and run the object mapping rules of the sample shop catalogue",
		Long: `struct-mapper resolves the rules mapping the shop order graph into the
warehouse model, prints the resolved plans and maps a sample graph.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the YAML config file")

	rootCmd.AddCommand(newPlanCmd(a), newDemoCmd(a))

	return rootCmd
}

// Execute runs the root command with a background context.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.NewLoader().Load(a.configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded", "config", cfg.String())

	a.cfg, a.logger = cfg, logger

	return nil
}

// mapper builds the sample rules, extended by the configured overlay.
func (a *app) mapper(opts ...mapper.Option) (*mapper.Mapper, error) {
	set := sample.Rules()

	if a.cfg.Rules != "" {
		overlay, err := rules.LoadOverlay(a.cfg.Rules)
		if err != nil {
			return nil, err
		}

		if err := overlay.Apply(set, sample.Registry()); err != nil {
			return nil, fmt.Errorf("apply overlay %s: %w", a.cfg.Rules, err)
		}

		a.logger.Info("rule overlay applied", "path", a.cfg.Rules, "mappings", len(overlay.Mappings))
	}

	opts = append([]mapper.Option{
		mapper.WithLogger(a.logger),
		mapper.WithDefaultMaxDepth(a.cfg.MaxDepth),
	}, opts...)

	return mapper.New(set, opts...)
}
