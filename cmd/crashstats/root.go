package main

import (
	"context"
	"fmt"
	"io"

	"github.com/nao1215/crashstats"
	"github.com/nao1215/crashstats/cmd/crashstats/ui"
	"github.com/nao1215/crashstats/internal/config"
	"github.com/nao1215/crashstats/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand.
type app struct {
	// flags
	configPath string
	dataPath   string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	styles ui.Styles
}

// newRootCmd builds the command tree. Without a subcommand the dashboard starts.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		logger: zap.NewNop(),
		stdout: stdout,
		stderr: stderr,
		styles: ui.PlainStyles(),
	}

	root := &cobra.Command{
		Use:   "crashstats",
		Short: "Explore the Crash Statistics Victoria dataset",
		Long: `crashstats filters the accident dataset by year and accident type and
shows accidents per hour, alcohol involvement and accidents per speed zone.

Run without a subcommand to start the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.dataPath, "data", "", "dataset file (overrides data_path)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newDashboardCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newQueryCmd(a),
		newYearsCmd(a),
	)
	return root
}

// interactive reports whether cmd runs the dashboard.
func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "dashboard"
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.DataPath = a.dataPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log, logging.Options{
		Verbose:  a.verbose,
		FileOnly: interactive(cmd),
		Output:   a.stderr,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// loadTable reads the configured dataset. Failures are reported as loadError.
func (a *app) loadTable(ctx context.Context) (*crashstats.Table, error) {
	table, err := crashstats.NewLoader().
		FromPath(a.cfg.DataPath).
		WithLogger(a.logger).
		Load(ctx)
	if err != nil {
		return nil, &loadError{err: err}
	}
	return table, nil
}

// selection resolves the --year and --category flags against the configuration.
func (a *app) selection(year int, category string) crashstats.Selection {
	if year == 0 {
		year = a.cfg.YearMin
	}
	if category == "" {
		category = a.cfg.Categories[0]
	}
	return crashstats.Selection{Year: year, Category: category}
}

// addSelectionFlags registers --year and --category.
func addSelectionFlags(cmd *cobra.Command, year *int, category *string) {
	cmd.Flags().IntVarP(year, "year", "y", 0, "year to filter on (default year_min)")
	cmd.Flags().StringVarP(category, "category", "c", "", "accident type substring (default first category)")
}
