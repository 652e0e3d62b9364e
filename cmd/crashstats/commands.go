package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nao1215/crashstats"
	"github.com/nao1215/crashstats/cmd/crashstats/ui"
	"github.com/nao1215/crashstats/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// viewNames is the usage text listing the view arguments.
func viewNames() string {
	names := make([]string, 0, len(crashstats.ViewKinds()))
	for _, k := range crashstats.ViewKinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, "|")
}

// chartWidth is the width of charts printed by show.
const chartWidth = 60

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
}

// runDashboard loads the dataset and runs the bubbletea program until the user quits.
func (a *app) runDashboard(ctx context.Context) error {
	table, err := a.loadTable(ctx)
	if err != nil {
		return err
	}

	model := ui.NewDashboardModel(table, a.cfg.Years(), a.cfg.Categories,
		ui.WithStyles(ui.DefaultStyles()),
		ui.WithLogger(a.logger),
	)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func newShowCmd(a *app) *cobra.Command {
	var (
		year     int
		category string
	)
	cmd := &cobra.Command{
		Use:   "show <" + viewNames() + ">",
		Short: "Print one view as a table, with its chart when it has one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := crashstats.ParseViewKind(args[0])
			if err != nil {
				return err
			}
			table, err := a.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			view, chart, err := crashstats.NewExplorer(table).Render(kind, a.selection(year, category))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.stdout, ui.RenderView(view, chart, chartWidth, a.styles))
			return err
		},
	}
	addSelectionFlags(cmd, &year, &category)
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		year        int
		category    string
		out         string
		format      string
		compression string
	)
	cmd := &cobra.Command{
		Use:   "export <" + viewNames() + ">",
		Short: "Write one view to a CSV, TSV, LTSV or XLSX file",
		Long: `Write one view to a file. Without --out the view is written to standard output.
The format and compression extensions are appended to --out when missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := crashstats.ParseViewKind(args[0])
			if err != nil {
				return err
			}
			outputFormat, err := crashstats.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			compressionType, err := crashstats.ParseCompressionType(compression)
			if err != nil {
				return err
			}
			opts := crashstats.NewExportOptions().
				WithFormat(outputFormat).
				WithCompression(compressionType)

			table, err := a.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			view, _, err := crashstats.NewExplorer(table).Render(kind, a.selection(year, category))
			if err != nil {
				return err
			}

			if out == "" {
				return crashstats.WriteView(a.stdout, view, opts)
			}
			written, err := crashstats.SaveView(out, view, opts)
			if err != nil {
				return err
			}
			a.logger.Info("view exported", zap.String("path", written), zap.Int("rows", view.Len()))
			_, err = fmt.Fprintln(a.stdout, written)
			return err
		},
	}
	addSelectionFlags(cmd, &year, &category)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, tsv, ltsv or xlsx")
	cmd.Flags().StringVar(&compression, "compression", "", "gz, xz or zst")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL against the dataset loaded into table " + store.TableName,
		Long: `Run SQL against an in-memory SQLite copy of the dataset. Every file column is
available, plus ` + store.ColumnYear + `, ` + store.ColumnHour + ` and ` + store.ColumnSpeedZone + `.`,
		Example: `  crashstats query "SELECT speed_zone_kmh, COUNT(*) FROM accidents WHERE accident_year = 2015 GROUP BY 1"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			table, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			s, err := store.Open(ctx, table, store.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()

			view, err := s.Query(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.stdout, ui.NewSimpleTable(view).View(a.styles))
			return err
		},
	}
}

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years present in the dataset with their accident counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.loadTable(cmd.Context())
			if err != nil {
				return err
			}
			view := &crashstats.View{
				Title:   "Accidents per Year",
				Columns: []string{"Year", crashstats.HeadingAccidents},
			}
			for _, yc := range table.Years() {
				view.Rows = append(view.Rows, []string{fmt.Sprint(yc.Year), fmt.Sprint(yc.Count)})
			}
			_, err = fmt.Fprint(a.stdout, ui.NewSimpleTable(view).View(a.styles))
			return err
		},
	}
}
