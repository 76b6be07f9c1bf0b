package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var config Config

var rootCmd = &cobra.Command{
	Use:   "dgrid [file|dsn]",
	Short: "dgrid is a spreadsheet-style grid for tables",
	Long: `dgrid shows a database table, a JSON document or an Excel sheet in a
scrollable grid with cell selection, in-place editing and copy to clipboard.

Examples:
  dgrid people.json
  dgrid app.db --table users
  dgrid postgres://localhost/app -c "select * from users where admin"
  dgrid report.xlsx --sheet Q3 --dump`,
	Args:          cobra.ExactArgs(1),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGrid,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&config.Type, "type", "t", "", "Source type: sqlite, postgres, mysql, json or xlsx")
	f.StringVarP(&config.Command, "command", "c", "", "SQL query to show")
	f.StringVar(&config.Table, "table", "", "Database table to show")
	f.StringVar(&config.Sheet, "sheet", "", "Excel sheet to show")
	f.IntVar(&config.Limit, "limit", 0, "Rows to load from a database table, 0 for all")
	f.StringVar(&config.Mode, "mode", "", "Selection mode: cell, row or column")
	f.StringVar(&config.Headers, "headers", "", "Headers to show: all, row, column or none")
	f.BoolVar(&config.StretchLastRow, "stretch-last-row", false, "Stretch the last row to fill the view")
	f.BoolVar(&config.StretchLastColumn, "stretch-last-column", false, "Stretch the last column to fill the view")
	f.BoolVar(&config.ReadOnly, "read-only", false, "Disable editing")
	f.BoolVar(&config.Watch, "watch", false, "Reload file sources when they change on disk")
	f.BoolVar(&config.Dump, "dump", false, "Print the table and exit")
	f.StringVar(&config.SentryDSN, "sentry-dsn", "", "Sentry DSN for error reports")
}

func runGrid(cmd *cobra.Command, args []string) error {
	config.Source = args[0]

	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	dsn := config.SentryDSN
	if dsn == "" && settings.TelemetryEnabled {
		dsn = settings.SentryDSN
	}
	if err := InitSentry(dsn); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	InitBreadcrumbs(100)
	defer FlushAndShutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	source, err := OpenSource(ctx, &config)
	if err != nil {
		CaptureError(err)
		return err
	}
	defer source.Close()
	tagSource(source, config.ReadOnly)

	if config.Dump || !interactive() {
		headers, err := parseHeaderVisibility(orDefault(config.Headers, "all"))
		if err != nil {
			return err
		}
		return dumpSource(cmd.OutOrStdout(), source, headers)
	}

	a, err := newApp(ctx, &config, settings, source)
	if err != nil {
		return err
	}

	if config.Watch {
		if source.Path == "" {
			return fmt.Errorf("--watch needs a json or xlsx file")
		}
		w, err := NewFileWatcher(source.Path,
			func() { a.app.QueueUpdateDraw(a.reloadFromDisk) },
			func(err error) { a.app.QueueUpdateDraw(func() { a.SetStatusErrorWithSentry(err) }) })
		if err != nil {
			return err
		}
		defer w.Close()
	}

	settings.AddRecent(config.Source)
	if err := SaveSettings(settings); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()
	return a.run()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
