// Command framefill fills a chain of linked text frames in a layout with one
// column of a CSV or XLSX file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/framefill/internal/config"
	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errReported marks errors whose user message was already printed.
var errReported = errors.New("reported")

// app holds state shared by all subcommands.
type app struct {
	cfg     *config.Config
	verbose bool

	// Flag values; applied over the environment only when set.
	layoutPath string
	frame      string
	column     int
	skipHeader bool
	sheet      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "framefill",
		Short: "Fill linked text frames from a spreadsheet column",
		Long: `framefill replaces the text of a frame chain with one column of a CSV or
XLSX file, one value per paragraph, and applies a fixed text format.

Settings come from the environment (and .env); flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.StringVar(&a.layoutPath, "layout", "", "layout file (LAYOUT_PATH)")
	pf.StringVar(&a.frame, "frame", "", "first frame of the chain (FRAME_NAME)")
	pf.IntVar(&a.column, "column", 0, "zero-based column index (CSV_COLUMN)")
	pf.BoolVar(&a.skipHeader, "skip-header", false, "skip the first row (CSV_SKIP_HEADER)")
	pf.StringVar(&a.sheet, "sheet", "", "workbook sheet for XLSX sources (CSV_SHEET)")

	root.AddCommand(
		newFillCmd(a),
		newPreviewCmd(a),
		newFramesCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup loads .env and the configuration, then applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	// Load keeps variables that are already set, unlike the server's Overload.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Layout.Path = a.layoutPath
	}
	if flags.Changed("frame") {
		cfg.Frame.Name = a.frame
	}
	if flags.Changed("column") {
		cfg.CSV.Column = a.column
	}
	if flags.Changed("skip-header") {
		cfg.CSV.SkipHeader = a.skipHeader
	}
	if flags.Changed("sheet") {
		cfg.CSV.Sheet = a.sheet
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	a.cfg = cfg
	return nil
}

func (a *app) loadLayout() (*document.Layout, error) {
	return document.LoadLayout(a.cfg.Layout.Path)
}

// report prints the user message for err and returns errReported so main
// exits non-zero without printing it twice. Errors without a specific
// message also print the underlying cause.
func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), core.FormatUserError(err))
	if !core.IsUserFacing(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Details: %v\n", err)
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
