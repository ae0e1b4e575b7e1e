package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ppiankov/biaslab/internal/model"
	"github.com/ppiankov/biaslab/internal/source"
)

// Flags shared by validate and analyze
var (
	inputDir   string
	pattern    string
	outputDir  string
	xlsxPath   string
	sqlitePath string
	plots      bool
	stripHTML  bool
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "directory containing response files (default from config: results)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob for response files (default from config: Run*_*_responses.json)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for CSV reports (default from config: analysis)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write all tables to this Excel workbook")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "also write all tables to this SQLite database")
	cmd.Flags().BoolVar(&plots, "plots", false, "also render PNG bar charts into the output directory")
	cmd.Flags().BoolVar(&stripHTML, "strip-html", false, "reduce HTML responses to their visible text")
}

// applyInputFlags overrides cfg with the flags the user actually set
func applyInputFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.Input.Dir = inputDir
	}
	if flags.Changed("pattern") {
		cfg.Input.Pattern = pattern
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("xlsx") {
		cfg.Output.XLSX = xlsxPath
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = sqlitePath
	}
	if flags.Changed("plots") {
		cfg.Output.Plots = plots
	}
	if flags.Changed("strip-html") {
		cfg.Input.StripHTML = stripHTML
	}
}

// newSource builds the response loader, echoing each file as it is read
func newSource(cfg *model.Config) *source.GlobSource {
	src := source.NewGlobSource(cfg.Input.Dir, cfg.Input.Pattern)
	src.StripHTML = cfg.Input.StripHTML
	src.OnFile = func(path string) {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", path)
	}
	return src
}

// interruptContext is cancelled on Ctrl-C
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
