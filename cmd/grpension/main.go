package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/grpension/internal/config"
	"github.com/rgehrsitz/grpension/internal/extract"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/internal/output"
	"github.com/rgehrsitz/grpension/internal/pipeline"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command shares once settings are loaded.
type app struct {
	configPath string
	logLevel   string
	now        func() time.Time

	settings *config.Settings
	logger   logging.Logger
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.Log.Level = a.logLevel
	}
	a.settings = s
	a.logger = logging.Sugared(s.Log.Level, s.Log.Format)
	return nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Logger: a.logger,
		Now:    a.now,
		OCR:    extract.TesseractCLI{Path: a.settings.OCR.Binary, Languages: a.settings.OCR.Languages},
	})
}

// outputFormat prefers the --format flag over the configured default.
func (a *app) outputFormat(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String()
	}
	return a.settings.Output.Format
}

func (a *app) render(cmd *cobra.Command, r *output.Report) error {
	f, err := output.Lookup(a.outputFormat(cmd))
	if err != nil {
		return err
	}
	return emit(cmd, f, output.FileExtension(f), r)
}

// emit prints the formatted report, or with --save writes it to a
// timestamped file in the working directory and prints its name.
func emit(cmd *cobra.Command, f output.Formatter, ext string, r *output.Report) error {
	w := cmd.OutOrStdout()
	if save, _ := cmd.Flags().GetBool("save"); save {
		name, err := output.WriteFormatted(f, r, ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", name)
		return nil
	}
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "console", "Output format (console, plain, json, ndjson, csv, yaml)")
	cmd.Flags().Bool("save", false, "Write the report to pension_report_<timestamp>.<ext> instead of stdout")
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "grpension %s (commit %s, built %s)\n", version, commit, date)
			printBuildInfo(w)
		},
	}
}

func printBuildInfo(w io.Writer) {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		fmt.Fprintf(w, "go %s, module %s\n", bi.GoVersion, bi.Main.Path)
	}
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "grpension",
		Short: "Greek state pension estimator",
		Long: `Estimates the monthly Greek state pension (basic, national, social and
child benefits) from a handful of facts, typed in or read from insurance
statements in CSV, JSON, PDF, text or image form.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Settings file (default: grpension.yaml in ., ./configs or ~/.config/grpension)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(calculateCmd(a))
	root.AddCommand(validateCmd(a))
	root.AddCommand(extractCmd(a))
	root.AddCommand(privateCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(versionCmd())
	return root
}

var rootCmd = newRootCmd(&app{now: time.Now})

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
