package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"provider-reconciliation/internal/config"
	"provider-reconciliation/internal/export"
	"provider-reconciliation/internal/gateway"
	"provider-reconciliation/internal/parser"
	"provider-reconciliation/internal/usecase"
)

var version = "dev"

// CLI wraps the root cobra command.
type CLI struct {
	cmd *cobra.Command
}

type runOptions struct {
	configFile   string
	internalPath string
	providerPath string
	exportDir    string
	encoding     string
	logLevel     string
	quoteAware   bool
}

// NewCLI builds the command tree.
func NewCLI() *CLI {
	rootCmd := &cobra.Command{
		Use:           "reconciler",
		Short:         "Reconcile an internal transaction export against a provider statement",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(runCommand(), versionCommand())
	return &CLI{cmd: rootCmd}
}

// Execute runs the command selected by os.Args.
func (c *CLI) Execute() error {
	return c.cmd.Execute()
}

func runCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile two CSV files and print a JSON report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "./recon.json", "Configuration file")
	flags.StringVar(&opts.internalPath, "internal", "", "Path to the internal system export CSV file (required)")
	flags.StringVar(&opts.providerPath, "provider", "", "Path to the provider statement CSV file (required)")
	flags.StringVar(&opts.exportDir, "export-dir", "", "Directory to write matched/internal-only/provider-only CSV files")
	flags.StringVar(&opts.encoding, "encoding", "", "Input file encoding (utf-8, latin1, windows-1252)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level")
	flags.BoolVar(&opts.quoteAware, "quote-aware", false, "Parse quoted fields containing commas")
	_ = cmd.MarkFlagRequired("internal")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func run(cmd *cobra.Command, opts *runOptions) error {
	cnf, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Flags take precedence over file and environment settings.
	flags := cmd.Flags()
	if flags.Changed("encoding") {
		cnf.Encoding = opts.encoding
	}
	if flags.Changed("export-dir") {
		cnf.ExportDir = opts.exportDir
	}
	if flags.Changed("quote-aware") {
		cnf.QuoteAware = opts.quoteAware
	}
	if flags.Changed("log-level") {
		cnf.LogLevel = opts.logLevel
	}

	if err := config.SetupLogger(cnf.LogLevel); err != nil {
		return err
	}

	// --- Dependency Injection (Wiring the application) ---
	csvRepo, err := gateway.NewCSVTransactionRepository(
		parser.NewParser(parser.Options{QuoteAware: cnf.QuoteAware}),
		cnf.Encoding,
	)
	if err != nil {
		return err
	}
	reconciliationUseCase := usecase.NewReconciliationUseCase(csvRepo)

	// --- Execute the Usecase ---
	report, err := reconciliationUseCase.Reconcile(cmd.Context(), opts.internalPath, opts.providerPath)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if cnf.ExportDir != "" {
		written, err := export.Files(cnf.ExportDir, report.Outcome)
		if err != nil {
			return err
		}
		for _, path := range written {
			logrus.WithField("path", path).Info("export written")
		}
	}

	// --- Present the Output ---
	return writeJSON(cmd.OutOrStdout(), report)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	return nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
