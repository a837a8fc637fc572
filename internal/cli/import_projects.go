package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/entrypoint"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/logging"
)

// ErrRowsFailed is returned when -strict is set and at least one row failed.
var ErrRowsFailed = errors.New("some rows were not imported")

// ImportProjectsCommand runs a bulk import from local files.
type ImportProjectsCommand struct {
	SpreadsheetPath string
	ArchivePath     string
	ReportPath      string
	DatabasePath    string
	Strict          bool
	Verbose         bool

	// Stdout receives the human-readable summary.
	Stdout io.Writer
}

func NewImportProjectsCommand() *ImportProjectsCommand {
	return &ImportProjectsCommand{Stdout: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *ImportProjectsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.SpreadsheetPath, "file", "", "Path to the .xlsx or .csv spreadsheet (required)")
	fs.StringVar(&cmd.ArchivePath, "archive", "", "Path to a .zip archive with project images")
	fs.StringVar(&cmd.ReportPath, "out", "", "Write the JSON import report to this file (- for stdout)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Override the sqlite database path from configuration")
	fs.BoolVar(&cmd.Strict, "strict", false, "Exit with an error when any row fails")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every failed row")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file projects.xlsx [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import projects from a spreadsheet, with images from an optional zip archive.\n")
		fmt.Fprintf(os.Stderr, "Storage and database settings are read from the environment.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file projects.xlsx -archive images.zip\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file projects.csv -out report.json -strict\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.SpreadsheetPath == "" {
		fs.Usage()
		return errors.New("-file is required")
	}
	return nil
}

// Run executes the import command
func (cmd *ImportProjectsCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.DatabasePath != "" {
		cfg.Database.Driver = "sqlite"
		cfg.Database.Path = cmd.DatabasePath
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	comps, err := entrypoint.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	return cmd.run(ctx, comps.Pipeline, comps.Audit, comps.Metrics)
}

type batchRecorder interface {
	Batch(mode string, elapsed time.Duration)
}

type importAuditor interface {
	LogImport(rec audit.ImportRecord)
}

type projectImporter interface {
	Import(ctx context.Context, spreadsheet, archive []byte) (*importers.Report, error)
}

func (cmd *ImportProjectsCommand) run(ctx context.Context, pipeline projectImporter, auditor importAuditor, batches batchRecorder) error {
	out := cmd.Stdout
	if out == nil {
		out = os.Stdout
	}

	sheet, err := os.ReadFile(cmd.SpreadsheetPath)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	var archive []byte
	if cmd.ArchivePath != "" {
		if archive, err = os.ReadFile(cmd.ArchivePath); err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
	}

	start := time.Now()
	report, importErr := pipeline.Import(ctx, sheet, archive)
	if batches != nil {
		batches.Batch("cli", time.Since(start))
	}

	if auditor != nil {
		rec := audit.ImportRecord{
			Actor:  audit.ActorCLI,
			Mode:   "cli",
			Sheet:  filepath.Base(cmd.SpreadsheetPath),
			Report: report,
			Err:    importErr,
		}
		if cmd.ArchivePath != "" {
			rec.Archive = filepath.Base(cmd.ArchivePath)
		}
		auditor.LogImport(rec)
	}

	if importErr != nil {
		return importErr
	}

	fmt.Fprintf(out, "Imported %d of %d projects (%d failed) in %s\n",
		report.Imported, report.Total, report.Failed(), time.Since(start).Round(time.Millisecond))
	if cmd.Verbose {
		for _, e := range report.Errors {
			title := ""
			if e.Title != nil {
				title = fmt.Sprintf(" %q", *e.Title)
			}
			fmt.Fprintf(out, "  row %d%s: [%s] %s\n", e.Row, title, e.Kind, e.Error)
		}
	}

	if cmd.ReportPath != "" {
		if err := writeReport(cmd.ReportPath, out, report); err != nil {
			return err
		}
	}

	if cmd.Strict && report.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRowsFailed, report.Failed(), report.Total)
	}
	return nil
}

func writeReport(path string, stdout io.Writer, report *importers.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
