package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/importers"
)

type fakeImporter struct {
	report *importers.Report
	err    error
	sheet  []byte
	arch   []byte
}

func (f *fakeImporter) Import(_ context.Context, sheet, archive []byte) (*importers.Report, error) {
	f.sheet, f.arch = sheet, archive
	return f.report, f.err
}

type recordingAuditor struct{ records []audit.ImportRecord }

func (r *recordingAuditor) LogImport(rec audit.ImportRecord) { r.records = append(r.records, rec) }

type recordingBatches struct{ modes []string }

func (r *recordingBatches) Batch(mode string, _ time.Duration) { r.modes = append(r.modes, mode) }

func partialReport() *importers.Report {
	report := importers.NewReport()
	report.Add(importers.RowOutcome{Row: 1, State: importers.RowSucceeded, Item: &importers.ReportItem{ID: 1, Title: "Palm Grove"}})
	report.Add(importers.RowOutcome{Row: 2, State: importers.RowRejected, Title: "Lake View",
		Err: &importers.RowValidationError{Row: 2, Missing: []string{"city"}}})
	return report
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportProjectsCommand_ParseFlags(t *testing.T) {
	cmd := NewImportProjectsCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", "p.xlsx", "-archive", "a.zip", "-out", "-", "-strict"}))

	assert.Equal(t, "p.xlsx", cmd.SpreadsheetPath)
	assert.Equal(t, "a.zip", cmd.ArchivePath)
	assert.Equal(t, "-", cmd.ReportPath)
	assert.True(t, cmd.Strict)

	assert.Error(t, NewImportProjectsCommand().ParseFlags(nil))
}

func TestImportProjectsCommand_Run(t *testing.T) {
	dir := t.TempDir()
	sheetPath := writeFile(t, dir, "projects.csv", "title,city\n")
	archivePath := writeFile(t, dir, "images.zip", "zip")
	reportPath := filepath.Join(dir, "report.json")

	var stdout bytes.Buffer
	cmd := &ImportProjectsCommand{
		SpreadsheetPath: sheetPath,
		ArchivePath:     archivePath,
		ReportPath:      reportPath,
		Verbose:         true,
		Stdout:          &stdout,
	}
	importer := &fakeImporter{report: partialReport()}
	auditor := &recordingAuditor{}
	batches := &recordingBatches{}

	require.NoError(t, cmd.run(context.Background(), importer, auditor, batches))

	assert.Equal(t, "title,city\n", string(importer.sheet))
	assert.Equal(t, "zip", string(importer.arch))
	assert.Equal(t, []string{"cli"}, batches.modes)
	assert.Contains(t, stdout.String(), "Imported 1 of 2 projects (1 failed)")
	assert.Contains(t, stdout.String(), `row 2 "Lake View": [validation] missing required field: city`)

	require.Len(t, auditor.records, 1)
	assert.Equal(t, audit.ActorCLI, auditor.records[0].Actor)
	assert.Equal(t, "projects.csv", auditor.records[0].Sheet)
	assert.Equal(t, "images.zip", auditor.records[0].Archive)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var written importers.Report
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, 2, written.Total)
	assert.Equal(t, 1, written.Imported)
}

func TestImportProjectsCommand_Strict(t *testing.T) {
	dir := t.TempDir()
	cmd := &ImportProjectsCommand{
		SpreadsheetPath: writeFile(t, dir, "projects.csv", "title,city\n"),
		Strict:          true,
		Stdout:          &bytes.Buffer{},
	}

	err := cmd.run(context.Background(), &fakeImporter{report: partialReport()}, nil, nil)

	assert.ErrorIs(t, err, ErrRowsFailed)
}

func TestImportProjectsCommand_UnreadableSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	cmd := &ImportProjectsCommand{
		SpreadsheetPath: writeFile(t, dir, "projects.xls", "junk"),
		Stdout:          &bytes.Buffer{},
	}
	auditor := &recordingAuditor{}
	importErr := errors.Join(importers.ErrUnreadableSpreadsheet, errors.New("legacy format"))

	err := cmd.run(context.Background(), &fakeImporter{err: importErr}, auditor, nil)

	assert.ErrorIs(t, err, importers.ErrUnreadableSpreadsheet)
	require.Len(t, auditor.records, 1)
	assert.Error(t, auditor.records[0].Err)
}

func TestImportProjectsCommand_ReportToStdout(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	cmd := &ImportProjectsCommand{
		SpreadsheetPath: writeFile(t, dir, "projects.csv", "title,city\n"),
		ReportPath:      "-",
		Stdout:          &stdout,
	}

	require.NoError(t, cmd.run(context.Background(), &fakeImporter{report: partialReport()}, nil, nil))

	assert.Contains(t, stdout.String(), `"imported": 1`)
}

func TestImportProjectsCommand_MissingFile(t *testing.T) {
	cmd := &ImportProjectsCommand{SpreadsheetPath: filepath.Join(t.TempDir(), "missing.csv"), Stdout: &bytes.Buffer{}}

	err := cmd.run(context.Background(), &fakeImporter{}, nil, nil)

	assert.ErrorContains(t, err, "failed to read spreadsheet")
}

func TestHashTokenCommand(t *testing.T) {
	t.Run("hashes a token from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &HashTokenCommand{Stdin: bytes.NewBufferString("a-very-long-admin-token\n"), Stdout: &out, Cost: 4}

		require.NoError(t, cmd.Run())

		hash := bytes.TrimSpace(out.Bytes())
		assert.True(t, bytes.HasPrefix(hash, []byte("$2a$")))
	})

	t.Run("rejects short tokens", func(t *testing.T) {
		cmd := &HashTokenCommand{Token: "short", Stdout: &bytes.Buffer{}}
		assert.Error(t, cmd.Run())
	})
}
