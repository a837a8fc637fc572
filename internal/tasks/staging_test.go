package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/portfolio/internal/entities"
)

func TestStager_StageAndRemove(t *testing.T) {
	dir := t.TempDir()
	stager := NewStager(dir)

	sheet, err := stager.Stage("job-1", "sheet", "projects.xlsx", []byte("sheet"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job-1", "sheet-projects.xlsx"), sheet)

	archive, err := stager.Stage("job-1", "archive", "media.zip", []byte("zip"))
	require.NoError(t, err)

	data, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(data))

	job := &entities.ImportJob{ID: "job-1", SpreadsheetPath: sheet, ArchivePath: archive}
	require.NoError(t, stager.Remove(job))

	_, err = os.Stat(filepath.Join(dir, "job-1"))
	assert.True(t, os.IsNotExist(err))

	// removing twice is harmless
	assert.NoError(t, stager.Remove(job))
}

func TestStager_KeepsOnlyBaseName(t *testing.T) {
	dir := t.TempDir()
	stager := NewStager(dir)

	path, err := stager.Stage("job-2", "sheet", "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job-2", "sheet-passwd"), path)

	path, err = stager.Stage("job-2", "sheet", `C:\Users\me\sheet.csv`, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job-2", "sheet-sheet.csv"), path)

	path, err = stager.Stage("job-2", "sheet", "", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job-2", "sheet-upload"), path)
}

func TestStager_SameNameForBothFields(t *testing.T) {
	dir := t.TempDir()
	stager := NewStager(dir)

	sheet, err := stager.Stage("job-3", "sheet", "", []byte("title,city\n"))
	require.NoError(t, err)
	archive, err := stager.Stage("job-3", "archive", "", []byte("PK"))
	require.NoError(t, err)
	assert.NotEqual(t, sheet, archive)

	data, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, "title,city\n", string(data))
	data, err = os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data))
}
