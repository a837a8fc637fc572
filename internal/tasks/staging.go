package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/utils"
)

// Stager keeps uploaded files on disk until the import worker reads them.
type Stager struct {
	dir string
}

func NewStager(dir string) *Stager {
	return &Stager{dir: dir}
}

// Stage writes data to <dir>/<jobID>/<field>-<name> and returns the file
// path. Only the base name of the upload is kept; the field prefix keeps the
// spreadsheet and the archive apart when their names collide.
func (s *Stager) Stage(jobID, field, name string, data []byte) (string, error) {
	base := utils.SanitizeFilename(field, "file") + "-" + utils.SanitizeFilename(name, "upload")

	dir := filepath.Join(s.dir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("stage %s: %w", base, err)
	}
	return path, nil
}

// Remove deletes every staged file belonging to the job.
func (s *Stager) Remove(job *entities.ImportJob) error {
	var errs []error
	for _, path := range []string{job.SpreadsheetPath, job.ArchivePath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	// the job directory is only removed once empty
	_ = os.Remove(filepath.Join(s.dir, job.ID))
	return errors.Join(errs...)
}
