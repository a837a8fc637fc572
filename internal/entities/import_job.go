package entities

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportJobQueued    ImportJobStatus = "queued"
	ImportJobRunning   ImportJobStatus = "running"
	ImportJobSucceeded ImportJobStatus = "succeeded"
	ImportJobFailed    ImportJobStatus = "failed"
)

// ImportJob tracks an asynchronous bulk import. The uploaded files are staged
// on disk until the worker picks the job up; the finished report is stored
// verbatim.
type ImportJob struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	Status          ImportJobStatus `gorm:"index;size:20" json:"status"`
	SpreadsheetName string          `gorm:"size:255" json:"spreadsheet_name"`
	SpreadsheetPath string          `gorm:"size:1024" json:"-"`
	ArchiveName     string          `gorm:"size:255" json:"archive_name,omitempty"`
	ArchivePath     string          `gorm:"size:1024" json:"-"`
	Requester       string          `gorm:"size:100" json:"requester,omitempty"`
	IPAddress       string          `gorm:"size:45" json:"-"`

	Total    int            `json:"total"`
	Imported int            `json:"imported"`
	Failed   int            `json:"failed"`
	Report   datatypes.JSON `json:"report,omitempty"`
	ErrorMsg string         `gorm:"size:1000" json:"error,omitempty"`

	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `gorm:"index" json:"finished_at,omitempty"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

func (j *ImportJob) Finished() bool {
	return j.Status == ImportJobSucceeded || j.Status == ImportJobFailed
}
