package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/database/audit"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
)

const (
	ActorAdmin     = "admin"
	ActorCLI       = "cli"
	ActorScheduler = "scheduler"
	ActorWorker    = "worker"
)

// ImportRecord describes one finished or aborted bulk import.
type ImportRecord struct {
	Actor     string
	IPAddress string
	Mode      string // sync, async or cli
	JobID     string
	Sheet     string
	Archive   string
	Report    *importers.Report
	Err       error
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background. Wait blocks until
// every pending write is done.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log audit event",
				zap.String("action", event.Action),
				zap.Error(err),
			)
		}
	}()
}

func (s *Service) Wait() {
	s.wg.Wait()
}

// LogImport records a bulk import. A report with failed rows is partial; an
// import that never produced a report is failed.
func (s *Service) LogImport(rec ImportRecord) {
	event := &entities.AuditEvent{
		Actor:      rec.Actor,
		EventType:  entities.AuditEventImport,
		Action:     "project_import",
		EntityType: "project",
		EntityID:   rec.JobID,
		IPAddress:  rec.IPAddress,
		Status:     entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"mode":        rec.Mode,
		"spreadsheet": rec.Sheet,
	}
	if rec.Archive != "" {
		metadata["archive"] = rec.Archive
	}

	switch {
	case rec.Err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(rec.Err.Error(), 500)
		event.Description = "Import failed: " + rec.Sheet
	case rec.Report != nil:
		metadata["total"] = rec.Report.Total
		metadata["imported"] = rec.Report.Imported
		metadata["failed"] = rec.Report.Failed()
		event.Description = fmt.Sprintf("Imported %d of %d projects from %s", rec.Report.Imported, rec.Report.Total, rec.Sheet)
		if rec.Report.Failed() > 0 {
			event.Status = entities.AuditStatusPartial
		}
	}

	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// LogCreate records a single project created through the API.
func (s *Service) LogCreate(actor, ip string, project *entities.Project) {
	s.LogAsync(&entities.AuditEvent{
		Actor:       actor,
		EventType:   entities.AuditEventCreate,
		Action:      "project_create",
		Description: "Created project: " + project.Title,
		EntityType:  "project",
		EntityID:    fmt.Sprint(project.ID),
		IPAddress:   ip,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogDelete records a project deletion.
func (s *Service) LogDelete(actor, ip, slug string) {
	s.LogAsync(&entities.AuditEvent{
		Actor:       actor,
		EventType:   entities.AuditEventDelete,
		Action:      "project_delete",
		Description: "Deleted project: " + slug,
		EntityType:  "project",
		EntityID:    slug,
		IPAddress:   ip,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogMaintenance records a cleanup run.
func (s *Service) LogMaintenance(action string, removed int64, err error) {
	event := &entities.AuditEvent{
		Actor:       ActorScheduler,
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: fmt.Sprintf("Removed %d records", removed),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(actor string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(actor, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, actor string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, actor, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
