package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditLog AuditLog
	logger   *zap.Logger
}

func NewAuditController(auditLog AuditLog, logger *zap.Logger) *AuditController {
	return &AuditController{auditLog: auditLog, logger: logger}
}

// GetAuditEvents returns paginated audit events as JSON.
// GET /api/audit?type=&actor=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	ac.respond(c, entities.AuditEventType(c.Query("type")))
}

// GetImportEvents returns import events only.
// GET /api/audit/imports?actor=&limit=&offset=
func (ac *AuditController) GetImportEvents(c *gin.Context) {
	ac.respond(c, entities.AuditEventImport)
}

func (ac *AuditController) respond(c *gin.Context, eventType entities.AuditEventType) {
	limit, offset := parsePagination(c, defaultAuditLimit, maxAuditLimit)
	actor := c.Query("actor")

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType != "" {
		events, total, err = ac.auditLog.GetEventsByType(eventType, actor, limit, offset)
	} else {
		events, total, err = ac.auditLog.GetEvents(actor, limit, offset)
	}
	if err != nil {
		respondInternalError(c, ac.logger, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}
