package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/importers"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateFilename = "projects-template.xlsx"
)

// TemplateHandler serves a blank import workbook with every recognized
// column and one example row.
// GET /api/projects/import/template
func TemplateHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := importers.WriteTemplate(&buf); err != nil {
			respondInternalError(c, logger, err, "build import template")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
