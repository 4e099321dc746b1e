package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterhub/rosterhub-api/pkg/response"
)

type exporterService interface {
	CSV() ([]byte, error)
	PDF() ([]byte, error)
}

// ExportHandler serves roster downloads.
type ExportHandler struct {
	exports exporterService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exporterService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CSV godoc
// @Summary Export roster as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200
// @Router /exports/students.csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	payload, err := h.exports.CSV()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// PDF godoc
// @Summary Export roster as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200
// @Router /exports/students.pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	payload, err := h.exports.PDF()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}
