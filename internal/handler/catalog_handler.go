package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosterhub/rosterhub-api/internal/dto"
	"github.com/rosterhub/rosterhub-api/internal/models"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
	"github.com/rosterhub/rosterhub-api/pkg/response"
)

type catalogService interface {
	Courses() []models.Course
	CourseByID(ctx context.Context, id string) (*models.Course, error)
	Ready() bool
	InitError() error
}

type availabilityChecker interface {
	CheckEmail(ctx context.Context, address string) (bool, error)
}

// CatalogHandler exposes the course catalog and the simulated email check.
type CatalogHandler struct {
	catalog catalogService
	checker availabilityChecker
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService, checker availabilityChecker) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, checker: checker}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) List(c *gin.Context) {
	if !h.catalog.Ready() {
		response.Error(c, appErrors.Wrap(h.catalog.InitError(), appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "course catalog unavailable, retry initialization"))
		return
	}
	response.JSON(c, http.StatusOK, h.catalog.Courses())
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	course, err := h.catalog.CourseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// CheckEmail godoc
// @Summary Check email availability
// @Tags Courses
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} response.Envelope
// @Router /email/availability [get]
func (h *CatalogHandler) CheckEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email is required"))
		return
	}
	available, err := h.checker.CheckEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AvailabilityResponse{Email: email, Available: available})
}
