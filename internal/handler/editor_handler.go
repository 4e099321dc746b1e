package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterhub/rosterhub-api/internal/dto"
	"github.com/rosterhub/rosterhub-api/internal/models"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
	"github.com/rosterhub/rosterhub-api/pkg/response"
)

type editorService interface {
	Start(req dto.StartSessionRequest) (*dto.SessionResponse, error)
	Get(id string) (*dto.SessionResponse, error)
	UpdateFields(id string, req dto.UpdateFieldsRequest) (*dto.SessionResponse, error)
	AttachImage(id string, req dto.AttachImageRequest) (*dto.SessionResponse, error)
	Submit(ctx context.Context, id string) (*models.Student, *dto.SessionResponse, error)
	Close(id string) error
}

// EditorHandler exposes the record editor form sessions.
type EditorHandler struct {
	editor editorService
}

// NewEditorHandler constructs EditorHandler.
func NewEditorHandler(editor editorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

// Start godoc
// @Summary Open form session
// @Tags Editor
// @Accept json
// @Produce json
// @Param payload body dto.StartSessionRequest true "Session mode"
// @Success 201 {object} response.Envelope
// @Router /editor/sessions [post]
func (h *EditorHandler) Start(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.editor.Start(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Get form session state
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id} [get]
func (h *EditorHandler) Get(c *gin.Context) {
	session, err := h.editor.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// UpdateFields godoc
// @Summary Edit form fields
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.UpdateFieldsRequest true "Field edits"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/fields [put]
func (h *EditorHandler) UpdateFields(c *gin.Context) {
	var req dto.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.editor.UpdateFields(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// AttachImage godoc
// @Summary Attach image
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AttachImageRequest true "Image reference"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/image [post]
func (h *EditorHandler) AttachImage(c *gin.Context) {
	var req dto.AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.editor.AttachImage(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Submit godoc
// @Summary Submit form
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /editor/sessions/{id}/submit [post]
func (h *EditorHandler) Submit(c *gin.Context) {
	student, session, err := h.editor.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := appErrors.FromError(err)
		c.Header("Cache-Control", "no-store")
		c.JSON(appErr.Status, response.Envelope{Data: session, Error: appErr})
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student": student, "session": session})
}

// Close godoc
// @Summary Discard form session
// @Tags Editor
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Router /editor/sessions/{id} [delete]
func (h *EditorHandler) Close(c *gin.Context) {
	if err := h.editor.Close(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
