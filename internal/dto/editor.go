package dto

// Editor session modes.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// StartSessionRequest opens a form session. StudentID is required in edit
// mode and ignored otherwise.
type StartSessionRequest struct {
	Mode      string `json:"mode" binding:"required,oneof=create edit"`
	StudentID string `json:"student_id"`
}

// UpdateFieldsRequest carries partial field edits. Nil means "untouched".
type UpdateFieldsRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Course *string `json:"course"`
}

// AttachImageRequest describes an image replacement attempt. The reference is
// a data URI or URL; only its declared media type and size are validated.
type AttachImageRequest struct {
	MediaType string `json:"media_type" binding:"required"`
	SizeBytes int64  `json:"size_bytes" binding:"required"`
	Ref       string `json:"ref" binding:"required"`
}

// SessionResponse is the observable form session state.
type SessionResponse struct {
	ID                string            `json:"id"`
	Mode              string            `json:"mode"`
	State             string            `json:"state"`
	StudentID         string            `json:"student_id,omitempty"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Course            string            `json:"course"`
	Image             string            `json:"image,omitempty"`
	Errors            map[string]string `json:"errors"`
	EmailAvailable    *bool             `json:"email_available,omitempty"`
	EmailCheckPending bool              `json:"email_check_pending"`
}
