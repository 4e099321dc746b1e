package validation

import (
	"regexp"
	"strings"
)

// Field names used as keys in FieldErrors.
const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldCourse = "course"
	FieldImage  = "image"
)

// Validation messages. Handlers and the form session surface these verbatim.
const (
	MsgNameRequired   = "name is required"
	MsgNameTooShort   = "name must be at least 2 characters"
	MsgNameTooLong    = "name must be at most 50 characters"
	MsgNameCharset    = "name contains invalid characters"
	MsgEmailRequired  = "email is required"
	MsgEmailFormat    = "invalid email format"
	MsgEmailTaken     = "email already in use"
	MsgCourseRequired = "course is required"
	MsgImageType      = "attachment must be an image"
	MsgImageTooLarge  = "image must be 5 MiB or smaller"
)

// MaxImageBytes is the default attachment size ceiling.
const MaxImageBytes = 5 * 1024 * 1024

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldErrors maps a field name to a human-readable message. A missing key
// means the field is currently valid.
type FieldErrors map[string]string

// Merge folds other into e, overwriting on key collision.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msg := range other {
		e[field] = msg
	}
}

// Name validates a student name. Returns an empty string when valid.
func Name(raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return MsgNameRequired
	case len(name) < 2:
		return MsgNameTooShort
	case len(name) > 50:
		return MsgNameTooLong
	case !nameRe.MatchString(name):
		return MsgNameCharset
	}
	return ""
}

// EmailFormat validates the shape of an email address. The required message
// takes precedence over the format message for empty input.
func EmailFormat(raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return MsgEmailRequired
	}
	if !emailRe.MatchString(email) {
		return MsgEmailFormat
	}
	return ""
}

// CourseSelected validates that a course has been chosen.
func CourseSelected(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return MsgCourseRequired
	}
	return ""
}

// Image validates an attachment by media type and size. maxBytes <= 0 falls
// back to MaxImageBytes.
func Image(mediaType string, sizeBytes int64, maxBytes int64) string {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/") {
		return MsgImageType
	}
	if sizeBytes > maxBytes {
		return MsgImageTooLarge
	}
	return ""
}

// Record runs the three synchronous rules and collects failures per field.
func Record(name, email, course string) FieldErrors {
	errs := FieldErrors{}
	if msg := Name(name); msg != "" {
		errs[FieldName] = msg
	}
	if msg := EmailFormat(email); msg != "" {
		errs[FieldEmail] = msg
	}
	if msg := CourseSelected(course); msg != "" {
		errs[FieldCourse] = msg
	}
	return errs
}
