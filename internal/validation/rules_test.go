package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameRules(t *testing.T) {
	assert.Empty(t, Name("Al"))
	assert.Empty(t, Name("Jean-Luc O'Brien"))
	assert.Empty(t, Name("  Mary Jane  "))

	assert.Equal(t, MsgNameRequired, Name(""))
	assert.Equal(t, MsgNameRequired, Name("   "))
	assert.Equal(t, MsgNameTooShort, Name("A"))
	assert.Equal(t, MsgNameTooLong, Name(strings.Repeat("a", 51)))
	assert.Equal(t, MsgNameCharset, Name("John123"))
	assert.Equal(t, MsgNameCharset, Name("john@doe"))
}

func TestEmailFormatRules(t *testing.T) {
	assert.Empty(t, EmailFormat("a@b.co"))
	assert.Empty(t, EmailFormat("first.last+tag@example.org"))

	// The required message wins over the format message for empty input.
	assert.Equal(t, MsgEmailRequired, EmailFormat(""))
	assert.Equal(t, MsgEmailRequired, EmailFormat("   "))
	assert.Equal(t, MsgEmailFormat, EmailFormat("no-at-sign.com"))
	assert.Equal(t, MsgEmailFormat, EmailFormat("a@b"))
	assert.Equal(t, MsgEmailFormat, EmailFormat("a b@c.co"))
}

func TestCourseSelected(t *testing.T) {
	assert.Empty(t, CourseSelected("Computer Science"))
	assert.Equal(t, MsgCourseRequired, CourseSelected(""))
	assert.Equal(t, MsgCourseRequired, CourseSelected("  "))
}

func TestImageRule(t *testing.T) {
	assert.Empty(t, Image("image/png", 1024, 0))
	assert.Empty(t, Image("image/jpeg", MaxImageBytes, 0))

	assert.Equal(t, MsgImageType, Image("application/pdf", 10, 0))
	assert.Equal(t, MsgImageType, Image("", 10, 0))
	assert.Equal(t, MsgImageTooLarge, Image("image/png", MaxImageBytes+1, 0))
	assert.Equal(t, MsgImageTooLarge, Image("image/png", 2048, 1024))
}

func TestRecordCollectsPerField(t *testing.T) {
	errs := Record("", "bad", "")
	assert.Equal(t, MsgNameRequired, errs[FieldName])
	assert.Equal(t, MsgEmailFormat, errs[FieldEmail])
	assert.Equal(t, MsgCourseRequired, errs[FieldCourse])

	assert.Empty(t, Record("Alice", "alice@example.com", "CS"))
}
