package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/internal/service"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
	"github.com/rosterhub/rosterhub-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRosterService struct {
	students   []models.Student
	lastFilter models.RosterFilter
	created    *service.CreateStudentRequest
	updatedID  string
	deletedID  string
	err        error
}

func (f *fakeRosterService) List(filter models.RosterFilter) ([]models.Student, models.RosterCounts, []string, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, models.RosterCounts{}, nil, f.err
	}
	return f.students, models.RosterCounts{Total: len(f.students)}, []string{"CS"}, nil
}

func (f *fakeRosterService) Get(id string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, student := range f.students {
		if student.ID == id {
			found := student
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

func (f *fakeRosterService) Create(_ context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &models.Student{ID: "new-id", Name: req.Name, Email: req.Email, Course: req.Course}, nil
}

func (f *fakeRosterService) Update(_ context.Context, id string, req service.UpdateStudentRequest) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updatedID = id
	return &models.Student{ID: id, Name: req.Name, Email: req.Email, Course: req.Course}, nil
}

func (f *fakeRosterService) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.err
}

func testContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestRosterHandlerList(t *testing.T) {
	svc := &fakeRosterService{students: []models.Student{{ID: "s-1", Name: "Alice"}}}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodGet, "/students?search=%20alice%20&status=active&course=CS", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RosterFilter{Search: "alice", Status: "active", Course: "CS"}, svc.lastFilter)

	envelope := decodeEnvelope(t, w)
	require.Nil(t, envelope.Error)
	data := envelope.Data.(map[string]interface{})
	assert.Len(t, data["students"], 1)
}

func TestRosterHandlerListUnavailable(t *testing.T) {
	svc := &fakeRosterService{err: appErrors.Clone(appErrors.ErrUnavailable, "roster not initialized")}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodGet, "/students", nil)
	h.List(c)

	assert.Equal(t, appErrors.ErrUnavailable.Status, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrUnavailable.Code, envelope.Error.Code)
}

func TestRosterHandlerGet(t *testing.T) {
	svc := &fakeRosterService{students: []models.Student{{ID: "s-1", Name: "Alice"}}}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodGet, "/students/s-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRosterHandlerGetNotFound(t *testing.T) {
	h := NewRosterHandler(&fakeRosterService{})

	c, w := testContext(t, http.MethodGet, "/students/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}

func TestRosterHandlerCreate(t *testing.T) {
	svc := &fakeRosterService{}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodPost, "/students", gin.H{
		"name": "Dana", "email": "dana@example.com", "course": "CS",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Dana", svc.created.Name)
}

func TestRosterHandlerCreateMalformedBody(t *testing.T) {
	h := NewRosterHandler(&fakeRosterService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/students", bytes.NewReader([]byte("{broken")))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerCreateValidationError(t *testing.T) {
	svc := &fakeRosterService{err: appErrors.Clone(appErrors.ErrValidation, "name: name must be at least 2 characters")}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodPost, "/students", gin.H{
		"name": "A", "email": "dana@example.com", "course": "CS",
	})
	h.Create(c)

	assert.Equal(t, appErrors.ErrValidation.Status, w.Code)
}

func TestRosterHandlerUpdate(t *testing.T) {
	svc := &fakeRosterService{}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodPut, "/students/s-1", gin.H{
		"name": "Dana", "email": "dana@example.com", "course": "CS",
	})
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-1", svc.updatedID)
}

func TestRosterHandlerDelete(t *testing.T) {
	svc := &fakeRosterService{}
	h := NewRosterHandler(svc)

	c, w := testContext(t, http.MethodDelete, "/students/s-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s-1", svc.deletedID)
}
