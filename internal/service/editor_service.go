package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/dto"
	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/internal/validation"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

// Form session states.
const (
	SessionClean           = "clean"
	SessionEditing         = "editing"
	SessionValidatingEmail = "validating-email"
	SessionSubmitting      = "submitting"
	SessionCompleted       = "completed"
)

type emailChecker interface {
	CheckEmail(ctx context.Context, address string) (bool, error)
}

type recordSubmitter interface {
	Get(id string) (*models.Student, error)
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error)
}

// formSession is one record editor instance. The debounce timer and its
// generation counter implement the delay-and-supersede pattern: each email
// change re-arms the timer and bumps the generation, and a check result is
// discarded when its generation has since advanced.
type formSession struct {
	mu sync.Mutex

	id        string
	mode      string
	studentID string

	// originalEmail is the record's email at session start in edit mode;
	// resubmitting it unchanged skips the remote availability check.
	originalEmail string

	state  string
	name   string
	email  string
	course string
	image  string

	errors       validation.FieldErrors
	emailAvail   *bool
	checkPending bool
	emailGen     uint64
	timer        *time.Timer
}

// EditorService manages server-held form sessions: controlled field state,
// live per-field validation, the debounced email availability check, and
// submit orchestration into the roster service.
type EditorService struct {
	roster   recordSubmitter
	checker  emailChecker
	logger   *zap.Logger
	metrics  *MetricsService
	debounce time.Duration
	maxImage int64
	newID    func() string

	mu       sync.Mutex
	sessions map[string]*formSession
}

// NewEditorService constructs the editor service.
func NewEditorService(roster recordSubmitter, checker emailChecker, debounce time.Duration, maxImageBytes int64, logger *zap.Logger) *EditorService {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if maxImageBytes <= 0 {
		maxImageBytes = validation.MaxImageBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{
		roster:   roster,
		checker:  checker,
		logger:   logger,
		debounce: debounce,
		maxImage: maxImageBytes,
		newID:    uuid.NewString,
		sessions: make(map[string]*formSession),
	}
}

// WithMetrics attaches instrumentation. Optional.
func (s *EditorService) WithMetrics(metrics *MetricsService) *EditorService {
	s.metrics = metrics
	return s
}

// Start opens a new form session. Edit mode pre-populates the fields from the
// existing record and remembers its email for the unchanged-email shortcut.
func (s *EditorService) Start(req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	sess := &formSession{
		id:     s.newID(),
		mode:   req.Mode,
		state:  SessionClean,
		errors: validation.FieldErrors{},
	}
	if req.Mode == dto.ModeEdit {
		if req.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required in edit mode")
		}
		student, err := s.roster.Get(req.StudentID)
		if err != nil {
			return nil, err
		}
		sess.studentID = student.ID
		sess.originalEmail = student.Email
		sess.name = student.Name
		sess.email = student.Email
		sess.course = student.Course
		sess.image = student.Image
	}

	snap := snapshotSession(sess)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return snap, nil
}

// Get returns the observable state of a session.
func (s *EditorService) Get(id string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotSession(sess), nil
}

// UpdateFields applies partial edits, re-validates the touched fields and
// re-arms the availability debounce when the email changed.
func (s *EditorService) UpdateFields(id string, req dto.UpdateFieldsRequest) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == SessionSubmitting {
		return nil, appErrors.Clone(appErrors.ErrConflict, "submission in progress")
	}
	if sess.state == SessionClean || sess.state == SessionCompleted {
		sess.state = SessionEditing
	}

	if req.Name != nil {
		sess.name = *req.Name
		setFieldError(sess.errors, validation.FieldName, validation.Name(sess.name))
	}
	if req.Course != nil {
		sess.course = *req.Course
		setFieldError(sess.errors, validation.FieldCourse, validation.CourseSelected(sess.course))
	}
	if req.Email != nil && *req.Email != sess.email {
		sess.email = *req.Email
		setFieldError(sess.errors, validation.FieldEmail, validation.EmailFormat(sess.email))
		s.armEmailCheckLocked(sess)
	}

	return snapshotSession(sess), nil
}

// AttachImage validates an image replacement attempt. A rejected replacement
// keeps the previously selected image instead of discarding it.
func (s *EditorService) AttachImage(id string, req dto.AttachImageRequest) (*dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == SessionClean || sess.state == SessionCompleted {
		sess.state = SessionEditing
	}
	if msg := validation.Image(req.MediaType, req.SizeBytes, s.maxImage); msg != "" {
		sess.errors[validation.FieldImage] = msg
		return snapshotSession(sess), nil
	}
	delete(sess.errors, validation.FieldImage)
	sess.image = req.Ref
	return snapshotSession(sess), nil
}

// Submit validates the whole form and hands the payload to the roster
// service. Creation resets the session to clean; editing marks it completed.
func (s *EditorService) Submit(ctx context.Context, id string) (*models.Student, *dto.SessionResponse, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	if sess.state == SessionSubmitting {
		sess.mu.Unlock()
		return nil, nil, appErrors.Clone(appErrors.ErrConflict, "submission in progress")
	}

	syncErrs := validation.Record(sess.name, sess.email, sess.course)
	for field, msg := range syncErrs {
		sess.errors[field] = msg
	}
	if len(syncErrs) > 0 {
		sess.state = SessionEditing
		snap := snapshotSession(sess)
		sess.mu.Unlock()
		return nil, snap, appErrors.Clone(appErrors.ErrValidation, "form has invalid fields")
	}
	if sess.checkPending {
		sess.state = SessionEditing
		snap := snapshotSession(sess)
		sess.mu.Unlock()
		return nil, snap, appErrors.Clone(appErrors.ErrValidation, "email check still in progress")
	}
	if sess.emailAvail != nil && !*sess.emailAvail {
		sess.errors[validation.FieldEmail] = validation.MsgEmailTaken
		sess.state = SessionEditing
		snap := snapshotSession(sess)
		sess.mu.Unlock()
		return nil, snap, appErrors.Clone(appErrors.ErrValidation, validation.MsgEmailTaken)
	}

	sess.state = SessionSubmitting
	mode := sess.mode
	studentID := sess.studentID
	name, email, course, image := sess.name, sess.email, sess.course, sess.image
	sess.mu.Unlock()

	var (
		student   *models.Student
		submitErr error
	)
	if mode == dto.ModeEdit {
		student, submitErr = s.roster.Update(ctx, studentID, UpdateStudentRequest{
			Name: name, Email: email, Course: course, Image: image,
		})
	} else {
		student, submitErr = s.roster.Create(ctx, CreateStudentRequest{
			Name: name, Email: email, Course: course, Image: image,
		})
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if submitErr != nil {
		sess.state = SessionEditing
		sess.errors[validation.FieldEmail] = appErrors.FromError(submitErr).Message
		snap := snapshotSession(sess)
		return nil, snap, submitErr
	}

	if mode == dto.ModeEdit {
		sess.state = SessionCompleted
	} else {
		resetSession(sess)
	}
	return student, snapshotSession(sess), nil
}

// Close discards a session and disarms its debounce timer.
func (s *EditorService) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "editor session not found")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.emailGen++
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}
	return nil
}

// armEmailCheckLocked cancels any pending check and schedules a new one after
// the debounce interval. Callers hold sess.mu.
func (s *EditorService) armEmailCheckLocked(sess *formSession) {
	sess.emailGen++
	gen := sess.emailGen
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}
	sess.emailAvail = nil
	sess.checkPending = false

	// A failed format check short-circuits the remote call entirely.
	if validation.EmailFormat(sess.email) != "" {
		return
	}

	// An unchanged email when editing is treated as available without
	// consulting the checker.
	trimmed := strings.TrimSpace(sess.email)
	if sess.mode == dto.ModeEdit && strings.EqualFold(trimmed, strings.TrimSpace(sess.originalEmail)) {
		available := true
		sess.emailAvail = &available
		return
	}

	sess.checkPending = true
	sess.timer = time.AfterFunc(s.debounce, func() {
		s.runEmailCheck(sess, gen, trimmed)
	})
}

func (s *EditorService) runEmailCheck(sess *formSession, gen uint64, email string) {
	sess.mu.Lock()
	if gen != sess.emailGen {
		sess.mu.Unlock()
		return
	}
	if sess.state == SessionEditing {
		sess.state = SessionValidatingEmail
	}
	sess.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	available, err := s.checker.CheckEmail(ctx, email)
	cancel()
	s.metrics.RecordEmailCheck()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	// A superseded check must not touch state the next keystroke owns.
	if gen != sess.emailGen {
		return
	}
	sess.checkPending = false
	if sess.state == SessionValidatingEmail {
		sess.state = SessionEditing
	}
	if err != nil {
		s.logger.Warn("email availability check failed", zap.Error(err))
		sess.emailAvail = nil
		return
	}
	sess.emailAvail = &available
}

func (s *EditorService) lookup(id string) (*formSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "editor session not found")
	}
	return sess, nil
}

func setFieldError(errs validation.FieldErrors, field, msg string) {
	if msg == "" {
		delete(errs, field)
		return
	}
	errs[field] = msg
}

// resetSession returns a create-mode session to its pristine state after a
// successful submission.
func resetSession(sess *formSession) {
	sess.state = SessionClean
	sess.name = ""
	sess.email = ""
	sess.course = ""
	sess.image = ""
	sess.errors = validation.FieldErrors{}
	sess.emailAvail = nil
	sess.checkPending = false
	sess.emailGen++
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}
}

// snapshotSession copies observable session state. Callers hold sess.mu,
// except immediately after construction.
func snapshotSession(sess *formSession) *dto.SessionResponse {
	errs := make(map[string]string, len(sess.errors))
	for field, msg := range sess.errors {
		errs[field] = msg
	}
	var avail *bool
	if sess.emailAvail != nil {
		v := *sess.emailAvail
		avail = &v
	}
	return &dto.SessionResponse{
		ID:                sess.id,
		Mode:              sess.mode,
		State:             sess.state,
		StudentID:         sess.studentID,
		Name:              sess.name,
		Email:             sess.email,
		Course:            sess.course,
		Image:             sess.image,
		Errors:            errs,
		EmailAvailable:    avail,
		EmailCheckPending: sess.checkPending,
	}
}
