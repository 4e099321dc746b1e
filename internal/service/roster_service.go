package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/internal/repository"
	"github.com/rosterhub/rosterhub-api/internal/roster"
	"github.com/rosterhub/rosterhub-api/internal/validation"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

type courseProvider interface {
	Courses(ctx context.Context) ([]models.Course, error)
	CourseByID(ctx context.Context, id string) (*models.Course, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Course         string `json:"course" validate:"required"`
	Image          string `json:"image"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status"`
}

// UpdateStudentRequest holds payload for replacing an existing record. The
// identifier itself is immutable and taken from the route.
type UpdateStudentRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Course         string `json:"course" validate:"required"`
	Image          string `json:"image"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status"`
}

// RosterService owns the canonical in-memory record set and the fetched
// course catalog. All mutations derive a new slice from the prior one, push
// it through the store, then swap it in.
type RosterService struct {
	store     repository.RosterStore
	catalog   courseProvider
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	newID     func() string
	now       func() time.Time

	mu       sync.RWMutex
	students []models.Student
	courses  []models.Course
	ready    bool
	initErr  error
}

// NewRosterService constructs the roster service.
func NewRosterService(store repository.RosterStore, catalog courseProvider, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		store:     store,
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Init awaits the course catalog, then loads the persisted roster. A catalog
// failure leaves the service in a retryable error state; the store itself
// never fails, it degrades to seed data.
func (s *RosterService) Init(ctx context.Context) error {
	courses, err := s.catalog.Courses(ctx)
	if err != nil {
		s.mu.Lock()
		s.ready = false
		s.initErr = err
		s.mu.Unlock()
		s.logger.Warn("roster initialization failed", zap.Error(err))
		return err
	}
	students := s.store.Load(ctx)

	s.mu.Lock()
	s.courses = courses
	s.students = students
	s.ready = true
	s.initErr = nil
	s.mu.Unlock()

	s.logger.Info("roster initialized",
		zap.Int("students", len(students)),
		zap.Int("courses", len(courses)),
	)
	return nil
}

// Retry re-runs the same initialization sequence.
func (s *RosterService) Retry(ctx context.Context) error {
	return s.Init(ctx)
}

// Ready reports whether initialization has succeeded.
func (s *RosterService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// InitError returns the last initialization failure, if any.
func (s *RosterService) InitError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initErr
}

// Courses returns a copy of the fetched catalog.
func (s *RosterService) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// CourseByID resolves a single course through the catalog provider.
func (s *RosterService) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	return s.catalog.CourseByID(ctx, id)
}

// List applies the browser filters and returns the subset together with
// full-set counts and the distinct course values.
func (s *RosterService) List(filter models.RosterFilter) ([]models.Student, models.RosterCounts, []string, error) {
	students, err := s.snapshotLocked()
	if err != nil {
		return nil, models.RosterCounts{}, nil, err
	}
	return roster.Filter(students, filter), roster.Counts(students), roster.DistinctCourses(students), nil
}

// Get returns a copy of a single record.
func (s *RosterService) Get(id string) (*models.Student, error) {
	students, err := s.snapshotLocked()
	if err != nil {
		return nil, err
	}
	for _, student := range students {
		if student.ID == id {
			found := student
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Create registers a new record. The identifier is allocated here, never by
// the editor.
func (s *RosterService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validateRequest(req, req.Name, req.Email, req.Course, req.Status); err != nil {
		return nil, err
	}

	student := models.Student{
		ID:             s.newID(),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Course:         req.Course,
		Image:          req.Image,
		EnrollmentDate: req.EnrollmentDate,
		Status:         req.Status,
	}
	if student.Status == "" {
		student.Status = models.StatusActive
	}
	if student.EnrollmentDate == "" {
		student.EnrollmentDate = s.now().Format("2006-01-02")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, s.notReadyLocked()
	}
	next := make([]models.Student, len(s.students), len(s.students)+1)
	copy(next, s.students)
	next = append(next, student)
	s.persistLocked(ctx, next)
	return &student, nil
}

// Update replaces every field of an existing record, preserving its ID.
func (s *RosterService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validateRequest(req, req.Name, req.Email, req.Course, req.Status); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, s.notReadyLocked()
	}
	index := -1
	for i, student := range s.students {
		if student.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	updated := models.Student{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Course:         req.Course,
		Image:          req.Image,
		EnrollmentDate: req.EnrollmentDate,
		Status:         req.Status,
	}
	if updated.Status == "" {
		updated.Status = s.students[index].Status
	}
	if updated.EnrollmentDate == "" {
		updated.EnrollmentDate = s.students[index].EnrollmentDate
	}

	next := make([]models.Student, len(s.students))
	copy(next, s.students)
	next[index] = updated
	s.persistLocked(ctx, next)
	return &updated, nil
}

// Delete removes a record by id. Deleting an unknown id is a no-op that
// still persists the (unchanged) snapshot.
func (s *RosterService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return s.notReadyLocked()
	}
	next := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		if student.ID != id {
			next = append(next, student)
		}
	}
	s.persistLocked(ctx, next)
	return nil
}

// Stats recomputes aggregate statistics over the current record set.
func (s *RosterService) Stats() (models.RosterStats, models.RosterCounts, error) {
	students, err := s.snapshotLocked()
	if err != nil {
		return models.RosterStats{}, models.RosterCounts{}, err
	}
	return roster.Stats(students), roster.Counts(students), nil
}

// Snapshot returns a copy of the full record set in stable order.
func (s *RosterService) Snapshot() ([]models.Student, error) {
	return s.snapshotLocked()
}

func (s *RosterService) snapshotLocked() ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, s.notReadyLocked()
	}
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func (s *RosterService) notReadyLocked() error {
	if s.initErr != nil {
		return appErrors.Wrap(s.initErr, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "roster unavailable, retry initialization")
	}
	return appErrors.Clone(appErrors.ErrUnavailable, "roster not initialized")
}

// WithMetrics attaches instrumentation. Optional.
func (s *RosterService) WithMetrics(metrics *MetricsService) *RosterService {
	s.metrics = metrics
	return s
}

// persistLocked pushes the derived slice into the store and swaps in-memory
// state. Storage failures are logged and otherwise ignored per the adapter
// contract.
func (s *RosterService) persistLocked(ctx context.Context, next []models.Student) {
	saved := s.store.Save(ctx, next)
	if !saved {
		s.logger.Warn("roster snapshot not persisted", zap.Int("students", len(next)))
	}
	s.metrics.RecordStoreSave(saved)
	s.metrics.SetRosterSize(len(next))
	s.students = next
}

func (s *RosterService) validateRequest(req interface{}, name, email, course, status string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if errs := validation.Record(name, email, course); len(errs) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, fieldErrorMessage(errs))
	}
	if status != "" && !models.ValidStatus(status) {
		return appErrors.Clone(appErrors.ErrValidation, "status must be active, inactive or graduated")
	}
	return nil
}

func fieldErrorMessage(errs validation.FieldErrors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return strings.Join(parts, "; ")
}
