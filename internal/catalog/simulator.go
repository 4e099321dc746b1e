// Package catalog simulates the remote course service the dashboard talks to.
// Latency and failures are synthetic and exist only to exercise caller error
// handling; there is no real wire protocol behind it.
package catalog

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/internal/validation"
	"github.com/rosterhub/rosterhub-api/pkg/config"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

// Simulator answers course and email-check lookups after a randomized delay.
// Course fetches fail with a fixed probability.
type Simulator struct {
	courses []models.Course

	minDelay    time.Duration
	maxDelay    time.Duration
	lookupDelay time.Duration
	checkDelay  time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator builds a simulator from config. A zero Seed falls back to the
// current time so repeated runs differ.
func NewSimulator(cfg config.CatalogConfig) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	minDelay := cfg.MinDelay
	maxDelay := cfg.MaxDelay
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simulator{
		courses:     defaultCatalog(),
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		lookupDelay: cfg.LookupDelay,
		checkDelay:  cfg.CheckDelay,
		failureRate: cfg.FailureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Courses returns a deep copy of the catalog after a bounded random delay.
// With probability failureRate it returns a synthetic upstream error instead.
func (s *Simulator) Courses(ctx context.Context) ([]models.Course, error) {
	if err := s.sleep(ctx, s.fetchDelay()); err != nil {
		return nil, err
	}
	if s.roll() < s.failureRate {
		return nil, appErrors.Clone(appErrors.ErrCatalogFetch, "failed to fetch courses, please try again")
	}
	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

// CourseByID returns a copy of the matching course after a short delay.
func (s *Simulator) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	if err := s.sleep(ctx, s.lookupDelay); err != nil {
		return nil, err
	}
	for _, course := range s.courses {
		if course.ID == id {
			found := course
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// CheckEmail stands in for a server-side email validity check. Addresses
// without an "@" fail immediately with no simulated latency; everything else
// is answered by a format test after a short delay. No uniqueness check
// against existing records is performed.
func (s *Simulator) CheckEmail(ctx context.Context, address string) (bool, error) {
	if !strings.Contains(address, "@") {
		return false, nil
	}
	if err := s.sleep(ctx, s.checkDelay); err != nil {
		return false, err
	}
	return validation.EmailFormat(address) == "", nil
}

func (s *Simulator) fetchDelay() time.Duration {
	spread := s.maxDelay - s.minDelay
	if spread <= 0 {
		return s.minDelay
	}
	s.mu.Lock()
	jitter := time.Duration(s.rng.Int63n(int64(spread)))
	s.mu.Unlock()
	return s.minDelay + jitter
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Simulator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func defaultCatalog() []models.Course {
	return []models.Course{
		{ID: "cs101", Name: "Computer Science", Code: "CS101", Description: "Foundations of computing and programming", Duration: "4 years", Instructor: "Dr. Sarah Mitchell"},
		{ID: "ds201", Name: "Data Science", Code: "DS201", Description: "Statistics, machine learning and data wrangling", Duration: "2 years", Instructor: "Prof. James Okafor"},
		{ID: "wd150", Name: "Web Development", Code: "WD150", Description: "Full-stack development for the modern web", Duration: "1 year", Instructor: "Elena Petrova"},
		{ID: "gd120", Name: "Graphic Design", Code: "GD120", Description: "Visual communication and digital media design", Duration: "3 years", Instructor: "Marco Silva"},
		{ID: "ba210", Name: "Business Administration", Code: "BA210", Description: "Management, finance and organisational behaviour", Duration: "4 years", Instructor: "Dr. Amelia Tan"},
		{ID: "cy300", Name: "Cybersecurity", Code: "CY300", Description: "Network defence, cryptography and incident response", Duration: "2 years", Instructor: "Victor Haugen"},
	}
}
