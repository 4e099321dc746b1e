package repository

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

// MemoryStore keeps the roster snapshot in process memory. It is the default
// backend and the substitute used in tests.
type MemoryStore struct {
	mu     sync.Mutex
	raw    []byte
	logger *zap.Logger

	// failWrites makes Save and Clear report failure, mimicking an
	// unavailable storage medium.
	failWrites bool
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{logger: logger}
}

// Load returns the stored records, or the seed set when the store is empty or
// holds an unparsable payload.
func (s *MemoryStore) Load(_ context.Context) []models.Student {
	s.mu.Lock()
	raw := s.raw
	s.mu.Unlock()

	if raw == nil {
		return SeedStudents()
	}
	students, ok := decodeSnapshot(raw, s.logger)
	if !ok {
		return SeedStudents()
	}
	return students
}

// Save overwrites the snapshot.
func (s *MemoryStore) Save(_ context.Context, students []models.Student) bool {
	if s.failWrites {
		s.logger.Warn("roster save failed, storage unavailable")
		return false
	}
	payload, err := json.Marshal(students)
	if err != nil {
		s.logger.Warn("roster save failed", zap.Error(err))
		return false
	}
	s.mu.Lock()
	s.raw = payload
	s.mu.Unlock()
	return true
}

// Clear removes the snapshot.
func (s *MemoryStore) Clear(_ context.Context) bool {
	if s.failWrites {
		return false
	}
	s.mu.Lock()
	s.raw = nil
	s.mu.Unlock()
	return true
}

// SetRaw replaces the stored payload verbatim. Test hook for simulating
// corrupt snapshots.
func (s *MemoryStore) SetRaw(raw []byte) {
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
}

// FailWrites toggles simulated write failures.
func (s *MemoryStore) FailWrites(fail bool) {
	s.failWrites = fail
}
