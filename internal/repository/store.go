// Package repository persists the roster as one JSON-encoded snapshot under a
// single key. Every save is a full overwrite of the entire record set; there
// is no versioning and no migration. Loads never fail: any missing, corrupt
// or non-array value degrades to the fixed sample set and is only logged.
package repository

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

// RosterStore is the persistence contract for the full student set.
type RosterStore interface {
	// Load returns the persisted records, or the seed set when nothing
	// usable is stored. It never fails.
	Load(ctx context.Context) []models.Student
	// Save overwrites the stored snapshot and reports success.
	Save(ctx context.Context, students []models.Student) bool
	// Clear removes the persisted snapshot and reports success.
	Clear(ctx context.Context) bool
}

// SeedStudents returns the fixed sample set used whenever no usable snapshot
// exists. Callers own the returned slice.
func SeedStudents() []models.Student {
	return []models.Student{
		{
			ID:             "seed-1",
			Name:           "Alice Johnson",
			Email:          "alice.johnson@example.com",
			Course:         "Computer Science",
			EnrollmentDate: "2024-09-01",
			Status:         models.StatusActive,
		},
		{
			ID:             "seed-2",
			Name:           "Bob Smith",
			Email:          "bob.smith@example.com",
			Course:         "Data Science",
			EnrollmentDate: "2023-09-01",
			Status:         models.StatusGraduated,
		},
		{
			ID:             "seed-3",
			Name:           "Carol Diaz",
			Email:          "carol.diaz@example.com",
			Course:         "Web Development",
			EnrollmentDate: "2024-02-15",
			Status:         models.StatusInactive,
		},
	}
}

// decodeSnapshot parses a stored payload. The payload must be a JSON array of
// student objects; anything else is treated as unusable.
func decodeSnapshot(raw []byte, logger *zap.Logger) ([]models.Student, bool) {
	var students []models.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		if logger != nil {
			logger.Warn("roster snapshot unparsable, falling back to seed data", zap.Error(err))
		}
		return nil, false
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, true
}
