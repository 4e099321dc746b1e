package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

// PostgresStore persists the roster snapshot as a single row in a key/value
// table. The payload column holds the JSON-encoded student array.
//
//	CREATE TABLE IF NOT EXISTS roster_snapshots (
//	    key        TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db     *sqlx.DB
	key    string
	logger *zap.Logger
}

// NewPostgresStore constructs a Postgres-backed roster store.
func NewPostgresStore(db *sqlx.DB, key string, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, key: key, logger: logger}
}

// Load returns the stored records. A missing row, query error or unparsable
// payload degrades to the seed set.
func (s *PostgresStore) Load(ctx context.Context) []models.Student {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, "SELECT payload FROM roster_snapshots WHERE key = $1", s.key)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("roster load failed, falling back to seed data", zap.Error(err))
		}
		return SeedStudents()
	}
	students, ok := decodeSnapshot(raw, s.logger)
	if !ok {
		return SeedStudents()
	}
	return students
}

// Save upserts the snapshot row.
func (s *PostgresStore) Save(ctx context.Context, students []models.Student) bool {
	payload, err := json.Marshal(students)
	if err != nil {
		s.logger.Warn("roster save failed", zap.Error(err))
		return false
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO roster_snapshots (key, payload, updated_at) VALUES ($1, $2, now())
         ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.key, payload)
	if err != nil {
		s.logger.Warn("roster save failed", zap.Error(err))
		return false
	}
	return true
}

// Clear deletes the snapshot row.
func (s *PostgresStore) Clear(ctx context.Context) bool {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM roster_snapshots WHERE key = $1", s.key); err != nil {
		s.logger.Warn("roster clear failed", zap.Error(err))
		return false
	}
	return true
}
