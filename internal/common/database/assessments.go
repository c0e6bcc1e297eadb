package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"credit-risk-workers/internal/models"

	"github.com/google/uuid"
)

// ErrAssessmentNotFound is returned by AssessmentStore.Get for unknown ids.
var ErrAssessmentNotFound = errors.New("assessment not found")

const createAssessmentsTable = `CREATE TABLE IF NOT EXISTS credit_assessments (
	id                  UUID PRIMARY KEY,
	correlation_key     TEXT NOT NULL,
	model_version       TEXT NOT NULL,
	application         JSONB NOT NULL,
	default_probability DOUBLE PRECISION NOT NULL,
	credit_score        INTEGER NOT NULL,
	rating              TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL
)`

const insertAssessment = `INSERT INTO credit_assessments
	(id, correlation_key, model_version, application, default_probability, credit_score, rating, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const selectAssessment = `SELECT id, correlation_key, model_version, application, default_probability, credit_score, rating, created_at
	FROM credit_assessments WHERE id = $1`

// AssessmentStore keeps an audit trail of issued assessments.
type AssessmentStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAssessmentStore(db *sql.DB) *AssessmentStore {
	return &AssessmentStore{db: db, now: time.Now}
}

// EnsureSchema creates the assessments table when it is missing.
func (s *AssessmentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createAssessmentsTable); err != nil {
		return fmt.Errorf("create credit_assessments: %w", err)
	}
	return nil
}

// Save inserts rec, assigning an id and timestamp when they are unset.
func (s *AssessmentStore) Save(ctx context.Context, rec *models.AssessmentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertAssessment,
		rec.ID,
		rec.CorrelationKey,
		rec.ModelVersion,
		rec.Application,
		rec.DefaultProbability,
		rec.CreditScore,
		string(rec.Rating),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", rec.ID, err)
	}
	return nil
}

func (s *AssessmentStore) Get(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	var (
		rec    models.AssessmentRecord
		rating string
	)
	err := s.db.QueryRowContext(ctx, selectAssessment, id).Scan(
		&rec.ID,
		&rec.CorrelationKey,
		&rec.ModelVersion,
		&rec.Application,
		&rec.DefaultProbability,
		&rec.CreditScore,
		&rating,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select assessment %s: %w", id, err)
	}
	rec.Rating = models.Rating(rating)
	return &rec, nil
}
