package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository"
)

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.PatientAssignment) error {
	query := `
		INSERT INTO patient_assignments (
			id, patient_id, doctor_id, matching_score, assignment_reason,
			assigned_at, created_at, updated_at
		) VALUES (
			:id, :patient_id, :doctor_id, :matching_score, :assignment_reason,
			:assigned_at, :created_at, :updated_at
		)
	`
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]*model.PatientAssignment, error) {
	query := `SELECT * FROM patient_assignments ORDER BY assigned_at DESC`
	var assignments []*model.PatientAssignment
	err := r.db.SelectContext(ctx, &assignments, query)
	return assignments, err
}

func (r *assignmentRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `UPDATE patient_assignments SET completed_at = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, completedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete assignment: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}

func (r *assignmentRepository) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM patient_assignments WHERE completed_at IS NOT NULL AND completed_at < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed assignments: %w", err)
	}
	return result.RowsAffected()
}
