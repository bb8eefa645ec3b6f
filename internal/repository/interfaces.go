package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient record persistence. GetByIDs
	// returns the records it can resolve; missing IDs are not an error.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	AssignmentRepository interface {
		Create(ctx context.Context, assignment *model.PatientAssignment) error
		List(ctx context.Context) ([]*model.PatientAssignment, error)
		Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error
		DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	}
)
