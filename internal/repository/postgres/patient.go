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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, age, gender, chief_complaint, condition_category,
			severity_score, triage_level, heart_rate, blood_pressure_systolic,
			oxygen_saturation, temperature_celsius, glasgow_coma_scale,
			arrival_time, requires_immediate_attention, requires_specialist,
			requires_trauma_specialist, requires_pediatric_care,
			requires_cardiac_specialist, requires_surgery, admission_status,
			created_at, updated_at
		) VALUES (
			:id, :name, :age, :gender, :chief_complaint, :condition_category,
			:severity_score, :triage_level, :heart_rate, :blood_pressure_systolic,
			:oxygen_saturation, :temperature_celsius, :glasgow_coma_scale,
			:arrival_time, :requires_immediate_attention, :requires_specialist,
			:requires_trauma_specialist, :requires_pediatric_care,
			:requires_cardiac_specialist, :requires_surgery, :admission_status,
			:created_at, :updated_at
		)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM patients WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build patient lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = :name, age = :age, chief_complaint = :chief_complaint,
			severity_score = :severity_score, triage_level = :triage_level,
			requires_immediate_attention = :requires_immediate_attention,
			requires_specialist = :requires_specialist,
			requires_trauma_specialist = :requires_trauma_specialist,
			requires_pediatric_care = :requires_pediatric_care,
			requires_cardiac_specialist = :requires_cardiac_specialist,
			requires_surgery = :requires_surgery,
			admission_status = :admission_status,
			updated_at = :updated_at
		WHERE id = :id
	`
	patient.UpdatedAt = time.Now()
	_, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY triage_level ASC, severity_score DESC`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query)
	return patients, err
}
