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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, employee_id, name, email, years_experience, availability_status,
			current_patient_load, max_patient_capacity, emergency_response_rating,
			trauma_experience_level, pediatric_qualified, cardiac_specialist,
			surgery_qualified, created_at, updated_at
		) VALUES (
			:id, :employee_id, :name, :email, :years_experience, :availability_status,
			:current_patient_load, :max_patient_capacity, :emergency_response_rating,
			:trauma_experience_level, :pediatric_qualified, :cardiac_specialist,
			:surgery_qualified, :created_at, :updated_at
		)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT * FROM doctors WHERE id = $1`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Doctor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM doctors WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build doctor lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors SET
			name = :name, email = :email, years_experience = :years_experience,
			availability_status = :availability_status,
			current_patient_load = :current_patient_load,
			max_patient_capacity = :max_patient_capacity,
			emergency_response_rating = :emergency_response_rating,
			trauma_experience_level = :trauma_experience_level,
			pediatric_qualified = :pediatric_qualified,
			cardiac_specialist = :cardiac_specialist,
			surgery_qualified = :surgery_qualified,
			updated_at = :updated_at
		WHERE id = :id
	`
	doctor.UpdatedAt = time.Now()
	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doctors WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT * FROM doctors ORDER BY availability_status ASC, current_patient_load ASC`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query)
	return doctors, err
}
