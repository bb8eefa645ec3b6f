package patient

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
	"github.com/meditriage/triage-api/pkg/logger"
)

type Servicer interface {
	Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Patient, error)
}

type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Name:              req.Name,
		Age:               req.Age,
		Gender:            req.Gender,
		ChiefComplaint:    req.ChiefComplaint,
		ConditionCategory: req.ConditionCategory,
		SeverityScore:     req.SeverityScore,
		TriageLevel:       req.TriageLevel,

		HeartRate:             req.HeartRate,
		BloodPressureSystolic: req.BloodPressureSystolic,
		OxygenSaturation:      req.OxygenSaturation,
		TemperatureCelsius:    req.TemperatureCelsius,
		GlasgowComaScale:      req.GlasgowComaScale,

		ArrivalTime:                req.ArrivalTime,
		RequiresImmediateAttention: req.RequiresImmediateAttention,
		RequiresSpecialist:         req.RequiresSpecialist,
		RequiresTraumaSpecialist:   req.RequiresTraumaSpecialist,
		RequiresPediatricCare:      req.RequiresPediatricCare,
		RequiresCardiacSpecialist:  req.RequiresCardiacSpecialist,
		RequiresSurgery:            req.RequiresSurgery,
		AdmissionStatus:            model.AdmissionStatusWaiting,
	}
	patient.ID = uuid.New()

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.logger.Info("patient created", "patient_id", patient.ID.String(), "triage_level", patient.TriageLevel)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.ChiefComplaint != nil {
		patient.ChiefComplaint = *req.ChiefComplaint
	}
	if req.SeverityScore != nil {
		patient.SeverityScore = *req.SeverityScore
	}
	if req.TriageLevel != nil {
		patient.TriageLevel = *req.TriageLevel
	}
	if req.RequiresImmediateAttention != nil {
		patient.RequiresImmediateAttention = *req.RequiresImmediateAttention
	}
	if req.RequiresSpecialist != nil {
		patient.RequiresSpecialist = *req.RequiresSpecialist
	}
	if req.RequiresTraumaSpecialist != nil {
		patient.RequiresTraumaSpecialist = *req.RequiresTraumaSpecialist
	}
	if req.RequiresPediatricCare != nil {
		patient.RequiresPediatricCare = *req.RequiresPediatricCare
	}
	if req.RequiresCardiacSpecialist != nil {
		patient.RequiresCardiacSpecialist = *req.RequiresCardiacSpecialist
	}
	if req.RequiresSurgery != nil {
		patient.RequiresSurgery = *req.RequiresSurgery
	}
	if req.AdmissionStatus != nil {
		patient.AdmissionStatus = *req.AdmissionStatus
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewInternal(err)
	}
	s.logger.Info("patient deleted", "patient_id", id.String())
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return patients, nil
}
