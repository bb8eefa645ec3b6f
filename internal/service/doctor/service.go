package doctor

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
	Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Doctor, error)
}

type Service struct {
	repo   repository.DoctorRepository
	logger *logger.Logger
}

func NewService(repo repository.DoctorRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if req.CurrentPatientLoad > req.MaxPatientCapacity {
		return nil, apperrors.NewInvalidInput("current patient load cannot exceed capacity")
	}

	doctor := &model.Doctor{
		EmployeeID:              req.EmployeeID,
		Name:                    req.Name,
		Email:                   req.Email,
		YearsExperience:         req.YearsExperience,
		AvailabilityStatus:      req.AvailabilityStatus,
		CurrentPatientLoad:      req.CurrentPatientLoad,
		MaxPatientCapacity:      req.MaxPatientCapacity,
		EmergencyResponseRating: req.EmergencyResponseRating,
		TraumaExperienceLevel:   req.TraumaExperienceLevel,
		PediatricQualified:      req.PediatricQualified,
		CardiacSpecialist:       req.CardiacSpecialist,
		SurgeryQualified:        req.SurgeryQualified,
	}
	doctor.ID = uuid.New()

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	s.logger.Info("doctor created", "doctor_id", doctor.ID.String(), "employee_id", doctor.EmployeeID)
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", err)
		}
		return nil, apperrors.NewInternal(err)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = req.Email
	}
	if req.YearsExperience != nil {
		doctor.YearsExperience = *req.YearsExperience
	}
	if req.AvailabilityStatus != nil {
		doctor.AvailabilityStatus = *req.AvailabilityStatus
	}
	if req.CurrentPatientLoad != nil {
		doctor.CurrentPatientLoad = *req.CurrentPatientLoad
	}
	if req.MaxPatientCapacity != nil {
		doctor.MaxPatientCapacity = *req.MaxPatientCapacity
	}
	if req.EmergencyResponseRating != nil {
		doctor.EmergencyResponseRating = req.EmergencyResponseRating
	}
	if req.TraumaExperienceLevel != nil {
		doctor.TraumaExperienceLevel = *req.TraumaExperienceLevel
	}
	if req.PediatricQualified != nil {
		doctor.PediatricQualified = *req.PediatricQualified
	}
	if req.CardiacSpecialist != nil {
		doctor.CardiacSpecialist = *req.CardiacSpecialist
	}
	if req.SurgeryQualified != nil {
		doctor.SurgeryQualified = *req.SurgeryQualified
	}

	if doctor.CurrentPatientLoad > doctor.MaxPatientCapacity {
		return nil, apperrors.NewInvalidInput("current patient load cannot exceed capacity")
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewInternal(err)
	}
	s.logger.Info("doctor deleted", "doctor_id", id.String())
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return doctors, nil
}
