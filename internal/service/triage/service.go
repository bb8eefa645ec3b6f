// Package triage orchestrates ranking and matching. It resolves records,
// tries the remote inference service first and falls back to the local
// scoring engine whenever the remote path fails for any reason. The response
// shape is identical either way; only the method field reveals provenance.
package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meditriage/triage-api/internal/email"
	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/repository"
	"github.com/meditriage/triage-api/internal/scoring"
	"github.com/meditriage/triage-api/internal/service/inference"
	"github.com/meditriage/triage-api/pkg/circuitbreaker"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
	"github.com/meditriage/triage-api/pkg/logger"
	"github.com/meditriage/triage-api/pkg/metrics"
)

const (
	opRank      = "rank"
	opMatch     = "match"
	opMortality = "mortality"
	opAnalysis  = "analysis"
)

// Inference is the remote scoring surface the service depends on. The
// concrete client lives in service/inference; tests substitute fakes.
type Inference interface {
	RankPatients(ctx context.Context, patients []*model.Patient) ([]model.RankedPatient, error)
	MatchDoctors(ctx context.Context, patients []*model.Patient, doctors []*model.Doctor) ([]model.DoctorMatch, error)
	PredictMortality(ctx context.Context, description string) (int, error)
	AnalyzeTriage(ctx context.Context, patient *model.Patient, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error)
}

// Servicer is the triage API used by the HTTP layer.
type Servicer interface {
	RankPatients(ctx context.Context, patientIDs []uuid.UUID) (*model.RankPatientsResponse, error)
	MatchDoctors(ctx context.Context, patientIDs, doctorIDs []uuid.UUID) (*model.MatchDoctorsResponse, error)
	PredictMortality(ctx context.Context, patientID uuid.UUID) (*model.MortalityResponse, error)
	AnalyzeTriage(ctx context.Context, patientID uuid.UUID, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error)
	ListAssignments(ctx context.Context) ([]*model.PatientAssignment, error)
}

type Service struct {
	patients    repository.PatientRepository
	doctors     repository.DoctorRepository
	assignments repository.AssignmentRepository
	outbox      repository.OutboxRepository
	inference   Inference
	engine      *scoring.Engine
	mailer      email.Service
	cache       *gocache.Cache
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	assignments repository.AssignmentRepository,
	outbox repository.OutboxRepository,
	inf Inference,
	engine *scoring.Engine,
	mailer email.Service,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		patients:    patients,
		doctors:     doctors,
		assignments: assignments,
		outbox:      outbox,
		inference:   inf,
		engine:      engine,
		mailer:      mailer,
		cache:       gocache.New(cacheTTL, 2*cacheTTL),
		metrics:     m,
		logger:      log,
	}
}

// RankPatients orders the given patients by clinical priority. The remote
// model is preferred; any remote failure degrades silently to the local
// priority formula.
func (s *Service) RankPatients(ctx context.Context, patientIDs []uuid.UUID) (*model.RankPatientsResponse, error) {
	if len(patientIDs) == 0 {
		return nil, apperrors.NewInvalidInput("at least one patient id is required")
	}

	patients, err := s.resolvePatients(ctx, patientIDs)
	if err != nil {
		return nil, err
	}

	method := model.MethodAI
	timer := prometheus.NewTimer(s.metrics.InferenceLatency.WithLabelValues(opRank))
	ranked, err := s.inference.RankPatients(ctx, patients)
	timer.ObserveDuration()

	if err != nil {
		s.metrics.InferenceRequests.WithLabelValues(opRank, "error").Inc()
		s.fallback(opRank, err)

		scoringTimer := prometheus.NewTimer(s.metrics.ScoringLatency.WithLabelValues(opRank))
		ranked, err = s.engine.Rank(patients, time.Now())
		scoringTimer.ObserveDuration()
		if err != nil {
			return nil, apperrors.NewInternal(err)
		}
		method = model.MethodLocal
	} else {
		s.metrics.InferenceRequests.WithLabelValues(opRank, "success").Inc()
	}

	s.metrics.PatientsRanked.Add(float64(len(ranked)))
	s.emitEvent(ctx, model.EventTriageRanked, map[string]interface{}{
		"ranked":         ranked,
		"total_patients": len(patients),
		"method":         method,
	})

	return &model.RankPatientsResponse{
		Ranked:        ranked,
		TotalPatients: len(patients),
		Method:        method,
	}, nil
}

// MatchDoctors assigns doctors to the given patients and persists the
// resulting assignments. Matched doctors with an email address are notified
// best effort.
func (s *Service) MatchDoctors(ctx context.Context, patientIDs, doctorIDs []uuid.UUID) (*model.MatchDoctorsResponse, error) {
	if len(patientIDs) == 0 {
		return nil, apperrors.NewInvalidInput("at least one patient id is required")
	}
	if len(doctorIDs) == 0 {
		return nil, apperrors.NewInvalidInput("at least one doctor id is required")
	}

	patients, err := s.resolvePatients(ctx, patientIDs)
	if err != nil {
		return nil, err
	}
	doctors, err := s.resolveDoctors(ctx, doctorIDs)
	if err != nil {
		return nil, err
	}

	method := model.MethodAI
	timer := prometheus.NewTimer(s.metrics.InferenceLatency.WithLabelValues(opMatch))
	matches, err := s.inference.MatchDoctors(ctx, patients, doctors)
	timer.ObserveDuration()

	if err != nil {
		s.metrics.InferenceRequests.WithLabelValues(opMatch, "error").Inc()
		s.fallback(opMatch, err)

		scoringTimer := prometheus.NewTimer(s.metrics.ScoringLatency.WithLabelValues(opMatch))
		matches, err = s.engine.MatchAll(patients, doctors, time.Now())
		scoringTimer.ObserveDuration()
		if err != nil {
			return nil, apperrors.NewInternal(err)
		}
		method = model.MethodLocal
	} else {
		s.metrics.InferenceRequests.WithLabelValues(opMatch, "success").Inc()
	}

	s.metrics.MatchesProduced.Add(float64(len(matches)))
	s.persistAssignments(ctx, matches)
	s.notifyDoctors(matches, patients, doctors)
	s.emitEvent(ctx, model.EventDoctorsMatched, map[string]interface{}{
		"matches": matches,
		"method":  method,
	})

	return &model.MatchDoctorsResponse{Matches: matches, Method: method}, nil
}

// PredictMortality asks the remote model for an ICU mortality percentage.
// There is no local substitute for this prediction, so remote failures are
// surfaced to the caller.
func (s *Service) PredictMortality(ctx context.Context, patientID uuid.UUID) (*model.MortalityResponse, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}

	description := fmt.Sprintf("patient_id: %s,\nfull_name: %s,\nage: %d,\nchief_complaint: %s",
		patient.ID, patient.Name, patient.Age, patient.ChiefComplaint)

	timer := prometheus.NewTimer(s.metrics.InferenceLatency.WithLabelValues(opMortality))
	percentage, err := s.inference.PredictMortality(ctx, description)
	timer.ObserveDuration()
	if err != nil {
		s.metrics.InferenceRequests.WithLabelValues(opMortality, "error").Inc()
		return nil, apperrors.NewRemoteService(err)
	}
	s.metrics.InferenceRequests.WithLabelValues(opMortality, "success").Inc()

	return &model.MortalityResponse{Percentage: percentage}, nil
}

// AnalyzeTriage produces a structured clinical summary for one case. Like
// mortality prediction this is remote-only.
func (s *Service) AnalyzeTriage(ctx context.Context, patientID uuid.UUID, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}

	timer := prometheus.NewTimer(s.metrics.InferenceLatency.WithLabelValues(opAnalysis))
	analysis, err := s.inference.AnalyzeTriage(ctx, patient, notes, vitals, image)
	timer.ObserveDuration()
	if err != nil {
		s.metrics.InferenceRequests.WithLabelValues(opAnalysis, "error").Inc()
		return nil, apperrors.NewRemoteService(err)
	}
	s.metrics.InferenceRequests.WithLabelValues(opAnalysis, "success").Inc()

	return analysis, nil
}

func (s *Service) ListAssignments(ctx context.Context) ([]*model.PatientAssignment, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return assignments, nil
}

// resolvePatients loads patients by ID, preferring the short-lived cache.
// IDs that resolve to nothing are skipped; the call fails only when the
// lookup itself fails or no patient at all could be resolved.
func (s *Service) resolvePatients(ctx context.Context, ids []uuid.UUID) ([]*model.Patient, error) {
	found := make(map[uuid.UUID]*model.Patient, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if cached, ok := s.cache.Get(patientKey(id)); ok {
			found[id] = cached.(*model.Patient)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := s.patients.GetByIDs(ctx, missing)
		if err != nil {
			s.metrics.DatabaseOperations.WithLabelValues("patients_lookup", "error").Inc()
			return nil, apperrors.NewLookupFailure("failed to load patients", err)
		}
		s.metrics.DatabaseOperations.WithLabelValues("patients_lookup", "success").Inc()
		for _, p := range fetched {
			found[p.ID] = p
			s.cache.SetDefault(patientKey(p.ID), p)
		}
	}

	patients := make([]*model.Patient, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			patients = append(patients, p)
		} else {
			s.logger.Warn("skipping unknown patient", "patient_id", id.String())
		}
	}
	if len(patients) == 0 {
		return nil, apperrors.NewLookupFailure("none of the requested patients exist", nil)
	}
	return patients, nil
}

func (s *Service) resolveDoctors(ctx context.Context, ids []uuid.UUID) ([]*model.Doctor, error) {
	found := make(map[uuid.UUID]*model.Doctor, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if cached, ok := s.cache.Get(doctorKey(id)); ok {
			found[id] = cached.(*model.Doctor)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := s.doctors.GetByIDs(ctx, missing)
		if err != nil {
			s.metrics.DatabaseOperations.WithLabelValues("doctors_lookup", "error").Inc()
			return nil, apperrors.NewLookupFailure("failed to load doctors", err)
		}
		s.metrics.DatabaseOperations.WithLabelValues("doctors_lookup", "success").Inc()
		for _, d := range fetched {
			found[d.ID] = d
			s.cache.SetDefault(doctorKey(d.ID), d)
		}
	}

	doctors := make([]*model.Doctor, 0, len(found))
	for _, id := range ids {
		if d, ok := found[id]; ok {
			doctors = append(doctors, d)
		} else {
			s.logger.Warn("skipping unknown doctor", "doctor_id", id.String())
		}
	}
	if len(doctors) == 0 {
		return nil, apperrors.NewLookupFailure("none of the requested doctors exist", nil)
	}
	return doctors, nil
}

// persistAssignments stores each match as an assignment record. A storage
// failure is logged but does not fail the matching call; the matches were
// already computed and the caller gets them regardless.
func (s *Service) persistAssignments(ctx context.Context, matches []model.DoctorMatch) {
	now := time.Now()
	for _, m := range matches {
		assignment := &model.PatientAssignment{
			PatientID:        m.PatientID,
			DoctorID:         m.DoctorID,
			MatchingScore:    m.Score,
			AssignmentReason: m.Justification,
			AssignedAt:       now,
		}
		assignment.ID = uuid.New()
		if err := s.assignments.Create(ctx, assignment); err != nil {
			s.logger.Error(err, "failed to persist assignment",
				"patient_id", m.PatientID.String(), "doctor_id", m.DoctorID.String())
		}
	}
}

func (s *Service) notifyDoctors(matches []model.DoctorMatch, patients []*model.Patient, doctors []*model.Doctor) {
	if s.mailer == nil {
		return
	}

	patientByID := make(map[uuid.UUID]*model.Patient, len(patients))
	for _, p := range patients {
		patientByID[p.ID] = p
	}
	doctorByID := make(map[uuid.UUID]*model.Doctor, len(doctors))
	for _, d := range doctors {
		doctorByID[d.ID] = d
	}

	for _, m := range matches {
		doctor, patient := doctorByID[m.DoctorID], patientByID[m.PatientID]
		if doctor == nil || patient == nil || doctor.Email == nil {
			continue
		}
		if err := s.mailer.SendAssignmentNotification(*doctor.Email, doctor, patient, m.Justification); err != nil {
			s.logger.Error(err, "failed to notify doctor", "doctor_id", m.DoctorID.String())
		}
	}
}

func (s *Service) emitEvent(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   body,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to write outbox event", "event_type", eventType)
	}
}

func (s *Service) fallback(operation string, err error) {
	reason := fallbackReason(err)
	s.metrics.FallbackTotal.WithLabelValues(operation, reason).Inc()
	s.logger.Warn("remote inference unavailable, using local engine",
		"operation", operation, "reason", reason, "error", err.Error())
}

// fallbackReason classifies a remote failure for the fallback counter.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, inference.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, circuitbreaker.ErrOpen):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, inference.ErrUnexpectedStatus):
		return "bad_status"
	case errors.Is(err, inference.ErrMalformedResponse):
		return "malformed"
	default:
		return "transport"
	}
}

func patientKey(id uuid.UUID) string { return "patient:" + id.String() }
func doctorKey(id uuid.UUID) string  { return "doctor:" + id.String() }
