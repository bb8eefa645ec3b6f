package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditriage/triage-api/internal/model"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
)

type servicerStub struct {
	rank        func(ctx context.Context, ids []uuid.UUID) (*model.RankPatientsResponse, error)
	match       func(ctx context.Context, patientIDs, doctorIDs []uuid.UUID) (*model.MatchDoctorsResponse, error)
	mortality   func(ctx context.Context, id uuid.UUID) (*model.MortalityResponse, error)
	analyze     func(ctx context.Context, id uuid.UUID, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error)
	assignments func(ctx context.Context) ([]*model.PatientAssignment, error)
}

func (s *servicerStub) RankPatients(ctx context.Context, ids []uuid.UUID) (*model.RankPatientsResponse, error) {
	return s.rank(ctx, ids)
}

func (s *servicerStub) MatchDoctors(ctx context.Context, patientIDs, doctorIDs []uuid.UUID) (*model.MatchDoctorsResponse, error) {
	return s.match(ctx, patientIDs, doctorIDs)
}

func (s *servicerStub) PredictMortality(ctx context.Context, id uuid.UUID) (*model.MortalityResponse, error) {
	return s.mortality(ctx, id)
}

func (s *servicerStub) AnalyzeTriage(ctx context.Context, id uuid.UUID, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error) {
	return s.analyze(ctx, id, notes, vitals, image)
}

func (s *servicerStub) ListAssignments(ctx context.Context) ([]*model.PatientAssignment, error) {
	return s.assignments(ctx)
}

func setupRouter(stub *servicerStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(stub).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRankPatientsEndpoint(t *testing.T) {
	id := uuid.New()
	stub := &servicerStub{
		rank: func(_ context.Context, ids []uuid.UUID) (*model.RankPatientsResponse, error) {
			require.Equal(t, []uuid.UUID{id}, ids)
			return &model.RankPatientsResponse{
				Ranked:        []model.RankedPatient{{PatientID: id, Rank: 1}},
				TotalPatients: 1,
				Method:        model.MethodLocal,
			}, nil
		},
	}
	r := setupRouter(stub)

	w := postJSON(t, r, "/api/v1/triage/rank", model.RankPatientsRequest{
		PatientIDs: []string{id.String()},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"method":"local"`)
	assert.Contains(t, w.Body.String(), `"rank":1`)
}

func TestRankPatientsEndpointRejectsEmptyBody(t *testing.T) {
	r := setupRouter(&servicerStub{})

	w := postJSON(t, r, "/api/v1/triage/rank", map[string]interface{}{"patient_ids": []string{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankPatientsEndpointRejectsMalformedID(t *testing.T) {
	r := setupRouter(&servicerStub{})

	w := postJSON(t, r, "/api/v1/triage/rank", model.RankPatientsRequest{
		PatientIDs: []string{"not-a-uuid"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not-a-uuid")
}

func TestMatchDoctorsEndpoint(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	stub := &servicerStub{
		match: func(_ context.Context, patientIDs, doctorIDs []uuid.UUID) (*model.MatchDoctorsResponse, error) {
			return &model.MatchDoctorsResponse{
				Matches: []model.DoctorMatch{{
					PatientID:     patientIDs[0],
					DoctorID:      doctorIDs[0],
					Score:         75,
					Justification: "cardiac specialist match",
				}},
				Method: model.MethodAI,
			}, nil
		},
	}
	r := setupRouter(stub)

	w := postJSON(t, r, "/api/v1/triage/match", model.MatchDoctorsRequest{
		PatientIDs: []string{patientID.String()},
		DoctorIDs:  []string{doctorID.String()},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"method":"ai"`)
	assert.Contains(t, w.Body.String(), "cardiac specialist match")
}

func TestMatchDoctorsEndpointLookupFailure(t *testing.T) {
	stub := &servicerStub{
		match: func(_ context.Context, _, _ []uuid.UUID) (*model.MatchDoctorsResponse, error) {
			return nil, apperrors.NewLookupFailure("failed to load patients", fmt.Errorf("connection refused"))
		},
	}
	r := setupRouter(stub)

	w := postJSON(t, r, "/api/v1/triage/match", model.MatchDoctorsRequest{
		PatientIDs: []string{uuid.NewString()},
		DoctorIDs:  []string{uuid.NewString()},
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestPredictMortalityEndpoint(t *testing.T) {
	stub := &servicerStub{
		mortality: func(_ context.Context, _ uuid.UUID) (*model.MortalityResponse, error) {
			return &model.MortalityResponse{Percentage: 63}, nil
		},
	}
	r := setupRouter(stub)

	w := postJSON(t, r, "/api/v1/triage/mortality", model.MortalityRequest{
		PatientID: uuid.NewString(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"percentage":63`)
}

func TestAnalyzeTriageEndpoint(t *testing.T) {
	stub := &servicerStub{
		analyze: func(_ context.Context, _ uuid.UUID, notes string, _ model.Vitals, _ string) (*model.TriageAnalysis, error) {
			require.Equal(t, "pale and sweating", notes)
			return &model.TriageAnalysis{Summary: "suspected MI", UrgencyLevel: "critical"}, nil
		},
	}
	r := setupRouter(stub)

	w := postJSON(t, r, "/api/v1/triage/analysis", model.TriageAnalysisRequest{
		PatientID: uuid.NewString(),
		Notes:     "pale and sweating",
		Vitals:    model.Vitals{HeartRate: 120},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"urgency_level":"critical"`)
}

func TestListAssignmentsEndpoint(t *testing.T) {
	stub := &servicerStub{
		assignments: func(_ context.Context) ([]*model.PatientAssignment, error) {
			a := &model.PatientAssignment{PatientID: uuid.New(), DoctorID: uuid.New(), MatchingScore: 50}
			return []*model.PatientAssignment{a}, nil
		},
	}
	r := setupRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"matching_score":50`)
}
