package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditriage/triage-api/internal/config"
	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/pkg/logger"
)

func testClient(endpoint string) *Client {
	return NewClient(config.InferenceConfig{
		Endpoint:       endpoint,
		Token:          "test-token",
		TimeoutSeconds: 2,
		MaxFailures:    100,
	}, logger.NewLogger(nil))
}

func testPatients(n int) []*model.Patient {
	patients := make([]*model.Patient, n)
	for i := range patients {
		patients[i] = &model.Patient{
			Base:          model.Base{ID: uuid.New()},
			TriageLevel:   3,
			SeverityScore: 5,
			Age:           40,
			ArrivalTime:   time.Now(),
		}
	}
	return patients
}

func TestRankPatientsUnconfiguredClient(t *testing.T) {
	c := NewClient(config.InferenceConfig{}, logger.NewLogger(nil))
	_, err := c.RankPatients(context.Background(), testPatients(1))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRankPatientsSuccess(t *testing.T) {
	patients := testPatients(2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rank_patients", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ranked":[` +
			`{"patient_id":"` + patients[1].ID.String() + `","rank":1},` +
			`{"patient_id":"` + patients[0].ID.String() + `","rank":2}]}`))
	}))
	defer srv.Close()

	ranked, err := testClient(srv.URL).RankPatients(context.Background(), patients)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, patients[1].ID, ranked[0].PatientID)
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestRankPatientsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RankPatients(context.Background(), testPatients(1))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestRankPatientsEntryCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ranked":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).RankPatients(context.Background(), testPatients(2))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestMatchDoctorsSuccess(t *testing.T) {
	patients := testPatients(1)
	doctorID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match_doctors", r.URL.Path)
		w.Write([]byte(`{"matches":[{"patient_id":"` + patients[0].ID.String() +
			`","doctor_id":"` + doctorID.String() + `","score":85,"justification":"cardiac specialist match"}]}`))
	}))
	defer srv.Close()

	doctors := []*model.Doctor{{Base: model.Base{ID: doctorID}, AvailabilityStatus: model.DoctorAvailable, MaxPatientCapacity: 5}}
	matches, err := testClient(srv.URL).MatchDoctors(context.Background(), patients, doctors)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, doctorID, matches[0].DoctorID)
	assert.InDelta(t, 85, matches[0].Score, 0.001)
}

func TestPredictMortalityParsesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		w.Write([]byte(`{"predictions":[{"candidates":[{"content":{"parts":[{"text":"{\"pourcentage\": 75}"}]}}]}]}`))
	}))
	defer srv.Close()

	pct, err := testClient(srv.URL).PredictMortality(context.Background(), "age: 80, chief_complaint: sepsis")
	require.NoError(t, err)
	assert.Equal(t, 75, pct)
}

func TestPredictMortalityFallsBackToFirstInteger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[{"candidates":[{"content":{"parts":[{"text":"Estimated mortality risk is 42 percent."}]}}]}]}`))
	}))
	defer srv.Close()

	pct, err := testClient(srv.URL).PredictMortality(context.Background(), "description")
	require.NoError(t, err)
	assert.Equal(t, 42, pct)
}

func TestAnalyzeTriageParsesStructuredResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"stable\",\"urgency_level\":\"low\",\"red_flags\":[],\"recommended_actions\":[\"monitor vitals\"]}"}]}}]}]}`))
	}))
	defer srv.Close()

	p := testPatients(1)[0]
	analysis, err := testClient(srv.URL).AnalyzeTriage(context.Background(), p, "notes", model.Vitals{HeartRate: 70}, "")
	require.NoError(t, err)
	assert.Equal(t, "stable", analysis.Summary)
	assert.Equal(t, "low", analysis.UrgencyLevel)
	assert.Equal(t, []string{"monitor vitals"}, analysis.RecommendedActions)
}

func TestPredictURLAppendsVerbToResourcePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/endpoints/test:predict", r.URL.Path)
		w.Write([]byte(`{"predictions":[{"candidates":[{"content":{"parts":[{"text":"{\"pourcentage\": 10}"}]}}]}]}`))
	}))
	defer srv.Close()

	pct, err := testClient(srv.URL + "/v1/endpoints/test").PredictMortality(context.Background(), "description")
	require.NoError(t, err)
	assert.Equal(t, 10, pct)
}

func TestPredictURLPlainBaseUsesPredictRoute(t *testing.T) {
	c := testClient("http://127.0.0.1:9999")
	assert.Equal(t, "http://127.0.0.1:9999/predict", c.predictURL())

	c = testClient("http://127.0.0.1:9999/")
	assert.Equal(t, "http://127.0.0.1:9999/predict", c.predictURL())

	c = testClient("https://region-aiplatform.googleapis.com/v1/endpoints/triage")
	assert.Equal(t, "https://region-aiplatform.googleapis.com/v1/endpoints/triage:predict", c.predictURL())
}

func TestBreakerShortCircuitsAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.InferenceConfig{
		Endpoint:       srv.URL,
		Token:          "test-token",
		TimeoutSeconds: 2,
		MaxFailures:    2,
	}, logger.NewLogger(nil))

	_, err := c.RankPatients(context.Background(), testPatients(1))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	_, err = c.RankPatients(context.Background(), testPatients(1))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	// Third call is refused by the breaker without hitting the server.
	_, err = c.RankPatients(context.Background(), testPatients(1))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}
