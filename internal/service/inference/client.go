// Package inference is the client for the external AI scoring service.
// Every method can fail for mundane reasons (no credentials, timeout,
// non-2xx, malformed payload); callers are expected to recover with the
// local scoring engine and must never surface these failures on their own.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/config"
	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/pkg/circuitbreaker"
	"github.com/meditriage/triage-api/pkg/logger"
)

// Standard errors for inference operations
var (
	// ErrNotConfigured is returned when no endpoint or token is configured
	ErrNotConfigured = errors.New("inference service not configured")

	// ErrUnexpectedStatus is returned on a non-2xx response
	ErrUnexpectedStatus = errors.New("inference service returned unexpected status")

	// ErrMalformedResponse is returned when the response body cannot be parsed
	ErrMalformedResponse = errors.New("inference service returned malformed response")
)

const (
	defaultMaxFailures      = 3
	mortalityMaxTokens      = 200
	analysisMaxTokens       = 500
	mortalitySystemPrompt   = "You are an expert system that analyzes patient data to predict ICU mortality risk. Return a JSON response with the percentage of the patient dying. You must respond in exact schema as in the example: {'pourcentage': 75}"
	analysisSystemPrompt    = "You are the AI backend for a hospital emergency room triage assistant. You receive patient data including clinical notes, vital signs, and optionally a medical image. Summarize the patient condition, estimate urgency level (low, moderate, high, or critical), identify clinical red flags, and recommend next actions. Return a structured JSON response with the fields: summary, urgency_level, red_flags, recommended_actions."
	mortalityDigitsFallback = `(\d+)`
)

var digitsRe = regexp.MustCompile(mortalityDigitsFallback)

// Client talks to a Vertex-style prediction endpoint. The circuit breaker
// keeps a dead endpoint from adding its full timeout to every call.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	cb       *circuitbreaker.CircuitBreaker
	logger   *logger.Logger
}

func NewClient(cfg config.InferenceConfig, log *logger.Logger) *Client {
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}

	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http: &http.Client{
			Timeout: cfg.Timeout(),
		},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "inference",
			MaxFailures: maxFailures,
			Timeout:     30 * time.Second,
		}),
		logger: log,
	}
}

// RankPatients delegates priority ranking to the remote service.
func (c *Client) RankPatients(ctx context.Context, patients []*model.Patient) ([]model.RankedPatient, error) {
	payload := map[string]interface{}{
		"patients": toPatientPayloads(patients),
	}

	var resp struct {
		Ranked []struct {
			PatientID string `json:"patient_id"`
			Rank      int    `json:"rank"`
		} `json:"ranked"`
	}
	if err := c.post(ctx, c.endpoint+"/rank_patients", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.Ranked) != len(patients) {
		return nil, fmt.Errorf("%w: got %d ranked entries for %d patients", ErrMalformedResponse, len(resp.Ranked), len(patients))
	}

	ranked := make([]model.RankedPatient, len(resp.Ranked))
	for i, r := range resp.Ranked {
		id, err := uuid.Parse(r.PatientID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad patient id %q", ErrMalformedResponse, r.PatientID)
		}
		ranked[i] = model.RankedPatient{PatientID: id, Rank: r.Rank}
	}
	return ranked, nil
}

// MatchDoctors delegates doctor matching to the remote service.
func (c *Client) MatchDoctors(ctx context.Context, patients []*model.Patient, doctors []*model.Doctor) ([]model.DoctorMatch, error) {
	payload := map[string]interface{}{
		"patients": toPatientPayloads(patients),
		"doctors":  toDoctorPayloads(doctors),
	}

	var resp struct {
		Matches []struct {
			PatientID     string  `json:"patient_id"`
			DoctorID      string  `json:"doctor_id"`
			Score         float64 `json:"score"`
			Justification string  `json:"justification"`
		} `json:"matches"`
	}
	if err := c.post(ctx, c.endpoint+"/match_doctors", payload, &resp); err != nil {
		return nil, err
	}

	matches := make([]model.DoctorMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		patientID, err := uuid.Parse(m.PatientID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad patient id %q", ErrMalformedResponse, m.PatientID)
		}
		doctorID, err := uuid.Parse(m.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad doctor id %q", ErrMalformedResponse, m.DoctorID)
		}
		matches[i] = model.DoctorMatch{
			PatientID:     patientID,
			DoctorID:      doctorID,
			Score:         m.Score,
			Justification: m.Justification,
		}
	}
	return matches, nil
}

// PredictMortality asks the model for an ICU mortality percentage based on
// a free-text patient description.
func (c *Client) PredictMortality(ctx context.Context, description string) (int, error) {
	req := newPredictRequest(
		mortalitySystemPrompt,
		fmt.Sprintf("Here is the description of the patient:\n%s", description),
		mortalityMaxTokens,
	)

	var resp predictResponse
	if err := c.post(ctx, c.predictURL(), req, &resp); err != nil {
		return 0, err
	}

	text := resp.text()
	if text == "" {
		return 0, fmt.Errorf("%w: empty prediction", ErrMalformedResponse)
	}

	// The model is asked for {'pourcentage': N}; fall back to the first
	// integer in the raw text when it does not comply.
	var parsed struct {
		Pourcentage int `json:"pourcentage"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed.Pourcentage, nil
	}
	if m := digitsRe.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n, nil
		}
	}
	return 0, nil
}

// AnalyzeTriage asks the model for a structured triage summary of one case.
func (c *Client) AnalyzeTriage(ctx context.Context, patient *model.Patient, notes string, vitals model.Vitals, image string) (*model.TriageAnalysis, error) {
	caseText := fmt.Sprintf(
		"Patient Information:\n- Name: %s\n- Age: %d\n- Chief Complaint: %s\n\nVital Signs:\n- Heart Rate: %d bpm\n- Blood Pressure: %s\n- Oxygen Saturation: %d%%\n- Temperature: %.1f C\n- GCS: %d\n\nClinical Notes: %s\n%s",
		patient.Name,
		patient.Age,
		patient.ChiefComplaint,
		vitals.HeartRate,
		vitals.BloodPressure,
		vitals.OxygenSaturation,
		vitals.Temperature,
		vitals.GlasgowComaScale,
		notes,
		imageNote(image),
	)

	req := newPredictRequest(analysisSystemPrompt, caseText, analysisMaxTokens)

	var resp predictResponse
	if err := c.post(ctx, c.predictURL(), req, &resp); err != nil {
		return nil, err
	}

	text := resp.text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty prediction", ErrMalformedResponse)
	}

	var analysis model.TriageAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if analysis.UrgencyLevel == "" {
		analysis.UrgencyLevel = "low"
	}
	return &analysis, nil
}

// predictURL builds the free-text prediction URL. Vertex endpoints carry a
// resource path and take the ":predict" verb suffix; a bare scheme://host
// base cannot (the colon would be read as part of the port), so those get a
// /predict route alongside /rank_patients and /match_doctors.
func (c *Client) predictURL() string {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Path == "" || u.Path == "/" {
		return strings.TrimSuffix(c.endpoint, "/") + "/predict"
	}
	return c.endpoint + ":predict"
}

func imageNote(image string) string {
	if image != "" {
		return "Medical image provided for analysis."
	}
	return "No medical image provided."
}

func (c *Client) post(ctx context.Context, url string, payload, out interface{}) error {
	if c.endpoint == "" || c.token == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	return c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build inference request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("inference request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			c.logger.Debug("inference error response", "status", resp.StatusCode, "body", string(snippet))
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil
	})
}
