package model

import "github.com/google/uuid"

// Method values recorded on ranking/matching responses. Callers must not
// depend on which method produced a result, only on its shape.
const (
	MethodAI    = "ai"
	MethodLocal = "local"
)

// Triage event types written to the outbox.
const (
	EventTriageRanked   = "TRIAGE_RANKED"
	EventDoctorsMatched = "DOCTORS_MATCHED"
)

type RankPatientsRequest struct {
	PatientIDs []string `json:"patient_ids" binding:"required,min=1"`
}

// RankedPatient is one entry of a ranking result. Rank is dense, 1-based
// and unique within a result.
type RankedPatient struct {
	PatientID uuid.UUID `json:"patient_id"`
	Rank      int       `json:"rank"`
}

type RankPatientsResponse struct {
	Ranked        []RankedPatient `json:"ranked"`
	TotalPatients int             `json:"total_patients"`
	Method        string          `json:"method"`
}

type MatchDoctorsRequest struct {
	PatientIDs []string `json:"patient_ids" binding:"required,min=1"`
	DoctorIDs  []string `json:"doctor_ids" binding:"required,min=1"`
}

// DoctorMatch is one provisional assignment. A patient with no eligible
// doctor is simply absent from the result set.
type DoctorMatch struct {
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Score         float64   `json:"score"`
	Justification string    `json:"justification"`
}

type MatchDoctorsResponse struct {
	Matches []DoctorMatch `json:"matches"`
	Method  string        `json:"method"`
}

type MortalityRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
}

type MortalityResponse struct {
	Percentage int `json:"percentage"`
}

type Vitals struct {
	HeartRate        int     `json:"heart_rate"`
	BloodPressure    string  `json:"blood_pressure"`
	OxygenSaturation int     `json:"oxygen_saturation"`
	Temperature      float64 `json:"temperature"`
	GlasgowComaScale int     `json:"gcs"`
}

type TriageAnalysisRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	Notes     string `json:"notes"`
	Vitals    Vitals `json:"vitals"`
	Image     string `json:"image,omitempty"`
}

type TriageAnalysis struct {
	Summary            string   `json:"summary"`
	UrgencyLevel       string   `json:"urgency_level"`
	RedFlags           []string `json:"red_flags"`
	RecommendedActions []string `json:"recommended_actions"`
}
