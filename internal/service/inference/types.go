package inference

import (
	"time"

	"github.com/meditriage/triage-api/internal/model"
)

// Wire shapes for the external scoring endpoint. Patients and doctors are
// sent as flat attribute sets; the endpoint answers with the same ranked /
// matches shapes the local engine produces.

type patientPayload struct {
	ID                         string    `json:"id"`
	Name                       string    `json:"name"`
	Age                        int       `json:"age"`
	ChiefComplaint             string    `json:"chief_complaint"`
	SeverityScore              int       `json:"severity_score"`
	TriageLevel                int       `json:"triage_level"`
	ArrivalTime                time.Time `json:"arrival_time"`
	RequiresImmediateAttention bool      `json:"requires_immediate_attention"`
	RequiresSpecialist         bool      `json:"requires_specialist"`
	RequiresTraumaSpecialist   bool      `json:"requires_trauma_specialist"`
	RequiresPediatricCare      bool      `json:"requires_pediatric_care"`
	RequiresCardiacSpecialist  bool      `json:"requires_cardiac_specialist"`
	RequiresSurgery            bool      `json:"requires_surgery"`
}

type doctorPayload struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	YearsExperience         int     `json:"years_experience"`
	AvailabilityStatus      string  `json:"availability_status"`
	CurrentPatientLoad      int     `json:"current_patient_load"`
	MaxPatientCapacity      int     `json:"max_patient_capacity"`
	EmergencyResponseRating float64 `json:"emergency_response_rating"`
	TraumaExperienceLevel   int     `json:"trauma_experience_level"`
	PediatricQualified      bool    `json:"pediatric_qualified"`
	CardiacSpecialist       bool    `json:"cardiac_specialist"`
	SurgeryQualified        bool    `json:"surgery_qualified"`
}

func toPatientPayloads(patients []*model.Patient) []patientPayload {
	out := make([]patientPayload, len(patients))
	for i, p := range patients {
		out[i] = patientPayload{
			ID:                         p.ID.String(),
			Name:                       p.Name,
			Age:                        p.Age,
			ChiefComplaint:             p.ChiefComplaint,
			SeverityScore:              p.SeverityScore,
			TriageLevel:                p.TriageLevel,
			ArrivalTime:                p.ArrivalTime,
			RequiresImmediateAttention: p.RequiresImmediateAttention,
			RequiresSpecialist:         p.RequiresSpecialist,
			RequiresTraumaSpecialist:   p.RequiresTraumaSpecialist,
			RequiresPediatricCare:      p.RequiresPediatricCare,
			RequiresCardiacSpecialist:  p.RequiresCardiacSpecialist,
			RequiresSurgery:            p.RequiresSurgery,
		}
	}
	return out
}

func toDoctorPayloads(doctors []*model.Doctor) []doctorPayload {
	out := make([]doctorPayload, len(doctors))
	for i, d := range doctors {
		out[i] = doctorPayload{
			ID:                      d.ID.String(),
			Name:                    d.Name,
			YearsExperience:         d.YearsExperience,
			AvailabilityStatus:      string(d.AvailabilityStatus),
			CurrentPatientLoad:      d.CurrentPatientLoad,
			MaxPatientCapacity:      d.MaxPatientCapacity,
			EmergencyResponseRating: d.ResponseRating(),
			TraumaExperienceLevel:   d.TraumaExperienceLevel,
			PediatricQualified:      d.PediatricQualified,
			CardiacSpecialist:       d.CardiacSpecialist,
			SurgeryQualified:        d.SurgeryQualified,
		}
	}
	return out
}

// predictRequest is the chat-completions shape the prediction endpoint
// expects for free-text tasks (mortality estimation, triage analysis).
type predictRequest struct {
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	RequestFormat string           `json:"@requestFormat"`
	Messages      []predictMessage `json:"messages"`
	MaxTokens     int              `json:"max_tokens"`
}

type predictMessage struct {
	Role    string           `json:"role"`
	Content []predictContent `json:"content"`
}

type predictContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type predictResponse struct {
	Predictions []struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	} `json:"predictions"`
}

func (r *predictResponse) text() string {
	if len(r.Predictions) == 0 || len(r.Predictions[0].Candidates) == 0 {
		return ""
	}
	parts := r.Predictions[0].Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

func newPredictRequest(system, user string, maxTokens int) predictRequest {
	return predictRequest{
		Instances: []predictInstance{{
			RequestFormat: "chatCompletions",
			Messages: []predictMessage{
				{Role: "system", Content: []predictContent{{Type: "text", Text: system}}},
				{Role: "user", Content: []predictContent{{Type: "text", Text: user}}},
			},
			MaxTokens: maxTokens,
		}},
	}
}
