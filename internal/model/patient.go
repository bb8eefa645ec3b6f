package model

import (
	"time"
)

type AdmissionStatus string

const (
	AdmissionStatusWaiting          AdmissionStatus = "waiting"
	AdmissionStatusInTreatment      AdmissionStatus = "in-treatment"
	AdmissionStatusUnderObservation AdmissionStatus = "under-observation"
	AdmissionStatusDischarged       AdmissionStatus = "discharged"
	AdmissionStatusTransferred      AdmissionStatus = "transferred"
)

// Patient is an emergency-department intake record. The scoring engine
// treats it as read-only; clinical staff mutate it through the CRUD API.
//
// TriageLevel uses the inverse clinical scale: 1 is most urgent, 5 least.
// SeverityScore is direct: 10 is most severe. Optional vitals are pointers;
// absent values contribute nothing to scoring.
type Patient struct {
	Base
	Name              string  `db:"name" json:"name"`
	Age               int     `db:"age" json:"age"`
	Gender            *string `db:"gender" json:"gender,omitempty"`
	ChiefComplaint    string  `db:"chief_complaint" json:"chief_complaint"`
	ConditionCategory *string `db:"condition_category" json:"condition_category,omitempty"`
	SeverityScore     int     `db:"severity_score" json:"severity_score"`
	TriageLevel       int     `db:"triage_level" json:"triage_level"`

	HeartRate             *int     `db:"heart_rate" json:"heart_rate,omitempty"`
	BloodPressureSystolic *int     `db:"blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	OxygenSaturation      *int     `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	TemperatureCelsius    *float64 `db:"temperature_celsius" json:"temperature_celsius,omitempty"`
	GlasgowComaScale      *int     `db:"glasgow_coma_scale" json:"glasgow_coma_scale,omitempty"`

	ArrivalTime                time.Time       `db:"arrival_time" json:"arrival_time"`
	RequiresImmediateAttention bool            `db:"requires_immediate_attention" json:"requires_immediate_attention"`
	RequiresSpecialist         bool            `db:"requires_specialist" json:"requires_specialist"`
	RequiresTraumaSpecialist   bool            `db:"requires_trauma_specialist" json:"requires_trauma_specialist"`
	RequiresPediatricCare      bool            `db:"requires_pediatric_care" json:"requires_pediatric_care"`
	RequiresCardiacSpecialist  bool            `db:"requires_cardiac_specialist" json:"requires_cardiac_specialist"`
	RequiresSurgery            bool            `db:"requires_surgery" json:"requires_surgery"`
	AdmissionStatus            AdmissionStatus `db:"admission_status" json:"admission_status"`
}

type CreatePatientRequest struct {
	Name              string  `json:"name" binding:"required"`
	Age               int     `json:"age" binding:"min=0"`
	Gender            *string `json:"gender" binding:"omitempty,oneof=Male Female Other 'Prefer not to say'"`
	ChiefComplaint    string  `json:"chief_complaint" binding:"required"`
	ConditionCategory *string `json:"condition_category"`
	SeverityScore     int     `json:"severity_score" binding:"required,min=1,max=10"`
	TriageLevel       int     `json:"triage_level" binding:"required,min=1,max=5"`

	HeartRate             *int     `json:"heart_rate"`
	BloodPressureSystolic *int     `json:"blood_pressure_systolic"`
	OxygenSaturation      *int     `json:"oxygen_saturation" binding:"omitempty,min=0,max=100"`
	TemperatureCelsius    *float64 `json:"temperature_celsius"`
	GlasgowComaScale      *int     `json:"glasgow_coma_scale" binding:"omitempty,min=3,max=15"`

	ArrivalTime                time.Time `json:"arrival_time" binding:"required,notfuture"`
	RequiresImmediateAttention bool      `json:"requires_immediate_attention"`
	RequiresSpecialist         bool      `json:"requires_specialist"`
	RequiresTraumaSpecialist   bool      `json:"requires_trauma_specialist"`
	RequiresPediatricCare      bool      `json:"requires_pediatric_care"`
	RequiresCardiacSpecialist  bool      `json:"requires_cardiac_specialist"`
	RequiresSurgery            bool      `json:"requires_surgery"`
}

type UpdatePatientRequest struct {
	Name                       *string          `json:"name"`
	Age                        *int             `json:"age" binding:"omitempty,min=0"`
	ChiefComplaint             *string          `json:"chief_complaint"`
	SeverityScore              *int             `json:"severity_score" binding:"omitempty,min=1,max=10"`
	TriageLevel                *int             `json:"triage_level" binding:"omitempty,min=1,max=5"`
	RequiresImmediateAttention *bool            `json:"requires_immediate_attention"`
	RequiresSpecialist         *bool            `json:"requires_specialist"`
	RequiresTraumaSpecialist   *bool            `json:"requires_trauma_specialist"`
	RequiresPediatricCare      *bool            `json:"requires_pediatric_care"`
	RequiresCardiacSpecialist  *bool            `json:"requires_cardiac_specialist"`
	RequiresSurgery            *bool            `json:"requires_surgery"`
	AdmissionStatus            *AdmissionStatus `json:"admission_status" binding:"omitempty,oneof=waiting in-treatment under-observation discharged transferred"`
}
