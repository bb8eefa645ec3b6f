package model

import (
	"time"

	"github.com/google/uuid"
)

// PatientAssignment is a persisted doctor match. The matcher produces these
// provisionally; persistence is the data store's responsibility.
type PatientAssignment struct {
	Base
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID         uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	MatchingScore    float64    `db:"matching_score" json:"matching_score"`
	AssignmentReason string     `db:"assignment_reason" json:"assignment_reason"`
	AssignedAt       time.Time  `db:"assigned_at" json:"assigned_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
