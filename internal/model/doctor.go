package model

type AvailabilityStatus string

const (
	DoctorAvailable AvailabilityStatus = "available"
	DoctorBusy      AvailabilityStatus = "busy"
	DoctorOffDuty   AvailabilityStatus = "off-duty"
	DoctorOnCall    AvailabilityStatus = "on-call"
)

// Doctor is a staff record. Only doctors with status "available" and spare
// capacity are considered by the matcher. EmergencyResponseRating is nullable
// in the store and treated as 0 when absent.
type Doctor struct {
	Base
	EmployeeID              string             `db:"employee_id" json:"employee_id"`
	Name                    string             `db:"name" json:"name"`
	Email                   *string            `db:"email" json:"email,omitempty"`
	YearsExperience         int                `db:"years_experience" json:"years_experience"`
	AvailabilityStatus      AvailabilityStatus `db:"availability_status" json:"availability_status"`
	CurrentPatientLoad      int                `db:"current_patient_load" json:"current_patient_load"`
	MaxPatientCapacity      int                `db:"max_patient_capacity" json:"max_patient_capacity"`
	EmergencyResponseRating *float64           `db:"emergency_response_rating" json:"emergency_response_rating,omitempty"`
	TraumaExperienceLevel   int                `db:"trauma_experience_level" json:"trauma_experience_level"`
	PediatricQualified      bool               `db:"pediatric_qualified" json:"pediatric_qualified"`
	CardiacSpecialist       bool               `db:"cardiac_specialist" json:"cardiac_specialist"`
	SurgeryQualified        bool               `db:"surgery_qualified" json:"surgery_qualified"`
}

// ResponseRating returns the emergency response rating, defaulting to 0
// when the field is absent.
func (d *Doctor) ResponseRating() float64 {
	if d.EmergencyResponseRating == nil {
		return 0
	}
	return *d.EmergencyResponseRating
}

type CreateDoctorRequest struct {
	EmployeeID              string             `json:"employee_id" binding:"required"`
	Name                    string             `json:"name" binding:"required"`
	Email                   *string            `json:"email" binding:"omitempty,email"`
	YearsExperience         int                `json:"years_experience" binding:"min=0"`
	AvailabilityStatus      AvailabilityStatus `json:"availability_status" binding:"required,oneof=available busy off-duty on-call"`
	CurrentPatientLoad      int                `json:"current_patient_load" binding:"min=0"`
	MaxPatientCapacity      int                `json:"max_patient_capacity" binding:"required,min=1"`
	EmergencyResponseRating *float64           `json:"emergency_response_rating" binding:"omitempty,min=0,max=5"`
	TraumaExperienceLevel   int                `json:"trauma_experience_level" binding:"min=0,max=5"`
	PediatricQualified      bool               `json:"pediatric_qualified"`
	CardiacSpecialist       bool               `json:"cardiac_specialist"`
	SurgeryQualified        bool               `json:"surgery_qualified"`
}

type UpdateDoctorRequest struct {
	Name                    *string             `json:"name"`
	Email                   *string             `json:"email" binding:"omitempty,email"`
	YearsExperience         *int                `json:"years_experience" binding:"omitempty,min=0"`
	AvailabilityStatus      *AvailabilityStatus `json:"availability_status" binding:"omitempty,oneof=available busy off-duty on-call"`
	CurrentPatientLoad      *int                `json:"current_patient_load" binding:"omitempty,min=0"`
	MaxPatientCapacity      *int                `json:"max_patient_capacity" binding:"omitempty,min=1"`
	EmergencyResponseRating *float64            `json:"emergency_response_rating" binding:"omitempty,min=0,max=5"`
	TraumaExperienceLevel   *int                `json:"trauma_experience_level" binding:"omitempty,min=0,max=5"`
	PediatricQualified      *bool               `json:"pediatric_qualified"`
	CardiacSpecialist       *bool               `json:"cardiac_specialist"`
	SurgeryQualified        *bool               `json:"surgery_qualified"`
}
