package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditriage/triage-api/internal/model"
)

func availableDoctor(load, capacity int) *model.Doctor {
	return &model.Doctor{
		Base:               model.Base{ID: uuid.New()},
		AvailabilityStatus: model.DoctorAvailable,
		CurrentPatientLoad: load,
		MaxPatientCapacity: capacity,
	}
}

func TestMatchScoreCardiacWithOptimalWorkload(t *testing.T) {
	p := &model.Patient{
		Age:                       45,
		TriageLevel:               3,
		SeverityScore:             6,
		RequiresCardiacSpecialist: true,
		RequiresPediatricCare:     true,
	}
	d := availableDoctor(5, 10)
	d.CardiacSpecialist = true
	d.YearsExperience = 8

	result := testEngine().MatchScore(p, d)

	// 40 cardiac + (5/10)*20 workload; pediatric clause does not fire.
	assert.InDelta(t, 50, result.Score, 0.001)
	assert.Contains(t, result.Justification, "cardiac specialist match")
	assert.Contains(t, result.Justification, "optimal workload")
}

func TestMatchScoreClausesStack(t *testing.T) {
	rating := 4.0
	p := &model.Patient{
		Age:                       10,
		TriageLevel:               1,
		SeverityScore:             9,
		RequiresPediatricCare:     true,
		RequiresSurgery:           true,
		RequiresTraumaSpecialist:  true,
		RequiresCardiacSpecialist: true,
	}
	d := availableDoctor(0, 10)
	d.CardiacSpecialist = true
	d.PediatricQualified = true
	d.SurgeryQualified = true
	d.TraumaExperienceLevel = 5
	d.YearsExperience = 12
	d.EmergencyResponseRating = &rating

	result := testEngine().MatchScore(p, d)

	// 40 + 40 + 35 + 35 + 12*2 + 4*10 + 20 + 25, all firing independently.
	assert.InDelta(t, 259, result.Score, 0.001)
	assert.Contains(t, result.Justification, "pediatric care match")
	assert.Contains(t, result.Justification, "pediatric qualified for young patient")
}

func TestMatchScoreTraumaNeedsLevelFour(t *testing.T) {
	p := &model.Patient{Age: 40, TriageLevel: 3, SeverityScore: 5, RequiresTraumaSpecialist: true}

	junior := availableDoctor(0, 10)
	junior.TraumaExperienceLevel = 3
	senior := availableDoctor(0, 10)
	senior.TraumaExperienceLevel = 4

	e := testEngine()
	assert.NotContains(t, e.MatchScore(p, junior).Justification, "trauma")
	assert.Contains(t, e.MatchScore(p, senior).Justification, "trauma expertise match")
	assert.InDelta(t, 35, e.MatchScore(p, senior).Score-e.MatchScore(p, junior).Score, 0.001)
}

func TestMatchScoreNilRatingTreatedAsZero(t *testing.T) {
	p := &model.Patient{Age: 40, TriageLevel: 1, SeverityScore: 5}
	d := availableDoctor(0, 10)

	result := testEngine().MatchScore(p, d)

	// The nil rating contributes nothing; only the workload term fires.
	assert.InDelta(t, 20, result.Score, 0.001)
	assert.Equal(t, "optimal workload", result.Justification)
}

func TestMatchScoreGenericJustification(t *testing.T) {
	p := &model.Patient{Age: 40, TriageLevel: 3, SeverityScore: 5}

	// 80% loaded: above the optimal-workload threshold, so no specific
	// reason fires but the capacity term still yields points.
	d := availableDoctor(8, 10)

	result := testEngine().MatchScore(p, d)
	assert.InDelta(t, 4, result.Score, 0.001)
	assert.Equal(t, "general availability and experience match", result.Justification)
}

func TestMatchScoreNeverNegative(t *testing.T) {
	p := &model.Patient{Age: 40, TriageLevel: 4, SeverityScore: 2}
	d := availableDoctor(10, 10)

	result := testEngine().MatchScore(p, d)
	assert.GreaterOrEqual(t, result.Score, 0.0)
}

func TestMatchAllEmptyPatientsFails(t *testing.T) {
	_, err := testEngine().MatchAll(nil, []*model.Doctor{availableDoctor(0, 5)}, time.Now())
	assert.ErrorIs(t, err, ErrNoPatients)
}

func TestMatchAllHigherPriorityWinsContendedDoctor(t *testing.T) {
	now := time.Now()

	urgent := patientWith(1, 9, 70, now.Add(-time.Hour))
	urgent.RequiresImmediateAttention = true
	stable := patientWith(4, 3, 30, now)

	// One doctor with a single free slot; input order puts the stable
	// patient first to prove ordering is by priority, not input.
	doctor := availableDoctor(0, 1)
	doctor.YearsExperience = 5

	matches, err := testEngine().MatchAll([]*model.Patient{stable, urgent}, []*model.Doctor{doctor}, now)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, urgent.ID, matches[0].PatientID)
	assert.Equal(t, doctor.ID, matches[0].DoctorID)
}

func TestMatchAllNeverExceedsCapacity(t *testing.T) {
	now := time.Now()
	var patients []*model.Patient
	for i := 0; i < 6; i++ {
		patients = append(patients, patientWith(2, 7, 40, now))
	}
	a := availableDoctor(0, 2)
	b := availableDoctor(1, 3)

	matches, err := testEngine().MatchAll(patients, []*model.Doctor{a, b}, now)
	require.NoError(t, err)

	assigned := make(map[uuid.UUID]int)
	for _, m := range matches {
		assigned[m.DoctorID]++
	}
	assert.LessOrEqual(t, assigned[a.ID], 2)
	assert.LessOrEqual(t, assigned[b.ID], 2, "doctor b started with one patient of three")
	assert.Len(t, matches, 4)
}

func TestMatchAllSkipsPatientsWithNoEligibleDoctor(t *testing.T) {
	now := time.Now()
	p := patientWith(1, 9, 70, now)

	busy := availableDoctor(0, 5)
	busy.AvailabilityStatus = model.DoctorBusy
	full := availableDoctor(5, 5)

	matches, err := testEngine().MatchAll([]*model.Patient{p}, []*model.Doctor{busy, full}, now)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchAllDoesNotMutateDoctorRecords(t *testing.T) {
	now := time.Now()
	patients := []*model.Patient{patientWith(2, 7, 40, now), patientWith(2, 7, 40, now)}
	doctor := availableDoctor(0, 5)

	_, err := testEngine().MatchAll(patients, []*model.Doctor{doctor}, now)
	require.NoError(t, err)

	assert.Equal(t, 0, doctor.CurrentPatientLoad, "load ledger must be per-call, not in-place")
}

func TestMatchAllProvisionalLoadReducesWorkloadTerm(t *testing.T) {
	now := time.Now()
	patients := []*model.Patient{patientWith(2, 7, 40, now), patientWith(3, 5, 40, now)}

	// Two identical doctors; after the first assignment the second patient
	// should prefer the still-empty one because of the workload term.
	a := availableDoctor(0, 10)
	b := availableDoctor(0, 10)

	matches, err := testEngine().MatchAll(patients, []*model.Doctor{a, b}, now)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, a.ID, matches[0].DoctorID, "ties break toward input order")
	assert.Equal(t, b.ID, matches[1].DoctorID)
}

func TestMatchAllOrdersDuplicateIDsByOwnPriority(t *testing.T) {
	now := time.Now()

	// Two entries sharing an ID but with very different priorities. Each
	// must be ordered by its own score, so the urgent cardiac case gets the
	// single slot even though the stable entry comes first in the input.
	stable := patientWith(5, 1, 30, now)
	urgent := patientWith(1, 10, 70, now.Add(-time.Hour))
	urgent.RequiresImmediateAttention = true
	urgent.RequiresCardiacSpecialist = true
	urgent.ID = stable.ID

	doctor := availableDoctor(0, 1)
	doctor.CardiacSpecialist = true

	matches, err := testEngine().MatchAll([]*model.Patient{stable, urgent}, []*model.Doctor{doctor}, now)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].Justification, "cardiac specialist match")
}

func TestMatchAllTieBreaksOnInputOrder(t *testing.T) {
	now := time.Now()
	p := patientWith(3, 5, 40, now)

	a := availableDoctor(0, 10)
	b := availableDoctor(0, 10)

	matches, err := testEngine().MatchAll([]*model.Patient{p}, []*model.Doctor{a, b}, now)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, a.ID, matches[0].DoctorID)
}
