package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditriage/triage-api/internal/model"
)

func patientWith(triage, severity, age int, arrival time.Time) *model.Patient {
	return &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		TriageLevel:   triage,
		SeverityScore: severity,
		Age:           age,
		ArrivalTime:   arrival,
	}
}

func TestRankEmptySetFails(t *testing.T) {
	_, err := testEngine().Rank(nil, time.Now())
	assert.ErrorIs(t, err, ErrNoPatients)
}

func TestRankProducesDensePermutation(t *testing.T) {
	now := time.Now()
	patients := []*model.Patient{
		patientWith(5, 2, 30, now),
		patientWith(1, 9, 70, now.Add(-30*time.Minute)),
		patientWith(3, 5, 40, now),
		patientWith(2, 7, 25, now.Add(-10*time.Minute)),
	}

	ranked, err := testEngine().Rank(patients, now)
	require.NoError(t, err)
	require.Len(t, ranked, len(patients))

	seen := make(map[int]bool)
	for _, r := range ranked {
		seen[r.Rank] = true
	}
	for i := 1; i <= len(patients); i++ {
		assert.True(t, seen[i], "rank %d missing", i)
	}
}

func TestRankOrdersByDescendingPriority(t *testing.T) {
	now := time.Now()
	critical := &model.Patient{
		Base:                       model.Base{ID: uuid.New()},
		TriageLevel:                1,
		SeverityScore:              9,
		RequiresImmediateAttention: true,
		Age:                        70,
		ArrivalTime:                now.Add(-30 * time.Minute),
	}
	walkIn := patientWith(5, 2, 30, now)

	ranked, err := testEngine().Rank([]*model.Patient{walkIn, critical}, now)
	require.NoError(t, err)

	assert.Equal(t, critical.ID, ranked[0].PatientID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, walkIn.ID, ranked[1].PatientID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	now := time.Now()
	first := patientWith(3, 5, 40, now)
	second := patientWith(3, 5, 40, now)
	third := patientWith(3, 5, 40, now)

	ranked, err := testEngine().Rank([]*model.Patient{first, second, third}, now)
	require.NoError(t, err)

	assert.Equal(t, first.ID, ranked[0].PatientID)
	assert.Equal(t, second.ID, ranked[1].PatientID)
	assert.Equal(t, third.ID, ranked[2].PatientID)
}

func TestRankIsIdempotent(t *testing.T) {
	now := time.Now()
	patients := []*model.Patient{
		patientWith(2, 8, 50, now.Add(-time.Hour)),
		patientWith(4, 3, 12, now),
		patientWith(1, 10, 85, now.Add(-5*time.Minute)),
	}

	e := testEngine()
	first, err := e.Rank(patients, now)
	require.NoError(t, err)
	second, err := e.Rank(patients, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
