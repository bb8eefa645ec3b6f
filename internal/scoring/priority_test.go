package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meditriage/triage-api/internal/model"
)

func testEngine() *Engine {
	return NewEngine(DefaultWeights())
}

func TestPriorityScoreCriticalElderlyPatient(t *testing.T) {
	now := time.Now()
	p := &model.Patient{
		TriageLevel:                1,
		SeverityScore:              9,
		RequiresImmediateAttention: true,
		Age:                        70,
		ArrivalTime:                now.Add(-30 * time.Minute),
	}

	// 150 + 90 + 50 + 15 + 3
	assert.InDelta(t, 308, testEngine().PriorityScore(p, now), 0.001)
}

func TestPriorityScoreStableWalkIn(t *testing.T) {
	now := time.Now()
	p := &model.Patient{
		TriageLevel:   5,
		SeverityScore: 2,
		Age:           30,
		ArrivalTime:   now,
	}

	// 30 + 20, nothing else fires
	assert.InDelta(t, 50, testEngine().PriorityScore(p, now), 0.001)
}

func TestPriorityScoreWaitTimeIsCapped(t *testing.T) {
	now := time.Now()
	short := &model.Patient{TriageLevel: 3, SeverityScore: 5, Age: 40, ArrivalTime: now.Add(-200 * time.Minute)}
	long := &model.Patient{TriageLevel: 3, SeverityScore: 5, Age: 40, ArrivalTime: now.Add(-48 * time.Hour)}

	e := testEngine()
	assert.InDelta(t, e.PriorityScore(short, now), e.PriorityScore(long, now), 0.001,
		"waits beyond the cap must not keep accruing points")
	assert.InDelta(t, 90+50+20, e.PriorityScore(long, now), 0.001)
}

func TestPriorityScoreWaitNeverOverridesTriageLevel(t *testing.T) {
	now := time.Now()
	moreUrgent := &model.Patient{TriageLevel: 2, SeverityScore: 5, Age: 40, ArrivalTime: now}
	longWaiter := &model.Patient{TriageLevel: 3, SeverityScore: 5, Age: 40, ArrivalTime: now.Add(-72 * time.Hour)}

	e := testEngine()
	assert.Greater(t, e.PriorityScore(moreUrgent, now), e.PriorityScore(longWaiter, now))
}

func TestPriorityScoreMissingFieldsContributeZero(t *testing.T) {
	now := time.Now()
	e := testEngine()

	// Zero-value record: no triage level, no severity, no arrival time.
	p := &model.Patient{Age: 30}
	assert.InDelta(t, 0, e.PriorityScore(p, now), 0.001)

	// Out-of-range values are treated the same as missing.
	p = &model.Patient{TriageLevel: 9, SeverityScore: 40, Age: 30}
	assert.InDelta(t, 0, e.PriorityScore(p, now), 0.001)
}

func TestPriorityScoreNeverNegative(t *testing.T) {
	now := time.Now()
	e := testEngine()
	patients := []*model.Patient{
		{},
		{TriageLevel: 5, SeverityScore: 1, Age: 30, ArrivalTime: now.Add(time.Hour)},
		{TriageLevel: 1, SeverityScore: 10, Age: 0, ArrivalTime: now.Add(-time.Hour), RequiresImmediateAttention: true},
	}
	for _, p := range patients {
		assert.GreaterOrEqual(t, e.PriorityScore(p, now), 0.0)
	}
}

func TestPriorityScorePediatricAndElderlyBump(t *testing.T) {
	now := time.Now()
	e := testEngine()
	base := model.Patient{TriageLevel: 3, SeverityScore: 5, ArrivalTime: now}

	adult := base
	adult.Age = 40
	child := base
	child.Age = 7
	elderly := base
	elderly.Age = 80

	assert.InDelta(t, e.PriorityScore(&adult, now)+15, e.PriorityScore(&child, now), 0.001)
	assert.InDelta(t, e.PriorityScore(&child, now), e.PriorityScore(&elderly, now), 0.001,
		"the bump is flat, not scaled by age distance")
}
