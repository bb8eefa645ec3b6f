// Package scoring implements the triage decision core: patient priority
// scoring, priority ranking, doctor compatibility scoring and greedy
// doctor-patient matching. Everything here is pure computation over
// in-memory records; the engine never mutates its inputs and performs no I/O.
package scoring

import (
	"time"

	"github.com/meditriage/triage-api/internal/model"
)

// Engine evaluates patients and doctors against a weight set. An Engine is
// immutable and safe for concurrent use.
type Engine struct {
	w Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{w: w}
}

// PriorityScore computes the urgency score for one patient at the given
// instant. It is total: out-of-range or missing fields contribute zero
// rather than failing.
//
// Clinical urgency (triage level, severity, the immediate-attention flag)
// dominates; the age bump and the capped wait-time component are small
// tie-breaking nudges that can never reorder patients across a triage level.
func (e *Engine) PriorityScore(p *model.Patient, now time.Time) float64 {
	var score float64

	// Triage level is inverse: level 1 contributes the most.
	if p.TriageLevel >= 1 && p.TriageLevel <= 5 {
		score += float64(6-p.TriageLevel) * e.w.TriageLevelWeight
	}

	if p.SeverityScore >= 1 && p.SeverityScore <= 10 {
		score += float64(p.SeverityScore) * e.w.SeverityWeight
	}

	if p.RequiresImmediateAttention {
		score += e.w.ImmediateBonus
	}

	// Pediatric and elderly patients get a single flat bump, not scaled by
	// age distance.
	if p.Age < e.w.PediatricAgeLimit || p.Age > e.w.ElderlyAgeLimit {
		score += e.w.AgeBonus
	}

	score += e.waitPoints(p.ArrivalTime, now)

	return score
}

func (e *Engine) waitPoints(arrival, now time.Time) float64 {
	if arrival.IsZero() || arrival.After(now) {
		return 0
	}
	waited := now.Sub(arrival).Minutes() / e.w.WaitDivisorMinutes
	if waited > e.w.WaitCapPoints {
		return e.w.WaitCapPoints
	}
	return waited
}
