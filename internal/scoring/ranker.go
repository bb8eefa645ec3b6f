package scoring

import (
	"errors"
	"sort"
	"time"

	"github.com/meditriage/triage-api/internal/model"
)

// ErrNoPatients is returned when ranking or matching is invoked with an
// empty patient set. Callers report it; the engine never auto-corrects.
var ErrNoPatients = errors.New("no patients provided")

// Rank orders patients by descending priority score and assigns dense
// 1-based ranks. The sort is stable, so ties keep their input order and
// ranking the same immutable set twice yields identical output.
func (e *Engine) Rank(patients []*model.Patient, now time.Time) ([]model.RankedPatient, error) {
	if len(patients) == 0 {
		return nil, ErrNoPatients
	}

	type scored struct {
		patient *model.Patient
		score   float64
	}

	entries := make([]scored, len(patients))
	for i, p := range patients {
		entries[i] = scored{patient: p, score: e.PriorityScore(p, now)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranked := make([]model.RankedPatient, len(entries))
	for i, entry := range entries {
		ranked[i] = model.RankedPatient{
			PatientID: entry.patient.ID,
			Rank:      i + 1,
		}
	}
	return ranked, nil
}
