package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
)

// Human-readable reasons attached to match justifications.
const (
	reasonCardiac           = "cardiac specialist match"
	reasonPediatricCare     = "pediatric care match"
	reasonTrauma            = "trauma expertise match"
	reasonSurgery           = "surgical qualification match"
	reasonSevereExperience  = "experienced with severe cases"
	reasonEmergencyResponse = "high emergency response rating"
	reasonOptimalWorkload   = "optimal workload"
	reasonPediatricQual     = "pediatric qualified for young patient"
	reasonElderlyExperience = "experienced with elderly patients"
	reasonGeneric           = "general availability and experience match"
)

// MatchResult is the compatibility verdict for one patient/doctor pair.
type MatchResult struct {
	Score         float64
	Justification string
}

// MatchScore computes the compatibility score between a patient and a
// doctor. All clauses fire independently, so a doctor can match on several
// criteria at once. The final score is floored at zero, and the
// justification lists exactly the reasons that fired.
func (e *Engine) MatchScore(p *model.Patient, d *model.Doctor) MatchResult {
	var score float64
	var reasons []string

	if p.RequiresCardiacSpecialist && d.CardiacSpecialist {
		score += e.w.CardiacBonus
		reasons = append(reasons, reasonCardiac)
	}
	if p.RequiresPediatricCare && d.PediatricQualified {
		score += e.w.PediatricCareBonus
		reasons = append(reasons, reasonPediatricCare)
	}
	if p.RequiresTraumaSpecialist && d.TraumaExperienceLevel >= e.w.TraumaMinLevel {
		score += e.w.TraumaBonus
		reasons = append(reasons, reasonTrauma)
	}
	if p.RequiresSurgery && d.SurgeryQualified {
		score += e.w.SurgeryBonus
		reasons = append(reasons, reasonSurgery)
	}

	// Experience matters more for severe cases, responsiveness for the most
	// urgent ones.
	if p.SeverityScore >= e.w.SevereCaseThreshold {
		score += float64(d.YearsExperience) * e.w.ExperienceWeight
		if d.YearsExperience > 0 {
			reasons = append(reasons, reasonSevereExperience)
		}
	}
	if p.TriageLevel >= 1 && p.TriageLevel <= e.w.UrgentTriageThreshold {
		score += d.ResponseRating() * e.w.ResponseRatingWeight
		if d.ResponseRating() > 0 {
			reasons = append(reasons, reasonEmergencyResponse)
		}
	}

	// Workload balance: up to FreeCapacityWeight points for spare capacity.
	if d.MaxPatientCapacity > 0 {
		free := float64(d.MaxPatientCapacity-d.CurrentPatientLoad) / float64(d.MaxPatientCapacity)
		score += free * e.w.FreeCapacityWeight
		if float64(d.CurrentPatientLoad) < float64(d.MaxPatientCapacity)*e.w.OptimalLoadThreshold {
			reasons = append(reasons, reasonOptimalWorkload)
		}
	}

	// Stacks with the pediatric-care clause when both hold.
	if p.Age < e.w.PediatricAgeLimit && d.PediatricQualified {
		score += e.w.PediatricPatientBonus
		reasons = append(reasons, reasonPediatricQual)
	}
	if p.Age > e.w.ElderlyAgeLimit && d.YearsExperience >= e.w.ElderlyExperienceYears {
		score += e.w.ElderlyExperienceBonus
		reasons = append(reasons, reasonElderlyExperience)
	}

	if score < 0 {
		score = 0
	}

	justification := strings.Join(reasons, ", ")
	if justification == "" && score > 0 {
		justification = reasonGeneric
	}

	return MatchResult{Score: score, Justification: justification}
}

// MatchAll greedily assigns doctors to patients in descending priority
// order, so scarce specialist capacity goes to the most urgent cases first.
// This is a one-pass greedy assignment, not an optimal bipartite matching:
// higher-priority patients get first choice among the doctors still
// eligible when they are processed.
//
// Provisional load is tracked in a per-call ledger keyed by doctor ID; the
// doctor records themselves are never mutated and nothing leaks across
// concurrent calls.
func (e *Engine) MatchAll(patients []*model.Patient, doctors []*model.Doctor, now time.Time) ([]model.DoctorMatch, error) {
	if len(patients) == 0 {
		return nil, ErrNoPatients
	}

	type prioritized struct {
		patient *model.Patient
		score   float64
	}

	// Scores are kept per entry, not per ID, so duplicate IDs in the input
	// are each ordered by their own priority.
	ordered := make([]prioritized, len(patients))
	for i, p := range patients {
		ordered[i] = prioritized{patient: p, score: e.PriorityScore(p, now)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].score > ordered[j].score
	})

	load := make(map[uuid.UUID]int, len(doctors))
	for _, d := range doctors {
		load[d.ID] = d.CurrentPatientLoad
	}

	var matches []model.DoctorMatch
	for _, entry := range ordered {
		p := entry.patient
		var best *model.Doctor
		var bestResult MatchResult

		for _, d := range doctors {
			if d.AvailabilityStatus != model.DoctorAvailable {
				continue
			}
			if load[d.ID] >= d.MaxPatientCapacity {
				continue
			}

			// Score against the provisional load so earlier assignments in
			// this run reduce the workload-balance term.
			shadow := *d
			shadow.CurrentPatientLoad = load[d.ID]

			result := e.MatchScore(p, &shadow)
			if best == nil || result.Score > bestResult.Score {
				best = d
				bestResult = result
			}
		}

		// A best score of zero means no real match; the patient stays
		// unassigned rather than being forced onto an unsuitable doctor.
		if best == nil || bestResult.Score <= 0 {
			continue
		}

		matches = append(matches, model.DoctorMatch{
			PatientID:     p.ID,
			DoctorID:      best.ID,
			Score:         bestResult.Score,
			Justification: bestResult.Justification,
		})
		load[best.ID]++
	}

	return matches, nil
}
