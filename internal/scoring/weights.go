package scoring

// Weights holds every constant of the priority and match formulas. The
// defaults mirror the values in production use; the workload threshold and
// wait-time parameters in particular are empirical and pending clinical
// review, which is why they are configuration rather than literals.
type Weights struct {
	// Priority score
	TriageLevelWeight  float64 `mapstructure:"triage_level_weight"`
	SeverityWeight     float64 `mapstructure:"severity_weight"`
	ImmediateBonus     float64 `mapstructure:"immediate_bonus"`
	AgeBonus           float64 `mapstructure:"age_bonus"`
	PediatricAgeLimit  int     `mapstructure:"pediatric_age_limit"`
	ElderlyAgeLimit    int     `mapstructure:"elderly_age_limit"`
	WaitDivisorMinutes float64 `mapstructure:"wait_divisor_minutes"`
	WaitCapPoints      float64 `mapstructure:"wait_cap_points"`

	// Match score
	CardiacBonus           float64 `mapstructure:"cardiac_bonus"`
	PediatricCareBonus     float64 `mapstructure:"pediatric_care_bonus"`
	TraumaBonus            float64 `mapstructure:"trauma_bonus"`
	TraumaMinLevel         int     `mapstructure:"trauma_min_level"`
	SurgeryBonus           float64 `mapstructure:"surgery_bonus"`
	SevereCaseThreshold    int     `mapstructure:"severe_case_threshold"`
	ExperienceWeight       float64 `mapstructure:"experience_weight"`
	UrgentTriageThreshold  int     `mapstructure:"urgent_triage_threshold"`
	ResponseRatingWeight   float64 `mapstructure:"response_rating_weight"`
	FreeCapacityWeight     float64 `mapstructure:"free_capacity_weight"`
	PediatricPatientBonus  float64 `mapstructure:"pediatric_patient_bonus"`
	ElderlyExperienceBonus float64 `mapstructure:"elderly_experience_bonus"`
	ElderlyExperienceYears int     `mapstructure:"elderly_experience_years"`
	OptimalLoadThreshold   float64 `mapstructure:"optimal_load_threshold"`
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		TriageLevelWeight:  30,
		SeverityWeight:     10,
		ImmediateBonus:     50,
		AgeBonus:           15,
		PediatricAgeLimit:  18,
		ElderlyAgeLimit:    65,
		WaitDivisorMinutes: 10,
		WaitCapPoints:      20,

		CardiacBonus:           40,
		PediatricCareBonus:     40,
		TraumaBonus:            35,
		TraumaMinLevel:         4,
		SurgeryBonus:           35,
		SevereCaseThreshold:    8,
		ExperienceWeight:       2,
		UrgentTriageThreshold:  2,
		ResponseRatingWeight:   10,
		FreeCapacityWeight:     20,
		PediatricPatientBonus:  25,
		ElderlyExperienceBonus: 15,
		ElderlyExperienceYears: 10,
		OptimalLoadThreshold:   0.7,
	}
}
