// Package domain defines the core value types, error taxonomy, and
// collaborator interfaces of the fitness core. It depends on nothing else
// in the module.
package domain

// Sex selects the Mifflin-St Jeor additive constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal is the user's body-composition goal.
type Goal string

const (
	GoalCut      Goal = "cut"
	GoalMaintain Goal = "maintain"
	GoalBulk     Goal = "bulk"
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	return g == GoalCut || g == GoalMaintain || g == GoalBulk
}

// Experience is the user's training experience tier.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Tier maps an experience level to a difficulty tier (1..MaxTier).
// Returns 0 for unknown levels.
func (e Experience) Tier() int {
	switch e {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceAdvanced:
		return 3
	default:
		return 0
	}
}

// MaxTier is the highest exercise difficulty tier.
const MaxTier = 3

// Equipment tag every plan may use.
const EquipmentBodyweight = "bodyweight"

// UserProfile is the raw profile a computation is run against. Callers own it;
// the core never mutates it.
type UserProfile struct {
	UserID              int           `json:"user_id"`
	HeightCM            float64       `json:"height_cm"`
	WeightKG            float64       `json:"weight_kg"`
	Age                 int           `json:"age"`
	Sex                 Sex           `json:"sex"`
	ActivityLevel       ActivityLevel `json:"activity_level"`
	Goal                Goal          `json:"goal"`
	Experience          Experience    `json:"experience"`
	Equipment           []string      `json:"equipment"`
	FocusAreas          []string      `json:"focus_areas"`
	TrainingDaysPerWeek int           `json:"training_days_per_week"`
	SessionMinutes      int           `json:"session_minutes"`
}
