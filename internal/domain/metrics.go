package domain

// Strategy is the caloric strategy implied by the goal.
type Strategy string

const (
	StrategyDeficit     Strategy = "deficit"
	StrategySurplus     Strategy = "surplus"
	StrategyMaintenance Strategy = "maintenance"
)

// MacroGrams is a protein/carbs/fat split in grams.
type MacroGrams struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Calories returns the caloric equivalent (4/4/9 kcal per gram).
func (m MacroGrams) Calories() float64 {
	return m.ProteinG*4 + m.CarbsG*4 + m.FatG*9
}

// Metrics is the derived snapshot produced by the profile normalizer.
// Values keep full precision; rounding is left to presentation.
type Metrics struct {
	BMI              float64      `json:"bmi"`
	BMR              float64      `json:"bmr"`
	TDEE             float64      `json:"tdee"`
	ProteinPerKg     float64      `json:"protein_per_kg"`
	CaloriesPerKg    float64      `json:"calories_per_kg"`
	CaloricStrategy  Strategy     `json:"caloric_strategy"`
	DailyCalories    float64      `json:"daily_calories"`
	MacroGrams       MacroGrams   `json:"macro_grams"`
	DetailedTips     []string     `json:"detailed_tips"`
	MacroBreakdown   string       `json:"macro_breakdown"`
	TrainingStrategy string       `json:"training_strategy"`
	Warnings         []Diagnostic `json:"warnings,omitempty"`
}

// Clone returns a deep copy so embedded snapshots never share slices.
func (m Metrics) Clone() Metrics {
	out := m
	if m.DetailedTips != nil {
		out.DetailedTips = append([]string(nil), m.DetailedTips...)
	}
	if m.Warnings != nil {
		out.Warnings = append([]Diagnostic(nil), m.Warnings...)
	}
	return out
}

// MacroTargets is a day's calorie and macro budget. The same shape is used
// for what remains of it after logged entries.
type MacroTargets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// RemainingMacros is what is left of a day's targets.
type RemainingMacros = MacroTargets

// Targets returns the daily targets implied by m.
func (m Metrics) Targets() MacroTargets {
	return MacroTargets{
		Calories: m.DailyCalories,
		ProteinG: m.MacroGrams.ProteinG,
		CarbsG:   m.MacroGrams.CarbsG,
		FatG:     m.MacroGrams.FatG,
	}
}
