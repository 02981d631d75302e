// Package formula holds the pure body and energy formulas: BMI, BMR,
// TDEE, caloric target and macro split. Nothing here keeps state or does I/O.
package formula

import (
	"math"

	"lg/fitcore-go-api/internal/domain"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// ActivityMultiplier returns the TDEE multiplier for level.
func ActivityMultiplier(level domain.ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// proteinPerKg is the protein target per kg of body weight, by goal.
var proteinPerKg = map[domain.Goal]float64{
	domain.GoalCut:      2.2,
	domain.GoalMaintain: 2.0,
	domain.GoalBulk:     1.8,
}

// ProteinPerKg returns the goal's protein target in g/kg.
func ProteinPerKg(goal domain.Goal) (float64, bool) {
	v, ok := proteinPerKg[goal]
	return v, ok
}

const (
	deficitFraction = 0.20
	surplusFraction = 0.10

	fatShare    = 0.25
	fatShareMin = 0.15
)

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BMI returns weight / (height in m)^2.
func BMI(weightKG, heightCM float64) (float64, error) {
	if !finitePositive(heightCM) {
		return 0, domain.Invalid("height must be positive, got %v", heightCM)
	}
	if !finitePositive(weightKG) {
		return 0, domain.Invalid("weight must be positive, got %v", weightKG)
	}
	m := heightCM / 100
	return weightKG / (m * m), nil
}

// BMR returns basal metabolic rate via Mifflin-St Jeor:
// 10·kg + 6.25·cm − 5·age, then +5 for male or −161 for female.
func BMR(weightKG, heightCM float64, age int, sex domain.Sex) (float64, error) {
	if age <= 0 {
		return 0, domain.Invalid("age must be positive, got %d", age)
	}
	if !finitePositive(weightKG) {
		return 0, domain.Invalid("weight must be positive, got %v", weightKG)
	}
	if !finitePositive(heightCM) {
		return 0, domain.Invalid("height must be positive, got %v", heightCM)
	}
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch sex {
	case domain.SexMale:
		bmr += 5
	case domain.SexFemale:
		bmr -= 161
	default:
		return 0, domain.Invalid("unknown sex %q", sex)
	}
	return bmr, nil
}

// TDEE multiplies bmr by the activity level's multiplier.
func TDEE(bmr float64, level domain.ActivityLevel) (float64, error) {
	if !finitePositive(bmr) {
		return 0, domain.Invalid("bmr must be positive, got %v", bmr)
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, domain.Invalid("activity_level must be one of: sedentary, light, moderate, active, very_active")
	}
	return bmr * mult, nil
}

// CaloricTarget applies the goal's strategy to tdee: a 20% deficit for cut,
// a 10% surplus for bulk, unchanged for maintain.
func CaloricTarget(tdee float64, goal domain.Goal) (float64, domain.Strategy, error) {
	if !finitePositive(tdee) {
		return 0, "", domain.Invalid("tdee must be positive, got %v", tdee)
	}
	switch goal {
	case domain.GoalCut:
		return tdee * (1 - deficitFraction), domain.StrategyDeficit, nil
	case domain.GoalBulk:
		return tdee * (1 + surplusFraction), domain.StrategySurplus, nil
	case domain.GoalMaintain:
		return tdee, domain.StrategyMaintenance, nil
	}
	return 0, "", domain.Invalid("goal must be one of: cut, maintain, bulk")
}

// MacroSplit derives protein, fat and carbs for dailyCalories. Protein comes
// from the goal's g/kg target, fat is 25% of calories, carbs take the rest.
//
// Carbs are never negative. When protein and fat exceed the budget, fat drops
// to 15% of calories; if that is still too much, carbs are zero and protein is
// cut to what is left. Either case returns a MacroBudgetTight diagnostic.
func MacroSplit(dailyCalories float64, goal domain.Goal, weightKG float64) (domain.MacroGrams, *domain.Diagnostic, error) {
	if !finitePositive(dailyCalories) {
		return domain.MacroGrams{}, nil, domain.Invalid("daily calories must be positive, got %v", dailyCalories)
	}
	if !finitePositive(weightKG) {
		return domain.MacroGrams{}, nil, domain.Invalid("weight must be positive, got %v", weightKG)
	}
	perKg, ok := proteinPerKg[goal]
	if !ok {
		return domain.MacroGrams{}, nil, domain.Invalid("goal must be one of: cut, maintain, bulk")
	}

	protein := perKg * weightKG
	fatCal := dailyCalories * fatShare
	carbCal := dailyCalories - protein*4 - fatCal
	if carbCal >= 0 {
		return domain.MacroGrams{ProteinG: protein, CarbsG: carbCal / 4, FatG: fatCal / 9}, nil, nil
	}

	warn := &domain.Diagnostic{
		Kind:   domain.KindMacroBudgetTight,
		Detail: "protein and fat targets exceed the calorie budget; fat lowered to 15%",
	}
	fatCal = dailyCalories * fatShareMin
	carbCal = dailyCalories - protein*4 - fatCal
	if carbCal < 0 {
		protein = (dailyCalories - fatCal) / 4
		carbCal = 0
		warn.Detail = "protein target exceeds the calorie budget; fat at 15%, carbs at zero, protein reduced"
	}
	return domain.MacroGrams{ProteinG: protein, CarbsG: carbCal / 4, FatG: fatCal / 9}, warn, nil
}
