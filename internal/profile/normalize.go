// Package profile turns a raw UserProfile into an immutable Metrics snapshot.
package profile

import (
	"fmt"
	"strings"

	"lg/fitcore-go-api/internal/domain"
	"lg/fitcore-go-api/internal/formula"
)

// Normalize derives Metrics from p: BMI → BMR → TDEE → caloric target →
// macro split, then renders the text fields from those numbers. The result
// depends only on p, so identical profiles yield identical Metrics.
func Normalize(p domain.UserProfile) (domain.Metrics, error) {
	bmi, err := formula.BMI(p.WeightKG, p.HeightCM)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("bmi: %w", err)
	}
	bmr, err := formula.BMR(p.WeightKG, p.HeightCM, p.Age, p.Sex)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("bmr: %w", err)
	}
	tdee, err := formula.TDEE(bmr, p.ActivityLevel)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("tdee: %w", err)
	}
	calories, strategy, err := formula.CaloricTarget(tdee, p.Goal)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("caloric target: %w", err)
	}
	macros, warn, err := formula.MacroSplit(calories, p.Goal, p.WeightKG)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("macro split: %w", err)
	}

	m := domain.Metrics{
		BMI:             bmi,
		BMR:             bmr,
		TDEE:            tdee,
		ProteinPerKg:    macros.ProteinG / p.WeightKG,
		CaloriesPerKg:   calories / p.WeightKG,
		CaloricStrategy: strategy,
		DailyCalories:   calories,
		MacroGrams:      macros,
	}
	if warn != nil {
		m.Warnings = []domain.Diagnostic{*warn}
	}
	m.DetailedTips = detailedTips(p, m)
	m.MacroBreakdown = macroBreakdown(m)
	m.TrainingStrategy = trainingStrategy(p, m)
	return m, nil
}

/* ─── Rendering ──────────────────────────────────────────────────────── */

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "healthy"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

func detailedTips(p domain.UserProfile, m domain.Metrics) []string {
	tips := []string{
		fmt.Sprintf("Your BMI is %.1f, which falls in the %s range.", m.BMI, bmiCategory(m.BMI)),
		fmt.Sprintf("You burn about %.0f kcal at rest and %.0f kcal per day at a %s activity level.",
			m.BMR, m.TDEE, strings.ReplaceAll(string(p.ActivityLevel), "_", " ")),
	}
	switch m.CaloricStrategy {
	case domain.StrategyDeficit:
		tips = append(tips, fmt.Sprintf("Eat around %.0f kcal per day, a %.0f kcal deficit, to lose fat while keeping muscle.",
			m.DailyCalories, m.TDEE-m.DailyCalories))
	case domain.StrategySurplus:
		tips = append(tips, fmt.Sprintf("Eat around %.0f kcal per day, a %.0f kcal surplus, to support muscle gain.",
			m.DailyCalories, m.DailyCalories-m.TDEE))
	default:
		tips = append(tips, fmt.Sprintf("Eat around %.0f kcal per day to maintain your current weight.", m.DailyCalories))
	}
	tips = append(tips, fmt.Sprintf("Hit %.0f g of protein daily (%.1f g per kg of body weight); protein comes first.",
		m.MacroGrams.ProteinG, m.ProteinPerKg))
	for _, w := range m.Warnings {
		if w.Kind == domain.KindMacroBudgetTight {
			tips = append(tips, "Your calorie budget is tight for your protein target, so fat was lowered to 15% of calories.")
		}
	}
	return tips
}

func macroBreakdown(m domain.Metrics) string {
	total := m.MacroGrams.Calories()
	share := func(kcal float64) float64 {
		if total == 0 {
			return 0
		}
		return kcal / total * 100
	}
	g := m.MacroGrams
	return fmt.Sprintf("Protein %.1fg (%.0f%%) | Carbs %.1fg (%.0f%%) | Fat %.1fg (%.0f%%) | %.0f kcal",
		g.ProteinG, share(g.ProteinG*4),
		g.CarbsG, share(g.CarbsG*4),
		g.FatG, share(g.FatG*9),
		m.DailyCalories)
}

func trainingStrategy(p domain.UserProfile, m domain.Metrics) string {
	var focus string
	switch m.CaloricStrategy {
	case domain.StrategyDeficit:
		focus = "Keep lifting heavy to hold on to muscle, with higher reps and short rests to raise energy output."
	case domain.StrategySurplus:
		focus = "Prioritize progressive overload on compound lifts with moderate reps and full rests."
	default:
		focus = "Balance strength and conditioning work, progressing volume gradually."
	}
	days := p.TrainingDaysPerWeek
	if days <= 0 {
		return fmt.Sprintf("%s training. %s", titleCase(string(p.Experience)), focus)
	}
	return fmt.Sprintf("%s training, %d days per week. %s", titleCase(string(p.Experience)), days, focus)
}

func titleCase(s string) string {
	if s == "" {
		return "General"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
