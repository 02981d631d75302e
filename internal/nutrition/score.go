package nutrition

import (
	"math"
	"sort"
	"unicode/utf8"

	"lg/fitcore-go-api/internal/domain"
)

// Feature names used in RankedResult.ScoreBreakdown.
const (
	FeatureCalories = "calorie_fit"
	FeatureProtein  = "protein_fit"
	FeatureCarbs    = "carb_fit"
	FeatureFat      = "fat_fit"
)

// weights sum to 1, protein first.
var weights = map[string]float64{
	FeatureProtein:  0.40,
	FeatureCalories: 0.30,
	FeatureCarbs:    0.15,
	FeatureFat:      0.15,
}

const (
	calorieScale = 100.0 // kcal
	gramScale    = 10.0  // g
	// calorieOvershoot multiplies the distance when a serving exceeds
	// the remaining calories.
	calorieOvershoot = 2.0
)

// fit is an inverse-distance score in (0, 1]. The distance is relative to
// the target, floored at scale so small or exhausted targets stay finite.
// Overshooting the target is multiplied by overshoot.
func fit(value, target, scale, overshoot float64) float64 {
	target = math.Max(target, 0)
	d := value - target
	penalty := 1.0
	if d > 0 {
		penalty = overshoot
	}
	return 1 / (1 + penalty*math.Abs(d)/math.Max(target, scale))
}

// Score computes the feature vector of c against remaining and combines it
// into a single weighted score.
func Score(c domain.FoodCandidate, remaining domain.RemainingMacros) domain.RankedResult {
	features := map[string]float64{
		FeatureCalories: fit(c.CaloriesPerServing, remaining.Calories, calorieScale, calorieOvershoot),
		FeatureProtein:  fit(c.ProteinG, remaining.ProteinG, gramScale, 1),
		FeatureCarbs:    fit(c.CarbsG, remaining.CarbsG, gramScale, 1),
		FeatureFat:      fit(c.FatG, remaining.FatG, gramScale, 1),
	}
	breakdown := make(map[string]float64, len(features))
	// Summed in a fixed order so identical inputs give bit-identical scores.
	var total float64
	for _, name := range []string{FeatureProtein, FeatureCalories, FeatureCarbs, FeatureFat} {
		contrib := weights[name] * features[name]
		breakdown[name] = contrib
		total += contrib
	}
	return domain.RankedResult{Candidate: c, Score: total, ScoreBreakdown: breakdown}
}

// Rank scores every candidate and sorts by score descending. Ties go to
// the shorter name, then lexical order, then provider and source ID.
func Rank(candidates []domain.FoodCandidate, remaining domain.RemainingMacros) []domain.RankedResult {
	out := make([]domain.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Score(c, remaining))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		la, lb := utf8.RuneCountInString(a.Candidate.Name), utf8.RuneCountInString(b.Candidate.Name)
		if la != lb {
			return la < lb
		}
		if a.Candidate.Name != b.Candidate.Name {
			return a.Candidate.Name < b.Candidate.Name
		}
		if a.Candidate.Provider != b.Candidate.Provider {
			return providerRank(a.Candidate.Provider) < providerRank(b.Candidate.Provider)
		}
		return a.Candidate.SourceID < b.Candidate.SourceID
	})
	return out
}
