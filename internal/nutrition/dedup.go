package nutrition

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"lg/fitcore-go-api/internal/domain"
)

// calorieTolerance is the relative calorie difference under which two
// same-named candidates count as the same food.
const calorieTolerance = 0.05

// normalizeName case-folds name and collapses whitespace.
func normalizeName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

func caloriesClose(a, b float64) bool {
	hi := math.Max(a, b)
	if hi == 0 {
		return true
	}
	return math.Abs(a-b) <= calorieTolerance*hi
}

// duplicates reports whether a and b describe the same food: equal barcodes,
// or the same normalized name with calories within tolerance.
func duplicates(a, b domain.FoodCandidate) bool {
	if a.Barcode != "" && a.Barcode == b.Barcode {
		return true
	}
	return normalizeName(a.Name) == normalizeName(b.Name) &&
		caloriesClose(a.CaloriesPerServing, b.CaloriesPerServing)
}

func providerRank(p domain.Provider) int {
	if p == domain.ProviderBranded {
		return 0
	}
	return 1
}

// Dedupe collapses duplicate candidates. Branded records are canonical; a
// canonical record without a barcode takes one from the duplicates it absorbs.
// Output order is branded first, then the input order.
func Dedupe(in []domain.FoodCandidate) []domain.FoodCandidate {
	ordered := append([]domain.FoodCandidate(nil), in...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return providerRank(ordered[i].Provider) < providerRank(ordered[j].Provider)
	})

	out := make([]domain.FoodCandidate, 0, len(ordered))
	for _, c := range ordered {
		merged := false
		for i := range out {
			if duplicates(out[i], c) {
				if out[i].Barcode == "" {
					out[i].Barcode = c.Barcode
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, c)
		}
	}
	return out
}
