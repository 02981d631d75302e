// Package nutrition merges and ranks foods from two external providers
// against a day's remaining macros, and commits selections to the day's log.
package nutrition

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lg/fitcore-go-api/internal/domain"
)

// Source is an external food-data provider queried by text.
type Source interface {
	Provider() domain.Provider
	Search(ctx context.Context, query string) ([]Record, error)
}

// Record is a raw provider record. It is a closed set: BrandedFood or OpenFood.
type Record interface {
	provider() domain.Provider
}

/* ─── Branded variant ────────────────────────────────────────────────── */

// BrandedFood is a branded-catalog record. Numbers arrive as strings and
// every serving is already a per-serving breakdown.
type BrandedFood struct {
	FoodID    string           `json:"food_id"`
	FoodName  string           `json:"food_name"`
	FoodType  string           `json:"food_type"`
	BrandName string           `json:"brand_name"`
	Barcode   string           `json:"barcode"`
	Servings  []BrandedServing `json:"servings"`
}

// BrandedServing is one serving option of a BrandedFood.
type BrandedServing struct {
	ServingID           string `json:"serving_id"`
	ServingDescription  string `json:"serving_description"`
	MetricServingAmount string `json:"metric_serving_amount"`
	MetricServingUnit   string `json:"metric_serving_unit"`
	Calories            string `json:"calories"`
	Protein             string `json:"protein"`
	Carbohydrate        string `json:"carbohydrate"`
	Fat                 string `json:"fat"`
}

func (BrandedFood) provider() domain.Provider { return domain.ProviderBranded }

/* ─── Open database variant ──────────────────────────────────────────── */

// OpenFood is an open food database product. Nutriments are keyed per 100g
// ("energy-kcal_100g", "proteins_100g", ...); values may be numbers or strings.
type OpenFood struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	ProductNameEn   string         `json:"product_name_en"`
	GenericName     string         `json:"generic_name"`
	ServingSize     string         `json:"serving_size"`
	ServingQuantity any            `json:"serving_quantity"`
	Nutriments      map[string]any `json:"nutriments"`
}

func (OpenFood) provider() domain.Provider { return domain.ProviderOpenDatabase }

// Name returns the best available product name.
func (p OpenFood) Name() string {
	for _, n := range []string{p.ProductName, p.ProductNameEn, p.GenericName} {
		if strings.TrimSpace(n) != "" {
			return strings.TrimSpace(n)
		}
	}
	return ""
}

/* ─── Normalization ──────────────────────────────────────────────────── */

// Normalize maps a provider record into the serving-based FoodCandidate.
// Malformed records return an error; callers skip them.
func Normalize(r Record) (domain.FoodCandidate, error) {
	switch rec := r.(type) {
	case BrandedFood:
		return normalizeBranded(rec)
	case *BrandedFood:
		return normalizeBranded(*rec)
	case OpenFood:
		return normalizeOpen(rec)
	case *OpenFood:
		return normalizeOpen(*rec)
	}
	return domain.FoodCandidate{}, fmt.Errorf("unsupported record type %T", r)
}

func normalizeBranded(f BrandedFood) (domain.FoodCandidate, error) {
	name := strings.TrimSpace(f.FoodName)
	if name == "" {
		return domain.FoodCandidate{}, fmt.Errorf("branded food %q: missing name", f.FoodID)
	}
	if len(f.Servings) == 0 {
		return domain.FoodCandidate{}, fmt.Errorf("branded food %q: no servings", f.FoodID)
	}
	s := f.Servings[0]
	kcal, ok, err := parseAmount(s.Calories)
	if err != nil || !ok {
		return domain.FoodCandidate{}, fmt.Errorf("branded food %q: calories %q not usable", f.FoodID, s.Calories)
	}
	var macros [3]float64
	for i, raw := range []string{s.Protein, s.Carbohydrate, s.Fat} {
		v, _, err := parseAmount(raw)
		if err != nil {
			return domain.FoodCandidate{}, fmt.Errorf("branded food %q: %w", f.FoodID, err)
		}
		macros[i] = v
	}
	desc := strings.TrimSpace(s.ServingDescription)
	if desc == "" && s.MetricServingAmount != "" {
		desc = strings.TrimSpace(s.MetricServingAmount + " " + s.MetricServingUnit)
	}
	return domain.FoodCandidate{
		SourceID:           f.FoodID,
		Provider:           domain.ProviderBranded,
		Name:               name,
		ServingDescription: desc,
		CaloriesPerServing: kcal,
		ProteinG:           macros[0],
		CarbsG:             macros[1],
		FatG:               macros[2],
		Barcode:            strings.TrimSpace(f.Barcode),
	}, nil
}

const kjPerKcal = 4.184

func normalizeOpen(p OpenFood) (domain.FoodCandidate, error) {
	name := p.Name()
	if name == "" {
		return domain.FoodCandidate{}, fmt.Errorf("open food %q: missing name", p.Code)
	}
	kcal100, ok := nutriment(p.Nutriments, "energy-kcal_100g", 0, 900)
	if !ok {
		kj, kjOK := nutriment(p.Nutriments, "energy-kj_100g", 0, 900*kjPerKcal)
		if !kjOK {
			return domain.FoodCandidate{}, fmt.Errorf("open food %q: no usable energy value", p.Code)
		}
		kcal100 = kj / kjPerKcal
	}
	protein, _ := nutriment(p.Nutriments, "proteins_100g", 0, 100)
	carbs, _ := nutriment(p.Nutriments, "carbohydrates_100g", 0, 100)
	fat, _ := nutriment(p.Nutriments, "fat_100g", 0, 100)

	// Reconcile per-100g values to one serving.
	factor, desc := 1.0, "100 g"
	if grams, ok := toFloat(p.ServingQuantity); ok && grams > 0 {
		factor = grams / 100
		desc = strings.TrimSpace(p.ServingSize)
		if desc == "" {
			desc = strconv.FormatFloat(grams, 'f', -1, 64) + " g"
		}
	}
	return domain.FoodCandidate{
		SourceID:           p.Code,
		Provider:           domain.ProviderOpenDatabase,
		Name:               name,
		ServingDescription: desc,
		CaloriesPerServing: kcal100 * factor,
		ProteinG:           protein * factor,
		CarbsG:             carbs * factor,
		FatG:               fat * factor,
		Barcode:            strings.TrimSpace(p.Code),
	}, nil
}

// parseAmount parses a provider numeric string. Empty means absent (ok=false)
// and is not an error.
func parseAmount(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false, fmt.Errorf("invalid amount %q", s)
	}
	return v, true, nil
}

// nutriment reads key and rejects values outside [lo, hi].
func nutriment(m map[string]any, key string, lo, hi float64) (float64, bool) {
	v, ok := toFloat(m[key])
	if !ok || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
