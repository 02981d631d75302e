package domain

import "time"

// Provider identifies an external food-data source.
type Provider string

const (
	ProviderBranded      Provider = "branded"
	ProviderOpenDatabase Provider = "open_database"
)

// FoodCandidate is the unified, serving-based shape every provider record is
// normalized into before any comparison.
type FoodCandidate struct {
	SourceID           string   `json:"source_id"`
	Provider           Provider `json:"provider"`
	Name               string   `json:"name"`
	ServingDescription string   `json:"serving_description"`
	CaloriesPerServing float64  `json:"calories_per_serving"`
	ProteinG           float64  `json:"protein_g"`
	CarbsG             float64  `json:"carbs_g"`
	FatG               float64  `json:"fat_g"`
	Barcode            string   `json:"barcode,omitempty"`
}

// RankedResult is a scored candidate. ScoreBreakdown maps feature name to
// its weighted contribution to Score.
type RankedResult struct {
	Candidate      FoodCandidate      `json:"candidate"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
}

// DayKey identifies one user's nutrition log for one calendar day.
type DayKey struct {
	UserID int    `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD
}

// LoggedEntry is a committed food selection. Macro fields are totals for
// the servings consumed.
type LoggedEntry struct {
	ID                 string    `json:"id"`
	UserID             int       `json:"user_id"`
	Date               string    `json:"date"`
	Name               string    `json:"name"`
	Provider           Provider  `json:"provider"`
	SourceID           string    `json:"source_id"`
	Barcode            string    `json:"barcode,omitempty"`
	ServingDescription string    `json:"serving_description"`
	Servings           float64   `json:"servings"`
	Calories           float64   `json:"calories"`
	ProteinG           float64   `json:"protein_g"`
	CarbsG             float64   `json:"carbs_g"`
	FatG               float64   `json:"fat_g"`
	LoggedAt           time.Time `json:"logged_at"`
}

// DayLog is a day's entries plus the version used for conflict detection.
type DayLog struct {
	Key     DayKey        `json:"key"`
	Entries []LoggedEntry `json:"entries"`
	Version int64         `json:"version"`
}
