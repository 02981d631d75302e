package domain

import "time"

// PlanRequest carries the training parameters a plan is synthesized from.
type PlanRequest struct {
	Goal                Goal       `json:"goal"`
	Experience          Experience `json:"experience"`
	Equipment           []string   `json:"equipment"`
	FocusAreas          []string   `json:"focus_areas"`
	TrainingDaysPerWeek int        `json:"training_days_per_week"`
	SessionMinutes      int        `json:"session_minutes"`
	// Weeks is the plan horizon; zero means the default.
	Weeks int `json:"weeks,omitempty"`
	// Seed rotates exercise selection. Zero is the default rotation.
	Seed int64 `json:"seed,omitempty"`
}

// Exercise is one prescribed exercise within a day.
type Exercise struct {
	Name        string   `json:"name"`
	FocusArea   string   `json:"focus_area"`
	Equipment   []string `json:"equipment"`
	Tier        int      `json:"tier"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	RestSeconds int      `json:"rest_seconds"`
}

// DayPlan is one training day. DayNumber is 1-based within its week.
type DayPlan struct {
	DayNumber int        `json:"day_number"`
	Focus     string     `json:"focus"`
	Tier      int        `json:"tier"`
	Exercises []Exercise `json:"exercises"`
}

// WeekPlan is one week of training days. WeekNumber is 1-based.
type WeekPlan struct {
	WeekNumber int       `json:"week_number"`
	Days       []DayPlan `json:"days"`
}

// Plan is a synthesized training plan. It is read-only once created.
type Plan struct {
	ID            string       `json:"id"`
	UserID        int          `json:"user_id"`
	Name          string       `json:"name"`
	CreatedAt     time.Time    `json:"created_at"`
	Request       PlanRequest  `json:"request"`
	AlgorithmData Metrics      `json:"algorithm_data"`
	Rationale     string       `json:"rationale"`
	Weeks         []WeekPlan   `json:"weeks"`
	Notes         []Diagnostic `json:"notes,omitempty"`
}
