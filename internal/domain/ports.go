package domain

import "context"

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int) (UserProfile, error)
	SaveProfile(ctx context.Context, p UserProfile) error
}

// PlanStore persists synthesized plans. Plans are immutable once created;
// Delete is the only mutation.
type PlanStore interface {
	CreatePlan(ctx context.Context, p Plan) error
	GetPlan(ctx context.Context, userID int, id string) (Plan, error)
	ListPlans(ctx context.Context, userID int) ([]Plan, error)
	DeletePlan(ctx context.Context, userID int, id string) error
}

// NutritionLog persists per-day food entries. Append must fail with
// ErrCommitConflict when the stored day version differs from expectedVersion.
type NutritionLog interface {
	Day(ctx context.Context, key DayKey) (DayLog, error)
	Append(ctx context.Context, key DayKey, entry LoggedEntry, expectedVersion int64) (DayLog, error)
}
