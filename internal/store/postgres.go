package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/fitcore-go-api/internal/domain"
)

var (
	_ domain.ProfileStore = (*Postgres)(nil)
	_ domain.PlanStore    = (*Postgres)(nil)
	_ domain.NutritionLog = (*Postgres)(nil)
)

// Postgres implements the stores on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Connect creates a connection pool. We use a pool (not a single conn) because
// hosted Postgres providers close idle connections.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

/* ─── Users ──────────────────────────────────────────────────────────── */

// UserByUsername looks up a user for login.
func (s *Postgres) UserByUsername(ctx context.Context, username string) (User, error) {
	u, err := queryOne[User](ctx, s.pool,
		"SELECT id, username, email, password, auth_token FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, notFound("user")
	}
	return u, err
}

// UserIDByToken resolves a bearer token.
func (s *Postgres) UserIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, notFound("user")
	}
	return userID, err
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

// profileRow maps to the profiles table.
type profileRow struct {
	UserID              int      `db:"user_id"`
	HeightCM            float64  `db:"height_cm"`
	WeightKG            float64  `db:"weight_kg"`
	Age                 int      `db:"age"`
	Sex                 string   `db:"sex"`
	ActivityLevel       string   `db:"activity_level"`
	Goal                string   `db:"goal"`
	Experience          string   `db:"experience"`
	Equipment           []string `db:"equipment"`
	FocusAreas          []string `db:"focus_areas"`
	TrainingDaysPerWeek int      `db:"training_days_per_week"`
	SessionMinutes      int      `db:"session_minutes"`
}

func (r profileRow) toDomain() domain.UserProfile {
	return domain.UserProfile{
		UserID:              r.UserID,
		HeightCM:            r.HeightCM,
		WeightKG:            r.WeightKG,
		Age:                 r.Age,
		Sex:                 domain.Sex(r.Sex),
		ActivityLevel:       domain.ActivityLevel(r.ActivityLevel),
		Goal:                domain.Goal(r.Goal),
		Experience:          domain.Experience(r.Experience),
		Equipment:           r.Equipment,
		FocusAreas:          r.FocusAreas,
		TrainingDaysPerWeek: r.TrainingDaysPerWeek,
		SessionMinutes:      r.SessionMinutes,
	}
}

// GetProfile returns the stored profile for userID.
func (s *Postgres) GetProfile(ctx context.Context, userID int) (domain.UserProfile, error) {
	r, err := queryOne[profileRow](ctx, s.pool,
		`SELECT user_id, height_cm, weight_kg, age, sex, activity_level, goal, experience,
		        equipment, focus_areas, training_days_per_week, session_minutes
		 FROM profiles WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, notFound("profile")
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return r.toDomain(), nil
}

// SaveProfile inserts or replaces the profile for p.UserID.
func (s *Postgres) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	equipment, focus := p.Equipment, p.FocusAreas
	if equipment == nil {
		equipment = []string{}
	}
	if focus == nil {
		focus = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, height_cm, weight_kg, age, sex, activity_level, goal,
		                       experience, equipment, focus_areas, training_days_per_week, session_minutes)
		 VALUES (@userID, @heightCM, @weightKG, @age, @sex, @activityLevel, @goal,
		         @experience, @equipment, @focusAreas, @days, @minutes)
		 ON CONFLICT (user_id) DO UPDATE SET
		   height_cm = EXCLUDED.height_cm,
		   weight_kg = EXCLUDED.weight_kg,
		   age = EXCLUDED.age,
		   sex = EXCLUDED.sex,
		   activity_level = EXCLUDED.activity_level,
		   goal = EXCLUDED.goal,
		   experience = EXCLUDED.experience,
		   equipment = EXCLUDED.equipment,
		   focus_areas = EXCLUDED.focus_areas,
		   training_days_per_week = EXCLUDED.training_days_per_week,
		   session_minutes = EXCLUDED.session_minutes,
		   updated_at = NOW()`,
		pgx.NamedArgs{
			"userID":        p.UserID,
			"heightCM":      p.HeightCM,
			"weightKG":      p.WeightKG,
			"age":           p.Age,
			"sex":           string(p.Sex),
			"activityLevel": string(p.ActivityLevel),
			"goal":          string(p.Goal),
			"experience":    string(p.Experience),
			"equipment":     equipment,
			"focusAreas":    focus,
			"days":          p.TrainingDaysPerWeek,
			"minutes":       p.SessionMinutes,
		})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

/* ─── Plans ──────────────────────────────────────────────────────────── */

// planRow maps to the plans table. The full plan is kept as JSONB; id, user
// and timestamps are broken out for lookups and ordering.
type planRow struct {
	ID        string    `db:"id"`
	UserID    int       `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	Data      []byte    `db:"data"`
}

func (r planRow) toDomain() (domain.Plan, error) {
	var p domain.Plan
	if err := json.Unmarshal(r.Data, &p); err != nil {
		return domain.Plan{}, fmt.Errorf("decode plan %s: %w", r.ID, err)
	}
	p.ID, p.UserID, p.Name = r.ID, r.UserID, r.Name
	return p, nil
}

// CreatePlan stores p.
func (s *Postgres) CreatePlan(ctx context.Context, p domain.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO plans (id, user_id, name, created_at, data)
		 VALUES (@id, @userID, @name, @createdAt, @data)`,
		pgx.NamedArgs{"id": p.ID, "userID": p.UserID, "name": p.Name, "createdAt": p.CreatedAt, "data": string(data)})
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan returns a plan owned by userID.
func (s *Postgres) GetPlan(ctx context.Context, userID int, id string) (domain.Plan, error) {
	r, err := queryOne[planRow](ctx, s.pool,
		"SELECT id, user_id, name, created_at, data FROM plans WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Plan{}, notFound("plan")
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return r.toDomain()
}

// ListPlans returns userID's plans, newest first.
func (s *Postgres) ListPlans(ctx context.Context, userID int) ([]domain.Plan, error) {
	rows, err := queryMany[planRow](ctx, s.pool,
		"SELECT id, user_id, name, created_at, data FROM plans WHERE user_id = @userID ORDER BY created_at DESC, id",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]domain.Plan, 0, len(rows))
	for _, r := range rows {
		p, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DeletePlan removes a plan owned by userID.
func (s *Postgres) DeletePlan(ctx context.Context, userID int, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM plans WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("plan")
	}
	return nil
}

/* ─── Nutrition log ──────────────────────────────────────────────────── */

// entryRow maps to food_log_entries.
type entryRow struct {
	ID                 string    `db:"id"`
	UserID             int       `db:"user_id"`
	Date               string    `db:"date"`
	Name               string    `db:"name"`
	Provider           string    `db:"provider"`
	SourceID           string    `db:"source_id"`
	Barcode            string    `db:"barcode"`
	ServingDescription string    `db:"serving_description"`
	Servings           float64   `db:"servings"`
	Calories           float64   `db:"calories"`
	ProteinG           float64   `db:"protein_g"`
	CarbsG             float64   `db:"carbs_g"`
	FatG               float64   `db:"fat_g"`
	LoggedAt           time.Time `db:"logged_at"`
}

func (r entryRow) toDomain() domain.LoggedEntry {
	return domain.LoggedEntry{
		ID:                 r.ID,
		UserID:             r.UserID,
		Date:               r.Date,
		Name:               r.Name,
		Provider:           domain.Provider(r.Provider),
		SourceID:           r.SourceID,
		Barcode:            r.Barcode,
		ServingDescription: r.ServingDescription,
		Servings:           r.Servings,
		Calories:           r.Calories,
		ProteinG:           r.ProteinG,
		CarbsG:             r.CarbsG,
		FatG:               r.FatG,
		LoggedAt:           r.LoggedAt,
	}
}

const selectEntries = `
	SELECT id, user_id, to_char(date, 'YYYY-MM-DD') AS date, name, provider, source_id,
	       barcode, serving_description, servings, calories, protein_g, carbs_g, fat_g, logged_at
	FROM food_log_entries
	WHERE user_id = @userID AND date = @date
	ORDER BY logged_at, id`

// readDay loads entries and version with q. A missing version row reads as 0.
func readDay(ctx context.Context, q querier, key domain.DayKey, version int64) (domain.DayLog, error) {
	rows, err := queryMany[entryRow](ctx, q, selectEntries, pgx.NamedArgs{"userID": key.UserID, "date": key.Date})
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("read day entries: %w", err)
	}
	day := domain.DayLog{Key: key, Entries: make([]domain.LoggedEntry, 0, len(rows)), Version: version}
	for _, r := range rows {
		day.Entries = append(day.Entries, r.toDomain())
	}
	return day, nil
}

// Day returns the day's entries and version.
func (s *Postgres) Day(ctx context.Context, key domain.DayKey) (domain.DayLog, error) {
	var version int64
	err := s.pool.QueryRow(ctx,
		"SELECT version FROM food_log_days WHERE user_id = $1 AND date = $2",
		key.UserID, key.Date).Scan(&version)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.DayLog{}, fmt.Errorf("read day version: %w", err)
	}
	return readDay(ctx, s.pool, key, version)
}

// Append inserts entry when the day's version still equals expectedVersion.
// The version row is locked FOR UPDATE so concurrent writers from other
// processes serialize on it.
func (s *Postgres) Append(ctx context.Context, key domain.DayKey, entry domain.LoggedEntry, expectedVersion int64) (domain.DayLog, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO food_log_days (user_id, date, version) VALUES ($1, $2, 0)
		 ON CONFLICT (user_id, date) DO NOTHING`,
		key.UserID, key.Date); err != nil {
		return domain.DayLog{}, fmt.Errorf("ensure day row: %w", err)
	}

	var version int64
	if err := tx.QueryRow(ctx,
		"SELECT version FROM food_log_days WHERE user_id = $1 AND date = $2 FOR UPDATE",
		key.UserID, key.Date).Scan(&version); err != nil {
		return domain.DayLog{}, fmt.Errorf("lock day row: %w", err)
	}
	if version != expectedVersion {
		return domain.DayLog{}, &domain.Error{
			Kind:   domain.KindCommitConflict,
			Detail: fmt.Sprintf("day %s changed: version %d, expected %d", key.Date, version, expectedVersion),
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO food_log_entries (id, user_id, date, name, provider, source_id, barcode,
		                               serving_description, servings, calories, protein_g, carbs_g, fat_g, logged_at)
		 VALUES (@id, @userID, @date, @name, @provider, @sourceID, @barcode,
		         @servingDescription, @servings, @calories, @proteinG, @carbsG, @fatG, @loggedAt)`,
		pgx.NamedArgs{
			"id":                 entry.ID,
			"userID":             key.UserID,
			"date":               key.Date,
			"name":               entry.Name,
			"provider":           string(entry.Provider),
			"sourceID":           entry.SourceID,
			"barcode":            entry.Barcode,
			"servingDescription": entry.ServingDescription,
			"servings":           entry.Servings,
			"calories":           entry.Calories,
			"proteinG":           entry.ProteinG,
			"carbsG":             entry.CarbsG,
			"fatG":               entry.FatG,
			"loggedAt":           entry.LoggedAt,
		})
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("insert entry: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"UPDATE food_log_days SET version = version + 1 WHERE user_id = $1 AND date = $2",
		key.UserID, key.Date); err != nil {
		return domain.DayLog{}, fmt.Errorf("bump day version: %w", err)
	}

	day, err := readDay(ctx, tx, key, version+1)
	if err != nil {
		return domain.DayLog{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.DayLog{}, fmt.Errorf("commit: %w", err)
	}
	return day, nil
}
