package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"lg/fitcore-go-api/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.ProfileStore = (*Memory)(nil)
	_ domain.PlanStore    = (*Memory)(nil)
	_ domain.NutritionLog = (*Memory)(nil)
)

// Memory keeps profiles, plans, day logs and users in maps. Safe for
// concurrent access. Values are copied in and out.
type Memory struct {
	mu       sync.RWMutex
	profiles map[int]domain.UserProfile
	plans    map[string]domain.Plan
	days     map[domain.DayKey]domain.DayLog
	users    map[string]User // by username
	nextID   int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[int]domain.UserProfile),
		plans:    make(map[string]domain.Plan),
		days:     make(map[domain.DayKey]domain.DayLog),
		users:    make(map[string]User),
	}
}

/* ─── Users ──────────────────────────────────────────────────────────── */

// AddUser registers or replaces u by username. A zero ID keeps the
// replaced user's ID, or takes the next unused one for a new username.
func (s *Memory) AddUser(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[u.Username]; ok && u.ID == 0 {
		u.ID = existing.ID
	}
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	}
	s.nextID = max(s.nextID, u.ID)
	s.users[u.Username] = u
	return u
}

// UserByUsername looks up a user for login.
func (s *Memory) UserByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return User{}, notFound("user")
	}
	return u, nil
}

// UserIDByToken resolves a bearer token.
func (s *Memory) UserIDByToken(ctx context.Context, token string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if token != "" && u.AuthToken == token {
			return u.ID, nil
		}
	}
	return 0, notFound("user")
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

// GetProfile returns the stored profile for userID.
func (s *Memory) GetProfile(ctx context.Context, userID int) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, notFound("profile")
	}
	return cloneProfile(p), nil
}

// SaveProfile inserts or replaces the profile for p.UserID.
func (s *Memory) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.UserID] = cloneProfile(p)
	return nil
}

/* ─── Plans ──────────────────────────────────────────────────────────── */

// CreatePlan stores p. IDs must be unique.
func (s *Memory) CreatePlan(ctx context.Context, p domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID]; exists {
		return fmt.Errorf("plan %s already exists", p.ID)
	}
	s.plans[p.ID] = clonePlan(p)
	return nil
}

// GetPlan returns a plan owned by userID.
func (s *Memory) GetPlan(ctx context.Context, userID int, id string) (domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok || p.UserID != userID {
		return domain.Plan{}, notFound("plan")
	}
	return clonePlan(p), nil
}

// ListPlans returns userID's plans, newest first.
func (s *Memory) ListPlans(ctx context.Context, userID int) ([]domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Plan{}
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeletePlan removes a plan owned by userID.
func (s *Memory) DeletePlan(ctx context.Context, userID int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok || p.UserID != userID {
		return notFound("plan")
	}
	delete(s.plans, id)
	return nil
}

/* ─── Nutrition log ──────────────────────────────────────────────────── */

// Day returns the day's entries and version. A day with no entries has
// version 0 and an empty entry list.
func (s *Memory) Day(ctx context.Context, key domain.DayKey) (domain.DayLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.days[key]
	if !ok {
		return domain.DayLog{Key: key, Entries: []domain.LoggedEntry{}}, nil
	}
	d.Entries = slices.Clone(d.Entries)
	return d, nil
}

// Append adds entry to the day when its version still equals expectedVersion.
func (s *Memory) Append(ctx context.Context, key domain.DayKey, entry domain.LoggedEntry, expectedVersion int64) (domain.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.days[key]
	if !ok {
		d = domain.DayLog{Key: key}
	}
	if d.Version != expectedVersion {
		return domain.DayLog{}, &domain.Error{
			Kind:   domain.KindCommitConflict,
			Detail: fmt.Sprintf("day %s changed: version %d, expected %d", key.Date, d.Version, expectedVersion),
		}
	}
	d.Entries = append(slices.Clone(d.Entries), entry)
	d.Version++
	s.days[key] = d

	d.Entries = slices.Clone(d.Entries)
	return d, nil
}
