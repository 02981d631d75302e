package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"lg/fitcore-go-api/internal/domain"
)

var ctx = context.Background()

func TestMemory_Profile(t *testing.T) {
	s := NewMemory()
	if _, err := s.GetProfile(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	p := domain.UserProfile{UserID: 1, HeightCM: 180, WeightKG: 80, Age: 30, Sex: domain.SexMale, Equipment: []string{"dumbbell"}}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	p.Equipment[0] = "barbell" // caller mutation must not leak into the store

	got, err := s.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Equipment[0] != "dumbbell" {
		t.Errorf("stored profile aliases caller slice: %v", got.Equipment)
	}
}

func samplePlan(id string, userID int, created time.Time) domain.Plan {
	return domain.Plan{
		ID:        id,
		UserID:    userID,
		Name:      "4-Week Cut Plan (3 days/week)",
		CreatedAt: created,
		Weeks: []domain.WeekPlan{{WeekNumber: 1, Days: []domain.DayPlan{{
			DayNumber: 1,
			Focus:     "full_body",
			Exercises: []domain.Exercise{{Name: "Push-Up", Sets: 3, Reps: 12}},
		}}}},
	}
}

func TestMemory_Plans(t *testing.T) {
	s := NewMemory()
	t0 := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	older, newer, other := samplePlan("a", 1, t0), samplePlan("b", 1, t0.Add(time.Hour)), samplePlan("c", 2, t0)
	for _, p := range []domain.Plan{older, newer, other} {
		if err := s.CreatePlan(ctx, p); err != nil {
			t.Fatalf("CreatePlan(%s): %v", p.ID, err)
		}
	}
	if err := s.CreatePlan(ctx, older); err == nil {
		t.Error("expected error on duplicate plan ID")
	}

	list, err := s.ListPlans(ctx, 1)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Errorf("ListPlans order = %v", list)
	}

	got, err := s.GetPlan(ctx, 1, "a")
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if !reflect.DeepEqual(got, older) {
		t.Errorf("GetPlan = %+v, want %+v", got, older)
	}
	got.Weeks[0].Days[0].Exercises[0].Name = "changed"
	again, _ := s.GetPlan(ctx, 1, "a")
	if again.Weeks[0].Days[0].Exercises[0].Name != "Push-Up" {
		t.Error("returned plan aliases stored plan")
	}

	// Plans are scoped to their owner.
	if _, err := s.GetPlan(ctx, 2, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-user GetPlan err = %v, want NotFound", err)
	}
	if err := s.DeletePlan(ctx, 2, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("cross-user DeletePlan err = %v, want NotFound", err)
	}
	if err := s.DeletePlan(ctx, 1, "a"); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := s.GetPlan(ctx, 1, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted plan still readable: %v", err)
	}
}

func TestMemory_DayVersioning(t *testing.T) {
	s := NewMemory()
	key := domain.DayKey{UserID: 1, Date: "2026-10-01"}

	day, err := s.Day(ctx, key)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if day.Version != 0 || day.Entries == nil || len(day.Entries) != 0 {
		t.Fatalf("empty day = %+v", day)
	}

	day, err = s.Append(ctx, key, domain.LoggedEntry{ID: "e1", Calories: 100}, 0)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if day.Version != 1 || len(day.Entries) != 1 {
		t.Errorf("after append = %+v", day)
	}

	// A writer holding the stale version is rejected.
	if _, err := s.Append(ctx, key, domain.LoggedEntry{ID: "e2"}, 0); !errors.Is(err, domain.ErrCommitConflict) {
		t.Errorf("stale append err = %v, want CommitConflict", err)
	}

	// Other days are independent.
	otherDay := domain.DayKey{UserID: 1, Date: "2026-10-02"}
	if _, err := s.Append(ctx, otherDay, domain.LoggedEntry{ID: "e3"}, 0); err != nil {
		t.Errorf("append to other day: %v", err)
	}

	day, _ = s.Day(ctx, key)
	if len(day.Entries) != 1 || day.Entries[0].ID != "e1" {
		t.Errorf("day entries = %+v", day.Entries)
	}
}

func TestMemory_Users(t *testing.T) {
	s := NewMemory()
	u := s.AddUser(User{Username: "lyle", Password: "hash", AuthToken: "tok"})
	if u.ID != 1 {
		t.Errorf("assigned ID = %d, want 1", u.ID)
	}
	got, err := s.UserByUsername(ctx, "lyle")
	if err != nil || got.AuthToken != "tok" {
		t.Errorf("UserByUsername = %+v, %v", got, err)
	}
	if id, err := s.UserIDByToken(ctx, "tok"); err != nil || id != 1 {
		t.Errorf("UserIDByToken = %d, %v", id, err)
	}
	if _, err := s.UserIDByToken(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown token err = %v", err)
	}
}

func TestMemory_AddUserIDsStayUnique(t *testing.T) {
	s := NewMemory()
	a := s.AddUser(User{Username: "a", AuthToken: "ta"})
	again := s.AddUser(User{Username: "a", AuthToken: "ta2"})
	b := s.AddUser(User{Username: "b", AuthToken: "tb"})

	if again.ID != a.ID {
		t.Errorf("replacing user a changed its ID: %d -> %d", a.ID, again.ID)
	}
	if b.ID == a.ID {
		t.Errorf("new user b reused ID %d", b.ID)
	}
	if id, err := s.UserIDByToken(ctx, "tb"); err != nil || id != b.ID {
		t.Errorf("UserIDByToken(tb) = %d, %v; want %d", id, err, b.ID)
	}

	explicit := s.AddUser(User{ID: 10, Username: "c"})
	next := s.AddUser(User{Username: "d"})
	if explicit.ID != 10 || next.ID != 11 {
		t.Errorf("ids = %d, %d; want 10, 11", explicit.ID, next.ID)
	}
}
