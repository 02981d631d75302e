package plan

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"lg/fitcore-go-api/internal/domain"
)

func fixedSynthesizer(c Catalog) *Synthesizer {
	return New(c,
		WithClock(func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }),
		WithIDFunc(func() string { return "plan-1" }))
}

func sampleMetrics() domain.Metrics {
	return domain.Metrics{
		DailyCalories:    2207,
		CaloricStrategy:  domain.StrategyDeficit,
		MacroGrams:       domain.MacroGrams{ProteinG: 176, CarbsG: 200, FatG: 61},
		DetailedTips:     []string{"tip one", "tip two"},
		TrainingStrategy: "Beginner training, 3 days per week.",
	}
}

func bodyweightRequest() domain.PlanRequest {
	return domain.PlanRequest{
		Goal:                domain.GoalCut,
		Experience:          domain.ExperienceBeginner,
		Equipment:           []string{"bodyweight"},
		TrainingDaysPerWeek: 3,
		SessionMinutes:      45,
	}
}

/* ─── Structure ──────────────────────────────────────────────────────── */

// TestSynthesize_DaysPerWeek verifies every week has exactly the requested
// number of days, and week/day numbers are 1-based with no gaps.
func TestSynthesize_DaysPerWeek(t *testing.T) {
	s := fixedSynthesizer(DefaultCatalog())
	for days := 1; days <= 7; days++ {
		req := bodyweightRequest()
		req.TrainingDaysPerWeek = days
		p, err := s.Synthesize(sampleMetrics(), req)
		if err != nil {
			t.Fatalf("days=%d: unexpected error: %v", days, err)
		}
		if len(p.Weeks) != DefaultWeeks {
			t.Fatalf("days=%d: got %d weeks, want %d", days, len(p.Weeks), DefaultWeeks)
		}
		for i, w := range p.Weeks {
			if w.WeekNumber != i+1 {
				t.Errorf("week index %d has number %d", i, w.WeekNumber)
			}
			if len(w.Days) != days {
				t.Errorf("days=%d: week %d has %d days", days, w.WeekNumber, len(w.Days))
			}
			for j, d := range w.Days {
				if d.DayNumber != j+1 {
					t.Errorf("week %d day index %d has number %d", w.WeekNumber, j, d.DayNumber)
				}
				if len(d.Exercises) == 0 {
					t.Errorf("week %d day %d is empty", w.WeekNumber, d.DayNumber)
				}
			}
		}
	}
}

func TestSynthesize_CustomWeeks(t *testing.T) {
	req := bodyweightRequest()
	req.Weeks = 8
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Weeks) != 8 {
		t.Errorf("got %d weeks, want 8", len(p.Weeks))
	}
	if !strings.HasPrefix(p.Name, "8-Week Cut Plan") {
		t.Errorf("unexpected name %q", p.Name)
	}
}

/* ─── Progression ────────────────────────────────────────────────────── */

// TestSynthesize_TierNonDecreasing checks per-day tier and volume never go
// down from one week to the next, and that something does go up.
func TestSynthesize_TierNonDecreasing(t *testing.T) {
	for _, exp := range []domain.Experience{domain.ExperienceBeginner, domain.ExperienceIntermediate, domain.ExperienceAdvanced} {
		req := bodyweightRequest()
		req.Experience = exp
		req.Equipment = []string{"dumbbell", "barbell", "bench", "pull_up_bar"}
		req.Weeks = 6
		p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", exp, err)
		}
		for i := 1; i < len(p.Weeks); i++ {
			prev, cur := p.Weeks[i-1], p.Weeks[i]
			for d := range cur.Days {
				if cur.Days[d].Tier < prev.Days[d].Tier {
					t.Errorf("%s: week %d day %d tier dropped %d → %d", exp, cur.WeekNumber, d+1, prev.Days[d].Tier, cur.Days[d].Tier)
				}
				pe, ce := prev.Days[d].Exercises[0], cur.Days[d].Exercises[0]
				if ce.Sets < pe.Sets || ce.Reps < pe.Reps || ce.RestSeconds > pe.RestSeconds {
					t.Errorf("%s: week %d day %d volume dropped", exp, cur.WeekNumber, d+1)
				}
				if !progressed(prev.Days[d], cur.Days[d]) {
					t.Errorf("%s: week %d day %d did not progress", exp, cur.WeekNumber, d+1)
				}
			}
		}
		if last := p.Weeks[len(p.Weeks)-1].Days[0].Tier; last > domain.MaxTier {
			t.Errorf("%s: tier %d exceeds max", exp, last)
		}
	}
}

// progressed reports whether cur is harder than prev: a higher tier, more
// sets or reps, or shorter rest.
func progressed(prev, cur domain.DayPlan) bool {
	pe, ce := prev.Exercises[0], cur.Exercises[0]
	return cur.Tier > prev.Tier || ce.Sets > pe.Sets || ce.Reps > pe.Reps || ce.RestSeconds < pe.RestSeconds
}

// TestSynthesize_ProgressesEveryWeekToMaxHorizon covers every goal and
// experience at the longest horizon, where sets and reps hit their caps and
// tier is already at max.
func TestSynthesize_ProgressesEveryWeekToMaxHorizon(t *testing.T) {
	for _, goal := range []domain.Goal{domain.GoalCut, domain.GoalMaintain, domain.GoalBulk} {
		for _, exp := range []domain.Experience{domain.ExperienceBeginner, domain.ExperienceIntermediate, domain.ExperienceAdvanced} {
			req := bodyweightRequest()
			req.Goal, req.Experience = goal, exp
			req.SessionMinutes = 30
			req.Weeks = MaxWeeks
			p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req)
			if err != nil {
				t.Fatalf("%s/%s: unexpected error: %v", goal, exp, err)
			}
			for i := 1; i < len(p.Weeks); i++ {
				prev, cur := p.Weeks[i-1].Days[0], p.Weeks[i].Days[0]
				if !progressed(prev, cur) {
					ce := cur.Exercises[0]
					t.Errorf("%s/%s: week %d -> %d no progression: tier %d %dx%d rest %ds",
						goal, exp, i, i+1, cur.Tier, ce.Sets, ce.Reps, ce.RestSeconds)
				}
				if ce := cur.Exercises[0]; ce.Sets > maxSets || ce.Reps > maxReps || ce.RestSeconds < minRest {
					t.Errorf("%s/%s: week %d out of bounds: %dx%d rest %ds", goal, exp, i+1, ce.Sets, ce.Reps, ce.RestSeconds)
				}
			}
		}
	}
}

/* ─── Selection ──────────────────────────────────────────────────────── */

// TestSynthesize_BodyweightOnly is the bodyweight beginner scenario: every
// exercise must come from bodyweight-only catalog entries.
func TestSynthesize_BodyweightOnly(t *testing.T) {
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), bodyweightRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range p.Weeks {
		for _, d := range w.Days {
			for _, e := range d.Exercises {
				if len(e.Equipment) != 1 || e.Equipment[0] != domain.EquipmentBodyweight {
					t.Errorf("week %d day %d: %s needs %v", w.WeekNumber, d.DayNumber, e.Name, e.Equipment)
				}
			}
		}
	}
}

func TestSynthesize_NoConsecutiveRepeats(t *testing.T) {
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), bodyweightRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var prev map[string]bool
	for _, w := range p.Weeks {
		for _, d := range w.Days {
			cur := map[string]bool{}
			for _, e := range d.Exercises {
				if prev[e.Name] {
					t.Errorf("week %d day %d repeats %s from the previous day", w.WeekNumber, d.DayNumber, e.Name)
				}
				if cur[e.Name] {
					t.Errorf("week %d day %d lists %s twice", w.WeekNumber, d.DayNumber, e.Name)
				}
				cur[e.Name] = true
			}
			prev = cur
		}
	}
	if len(p.Notes) != 0 {
		t.Errorf("expected no notes, got %+v", p.Notes)
	}
}

// TestSynthesize_RepeatNote uses a catalog too small to cover consecutive
// days, so a repeat is allowed and noted.
func TestSynthesize_RepeatNote(t *testing.T) {
	c := Catalog{Exercises: []Entry{
		{Name: "Push-Up", Focus: "chest", Equipment: []string{"bodyweight"}, Tier: 1},
	}}
	req := bodyweightRequest()
	req.FocusAreas = []string{"chest"}
	p, err := fixedSynthesizer(c).Synthesize(sampleMetrics(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Notes) == 0 {
		t.Fatal("expected a repeat note")
	}
	for _, n := range p.Notes {
		if n.Kind != domain.KindCatalogNote {
			t.Errorf("note kind = %s, want %s", n.Kind, domain.KindCatalogNote)
		}
	}
}

// TestSynthesize_FallbackToBodyweight asks for a focus area with no catalog
// entry matching the equipment; bodyweight exercises fill the slot.
func TestSynthesize_FallbackToBodyweight(t *testing.T) {
	req := bodyweightRequest()
	req.FocusAreas = []string{"olympic_lifting"}
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Weeks[0].Days[0].Exercises) == 0 {
		t.Fatal("expected fallback exercises")
	}
	found := false
	for _, n := range p.Notes {
		if strings.Contains(n.Detail, "olympic_lifting") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a fallback note, got %+v", p.Notes)
	}
}

func TestSynthesize_FocusAreasRespected(t *testing.T) {
	req := bodyweightRequest()
	req.FocusAreas = []string{"legs", "core"}
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range p.Weeks {
		for _, d := range w.Days {
			for _, e := range d.Exercises {
				if e.FocusArea != "legs" && e.FocusArea != "core" {
					t.Errorf("week %d day %d: %s has focus %s", w.WeekNumber, d.DayNumber, e.Name, e.FocusArea)
				}
			}
		}
	}
}

func TestSynthesize_EmptyCatalog(t *testing.T) {
	_, err := fixedSynthesizer(Catalog{}).Synthesize(sampleMetrics(), bodyweightRequest())
	if !errors.Is(err, domain.ErrInsufficientCatalog) {
		t.Fatalf("expected ErrInsufficientCatalog, got %v", err)
	}
}

func TestSynthesize_InvalidRequest(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(r *domain.PlanRequest)
	}{
		{"zero days", func(r *domain.PlanRequest) { r.TrainingDaysPerWeek = 0 }},
		{"eight days", func(r *domain.PlanRequest) { r.TrainingDaysPerWeek = 8 }},
		{"zero minutes", func(r *domain.PlanRequest) { r.SessionMinutes = 0 }},
		{"unknown goal", func(r *domain.PlanRequest) { r.Goal = "recomp" }},
		{"unknown experience", func(r *domain.PlanRequest) { r.Experience = "elite" }},
		{"too many weeks", func(r *domain.PlanRequest) { r.Weeks = MaxWeeks + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := bodyweightRequest()
			tc.mutFn(&req)
			if _, err := fixedSynthesizer(DefaultCatalog()).Synthesize(sampleMetrics(), req); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

/* ─── Determinism and snapshot independence ─────────────────────────── */

func TestSynthesize_Deterministic(t *testing.T) {
	s := fixedSynthesizer(DefaultCatalog())
	a, err := s.Synthesize(sampleMetrics(), bodyweightRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := s.Synthesize(sampleMetrics(), bodyweightRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical requests produced different plans")
	}
}

func TestSynthesize_SeedRotatesSelection(t *testing.T) {
	s := fixedSynthesizer(DefaultCatalog())
	req := bodyweightRequest()
	a, _ := s.Synthesize(sampleMetrics(), req)
	req.Seed = 5
	b, err := s.Synthesize(sampleMetrics(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Weeks[0].Days[0].Exercises[0].Name == b.Weeks[0].Days[0].Exercises[0].Name {
		t.Error("expected a different first exercise for a different seed")
	}
}

// TestSynthesize_MetricsSnapshotIndependent verifies that changing the caller's
// Metrics after synthesis does not alter the plan's embedded copy.
func TestSynthesize_MetricsSnapshotIndependent(t *testing.T) {
	m := sampleMetrics()
	p, err := fixedSynthesizer(DefaultCatalog()).Synthesize(m, bodyweightRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.DetailedTips[0] = "edited later"
	m.DailyCalories = 3000
	if p.AlgorithmData.DetailedTips[0] != "tip one" {
		t.Errorf("embedded tips changed to %q", p.AlgorithmData.DetailedTips[0])
	}
	if p.AlgorithmData.DailyCalories != 2207 {
		t.Errorf("embedded calories changed to %f", p.AlgorithmData.DailyCalories)
	}
	if p.ID != "plan-1" {
		t.Errorf("ID = %q, want plan-1", p.ID)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad tier":  "exercises:\n  - {name: X, focus: chest, tier: 9}\n",
		"no name":   "exercises:\n  - {focus: chest, tier: 1}\n",
		"duplicate": "exercises:\n  - {name: X, focus: chest, tier: 1}\n  - {name: X, focus: back, tier: 1}\n",
		"not yaml":  "exercises: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseCatalog_DefaultsEquipment(t *testing.T) {
	c, err := ParseCatalog([]byte("exercises:\n  - {name: Plank, focus: Core, tier: 1}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := c.Exercises[0]
	if e.Focus != "core" || len(e.Equipment) != 1 || e.Equipment[0] != domain.EquipmentBodyweight {
		t.Errorf("unexpected entry %+v", e)
	}
}
