// Package plan synthesizes multi-week training plans from Metrics and a
// PlanRequest. Selection is deterministic: stable catalog order plus tag
// intersection, rotated only by an explicit seed.
package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"lg/fitcore-go-api/internal/domain"
)

const (
	DefaultWeeks = 4
	MaxWeeks     = 12

	minExercisesPerDay = 2
	maxExercisesPerDay = 8
	minutesPerExercise = 10

	maxSets  = 6
	maxReps  = 20
	minRest  = 10 // seconds
	restStep = 5

	// fullBody slots draw from every focus area.
	fullBody = "full_body"
)

// Option configures the synthesizer.
type Option func(*Synthesizer)

// WithClock sets the time source for Plan.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// WithIDFunc sets the plan ID generator.
func WithIDFunc(newID func() string) Option {
	return func(s *Synthesizer) { s.newID = newID }
}

// Synthesizer builds plans against a fixed catalog. It does no I/O and is
// safe for concurrent use.
type Synthesizer struct {
	catalog Catalog
	now     func() time.Time
	newID   func() string
}

// New creates a synthesizer over catalog.
func New(catalog Catalog, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		catalog: catalog,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// prescription is the sets/reps/rest applied to every exercise of a week.
type prescription struct {
	sets, reps, rest int
}

// basePrescription returns week-one volume for a goal and experience.
func basePrescription(goal domain.Goal, exp domain.Experience) prescription {
	var p prescription
	switch goal {
	case domain.GoalCut:
		p = prescription{sets: 3, reps: 12, rest: 45}
	case domain.GoalBulk:
		p = prescription{sets: 4, reps: 8, rest: 90}
	default:
		p = prescription{sets: 3, reps: 10, rest: 60}
	}
	if exp == domain.ExperienceAdvanced {
		p.sets++
	}
	return p
}

// weekLoad is the difficulty tier and volume step for one week.
type weekLoad struct {
	tier       int
	volumeStep int
}

// progression returns per-week loads. Tier rises on even-indexed weeks while
// below MaxTier; every other week adds a volume step. Neither ever decreases.
func progression(baseTier, weeks int) []weekLoad {
	loads := make([]weekLoad, weeks)
	cur := weekLoad{tier: baseTier}
	for w := range loads {
		if w > 0 {
			if w%2 == 0 && cur.tier < domain.MaxTier {
				cur.tier++
			} else {
				cur.volumeStep++
			}
		}
		loads[w] = cur
	}
	return loads
}

// at applies load's volume steps in order. A step adds reps (and a set every
// second step) until reps are capped, then a set until sets are capped, then
// shortens rest. Every step raises at least one of them.
func (p prescription) at(load weekLoad) prescription {
	out := p
	for step := 1; step <= load.volumeStep; step++ {
		switch {
		case out.reps < maxReps:
			out.reps = min(out.reps+2, maxReps)
			if step%2 == 0 && out.sets < maxSets {
				out.sets++
			}
		case out.sets < maxSets:
			out.sets++
		case out.rest > minRest:
			out.rest = max(out.rest-restStep, minRest)
		}
	}
	return out
}

func validate(req domain.PlanRequest) error {
	if !req.Goal.Valid() {
		return domain.Invalid("goal must be one of: cut, maintain, bulk")
	}
	if req.Experience.Tier() == 0 {
		return domain.Invalid("experience must be one of: beginner, intermediate, advanced")
	}
	if req.TrainingDaysPerWeek < 1 || req.TrainingDaysPerWeek > 7 {
		return domain.Invalid("training_days_per_week must be 1..7, got %d", req.TrainingDaysPerWeek)
	}
	if req.SessionMinutes <= 0 || req.SessionMinutes > 240 {
		return domain.Invalid("session_minutes must be 1..240, got %d", req.SessionMinutes)
	}
	if req.Weeks < 0 || req.Weeks > MaxWeeks {
		return domain.Invalid("weeks must be 0..%d, got %d", MaxWeeks, req.Weeks)
	}
	return nil
}

// Synthesize builds a plan for req and embeds a copy of m. The only fatal
// outcomes are invalid input and a day with no exercise at all.
func (s *Synthesizer) Synthesize(m domain.Metrics, req domain.PlanRequest) (domain.Plan, error) {
	if err := validate(req); err != nil {
		return domain.Plan{}, err
	}
	weeks := req.Weeks
	if weeks == 0 {
		weeks = DefaultWeeks
	}

	focus := normalizeTags(req.FocusAreas)
	if len(focus) == 0 {
		focus = []string{fullBody}
	}
	equipment := map[string]bool{domain.EquipmentBodyweight: true}
	for _, tag := range normalizeTags(req.Equipment) {
		equipment[tag] = true
	}
	slots := clamp(req.SessionMinutes/minutesPerExercise, minExercisesPerDay, maxExercisesPerDay)
	base := basePrescription(req.Goal, req.Experience)

	sel := newSelector(s.catalog, equipment, req.Seed)
	var prev map[string]bool

	plan := domain.Plan{
		ID:            s.newID(),
		CreatedAt:     s.now(),
		Request:       cloneRequest(req),
		AlgorithmData: m.Clone(),
		Weeks:         make([]domain.WeekPlan, 0, weeks),
	}
	loads := progression(req.Experience.Tier(), weeks)

	for w, load := range loads {
		rx := base.at(load)
		week := domain.WeekPlan{WeekNumber: w + 1, Days: make([]domain.DayPlan, 0, req.TrainingDaysPerWeek)}
		for d := 0; d < req.TrainingDaysPerWeek; d++ {
			day := domain.DayPlan{
				DayNumber: d + 1,
				Focus:     focus[d%len(focus)],
				Tier:      load.tier,
			}
			today := make(map[string]bool, slots)
			for slot := 0; slot < slots; slot++ {
				tag := focus[(d+slot)%len(focus)]
				e, ok := sel.pick(tag, load.tier, today, prev, w+1, d+1)
				if !ok {
					continue
				}
				today[e.Name] = true
				day.Exercises = append(day.Exercises, domain.Exercise{
					Name:        e.Name,
					FocusArea:   e.Focus,
					Equipment:   append([]string(nil), e.Equipment...),
					Tier:        e.Tier,
					Sets:        rx.sets,
					Reps:        rx.reps,
					RestSeconds: rx.rest,
				})
			}
			if len(day.Exercises) == 0 {
				return domain.Plan{}, &domain.Error{
					Kind:   domain.KindInsufficientCatalog,
					Detail: fmt.Sprintf("no exercise available for week %d day %d", w+1, d+1),
				}
			}
			week.Days = append(week.Days, day)
			prev = today
		}
		plan.Weeks = append(plan.Weeks, week)
	}

	plan.Notes = sel.notes
	plan.Name = fmt.Sprintf("%d-Week %s Plan (%d days/week)", weeks, goalTitle(req.Goal), req.TrainingDaysPerWeek)
	plan.Rationale = rationale(m, loads, base)
	return plan, nil
}

/* ─── Exercise selection ─────────────────────────────────────────────── */

// selector picks exercises for slots. Each candidate list keeps a rotating
// cursor so consecutive days walk through the list instead of restarting.
type selector struct {
	catalog   Catalog
	equipment map[string]bool
	seed      int64
	cursors   map[string]int
	notes     []domain.Diagnostic
	noted     map[string]bool
}

func newSelector(c Catalog, equipment map[string]bool, seed int64) *selector {
	return &selector{
		catalog:   c,
		equipment: equipment,
		seed:      seed,
		cursors:   make(map[string]int),
		noted:     make(map[string]bool),
	}
}

func (s *selector) note(detail string) {
	if s.noted[detail] {
		return
	}
	s.noted[detail] = true
	s.notes = append(s.notes, domain.Diagnostic{Kind: domain.KindCatalogNote, Source: "plan", Detail: detail})
}

func (s *selector) available(e Entry) bool {
	for _, tag := range e.Equipment {
		if !s.equipment[tag] {
			return false
		}
	}
	return true
}

// candidates returns the ordered list for a slot and a key identifying it.
// Falls back to bodyweight-only exercises of any focus, first within the
// tier and then at any tier.
func (s *selector) candidates(tag string, tier int) ([]Entry, string) {
	var primary, fallback, anyTier []Entry
	for _, e := range s.catalog.Exercises {
		if (e.Focus == tag || tag == fullBody) && e.Tier <= tier && s.available(e) {
			primary = append(primary, e)
		}
		if e.bodyweightOnly() {
			anyTier = append(anyTier, e)
			if e.Tier <= tier {
				fallback = append(fallback, e)
			}
		}
	}
	if len(primary) > 0 {
		return byTierDesc(primary), fmt.Sprintf("%s/%d", tag, tier)
	}
	if len(fallback) > 0 {
		s.note(fmt.Sprintf("no %s exercise matches the available equipment; using bodyweight exercises", tag))
		return byTierDesc(fallback), fmt.Sprintf("bodyweight/%d", tier)
	}
	if len(anyTier) > 0 {
		s.note(fmt.Sprintf("no %s exercise at tier %d; using bodyweight exercises above tier", tag, tier))
		sort.SliceStable(anyTier, func(i, j int) bool { return anyTier[i].Tier < anyTier[j].Tier })
		return anyTier, "bodyweight/any"
	}
	return nil, ""
}

// pick selects the next exercise for a slot, skipping anything already used
// today and, when possible, anything used on the previous day.
func (s *selector) pick(tag string, tier int, today, prev map[string]bool, week, day int) (Entry, bool) {
	list, key := s.candidates(tag, tier)
	n := len(list)
	if n == 0 {
		return Entry{}, false
	}
	cursor, ok := s.cursors[key]
	if !ok {
		cursor = int(((s.seed % int64(n)) + int64(n)) % int64(n))
	}
	for _, avoidPrev := range []bool{true, false} {
		for k := 0; k < n; k++ {
			e := list[(cursor+k)%n]
			if today[e.Name] || (avoidPrev && prev[e.Name]) {
				continue
			}
			if !avoidPrev {
				s.note(fmt.Sprintf("week %d day %d repeats %s from the previous day: only %d %s exercises available",
					week, day, e.Name, n, tag))
			}
			s.cursors[key] = (cursor + k + 1) % n
			return e, true
		}
	}
	return Entry{}, false
}

// byTierDesc orders hardest-first, keeping catalog order within a tier.
func byTierDesc(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Tier > entries[j].Tier })
	return entries
}

/* ─── Helpers ────────────────────────────────────────────────────────── */

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func cloneRequest(req domain.PlanRequest) domain.PlanRequest {
	out := req
	out.Equipment = append([]string(nil), req.Equipment...)
	out.FocusAreas = append([]string(nil), req.FocusAreas...)
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func goalTitle(g domain.Goal) string {
	s := string(g)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func rationale(m domain.Metrics, loads []weekLoad, base prescription) string {
	var b strings.Builder
	if m.TrainingStrategy != "" {
		b.WriteString(m.TrainingStrategy)
		b.WriteString(" ")
	}
	first, last := loads[0], loads[len(loads)-1]
	fmt.Fprintf(&b, "Week 1 starts at tier %d with %d×%d and %ds rest; ",
		first.tier, base.sets, base.reps, base.rest)
	end := base.at(last)
	fmt.Fprintf(&b, "by week %d the plan reaches tier %d with %d×%d and %ds rest.",
		len(loads), last.tier, end.sets, end.reps, end.rest)
	if m.DailyCalories > 0 {
		fmt.Fprintf(&b, " Nutrition target: %.0f kcal (%s) with %.0f g protein.",
			m.DailyCalories, m.CaloricStrategy, m.MacroGrams.ProteinG)
	}
	return b.String()
}
