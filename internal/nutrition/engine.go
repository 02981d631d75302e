package nutrition

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lg/fitcore-go-api/internal/domain"
)

// DefaultProviderTimeout bounds each provider call when no option is given.
const DefaultProviderTimeout = 4 * time.Second

// Option configures the engine.
type Option func(*Engine)

// WithProviderTimeout bounds each provider call. A provider still running at
// expiry counts as failed; the other provider's results are kept.
func WithProviderTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithClock sets the time source for LoggedEntry.LoggedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDFunc sets the logged-entry ID generator.
func WithIDFunc(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// Engine searches providers and commits selections to the nutrition log.
// Searches share no mutable state. Commits are serialized per user-day.
type Engine struct {
	sources []Source
	log     domain.NutritionLog
	timeout time.Duration
	now     func() time.Time
	newID   func() string
	locks   dayLocks
}

// New creates an engine over sources, writing commits to log.
func New(log domain.NutritionLog, sources []Source, opts ...Option) *Engine {
	e := &Engine{
		sources: sources,
		log:     log,
		timeout: DefaultProviderTimeout,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchResult is the ranked output of a search plus non-fatal diagnostics
// (provider failures, malformed records).
type SearchResult struct {
	Results     []domain.RankedResult `json:"results"`
	Diagnostics []domain.Diagnostic   `json:"diagnostics,omitempty"`
}

// Search queries every provider concurrently, normalizes, dedupes and ranks
// the candidates against remaining. It fails only when the query is empty or
// every provider failed; empty results are not a failure, but a non-empty
// response with no usable record is.
func (e *Engine) Search(ctx context.Context, query string, remaining domain.RemainingMacros) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, domain.Invalid("query is required")
	}
	if len(e.sources) == 0 {
		return SearchResult{}, &domain.Error{Kind: domain.KindNoProvidersAvailable, Detail: "no providers configured"}
	}

	records := make([][]Record, len(e.sources))
	errs := make([]error, len(e.sources))
	var g errgroup.Group
	for i, src := range e.sources {
		g.Go(func() error {
			records[i], errs[i] = e.fetch(ctx, src, query)
			return nil
		})
	}
	_ = g.Wait()

	var res SearchResult
	var failures []error
	var candidates []domain.FoodCandidate
	for i, src := range e.sources {
		if errs[i] != nil {
			failures = append(failures, errs[i])
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Kind:   domain.KindProviderFailure,
				Source: string(src.Provider()),
				Detail: errs[i].Error(),
			})
			continue
		}
		usable := 0
		for _, r := range records[i] {
			c, err := Normalize(r)
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
					Kind:   domain.KindMalformedRecord,
					Source: string(src.Provider()),
					Detail: err.Error(),
				})
				continue
			}
			candidates = append(candidates, c)
			usable++
		}
		// A response made only of malformed records is a failed call, not
		// an empty result.
		if n := len(records[i]); n > 0 && usable == 0 {
			err := fmt.Errorf("%s: all %d records malformed", src.Provider(), n)
			failures = append(failures, err)
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Kind:   domain.KindProviderFailure,
				Source: string(src.Provider()),
				Detail: err.Error(),
			})
		}
	}
	if len(failures) == len(e.sources) {
		return res, &domain.Error{
			Kind:   domain.KindNoProvidersAvailable,
			Detail: "every food provider failed",
			Err:    errors.Join(failures...),
		}
	}

	res.Results = Rank(Dedupe(candidates), remaining)
	return res, nil
}

// fetch calls one provider under the per-provider timeout. It returns as soon
// as the deadline passes even if the provider ignores its context.
func (e *Engine) fetch(ctx context.Context, src Source, query string) ([]Record, error) {
	cctx, cancel := ctx, context.CancelFunc(func() {})
	if e.timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	type result struct {
		records []Record
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		recs, err := src.Search(cctx, query)
		ch <- result{recs, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", src.Provider(), r.err)
		}
		return r.records, nil
	case <-cctx.Done():
		return nil, fmt.Errorf("%s: %w", src.Provider(), cctx.Err())
	}
}

/* ─── Log access ─────────────────────────────────────────────────────── */

// CommitResult is the logged entry and the day's remaining macros after it.
type CommitResult struct {
	Entry     domain.LoggedEntry     `json:"entry"`
	Remaining domain.RemainingMacros `json:"remaining"`
}

// Remaining reads the day's log and returns targets minus what was logged.
func (e *Engine) Remaining(ctx context.Context, key domain.DayKey, targets domain.MacroTargets) (domain.RemainingMacros, domain.DayLog, error) {
	if err := validateKey(key); err != nil {
		return domain.RemainingMacros{}, domain.DayLog{}, err
	}
	day, err := e.log.Day(ctx, key)
	if err != nil {
		return domain.RemainingMacros{}, domain.DayLog{}, fmt.Errorf("reading day log: %w", err)
	}
	return remainingFrom(targets, day.Entries), day, nil
}

// Commit logs servings of c against the day and returns the new remaining
// macros. The read-modify-write runs under the day's lock; the log rejects
// the append with ErrCommitConflict if the day changed underneath anyway.
func (e *Engine) Commit(ctx context.Context, key domain.DayKey, targets domain.MacroTargets, c domain.FoodCandidate, servings float64) (CommitResult, error) {
	if err := validateKey(key); err != nil {
		return CommitResult{}, err
	}
	if !(servings > 0) || math.IsInf(servings, 0) {
		return CommitResult{}, domain.Invalid("servings must be positive, got %v", servings)
	}
	if strings.TrimSpace(c.Name) == "" {
		return CommitResult{}, domain.Invalid("food name is required")
	}
	if c.CaloriesPerServing < 0 || c.ProteinG < 0 || c.CarbsG < 0 || c.FatG < 0 {
		return CommitResult{}, domain.Invalid("food macros must not be negative")
	}

	unlock := e.locks.lock(key)
	defer unlock()

	day, err := e.log.Day(ctx, key)
	if err != nil {
		return CommitResult{}, fmt.Errorf("reading day log: %w", err)
	}

	entry := domain.LoggedEntry{
		ID:                 e.newID(),
		UserID:             key.UserID,
		Date:               key.Date,
		Name:               c.Name,
		Provider:           c.Provider,
		SourceID:           c.SourceID,
		Barcode:            c.Barcode,
		ServingDescription: c.ServingDescription,
		Servings:           servings,
		Calories:           c.CaloriesPerServing * servings,
		ProteinG:           c.ProteinG * servings,
		CarbsG:             c.CarbsG * servings,
		FatG:               c.FatG * servings,
		LoggedAt:           e.now(),
	}
	updated, err := e.log.Append(ctx, key, entry, day.Version)
	if err != nil {
		return CommitResult{}, fmt.Errorf("appending entry: %w", err)
	}
	return CommitResult{Entry: entry, Remaining: remainingFrom(targets, updated.Entries)}, nil
}

func validateKey(key domain.DayKey) error {
	if key.UserID <= 0 {
		return domain.Invalid("user id must be positive, got %d", key.UserID)
	}
	if _, err := time.Parse("2006-01-02", key.Date); err != nil {
		return domain.Invalid("invalid date %q, expected YYYY-MM-DD", key.Date)
	}
	return nil
}

// remainingFrom subtracts logged totals from targets. Values go negative
// once a target is exceeded.
func remainingFrom(targets domain.MacroTargets, entries []domain.LoggedEntry) domain.RemainingMacros {
	r := targets
	for _, en := range entries {
		r.Calories -= en.Calories
		r.ProteinG -= en.ProteinG
		r.CarbsG -= en.CarbsG
		r.FatG -= en.FatG
	}
	return r
}

/* ─── Per-day locks ──────────────────────────────────────────────────── */

// dayLocks hands out one mutex per user-day, dropping it when unused.
type dayLocks struct {
	mu    sync.Mutex
	locks map[domain.DayKey]*dayLock
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

func (d *dayLocks) lock(key domain.DayKey) (unlock func()) {
	d.mu.Lock()
	if d.locks == nil {
		d.locks = make(map[domain.DayKey]*dayLock)
	}
	l, ok := d.locks[key]
	if !ok {
		l = &dayLock{}
		d.locks[key] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, key)
		}
		d.mu.Unlock()
	}
}
