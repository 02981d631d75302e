// Package store implements the persistence ports: an in-memory store for
// development and tests, and a PostgreSQL store backed by pgx.
package store

import (
	"slices"

	"lg/fitcore-go-api/internal/domain"
)

// User is an account that can authenticate against the API.
type User struct {
	ID        int    `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	Password  string `db:"password"` // bcrypt hash
	AuthToken string `db:"auth_token"`
}

func notFound(what string) error {
	return &domain.Error{Kind: domain.KindNotFound, Detail: what + " not found"}
}

// clonePlan deep-copies p so stored plans never alias caller slices.
func clonePlan(p domain.Plan) domain.Plan {
	out := p
	out.Request = cloneRequest(p.Request)
	out.AlgorithmData = p.AlgorithmData.Clone()
	out.Notes = slices.Clone(p.Notes)
	if p.Weeks == nil {
		return out
	}
	out.Weeks = make([]domain.WeekPlan, len(p.Weeks))
	for i, w := range p.Weeks {
		days := make([]domain.DayPlan, len(w.Days))
		for j, d := range w.Days {
			d.Exercises = slices.Clone(d.Exercises)
			days[j] = d
		}
		out.Weeks[i] = domain.WeekPlan{WeekNumber: w.WeekNumber, Days: days}
	}
	return out
}

func cloneRequest(r domain.PlanRequest) domain.PlanRequest {
	r.Equipment = slices.Clone(r.Equipment)
	r.FocusAreas = slices.Clone(r.FocusAreas)
	return r
}

func cloneProfile(p domain.UserProfile) domain.UserProfile {
	p.Equipment = slices.Clone(p.Equipment)
	p.FocusAreas = slices.Clone(p.FocusAreas)
	return p
}
