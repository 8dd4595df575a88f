// Package types provides type definitions for the structured data shared across the fit engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
)

// Seniority is the inferred career level of a candidate
type Seniority string

// Seniority levels in ascending order
const (
	SeniorityEntry  Seniority = "entry"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
	SeniorityLead   Seniority = "lead"
)

var seniorityRank = map[Seniority]int{
	SeniorityEntry:  0,
	SeniorityMid:    1,
	SenioritySenior: 2,
	SeniorityLead:   3,
}

// Year thresholds at which a level starts
const (
	midYears    = 2.0
	seniorYears = 5.0
	leadYears   = 8.0
)

// Role is a single position found in a resume with its duration in years
type Role struct {
	Title     string  `json:"title"`
	StartDate string  `json:"start_date"` // YYYY-MM
	EndDate   string  `json:"end_date"`   // YYYY-MM, or "present"
	Years     float64 `json:"years"`
	Span      Span    `json:"span"`
}

// ExperienceProfile summarizes experience signals for a document.
// For resumes TotalYears and Roles are populated; for jobs MinYearsRequired
// is set when the posting states a minimum.
type ExperienceProfile struct {
	TotalYears       float64  `json:"total_years"`
	Roles            []Role   `json:"roles"`
	MinYearsRequired *float64 `json:"min_years_required,omitempty"`
}

// Seniority derives the level from total years and role titles.
// The level is never stored; it is recomputed from the profile on demand.
func (p *ExperienceProfile) Seniority() Seniority {
	if p == nil {
		return SeniorityEntry
	}

	level := SeniorityEntry
	switch {
	case p.TotalYears >= leadYears:
		level = SeniorityLead
	case p.TotalYears >= seniorYears:
		level = SenioritySenior
	case p.TotalYears >= midYears:
		level = SeniorityMid
	}

	for _, role := range p.Roles {
		if titleLevel := seniorityFromTitle(role.Title); seniorityRank[titleLevel] > seniorityRank[level] {
			level = titleLevel
		}
	}
	return level
}

// seniorityFromTitle maps title keywords to a level; titles without a keyword give entry
func seniorityFromTitle(title string) Seniority {
	words := strings.Fields(strings.ToLower(title))
	level := SeniorityEntry
	for _, w := range words {
		w = strings.Trim(w, ".,()")
		switch w {
		case "lead", "principal", "staff", "head", "director", "architect", "manager":
			return SeniorityLead
		case "senior", "sr":
			level = SenioritySenior
		}
	}
	return level
}

// MarshalJSON includes the derived seniority so persisted profiles are self-describing
func (p ExperienceProfile) MarshalJSON() ([]byte, error) {
	type alias ExperienceProfile
	return json.Marshal(struct {
		alias
		Seniority Seniority `json:"seniority"`
	}{
		alias:     alias(p),
		Seniority: p.Seniority(),
	})
}
