// Package types provides type definitions for structured data used throughout the resume-layout engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ContentPool represents the candidate content for one user as already persisted.
// The engine reads it; it never creates or deletes entries.
type ContentPool struct {
	Roles []Role `json:"roles"`
}

// Role represents a single position. A consulting role owns Engagements,
// a direct role owns Bullets; the two are mutually exclusive.
type Role struct {
	ID         string `json:"id"`
	Company    string `json:"company"`
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	Consulting bool   `json:"consulting,omitempty"`

	// RecencyRank orders roles for allocation: 0 is the most recent role.
	RecencyRank int `json:"recency_rank"`
	// SeniorityWeight breaks ties between roles with equal recency.
	SeniorityWeight float64 `json:"seniority_weight,omitempty"`
	// Seniority is the level label used for job-target matching (e.g. "senior").
	Seniority string `json:"seniority,omitempty"`

	// MinBullets/MaxBullets bound the selected bullet count when the role is
	// included. Zero values fall back to the configured defaults.
	MinBullets int `json:"min_bullets,omitempty"`
	MaxBullets int `json:"max_bullets,omitempty"`

	Engagements []Engagement      `json:"engagements,omitempty"`
	Bullets     []CandidateBullet `json:"bullets,omitempty"`
}

// Engagement represents a client or project grouping nested under a consulting role.
type Engagement struct {
	ID      string            `json:"id"`
	RoleID  string            `json:"role_id"`
	Client  string            `json:"client"`
	Bullets []CandidateBullet `json:"bullets"`
}

// CandidateBullet represents one immutable achievement statement in the pool.
// Compression never mutates it; a compressed variant lives on the plan instead.
type CandidateBullet struct {
	ID           string   `json:"id"`
	RoleID       string   `json:"role_id"`
	EngagementID string   `json:"engagement_id,omitempty"`
	Text         string   `json:"text"`
	DomainTags   []string `json:"domain_tags,omitempty"`
	TechTags     []string `json:"tech_tags,omitempty"`
	// Important flags a bullet the candidate considers high-value; the scorer
	// applies a fixed boost.
	Important bool `json:"important,omitempty"`
}

// AllBullets returns every bullet owned by the role, whether direct or nested
// under engagements, in source order.
func (r *Role) AllBullets() []CandidateBullet {
	if !r.Consulting {
		return r.Bullets
	}
	var bullets []CandidateBullet
	for _, eng := range r.Engagements {
		bullets = append(bullets, eng.Bullets...)
	}
	return bullets
}
