// Package types provides type definitions for structured data used throughout the resume-layout engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobTarget represents the job descriptor the résumé is being tailored to.
// It arrives fully parsed; the engine never touches raw postings.
type JobTarget struct {
	ID         string   `json:"id,omitempty"`
	Company    string   `json:"company,omitempty"`
	RoleTitle  string   `json:"role_title"`
	Seniority  string   `json:"seniority,omitempty"`
	DomainTags []string `json:"domain_tags,omitempty"`
	TechTags   []string `json:"tech_tags,omitempty"`
	// PriorityThemes are the 2-3 core themes the posting emphasizes.
	PriorityThemes []string `json:"priority_themes,omitempty"`
}
