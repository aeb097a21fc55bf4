// Package types provides type definitions for structured data used throughout the resume-layout engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PageBudget represents the two fixed page capacities, in the same line units
// as bullet costs.
type PageBudget struct {
	PageOneLines int `json:"page_one_lines"`
	PageTwoLines int `json:"page_two_lines"`
}

// TotalLines returns the combined capacity of both pages.
func (b PageBudget) TotalLines() int {
	return b.PageOneLines + b.PageTwoLines
}

// Capacity returns the capacity of the given 1-based page number, 0 for pages
// beyond the second.
func (b PageBudget) Capacity(page int) int {
	switch page {
	case 1:
		return b.PageOneLines
	case 2:
		return b.PageTwoLines
	default:
		return 0
	}
}

// PlacementKind identifies what a placement record positions on the page.
type PlacementKind string

// Placement kinds in display order within a role group.
const (
	PlacementRoleHeader       PlacementKind = "role_header"
	PlacementEngagementHeader PlacementKind = "engagement_header"
	PlacementBullet           PlacementKind = "bullet"
	PlacementSectionBlock     PlacementKind = "section_block"
)

// Placement represents one positioned item in the final layout.
type Placement struct {
	Kind         PlacementKind `json:"kind"`
	RoleID       string        `json:"role_id,omitempty"`
	EngagementID string        `json:"engagement_id,omitempty"`
	BulletID     string        `json:"bullet_id,omitempty"`
	Lines        int           `json:"lines"`
	Page         int           `json:"page"`
}

// PageLayout represents the simulator's output: ordered placement records,
// each tagged with a page number, plus per-page line usage.
type PageLayout struct {
	Placements []Placement `json:"placements"`
	PageLines  map[int]int `json:"page_lines"`
	Warnings   []Warning   `json:"warnings,omitempty"`
}

// UsedLines returns the lines consumed on the given page.
func (l *PageLayout) UsedLines(page int) int {
	return l.PageLines[page]
}
