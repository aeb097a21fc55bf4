// Package types provides type definitions for structured data used throughout the resume-layout engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Warning is an advisory condition attached to a plan or layout.
// Warnings are never errors: the engine always returns its best feasible result.
type Warning string

// Warning values the engine can emit.
const (
	WarningOverConstrained       Warning = "over_constrained"
	WarningUnresolvedSplitDefect Warning = "unresolved_split_defect"
)

// AllocationPlan represents the allocator's output: the chosen roles,
// engagements and bullets in final display order.
type AllocationPlan struct {
	PlanID     string         `json:"plan_id,omitempty"`
	Roles      []SelectedRole `json:"roles"`
	TotalLines int            `json:"total_lines"`
	TotalValue float64        `json:"total_value"`
	Warnings   []Warning      `json:"warnings,omitempty"`
}

// SelectedRole represents one included role with its chosen content.
// Exactly one of Engagements or Bullets is populated, mirroring Role.
type SelectedRole struct {
	RoleID      string               `json:"role_id"`
	Consulting  bool                 `json:"consulting,omitempty"`
	Engagements []SelectedEngagement `json:"engagements,omitempty"`
	Bullets     []SelectedBullet     `json:"bullets,omitempty"`
	// LineCost is the role's total estimated cost including headers.
	LineCost int `json:"line_cost"`
}

// SelectedEngagement represents an included engagement. An engagement never
// appears with zero bullets.
type SelectedEngagement struct {
	EngagementID   string           `json:"engagement_id"`
	AggregateScore float64          `json:"aggregate_score"`
	Bullets        []SelectedBullet `json:"bullets"`
}

// SelectedBullet represents one chosen bullet together with the derived
// value/cost pair that justified its selection. When compression was applied,
// CompressedText and CompressedCost carry the variant actually rendered; the
// original text is always preserved.
type SelectedBullet struct {
	BulletID string  `json:"bullet_id"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	LineCost int     `json:"line_cost"`

	CompressedText string `json:"compressed_text,omitempty"`
	CompressedCost int    `json:"compressed_cost,omitempty"`

	Components ScoreComponents `json:"components"`
}

// ScoreComponents holds the individual scoring factors behind a bullet's
// relevance score, kept on the plan for explainability.
type ScoreComponents struct {
	DomainOverlap float64 `json:"domain_overlap"`
	TechOverlap   float64 `json:"tech_overlap"`
	SeniorityFit  float64 `json:"seniority_fit"`
	ThemeMatch    float64 `json:"theme_match"`
	// Semantic is the externally supplied similarity term, -1 when absent.
	Semantic float64 `json:"semantic"`
}

// RenderedText returns the text the renderer should use: the compressed
// variant when one was adopted, otherwise the original.
func (b *SelectedBullet) RenderedText() string {
	if b.CompressedText != "" {
		return b.CompressedText
	}
	return b.Text
}

// RenderedCost returns the line cost matching RenderedText.
func (b *SelectedBullet) RenderedCost() int {
	if b.CompressedText != "" {
		return b.CompressedCost
	}
	return b.LineCost
}

// BulletCount returns the number of bullets selected for the role across
// direct bullets and engagements.
func (r *SelectedRole) BulletCount() int {
	count := len(r.Bullets)
	for _, eng := range r.Engagements {
		count += len(eng.Bullets)
	}
	return count
}
