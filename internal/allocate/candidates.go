package allocate

import (
	"sort"

	"github.com/jonathan/resume-layout/internal/types"
)

// BulletCandidate pairs a pool bullet with its derived (value, cost) numbers.
// The scorer and estimator produce these; the allocator only consumes them.
type BulletCandidate struct {
	Bullet     *types.CandidateBullet
	Score      float64
	Cost       int
	Components types.ScoreComponents

	// Signature is the canonical tag signature used for redundancy
	// suppression; empty when the bullet carries no tags.
	Signature string

	// Compressed variant, present when the compressor produced one. The
	// allocator charges the compressed cost when set.
	CompressedText string
	CompressedCost int
}

// EffectiveCost returns the line cost the allocator charges for the bullet.
func (c *BulletCandidate) EffectiveCost() int {
	if c.CompressedText != "" {
		return c.CompressedCost
	}
	return c.Cost
}

// valuePerCost is the primary allocation ranking key. Zero-cost bullets are
// charged one line for ranking purposes so an empty bullet can never look
// infinitely attractive.
func (c *BulletCandidate) valuePerCost() float64 {
	cost := c.EffectiveCost()
	if cost < 1 {
		cost = 1
	}
	return c.Score / float64(cost)
}

// EngagementCandidates groups a consulting role's engagement with its scored
// bullets and aggregate relevance.
type EngagementCandidates struct {
	Engagement *types.Engagement
	Aggregate  float64
	Bullets    []BulletCandidate
}

// RoleCandidates groups one role with its scored content. Exactly one of
// Engagements or Bullets is populated, mirroring the pool shape.
type RoleCandidates struct {
	Role        *types.Role
	Engagements []EngagementCandidates
	Bullets     []BulletCandidate
}

// Input is everything the allocator needs for one request.
type Input struct {
	Roles []RoleCandidates

	// BudgetLines is the total line budget available to experience content
	// across both pages.
	BudgetLines int

	RoleHeaderLines       int
	EngagementHeaderLines int
	MaxEngagementsPerRole int

	// Defaults applied when a role carries no bounds of its own.
	DefaultMinBullets int
	DefaultMaxBullets int
}

// Stats reports what the greedy pass wanted before budget reduction, so the
// caller can decide whether compression is worth attempting.
type Stats struct {
	// DesiredLines is the cost of the unconstrained greedy selection.
	DesiredLines int
	// Deficit is how far DesiredLines exceeded the budget; 0 when it fit.
	Deficit int
}

// sortRoles orders roles most-recent-first: recency rank ascending, then
// seniority weight descending, then role ID for determinism.
func sortRoles(roles []RoleCandidates) {
	sort.SliceStable(roles, func(i, j int) bool {
		a, b := roles[i].Role, roles[j].Role
		if a.RecencyRank != b.RecencyRank {
			return a.RecencyRank < b.RecencyRank
		}
		if a.SeniorityWeight != b.SeniorityWeight {
			return a.SeniorityWeight > b.SeniorityWeight
		}
		return a.ID < b.ID
	})
}

// rankBullets applies the full tie-break chain: higher value-per-cost, then
// higher raw value, then lexical bullet ID. Role recency does not vary within
// a single role's candidate list.
func rankBullets(bullets []*BulletCandidate) {
	sort.SliceStable(bullets, func(i, j int) bool {
		a, b := bullets[i], bullets[j]
		if a.valuePerCost() != b.valuePerCost() {
			return a.valuePerCost() > b.valuePerCost()
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Bullet.ID < b.Bullet.ID
	})
}
