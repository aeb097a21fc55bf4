package allocate

import (
	"sort"

	"github.com/jonathan/resume-layout/internal/types"
)

// maxReselectPasses bounds the selection/reduction fixpoint after the first
// reduction settles.
const maxReselectPasses = 3

// Allocate selects and orders bullets across all roles, maximizing total
// selected value under the line budget. It is greedy by value-per-cost,
// processes roles in recency/seniority order, and reduces any deficit
// oldest-role-first. It never returns a plan over budget and never fabricates
// content; when even the role floors cannot fit it degrades to fewer roles
// and flags the plan over-constrained.
func Allocate(in *Input) (*types.AllocationPlan, *Stats, error) {
	if in == nil {
		return nil, nil, &Error{Message: "allocation input is nil"}
	}
	if in.BudgetLines <= 0 {
		return nil, nil, &Error{Message: "line budget must be positive"}
	}

	roles := make([]RoleCandidates, len(in.Roles))
	copy(roles, in.Roles)
	sortRoles(roles)

	// Global signature registry: the most recent roles claim tag signatures
	// first, demoting later duplicates of the same achievement theme.
	usedSignatures := make(map[string]bool)

	states := make([]*roleState, 0, len(roles))
	for i := range roles {
		states = append(states, newRoleState(&roles[i], in, usedSignatures))
	}

	stats := &Stats{DesiredLines: totalCost(states, in)}
	if stats.DesiredLines > in.BudgetLines {
		stats.Deficit = stats.DesiredLines - in.BudgetLines
	}

	overConstrained := reduce(states, in)

	// Reduction can evict the very bullet that claimed a signature, leaving
	// an alternative in another role demoted by a duplicate no longer in the
	// plan. Re-run selection against the claims that actually survived and
	// re-fit the budget until the selection stabilizes.
	for pass := 0; pass < maxReselectPasses; pass++ {
		if !reselect(states) {
			break
		}
		if reduce(states, in) {
			overConstrained = true
		}
	}

	plan := buildPlan(states, in)
	if overConstrained {
		plan.Warnings = append(plan.Warnings, types.WarningOverConstrained)
	}

	return plan, stats, nil
}

// roleState is the allocator's mutable working view of one role.
type roleState struct {
	cand     *RoleCandidates
	min, max int

	// keptEngagements are the top engagements by aggregate relevance, capped
	// by configuration; nil for direct-bullet roles.
	keptEngagements []*engagementState

	// selected is the role's current selection in rank order.
	selected []*BulletCandidate

	excluded bool
}

type engagementState struct {
	cand    *EngagementCandidates
	dropped bool
}

func newRoleState(cand *RoleCandidates, in *Input, usedSignatures map[string]bool) *roleState {
	rs := &roleState{cand: cand}
	rs.min, rs.max = resolveBounds(cand.Role, in)

	if cand.Role.Consulting {
		rs.keptEngagements = keepTopEngagements(cand.Engagements, in.MaxEngagementsPerRole)
	}

	candidates := rs.availableCandidates()
	if len(candidates) < rs.min {
		rs.min = len(candidates)
	}

	rs.selected = selectBullets(candidates, rs.min, rs.max, usedSignatures)
	return rs
}

// availableCandidates returns the role's selectable bullets in rank order.
// Zero-cost bullets (empty text) are never selectable: they render nothing
// and would otherwise ride along free.
func (rs *roleState) availableCandidates() []*BulletCandidate {
	var candidates []*BulletCandidate
	if rs.cand.Role.Consulting {
		for _, es := range rs.keptEngagements {
			if es.dropped {
				continue
			}
			for i := range es.cand.Bullets {
				if es.cand.Bullets[i].EffectiveCost() > 0 {
					candidates = append(candidates, &es.cand.Bullets[i])
				}
			}
		}
	} else {
		for i := range rs.cand.Bullets {
			if rs.cand.Bullets[i].EffectiveCost() > 0 {
				candidates = append(candidates, &rs.cand.Bullets[i])
			}
		}
	}
	rankBullets(candidates)
	return candidates
}

func resolveBounds(role *types.Role, in *Input) (minBullets, maxBullets int) {
	minBullets = role.MinBullets
	if minBullets <= 0 {
		minBullets = in.DefaultMinBullets
	}
	maxBullets = role.MaxBullets
	if maxBullets <= 0 {
		maxBullets = in.DefaultMaxBullets
	}
	if maxBullets < minBullets {
		maxBullets = minBullets
	}
	return minBullets, maxBullets
}

// keepTopEngagements ranks engagements by aggregate relevance and keeps at
// most maxKeep (always capped at 3), dropping the rest entirely.
func keepTopEngagements(engagements []EngagementCandidates, maxKeep int) []*engagementState {
	if maxKeep < 1 {
		maxKeep = 1
	}
	if maxKeep > 3 {
		maxKeep = 3
	}

	ranked := make([]*EngagementCandidates, 0, len(engagements))
	for i := range engagements {
		ranked = append(ranked, &engagements[i])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Aggregate != ranked[j].Aggregate {
			return ranked[i].Aggregate > ranked[j].Aggregate
		}
		return ranked[i].Engagement.ID < ranked[j].Engagement.ID
	})

	if len(ranked) > maxKeep {
		ranked = ranked[:maxKeep]
	}

	kept := make([]*engagementState, 0, len(ranked))
	for _, eng := range ranked {
		kept = append(kept, &engagementState{cand: eng})
	}
	return kept
}

// selectBullets takes ranked candidates up to max, preferring bullets whose
// tag signature has not been used yet anywhere in the plan. Duplicates of an
// already-used signature are taken only when needed to reach the floor.
func selectBullets(ranked []*BulletCandidate, minBullets, maxBullets int, usedSignatures map[string]bool) []*BulletCandidate {
	selected := make([]*BulletCandidate, 0, maxBullets)
	taken := make(map[string]bool)

	for _, c := range ranked {
		if len(selected) >= maxBullets {
			break
		}
		if c.Signature != "" && usedSignatures[c.Signature] {
			continue
		}
		selected = append(selected, c)
		taken[c.Bullet.ID] = true
		if c.Signature != "" {
			usedSignatures[c.Signature] = true
		}
	}

	// Backfill to the floor with demoted duplicates when nothing fresh is left.
	for _, c := range ranked {
		if len(selected) >= minBullets {
			break
		}
		if taken[c.Bullet.ID] {
			continue
		}
		selected = append(selected, c)
		taken[c.Bullet.ID] = true
	}

	rankBullets(selected)
	return selected
}

// reselect redoes every surviving role's pick with signature claims rebuilt
// from scratch, keeping each role's bullet count fixed. Roles are walked in
// the same recency order as the initial pass, so freshness is judged against
// bullets still in the plan rather than ones reduction evicted. Reports
// whether any selection changed.
func reselect(states []*roleState) bool {
	used := make(map[string]bool)
	changed := false
	for _, rs := range states {
		if rs.excluded || len(rs.selected) == 0 {
			continue
		}
		count := len(rs.selected)
		next := selectBullets(rs.availableCandidates(), count, count, used)
		if !sameSelection(rs.selected, next) {
			changed = true
		}
		rs.selected = next
	}
	return changed
}

func sameSelection(a, b []*BulletCandidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Bullet.ID != b[i].Bullet.ID {
			return false
		}
	}
	return true
}

// cost returns the role's current line cost including headers. An engagement
// contributes its header only while it still has selected bullets.
func (rs *roleState) cost(in *Input) int {
	if rs.excluded || len(rs.selected) == 0 {
		return 0
	}

	cost := in.RoleHeaderLines
	if rs.cand.Role.Consulting {
		cost += in.EngagementHeaderLines * len(rs.selectedByEngagement())
	}
	for _, c := range rs.selected {
		cost += c.EffectiveCost()
	}
	return cost
}

func (rs *roleState) selectedByEngagement() map[string][]*BulletCandidate {
	groups := make(map[string][]*BulletCandidate)
	for _, c := range rs.selected {
		groups[c.Bullet.EngagementID] = append(groups[c.Bullet.EngagementID], c)
	}
	return groups
}

func totalCost(states []*roleState, in *Input) int {
	total := 0
	for _, rs := range states {
		total += rs.cost(in)
	}
	return total
}

// reduce shrinks the selection oldest-role-first until it fits the budget:
// first dropping the oldest role's lowest-ranked engagements, then condensing
// it toward its floor, and only then moving to the next role. The most recent
// role loses content last. When every surviving role sits at its floor and
// the plan still does not fit, whole roles are dropped oldest-first and the
// result is flagged over-constrained.
func reduce(states []*roleState, in *Input) bool {
	overConstrained := false

	for totalCost(states, in) > in.BudgetLines {
		progressed := false

		for i := len(states) - 1; i >= 0; i-- {
			rs := states[i]
			if rs.excluded || len(rs.selected) == 0 {
				continue
			}
			if rs.dropLowestEngagement() || rs.condenseOne() {
				progressed = true
				break
			}
		}

		if progressed {
			continue
		}

		// All surviving roles are at their floors.
		overConstrained = true

		dropped := false
		for i := len(states) - 1; i >= 0; i-- {
			if !states[i].excluded && len(states[i].selected) > 0 {
				states[i].excluded = true
				dropped = true
				break
			}
		}
		if !dropped {
			break
		}
	}

	return overConstrained
}

// dropLowestEngagement removes the lowest-aggregate engagement that still has
// selected bullets, provided at least two such engagements exist and the
// role's floor can be re-met from the remaining ones.
func (rs *roleState) dropLowestEngagement() bool {
	if !rs.cand.Role.Consulting {
		return false
	}

	groups := rs.selectedByEngagement()
	if len(groups) < 2 {
		return false
	}

	// keptEngagements are ranked best-first; the victim is the last one that
	// still owns selected bullets.
	var victim *engagementState
	for i := len(rs.keptEngagements) - 1; i >= 0; i-- {
		es := rs.keptEngagements[i]
		if es.dropped {
			continue
		}
		if len(groups[es.cand.Engagement.ID]) > 0 {
			victim = es
			break
		}
	}
	if victim == nil {
		return false
	}

	previous := rs.selected
	victim.dropped = true

	var remaining []*BulletCandidate
	for _, c := range previous {
		if c.Bullet.EngagementID != victim.cand.Engagement.ID {
			remaining = append(remaining, c)
		}
	}

	// Backfill toward the floor from surviving engagements.
	if len(remaining) < rs.min {
		takenIDs := make(map[string]bool, len(remaining))
		for _, c := range remaining {
			takenIDs[c.Bullet.ID] = true
		}
		for _, c := range rs.availableCandidates() {
			if len(remaining) >= rs.min {
				break
			}
			if !takenIDs[c.Bullet.ID] {
				remaining = append(remaining, c)
				takenIDs[c.Bullet.ID] = true
			}
		}
	}

	if len(remaining) < rs.min {
		// Cannot re-meet the floor without this engagement; leave it in place.
		victim.dropped = false
		rs.selected = previous
		return false
	}

	rankBullets(remaining)
	rs.selected = remaining
	return true
}

// condenseOne removes the role's lowest value-per-cost bullet while the role
// stays at or above its floor.
func (rs *roleState) condenseOne() bool {
	if len(rs.selected) <= rs.min {
		return false
	}
	rs.selected = rs.selected[:len(rs.selected)-1]
	return true
}

// buildPlan materializes the final AllocationPlan in display order: roles by
// recency, engagements by aggregate relevance, bullets by value-per-cost.
func buildPlan(states []*roleState, in *Input) *types.AllocationPlan {
	plan := &types.AllocationPlan{Roles: []types.SelectedRole{}}

	for _, rs := range states {
		if rs.excluded || len(rs.selected) == 0 {
			continue
		}

		selectedRole := types.SelectedRole{
			RoleID:     rs.cand.Role.ID,
			Consulting: rs.cand.Role.Consulting,
			LineCost:   rs.cost(in),
		}

		if rs.cand.Role.Consulting {
			groups := rs.selectedByEngagement()
			for _, es := range rs.keptEngagements {
				if es.dropped {
					continue
				}
				bullets := groups[es.cand.Engagement.ID]
				if len(bullets) == 0 {
					continue
				}
				selectedRole.Engagements = append(selectedRole.Engagements, types.SelectedEngagement{
					EngagementID:   es.cand.Engagement.ID,
					AggregateScore: es.cand.Aggregate,
					Bullets:        toSelectedBullets(bullets),
				})
			}
		} else {
			selectedRole.Bullets = toSelectedBullets(rs.selected)
		}

		plan.Roles = append(plan.Roles, selectedRole)
		plan.TotalLines += selectedRole.LineCost
		for _, c := range rs.selected {
			plan.TotalValue += c.Score
		}
	}

	return plan
}

func toSelectedBullets(candidates []*BulletCandidate) []types.SelectedBullet {
	ranked := make([]*BulletCandidate, len(candidates))
	copy(ranked, candidates)
	rankBullets(ranked)

	bullets := make([]types.SelectedBullet, 0, len(ranked))
	for _, c := range ranked {
		bullets = append(bullets, types.SelectedBullet{
			BulletID:       c.Bullet.ID,
			Text:           c.Bullet.Text,
			Score:          c.Score,
			LineCost:       c.Cost,
			CompressedText: c.CompressedText,
			CompressedCost: c.CompressedCost,
			Components:     c.Components,
		})
	}
	return bullets
}
