// Package paginate simulates how an allocation plan lays out across the two
// fixed pages, detects split defects at the page boundary, and repairs them
// by moving content rather than re-writing it.
package paginate

import (
	"github.com/jonathan/resume-layout/internal/types"
)

// maxRepairPasses bounds the defect repair loop. Each pass pins at most one
// forced page break, so three passes resolve any realistic boundary tangle.
const maxRepairPasses = 3

// Options configures one simulation run.
type Options struct {
	Budget types.PageBudget

	RoleHeaderLines       int
	EngagementHeaderLines int

	// ReservedPageOneLines is page-one capacity consumed by fixed sections
	// (summary, skills) before any experience content is placed.
	ReservedPageOneLines int
}

// Result is the simulator's verdict for one plan.
type Result struct {
	Layout *types.PageLayout `json:"layout"`

	// OverflowLines counts plan lines that did not fit in two pages.
	OverflowLines int `json:"overflow_lines"`

	// Unresolved reports that a split defect survived all repair passes.
	Unresolved bool `json:"unresolved,omitempty"`
}

// item is one flattened layout unit in display order.
type item struct {
	kind         types.PlacementKind
	roleID       string
	engagementID string
	bulletID     string
	lines        int

	// group identifies the bullet run this item belongs to, so orphan
	// detection can tell siblings apart. Headers carry the group they open.
	group int
}

// Simulate lays the plan out across the two pages. Headers are never left as
// the last item on a page, and a bullet is never stranded alone on the far
// side of a page break when shifting one sibling can keep it company. Content
// is only ever moved, never dropped: when the plan is simply too long the
// excess is reported as overflow for the caller to re-allocate.
func Simulate(plan *types.AllocationPlan, opts Options) *Result {
	items := flatten(plan, opts)

	forcedBreaks := make(map[int]bool)
	var layout *types.PageLayout

	for pass := 0; ; pass++ {
		layout = layoutItems(items, opts, forcedBreaks)

		defect := findDefect(items, layout.Placements)
		if defect < 0 {
			break
		}
		if pass >= maxRepairPasses {
			layout.Warnings = append(layout.Warnings, types.WarningUnresolvedSplitDefect)
			return &Result{Layout: layout, OverflowLines: overflow(layout, opts), Unresolved: true}
		}
		forcedBreaks[defect] = true
	}

	return &Result{Layout: layout, OverflowLines: overflow(layout, opts)}
}

func flatten(plan *types.AllocationPlan, opts Options) []item {
	var items []item
	group := 0

	for _, role := range plan.Roles {
		if role.Consulting {
			// The role header opens the first engagement's group so the
			// keep-together rule spans header, sub-header and first bullet.
			group++
			items = append(items, item{kind: types.PlacementRoleHeader, roleID: role.RoleID, lines: opts.RoleHeaderLines, group: group})
			for i, eng := range role.Engagements {
				if i > 0 {
					group++
				}
				items = append(items, item{kind: types.PlacementEngagementHeader, roleID: role.RoleID, engagementID: eng.EngagementID, lines: opts.EngagementHeaderLines, group: group})
				for _, b := range eng.Bullets {
					items = append(items, item{kind: types.PlacementBullet, roleID: role.RoleID, engagementID: eng.EngagementID, bulletID: b.BulletID, lines: b.RenderedCost(), group: group})
				}
			}
			continue
		}

		group++
		items = append(items, item{kind: types.PlacementRoleHeader, roleID: role.RoleID, lines: opts.RoleHeaderLines, group: group})
		for _, b := range role.Bullets {
			items = append(items, item{kind: types.PlacementBullet, roleID: role.RoleID, bulletID: b.BulletID, lines: b.RenderedCost(), group: group})
		}
	}

	return items
}

// layoutItems performs one forward placement pass. The leading-chunk rule is
// applied inline: a header only lands on a page when everything through the
// group's first bullet fits with it. Everything lands on page two once page
// one closes; page two is allowed to overfill, which surfaces as overflow.
func layoutItems(items []item, opts Options, forcedBreaks map[int]bool) *types.PageLayout {
	layout := &types.PageLayout{
		Placements: make([]types.Placement, 0, len(items)),
		PageLines:  make(map[int]int),
	}

	page := 1
	used := opts.ReservedPageOneLines
	layout.PageLines[1] = used

	for i := 0; i < len(items); i++ {
		it := items[i]

		if page == 1 {
			need := leadingChunk(items, i)
			if forcedBreaks[i] || used+need > opts.Budget.Capacity(1) {
				page = 2
				used = 0
			}
		}

		used += it.lines
		layout.PageLines[page] = used
		layout.Placements = append(layout.Placements, types.Placement{
			Kind:         it.kind,
			RoleID:       it.roleID,
			EngagementID: it.engagementID,
			BulletID:     it.bulletID,
			Lines:        it.lines,
			Page:         page,
		})
	}

	return layout
}

// leadingChunk returns the lines that must land together with item i: a bare
// bullet stands alone, while a header claims everything through its group's
// first bullet.
func leadingChunk(items []item, i int) int {
	need := items[i].lines
	if items[i].kind == types.PlacementBullet {
		return need
	}
	for j := i + 1; j < len(items); j++ {
		need += items[j].lines
		if items[j].kind == types.PlacementBullet {
			break
		}
	}
	return need
}

// findDefect scans for the first split defect and returns the item index that
// should start a new page to repair it, or -1 when the layout is clean.
func findDefect(items []item, placements []types.Placement) int {
	for i := 1; i < len(placements); i++ {
		if placements[i].Page == placements[i-1].Page {
			continue
		}

		// A header stranded at the bottom of the previous page.
		if items[i-1].kind != types.PlacementBullet {
			return headerGroupStart(items, i-1)
		}

		// A lone bullet at the top of the new page, cut off from siblings
		// that stayed behind. Shifting the previous sibling keeps it company.
		if items[i].kind == types.PlacementBullet &&
			items[i-1].group == items[i].group &&
			groupCountFrom(items, placements, i) == 1 {
			return i - 1
		}
	}
	return -1
}

// headerGroupStart walks back from a stranded header to the first header of
// the same group, so the whole leading chunk moves together.
func headerGroupStart(items []item, i int) int {
	for i > 0 && items[i-1].kind != types.PlacementBullet && items[i-1].group == items[i].group {
		i--
	}
	return i
}

// groupCountFrom counts how many bullets of item i's group landed on item i's
// page at position i or later.
func groupCountFrom(items []item, placements []types.Placement, i int) int {
	count := 0
	for j := i; j < len(items); j++ {
		if items[j].group != items[i].group {
			break
		}
		if placements[j].Page != placements[i].Page {
			break
		}
		if items[j].kind == types.PlacementBullet {
			count++
		}
	}
	return count
}

func overflow(layout *types.PageLayout, opts Options) int {
	over := layout.UsedLines(2) - opts.Budget.Capacity(2)
	if over < 0 {
		return 0
	}
	return over
}
