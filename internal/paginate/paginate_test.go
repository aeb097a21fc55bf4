package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-layout/internal/types"
)

func testOptions() Options {
	return Options{
		Budget:                types.PageBudget{PageOneLines: 46, PageTwoLines: 52},
		RoleHeaderLines:       2,
		EngagementHeaderLines: 1,
	}
}

func planBullet(id string, cost int) types.SelectedBullet {
	return types.SelectedBullet{BulletID: id, Text: "placeholder", LineCost: cost}
}

// directRolePlan builds a plan of direct-bullet roles, each with the given
// number of 2-line bullets.
func directRolePlan(bulletsPerRole ...int) *types.AllocationPlan {
	plan := &types.AllocationPlan{}
	for r, n := range bulletsPerRole {
		role := types.SelectedRole{RoleID: fmt.Sprintf("r%d", r)}
		for b := 0; b < n; b++ {
			role.Bullets = append(role.Bullets, planBullet(fmt.Sprintf("r%d-b%d", r, b), 2))
		}
		role.LineCost = 2 + 2*n
		plan.Roles = append(plan.Roles, role)
		plan.TotalLines += role.LineCost
	}
	return plan
}

func placementsOnPage(layout *types.PageLayout, page int) []types.Placement {
	var out []types.Placement
	for _, p := range layout.Placements {
		if p.Page == page {
			out = append(out, p)
		}
	}
	return out
}

func TestSimulateSinglePage(t *testing.T) {
	plan := directRolePlan(3, 3) // 2*(2+6) = 16 lines
	res := Simulate(plan, testOptions())

	require.NotNil(t, res.Layout)
	assert.Zero(t, res.OverflowLines)
	assert.False(t, res.Unresolved)
	assert.Empty(t, placementsOnPage(res.Layout, 2))
	assert.Equal(t, 16, res.Layout.UsedLines(1))
}

func TestSimulatePreservesPlanOrder(t *testing.T) {
	plan := directRolePlan(2, 2)
	res := Simulate(plan, testOptions())

	var kinds []types.PlacementKind
	for _, p := range res.Layout.Placements {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []types.PlacementKind{
		types.PlacementRoleHeader, types.PlacementBullet, types.PlacementBullet,
		types.PlacementRoleHeader, types.PlacementBullet, types.PlacementBullet,
	}, kinds)
}

func TestSimulateMovesHeaderWithFirstBullet(t *testing.T) {
	// Fill page one to 45 of 46 lines, then start a role. The header alone
	// would fit in the last line but its first bullet would not, so the
	// whole leading chunk opens page two.
	opts := testOptions()
	opts.ReservedPageOneLines = 37 // 37 + (2 + 3*2) = 45 used by r0

	plan := directRolePlan(3, 2)
	res := Simulate(plan, opts)

	pageTwo := placementsOnPage(res.Layout, 2)
	require.NotEmpty(t, pageTwo)
	assert.Equal(t, types.PlacementRoleHeader, pageTwo[0].Kind)
	assert.Equal(t, "r1", pageTwo[0].RoleID)

	// No header is ever the last item on a page.
	for i, p := range res.Layout.Placements[:len(res.Layout.Placements)-1] {
		if p.Kind != types.PlacementBullet {
			assert.Equal(t, p.Page, res.Layout.Placements[i+1].Page,
				"header %s stranded at bottom of page %d", p.RoleID, p.Page)
		}
	}
}

func TestSimulateRepairsOrphanBullet(t *testing.T) {
	// Page one has room for the role header and three of four bullets,
	// leaving the last bullet alone on page two. The repair shifts its
	// sibling down so two bullets land together.
	opts := testOptions()
	opts.ReservedPageOneLines = 38 // 38 + 2 + 3*2 = 46 exactly

	plan := directRolePlan(4)
	res := Simulate(plan, opts)

	assert.False(t, res.Unresolved)
	pageTwo := placementsOnPage(res.Layout, 2)
	require.Len(t, pageTwo, 2)
	assert.Equal(t, "r0-b2", pageTwo[0].BulletID)
	assert.Equal(t, "r0-b3", pageTwo[1].BulletID)
}

func TestSimulateConsultingKeepsEngagementHeaderWithBullet(t *testing.T) {
	plan := &types.AllocationPlan{Roles: []types.SelectedRole{
		{RoleID: "prior", Bullets: []types.SelectedBullet{planBullet("p1", 2), planBullet("p2", 2)}},
		{
			RoleID:     "consult",
			Consulting: true,
			Engagements: []types.SelectedEngagement{
				{EngagementID: "e1", Bullets: []types.SelectedBullet{planBullet("e1b1", 2), planBullet("e1b2", 2)}},
				{EngagementID: "e2", Bullets: []types.SelectedBullet{planBullet("e2b1", 2), planBullet("e2b2", 2)}},
			},
		},
	}}

	// prior: 2+4 = 6 lines; reserved 39 puts the second engagement header at
	// the page boundary with no room for its bullet.
	opts := testOptions()
	opts.ReservedPageOneLines = 33 // 33 + 6 + (2+1+4) = 46, e2 header would sit alone

	res := Simulate(plan, opts)

	for i, p := range res.Layout.Placements[:len(res.Layout.Placements)-1] {
		if p.Kind == types.PlacementEngagementHeader {
			assert.Equal(t, p.Page, res.Layout.Placements[i+1].Page)
		}
	}
}

func TestSimulateReportsOverflow(t *testing.T) {
	// 10 roles * 10 lines = 100 lines against 46 + 52 = 98 capacity.
	plan := directRolePlan(4, 4, 4, 4, 4, 4, 4, 4, 4, 4)
	res := Simulate(plan, testOptions())

	assert.Greater(t, res.OverflowLines, 0)
	assert.GreaterOrEqual(t, res.Layout.UsedLines(2), res.OverflowLines)
}

func TestSimulateNoContentDropped(t *testing.T) {
	plan := directRolePlan(4, 3, 5, 2, 4, 3)
	res := Simulate(plan, testOptions())

	wantBullets := 0
	for _, r := range plan.Roles {
		wantBullets += len(r.Bullets)
	}

	gotBullets := 0
	gotHeaders := 0
	for _, p := range res.Layout.Placements {
		switch p.Kind {
		case types.PlacementBullet:
			gotBullets++
		case types.PlacementRoleHeader:
			gotHeaders++
		}
	}
	assert.Equal(t, wantBullets, gotBullets)
	assert.Equal(t, len(plan.Roles), gotHeaders)
}

func TestSimulateDeterministic(t *testing.T) {
	opts := testOptions()
	opts.ReservedPageOneLines = 12

	first := Simulate(directRolePlan(4, 4, 4, 4), opts)
	for i := 0; i < 5; i++ {
		next := Simulate(directRolePlan(4, 4, 4, 4), opts)
		assert.Equal(t, first.Layout, next.Layout)
		assert.Equal(t, first.OverflowLines, next.OverflowLines)
	}
}

func TestSimulateEmptyPlan(t *testing.T) {
	res := Simulate(&types.AllocationPlan{}, testOptions())
	assert.Empty(t, res.Layout.Placements)
	assert.Zero(t, res.OverflowLines)
	assert.False(t, res.Unresolved)
}
