package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-layout/internal/types"
)

func TestPrintJobTarget(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	target := &types.JobTarget{
		Company:        "Acme Corp",
		RoleTitle:      "Senior Engineer",
		Seniority:      "senior",
		DomainTags:     []string{"payments"},
		TechTags:       []string{"go", "postgres"},
		PriorityThemes: []string{"scale"},
	}

	p.PrintJobTarget(target)
	output := buf.String()

	assert.Contains(t, output, "JOB TARGET")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "go, postgres")
	assert.Contains(t, output, "scale")
}

func TestPrintJobTarget_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobTarget(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAllocationPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	plan := &types.AllocationPlan{
		TotalLines: 21,
		TotalValue: 3.42,
		Roles: []types.SelectedRole{
			{
				RoleID:   "r-current",
				LineCost: 11,
				Bullets: []types.SelectedBullet{
					{BulletID: "b1", Score: 0.91, LineCost: 3},
					{BulletID: "b2", Score: 0.74, LineCost: 2, CompressedText: "short", CompressedCost: 1},
				},
			},
			{
				RoleID:     "r-consult",
				Consulting: true,
				LineCost:   10,
				Engagements: []types.SelectedEngagement{
					{EngagementID: "e1", AggregateScore: 0.66, Bullets: []types.SelectedBullet{
						{BulletID: "b3", Score: 0.66, LineCost: 2},
					}},
				},
			},
		},
	}

	p.PrintAllocationPlan(plan)
	output := buf.String()

	assert.Contains(t, output, "ALLOCATION PLAN")
	assert.Contains(t, output, "Lines: 21")
	assert.Contains(t, output, "r-current")
	assert.Contains(t, output, "b1")
	assert.Contains(t, output, "[c]", "compressed bullets are marked")
	assert.Contains(t, output, "e1")
}

func TestPrintAllocationPlan_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAllocationPlan(&types.AllocationPlan{})

	assert.Empty(t, buf.String())
}

func TestPrintPageLayout(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	layout := &types.PageLayout{
		Placements: []types.Placement{
			{Kind: types.PlacementRoleHeader, RoleID: "r1", Lines: 2, Page: 1},
			{Kind: types.PlacementBullet, RoleID: "r1", BulletID: "b1", Lines: 2, Page: 1},
			{Kind: types.PlacementRoleHeader, RoleID: "r2", Lines: 2, Page: 2},
			{Kind: types.PlacementBullet, RoleID: "r2", BulletID: "b2", Lines: 2, Page: 2},
		},
		PageLines: map[int]int{1: 4, 2: 4},
	}

	p.PrintPageLayout(layout)
	output := buf.String()

	assert.Contains(t, output, "PAGE LAYOUT")
	assert.Contains(t, output, "Page 1: 4 lines")
	assert.Contains(t, output, "Page break before role_header (r2)")
}

func TestPrintWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWarnings(nil)
	assert.Empty(t, buf.String())

	p.PrintWarnings([]types.Warning{types.WarningOverConstrained})
	assert.Contains(t, buf.String(), "over_constrained")
}
