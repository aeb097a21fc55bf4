package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePoolGroupsRows(t *testing.T) {
	roles := []roleRow{
		{ID: "r1", Company: "Acme", Title: "Engineer", StartDate: "2021-03", RecencyRank: 0},
		{ID: "r2", Company: "Indie", Title: "Consultant", StartDate: "2018-01", Consulting: true, RecencyRank: 1},
	}
	engagements := []engagementRow{
		{ID: "e1", RoleID: "r2", Client: "BankCo"},
		{ID: "e2", RoleID: "r2", Client: "ShopCo"},
	}
	bullets := []bulletRow{
		{ID: "b1", RoleID: "r1", Text: "direct one", TechTags: []string{"go"}},
		{ID: "b2", RoleID: "r1", Text: "direct two"},
		{ID: "b3", RoleID: "r2", EngagementID: "e1", Text: "bank work"},
		{ID: "b4", RoleID: "r2", EngagementID: "e2", Text: "shop work", Important: true},
		{ID: "b5", RoleID: "r2", EngagementID: "e1", Text: "more bank work"},
	}

	pool := assemblePool(roles, engagements, bullets)
	require.Len(t, pool.Roles, 2)

	direct := pool.Roles[0]
	assert.Equal(t, "r1", direct.ID)
	require.Len(t, direct.Bullets, 2)
	assert.Equal(t, []string{"go"}, direct.Bullets[0].TechTags)
	assert.Empty(t, direct.Engagements)

	consult := pool.Roles[1]
	require.Len(t, consult.Engagements, 2)
	assert.Len(t, consult.Engagements[0].Bullets, 2)
	assert.Len(t, consult.Engagements[1].Bullets, 1)
	assert.True(t, consult.Engagements[1].Bullets[0].Important)
	assert.Len(t, consult.AllBullets(), 3)
}

func TestAssemblePoolDropsOrphanRows(t *testing.T) {
	roles := []roleRow{{ID: "r1", Company: "Acme", Title: "Engineer", StartDate: "2021-03"}}
	engagements := []engagementRow{{ID: "e1", RoleID: "missing-role", Client: "X"}}
	bullets := []bulletRow{
		{ID: "b1", RoleID: "r1", Text: "kept"},
		{ID: "b2", RoleID: "missing-role", Text: "orphan role"},
		{ID: "b3", RoleID: "r1", EngagementID: "missing-eng", Text: "orphan engagement"},
	}

	pool := assemblePool(roles, engagements, bullets)
	require.Len(t, pool.Roles, 1)
	require.Len(t, pool.Roles[0].Bullets, 1)
	assert.Equal(t, "b1", pool.Roles[0].Bullets[0].ID)
	assert.Empty(t, pool.Roles[0].Engagements)
}

func TestAssemblePoolEmpty(t *testing.T) {
	pool := assemblePool(nil, nil, nil)
	require.NotNil(t, pool)
	assert.Empty(t, pool.Roles)
}
