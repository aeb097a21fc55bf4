package scoring

import (
	"testing"

	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget() *types.JobTarget {
	return &types.JobTarget{
		RoleTitle:      "Senior Backend Engineer",
		Seniority:      "senior",
		DomainTags:     []string{"fintech", "payments"},
		TechTags:       []string{"go", "postgres", "kafka"},
		PriorityThemes: []string{"reliability", "scale"},
	}
}

func TestScoreBullet_FullTagMatch(t *testing.T) {
	bullet := &types.CandidateBullet{
		ID:         "b1",
		Text:       "Scaled the payments ledger for reliability at 10x growth",
		DomainTags: []string{"fintech", "payments"},
		TechTags:   []string{"go", "postgres", "kafka"},
	}
	role := &types.Role{ID: "r1", Seniority: "senior"}

	score, components := ScoreBullet(bullet, role, testTarget(), nil)

	assert.InDelta(t, 1.0, components.DomainOverlap, 1e-9)
	assert.InDelta(t, 1.0, components.TechOverlap, 1e-9)
	assert.InDelta(t, 1.0, components.SeniorityFit, 1e-9)
	assert.InDelta(t, 1.0, components.ThemeMatch, 1e-9)
	assert.Equal(t, SemanticAbsent, components.Semantic)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreBullet_NoOverlap(t *testing.T) {
	bullet := &types.CandidateBullet{
		ID:       "b1",
		Text:     "Organized the office holiday party",
		TechTags: []string{"excel"},
	}
	role := &types.Role{ID: "r1"}

	score, components := ScoreBullet(bullet, role, testTarget(), nil)

	assert.Equal(t, 0.0, components.DomainOverlap)
	assert.Equal(t, 0.0, components.TechOverlap)
	// Missing role seniority scores neutrally, not zero.
	assert.Equal(t, neutralSeniorityFit, components.SeniorityFit)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 0.2)
}

func TestScoreBullet_ImportanceBoost(t *testing.T) {
	plain := &types.CandidateBullet{ID: "b1", Text: "Built go services", TechTags: []string{"go"}}
	boosted := &types.CandidateBullet{ID: "b2", Text: "Built go services", TechTags: []string{"go"}, Important: true}
	role := &types.Role{ID: "r1", Seniority: "senior"}

	plainScore, _ := ScoreBullet(plain, role, testTarget(), nil)
	boostedScore, _ := ScoreBullet(boosted, role, testTarget(), nil)

	assert.Greater(t, boostedScore, plainScore)
	assert.InDelta(t, plainScore*importanceBoost, boostedScore, 1e-9)
}

func TestScoreBullet_SemanticAveragedIn(t *testing.T) {
	bullet := &types.CandidateBullet{ID: "b1", Text: "Built go services", TechTags: []string{"go"}}
	role := &types.Role{ID: "r1", Seniority: "senior"}

	base, _ := ScoreBullet(bullet, role, testTarget(), nil)

	semantic := 0.9
	withSemantic, components := ScoreBullet(bullet, role, testTarget(), &semantic)

	assert.InDelta(t, (base+0.9)/2, withSemantic, 1e-9)
	assert.InDelta(t, 0.9, components.Semantic, 1e-9)
}

func TestScoreBullet_SemanticClamped(t *testing.T) {
	bullet := &types.CandidateBullet{ID: "b1", Text: "text"}
	role := &types.Role{ID: "r1"}

	semantic := 3.5
	_, components := ScoreBullet(bullet, role, testTarget(), &semantic)
	assert.Equal(t, 1.0, components.Semantic)
}

func TestScoreBullet_Deterministic(t *testing.T) {
	bullet := &types.CandidateBullet{
		ID:         "b1",
		Text:       "Reduced checkout latency for scale",
		DomainTags: []string{"Payments"},
		TechTags:   []string{"Go", "Kafka"},
	}
	role := &types.Role{ID: "r1", Seniority: "staff"}
	target := testTarget()

	first, firstComponents := ScoreBullet(bullet, role, target, nil)
	for i := 0; i < 10; i++ {
		score, components := ScoreBullet(bullet, role, target, nil)
		require.Equal(t, first, score)
		require.Equal(t, firstComponents, components)
	}
}

func TestTagOverlap_CaseInsensitiveAndDeduplicated(t *testing.T) {
	overlap := tagOverlap([]string{"GO", "kafka"}, []string{"go", "Go", "Kafka", "postgres"})
	// Deduplicated target set is {go, kafka, postgres}; two matched.
	assert.InDelta(t, 2.0/3.0, overlap, 1e-9)
}

func TestSeniorityFit(t *testing.T) {
	tests := []struct {
		role, target string
		want         float64
	}{
		{"senior", "senior", 1.0},
		{"mid", "senior", 0.75},
		{"junior", "principal", 0.0},
		{"staff", "lead", 1.0},
		{"", "senior", neutralSeniorityFit},
		{"senior", "", neutralSeniorityFit},
		{"wizard", "senior", neutralSeniorityFit},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, seniorityFit(tt.role, tt.target), 1e-9,
			"seniorityFit(%q, %q)", tt.role, tt.target)
	}
}

func TestEngagementScore_TakesMax(t *testing.T) {
	assert.Equal(t, 0.8, EngagementScore([]float64{0.2, 0.8, 0.5}))
	assert.Equal(t, 0.0, EngagementScore(nil))
}

func TestTagSignature(t *testing.T) {
	a := &types.CandidateBullet{DomainTags: []string{"Payments"}, TechTags: []string{"Go", "Kafka"}}
	b := &types.CandidateBullet{DomainTags: []string{"payments"}, TechTags: []string{"kafka", "go"}}
	c := &types.CandidateBullet{TechTags: []string{"go"}}
	empty := &types.CandidateBullet{}

	assert.Equal(t, TagSignature(a), TagSignature(b))
	assert.NotEqual(t, TagSignature(a), TagSignature(c))
	assert.Equal(t, "", TagSignature(empty))
}
