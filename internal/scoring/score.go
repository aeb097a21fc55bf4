// Package scoring assigns candidate bullets a relevance value against a job
// target. Scoring is pure and stateless: identical inputs always yield the
// identical score.
package scoring

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-layout/internal/types"
)

// Weights for the scoring components.
const (
	domainOverlapWeight = 0.35
	techOverlapWeight   = 0.35
	seniorityFitWeight  = 0.15
	themeMatchWeight    = 0.15

	// importanceBoost multiplies the deterministic score of a flagged bullet.
	importanceBoost = 1.2

	// neutralSeniorityFit is used when either side carries no seniority label.
	neutralSeniorityFit = 0.5
)

// SemanticAbsent marks a missing semantic term in ScoreComponents.
const SemanticAbsent = -1.0

// seniorityRank orders the level labels the pool and job targets use.
// Unknown labels score neutrally rather than erroring.
var seniorityRank = map[string]int{
	"junior":    1,
	"mid":       2,
	"senior":    3,
	"lead":      4,
	"staff":     4,
	"principal": 5,
}

// ScoreBullet computes the relevance score of one bullet against a job target.
// The semantic argument is an optional precomputed similarity in [0,1]; pass
// nil when the embedding collaborator did not supply one, and the score
// degrades to the deterministic tag-based value.
func ScoreBullet(bullet *types.CandidateBullet, role *types.Role, target *types.JobTarget, semantic *float64) (float64, types.ScoreComponents) {
	components := types.ScoreComponents{
		DomainOverlap: tagOverlap(bullet.DomainTags, target.DomainTags),
		TechOverlap:   tagOverlap(bullet.TechTags, target.TechTags),
		SeniorityFit:  seniorityFit(role.Seniority, target.Seniority),
		ThemeMatch:    themeMatch(bullet.Text, target.PriorityThemes),
		Semantic:      SemanticAbsent,
	}

	score := domainOverlapWeight*components.DomainOverlap +
		techOverlapWeight*components.TechOverlap +
		seniorityFitWeight*components.SeniorityFit +
		themeMatchWeight*components.ThemeMatch

	if bullet.Important {
		score *= importanceBoost
	}

	if semantic != nil {
		components.Semantic = clamp01(*semantic)
		score = (score + components.Semantic) / 2
	}

	if score < 0 {
		score = 0
	}

	return score, components
}

// EngagementScore aggregates bullet scores into the engagement ranking value.
// It takes the max rather than the mean: one standout achievement should be
// able to carry an engagement with modest supporting bullets.
func EngagementScore(bulletScores []float64) float64 {
	best := 0.0
	for _, s := range bulletScores {
		if s > best {
			best = s
		}
	}
	return best
}

// TagSignature returns the canonical signature of a bullet's combined tag set,
// used by the allocator for redundancy suppression. Signatures compare by
// exact equality; bullets with no tags share no signature.
func TagSignature(bullet *types.CandidateBullet) string {
	tags := make([]string, 0, len(bullet.DomainTags)+len(bullet.TechTags))
	for _, t := range bullet.DomainTags {
		if n := normalizeTag(t); n != "" {
			tags = append(tags, n)
		}
	}
	for _, t := range bullet.TechTags {
		if n := normalizeTag(t); n != "" {
			tags = append(tags, n)
		}
	}
	if len(tags) == 0 {
		return ""
	}
	sort.Strings(tags)
	return strings.Join(tags, ",")
}

// tagOverlap returns the fraction of target tags matched by the bullet's tags.
func tagOverlap(bulletTags, targetTags []string) float64 {
	if len(targetTags) == 0 {
		return 0.0
	}

	bulletSet := make(map[string]bool, len(bulletTags))
	for _, t := range bulletTags {
		if n := normalizeTag(t); n != "" {
			bulletSet[n] = true
		}
	}

	matched := 0
	total := 0
	seen := make(map[string]bool, len(targetTags))
	for _, t := range targetTags {
		n := normalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		total++
		if bulletSet[n] {
			matched++
		}
	}

	if total == 0 {
		return 0.0
	}
	return float64(matched) / float64(total)
}

// seniorityFit compares the owning role's level against the target's.
// Closer levels score higher; a missing label on either side is neutral.
func seniorityFit(roleSeniority, targetSeniority string) float64 {
	roleRank, okRole := seniorityRank[strings.ToLower(strings.TrimSpace(roleSeniority))]
	targetRank, okTarget := seniorityRank[strings.ToLower(strings.TrimSpace(targetSeniority))]
	if !okRole || !okTarget {
		return neutralSeniorityFit
	}

	diff := roleRank - targetRank
	if diff < 0 {
		diff = -diff
	}

	// Four rank steps separate the extremes of the scale.
	fit := 1.0 - float64(diff)/4.0
	if fit < 0 {
		fit = 0
	}
	return fit
}

// themeMatch returns the fraction of priority themes appearing in the bullet
// text, case-insensitively.
func themeMatch(text string, themes []string) float64 {
	if len(themes) == 0 {
		return 0.0
	}

	textLower := strings.ToLower(text)
	matches := 0
	for _, theme := range themes {
		themeLower := strings.ToLower(strings.TrimSpace(theme))
		if themeLower == "" {
			continue
		}
		if strings.Contains(textLower, themeLower) {
			matches++
		}
	}

	return float64(matches) / float64(len(themes))
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
