// Package engine orchestrates one layout run: scoring the pool against the
// job target, allocating bullets under the line budget, compressing when a
// small deficit is cheaper to absorb than to cut, and simulating the page
// split.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-layout/internal/allocate"
	"github.com/jonathan/resume-layout/internal/compress"
	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/estimate"
	"github.com/jonathan/resume-layout/internal/paginate"
	"github.com/jonathan/resume-layout/internal/scoring"
	"github.com/jonathan/resume-layout/internal/types"
)

// maxOverflowPasses bounds how many times a run re-allocates with a tighter
// budget when the simulated layout still overflows page two.
const maxOverflowPasses = 3

// Input is one layout request.
type Input struct {
	Pool   *types.ContentPool
	Target *types.JobTarget

	// Similarity optionally maps bullet IDs to an externally computed
	// semantic similarity in [0, 1]. Bullets absent from the map are scored
	// on tags alone.
	Similarity map[string]float64

	// SkillsText is the fixed skills block rendered at the top of page one;
	// its estimated lines are reserved before experience content is placed.
	SkillsText string
}

// Result is the engine's full output for one request.
type Result struct {
	PlanID string                `json:"plan_id"`
	Plan   *types.AllocationPlan `json:"plan"`
	Layout *types.PageLayout     `json:"layout"`

	// MaxLines is the page-one line capacity left after the skills block and
	// all placed experience content, usable as a rendering hint downstream.
	MaxLines int `json:"max_lines"`

	Warnings []types.Warning `json:"warnings,omitempty"`
}

// Run executes a full layout pass for one input. It never fails on content
// it merely dislikes: infeasible budgets surface as warnings on a best-effort
// plan, and only nil inputs or invalid configuration return an error.
func Run(in *Input, cfg *config.Config) (*Result, error) {
	if in == nil || in.Pool == nil || in.Target == nil {
		return nil, &Error{Message: "engine input requires a content pool and a job target"}
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reserved := estimate.BlockCost(in.SkillsText, cfg.BlockCharsPerLine)
	budget := cfg.PageOneLines + cfg.PageTwoLines - reserved
	if budget <= 0 {
		return nil, &Error{Message: fmt.Sprintf("skills block consumes the entire %d-line budget", cfg.PageOneLines+cfg.PageTwoLines)}
	}

	roles := buildCandidates(in, cfg)

	plan, err := allocateWithCompression(roles, budget, cfg)
	if err != nil {
		return nil, err
	}

	plan, layout, err := simulateWithRepair(plan, roles, budget, reserved, cfg)
	if err != nil {
		return nil, err
	}

	plan.PlanID = uuid.NewString()

	maxLines := cfg.PageOneLines - layout.UsedLines(1)
	if maxLines < 0 {
		maxLines = 0
	}

	result := &Result{
		PlanID:   plan.PlanID,
		Plan:     plan,
		Layout:   layout,
		MaxLines: maxLines,
	}
	result.Warnings = append(result.Warnings, plan.Warnings...)
	result.Warnings = append(result.Warnings, layout.Warnings...)
	return result, nil
}

// RunBatch lays out one pool against several job targets concurrently.
// Results come back indexed like the inputs; the first failure cancels the
// remaining work.
func RunBatch(ctx context.Context, inputs []*Input, cfg *config.Config) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := Run(in, cfg)
			if err != nil {
				return fmt.Errorf("layout run %d failed: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// buildCandidates scores and costs every pool bullet against the target.
func buildCandidates(in *Input, cfg *config.Config) []allocate.RoleCandidates {
	roles := make([]allocate.RoleCandidates, 0, len(in.Pool.Roles))

	for i := range in.Pool.Roles {
		role := &in.Pool.Roles[i]
		rc := allocate.RoleCandidates{Role: role}

		if role.Consulting {
			for j := range role.Engagements {
				eng := &role.Engagements[j]
				ec := allocate.EngagementCandidates{Engagement: eng}
				scores := make([]float64, 0, len(eng.Bullets))
				for k := range eng.Bullets {
					c := newCandidate(&eng.Bullets[k], role, in, cfg)
					ec.Bullets = append(ec.Bullets, c)
					scores = append(scores, c.Score)
				}
				ec.Aggregate = scoring.EngagementScore(scores)
				rc.Engagements = append(rc.Engagements, ec)
			}
		} else {
			for k := range role.Bullets {
				rc.Bullets = append(rc.Bullets, newCandidate(&role.Bullets[k], role, in, cfg))
			}
		}

		roles = append(roles, rc)
	}

	return roles
}

func newCandidate(bullet *types.CandidateBullet, role *types.Role, in *Input, cfg *config.Config) allocate.BulletCandidate {
	var semantic *float64
	if sim, ok := in.Similarity[bullet.ID]; ok {
		semantic = &sim
	}

	score, components := scoring.ScoreBullet(bullet, role, in.Target, semantic)
	return allocate.BulletCandidate{
		Bullet:     bullet,
		Score:      score,
		Cost:       estimate.BulletCost(bullet.Text, cfg.CharsPerLine),
		Components: components,
		Signature:  scoring.TagSignature(bullet),
	}
}

func allocatorInput(roles []allocate.RoleCandidates, budget int, cfg *config.Config) *allocate.Input {
	return &allocate.Input{
		Roles:                 roles,
		BudgetLines:           budget,
		RoleHeaderLines:       estimate.HeaderCost(cfg.RoleHeaderLines),
		EngagementHeaderLines: estimate.HeaderCost(cfg.EngagementHeaderLines),
		MaxEngagementsPerRole: cfg.MaxEngagementsPerRole,
		DefaultMinBullets:     cfg.MinBullets,
		DefaultMaxBullets:     cfg.MaxBullets,
	}
}

// allocateWithCompression runs the allocator, and when the unconstrained
// selection overshoots the budget by no more than the compression trigger,
// compresses the candidate texts and allocates again with the cheaper costs.
// Large deficits skip compression entirely; trimming whole bullets is the
// honest fix there.
func allocateWithCompression(roles []allocate.RoleCandidates, budget int, cfg *config.Config) (*types.AllocationPlan, error) {
	plan, stats, err := allocate.Allocate(allocatorInput(roles, budget, cfg))
	if err != nil {
		return nil, &Error{Message: "allocation failed", Cause: err}
	}

	if stats.Deficit == 0 || stats.Deficit > cfg.CompressionTriggerLines {
		return plan, nil
	}

	if !compressCandidates(roles, cfg) {
		return plan, nil
	}

	plan, _, err = allocate.Allocate(allocatorInput(roles, budget, cfg))
	if err != nil {
		return nil, &Error{Message: "allocation after compression failed", Cause: err}
	}
	return plan, nil
}

// compressCandidates attaches compressed variants wherever compression
// actually saves at least one line. Reports whether anything changed.
func compressCandidates(roles []allocate.RoleCandidates, cfg *config.Config) bool {
	changed := false
	apply := func(c *allocate.BulletCandidate) {
		compressed := compress.Compress(c.Bullet.Text)
		if !compress.Applied(c.Bullet.Text, compressed) {
			return
		}
		cost := estimate.BulletCost(compressed, cfg.CharsPerLine)
		if cost >= c.Cost {
			return
		}
		c.CompressedText = compressed
		c.CompressedCost = cost
		changed = true
	}

	for i := range roles {
		for j := range roles[i].Bullets {
			apply(&roles[i].Bullets[j])
		}
		for j := range roles[i].Engagements {
			for k := range roles[i].Engagements[j].Bullets {
				apply(&roles[i].Engagements[j].Bullets[k])
			}
		}
	}
	return changed
}

// simulateWithRepair runs the page split simulation and, when the layout
// overflows page two, re-allocates with the budget tightened by the overflow
// before simulating again. Bounded so a pathological configuration cannot
// loop forever.
func simulateWithRepair(plan *types.AllocationPlan, roles []allocate.RoleCandidates, budget, reserved int, cfg *config.Config) (*types.AllocationPlan, *types.PageLayout, error) {
	opts := paginate.Options{
		Budget:                types.PageBudget{PageOneLines: cfg.PageOneLines, PageTwoLines: cfg.PageTwoLines},
		RoleHeaderLines:       estimate.HeaderCost(cfg.RoleHeaderLines),
		EngagementHeaderLines: estimate.HeaderCost(cfg.EngagementHeaderLines),
		ReservedPageOneLines:  reserved,
	}

	res := paginate.Simulate(plan, opts)
	for pass := 0; res.OverflowLines > 0 && pass < maxOverflowPasses; pass++ {
		budget -= res.OverflowLines
		if budget <= 0 {
			break
		}

		next, _, err := allocate.Allocate(allocatorInput(roles, budget, cfg))
		if err != nil {
			return nil, nil, &Error{Message: "overflow re-allocation failed", Cause: err}
		}
		plan = next
		res = paginate.Simulate(plan, opts)
	}

	if res.OverflowLines > 0 && !hasWarning(plan.Warnings, types.WarningOverConstrained) {
		res.Layout.Warnings = append(res.Layout.Warnings, types.WarningOverConstrained)
	}

	return plan, res.Layout, nil
}

func hasWarning(warnings []types.Warning, w types.Warning) bool {
	for _, have := range warnings {
		if have == w {
			return true
		}
	}
	return false
}
