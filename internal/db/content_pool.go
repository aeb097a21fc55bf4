package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-layout/internal/types"
)

// roleRow, engagementRow and bulletRow mirror the persisted tables. The pool
// is read-only from the engine's point of view; nothing here writes content.
type roleRow struct {
	ID              string
	Company         string
	Title           string
	StartDate       string
	EndDate         string
	Consulting      bool
	RecencyRank     int
	SeniorityWeight float64
	Seniority       string
	MinBullets      int
	MaxBullets      int
}

type engagementRow struct {
	ID     string
	RoleID string
	Client string
}

type bulletRow struct {
	ID           string
	RoleID       string
	EngagementID string
	Text         string
	DomainTags   []string
	TechTags     []string
	Important    bool
}

// LoadContentPool reads one user's full content pool: roles ordered by
// recency, engagements and bullets in source order.
func (db *DB) LoadContentPool(ctx context.Context, userID uuid.UUID) (*types.ContentPool, error) {
	roleRows, err := db.loadRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	engagementRows, err := db.loadEngagements(ctx, userID)
	if err != nil {
		return nil, err
	}

	bulletRows, err := db.loadBullets(ctx, userID)
	if err != nil {
		return nil, err
	}

	return assemblePool(roleRows, engagementRows, bulletRows), nil
}

func (db *DB) loadRoles(ctx context.Context, userID uuid.UUID) ([]roleRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company, title, start_date, COALESCE(end_date, ''), consulting,
		        recency_rank, seniority_weight, COALESCE(seniority, ''),
		        COALESCE(min_bullets, 0), COALESCE(max_bullets, 0)
		 FROM roles
		 WHERE user_id = $1
		 ORDER BY recency_rank, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var out []roleRow
	for rows.Next() {
		var r roleRow
		if err := rows.Scan(&r.ID, &r.Company, &r.Title, &r.StartDate, &r.EndDate, &r.Consulting,
			&r.RecencyRank, &r.SeniorityWeight, &r.Seniority, &r.MinBullets, &r.MaxBullets); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roles: %w", err)
	}
	return out, nil
}

func (db *DB) loadEngagements(ctx context.Context, userID uuid.UUID) ([]engagementRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT e.id, e.role_id, e.client
		 FROM engagements e
		 JOIN roles r ON r.id = e.role_id
		 WHERE r.user_id = $1
		 ORDER BY e.role_id, e.position, e.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagements: %w", err)
	}
	defer rows.Close()

	var out []engagementRow
	for rows.Next() {
		var e engagementRow
		if err := rows.Scan(&e.ID, &e.RoleID, &e.Client); err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read engagements: %w", err)
	}
	return out, nil
}

func (db *DB) loadBullets(ctx context.Context, userID uuid.UUID) ([]bulletRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT b.id, b.role_id, COALESCE(b.engagement_id, ''), b.text,
		        COALESCE(b.domain_tags, '{}'), COALESCE(b.tech_tags, '{}'), b.important
		 FROM bullets b
		 JOIN roles r ON r.id = b.role_id
		 WHERE r.user_id = $1
		 ORDER BY b.role_id, b.position, b.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bullets: %w", err)
	}
	defer rows.Close()

	var out []bulletRow
	for rows.Next() {
		var b bulletRow
		if err := rows.Scan(&b.ID, &b.RoleID, &b.EngagementID, &b.Text,
			&b.DomainTags, &b.TechTags, &b.Important); err != nil {
			return nil, fmt.Errorf("failed to scan bullet: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bullets: %w", err)
	}
	return out, nil
}

// assemblePool groups flat rows into the nested pool shape. Bullets with an
// engagement ID attach to that engagement; the rest attach directly to their
// role. Bullets referencing unknown parents are dropped rather than invented
// a home.
func assemblePool(roles []roleRow, engagements []engagementRow, bullets []bulletRow) *types.ContentPool {
	pool := &types.ContentPool{Roles: make([]types.Role, 0, len(roles))}
	roleIndex := make(map[string]int, len(roles))

	for _, r := range roles {
		roleIndex[r.ID] = len(pool.Roles)
		pool.Roles = append(pool.Roles, types.Role{
			ID:              r.ID,
			Company:         r.Company,
			Title:           r.Title,
			StartDate:       r.StartDate,
			EndDate:         r.EndDate,
			Consulting:      r.Consulting,
			RecencyRank:     r.RecencyRank,
			SeniorityWeight: r.SeniorityWeight,
			Seniority:       r.Seniority,
			MinBullets:      r.MinBullets,
			MaxBullets:      r.MaxBullets,
		})
	}

	type engKey struct{ roleIdx, engIdx int }
	engagementIndex := make(map[string]engKey, len(engagements))
	for _, e := range engagements {
		roleIdx, ok := roleIndex[e.RoleID]
		if !ok {
			continue
		}
		role := &pool.Roles[roleIdx]
		engagementIndex[e.ID] = engKey{roleIdx, len(role.Engagements)}
		role.Engagements = append(role.Engagements, types.Engagement{
			ID:     e.ID,
			RoleID: e.RoleID,
			Client: e.Client,
		})
	}

	for _, b := range bullets {
		bullet := types.CandidateBullet{
			ID:           b.ID,
			RoleID:       b.RoleID,
			EngagementID: b.EngagementID,
			Text:         b.Text,
			DomainTags:   b.DomainTags,
			TechTags:     b.TechTags,
			Important:    b.Important,
		}

		if b.EngagementID != "" {
			key, ok := engagementIndex[b.EngagementID]
			if !ok {
				continue
			}
			eng := &pool.Roles[key.roleIdx].Engagements[key.engIdx]
			eng.Bullets = append(eng.Bullets, bullet)
			continue
		}

		roleIdx, ok := roleIndex[b.RoleID]
		if !ok {
			continue
		}
		pool.Roles[roleIdx].Bullets = append(pool.Roles[roleIdx].Bullets, bullet)
	}

	return pool
}

// SavePlan stores a finished allocation plan as a JSONB artifact keyed by the
// plan's own ID, updating in place on re-runs.
func (db *DB) SavePlan(ctx context.Context, userID uuid.UUID, jobTargetID string, plan *types.AllocationPlan) error {
	jsonBytes, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO layout_plans (plan_id, user_id, job_target_id, plan)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (plan_id) DO UPDATE SET plan = $4, created_at = NOW()`,
		plan.PlanID, userID, jobTargetID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save plan %s: %w", plan.PlanID, err)
	}
	return nil
}
