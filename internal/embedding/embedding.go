// Package embedding precomputes semantic similarity between pool bullets and
// a job target using the Gemini embedding API. The engine itself never calls
// the network; it consumes the finished bullet-to-score map.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-layout/internal/types"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// batchSize caps contents per BatchEmbedContents call.
const batchSize = 100

// Client wraps a Gemini client configured for embeddings.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates an embedding client. An empty model selects DefaultModel.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

// SimilarityScores embeds the job target and every pool bullet, returning a
// bullet ID to similarity map with values in [0, 1].
func (c *Client) SimilarityScores(ctx context.Context, target *types.JobTarget, pool *types.ContentPool) (map[string]float64, error) {
	targetVec, err := c.embedOne(ctx, TargetText(target))
	if err != nil {
		return nil, fmt.Errorf("failed to embed job target: %w", err)
	}

	var ids []string
	var texts []string
	for i := range pool.Roles {
		for _, b := range pool.Roles[i].AllBullets() {
			if b.Text == "" {
				continue
			}
			ids = append(ids, b.ID)
			texts = append(texts, b.Text)
		}
	}

	scores := make(map[string]float64, len(ids))
	em := c.client.EmbeddingModel(c.model)

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed bullets: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), end-start)
		}

		for i, emb := range resp.Embeddings {
			scores[ids[start+i]] = ToUnitInterval(Cosine(targetVec, emb.Values))
		}
	}

	return scores, nil
}

func (c *Client) embedOne(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.model)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embedding.Values, nil
}

// TargetText flattens a job target into one embedding input string.
func TargetText(target *types.JobTarget) string {
	parts := []string{target.RoleTitle}
	if target.Seniority != "" {
		parts = append(parts, target.Seniority)
	}
	parts = append(parts, target.DomainTags...)
	parts = append(parts, target.TechTags...)
	parts = append(parts, target.PriorityThemes...)
	return strings.Join(parts, " ")
}

// Cosine returns the cosine similarity of two vectors, 0 when either is
// empty, zero, or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ToUnitInterval maps a cosine similarity in [-1, 1] onto [0, 1].
func ToUnitInterval(cos float64) float64 {
	v := (cos + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
