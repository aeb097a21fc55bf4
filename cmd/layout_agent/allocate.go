package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/embedding"
	"github.com/jonathan/resume-layout/internal/engine"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate bullets for one or more job targets",
	Long:  "Scores the content pool against each job target, selects bullets under the two-page line budget, and writes the resulting plan and simulated layout as JSON.",
	RunE:  runAllocate,
}

var (
	allocatePool        string
	allocateJobs        []string
	allocateConfig      string
	allocateDatabaseURL string
	allocateUserID      string
	allocateAPIKey      string
	allocateModel       string
	allocateSkills      string
	allocateOutput      string
	allocateSave        bool
	allocateVerbose     bool
)

func init() {
	allocateCmd.Flags().StringVarP(&allocatePool, "pool", "p", "", "Content pool JSON file (or load from database via --user-id)")
	allocateCmd.Flags().StringSliceVarP(&allocateJobs, "job", "j", nil, "Job target JSON file; repeat for batch mode (required)")
	allocateCmd.Flags().StringVarP(&allocateConfig, "config", "c", "", "Layout config JSON file (defaults apply when omitted)")
	allocateCmd.Flags().StringVar(&allocateDatabaseURL, "db-url", "", "Database URL (or DATABASE_URL environment variable)")
	allocateCmd.Flags().StringVarP(&allocateUserID, "user-id", "u", "", "User ID whose pool to load from the database")
	allocateCmd.Flags().StringVar(&allocateAPIKey, "api-key", "", "Gemini API key for semantic similarity (or GEMINI_API_KEY)")
	allocateCmd.Flags().StringVar(&allocateModel, "embedding-model", "", "Embedding model name")
	allocateCmd.Flags().StringVar(&allocateSkills, "skills", "", "Skills block text file reserved at the top of page one")
	allocateCmd.Flags().StringVarP(&allocateOutput, "output", "o", "", "Output JSON file (stdout when omitted)")
	allocateCmd.Flags().BoolVar(&allocateSave, "save", false, "Persist resulting plans to the database")
	allocateCmd.Flags().BoolVarP(&allocateVerbose, "verbose", "v", false, "Print formatted summaries of each result")

	if err := allocateCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(allocateConfig)
	if err != nil {
		return err
	}

	var database *db.DB
	var userID uuid.UUID
	if allocatePool == "" || allocateSave {
		database, userID, err = connectForUser(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	pool, err := loadPool(ctx, database, userID)
	if err != nil {
		return err
	}

	targets := make([]*types.JobTarget, 0, len(allocateJobs))
	for _, path := range allocateJobs {
		target, err := loadTarget(path)
		if err != nil {
			return err
		}
		targets = append(targets, target)
	}

	skillsText, err := loadSkills(allocateSkills)
	if err != nil {
		return err
	}

	inputs := make([]*engine.Input, len(targets))
	for i, target := range targets {
		inputs[i] = &engine.Input{Pool: pool, Target: target, SkillsText: skillsText}
	}

	if err := attachSimilarity(ctx, inputs); err != nil {
		return err
	}

	results, err := engine.RunBatch(ctx, inputs, cfg)
	if err != nil {
		return err
	}

	if allocateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		for i, res := range results {
			printer.PrintJobTarget(targets[i])
			printer.PrintAllocationPlan(res.Plan)
			printer.PrintPageLayout(res.Layout)
			printer.PrintWarnings(res.Warnings)
		}
	}

	if allocateSave {
		for i, res := range results {
			if err := database.SavePlan(ctx, userID, targets[i].ID, res.Plan); err != nil {
				return err
			}
		}
	}

	return writeResults(results)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func connectForUser(ctx context.Context) (*db.DB, uuid.UUID, error) {
	databaseURL := allocateDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, uuid.Nil, fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --db-url flag)")
	}

	userID, err := uuid.Parse(allocateUserID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid user-id: %w", err)
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, userID, nil
}

func loadPool(ctx context.Context, database *db.DB, userID uuid.UUID) (*types.ContentPool, error) {
	if allocatePool == "" {
		pool, err := database.LoadContentPool(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load content pool from database: %w", err)
		}
		return pool, nil
	}

	var pool types.ContentPool
	if err := loadValidated(allocatePool, schemas.ContentPoolSchema, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func loadTarget(path string) (*types.JobTarget, error) {
	var target types.JobTarget
	if err := loadValidated(path, schemas.JobTargetSchema, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// loadValidated reads a JSON file, validates it against the named schema, and
// unmarshals it into out.
func loadValidated(path, schemaName string, out any) error {
	schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", schemaName))
	if schemaPath == "" {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return fmt.Errorf("%s failed validation: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadSkills(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read skills file: %w", err)
	}
	return string(data), nil
}

// attachSimilarity precomputes semantic scores for each input when an API key
// is available. Without a key the engine scores on tags alone.
func attachSimilarity(ctx context.Context, inputs []*engine.Input) error {
	apiKey := allocateAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}

	client, err := embedding.NewClient(ctx, apiKey, allocateModel)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	for _, in := range inputs {
		scores, err := client.SimilarityScores(ctx, in.Target, in.Pool)
		if err != nil {
			return fmt.Errorf("failed to compute similarity for %s: %w", in.Target.ID, err)
		}
		in.Similarity = scores
	}
	return nil
}

func writeResults(results []*engine.Result) error {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')

	if allocateOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(allocateOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
