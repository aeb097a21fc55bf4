package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-layout/internal/engine"
	"github.com/jonathan/resume-layout/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargetValid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "job.json", `{
		"id": "job-1",
		"company": "Acme",
		"role_title": "Senior Backend Engineer",
		"seniority": "senior",
		"tech_tags": ["go"]
	}`)

	target, err := loadTarget(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme", target.Company)
	assert.Equal(t, "Senior Backend Engineer", target.RoleTitle)
}

func TestLoadTargetRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	// role_title is required by the schema.
	path := writeFile(t, dir, "job.json", `{"id": "job-1", "company": "Acme"}`)
	_, err := loadTarget(path)
	assert.Error(t, err)

	_, err = loadTarget(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadSkills(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "skills.txt", "Go, Postgres, Kafka")

	text, err := loadSkills(path)
	require.NoError(t, err)
	assert.Equal(t, "Go, Postgres, Kafka", text)

	text, err = loadSkills("")
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = loadSkills(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestWriteResultsShapes(t *testing.T) {
	dir := t.TempDir()
	results := []*engine.Result{
		{PlanID: "p1", Plan: &types.AllocationPlan{PlanID: "p1"}, Layout: &types.PageLayout{}},
		{PlanID: "p2", Plan: &types.AllocationPlan{PlanID: "p2"}, Layout: &types.PageLayout{}},
	}

	outPath := filepath.Join(dir, "out.json")
	allocateOutput = outPath
	defer func() { allocateOutput = "" }()

	// A single result is written as one object.
	require.NoError(t, writeResults(results[:1]))
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var single engine.Result
	require.NoError(t, json.Unmarshal(data, &single))
	assert.Equal(t, "p1", single.PlanID)

	// Multiple results are written as an array.
	require.NoError(t, writeResults(results))
	data, err = os.ReadFile(outPath)
	require.NoError(t, err)

	var batch []engine.Result
	require.NoError(t, json.Unmarshal(data, &batch))
	require.Len(t, batch, 2)
	assert.Equal(t, "p2", batch[1].PlanID)
}
