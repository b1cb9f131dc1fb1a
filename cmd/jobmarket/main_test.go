package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/embedding/tfidf"
)

const jobsCSV = `id,title,avg_hourly_rate,country,job_type
1,Senior Go Developer,55,India,Contract
2,Remote Data Analyst,,,
3,Machine Learning Engineer,150000,United States,Permanent Full-time
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(corpusPath, []byte(jobsCSV), 0o644))

	emb := tfidf.NewEmbedder()
	require.NoError(t, emb.Prepare([]string{"Senior Go Developer", "Remote Data Analyst", "Machine Learning Engineer"}))
	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, emb.Save(modelPath))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("data:\n  corpus_path: %s\n  model_path: %s\n  seed: 7\n", corpusPath, modelPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "", "--config", cfg, "search", "go", "developer")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "TITLE"))
	assert.True(t, strings.HasPrefix(lines[1], "Senior Go Developer"))
	assert.Contains(t, lines[1], "₹55.00/hr")
}

func TestSearchCommand_BlankQuery(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "", "--config", cfg, "search", "  ")
	require.NoError(t, err)
	assert.Equal(t, "Enter a search query.\n", out)
}

func TestCountryCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "", "--config", cfg, "countries")
	require.NoError(t, err)
	assert.Equal(t, "India\nUnited States\nUnknown\n", out)

	out, err = run(t, "", "--config", cfg, "country", "United", "States")
	require.NoError(t, err)
	assert.Contains(t, out, "Machine Learning Engineer")
	assert.Contains(t, out, "$1.5K")

	out, err = run(t, "", "--config", cfg, "country", "France")
	require.NoError(t, err)
	assert.Equal(t, "No jobs found for France.\n", out)

	out, err = run(t, "", "--config", cfg, "remote")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote Data Analyst")
	assert.Contains(t, out, "Unknown")
}

func TestSkillsCommand(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "", "--config", cfg, "skills", "machine learning, kubernetes")
	require.NoError(t, err)
	assert.Contains(t, out, "Covered: machine learning")
	assert.Contains(t, out, "Missing: kubernetes")
}

func TestResumeCommand(t *testing.T) {
	cfg := writeConfig(t)
	resume := "I build machine learning pipelines. I enjoy hiking."
	out, err := run(t, resume, "--config", cfg, "resume", "--level", "senior", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Best match: Machine Learning Engineer")
	assert.Contains(t, out, "Salary (Senior): $2.2K")
	assert.Contains(t, out, "Job type: Permanent Full-time")
	assert.Contains(t, out, "Your profile aligns well with Machine Learning Engineer.")
	assert.Contains(t, out, "I build machine learning pipelines.")
	assert.NotContains(t, out, "hiking")
}

func TestResumeCommand_BadLevel(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, "", "--config", cfg, "resume", "--level", "Intern", "text")
	assert.ErrorContains(t, err, "unknown experience level")
}
