package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/corpus"
	"jobmarket/internal/domain"
	"jobmarket/internal/embedding/tfidf"
	"jobmarket/internal/matcher"
	"jobmarket/internal/salary"
	"jobmarket/internal/vectorstore/memory"
)

var sampleJobs = []domain.JobRecord{
	{Title: "Senior Go Developer", AvgHourlyRate: 150000, Country: "United States", JobType: "Contract"},
	{Title: "Python Data Analyst", AvgHourlyRate: 120000, Country: "India", JobType: "On-site"},
	{Title: "Remote Customer Support", AvgHourlyRate: 15, Country: "India", JobType: "Work From Home"},
	{Title: "Machine Learning Engineer", AvgHourlyRate: 2500, Country: "Germany", JobType: "Permanent Full-time"},
	{Title: "remote excel specialist", AvgHourlyRate: 0, Country: "Unknown", JobType: "Part-time"},
	{Title: "Kubernetes Administrator", AvgHourlyRate: 60, Country: "Canada", JobType: "Contract"},
}

func newService(t *testing.T, formatter *salary.Formatter) *DashboardService {
	t.Helper()
	c := corpus.New(sampleJobs)
	emb := tfidf.NewEmbedder()
	require.NoError(t, emb.Prepare(c.Titles()))
	m, err := matcher.New(c.Jobs(), emb, memory.NewStorage())
	require.NoError(t, err)
	return NewDashboardService(c, m, emb, formatter, DefaultLimits)
}

func TestRecommend(t *testing.T) {
	svc := newService(t, nil)

	rows, err := svc.Recommend("go developer")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Senior Go Developer", rows[0].Title)
	assert.Greater(t, rows[0].Score, 0.0)
	assert.Equal(t, "$1.5K", rows[0].Salary)

	_, err = svc.Recommend("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCountriesAndFilter(t *testing.T) {
	svc := newService(t, nil)

	assert.Equal(t, []string{"Canada", "Germany", "India", "United States", "Unknown"}, svc.Countries())

	india := svc.FilterByCountry("India")
	require.Len(t, india, 2)
	assert.Equal(t, "₹1.2 Lakh", india[0].Salary)
	assert.Equal(t, "₹15.00/hr", india[1].Salary)

	assert.Empty(t, svc.FilterByCountry("Atlantis"))
}

func TestRemoteJobs(t *testing.T) {
	rows := newService(t, nil).RemoteJobs()
	require.Len(t, rows, 2)
	assert.Equal(t, "Remote Customer Support", rows[0].Title)
	assert.Equal(t, "remote excel specialist", rows[1].Title)
	assert.Equal(t, "$0.00/hr", rows[1].Salary)
}

func TestSkillGap(t *testing.T) {
	svc := newService(t, nil)

	res, err := svc.SkillGap("Python, Excel, Machine Learning, Rust")
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)
	titles := []string{res.Matches[0].Title, res.Matches[1].Title, res.Matches[2].Title}
	assert.Contains(t, titles, "Machine Learning Engineer")
	assert.Contains(t, titles, "Python Data Analyst")
	assert.Contains(t, titles, "remote excel specialist")
	assert.Equal(t, []string{"Python", "Excel", "Machine Learning"}, res.Matched)
	assert.Equal(t, []string{"Rust"}, res.Missing)

	_, err = svc.SkillGap(" , ")
	require.NoError(t, err, "only blank text is idle")

	_, err = svc.SkillGap("")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAnalyzeResume(t *testing.T) {
	svc := newService(t, nil)

	resume := "Five years running Kubernetes clusters. I enjoy chess.\nAutomated Kubernetes upgrades with Go."
	res, err := svc.AnalyzeResume(resume, salary.Senior)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes Administrator", res.Job.Title)
	assert.True(t, res.Relevant())
	assert.Equal(t, "$90.00/hr", res.Salary)
	assert.Equal(t, salary.Senior, res.Level)
	assert.Contains(t, res.Feedback, "Kubernetes Administrator")
	assert.Equal(t, []string{"Five years running Kubernetes clusters.", "Automated Kubernetes upgrades with Go."}, res.Highlights)
}

func TestAnalyzeResume_Levels(t *testing.T) {
	svc := newService(t, nil)
	resume := "python data analyst"

	tests := []struct {
		level salary.Level
		want  string
	}{
		{salary.Fresher, "₹96.0 Thousand"},
		{salary.MidLevel, "₹1.2 Lakh"},
		{salary.Senior, "₹1.8 Lakh"},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			res, err := svc.AnalyzeResume(resume, tt.level)
			require.NoError(t, err)
			assert.Equal(t, "Python Data Analyst", res.Job.Title)
			assert.Equal(t, tt.want, res.Salary)
		})
	}
}

func TestAnalyzeResume_CustomMultipliers(t *testing.T) {
	svc := newService(t, salary.NewFormatter(map[salary.Level]float64{salary.MidLevel: 1.2}))
	res, err := svc.AnalyzeResume("python data analyst", salary.MidLevel)
	require.NoError(t, err)
	assert.Equal(t, "₹1.4 Lakh", res.Salary)

	res, err = svc.AnalyzeResume("python data analyst", salary.Senior)
	require.NoError(t, err)
	assert.Equal(t, "₹1.8 Lakh", res.Salary)
}

func TestAnalyzeResume_HighlightsDisabled(t *testing.T) {
	c := corpus.New(sampleJobs)
	emb := tfidf.NewEmbedder()
	require.NoError(t, emb.Prepare(c.Titles()))
	m, err := matcher.New(c.Jobs(), emb, memory.NewStorage())
	require.NoError(t, err)
	svc := NewDashboardService(c, m, emb, nil, Limits{})

	res, err := svc.AnalyzeResume("Five years running Kubernetes clusters.", salary.Senior)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes Administrator", res.Job.Title)
	assert.Empty(t, res.Highlights)

	rows, err := svc.Recommend("developer")
	require.NoError(t, err)
	assert.Len(t, rows, DefaultLimits.Recommend)
}

func TestAnalyzeResume_Errors(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.AnalyzeResume(" \n\t ", salary.Senior)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.AnalyzeResume("go developer", salary.Level("Guru"))
	assert.ErrorContains(t, err, "invalid resume request")

	res, err := svc.AnalyzeResume("baker and florist", salary.Fresher)
	require.NoError(t, err)
	assert.False(t, res.Relevant())
	assert.Equal(t, "Senior Go Developer", res.Job.Title)
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Machine Learning"}, SplitSkills(" Go,SQL ,, Machine Learning ,"))
	assert.Nil(t, SplitSkills(" , "))
}
