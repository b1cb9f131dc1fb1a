package corpus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNormalize_FillsMissingFields(t *testing.T) {
	raw := []domain.RawJob{
		{Title: "Go Developer", AvgHourlyRate: ptr(42.5), Country: ptr("India"), JobType: ptr("Contract")},
		{Title: "Data Analyst"},
		{Title: "QA Engineer", AvgHourlyRate: ptr(math.NaN()), Country: ptr("  ")},
		{Title: "Designer", AvgHourlyRate: ptr(-3.0), JobType: ptr("")},
		{Title: "Writer", JobType: ptr("Freelance")},
	}

	got := Normalize(raw, NewRand(1))
	require.Len(t, got, len(raw))

	assert.Equal(t, domain.JobRecord{Title: "Go Developer", AvgHourlyRate: 42.5, Country: "India", JobType: "Contract"}, got[0])
	assert.Equal(t, "Writer", got[4].Title)
	assert.Equal(t, "Freelance", got[4].JobType, "present job types are kept")

	for i, rec := range got {
		assert.GreaterOrEqual(t, rec.AvgHourlyRate, 0.0, "record %d", i)
		assert.NotEmpty(t, rec.Country, "record %d", i)
		assert.NotEmpty(t, rec.JobType, "record %d", i)
		assert.Equal(t, raw[i].Title, rec.Title)
	}
	for _, i := range []int{1, 2, 3} {
		assert.Zero(t, got[i].AvgHourlyRate)
		assert.Contains(t, domain.JobTypes, got[i].JobType)
	}
	assert.Equal(t, UnknownCountry, got[1].Country)
	assert.Equal(t, UnknownCountry, got[2].Country)
}

func TestNormalize_SeededIsReproducible(t *testing.T) {
	raw := make([]domain.RawJob, 50)
	for i := range raw {
		raw[i] = domain.RawJob{Title: "Job"}
	}

	a := Normalize(raw, NewRand(7))
	b := Normalize(raw, NewRand(7))
	assert.Equal(t, a, b)
}

func TestNormalize_DrawsEveryJobType(t *testing.T) {
	raw := make([]domain.RawJob, 500)
	got := Normalize(raw, NewRand(42))

	counts := make(map[string]int)
	for _, rec := range got {
		counts[rec.JobType]++
	}
	require.Len(t, counts, len(domain.JobTypes))
	for _, jt := range domain.JobTypes {
		assert.Greater(t, counts[jt], 50, "job type %s under-drawn", jt)
	}
}

func TestNormalize_NilRandAndEmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil, nil))
	got := Normalize([]domain.RawJob{{Title: "Job"}}, nil)
	assert.Contains(t, domain.JobTypes, got[0].JobType)
}
