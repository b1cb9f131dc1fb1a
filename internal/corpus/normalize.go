package corpus

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"jobmarket/internal/domain"
)

// UnknownCountry replaces a missing country.
const UnknownCountry = "Unknown"

// NewRand returns a seeded random source. A zero seed draws one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Normalize fills missing fields so every record is renderable: a missing rate
// becomes 0, a missing country becomes "Unknown" and a missing job type is drawn
// uniformly from domain.JobTypes using rng. Present values are kept as they are,
// except that negative or NaN rates are treated as 0.
func Normalize(raw []domain.RawJob, rng *rand.Rand) []domain.JobRecord {
	if rng == nil {
		rng = NewRand(0)
	}
	out := make([]domain.JobRecord, len(raw))
	for i, r := range raw {
		rec := domain.JobRecord{Title: r.Title}

		if r.AvgHourlyRate != nil && !math.IsNaN(*r.AvgHourlyRate) && *r.AvgHourlyRate > 0 {
			rec.AvgHourlyRate = *r.AvgHourlyRate
		}

		rec.Country = UnknownCountry
		if r.Country != nil && strings.TrimSpace(*r.Country) != "" {
			rec.Country = *r.Country
		}

		if r.JobType != nil && strings.TrimSpace(*r.JobType) != "" {
			rec.JobType = *r.JobType
		} else {
			rec.JobType = domain.JobTypes[rng.Intn(len(domain.JobTypes))]
		}
		out[i] = rec
	}
	return out
}
