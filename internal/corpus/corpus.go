package corpus

import (
	"sort"
	"strings"

	"jobmarket/internal/domain"
)

// Corpus is the ordered, read-only set of normalized job records.
type Corpus struct {
	jobs []domain.JobRecord
}

// New wraps normalized records. The slice is copied.
func New(jobs []domain.JobRecord) *Corpus {
	return &Corpus{jobs: append([]domain.JobRecord(nil), jobs...)}
}

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.jobs) }

// At returns the record at index i.
func (c *Corpus) At(i int) domain.JobRecord { return c.jobs[i] }

// Jobs returns a copy of all records in corpus order.
func (c *Corpus) Jobs() []domain.JobRecord {
	return append([]domain.JobRecord(nil), c.jobs...)
}

// Titles returns the title of every record in corpus order.
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.jobs))
	for i, j := range c.jobs {
		out[i] = j.Title
	}
	return out
}

// Countries returns the distinct countries, sorted.
func (c *Corpus) Countries() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, j := range c.jobs {
		if _, ok := seen[j.Country]; ok {
			continue
		}
		seen[j.Country] = struct{}{}
		out = append(out, j.Country)
	}
	sort.Strings(out)
	return out
}

// ByCountry returns the records whose country equals country exactly.
func (c *Corpus) ByCountry(country string) []domain.JobRecord {
	return c.filter(func(j domain.JobRecord) bool { return j.Country == country })
}

// TitleContains returns the records whose title contains term, ignoring case.
func (c *Corpus) TitleContains(term string) []domain.JobRecord {
	needle := strings.ToLower(term)
	return c.filter(func(j domain.JobRecord) bool {
		return strings.Contains(strings.ToLower(j.Title), needle)
	})
}

func (c *Corpus) filter(keep func(domain.JobRecord) bool) []domain.JobRecord {
	var out []domain.JobRecord
	for _, j := range c.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}
