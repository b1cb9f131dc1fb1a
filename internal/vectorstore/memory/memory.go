package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"jobmarket/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Results are ordered by descending score; equal scores keep insertion order.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	jobs      []domain.JobRecord
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.jobs = nil
	return nil
}

func (s *Storage) Upsert(jobs []domain.JobRecord, vectors [][]float64) error {
	if len(jobs) != len(vectors) {
		return errors.New("jobs and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.jobs = append(s.jobs, jobs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = cosine(s.vectors[i], vector)
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Match, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.Match{Job: s.jobs[j], Index: j, Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.jobs = nil
	return nil
}

// Len reports how many vectors are stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// cosine returns 0 when either vector is zero.
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
