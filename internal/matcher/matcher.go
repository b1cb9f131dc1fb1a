// Package matcher ranks corpus records by the cosine similarity of their title
// to free text under a fixed TF-IDF model.
package matcher

import (
	"errors"
	"fmt"

	"jobmarket/internal/domain"
)

// Matcher holds the title vectors of a corpus, computed once at construction.
// A Matcher is read-only after New and safe for concurrent use when its store is.
type Matcher struct {
	jobs     []domain.JobRecord
	embedder domain.Embedder
	store    domain.VectorStore
}

// New vectorizes every title with embedder and loads the vectors into store.
func New(jobs []domain.JobRecord, embedder domain.Embedder, store domain.VectorStore) (*Matcher, error) {
	if embedder == nil || store == nil {
		return nil, errors.New("matcher needs an embedder and a vector store")
	}
	titles := make([]string, len(jobs))
	for i, j := range jobs {
		titles[i] = j.Title
	}
	vectors, err := embedder.Transform(titles)
	if err != nil {
		return nil, fmt.Errorf("vectorize titles: %w", err)
	}
	if err := store.Clear(); err != nil {
		return nil, fmt.Errorf("clear vector store: %w", err)
	}
	if err := store.Init(embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	if len(jobs) > 0 {
		if err := store.Upsert(jobs, vectors); err != nil {
			return nil, fmt.Errorf("load title vectors: %w", err)
		}
	}
	return &Matcher{
		jobs:     append([]domain.JobRecord(nil), jobs...),
		embedder: embedder,
		store:    store,
	}, nil
}

// Len returns the corpus size.
func (m *Matcher) Len() int { return len(m.jobs) }

// Rank returns the min(k, corpus size) records most similar to query, by
// descending score with ties in corpus order. A query sharing no term with the
// vocabulary, including the empty query, scores zero everywhere and yields the
// first k records; callers must not read relevance into a zero score.
func (m *Matcher) Rank(query string, k int) ([]domain.Match, error) {
	if k <= 0 || len(m.jobs) == 0 {
		return []domain.Match{}, nil
	}
	if k > len(m.jobs) {
		k = len(m.jobs)
	}
	vec, err := m.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if isZero(vec) {
		return m.prefix(k), nil
	}
	res, err := m.store.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	if len(res) > k {
		res = res[:k]
	}
	return res, nil
}

// Best returns the single highest-scoring record, the first one on ties.
// ok is false only for an empty corpus.
func (m *Matcher) Best(query string) (match domain.Match, ok bool, err error) {
	res, err := m.Rank(query, 1)
	if err != nil || len(res) == 0 {
		return domain.Match{}, false, err
	}
	return res[0], true, nil
}

func (m *Matcher) prefix(k int) []domain.Match {
	out := make([]domain.Match, k)
	for i := 0; i < k; i++ {
		out[i] = domain.Match{Job: m.jobs[i], Index: i}
	}
	return out
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
