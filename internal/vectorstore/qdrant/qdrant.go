package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"jobmarket/internal/domain"
)

// pointNamespace scopes the deterministic point ids of job records.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobmarket/qdrant/points"))

// Storage is a minimal REST client to Qdrant.
// It assumes cosine distance and creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// PointID returns the Qdrant point id of the record at corpus index i.
func PointID(i int, job domain.JobRecord) string {
	return uuid.NewSHA1(pointNamespace, []byte(strconv.Itoa(i)+"\x00"+job.Title)).String()
}

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert stores the records with their corpus index in the payload; the index
// keeps the ordering of equal scores stable across searches.
func (s *Storage) Upsert(jobs []domain.JobRecord, vectors [][]float64) error {
	if len(jobs) != len(vectors) {
		return errors.New("jobs and vectors length mismatch")
	}
	points := make([]map[string]any, len(jobs))
	for i := range jobs {
		if len(vectors[i]) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		points[i] = map[string]any{
			"id":     PointID(i, jobs[i]),
			"vector": vectors[i],
			"payload": map[string]any{
				"index":           i,
				"title":           jobs[i].Title,
				"avg_hourly_rate": jobs[i].AvgHourlyRate,
				"country":         jobs[i].Country,
				"job_type":        jobs[i].JobType,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

type searchHit struct {
	Score   float64 `json:"score"`
	Payload struct {
		Index         int     `json:"index"`
		Title         string  `json:"title"`
		AvgHourlyRate float64 `json:"avg_hourly_rate"`
		Country       string  `json:"country"`
		JobType       string  `json:"job_type"`
	} `json:"payload"`
}

// Search returns the topK best points, ties broken by lower corpus index.
// Qdrant picks arbitrarily among points tied at the cut-off, so the limit is
// widened until the last returned score falls below the k-th score or the
// collection is exhausted.
func (s *Storage) Search(vector []float64, topK int) ([]domain.Match, error) {
	if topK <= 0 {
		topK = 5
	}
	limit := topK + 1
	var hits []searchHit
	for {
		var err error
		hits, err = s.search(vector, limit)
		if err != nil {
			return nil, err
		}
		if len(hits) < limit {
			break
		}
		sortHits(hits)
		if hits[len(hits)-1].Score < hits[topK-1].Score {
			break
		}
		limit *= 2
	}
	sortHits(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]domain.Match, 0, len(hits))
	for _, r := range hits {
		p := r.Payload
		results = append(results, domain.Match{
			Job: domain.JobRecord{
				Title:         p.Title,
				AvgHourlyRate: p.AvgHourlyRate,
				Country:       p.Country,
				JobType:       p.JobType,
			},
			Index: p.Index,
			Score: r.Score,
		})
	}
	return results, nil
}

func (s *Storage) search(vector []float64, limit int) ([]searchHit, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []searchHit `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func sortHits(hits []searchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Payload.Index < hits[j].Payload.Index
	})
}

func (s *Storage) Clear() error {
	// Best-effort: drop collection
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	_ = resp.Body.Close()
	return nil
}

func (s *Storage) putJSON(url string, body any) error {
	return s.doJSON(http.MethodPut, url, body, nil)
}

func (s *Storage) postJSON(url string, body any, out any) error {
	return s.doJSON(http.MethodPost, url, body, out)
}

func (s *Storage) doJSON(method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
