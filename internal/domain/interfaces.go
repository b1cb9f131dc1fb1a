package domain

// JobTypes is the fixed set of job types a listing can carry.
var JobTypes = []string{"Permanent Full-time", "Part-time", "Work From Home", "On-site", "Contract"}

// RawJob is a job listing as read from the corpus artifact. Nil fields are missing values.
type RawJob struct {
	Title         string   `json:"title"`
	AvgHourlyRate *float64 `json:"avg_hourly_rate"`
	Country       *string  `json:"country"`
	JobType       *string  `json:"job_type"`
}

// JobRecord is a normalized job listing. Every field is set.
type JobRecord struct {
	Title         string  `json:"title"`
	AvgHourlyRate float64 `json:"avg_hourly_rate"`
	Country       string  `json:"country"`
	JobType       string  `json:"job_type"`
}

// Match is a corpus record ranked against a query.
// Index is the record's position in the corpus and breaks score ties.
type Match struct {
	Job   JobRecord
	Index int
	Score float64
}

// Embedder converts free text into a term-weighted vector over a fixed vocabulary.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float64, error)
	Transform(texts []string) ([][]float64, error)
}

// Tokenizer splits text into the terms an Embedder weighs.
type Tokenizer interface {
	Tokenize(text string) []string
}

// VectorStore holds title vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(jobs []JobRecord, vectors [][]float64) error
	Search(vector []float64, topK int) ([]Match, error)
	Clear() error
}
