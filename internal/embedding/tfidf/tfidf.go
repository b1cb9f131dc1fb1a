package tfidf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"jobmarket/internal/schemas"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// scikit-learn's default pattern uses Python-only syntax; it maps to DefaultTokenPattern.
const sklearnTokenPattern = `(?u)\b\w\w+\b`

// Artifact is the serialized form of a fitted vectorizer.
type Artifact struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
}

// Embedder implements a TF-IDF vectorizer with smoothed IDF and L2-normalized output.
// The vocabulary is fixed once prepared or loaded.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	lowercase    bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder with the default stopword list.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocabulary:   make(map[string]int),
		lowercase:    true,
		tokenPattern: regexp.MustCompile(DefaultTokenPattern),
		stopwords:    DefaultStopwords(),
	}
}

// Load reads a fitted vectorizer from a JSON artifact.
func Load(path string) (*Embedder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.Model, data); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return FromArtifact(a)
}

// FromArtifact builds a prepared embedder from a decoded artifact.
func FromArtifact(a Artifact) (*Embedder, error) {
	if len(a.Vocabulary) == 0 {
		return nil, errors.New("model has an empty vocabulary")
	}
	if len(a.Vocabulary) != len(a.IDF) {
		return nil, fmt.Errorf("model vocabulary has %d terms but %d idf weights", len(a.Vocabulary), len(a.IDF))
	}
	seen := make([]bool, len(a.IDF))
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.IDF) {
			return nil, fmt.Errorf("term %q has out-of-range index %d", term, idx)
		}
		if seen[idx] {
			return nil, fmt.Errorf("index %d assigned to more than one term", idx)
		}
		seen[idx] = true
	}

	pattern := a.TokenPattern
	if pattern == "" || pattern == sklearnTokenPattern {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	e := &Embedder{
		vocabulary:   make(map[string]int, len(a.Vocabulary)),
		idf:          append([]float64(nil), a.IDF...),
		dimension:    len(a.IDF),
		prepared:     true,
		lowercase:    a.Lowercase == nil || *a.Lowercase,
		tokenPattern: re,
		stopwords:    make(map[string]struct{}, len(a.StopWords)),
	}
	for term, idx := range a.Vocabulary {
		e.vocabulary[term] = idx
	}
	for _, w := range a.StopWords {
		e.stopwords[w] = struct{}{}
	}
	return e, nil
}

// Artifact returns the serializable form of a prepared embedder.
func (e *Embedder) Artifact() Artifact {
	vocab := make(map[string]int, len(e.vocabulary))
	for term, idx := range e.vocabulary {
		vocab[term] = idx
	}
	stop := make([]string, 0, len(e.stopwords))
	for w := range e.stopwords {
		stop = append(stop, w)
	}
	sort.Strings(stop)
	lower := e.lowercase
	return Artifact{
		Vocabulary:   vocab,
		IDF:          append([]float64(nil), e.idf...),
		TokenPattern: e.tokenPattern.String(),
		Lowercase:    &lower,
		StopWords:    stop,
	}
}

// Save writes the embedder as a JSON artifact, creating directories as needed.
func (e *Embedder) Save(path string) error {
	if !e.prepared {
		return errors.New("tfidf embedder not prepared")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(e.Artifact(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.Tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	N := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// VocabularySize reports how many terms the model knows.
func (e *Embedder) VocabularySize() int { return len(e.vocabulary) }

// Embed computes the TF-IDF vector for the given text.
// Text sharing no term with the vocabulary yields the zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.Tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = tfv * e.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Transform embeds each text in order.
func (e *Embedder) Transform(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Tokenize splits text into terms, dropping stopwords.
func (e *Embedder) Tokenize(text string) []string {
	if e.lowercase {
		text = strings.ToLower(text)
	}
	raw := e.tokenPattern.FindAllString(text, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DefaultStopwords returns a fresh set of the English stopwords dropped by
// NewEmbedder.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
