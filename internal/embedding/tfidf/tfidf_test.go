package tfidf

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestEmbedder_PrepareAndEmbed(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Go Developer", "Python Developer", "Data Analyst"}))

	// analyst, data, developer, go, python
	assert.Equal(t, 5, e.Dimension())

	vec, err := e.Embed("senior go engineer")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, norm(vec), 1e-9)
	assert.InDelta(t, 1.0, vec[e.vocabulary["go"]], 1e-9)

	// developer appears in two titles, so it weighs less than go
	vec, err = e.Embed("go developer")
	require.NoError(t, err)
	assert.Greater(t, vec[e.vocabulary["go"]], vec[e.vocabulary["developer"]])
}

func TestEmbedder_UnknownTextIsZero(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Go Developer"}))

	for _, text := range []string{"", "   ", "plumber", "the and of"} {
		vec, err := e.Embed(text)
		require.NoError(t, err)
		assert.Len(t, vec, e.Dimension())
		assert.Zero(t, norm(vec), "text %q", text)
	}
}

func TestEmbedder_VocabularyFixedAfterPrepare(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Go Developer"}))
	_, err := e.Embed("kubernetes operator")
	require.NoError(t, err)
	assert.Equal(t, 2, e.VocabularySize())
}

func TestEmbedder_NotPrepared(t *testing.T) {
	_, err := NewEmbedder().Embed("go")
	assert.EqualError(t, err, "tfidf embedder not prepared")
	assert.Error(t, NewEmbedder().Prepare(nil))
}

func TestTransform_PreservesOrder(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Go Developer", "Data Analyst"}))

	vecs, err := e.Transform([]string{"analyst", "go"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDelta(t, 1.0, vecs[0][e.vocabulary["analyst"]], 1e-9)
	assert.InDelta(t, 1.0, vecs[1][e.vocabulary["go"]], 1e-9)
}

func TestFromArtifact(t *testing.T) {
	lower := false
	tests := []struct {
		name    string
		a       Artifact
		wantErr string
	}{
		{"empty vocabulary", Artifact{}, "model has an empty vocabulary"},
		{"length mismatch", Artifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1, 2}}, "model vocabulary has 1 terms but 2 idf weights"},
		{"index out of range", Artifact{Vocabulary: map[string]int{"go": 3}, IDF: []float64{1}}, `term "go" has out-of-range index 3`},
		{"duplicate index", Artifact{Vocabulary: map[string]int{"go": 0, "rust": 0}, IDF: []float64{1, 1}}, "index 0 assigned to more than one term"},
		{"bad pattern", Artifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, TokenPattern: "(?P<"}, "compile token pattern"},
		{"sklearn pattern", Artifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, TokenPattern: `(?u)\b\w\w+\b`}, ""},
		{"case sensitive", Artifact{Vocabulary: map[string]int{"Go": 0}, IDF: []float64{1}, Lowercase: &lower}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := FromArtifact(tt.a)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, e.Dimension())
		})
	}
}

func TestFromArtifact_CaseSensitive(t *testing.T) {
	lower := false
	e, err := FromArtifact(Artifact{Vocabulary: map[string]int{"Go": 0}, IDF: []float64{1}, Lowercase: &lower})
	require.NoError(t, err)

	vec, err := e.Embed("go")
	require.NoError(t, err)
	assert.Zero(t, vec[0])

	vec, err = e.Embed("Go")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vec[0], 1e-9)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"Remote Go Developer", "Data Analyst", "Go Team Lead"}))

	path := filepath.Join(t.TempDir(), "models", "tfidf.json")
	require.NoError(t, e.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, e.Dimension(), loaded.Dimension())

	want, err := e.Embed("remote go lead")
	require.NoError(t, err)
	got, err := loaded.Embed("remote go lead")
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)
	assert.Equal(t, e.Tokenize("the go lead"), loaded.Tokenize("the go lead"))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"vocabulary":{"go":"zero"},"idf":[1]}`), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	e := NewEmbedder()
	assert.Equal(t, []string{"senior", "go", "developer", "c3"}, e.Tokenize("Senior Go Developer, a C3 of"))
	assert.Nil(t, e.Tokenize("!!"))
}

func TestDefaultStopwords_ReturnsCopy(t *testing.T) {
	words := DefaultStopwords()
	assert.Contains(t, words, "the")
	delete(words, "the")

	assert.Contains(t, DefaultStopwords(), "the")
	assert.Empty(t, NewEmbedder().Tokenize("the"))
}
