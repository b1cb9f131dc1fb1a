package feedback

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"jobmarket/internal/embedding/tfidf"
)

// Message is the personalized note shown with a resume match.
func Message(title string) string {
	return fmt.Sprintf("Your profile aligns well with %s. Consider emphasizing key skills related to this role to improve job match quality.", title)
}

// Highlighter picks the resume sentences that speak to a matched role.
// Sentences are ranked by word frequency (stopwords filtered) across the resume.
type Highlighter struct {
	tokenPattern *regexp.Regexp
	sentencePat  *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewHighlighter creates a frequency-based sentence ranker.
func NewHighlighter() *Highlighter {
	return &Highlighter{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePat:  regexp.MustCompile(`(?m)(?U)([^.!?\n]+[.!?\n])`),
		stopwords:    tfidf.DefaultStopwords(),
	}
}

// Highlights returns up to maxSentences resume sentences sharing a term with
// title, in resume order. Sentences are chosen by frequency score.
func (h *Highlighter) Highlights(resume, title string, maxSentences int) []string {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	if strings.TrimSpace(resume) == "" {
		return nil
	}
	titleTerms := make(map[string]struct{})
	for _, tok := range h.tokens(title) {
		if _, ok := h.stopwords[tok]; !ok {
			titleTerms[tok] = struct{}{}
		}
	}
	if len(titleTerms) == 0 {
		return nil
	}

	var sentences []string
	for _, s := range h.sentencePat.FindAllString(resume+"\n", -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	// Compute word frequencies
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range h.tokens(sent) {
			if _, ok := h.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	// Normalize frequencies
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	var scores []pair
	for i, sent := range sentences {
		toks := h.tokens(sent)
		relevant := false
		sscore := 0.0
		for _, tok := range toks {
			if _, ok := titleTerms[tok]; ok {
				relevant = true
			}
			sscore += freq[tok]
		}
		if !relevant {
			continue
		}
		// Normalize by sentence length to avoid bias
		sscore /= math.Sqrt(float64(len(toks)))
		scores = append(scores, pair{i, sscore})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	// Keep original order among selected
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return out
}

func (h *Highlighter) tokens(text string) []string {
	return h.tokenPattern.FindAllString(strings.ToLower(text), -1)
}
