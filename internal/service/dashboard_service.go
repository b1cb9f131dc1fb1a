package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobmarket/internal/corpus"
	"jobmarket/internal/domain"
	"jobmarket/internal/feedback"
	"jobmarket/internal/matcher"
	"jobmarket/internal/salary"
)

// ErrEmptyInput marks a request with blank text. It is an idle state, not a failure.
var ErrEmptyInput = errors.New("empty input")

// RemoteTerm selects the remote listings by title.
const RemoteTerm = "remote"

// Limits bounds the number of rows each section returns. A zero Recommend or
// SkillGap falls back to DefaultLimits; a zero Highlights shows none.
type Limits struct {
	Recommend  int
	SkillGap   int
	Highlights int
}

// DefaultLimits mirrors the dashboard sections: five recommendations, three skill matches.
var DefaultLimits = Limits{Recommend: 5, SkillGap: 3, Highlights: 3}

// JobRow is a listing ready for display.
type JobRow struct {
	domain.JobRecord
	Score  float64
	Salary string
}

// SkillGapResult pairs the best roles for a skill set with the skills those roles cover.
type SkillGapResult struct {
	Matches []JobRow
	Matched []string
	Missing []string
}

// ResumeResult is the single best role for a resume.
type ResumeResult struct {
	Job        domain.JobRecord
	Score      float64
	Salary     string
	Level      salary.Level
	Feedback   string
	Highlights []string
}

// Relevant reports whether the match shares any vocabulary with the resume.
func (r ResumeResult) Relevant() bool { return r.Score > 0 }

// resumeRequest is validated before analysis.
type resumeRequest struct {
	Text  string `validate:"required"`
	Level string `validate:"required,oneof=Fresher Mid-Level Senior"`
}

// DashboardService implements the dashboard operations over a read-only corpus.
type DashboardService struct {
	corpus      *corpus.Corpus
	matcher     *matcher.Matcher
	tokenizer   domain.Tokenizer
	formatter   *salary.Formatter
	highlighter *feedback.Highlighter
	limits      Limits
	validate    *validator.Validate
}

func NewDashboardService(c *corpus.Corpus, m *matcher.Matcher, tokenizer domain.Tokenizer, formatter *salary.Formatter, limits Limits) *DashboardService {
	if formatter == nil {
		formatter = salary.NewFormatter(nil)
	}
	if limits.Recommend <= 0 {
		limits.Recommend = DefaultLimits.Recommend
	}
	if limits.SkillGap <= 0 {
		limits.SkillGap = DefaultLimits.SkillGap
	}
	if limits.Highlights < 0 {
		limits.Highlights = 0
	}
	return &DashboardService{
		corpus:      c,
		matcher:     m,
		tokenizer:   tokenizer,
		formatter:   formatter,
		highlighter: feedback.NewHighlighter(),
		limits:      limits,
		validate:    validator.New(),
	}
}

// JobCount returns the corpus size.
func (s *DashboardService) JobCount() int { return s.corpus.Len() }

// Recommend returns the listings whose titles best match query, with salaries at Mid-Level.
func (s *DashboardService) Recommend(query string) ([]JobRow, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyInput
	}
	matches, err := s.matcher.Rank(query, s.limits.Recommend)
	if err != nil {
		return nil, err
	}
	return s.matchRows(matches), nil
}

// Countries returns the distinct countries of the corpus, sorted.
func (s *DashboardService) Countries() []string {
	return s.corpus.Countries()
}

// FilterByCountry returns the listings located exactly in country.
// An empty result means no jobs were found.
func (s *DashboardService) FilterByCountry(country string) []JobRow {
	return s.rows(s.corpus.ByCountry(country))
}

// RemoteJobs returns the listings whose title mentions remote work.
func (s *DashboardService) RemoteJobs() []JobRow {
	return s.rows(s.corpus.TitleContains(RemoteTerm))
}

// SkillGap matches comma-separated skills against titles and splits the skills
// into those the matched roles mention and those they do not.
func (s *DashboardService) SkillGap(skills string) (SkillGapResult, error) {
	if strings.TrimSpace(skills) == "" {
		return SkillGapResult{}, ErrEmptyInput
	}
	matches, err := s.matcher.Rank(skills, s.limits.SkillGap)
	if err != nil {
		return SkillGapResult{}, err
	}

	titleTerms := make(map[string]struct{})
	for _, m := range matches {
		if m.Score <= 0 {
			continue
		}
		for _, tok := range s.tokenizer.Tokenize(m.Job.Title) {
			titleTerms[tok] = struct{}{}
		}
	}

	res := SkillGapResult{Matches: s.matchRows(matches)}
	for _, skill := range SplitSkills(skills) {
		covered := false
		for _, tok := range s.tokenizer.Tokenize(skill) {
			if _, ok := titleTerms[tok]; ok {
				covered = true
				break
			}
		}
		if covered {
			res.Matched = append(res.Matched, skill)
		} else {
			res.Missing = append(res.Missing, skill)
		}
	}
	return res, nil
}

// AnalyzeResume finds the single best listing for resume text and prices it at level.
func (s *DashboardService) AnalyzeResume(text string, level salary.Level) (ResumeResult, error) {
	if strings.TrimSpace(text) == "" {
		return ResumeResult{}, ErrEmptyInput
	}
	if err := s.validate.Struct(resumeRequest{Text: text, Level: string(level)}); err != nil {
		return ResumeResult{}, fmt.Errorf("invalid resume request: %w", err)
	}
	best, ok, err := s.matcher.Best(text)
	if err != nil {
		return ResumeResult{}, err
	}
	if !ok {
		return ResumeResult{}, errors.New("corpus is empty")
	}
	return ResumeResult{
		Job:        best.Job,
		Score:      best.Score,
		Salary:     s.formatter.Format(best.Job.AvgHourlyRate, best.Job.Country, level),
		Level:      level,
		Feedback:   feedback.Message(best.Job.Title),
		Highlights: s.highlights(text, best.Job.Title),
	}, nil
}

func (s *DashboardService) highlights(resume, title string) []string {
	if s.limits.Highlights == 0 {
		return nil
	}
	return s.highlighter.Highlights(resume, title, s.limits.Highlights)
}

// SplitSkills splits a comma-separated list, trimming blanks.
func SplitSkills(skills string) []string {
	var out []string
	for _, part := range strings.Split(skills, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *DashboardService) matchRows(matches []domain.Match) []JobRow {
	out := make([]JobRow, len(matches))
	for i, m := range matches {
		out[i] = JobRow{
			JobRecord: m.Job,
			Score:     m.Score,
			Salary:    s.formatter.Format(m.Job.AvgHourlyRate, m.Job.Country, salary.MidLevel),
		}
	}
	return out
}

func (s *DashboardService) rows(jobs []domain.JobRecord) []JobRow {
	out := make([]JobRow, len(jobs))
	for i, j := range jobs {
		out[i] = JobRow{
			JobRecord: j,
			Salary:    s.formatter.Format(j.AvgHourlyRate, j.Country, salary.MidLevel),
		}
	}
	return out
}
