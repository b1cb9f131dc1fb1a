package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobmarket/internal/salary"
	"jobmarket/internal/service"
)

// DashboardPort is the TUI-facing subset of the dashboard service.
type DashboardPort interface {
	Recommend(query string) ([]service.JobRow, error)
	Countries() []string
	FilterByCountry(country string) []service.JobRow
	RemoteJobs() []service.JobRow
	SkillGap(skills string) (service.SkillGapResult, error)
	AnalyzeResume(text string, level salary.Level) (service.ResumeResult, error)
}

type section int

const (
	sectionSearch section = iota
	sectionCountry
	sectionRemote
	sectionSkills
	sectionResume
	sectionCount
)

var sectionTitles = [sectionCount]string{
	"Job Recommendation",
	"Jobs by Country",
	"Remote Jobs",
	"Skill Gap Analyzer",
	"Resume Feedback",
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	service   DashboardPort
	section   section
	search    textinput.Model
	skills    textinput.Model
	resume    textarea.Model
	viewport  viewport.Model
	countries []string
	country   int
	level     int
	status    string
	ready     bool
}

// New creates a new dashboard model instance.
func New(service DashboardPort) Model {
	search := textinput.New()
	search.Prompt = "> "
	search.Placeholder = "Enter job title or skill"
	search.Focus()

	skills := textinput.New()
	skills.Prompt = "> "
	skills.Placeholder = "Python, Excel, Machine Learning"

	resume := textarea.New()
	resume.Placeholder = "Paste your resume text here"
	resume.ShowLineNumbers = false

	m := Model{
		service:   service,
		search:    search,
		skills:    skills,
		resume:    resume,
		viewport:  viewport.New(0, 0),
		countries: service.Countries(),
		level:     1,
	}
	m.refresh()
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		inputLines := 3
		if m.section == sectionResume {
			inputLines = m.resume.Height() + 2
		}
		reserved := 3 + inputLines + 1 // header + tabs + status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.resume.SetWidth(max(20, msg.Width-4))
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			return m.switchTo((m.section + 1) % sectionCount)
		case "shift+tab":
			return m.switchTo((m.section + sectionCount - 1) % sectionCount)
		}
		switch m.section {
		case sectionSearch, sectionSkills:
			if msg.String() == "enter" {
				m.refresh()
				return m, nil
			}
		case sectionCountry:
			if n := len(m.countries); n > 0 {
				switch msg.String() {
				case "down", "right":
					m.country = (m.country + 1) % n
				case "up", "left":
					m.country = (m.country - 1 + n) % n
				}
			}
			m.refresh()
			return m, nil
		case sectionRemote:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case sectionResume:
			switch msg.String() {
			case "ctrl+l":
				m.level = (m.level + 1) % len(salary.Levels)
				m.status = "Experience level: " + string(salary.Levels[m.level])
				return m, nil
			case "ctrl+s":
				m.refresh()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	switch m.section {
	case sectionSearch:
		m.search, cmd = m.search.Update(msg)
	case sectionSkills:
		m.skills, cmd = m.skills.Update(msg)
	case sectionResume:
		m.resume, cmd = m.resume.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTo(s section) (tea.Model, tea.Cmd) {
	m.section = s
	m.search.Blur()
	m.skills.Blur()
	m.resume.Blur()
	var cmd tea.Cmd
	switch s {
	case sectionSearch:
		cmd = m.search.Focus()
	case sectionSkills:
		cmd = m.skills.Focus()
	case sectionResume:
		cmd = m.resume.Focus()
	}
	m.refresh()
	return m, cmd
}

// refresh recomputes the current section's content from the service.
func (m *Model) refresh() {
	var body string
	switch m.section {
	case sectionSearch:
		body, m.status = m.renderSearch()
	case sectionCountry:
		body, m.status = m.renderCountry()
	case sectionRemote:
		rows := m.service.RemoteJobs()
		if len(rows) == 0 {
			body, m.status = "", "No remote job listings found."
		} else {
			body, m.status = renderRows(rows, false), fmt.Sprintf("%d remote listings", len(rows))
		}
	case sectionSkills:
		body, m.status = m.renderSkills()
	case sectionResume:
		body, m.status = m.renderResume()
	}
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

func (m Model) renderSearch() (string, string) {
	q := strings.TrimSpace(m.search.Value())
	rows, err := m.service.Recommend(q)
	if errors.Is(err, service.ErrEmptyInput) {
		return "", "Enter a job title or skill to get personalized job recommendations."
	}
	if err != nil {
		return "", "Error: " + err.Error()
	}
	return renderRows(rows, true), fmt.Sprintf("Top recommended jobs for %q", q)
}

func (m Model) renderCountry() (string, string) {
	if len(m.countries) == 0 {
		return "", "No jobs found for this country."
	}
	country := m.countries[m.country]
	rows := m.service.FilterByCountry(country)
	if len(rows) == 0 {
		return "", "No jobs found for this country."
	}
	return renderRows(rows, false), fmt.Sprintf("%s (%d/%d) · up/down to change", country, m.country+1, len(m.countries))
}

func (m Model) renderSkills() (string, string) {
	res, err := m.service.SkillGap(m.skills.Value())
	if errors.Is(err, service.ErrEmptyInput) {
		return "", "Enter your skills (e.g., Python, Excel, Machine Learning) to analyze skill fit and missing gaps."
	}
	if err != nil {
		return "", "Error: " + err.Error()
	}
	var sb strings.Builder
	sb.WriteString(renderRows(res.Matches, true))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Covered: ") + strings.Join(res.Matched, ", "))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Missing: ") + strings.Join(res.Missing, ", "))
	return sb.String(), "Here are some roles that best match your skills."
}

func (m Model) renderResume() (string, string) {
	level := salary.Levels[m.level]
	res, err := m.service.AnalyzeResume(m.resume.Value(), level)
	if errors.Is(err, service.ErrEmptyInput) {
		return "", fmt.Sprintf("Paste your resume text, then ctrl+s to analyze (level %s, ctrl+l to change).", level)
	}
	if err != nil {
		return "", "Error: " + err.Error()
	}
	var sb strings.Builder
	sb.WriteString(highlightStyle.Render("Best Match: "+res.Job.Title) + "\n")
	sb.WriteString(labelStyle.Render("Expected Rate: ") + res.Salary + "\n")
	sb.WriteString(labelStyle.Render("Country: ") + res.Job.Country + "\n")
	sb.WriteString(labelStyle.Render("Job Type: ") + res.Job.JobType + "\n\n")
	sb.WriteString(res.Feedback)
	for _, h := range res.Highlights {
		sb.WriteString("\n  • " + h)
	}
	status := "Resume match result"
	if !res.Relevant() {
		status = "No vocabulary overlap; the match is not meaningful."
	}
	return sb.String(), status
}

// View renders the dashboard layout and current section.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Job Market Analysis & Recommendation")
	tabs := make([]string, sectionCount)
	for i := range tabs {
		style := tabStyle
		if section(i) == m.section {
			style = activeTabStyle
		}
		tabs[i] = style.Render(sectionTitles[i])
	}
	var input string
	switch m.section {
	case sectionSearch:
		input = queryBoxStyle.Render(m.search.View())
	case sectionSkills:
		input = queryBoxStyle.Render(m.skills.View())
	case sectionResume:
		input = queryBoxStyle.Render(m.resume.View())
	}
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	parts := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), results}
	if input != "" {
		parts = append(parts, input)
	}
	return strings.Join(append(parts, status), "\n")
}

func renderRows(rows []service.JobRow, withScore bool) string {
	if len(rows) == 0 {
		return "No results."
	}
	var sb strings.Builder
	head := fmt.Sprintf("%-40s %-16s %-22s %-20s", "Title", "Salary", "Country", "Job Type")
	if withScore {
		head += " Score"
	}
	sb.WriteString(labelStyle.Render(head))
	for _, r := range rows {
		line := fmt.Sprintf("%-40s %-16s %-22s %-20s", truncate(r.Title, 40), r.Salary, truncate(r.Country, 22), r.JobType)
		if withScore {
			line += fmt.Sprintf(" %.3f", r.Score)
		}
		sb.WriteString("\n" + line)
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
