package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// QueryPort is the TUI-facing subset of the retrieval engine.
type QueryPort interface {
	Index() *domain.PassageIndex
	Query(ctx context.Context, question string, idx *domain.PassageIndex, topK int) ([]domain.QueryResult, error)
}

// Model is the Bubble Tea model for the question/answer screen.
type Model struct {
	engine   QueryPort
	docName  string
	topK     int
	input    textinput.Model
	viewport viewport.Model
	results  []domain.QueryResult
	status   string
	cursor   int
	ready    bool
	lastQ    string
}

// New creates a new TUI model over a loaded document.
func New(engine QueryPort, docName string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		engine:  engine,
		docName: docName,
		topK:    topK,
		input:   ti, viewport: vp,
		status: fmt.Sprintf("Loaded %d passages. Type a question.", engine.Index().Len()),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.engine.Query(context.Background(), q, m.engine.Index(), m.topK)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.results = nil
				} else if len(res) == 0 {
					m.status = fmt.Sprintf("No passages matched %q", q)
					m.results = nil
				} else {
					m.status = fmt.Sprintf("Results for %q — best match on page %d", q, res[0].Passage.PageNumber)
					m.results = res
					m.cursor = 0
					m.lastQ = q
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docqa — " + m.docName)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  page %d [%d-%d]  score=%.3f",
		m.cursor+1, len(m.results), r.Passage.PageNumber,
		r.Passage.StartOffset, r.Passage.EndOffset, r.Score)
	body := highlightBestSentence(r.Passage.Text, m.lastQ)
	return pageBadgeStyle.Render(fmt.Sprintf("p.%d", r.Passage.PageNumber)) + " " + title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	pageBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	wordRe         = regexp.MustCompile(`\p{L}+`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence marks the sentence sharing the most words with the
// question.
func highlightBestSentence(text, question string) string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return text
	}
	qTokens := toTokenSet(question)
	if len(qTokens) == 0 {
		return text
	}
	bestIdx, bestScore := 0, -1
	for i, s := range sentences {
		score := 0
		for tok := range toTokenSet(s) {
			if _, ok := qTokens[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			bestScore, bestIdx = score, i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
