// Package tui is a terminal command palette over the site's posts. It drives
// the same search controller the web search page uses, with an in-memory
// address bar standing in for the browser's.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eringen/folio/search"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	footerStyle   = lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("8"))
	listStyle     = lipgloss.NewStyle().MarginTop(1)
)

// maxRows caps how many posts the list shows at once.
const maxRows = 10

// Model is the bubbletea model of the palette.
type Model struct {
	input    textinput.Model
	ctl      *search.Controller
	loc      *search.Location
	posts    []search.PostRecord
	cursor   int
	selected *search.PostRecord
	quit     bool
}

// New builds a palette over posts. startURL seeds the address bar, so a
// shareable search URL restores its query.
func New(posts []search.PostRecord, engine search.Engine, startURL string) (Model, error) {
	loc, err := search.NewLocation(startURL)
	if err != nil {
		return Model{}, fmt.Errorf("palette: %w", err)
	}
	ctl := search.NewController(engine, loc)
	ctl.Initialize()

	ti := textinput.New()
	ti.Placeholder = "Search for anything..."
	ti.Prompt = "> "
	ti.SetValue(ctl.Query())
	ti.SetCursor(ctl.Cursor())
	ti.Focus()

	return Model{input: ti, ctl: ctl, loc: loc, posts: posts}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Items are the rows on screen: the results of the current query, or every
// post when nothing matched.
func (m Model) Items() []search.PostRecord {
	if r := m.ctl.Results(); len(r) > 0 {
		return r
	}
	return m.posts
}

// URL is the shareable address of the current query.
func (m Model) URL() string {
	return m.loc.String()
}

// Selected returns the post chosen with enter, if any.
func (m Model) Selected() (search.PostRecord, bool) {
	if m.selected == nil {
		return search.PostRecord{}, false
	}
	return *m.selected, true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			items := m.Items()
			if m.cursor < len(items) {
				sel := items[m.cursor]
				m.selected = &sel
			}
			m.quit = true
			return m, tea.Quit
		case "down", "tab", "ctrl+n":
			if m.cursor < len(m.Items())-1 {
				m.cursor++
			}
			return m, nil
		case "up", "shift+tab", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.ctl.SetQuery(v)
		m.cursor = 0
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	var rows []string
	if m.ctl.Searched() {
		n := len(m.ctl.Results())
		noun := "results"
		if n == 1 {
			noun = "result"
		}
		rows = append(rows, dimStyle.Render(fmt.Sprintf("Found %d %s for '%s'", n, noun, m.ctl.Query())))
	}
	items := m.Items()
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	for i := start; i < len(items) && i < start+maxRows; i++ {
		p := items[i]
		line := titleStyle.Render(p.Title)
		if tags := p.TagString(); tags != "" {
			line += " " + dimStyle.Render("#"+strings.ReplaceAll(tags, ",", " #"))
		}
		if i == m.cursor {
			line = selectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	b.WriteString(listStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.URL()))
	return b.String()
}

// Run shows the palette and returns the chosen post.
func Run(posts []search.PostRecord, engine search.Engine, startURL string) (search.PostRecord, bool, error) {
	m, err := New(posts, engine, startURL)
	if err != nil {
		return search.PostRecord{}, false, err
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return search.PostRecord{}, false, fmt.Errorf("palette: %w", err)
	}
	p, ok := final.(Model).Selected()
	return p, ok, nil
}
