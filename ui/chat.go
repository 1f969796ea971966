// Package ui is the terminal chat front end for the print analytics agent.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"printlab/agent"
	"printlab/logging"
	"printlab/storage"
	"printlab/tools"
)

// ChatView is the bubbletea model for the chat screen.
type ChatView struct {
	agent   *agent.Agent
	dbPath  string
	version string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	entries  []entry
	thinking bool
	status   string
	showHelp bool

	stats    *storage.Stats
	statsErr error

	showSamples bool
	samples     []tools.SampleQuery
	sampleIdx   int

	// copyFn is clipboard.WriteAll outside tests.
	copyFn func(string) error
}

func NewChatView(a *agent.Agent, dbPath, version string) ChatView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your prints, e.g. \"Which printer fails most?\""
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)
	// Enter sends; Alt+Enter inserts a newline.
	ta.KeyMap.InsertNewline = keys.Newline
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = assistantStyle

	return ChatView{
		agent:    a,
		dbPath:   dbPath,
		version:  version,
		viewport: viewport.New(0, 0),
		textarea: ta,
		spinner:  sp,
		samples:  tools.SampleQueries(),
		copyFn:   clipboard.WriteAll,
	}
}

func (c ChatView) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, c.loadStats())
}

func (c ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		c.textarea.SetWidth(msg.Width - 2)
		c.viewport.Width = msg.Width
		c.viewport.Height = c.viewportHeight()
		c.ready = true
		c.refreshViewport(true)
		return c, c.rerenderAll()

	case tea.KeyMsg:
		return c.handleKey(msg)

	case answerMsg:
		c.thinking = false
		c.status = fmt.Sprintf("Answered in %s", msg.duration.Round(100*time.Millisecond))
		c.entries = append(c.entries, entry{kind: entryAssistant, content: msg.text, timestamp: time.Now()})
		c.refreshViewport(true)
		return c, tea.Batch(c.renderAsync(len(c.entries)-1), c.loadStats())

	case chatErrorMsg:
		c.thinking = false
		c.status = ""
		c.entries = append(c.entries, entry{kind: entryError, content: msg.err.Error(), timestamp: time.Now()})
		c.refreshViewport(true)
		return c, nil

	case markdownRenderedMsg:
		if msg.index >= 0 && msg.index < len(c.entries) {
			c.entries[msg.index].rendered = msg.rendered
			c.refreshViewport(false)
		}
		return c, nil

	case statsLoadedMsg:
		c.stats, c.statsErr = msg.stats, msg.err
		return c, nil

	case spinner.TickMsg:
		if !c.thinking {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		c.refreshViewport(false)
		return c, cmd
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

func (c ChatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.showHelp {
		c.showHelp = false
		return c, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if c.showSamples && msg.String() == "esc" {
			c.showSamples = false
			return c, nil
		}
		return c, tea.Quit

	case key.Matches(msg, keys.Help):
		c.showHelp = true
		return c, nil

	case key.Matches(msg, keys.Samples):
		c.showSamples = !c.showSamples
		c.sampleIdx = 0
		c.filterSamples()
		c.viewport.Height = c.viewportHeight()
		return c, nil

	case key.Matches(msg, keys.Reset):
		if c.thinking {
			return c, nil
		}
		c.agent.Reset()
		c.entries = nil
		c.status = "Chat cleared"
		c.refreshViewport(true)
		return c, nil

	case key.Matches(msg, keys.Copy):
		c.status = c.copyLastAnswer()
		return c, nil

	case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd

	case c.showSamples && key.Matches(msg, keys.Up):
		if c.sampleIdx > 0 {
			c.sampleIdx--
		}
		return c, nil

	case c.showSamples && key.Matches(msg, keys.Down):
		if c.sampleIdx < len(c.samples)-1 {
			c.sampleIdx++
		}
		return c, nil

	case key.Matches(msg, keys.Send):
		text := strings.TrimSpace(c.textarea.Value())
		if c.showSamples && len(c.samples) > 0 {
			text = c.samples[c.sampleIdx].Text
			c.showSamples = false
			c.viewport.Height = c.viewportHeight()
		}
		return c.submit(text)
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	if c.showSamples {
		c.sampleIdx = 0
		c.filterSamples()
	}
	return c, cmd
}

// submit starts a turn. Only one turn runs at a time since the agent's
// history is not safe for concurrent use.
func (c ChatView) submit(text string) (tea.Model, tea.Cmd) {
	if text == "" || c.thinking {
		return c, nil
	}
	c.textarea.Reset()
	c.thinking = true
	c.status = ""
	c.entries = append(c.entries, entry{kind: entryUser, content: text, timestamp: time.Now()})
	c.refreshViewport(true)
	return c, tea.Batch(c.spinner.Tick, c.ask(text))
}

func (c ChatView) ask(text string) tea.Cmd {
	a := c.agent
	return func() tea.Msg {
		start := time.Now()
		answer, err := a.Chat(context.Background(), text)
		if err != nil {
			logging.Named("ui").Error("Chat failed", zap.Error(err))
			return chatErrorMsg{err: err}
		}
		return answerMsg{text: answer, duration: time.Since(start)}
	}
}

func (c ChatView) loadStats() tea.Cmd {
	path := c.dbPath
	return func() tea.Msg {
		stats, err := storage.LoadStats(context.Background(), path)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (c ChatView) renderAsync(index int) tea.Cmd {
	if index < 0 || index >= len(c.entries) || c.entries[index].kind != entryAssistant {
		return nil
	}
	content, width := c.entries[index].content, c.width
	return func() tea.Msg {
		return markdownRenderedMsg{index: index, rendered: renderMarkdown(content, width)}
	}
}

// rerenderAll re-renders every answer after a resize.
func (c ChatView) rerenderAll() tea.Cmd {
	var cmds []tea.Cmd
	for i := range c.entries {
		if cmd := c.renderAsync(i); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (c *ChatView) filterSamples() {
	c.samples = tools.MatchSamples(strings.TrimSpace(c.textarea.Value()))
	if c.sampleIdx >= len(c.samples) {
		c.sampleIdx = 0
	}
}

func (c *ChatView) copyLastAnswer() string {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].kind != entryAssistant {
			continue
		}
		if err := c.copyFn(c.entries[i].content); err != nil {
			return "Copy failed: " + err.Error()
		}
		return "Copied last answer"
	}
	return "Nothing to copy yet"
}

func (c *ChatView) refreshViewport(gotoBottom bool) {
	if !c.ready {
		return
	}
	c.viewport.SetContent(c.transcript())
	if gotoBottom {
		c.viewport.GotoBottom()
	}
}

func (c ChatView) transcript() string {
	if len(c.entries) == 0 {
		return dimStyle.Render("No messages yet. Ask about your print history, or press Ctrl+O for samples.")
	}

	var b strings.Builder
	for _, e := range c.entries {
		ts := dimStyle.Render(e.timestamp.Format("[15:04]"))
		switch e.kind {
		case entryUser:
			b.WriteString(ts + " " + userStyle.Render("You") + "\n")
			b.WriteString(wordWrapWithIndent(e.content, dimStyle.Render("│ "), c.width-2))
		case entryAssistant:
			b.WriteString(ts + " " + assistantStyle.Render("Assistant") + "\n")
			body := e.rendered
			if body == "" {
				body = wordWrapWithIndent(e.content, "", c.width-2)
			}
			b.WriteString(body + "\n")
		case entryError:
			b.WriteString(ts + " " + errorStyle.Render("Error") + "\n")
			b.WriteString(wordWrapWithIndent(e.content, "", c.width-2))
		}
		b.WriteString("\n")
	}
	if c.thinking {
		b.WriteString(c.spinner.View() + " " + dimStyle.Render("Querying your print log...") + "\n")
	}
	return b.String()
}

const (
	headerLines = 2
	footerLines = 1
	inputLines  = 3
)

func (c ChatView) viewportHeight() int {
	h := c.height - headerLines - footerLines - inputLines - 1
	if c.showSamples {
		h -= len(tools.SampleQueries()) + 2
	}
	return max(h, 3)
}

func (c ChatView) View() string {
	if !c.ready {
		return "Loading..."
	}
	if c.showHelp {
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, c.renderHelp())
	}

	parts := []string{c.header(), c.viewport.View()}
	if c.showSamples {
		parts = append(parts, c.renderSamples())
	}
	parts = append(parts, c.textarea.View(), c.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c ChatView) header() string {
	title := titleStyle.Render("printlab") + dimStyle.Render(" "+c.version+" · "+c.agent.Model())
	return title + "\n" + dimStyle.Render(formatStats(c.stats, c.statsErr))
}

func (c ChatView) footer() string {
	left := keyHints("Enter", "Send", "Ctrl+O", "Samples", "Ctrl+Y", "Copy", "Ctrl+R", "Clear", "F1", "Help", "Esc", "Quit")
	if c.status == "" {
		return left
	}
	return left + "  " + selectedStyle.Render(c.status)
}

func (c ChatView) renderSamples() string {
	if len(c.samples) == 0 {
		return samplesBoxStyle.Render(dimStyle.Render("No sample matches"))
	}
	lines := make([]string, len(c.samples))
	for i, s := range c.samples {
		text := runewidth.Truncate(s.Text, max(c.width-runewidth.StringWidth(s.Label)-10, 10), "…")
		line := fmt.Sprintf("%s  %s", s.Label, dimStyle.Render(text))
		if i == c.sampleIdx {
			line = selectedStyle.Render("> " + s.Label)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	return samplesBoxStyle.Render(strings.Join(lines, "\n"))
}

func (c ChatView) renderHelp() string {
	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	bindings := []key.Binding{keys.Send, keys.Newline, keys.Samples, keys.Copy, keys.Reset, keys.PageUp, keys.PageDown, keys.Help, keys.Quit}
	lines := []string{green.Render("printlab - Keyboard Shortcuts"), "", blue.Render("## Chat")}
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("• %-10s %s", h.Key, h.Desc))
	}
	lines = append(lines, "", blue.Render("## Tips"),
		"• Answers come from your print_jobs table; the assistant only reads data.",
		"• Type in the box while samples are open to filter them.",
		"", dimStyle.Render("Press any key to close"))
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

// formatStats renders the dashboard line shown under the title.
func formatStats(s *storage.Stats, err error) string {
	if err != nil {
		return "No print data yet (run: printlab seed)"
	}
	if s == nil {
		return "Loading stats..."
	}
	return fmt.Sprintf("%d prints · %.1f%% success · %.2f kg filament · %.1f h printing · $%.2f spent",
		s.TotalPrints, s.SuccessRate, s.TotalKg, s.TotalHours, s.TotalCost)
}
