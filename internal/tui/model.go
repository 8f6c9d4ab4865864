// Package tui is the terminal chat front-end.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/models"
)

const (
	Title       = "Blockchain Market AI"
	Placeholder = "Ask about crypto (e.g. 'ETH news' or 'BTC price')"

	defaultWrap = 80
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	userStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	assistantStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	placeholderStyle = lipgloss.NewStyle().Faint(true)
)

// Responder runs one conversation turn against a History.
type Responder interface {
	Respond(ctx context.Context, h chat.History, text string) (chat.Reply, error)
}

type Model struct {
	ctx     context.Context
	bot     Responder
	history *chat.Session

	input   []rune
	notices []string
	waiting bool
	width   int

	// md renders assistant answers, which are markdown.
	md *glamour.TermRenderer
}

func New(ctx context.Context, bot Responder) *Model {
	return &Model{ctx: ctx, bot: bot, history: chat.NewSession(), md: newMarkdown(defaultWrap)}
}

// newMarkdown returns nil when the renderer cannot be built; answers are
// then shown as plain text.
func newMarkdown(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

type replyMsg struct {
	reply chat.Reply
	err   error
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Width != m.width {
			m.width = msg.Width
			m.md = newMarkdown(msg.Width)
		}
		return m, nil

	case replyMsg:
		m.waiting = false
		m.notices = msg.reply.Notices
		if msg.err != nil {
			m.notices = append(m.notices, fmt.Sprintf("Error saving conversation: %v", msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(string(m.input))
		if text == "" || m.waiting {
			return m, nil
		}
		m.input = m.input[:0]
		m.notices = nil
		m.waiting = true
		return m, m.respondCmd(text)

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case tea.KeySpace:
		m.input = append(m.input, ' ')

	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *Model) respondCmd(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.bot.Respond(m.ctx, m.history, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n\n")

	msgs, _ := m.history.Messages(m.ctx)
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	for _, n := range m.notices {
		b.WriteString(noticeStyle.Render(n))
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(placeholderStyle.Render("Thinking..."))
		b.WriteString("\n")
	}

	b.WriteString("\n> ")
	if len(m.input) == 0 {
		b.WriteString(placeholderStyle.Render(Placeholder))
	} else {
		b.WriteString(string(m.input))
	}
	b.WriteString("\n\n")
	b.WriteString(placeholderStyle.Render("enter: send • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderMessage(msg models.ChatMessage) string {
	if msg.Role == models.RoleUser {
		return userStyle.Render("You:") + " " + msg.Content + "\n"
	}
	return assistantStyle.Render("AI:") + "\n" + m.renderMarkdown(msg.Content) + "\n"
}

func (m *Model) renderMarkdown(content string) string {
	if m.md != nil {
		if out, err := m.md.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return strings.TrimRight(content, "\n")
}
