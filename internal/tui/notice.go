package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type noticeTimeoutMsg struct{}

// Notice is a modal message. With a timeout it dismisses itself; without
// one it waits for a key.
type Notice struct {
	finisher[struct{}]
	kind    StatusKind
	title   string
	message string
	timeout time.Duration
	width   int
}

func NewNotice(kind StatusKind, title, message string, timeout time.Duration) *Notice {
	return &Notice{
		kind:    kind,
		title:   title,
		message: message,
		timeout: timeout,
	}
}

func (n *Notice) Kind() StatusKind { return n.kind }
func (n *Notice) Title() string    { return n.title }
func (n *Notice) Message() string  { return n.message }

func (n *Notice) Init() tea.Cmd {
	if n.timeout <= 0 {
		return nil
	}
	return tea.Tick(n.timeout, func(time.Time) tea.Msg { return noticeTimeoutMsg{} })
}

func (n *Notice) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if n.done {
		return n, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		n.width = msg.Width
	case noticeTimeoutMsg:
		return n, n.finish(Result[struct{}]{Outcome: Selected})
	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			return n, n.finish(Result[struct{}]{Outcome: Interrupted})
		}
		return n, n.finish(Result[struct{}]{Outcome: Selected})
	}
	return n, nil
}

func (n *Notice) View() string {
	if n.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(n.kind.Style().Bold(true).Render(n.title))
	if n.message != "" {
		msg := n.message
		if n.width > 12 {
			msg = truncateMiddle(msg, n.width-12)
		}
		b.WriteString("\n\n")
		b.WriteString(ItemStyle.Render(msg))
	}
	if n.timeout <= 0 {
		b.WriteString("\n\n")
		b.WriteString(renderHelp(MsgPressAnyKey))
	}
	return renderPanel(n.kind, b.String())
}
