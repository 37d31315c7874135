package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type MenuItem[T any] struct {
	Label string
	Value T
}

// Menu is a vertical list of choices.
type Menu[T any] struct {
	finisher[T]
	title  string
	banner string
	items  []MenuItem[T]
	cursor int
	width  int
	keys   menuKeyMap
	help   help.Model
}

func NewMenu[T any](title string, items []MenuItem[T], allowBack bool) *Menu[T] {
	return &Menu[T]{
		title: title,
		items: items,
		keys:  newMenuKeyMap(allowBack),
		help:  newHelp(),
	}
}

// WithBanner puts banner above the title.
func (m *Menu[T]) WithBanner(banner string) *Menu[T] {
	m.banner = banner
	return m
}

func (m *Menu[T]) Title() string { return m.title }
func (m *Menu[T]) Cursor() int   { return m.cursor }

func (m *Menu[T]) Labels() []string {
	labels := make([]string, len(m.items))
	for i, item := range m.items {
		labels[i] = item.Label
	}
	return labels
}

func (m *Menu[T]) Init() tea.Cmd { return nil }

func (m *Menu[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.finish(Result[T]{Outcome: Interrupted})
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Confirm):
			if len(m.items) == 0 {
				return m, nil
			}
			return m, m.finish(Result[T]{Outcome: Selected, Value: m.items[m.cursor].Value, Index: m.cursor})
		case key.Matches(msg, m.keys.Back):
			return m, m.finish(Result[T]{Outcome: Cancelled})
		}
	}
	return m, nil
}

func (m *Menu[T]) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	if m.banner != "" {
		b.WriteString(m.banner)
		b.WriteString("\n\n")
	}
	b.WriteString(renderHeader(m.title, "", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		label := item.Label
		if m.width > 4 {
			label = truncateEnd(label, m.width-4)
		}
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("› " + label))
		} else {
			b.WriteString(ItemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
