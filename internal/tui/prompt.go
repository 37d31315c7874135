package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/qtui/internal/validation"
)

const defaultErrorDelay = time.Second

// promptResetMsg ends the error display started by rejection seq.
type promptResetMsg struct{ seq int }

// Prompt asks for one line of text. Input that fails the validator is
// answered with a short error, then the prompt starts over from def.
type Prompt struct {
	finisher[string]
	title      string
	def        string
	validate   validation.Validator
	input      textinput.Model
	errMsg     string
	seq        int
	errorDelay time.Duration
	width      int
	keys       promptKeyMap
	help       help.Model
}

func NewPrompt(title, def string, validate validation.Validator) *Prompt {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Width = 48
	ti.SetValue(def)
	ti.CursorEnd()
	ti.Focus()

	return &Prompt{
		title:      title,
		def:        def,
		validate:   validate,
		input:      ti,
		errorDelay: defaultErrorDelay,
		keys:       newPromptKeyMap(),
		help:       newHelp(),
	}
}

// WithErrorDelay changes how long a rejection stays on screen.
func (p *Prompt) WithErrorDelay(d time.Duration) *Prompt {
	p.errorDelay = d
	return p
}

func (p *Prompt) Title() string { return p.title }

// Value is the current buffer.
func (p *Prompt) Value() string { return p.input.Value() }

// Rejected reports whether the error message is showing.
func (p *Prompt) Rejected() bool { return p.errMsg != "" }

func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p *Prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.done {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.help.Width = msg.Width
		return p, nil

	case promptResetMsg:
		if msg.seq == p.seq && p.errMsg != "" {
			p.errMsg = ""
			p.input.SetValue(p.def)
			p.input.CursorEnd()
			return p, p.input.Focus()
		}
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, p.keys.Quit) {
			return p, p.finish(Result[string]{Outcome: Interrupted})
		}
		if p.errMsg != "" {
			// input is hidden until the reset tick
			return p, nil
		}

		value := p.input.Value()
		atEnd := p.input.Position() >= len([]rune(value))

		switch {
		case key.Matches(msg, p.keys.Confirm):
			return p, p.submit()
		case key.Matches(msg, p.keys.Cancel):
			return p, p.finish(Result[string]{Outcome: Cancelled})
		case msg.Type == tea.KeyBackspace && value == "":
			return p, p.finish(Result[string]{Outcome: Cancelled})
		case msg.Type == tea.KeyLeft && value == "":
			return p, p.finish(Result[string]{Outcome: Cancelled})
		case msg.Type == tea.KeyRight && atEnd:
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Prompt) submit() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())
	if p.validate != nil && !p.validate(value) {
		p.seq++
		p.errMsg = "Invalid input: " + value
		p.input.Blur()
		seq := p.seq
		return tea.Tick(p.errorDelay, func(time.Time) tea.Msg {
			return promptResetMsg{seq: seq}
		})
	}
	return p.finish(Result[string]{Outcome: Selected, Value: value})
}

func (p *Prompt) View() string {
	if p.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader(p.title, "", p.width))
	b.WriteString("\n\n")
	if p.errMsg != "" {
		b.WriteString(StatusErrorStyle.Render(p.errMsg))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(renderInputFrame(p.input.View(), AccentColor, p.input.Width))
	b.WriteString("\n")
	b.WriteString(p.help.View(p.keys))
	return b.String()
}
