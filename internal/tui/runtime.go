package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/qtui/internal/debuglog"
)

// Outcome is how a widget ended.
type Outcome int

const (
	Selected Outcome = iota
	Cancelled
	Failed
	// Interrupted is ctrl+c; the app unwinds and exits 0.
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Result is what every widget hands back. Index is the position of the
// chosen entry for list widgets.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Index   int
}

func (r Result[T]) Ok() bool { return r.Outcome == Selected }

// Widget is a bubbletea model that finishes with a Result.
type Widget[T any] interface {
	tea.Model
	Result() Result[T]
	Done() bool
}

// Runner owns the terminal for the lifetime of one widget.
type Runner interface {
	Run(m tea.Model) (tea.Model, error)
}

// ProgramRunner runs each widget as its own tea.Program.
type ProgramRunner struct {
	Options []tea.ProgramOption
}

func (r ProgramRunner) Run(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, r.Options...).Run()
}

// finisher is embedded by widgets to record their result and quit.
type finisher[T any] struct {
	result Result[T]
	done   bool
}

func (f *finisher[T]) finish(r Result[T]) tea.Cmd {
	f.result = r
	f.done = true
	return tea.Quit
}

func (f *finisher[T]) Done() bool { return f.done }

// Result returns Cancelled for a widget that never finished.
func (f *finisher[T]) Result() Result[T] {
	if !f.done {
		return Result[T]{Outcome: Cancelled}
	}
	return f.result
}

func run[T any](r Runner, w Widget[T]) Result[T] {
	final, err := r.Run(w)
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return Result[T]{Outcome: Interrupted}
		}
		debuglog.Errorf("widget loop: %v", err)
		return Result[T]{Outcome: Failed}
	}
	if fw, ok := final.(Widget[T]); ok {
		return fw.Result()
	}
	return w.Result()
}
