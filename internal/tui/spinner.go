package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/qtui/internal/debuglog"
)

// FrameInterval is how long each spinner glyph stays up.
const FrameInterval = 100 * time.Millisecond

// spinnerFrames is the 10-glyph braille cycle.
var spinnerFrames = spinner.MiniDot.Frames

// Work is a blocking job run behind a spinner. It should return promptly
// once ctx is cancelled.
type Work[T any] func(ctx context.Context) (T, error)

type workResult[T any] struct {
	value T
	err   error
}

type spinnerTickMsg struct{}

// frameIndex depends only on elapsed time, so late ticks never slow the
// animation down.
func frameIndex(elapsed time.Duration, frames int) int {
	if frames <= 0 || elapsed < 0 {
		return 0
	}
	return int(elapsed/FrameInterval) % frames
}

// Spinner runs one Work on its own goroutine and animates until it
// returns. Cancelling stops waiting and cancels the job's context; the
// job's eventual result lands in a buffered channel nobody reads.
type Spinner[T any] struct {
	finisher[T]
	title   string
	work    Work[T]
	parent  context.Context
	cancel  context.CancelFunc
	results chan workResult[T]
	started time.Time
	now     func() time.Time
	width   int
	keys    spinnerKeyMap
	help    help.Model
}

func NewSpinner[T any](ctx context.Context, title string, work Work[T]) *Spinner[T] {
	return &Spinner[T]{
		title:  title,
		work:   work,
		parent: ctx,
		now:    time.Now,
		keys:   newSpinnerKeyMap(),
		help:   newHelp(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

// Init starts the worker. Calling it twice does not start a second one.
func (s *Spinner[T]) Init() tea.Cmd {
	if s.results != nil {
		return tick()
	}

	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.results = make(chan workResult[T], 1)
	s.started = s.now()

	go func(out chan<- workResult[T]) {
		var res workResult[T]
		defer func() {
			if r := recover(); r != nil {
				debuglog.Errorf("%s: worker panic: %v", s.title, r)
				res = workResult[T]{err: fmt.Errorf("panic: %v", r)}
			}
			out <- res
		}()
		res.value, res.err = s.work(ctx)
	}(s.results)

	return tick()
}

func (s *Spinner[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.done {
		return s, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Quit):
			s.stop()
			return s, s.finish(Result[T]{Outcome: Interrupted})
		case key.Matches(msg, s.keys.Cancel):
			s.stop()
			return s, s.finish(Result[T]{Outcome: Cancelled})
		}
	case spinnerTickMsg:
		select {
		case res := <-s.results:
			s.stop()
			if res.err != nil {
				debuglog.Warnf("%s: %v", s.title, res.err)
				return s, s.finish(Result[T]{Outcome: Failed})
			}
			return s, s.finish(Result[T]{Outcome: Selected, Value: res.value})
		default:
			return s, tick()
		}
	}
	return s, nil
}

func (s *Spinner[T]) stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Spinner[T]) Title() string { return s.title }

// Elapsed is the time since Init.
func (s *Spinner[T]) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return s.now().Sub(s.started)
}

func (s *Spinner[T]) View() string {
	if s.done {
		return ""
	}

	frame := spinnerFrames[frameIndex(s.Elapsed(), len(spinnerFrames))]

	var b strings.Builder
	b.WriteString(SpinnerStyle.Render(frame))
	b.WriteString(" ")
	b.WriteString(HeaderStyle.Render(s.title))
	b.WriteString(" ")
	b.WriteString(renderMuted(fmt.Sprintf("%.1fs", s.Elapsed().Seconds())))
	b.WriteString("\n\n")
	b.WriteString(s.help.View(s.keys))
	return b.String()
}
