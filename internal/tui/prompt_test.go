package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qtui/internal/validation"
)

func TestPrompt_SubmitTrimmed(t *testing.T) {
	p := NewPrompt("Documentary title", "", validation.NonEmpty)
	send(p, "  planet earth  ", "enter")

	res := p.Result()
	require.Equal(t, Selected, res.Outcome)
	assert.Equal(t, "planet earth", res.Value)
}

func TestPrompt_DefaultIsEditable(t *testing.T) {
	p := NewPrompt("IMDb ID", "tt", validation.IMDbID)
	assert.Equal(t, "tt", p.Value())

	send(p, "0133093", "enter")
	assert.Equal(t, Result[string]{Outcome: Selected, Value: "tt0133093"}, p.Result())
}

func TestPrompt_RightAtEndSubmits(t *testing.T) {
	p := NewPrompt("Season (optional)", "", validation.OptionalNumber)
	send(p, "3", "right")
	assert.Equal(t, Result[string]{Outcome: Selected, Value: "3"}, p.Result())
}

func TestPrompt_RightInsideTextMovesCursor(t *testing.T) {
	p := NewPrompt("Title", "", validation.NonEmpty)
	send(p, "dune", "left", "right")
	assert.False(t, p.Done())

	send(p, "right")
	assert.Equal(t, "dune", p.Result().Value)
}

func TestPrompt_CancelKeys(t *testing.T) {
	t.Run("esc", func(t *testing.T) {
		p := NewPrompt("Title", "anything", nil)
		send(p, "esc")
		assert.Equal(t, Cancelled, p.Result().Outcome)
	})

	t.Run("backspace on empty", func(t *testing.T) {
		p := NewPrompt("Title", "", nil)
		send(p, "a", "backspace")
		require.False(t, p.Done(), "first backspace only deletes")
		send(p, "backspace")
		assert.Equal(t, Cancelled, p.Result().Outcome)
	})

	t.Run("left on empty", func(t *testing.T) {
		p := NewPrompt("Title", "", nil)
		send(p, "left")
		assert.Equal(t, Cancelled, p.Result().Outcome)
	})

	t.Run("left with text", func(t *testing.T) {
		p := NewPrompt("Title", "tt", nil)
		send(p, "left")
		assert.False(t, p.Done())
	})
}

func TestPrompt_InvalidInputResets(t *testing.T) {
	p := NewPrompt("IMDb ID", "tt", validation.IMDbID)

	cmd := send(p, "x12", "enter")
	require.NotNil(t, cmd, "rejection schedules a reset")
	assert.False(t, p.Done())
	assert.True(t, p.Rejected())
	assert.Contains(t, p.View(), "Invalid input: ttx12")

	// keys are swallowed while the error shows
	send(p, "9", "enter")
	assert.False(t, p.Done())
	assert.Equal(t, "ttx12", p.Value())

	p.Update(promptResetMsg{seq: 1})
	assert.False(t, p.Rejected())
	assert.Equal(t, "tt", p.Value())

	send(p, "42", "enter")
	assert.Equal(t, Result[string]{Outcome: Selected, Value: "tt42"}, p.Result())
}

func TestPrompt_StaleResetIgnored(t *testing.T) {
	p := NewPrompt("IMDb ID", "tt", validation.IMDbID)
	send(p, "enter")
	p.Update(promptResetMsg{seq: 1})
	send(p, "enter")
	require.True(t, p.Rejected())

	p.Update(promptResetMsg{seq: 1})
	assert.True(t, p.Rejected(), "reset from the first rejection must not end the second")

	p.Update(promptResetMsg{seq: 2})
	assert.False(t, p.Rejected())
}

func TestPrompt_CtrlCDuringError(t *testing.T) {
	p := NewPrompt("IMDb ID", "tt", validation.IMDbID)
	send(p, "enter")
	require.True(t, p.Rejected())

	send(p, "ctrl+c")
	assert.Equal(t, Interrupted, p.Result().Outcome)
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt("IMDb ID", "tt", validation.IMDbID)
	view := p.View()
	assert.Contains(t, view, "IMDb ID")
	assert.Contains(t, view, "tt")

	send(p, "esc")
	assert.Empty(t, p.View())
}
