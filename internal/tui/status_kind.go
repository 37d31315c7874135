package tui

import "github.com/charmbracelet/lipgloss"

// StatusKind indicates severity for notices.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) Style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

func (k StatusKind) Color() lipgloss.Color {
	switch k {
	case StatusSuccess:
		return SuccessColor
	case StatusWarn:
		return WarnColor
	case StatusError:
		return ErrorColor
	default:
		return MutedColor
	}
}
