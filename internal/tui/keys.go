package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var quitKey = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "quit"),
)

type menuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func newMenuKeyMap(allowBack bool) menuKeyMap {
	km := menuKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Confirm: key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter/→", "select")),
		Back:    key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("←/backspace", "back")),
		Quit:    quitKey,
	}
	km.Back.SetEnabled(allowBack)
	return km
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Back, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type selectorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Sort     key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func newSelectorKeyMap(canSort bool) selectorKeyMap {
	km := selectorKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Sort:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sort")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "back")),
		Quit:     quitKey,
	}
	km.Sort.SetEnabled(canSort)
	return km
}

func (k selectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPage, k.PrevPage, k.Sort, k.Confirm, k.Back}
}

func (k selectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

type promptKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

func newPromptKeyMap() promptKeyMap {
	return promptKeyMap{
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:    quitKey,
	}
}

func (k promptKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Quit}
}

func (k promptKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type spinnerKeyMap struct {
	Cancel key.Binding
	Quit   key.Binding
}

func newSpinnerKeyMap() spinnerKeyMap {
	return spinnerKeyMap{
		Cancel: key.NewBinding(key.WithKeys("backspace", "left"), key.WithHelp("←/backspace", "cancel")),
		Quit:   quitKey,
	}
}

func (k spinnerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}

func (k spinnerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(MutedColor)
	h.Styles.ShortDesc = HelpStyle
	return h
}
