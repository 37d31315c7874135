package tui

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Sizer is implemented by selector payloads so they can be sorted by size.
type Sizer interface {
	SizeBytes() float64
}

type SortMode int

const (
	SortNewest SortMode = iota
	SortOldest
	SortAZ
	SortZA
	SortSizeDesc
	SortSizeAsc
)

// AllSorts is the default sort cycle.
var AllSorts = []SortMode{SortNewest, SortOldest, SortAZ, SortZA, SortSizeDesc, SortSizeAsc}

func (s SortMode) String() string {
	switch s {
	case SortNewest:
		return "newest"
	case SortOldest:
		return "oldest"
	case SortAZ:
		return "a-z"
	case SortZA:
		return "z-a"
	case SortSizeDesc:
		return "size_desc"
	case SortSizeAsc:
		return "size_asc"
	default:
		return "unknown"
	}
}

type SelectorItem[T Sizer] struct {
	Label   string
	Payload T
}

type SelectorOptions struct {
	PageSize     int
	InitialIndex int
	// Duration is shown as "Took X.XXs" when positive.
	Duration time.Duration
	// Sorts defaults to AllSorts.
	Sorts []SortMode
}

// Selector is a paginated list with a Tab-cycled sort order. The caller
// must not open it with an empty item list.
type Selector[T Sizer] struct {
	finisher[T]
	title    string
	original []SelectorItem[T]
	items    []SelectorItem[T]
	sorts    []SortMode
	sortIdx  int
	selected int
	pageSize int
	duration time.Duration
	width    int
	keys     selectorKeyMap
	help     help.Model
}

func NewSelector[T Sizer](title string, items []SelectorItem[T], opts SelectorOptions) *Selector[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	sorts := opts.Sorts
	if len(sorts) == 0 {
		sorts = AllSorts
	}

	s := &Selector[T]{
		title:    title,
		original: append([]SelectorItem[T](nil), items...),
		items:    append([]SelectorItem[T](nil), items...),
		sorts:    sorts,
		pageSize: opts.PageSize,
		duration: opts.Duration,
		keys:     newSelectorKeyMap(len(sorts) > 1),
		help:     newHelp(),
	}
	if sorts[0] != SortNewest {
		s.applySort()
	}
	s.selected = clampIndex(opts.InitialIndex, len(s.items))
	return s
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// SortMode is the active sort.
func (s *Selector[T]) SortMode() SortMode { return s.sorts[s.sortIdx] }

// Selected is the cursor position in the current order.
func (s *Selector[T]) Selected() int { return s.selected }

// Page is the zero-based page holding the cursor.
func (s *Selector[T]) Page() int { return s.selected / s.pageSize }

// Items returns the current order.
func (s *Selector[T]) Items() []SelectorItem[T] { return s.items }

func (s *Selector[T]) Title() string { return s.title }

// Labels returns the labels in the current order.
func (s *Selector[T]) Labels() []string {
	labels := make([]string, len(s.items))
	for i, item := range s.items {
		labels[i] = item.Label
	}
	return labels
}

func (s *Selector[T]) pageCount() int {
	if len(s.items) == 0 {
		return 1
	}
	return (len(s.items) + s.pageSize - 1) / s.pageSize
}

func (s *Selector[T]) applySort() {
	s.items = append(s.items[:0], s.original...)
	switch s.SortMode() {
	case SortOldest:
		for i, j := 0, len(s.items)-1; i < j; i, j = i+1, j-1 {
			s.items[i], s.items[j] = s.items[j], s.items[i]
		}
	case SortAZ:
		sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].Label < s.items[j].Label })
	case SortZA:
		sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].Label > s.items[j].Label })
	case SortSizeDesc:
		sort.SliceStable(s.items, func(i, j int) bool { return size(s.items[i].Payload) > size(s.items[j].Payload) })
	case SortSizeAsc:
		sort.SliceStable(s.items, func(i, j int) bool { return size(s.items[i].Payload) < size(s.items[j].Payload) })
	}
}

// size treats NaN as zero so the sort stays a strict weak order.
func size(p Sizer) float64 {
	v := p.SizeBytes()
	if v != v {
		return 0
	}
	return v
}

func (s *Selector[T]) Init() tea.Cmd { return nil }

func (s *Selector[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.done {
		return s, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.help.Width = msg.Width
	case tea.KeyMsg:
		n := len(s.items)
		switch {
		case key.Matches(msg, s.keys.Quit):
			return s, s.finish(Result[T]{Outcome: Interrupted})
		case key.Matches(msg, s.keys.Up):
			s.selected = max(0, s.selected-1)
		case key.Matches(msg, s.keys.Down):
			s.selected = max(0, min(n-1, s.selected+1))
		case key.Matches(msg, s.keys.NextPage):
			s.selected = max(0, min(n-1, s.selected+s.pageSize))
		case key.Matches(msg, s.keys.PrevPage):
			if s.Page() == 0 {
				return s, s.finish(Result[T]{Outcome: Cancelled})
			}
			s.selected = max(0, s.selected-s.pageSize)
		case key.Matches(msg, s.keys.Sort):
			s.sortIdx = (s.sortIdx + 1) % len(s.sorts)
			s.applySort()
			s.selected = 0
		case key.Matches(msg, s.keys.Confirm):
			if n == 0 {
				return s, s.finish(Result[T]{Outcome: Cancelled})
			}
			return s, s.finish(Result[T]{Outcome: Selected, Value: s.items[s.selected].Payload, Index: s.selected})
		case key.Matches(msg, s.keys.Back):
			return s, s.finish(Result[T]{Outcome: Cancelled})
		}
	}
	return s, nil
}

func (s *Selector[T]) pageSummary() string {
	summary := fmt.Sprintf("Page %d/%d (Total: %d)", s.Page()+1, s.pageCount(), len(s.items))
	if s.duration > 0 {
		summary += " | " + MsgTook(s.duration)
	}
	return summary
}

func (s *Selector[T]) View() string {
	if s.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader(s.title, "", s.width))
	b.WriteString("\n")
	b.WriteString(s.help.View(s.keys))
	b.WriteString("\n")
	b.WriteString(renderMuted("Sort: " + s.SortMode().String()))
	b.WriteString("\n")
	b.WriteString(renderMuted(s.pageSummary()))
	b.WriteString("\n\n")

	start := s.Page() * s.pageSize
	for row := 0; row < s.pageSize; row++ {
		i := start + row
		if i < len(s.items) {
			label := html.EscapeString(s.items[i].Label)
			if s.width > 4 {
				label = truncateEnd(label, s.width-4)
			}
			if i == s.selected {
				b.WriteString(InverseItemStyle.Render("› " + label))
			} else {
				b.WriteString(ItemStyle.Render("  " + label))
			}
		}
		// blank rows keep the height constant on the last page
		b.WriteString("\n")
	}
	return b.String()
}
