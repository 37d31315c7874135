package quasarr

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pders01/qtui/internal/api"
)

// RowKind tells queue rows from history rows.
type RowKind int

const (
	RowQueue RowKind = iota
	RowHistory
)

// DownloadRow is one line of the downloads list, from either source.
type DownloadRow struct {
	Kind   RowKind
	Name   string
	NzoID  string
	Status string
	Size   api.Number
	// TimeLeft is set for queue rows, Completed for history rows.
	TimeLeft  string
	Completed api.Number
}

// SizeBytes lets the selector sort rows by size.
func (r DownloadRow) SizeBytes() float64 { return r.Size.Float() }

// NeedsCaptcha reports whether the server parked this download behind a
// CAPTCHA.
func (r DownloadRow) NeedsCaptcha() bool {
	return strings.Contains(r.Name, "[CAPTCHA")
}

// CanMarkFailed is false once the download already failed.
func (r DownloadRow) CanMarkFailed() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "failed", "error":
		return false
	}
	return true
}

// BuildRows merges queue then history, keeping server order.
func BuildRows(queue []api.QueueItem, history []api.HistoryItem) []DownloadRow {
	rows := make([]DownloadRow, 0, len(queue)+len(history))
	for _, q := range queue {
		rows = append(rows, DownloadRow{
			Kind:     RowQueue,
			Name:     q.Filename,
			NzoID:    q.NzoID,
			Status:   q.Status,
			Size:     q.Size,
			TimeLeft: q.TimeLeft,
		})
	}
	for _, h := range history {
		rows = append(rows, DownloadRow{
			Kind:      RowHistory,
			Name:      h.Name,
			NzoID:     h.NzoID,
			Status:    h.Status,
			Size:      h.Size,
			Completed: h.Completed,
		})
	}
	return rows
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanSize renders a byte count by powers of 1024.
func HumanSize(n api.Number) string {
	if n.Invalid {
		return "Unknown"
	}
	size := n.Float()
	if size == 0 {
		return "0 MB"
	}
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[unit])
}

// CompletedLabel formats a completion stamp in local time, or returns it
// verbatim when it is not an integer.
func CompletedLabel(n api.Number) string {
	if ts, ok := n.Int(); ok {
		return time.Unix(ts, 0).Local().Format("2006-01-02 15:04")
	}
	return n.String()
}

// Label is the row as shown in the downloads list.
func (r DownloadRow) Label() string {
	var b strings.Builder
	if r.Kind == RowQueue {
		b.WriteString("⬇️ ")
	} else {
		b.WriteString("📜 ")
	}
	b.WriteString(r.Name)
	b.WriteString(" (Size: ")
	b.WriteString(HumanSize(r.Size))
	if r.Kind == RowQueue {
		b.WriteString(" | ETA: ")
		b.WriteString(r.TimeLeft)
	} else {
		b.WriteString(" | ")
		b.WriteString(CompletedLabel(r.Completed))
	}
	b.WriteString(") [")
	b.WriteString(r.Status)
	b.WriteString("]")
	return b.String()
}

// SortByPubDate orders items newest first. Items whose date did not parse
// fall back to comparing the raw strings, and sink below dated ones.
func SortByPubDate(items []api.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case !a.Published.IsZero() && !b.Published.IsZero():
			if !a.Published.Equal(b.Published) {
				return a.Published.After(b.Published)
			}
			return a.PubDate > b.PubDate
		case a.Published.IsZero() != b.Published.IsZero():
			return !a.Published.IsZero()
		default:
			return a.PubDate > b.PubDate
		}
	})
}
