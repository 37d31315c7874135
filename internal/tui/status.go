package tui

import (
	"fmt"
	"strings"
	"time"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingDownloads = "Loading downloads…"
	MsgSearching        = "Searching…"
	MsgAdding           = "Adding download…"
	MsgDeleting         = "Deleting…"
	MsgMarkingFailed    = "Marking as failed…"
	MsgNoResults        = "No results"
	MsgNoDownloads      = "Queue and history are empty"
	MsgCancelled        = "Cancelled"
	MsgRequestFailed    = "Request failed or was cancelled"
	MsgPressAnyKey      = "Press any key to continue"
)

func MsgLoadingFeed(kind string) string {
	return fmt.Sprintf("Loading %s feed…", strings.ToLower(kind))
}

func MsgAdded(title string) string {
	return fmt.Sprintf("Added '%s'", strings.TrimSpace(title))
}

func MsgAddRefused(title string) string {
	return fmt.Sprintf("Server refused '%s'", strings.TrimSpace(title))
}

func MsgDeleted(name string, ok bool) string {
	if ok {
		return fmt.Sprintf("Deleted '%s'", name)
	}
	return fmt.Sprintf("Could not delete '%s'", name)
}

func MsgMarkedFailed(name string, ok bool) string {
	if ok {
		return fmt.Sprintf("Marked '%s' as failed", name)
	}
	return fmt.Sprintf("Could not mark '%s' as failed", name)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgTook renders an elapsed duration the way the selector header does.
func MsgTook(d time.Duration) string {
	return fmt.Sprintf("Took %.2fs", d.Seconds())
}
