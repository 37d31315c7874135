package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/qtui/internal/api"
	"github.com/pders01/qtui/internal/quasarr"
)

// --- fakes ---

type addCall struct {
	Title string
	Link  string
	Cat   quasarr.Category
}

type fakeBackend struct {
	mu sync.Mutex

	feed   []api.FeedItem
	feedOK bool
	search []api.FeedItem

	queue   []api.QueueItem
	history []api.HistoryItem

	addOK    bool
	deleteOK bool
	failOK   bool

	listCalls int
	feedKinds []quasarr.Kind
	tvArgs    [][3]string
	docArgs   []string
	added     []addCall
	deleted   []string
	failed    []string
}

func (f *fakeBackend) ListDownloads(context.Context) ([]api.QueueItem, []api.HistoryItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.queue, f.history
}

func (f *fakeBackend) Feed(_ context.Context, kind quasarr.Kind) ([]api.FeedItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedKinds = append(f.feedKinds, kind)
	return append([]api.FeedItem(nil), f.feed...), f.feedOK
}

func (f *fakeBackend) SearchMovie(context.Context, string) []api.FeedItem {
	return append([]api.FeedItem(nil), f.search...)
}

func (f *fakeBackend) SearchTV(_ context.Context, imdbID, season, episode string) []api.FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tvArgs = append(f.tvArgs, [3]string{imdbID, season, episode})
	return append([]api.FeedItem(nil), f.search...)
}

func (f *fakeBackend) SearchDoc(_ context.Context, title string) []api.FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docArgs = append(f.docArgs, title)
	return append([]api.FeedItem(nil), f.search...)
}

func (f *fakeBackend) AddDownload(_ context.Context, title, link string, cat quasarr.Category) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, addCall{Title: title, Link: link, Cat: cat})
	return f.addOK
}

func (f *fakeBackend) Delete(_ context.Context, nzoID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, nzoID)
	return f.deleteOK
}

func (f *fakeBackend) MarkFailed(_ context.Context, nzoID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, nzoID)
	return f.failOK
}

func (f *fakeBackend) WebURL() string     { return "http://quasarr.local:8080" }
func (f *fakeBackend) CaptchaURL() string { return "http://quasarr.local:8080/captcha" }

type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return o.err
}

// --- scripted runner ---

// step plays the user's part on one screen.
type step func(t *testing.T, m tea.Model) error

// scriptRunner stands in for the terminal: each Run consumes one step.
type scriptRunner struct {
	t       *testing.T
	steps   []step
	screens []string
}

func script(t *testing.T, steps ...step) *scriptRunner {
	return &scriptRunner{t: t, steps: steps}
}

func (r *scriptRunner) Run(m tea.Model) (tea.Model, error) {
	r.t.Helper()
	name := screenName(m)
	r.screens = append(r.screens, name)
	if len(r.steps) == 0 {
		r.t.Fatalf("script exhausted at %s (screens: %v)", name, r.screens)
	}
	next := r.steps[0]
	r.steps = r.steps[1:]

	m.Init()
	if err := next(r.t, m); err != nil {
		return m, err
	}
	if d, ok := m.(interface{ Done() bool }); ok && !d.Done() {
		r.t.Fatalf("step left %s open", name)
	}
	return m, nil
}

func (r *scriptRunner) finished(t *testing.T) {
	t.Helper()
	assert.Empty(t, r.steps, "unplayed steps (screens: %v)", r.screens)
}

type titled interface{ Title() string }

func screenName(m tea.Model) string {
	title := ""
	if tm, ok := m.(titled); ok {
		title = tm.Title()
	}
	switch m.(type) {
	case *Prompt:
		return "prompt:" + title
	case *Notice:
		return "notice:" + title
	case interface{ Cursor() int }:
		return "menu:" + title
	case interface{ SortMode() SortMode }:
		return "selector:" + title
	case interface{ Elapsed() time.Duration }:
		return "spinner:" + title
	default:
		return fmt.Sprintf("%T", m)
	}
}

type labelled interface{ Labels() []string }

func moveTo(t *testing.T, m tea.Model, match func(string) bool, what string) {
	t.Helper()
	lm, ok := m.(labelled)
	require.True(t, ok, "%s has no labels", screenName(m))
	for i, label := range lm.Labels() {
		if match(label) {
			for j := 0; j < i; j++ {
				send(m, "down")
			}
			send(m, "enter")
			return
		}
	}
	t.Fatalf("%s: no entry %q in %v", screenName(m), what, lm.Labels())
}

// pick chooses the entry labelled exactly label.
func pick(label string) step {
	return func(t *testing.T, m tea.Model) error {
		moveTo(t, m, func(s string) bool { return s == label }, label)
		return nil
	}
}

// choose picks the first entry containing substr.
func choose(substr string) step {
	return func(t *testing.T, m tea.Model) error {
		moveTo(t, m, func(s string) bool { return strings.Contains(s, substr) }, substr)
		return nil
	}
}

func back() step {
	return func(t *testing.T, m tea.Model) error {
		send(m, "backspace")
		return nil
	}
}

func interrupt() step {
	return func(t *testing.T, m tea.Model) error {
		send(m, "ctrl+c")
		return nil
	}
}

func typeText(text string) step {
	return func(t *testing.T, m tea.Model) error {
		p, ok := m.(*Prompt)
		require.True(t, ok, "expected a prompt, got %s", screenName(m))
		if text != "" {
			send(p, text)
		}
		send(p, "enter")
		return nil
	}
}

func await() step {
	return func(t *testing.T, m tea.Model) error {
		_, ok := m.(interface{ Elapsed() time.Duration })
		require.True(t, ok, "expected a spinner, got %s", screenName(m))
		d := m.(interface{ Done() bool })
		deadline := time.Now().Add(2 * time.Second)
		for !d.Done() {
			require.False(t, time.Now().After(deadline), "spinner never finished")
			m.Update(spinnerTickMsg{})
			time.Sleep(time.Millisecond)
		}
		return nil
	}
}

func dismiss(kind StatusKind, title string) step {
	return func(t *testing.T, m tea.Model) error {
		n, ok := m.(*Notice)
		require.True(t, ok, "expected a notice, got %s", screenName(m))
		assert.Equal(t, kind, n.Kind())
		assert.Equal(t, title, n.Title())
		send(n, "enter")
		return nil
	}
}

// inspect runs check against the screen, then plays s on it.
func inspect(check func(t *testing.T, m tea.Model), s step) step {
	return func(t *testing.T, m tea.Model) error {
		check(t, m)
		return s(t, m)
	}
}

func newTestApp(b *fakeBackend, o Opener, r Runner) *App {
	app := NewApp(b, nil, o, r)
	app.errorDelay = time.Millisecond
	return app
}

func at(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

// --- tests ---

func TestApp_ExitAndBack(t *testing.T) {
	for _, s := range []step{pick("Exit"), back()} {
		r := script(t, inspect(func(t *testing.T, m tea.Model) {
			assert.Equal(t, []string{"Searches", "Feeds", "Downloads", "Open Web UI", "Exit"}, m.(labelled).Labels())
		}, s))
		err := newTestApp(&fakeBackend{}, nil, r).Run(context.Background())
		assert.NoError(t, err)
		r.finished(t)
	}
}

func TestApp_CtrlCUnwinds(t *testing.T) {
	r := script(t,
		pick("Feeds"),
		pick("Movie"),
		await(),
		interrupt(),
	)
	b := &fakeBackend{feedOK: true, feed: []api.FeedItem{{Title: "A", Link: "l", PubDate: "x"}}}

	err := newTestApp(b, nil, r).Run(context.Background())
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.True(t, IsInterrupted(err))
	r.finished(t)
}

func TestApp_ProgramInterruptUnwinds(t *testing.T) {
	r := script(t, func(*testing.T, tea.Model) error { return tea.ErrInterrupted })
	err := newTestApp(&fakeBackend{}, nil, r).Run(context.Background())
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestApp_FeedAddReentersAtSameRow(t *testing.T) {
	b := &fakeBackend{
		feedOK: true,
		addOK:  true,
		feed: []api.FeedItem{
			{Title: "Older", Link: "http://q/older", Published: at(1), PubDate: "old"},
			{Title: "Newest", Link: "http://q/newest", Published: at(3), PubDate: "new"},
			{Title: "Middle", Link: "http://q/middle", Published: at(2), PubDate: "mid"},
		},
	}
	r := script(t,
		pick("Feeds"),
		pick("TV"),
		await(),
		inspect(func(t *testing.T, m tea.Model) {
			labels := m.(labelled).Labels()
			require.Len(t, labels, 3)
			assert.True(t, strings.HasPrefix(labels[0], "Newest"))
			assert.True(t, strings.HasPrefix(labels[2], "Older"))
		}, choose("Middle")),
		await(),
		dismiss(StatusSuccess, "Added 'Middle'"),
		inspect(func(t *testing.T, m tea.Model) {
			assert.Equal(t, 1, m.(interface{ Selected() int }).Selected())
		}, back()),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)

	assert.Equal(t, []quasarr.Kind{quasarr.KindTV}, b.feedKinds)
	assert.Equal(t, []addCall{{Title: "Middle", Link: "http://q/middle", Cat: quasarr.CategoryTV}}, b.added)
	assert.Contains(t, r.screens, "spinner:"+MsgLoadingFeed("TV"))
}

func TestApp_AddRefused(t *testing.T) {
	b := &fakeBackend{
		feedOK: true,
		feed:   []api.FeedItem{{Title: "Only", Link: "http://q/only", PubDate: "Mon"}},
	}
	r := script(t,
		pick("Feeds"),
		pick("Doc"),
		await(),
		choose("Only"),
		await(),
		dismiss(StatusError, "Server refused 'Only'"),
		back(),
		back(),
		back(),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	require.Len(t, b.added, 1)
	assert.Equal(t, quasarr.CategoryDocs, b.added[0].Cat)
}

func TestApp_FeedFailure(t *testing.T) {
	r := script(t,
		pick("Feeds"),
		pick("Movie"),
		await(),
		dismiss(StatusError, MsgRequestFailed),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(&fakeBackend{}, nil, r).Run(context.Background()))
	r.finished(t)
}

func TestApp_TVSearchPaginatedSorted(t *testing.T) {
	const n = 137
	items := make([]api.FeedItem, 0, n)
	for i := 0; i < n; i++ {
		// 37 is coprime with 137, so this visits every index once
		k := (i * 37) % n
		items = append(items, api.FeedItem{
			Title:     fmt.Sprintf("Show.S01E%03d", k),
			Link:      fmt.Sprintf("http://q/%d", k),
			PubDate:   "raw",
			Published: at(1).Add(time.Duration(k) * time.Hour),
		})
	}
	b := &fakeBackend{search: items}

	r := script(t,
		pick("Searches"),
		pick("TV"),
		typeText("0903747"),
		typeText("1"),
		typeText(""),
		await(),
		inspect(func(t *testing.T, m tea.Model) {
			labels := m.(labelled).Labels()
			require.Len(t, labels, n)
			assert.True(t, strings.HasPrefix(labels[0], "Show.S01E136"))
			assert.True(t, strings.HasPrefix(labels[n-1], "Show.S01E000"))
			assert.Equal(t, "selector:TV search: tt0903747 S1 · 137 results", screenName(m))
		}, back()),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, [][3]string{{"tt0903747", "1", ""}}, b.tvArgs)
}

func TestApp_SearchPromptCancelReturnsToMenu(t *testing.T) {
	r := script(t,
		pick("Searches"),
		pick("Movie"),
		func(t *testing.T, m tea.Model) error {
			send(m, "esc")
			return nil
		},
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(&fakeBackend{}, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, []string{"menu:Main menu", "menu:Searches", "prompt:IMDb ID", "menu:Searches", "menu:Main menu"}, r.screens)
}

func TestApp_InvalidSeasonIsRetried(t *testing.T) {
	b := &fakeBackend{}
	r := script(t,
		pick("Searches"),
		pick("TV"),
		typeText("42"),
		func(t *testing.T, m tea.Model) error {
			p := m.(*Prompt)
			send(p, "x", "enter")
			require.True(t, p.Rejected())
			p.Update(promptResetMsg{seq: 1})
			send(p, "2", "enter")
			return nil
		},
		typeText("5"),
		await(),
		dismiss(StatusWarn, MsgNoResults),
		back(),
		back(),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, [][3]string{{"tt42", "2", "5"}}, b.tvArgs)
}

func TestApp_DocSearchEmpty(t *testing.T) {
	b := &fakeBackend{}
	r := script(t,
		pick("Searches"),
		pick("Doc"),
		typeText("Planet Earth"),
		await(),
		inspect(func(t *testing.T, m tea.Model) {
			assert.Equal(t, "Doc search: Planet Earth", m.(*Notice).Message())
		}, dismiss(StatusWarn, MsgNoResults)),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, []string{"Planet Earth"}, b.docArgs)
}

func captchaBackend() *fakeBackend {
	return &fakeBackend{
		deleteOK: true,
		failOK:   true,
		queue: []api.QueueItem{{
			Filename: "[CAPTCHA not solved!] Foo.2024",
			NzoID:    "nzo_q",
			Status:   "Paused",
			Size:     api.NumberOf(1024),
			TimeLeft: "0:00:00",
		}},
		history: []api.HistoryItem{{
			Name:      "Bar.2023",
			NzoID:     "nzo_h",
			Status:    "Failed",
			Size:      api.NumberOf("2048"),
			Completed: api.NumberOf(1700000000),
		}},
	}
}

func labelsAre(want ...string) func(t *testing.T, m tea.Model) {
	return func(t *testing.T, m tea.Model) {
		assert.Equal(t, want, m.(labelled).Labels())
	}
}

func TestApp_DownloadActions(t *testing.T) {
	b := captchaBackend()
	r := script(t,
		pick("Downloads"),
		await(),
		choose("CAPTCHA"),
		inspect(labelsAre("Solve CAPTCHA", "Delete", "Mark Failed"), back()),
		choose("Bar.2023"),
		inspect(labelsAre("Delete"), back()),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, 1, b.listCalls, "backing out of an action menu does not reload")
}

func TestApp_DeleteConfirmedReloads(t *testing.T) {
	b := captchaBackend()
	r := script(t,
		pick("Downloads"),
		await(),
		choose("Bar.2023"),
		pick("Delete"),
		inspect(labelsAre("No", "Yes"), pick("Yes")),
		await(),
		dismiss(StatusSuccess, "Deleted 'Bar.2023'"),
		await(),
		back(),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, []string{"nzo_h"}, b.deleted)
	assert.Equal(t, 2, b.listCalls)
}

func TestApp_MarkFailedDeclined(t *testing.T) {
	b := captchaBackend()
	r := script(t,
		pick("Downloads"),
		await(),
		choose("CAPTCHA"),
		pick("Mark Failed"),
		pick("No"),
		back(),
		back(),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Empty(t, b.failed)
	assert.Equal(t, 1, b.listCalls)
}

func TestApp_MarkFailedRefused(t *testing.T) {
	b := captchaBackend()
	b.failOK = false
	r := script(t,
		pick("Downloads"),
		await(),
		choose("CAPTCHA"),
		pick("Mark Failed"),
		pick("Yes"),
		await(),
		dismiss(StatusError, "Could not mark '[CAPTCHA not solved!] Foo.2024' as failed"),
		await(),
		back(),
		back(),
	)

	require.NoError(t, newTestApp(b, nil, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, []string{"nzo_q"}, b.failed)
}

func TestApp_SolveCaptchaOpensBrowser(t *testing.T) {
	b := captchaBackend()
	o := &fakeOpener{}
	r := script(t,
		pick("Downloads"),
		await(),
		choose("CAPTCHA"),
		pick("Solve CAPTCHA"),
		dismiss(StatusSuccess, "Opened CAPTCHA"),
		back(),
		back(),
	)

	require.NoError(t, newTestApp(b, o, r).Run(context.Background()))
	r.finished(t)
	assert.Equal(t, []string{"http://quasarr.local:8080/captcha"}, o.opened)
}

func TestApp_NoDownloads(t *testing.T) {
	r := script(t,
		pick("Downloads"),
		await(),
		dismiss(StatusInfo, MsgNoDownloads),
		pick("Exit"),
	)

	require.NoError(t, newTestApp(&fakeBackend{}, nil, r).Run(context.Background()))
	r.finished(t)
}

func TestApp_OpenWebUI(t *testing.T) {
	t.Run("opened", func(t *testing.T) {
		o := &fakeOpener{}
		r := script(t, pick("Open Web UI"), dismiss(StatusSuccess, "Opened Web UI"), pick("Exit"))
		require.NoError(t, newTestApp(&fakeBackend{}, o, r).Run(context.Background()))
		r.finished(t)
		assert.Equal(t, []string{"http://quasarr.local:8080"}, o.opened)
	})

	t.Run("opener fails", func(t *testing.T) {
		o := &fakeOpener{err: errors.New("no browser found")}
		r := script(t,
			pick("Open Web UI"),
			inspect(func(t *testing.T, m tea.Model) {
				assert.Equal(t, "no browser found", m.(*Notice).Message())
			}, dismiss(StatusError, "Cannot open Web UI")),
			pick("Exit"),
		)
		require.NoError(t, newTestApp(&fakeBackend{}, o, r).Run(context.Background()))
		r.finished(t)
	})
}

func TestResultLabel(t *testing.T) {
	item := api.FeedItem{Title: "Dune.2021", Size: 1536 * 1024 * 1024, PubDate: "Mon, 01 Jan 2024 10:00:00 +0000"}
	assert.Equal(t, "Dune.2021 (1.50 GB) Mon, 01 Jan 2024 10:00:00 +0000", ResultLabel(item))

	item.Published = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Dune.2021 (1.50 GB) "+item.Published.Local().Format("2006-01-02 15:04"), ResultLabel(item))
}

func TestDownloadActions(t *testing.T) {
	labels := func(row quasarr.DownloadRow) []string {
		var out []string
		for _, it := range downloadActions(row) {
			out = append(out, it.Label)
		}
		return out
	}

	assert.Equal(t, []string{"Delete", "Mark Failed"}, labels(quasarr.DownloadRow{Name: "x", Status: "Downloading"}))
	assert.Equal(t, []string{"Delete"}, labels(quasarr.DownloadRow{Name: "x", Status: "error"}))
	assert.Equal(t, []string{"Solve CAPTCHA", "Delete"}, labels(quasarr.DownloadRow{Name: "[CAPTCHA] x", Status: "FAILED"}))
}
