package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/qtui/internal/api"
	"github.com/pders01/qtui/internal/config"
	"github.com/pders01/qtui/internal/debuglog"
	"github.com/pders01/qtui/internal/quasarr"
	"github.com/pders01/qtui/internal/validation"
)

// Backend is the set of Quasarr operations the flows drive.
type Backend interface {
	ListDownloads(ctx context.Context) ([]api.QueueItem, []api.HistoryItem)
	Feed(ctx context.Context, kind quasarr.Kind) ([]api.FeedItem, bool)
	SearchMovie(ctx context.Context, imdbID string) []api.FeedItem
	SearchTV(ctx context.Context, imdbID, season, episode string) []api.FeedItem
	SearchDoc(ctx context.Context, title string) []api.FeedItem
	AddDownload(ctx context.Context, title, link string, cat quasarr.Category) bool
	Delete(ctx context.Context, nzoID string) bool
	MarkFailed(ctx context.Context, nzoID string) bool
	WebURL() string
	CaptchaURL() string
}

// Opener shows a URL in the user's browser.
type Opener interface {
	Open(url string) error
}

// App is the menu tree on top of the widgets. Exactly one widget owns the
// terminal at a time; each flow is a loop that re-enters its screen until
// the user backs out.
type App struct {
	backend     Backend
	opener      Opener
	runner      Runner
	ctx         context.Context
	pageSize    int
	noticeDelay time.Duration
	errorDelay  time.Duration
	now         func() time.Time
}

func NewApp(backend Backend, cfg *config.Config, opener Opener, runner Runner) *App {
	if cfg == nil {
		cfg = config.TestConfig()
	}
	ApplyColors(cfg.UI.Colors)
	return &App{
		backend:     backend,
		opener:      opener,
		runner:      runner,
		ctx:         context.Background(),
		pageSize:    cfg.UI.PageSize,
		noticeDelay: cfg.UI.NoticeDelay,
		errorDelay:  defaultErrorDelay,
		now:         time.Now,
	}
}

// show runs w and turns ctrl+c into ErrInterrupted so every flow unwinds.
func show[T any](a *App, w Widget[T]) (Result[T], error) {
	res := run(a.runner, w)
	if res.Outcome == Interrupted {
		return res, ErrInterrupted
	}
	return res, nil
}

// spin runs work behind a spinner and reports how long it took.
func spin[T any](a *App, title string, work Work[T]) (Result[T], time.Duration, error) {
	start := a.now()
	res, err := show[T](a, NewSpinner(a.ctx, title, work))
	return res, a.now().Sub(start), err
}

func (a *App) prompt(title, def string, validate validation.Validator) (Result[string], error) {
	return show[string](a, NewPrompt(title, def, validate).WithErrorDelay(a.errorDelay))
}

// notify shows a self-dismissing notice.
func (a *App) notify(kind StatusKind, title, message string) error {
	_, err := show[struct{}](a, NewNotice(kind, title, message, a.noticeDelay))
	return err
}

// alert shows a notice that waits for a key.
func (a *App) alert(kind StatusKind, title, message string) error {
	_, err := show[struct{}](a, NewNotice(kind, title, message, 0))
	return err
}

type mainChoice int

const (
	choiceSearches mainChoice = iota
	choiceFeeds
	choiceDownloads
	choiceWebUI
	choiceExit
)

// Run shows the main menu until the user leaves it. Ctrl+c anywhere
// returns ErrInterrupted.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	items := []MenuItem[mainChoice]{
		{Label: "Searches", Value: choiceSearches},
		{Label: "Feeds", Value: choiceFeeds},
		{Label: "Downloads", Value: choiceDownloads},
		{Label: "Open Web UI", Value: choiceWebUI},
		{Label: "Exit", Value: choiceExit},
	}
	banner := GetCompactBanner(a.backend.WebURL())

	for {
		res, err := show[mainChoice](a, NewMenu("Main menu", items, true).WithBanner(banner))
		if err != nil {
			return err
		}
		if !res.Ok() || res.Value == choiceExit {
			return nil
		}

		switch res.Value {
		case choiceSearches:
			err = a.searches()
		case choiceFeeds:
			err = a.feeds()
		case choiceDownloads:
			err = a.downloads()
		case choiceWebUI:
			err = a.openURL("Web UI", a.backend.WebURL())
		}
		if err != nil {
			return err
		}
	}
}

func kindItems() []MenuItem[quasarr.Kind] {
	items := make([]MenuItem[quasarr.Kind], 0, len(quasarr.Kinds))
	for _, k := range quasarr.Kinds {
		items = append(items, MenuItem[quasarr.Kind]{Label: k.String(), Value: k})
	}
	return items
}

func (a *App) feeds() error {
	for {
		res, err := show[quasarr.Kind](a, NewMenu("Feeds", kindItems(), true))
		if err != nil || !res.Ok() {
			return err
		}
		kind := res.Value

		loaded, elapsed, err := spin[[]api.FeedItem](a, MsgLoadingFeed(kind.String()), func(ctx context.Context) ([]api.FeedItem, error) {
			items, ok := a.backend.Feed(ctx, kind)
			if !ok {
				return nil, errRequestFailed
			}
			return items, nil
		})
		if err != nil {
			return err
		}
		if !loaded.Ok() {
			if err := a.reportUnfinished(loaded.Outcome); err != nil {
				return err
			}
			continue
		}

		title := fmt.Sprintf("%s feed", kind)
		if err := a.results(title, loaded.Value, kind.Category(), elapsed); err != nil {
			return err
		}
	}
}

func (a *App) searches() error {
	for {
		res, err := show[quasarr.Kind](a, NewMenu("Searches", kindItems(), true))
		if err != nil || !res.Ok() {
			return err
		}
		kind := res.Value

		var (
			title string
			work  Work[[]api.FeedItem]
		)
		switch kind {
		case quasarr.KindMovie:
			imdb, err := a.prompt("IMDb ID", "tt", validation.IMDbID)
			if err != nil {
				return err
			}
			if !imdb.Ok() {
				continue
			}
			title = "Movie search: " + imdb.Value
			work = func(ctx context.Context) ([]api.FeedItem, error) {
				return a.backend.SearchMovie(ctx, imdb.Value), nil
			}

		case quasarr.KindTV:
			imdb, err := a.prompt("IMDb ID", "tt", validation.IMDbID)
			if err != nil {
				return err
			}
			if !imdb.Ok() {
				continue
			}
			season, err := a.prompt("Season (optional)", "", validation.OptionalNumber)
			if err != nil {
				return err
			}
			if !season.Ok() {
				continue
			}
			episode, err := a.prompt("Episode (optional)", "", validation.OptionalNumber)
			if err != nil {
				return err
			}
			if !episode.Ok() {
				continue
			}
			title = "TV search: " + imdb.Value
			if season.Value != "" {
				title += " S" + season.Value
			}
			if episode.Value != "" {
				title += " E" + episode.Value
			}
			work = func(ctx context.Context) ([]api.FeedItem, error) {
				return a.backend.SearchTV(ctx, imdb.Value, season.Value, episode.Value), nil
			}

		case quasarr.KindDoc:
			query, err := a.prompt("Documentary title", "", validation.NonEmpty)
			if err != nil {
				return err
			}
			if !query.Ok() {
				continue
			}
			title = "Doc search: " + query.Value
			work = func(ctx context.Context) ([]api.FeedItem, error) {
				return a.backend.SearchDoc(ctx, query.Value), nil
			}
		}

		found, elapsed, err := spin(a, MsgSearching, work)
		if err != nil {
			return err
		}
		if !found.Ok() {
			if err := a.reportUnfinished(found.Outcome); err != nil {
				return err
			}
			continue
		}
		if err := a.results(title, found.Value, kind.Category(), elapsed); err != nil {
			return err
		}
	}
}

// reportUnfinished tells the user a spinner job did not deliver.
func (a *App) reportUnfinished(outcome Outcome) error {
	if outcome == Cancelled {
		return a.notify(StatusWarn, MsgCancelled, "")
	}
	return a.notify(StatusError, MsgRequestFailed, "")
}

// ResultLabel is how a release is listed in the results pager.
func ResultLabel(item api.FeedItem) string {
	label := fmt.Sprintf("%s (%s)", item.Title, quasarr.HumanSize(api.NumberOf(item.Size)))
	if !item.Published.IsZero() {
		label += " " + item.Published.Local().Format("2006-01-02 15:04")
	} else if item.PubDate != "" {
		label += " " + item.PubDate
	}
	return label
}

// results pages through found releases and adds the chosen one.
func (a *App) results(title string, items []api.FeedItem, cat quasarr.Category, elapsed time.Duration) error {
	if len(items) == 0 {
		return a.alert(StatusWarn, MsgNoResults, title)
	}

	quasarr.SortByPubDate(items)
	entries := make([]SelectorItem[api.FeedItem], len(items))
	for i, item := range items {
		entries[i] = SelectorItem[api.FeedItem]{Label: ResultLabel(item), Payload: item}
	}
	header := fmt.Sprintf("%s · %s", title, MsgResultsCount(len(items)))

	index := 0
	for {
		sel := NewSelector(header, entries, SelectorOptions{
			PageSize:     a.pageSize,
			InitialIndex: index,
			Duration:     elapsed,
			Sorts:        AllSorts,
		})
		res, err := show[api.FeedItem](a, sel)
		if err != nil || !res.Ok() {
			return err
		}
		index = res.Index
		item := res.Value

		added, _, err := spin[bool](a, MsgAdding, func(ctx context.Context) (bool, error) {
			return a.backend.AddDownload(ctx, item.Title, item.Link, cat), nil
		})
		if err != nil {
			return err
		}

		switch {
		case added.Outcome == Cancelled:
			err = a.notify(StatusWarn, MsgCancelled, item.Title)
		case !added.Ok():
			err = a.notify(StatusError, MsgRequestFailed, item.Title)
		case added.Value:
			err = a.notify(StatusSuccess, MsgAdded(item.Title), "")
		default:
			err = a.notify(StatusError, MsgAddRefused(item.Title), "")
		}
		if err != nil {
			return err
		}
	}
}

type downloadAction int

const (
	actionSolveCaptcha downloadAction = iota
	actionDelete
	actionMarkFailed
)

func (d downloadAction) String() string {
	switch d {
	case actionSolveCaptcha:
		return "Solve CAPTCHA"
	case actionDelete:
		return "Delete"
	case actionMarkFailed:
		return "Mark Failed"
	default:
		return "unknown"
	}
}

// downloadActions lists what can be done to row, in menu order.
func downloadActions(row quasarr.DownloadRow) []MenuItem[downloadAction] {
	var actions []downloadAction
	if row.NeedsCaptcha() {
		actions = append(actions, actionSolveCaptcha)
	}
	actions = append(actions, actionDelete)
	if row.CanMarkFailed() {
		actions = append(actions, actionMarkFailed)
	}

	items := make([]MenuItem[downloadAction], len(actions))
	for i, act := range actions {
		items[i] = MenuItem[downloadAction]{Label: act.String(), Value: act}
	}
	return items
}

var downloadSorts = []SortMode{SortAZ, SortZA, SortSizeDesc, SortSizeAsc}

type downloadLists struct {
	queue   []api.QueueItem
	history []api.HistoryItem
}

func (a *App) downloads() error {
	index := 0
	for {
		loaded, _, err := spin[downloadLists](a, MsgLoadingDownloads, func(ctx context.Context) (downloadLists, error) {
			q, h := a.backend.ListDownloads(ctx)
			return downloadLists{queue: q, history: h}, nil
		})
		if err != nil {
			return err
		}
		if !loaded.Ok() {
			return a.reportUnfinished(loaded.Outcome)
		}

		rows := quasarr.BuildRows(loaded.Value.queue, loaded.Value.history)
		if len(rows) == 0 {
			return a.alert(StatusInfo, MsgNoDownloads, "")
		}

		entries := make([]SelectorItem[quasarr.DownloadRow], len(rows))
		for i, row := range rows {
			entries[i] = SelectorItem[quasarr.DownloadRow]{Label: row.Label(), Payload: row}
		}

		reload := false
		for !reload {
			sel := NewSelector("Downloads", entries, SelectorOptions{
				PageSize:     a.pageSize,
				InitialIndex: clampIndex(index, len(entries)),
				Sorts:        downloadSorts,
			})
			res, err := show[quasarr.DownloadRow](a, sel)
			if err != nil || !res.Ok() {
				return err
			}
			index = res.Index

			reload, err = a.downloadMenu(res.Value)
			if err != nil {
				return err
			}
		}
	}
}

// downloadMenu offers the actions for row. reload is true when the server
// state may have changed.
func (a *App) downloadMenu(row quasarr.DownloadRow) (reload bool, err error) {
	res, err := show[downloadAction](a, NewMenu(row.Name, downloadActions(row), true))
	if err != nil || !res.Ok() {
		return false, err
	}

	switch res.Value {
	case actionSolveCaptcha:
		return false, a.openURL("CAPTCHA", a.backend.CaptchaURL())

	case actionDelete:
		return a.destructive(row, "Delete", MsgDeleting, a.backend.Delete, MsgDeleted)

	case actionMarkFailed:
		return a.destructive(row, "Mark as failed", MsgMarkingFailed, a.backend.MarkFailed, MsgMarkedFailed)
	}
	return false, nil
}

func (a *App) destructive(
	row quasarr.DownloadRow,
	verb, busy string,
	call func(ctx context.Context, nzoID string) bool,
	report func(name string, ok bool) string,
) (bool, error) {
	confirm := NewMenu(fmt.Sprintf("%s '%s'?", verb, row.Name), []MenuItem[bool]{
		{Label: "No", Value: false},
		{Label: "Yes", Value: true},
	}, true)
	answer, err := show[bool](a, confirm)
	if err != nil || !answer.Ok() || !answer.Value {
		return false, err
	}

	done, _, err := spin[bool](a, busy, func(ctx context.Context) (bool, error) {
		return call(ctx, row.NzoID), nil
	})
	if err != nil {
		return false, err
	}

	switch {
	case done.Outcome == Cancelled:
		err = a.notify(StatusWarn, MsgCancelled, row.Name)
	case !done.Ok():
		err = a.notify(StatusError, MsgRequestFailed, row.Name)
	case done.Value:
		err = a.notify(StatusSuccess, report(row.Name, true), "")
	default:
		err = a.notify(StatusError, report(row.Name, false), "")
	}
	return true, err
}

func (a *App) openURL(what, url string) error {
	if a.opener == nil {
		return a.alert(StatusError, "Cannot open "+what, url)
	}
	if err := a.opener.Open(url); err != nil {
		debuglog.Warnf("%v", wrapErr("open "+what, err))
		return a.alert(StatusError, "Cannot open "+what, err.Error())
	}
	return a.notify(StatusSuccess, "Opened "+what, url)
}

// IsInterrupted reports whether err is the ctrl+c unwind.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
