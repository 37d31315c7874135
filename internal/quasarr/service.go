package quasarr

import (
	"context"
	"net/url"
	"strings"

	"github.com/pders01/qtui/internal/api"
	"github.com/pders01/qtui/internal/debuglog"
)

const (
	captchaPath = "/captcha"
	failPath    = "/sponsors_helper/api/fail/"
)

// Client is the slice of api.Client the service needs.
type Client interface {
	GetJSON(ctx context.Context, params url.Values, userAgent string, v any) bool
	GetItems(ctx context.Context, params url.Values, userAgent string) ([]api.FeedItem, bool)
	FetchAll(ctx context.Context, params url.Values, userAgent string) []api.FeedItem
	DeleteJSON(ctx context.Context, path string, params url.Values, body any, userAgent string) bool
	BaseURL() string
}

// Service implements the Quasarr operations on top of a Client. Every
// failure collapses into an empty or false result; the cause is in the
// debug log.
type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

// ListDownloads returns the queue and history slots. Either may be empty.
func (s *Service) ListDownloads(ctx context.Context) ([]api.QueueItem, []api.HistoryItem) {
	var queue api.QueueResponse
	var history api.HistoryResponse

	s.client.GetJSON(ctx, url.Values{"mode": {"queue"}}, UAMovie, &queue)
	if ctx.Err() != nil {
		return queue.Queue.Slots, nil
	}
	s.client.GetJSON(ctx, url.Values{"mode": {"history"}}, UAMovie, &history)
	return queue.Queue.Slots, history.History.Slots
}

// Feed returns the first page of a category feed.
func (s *Service) Feed(ctx context.Context, kind Kind) ([]api.FeedItem, bool) {
	params := url.Values{
		"t":   {kind.searchType()},
		"cat": {kind.newznabCategory()},
	}
	return s.client.GetItems(ctx, params, kind.UserAgent())
}

// SearchMovie looks a movie up by IMDb id across all pages.
func (s *Service) SearchMovie(ctx context.Context, imdbID string) []api.FeedItem {
	params := url.Values{
		"t":      {KindMovie.searchType()},
		"imdbid": {imdbID},
		"cat":    {KindMovie.newznabCategory()},
	}
	return s.client.FetchAll(ctx, params, UAMovie)
}

// SearchTV looks a show up by IMDb id. Empty season or episode are left out.
func (s *Service) SearchTV(ctx context.Context, imdbID, season, episode string) []api.FeedItem {
	params := url.Values{
		"t":      {KindTV.searchType()},
		"imdbid": {imdbID},
		"cat":    {KindTV.newznabCategory()},
	}
	if season = strings.TrimSpace(season); season != "" {
		params.Set("season", season)
	}
	if episode = strings.TrimSpace(episode); episode != "" {
		params.Set("ep", episode)
	}
	return s.client.FetchAll(ctx, params, UATV)
}

// SearchDoc searches documentaries by free-text title.
func (s *Service) SearchDoc(ctx context.Context, title string) []api.FeedItem {
	params := url.Values{
		"t":     {KindDoc.searchType()},
		"title": {title},
		"cat":   {KindDoc.newznabCategory()},
	}
	return s.client.FetchAll(ctx, params, UADoc)
}

// AddDownload hands link to the server. title only feeds the log.
func (s *Service) AddDownload(ctx context.Context, title, link string, cat Category) bool {
	params := url.Values{
		"mode": {"addurl"},
		"name": {link},
	}
	if cat != CategoryNone {
		params.Set("cat", string(cat))
	}
	return s.status(ctx, params, cat.UserAgent(), "add "+title)
}

// Delete removes a queue or history entry.
func (s *Service) Delete(ctx context.Context, nzoID string) bool {
	params := url.Values{
		"mode":  {"queue"},
		"name":  {"delete"},
		"value": {nzoID},
	}
	return s.status(ctx, params, UAMovie, "delete "+nzoID)
}

// MarkFailed tells the sponsors helper to give up on a package.
func (s *Service) MarkFailed(ctx context.Context, nzoID string) bool {
	body := struct {
		PackageID string `json:"package_id"`
	}{PackageID: nzoID}
	return s.client.DeleteJSON(ctx, failPath, nil, body, UAMovie)
}

func (s *Service) status(ctx context.Context, params url.Values, userAgent, what string) bool {
	var resp api.StatusResponse
	if !s.client.GetJSON(ctx, params, userAgent, &resp) {
		return false
	}
	if !resp.Status {
		debuglog.Infof("server refused %s", what)
	}
	return resp.Status
}

// WebURL is the server's own web interface.
func (s *Service) WebURL() string {
	return s.client.BaseURL()
}

// CaptchaURL is where pending CAPTCHAs are solved.
func (s *Service) CaptchaURL() string {
	return s.client.BaseURL() + captchaPath
}
