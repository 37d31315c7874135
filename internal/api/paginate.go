package api

import (
	"context"
	"net/url"
	"strconv"
)

// PageLimit is the page size FetchAll asks for.
const PageLimit = 100

// FetchAll walks offset/limit pages until the server hands back a short,
// empty or failed page. A failure mid-walk keeps what was collected so far.
func (c *Client) FetchAll(ctx context.Context, params url.Values, userAgent string) []FeedItem {
	var all []FeedItem
	for offset := 0; ; offset += PageLimit {
		if ctx.Err() != nil {
			return all
		}

		page := url.Values{}
		for k, vs := range params {
			page[k] = append([]string(nil), vs...)
		}
		page.Set("offset", strconv.Itoa(offset))
		page.Set("limit", strconv.Itoa(PageLimit))

		items, ok := c.GetItems(ctx, page, userAgent)
		if !ok || len(items) == 0 {
			return all
		}
		all = append(all, items...)
		if len(items) < PageLimit {
			return all
		}
	}
}
