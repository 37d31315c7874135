package api

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed/rss"
)

// ErrIncompleteItem means an <item> lacked title, link or pubDate.
var ErrIncompleteItem = errors.New("incomplete item")

// ParseItems reads a Newznab RSS document. A single incomplete item fails
// the whole document.
func ParseItems(r io.Reader) ([]FeedItem, error) {
	feed, err := (&rss.Parser{}).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for i, raw := range feed.Items {
		if raw.Title == "" || raw.Link == "" || raw.PubDate == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrIncompleteItem)
		}

		item := FeedItem{
			Title:   raw.Title,
			Link:    raw.Link,
			PubDate: raw.PubDate,
			Size:    enclosureLength(raw),
		}
		if raw.PubDateParsed != nil {
			item.Published = *raw.PubDateParsed
		}
		items = append(items, item)
	}
	return items, nil
}

func enclosureLength(item *rss.Item) int64 {
	if item.Enclosure == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(item.Enclosure.Length), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
