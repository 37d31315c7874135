package api

import (
	"fmt"
	"strings"
	"time"
)

// rssItem renders one Newznab item. size < 0 omits the enclosure.
func rssItem(title string, size int64, published time.Time) string {
	enclosure := ""
	if size >= 0 {
		enclosure = fmt.Sprintf(`<enclosure url="http://x/nzb" length="%d" type="application/x-nzb"/>`, size)
	}
	return fmt.Sprintf(`<item><title>%s</title><link>http://x/get/%s</link>%s<pubDate>%s</pubDate></item>`,
		title, strings.ReplaceAll(title, " ", "."), enclosure, published.Format(time.RFC1123Z))
}

func rssDoc(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:newznab="http://www.newznab.com/DTD/2010/feeds/attributes/"><channel><title>Quasarr</title>` +
		strings.Join(items, "") + `</channel></rss>`
}

func rssPage(prefix string, n int) string {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := make([]string, n)
	for i := range items {
		items[i] = rssItem(fmt.Sprintf("%s %03d", prefix, i), int64(i), base.Add(-time.Duration(i)*time.Hour))
	}
	return rssDoc(items...)
}
