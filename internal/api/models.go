package api

import "time"

// FeedItem is one <item> of a Newznab RSS response.
type FeedItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Size    int64  `json:"size"`
	PubDate string `json:"pubdate"`
	// Published is PubDate parsed; zero when the server sent something odd.
	Published time.Time `json:"-"`
}

// SizeBytes reports the enclosure length.
func (i FeedItem) SizeBytes() float64 { return float64(i.Size) }

// QueueItem is a slot of the download queue.
type QueueItem struct {
	Filename string `json:"filename"`
	NzoID    string `json:"nzo_id"`
	Status   string `json:"status"`
	Size     Number `json:"size"`
	TimeLeft string `json:"timeleft"`
}

// HistoryItem is a slot of the download history.
type HistoryItem struct {
	Name      string `json:"name"`
	NzoID     string `json:"nzo_id"`
	Status    string `json:"status"`
	Size      Number `json:"size"`
	Completed Number `json:"completed"`
}

// QueueResponse is the mode=queue reply.
type QueueResponse struct {
	Queue struct {
		Slots []QueueItem `json:"slots"`
	} `json:"queue"`
}

// HistoryResponse is the mode=history reply.
type HistoryResponse struct {
	History struct {
		Slots []HistoryItem `json:"slots"`
	} `json:"history"`
}

// StatusResponse is the reply to addurl and delete.
type StatusResponse struct {
	Status bool `json:"status"`
}
