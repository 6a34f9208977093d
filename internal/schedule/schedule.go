// ABOUTME: Drip-feed publish scheduling for articles in sheet order
// ABOUTME: Releases a fixed batch of articles per calendar day from a start date

package schedule

import "time"

// DefaultBatchSize is the number of articles released per day.
const DefaultBatchSize = 3

// PublishDate returns start plus floor(seq/batchSize) calendar days.
// The time of day and location of start are preserved. A batchSize below 1
// is treated as 1.
func PublishDate(seq int, start time.Time, batchSize int) time.Time {
	if batchSize < 1 {
		batchSize = 1
	}
	if seq < 0 {
		seq = 0
	}
	return start.AddDate(0, 0, seq/batchSize)
}

// IsVisible reports whether something published at publishDate is live at now.
func IsVisible(publishDate, now time.Time) bool {
	return !publishDate.After(now)
}

// NextRelease returns the first publish date after now for a feed of total
// articles, and false when every article is already live.
func NextRelease(total int, start time.Time, batchSize int, now time.Time) (time.Time, bool) {
	if batchSize < 1 {
		batchSize = 1
	}
	for seq := 0; seq < total; seq += batchSize {
		d := PublishDate(seq, start, batchSize)
		if d.After(now) {
			return d, true
		}
	}
	return time.Time{}, false
}
