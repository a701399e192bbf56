package repository

import "time"

// Entry represents a journal entry row keyed by date.
type Entry struct {
	ID        int64
	Date      string // YYYY-MM-DD
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Preview is the listing form of an entry.
type Preview struct {
	Date string
	Text string
}

const (
	// DefaultRecentLimit applies when ListRecent is given a non-positive limit.
	DefaultRecentLimit = 15
	// MaxRecentLimit caps ListRecent.
	MaxRecentLimit = 200
	// SearchLimit caps Search results.
	SearchLimit = 100
	previewRunes = 200
)

// Now returns UTC time at millisecond precision so that updated_at ordering
// survives several writes within one second. Tests may replace it.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
