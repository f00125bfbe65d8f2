package feed

import (
	"time"
)

// TimestampLayout is the destination's date format.
const TimestampLayout = "2006-01-02 15:04:05"

// Blog is a parsed source feed. Entries keep document order (newest first for Blogger).
type Blog struct {
	Title   string
	Entries []Entry
}

type Entry struct {
	Title       string
	PublishedAt time.Time // second precision, in the configured zone
	Body        string    // HTML
	Labels      []string  // authoring order
}

// Timestamp formats PublishedAt for the destination.
func (e Entry) Timestamp() string {
	return e.PublishedAt.Format(TimestampLayout)
}
