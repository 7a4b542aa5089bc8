// Package rss retrieves, decodes and renders RSS/Atom feeds.
package rss

import "time"

// Feed is a decoded syndication document. Empty strings mean the field was
// absent in the source; entries keep document order.
type Feed struct {
	Title   string
	Link    string
	Entries []Entry
}

// Entry is one item of a Feed.
type Entry struct {
	Title     string
	Link      string
	Published time.Time
}
