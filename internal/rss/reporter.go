package rss

import (
	"bufio"
	"io"
)

// Reporter renders feed summaries as plain text.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes "# <feed title>" followed by "- <entry title>" for every
// titled entry, in feed order. Untitled feeds get no heading and untitled
// entries are skipped. The only possible error is a write failure.
func (r *Reporter) Report(feed *Feed) error {
	bw := bufio.NewWriter(r.w)

	if feed.Title != "" {
		if _, err := bw.WriteString("# " + feed.Title + "\n"); err != nil {
			return err
		}
	}
	for _, e := range feed.Entries {
		if e.Title == "" {
			continue
		}
		if _, err := bw.WriteString("- " + e.Title + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
