package rss

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrEmptyDocument is wrapped by ParseError when there is nothing to decode.
var ErrEmptyDocument = errors.New("empty document")

// Parser decodes RSS, Atom and JSON Feed documents. The dialect is detected by
// gofeed; a document either decodes fully or fails.
type Parser struct {
	fp *gofeed.Parser
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{fp: gofeed.NewParser()}
}

// Parse decodes data into a Feed. Failures are returned as *ParseError.
func (p *Parser) Parse(data []byte) (*Feed, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Err: ErrEmptyDocument}
	}

	gf, err := p.fp.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return convertFeed(gf), nil
}

// convertFeed maps a gofeed document onto Feed, keeping item order.
func convertFeed(gf *gofeed.Feed) *Feed {
	feed := &Feed{
		Title:   strings.TrimSpace(gf.Title),
		Link:    gf.Link,
		Entries: make([]Entry, 0, len(gf.Items)),
	}

	for _, item := range gf.Items {
		if item == nil {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		feed.Entries = append(feed.Entries, Entry{
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Published: published,
		})
	}
	return feed
}
