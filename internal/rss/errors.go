package rss

import "fmt"

// FetchError reports a failed retrieval of URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a document that could not be decoded as a feed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
