package rss

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRSS(t *testing.T) {
	feed, err := NewParser().Parse([]byte(testRSSFeed))
	require.NoError(t, err)

	assert.Equal(t, "Test Blog", feed.Title)
	assert.Equal(t, "https://example.com", feed.Link)
	require.Len(t, feed.Entries, 3)

	assert.Equal(t, "First post", feed.Entries[0].Title)
	assert.Equal(t, "https://example.com/post/1", feed.Entries[0].Link)
	assert.False(t, feed.Entries[0].Published.IsZero())

	assert.Equal(t, "", feed.Entries[1].Title)
	assert.Equal(t, "Third post", feed.Entries[2].Title)
}

func TestParseAtom(t *testing.T) {
	feed, err := NewParser().Parse([]byte(testAtomFeed))
	require.NoError(t, err)

	assert.Equal(t, "Atom Blog", feed.Title)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "Atom entry", feed.Entries[0].Title)
	assert.False(t, feed.Entries[0].Published.IsZero(), "updated date is used when no published date exists")
}

func TestParseUntitledFeed(t *testing.T) {
	doc := `<rss version="2.0"><channel><item><title>Only item</title></item></channel></rss>`
	feed, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "", feed.Title)
	require.Len(t, feed.Entries, 1)
}

func TestParseFailures(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"whitespace":  "  \n\t ",
		"not xml":     "not xml",
		"html page":   "<html><body>hello</body></html>",
		"broken rss":  `<rss version="2.0"><channel><title>x</title><item>`,
		"unknown xml": `<?xml version="1.0"?><catalog><book/></catalog>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			feed, err := NewParser().Parse([]byte(doc))
			require.Error(t, err)
			assert.Nil(t, feed)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
			var fe *FetchError
			assert.False(t, errors.As(err, &fe))
		})
	}
}

func TestParseEmptyIsErrEmptyDocument(t *testing.T) {
	_, err := NewParser().Parse(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
