package rss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURLList(t *testing.T) {
	content := "# comment\n\nhttps://a.example/feed.xml\n   https://b.example/feed.xml  \n\t# indented comment\n"
	lines, err := ParseURLList([]byte(content))
	require.NoError(t, err)

	require.Len(t, lines, 5)
	assert.Equal(t, Line{Number: 1, Skipped: true}, lines[0])
	assert.Equal(t, Line{Number: 2, Skipped: true}, lines[1])
	assert.Equal(t, Line{Number: 3, URL: "https://a.example/feed.xml"}, lines[2])
	assert.Equal(t, Line{Number: 4, URL: "https://b.example/feed.xml"}, lines[3])
	assert.Equal(t, Line{Number: 5, Skipped: true}, lines[4])
}

func TestParseURLListKeepsDuplicates(t *testing.T) {
	lines, err := ParseURLList([]byte("https://a.example/\r\nhttps://a.example/\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Number: 1, URL: "https://a.example/"},
		{Number: 2, URL: "https://a.example/"},
	}, lines)
}

func TestParseURLListEmpty(t *testing.T) {
	lines, err := ParseURLList(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseURLListLineTooLong(t *testing.T) {
	_, err := ParseURLList([]byte(strings.Repeat("a", 2*1024*1024)))
	assert.Error(t, err)
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls")
	require.NoError(t, os.WriteFile(path, []byte("https://a.example/feed.xml\n"), 0644))

	lines, err := ReadURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Line{{Number: 1, URL: "https://a.example/feed.xml"}}, lines)
}

func TestParseURLListByteOrderMark(t *testing.T) {
	lines, err := ParseURLList([]byte("\ufeff# my feeds\nhttps://a.example/feed.xml\n"))
	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Number: 1, Skipped: true},
		{Number: 2, URL: "https://a.example/feed.xml"},
	}, lines)

	lines, err = ParseURLList([]byte("\ufeffhttps://a.example/feed.xml\n"))
	require.NoError(t, err)
	assert.Equal(t, []Line{{Number: 1, URL: "https://a.example/feed.xml"}}, lines)
}

func TestReadURLFileMissing(t *testing.T) {
	_, err := ReadURLFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
