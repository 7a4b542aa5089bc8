package rss

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// Line is one line of a url-file. Skipped lines are blank or start with '#'
// after trimming; URL is empty for them.
type Line struct {
	Number  int
	URL     string
	Skipped bool
}

// ReadURLFile reads the whole url-file at path and classifies every line.
// URLs are trimmed but neither validated nor deduplicated.
func ReadURLFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseURLList(data)
}

// ParseURLList splits url-file content into lines. A byte order mark at the
// start of the content is ignored.
func ParseURLList(data []byte) ([]Line, error) {
	var lines []Line

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if n == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			lines = append(lines, Line{Number: n, Skipped: true})
			continue
		}
		lines = append(lines, Line{Number: n, URL: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", n+1, err)
	}
	return lines, nil
}
