package ingest

import "fmt"

// Status is the outcome of one url-file line.
type Status int

const (
	Success Status = iota
	FetchFailed
	ParseFailed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case FetchFailed:
		return "fetch-failed"
	case ParseFailed:
		return "parse-failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Stage names the pipeline stage a failure belongs to.
func (s Status) Stage() string {
	switch s {
	case FetchFailed:
		return "fetch"
	case ParseFailed:
		return "parse"
	default:
		return ""
	}
}

// Outcome records what happened to one line. URL is empty for skipped lines.
type Outcome struct {
	Line    int
	URL     string
	Status  Status
	Entries int
	Err     error
}

// Result collects per-line outcomes in file order.
type Result struct {
	RunID    string
	Outcomes []Outcome
}

// Failed returns the outcomes whose fetch or parse failed.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == FetchFailed || o.Status == ParseFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Fetched returns how many lines were fetched, parsed and reported.
func (r *Result) Fetched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == Success {
			n++
		}
	}
	return n
}

// URLFileError means the url-file could not be read. It is fatal to the run.
type URLFileError struct {
	Path string
	Err  error
}

func (e *URLFileError) Error() string {
	return fmt.Sprintf("read url file %s: %v", e.Path, e.Err)
}

func (e *URLFileError) Unwrap() error { return e.Err }

// OutputError means a report could not be written. The output sink is
// considered broken and the run stops.
type OutputError struct {
	URL string
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write report for %s: %v", e.URL, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
