// Package ingest runs a url-file through fetch, parse and report, isolating
// failures per line.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/irontide/irontide/internal/logger"
	"github.com/irontide/irontide/internal/output"
	"github.com/irontide/irontide/internal/rss"
)

// Fetcher retrieves a raw feed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser decodes a raw feed document.
type Parser interface {
	Parse(data []byte) (*rss.Feed, error)
}

// Reporter renders a decoded feed.
type Reporter interface {
	Report(feed *rss.Feed) error
}

// Driver ingests url-files.
type Driver struct {
	fetcher  Fetcher
	parser   Parser
	reporter Reporter
	printer  *output.Printer
	log      *logger.Logger
	workers  int
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers sets how many lines are fetched and parsed concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n < 1 {
			n = 1
		}
		d.workers = n
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// New creates a Driver. Per-line failures are printed through printer.
func New(f Fetcher, p Parser, r Reporter, printer *output.Printer, opts ...Option) *Driver {
	d := &Driver{
		fetcher:  f,
		parser:   p,
		reporter: r,
		printer:  printer,
		log:      logger.Nop(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// slot carries one line's fetch/parse result to the in-order report loop.
type slot struct {
	feed *rss.Feed
	err  error
	done chan struct{}
}

// Ingest processes every line of the url-file at path.
//
// The file is read completely before the first fetch. Fetch and parse run on
// up to the configured number of workers; reports are written on the calling
// goroutine strictly in file order. A failed fetch or parse is printed and
// recorded, and the run moves on. Only an unreadable url-file (*URLFileError)
// or a failed report write (*OutputError) ends the run with an error; the
// partial Result is returned alongside an OutputError.
func (d *Driver) Ingest(ctx context.Context, path string) (*Result, error) {
	lines, err := rss.ReadURLFile(path)
	if err != nil {
		return nil, &URLFileError{Path: path, Err: err}
	}

	res := &Result{RunID: uuid.NewString(), Outcomes: make([]Outcome, 0, len(lines))}
	log := d.log.With("run", res.RunID)
	log.Infow("ingestion started", "url_file", path, "lines", len(lines), "workers", d.workers)
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]*slot, len(lines))
	for i, l := range lines {
		if !l.Skipped {
			slots[i] = &slot{done: make(chan struct{})}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	go func() {
		for i, l := range lines {
			s := slots[i]
			if s == nil {
				continue
			}
			url := l.URL
			g.Go(func() error {
				defer close(s.done)
				s.feed, s.err = d.retrieve(gctx, log, url)
				return nil
			})
		}
	}()

	var outErr error
	for i, l := range lines {
		if l.Skipped {
			res.Outcomes = append(res.Outcomes, Outcome{Line: l.Number, Status: Skipped})
			continue
		}
		s := slots[i]
		<-s.done

		o := d.outcome(l, s)
		if o.Status == Success {
			if err := d.reporter.Report(s.feed); err != nil {
				outErr = &OutputError{URL: l.URL, Err: err}
				break
			}
		} else {
			d.printer.Error("%s: %s failed: %v", l.URL, o.Status.Stage(), causeOf(o.Err))
			log.Warnw("line failed", "line", l.Number, "url", l.URL, "stage", o.Status.Stage(), "error", o.Err)
		}
		res.Outcomes = append(res.Outcomes, o)
	}

	if outErr != nil {
		cancel()
	}
	drain(g, slots)

	if outErr != nil {
		log.Errorw("ingestion aborted", "error", outErr)
		return res, outErr
	}

	log.Infow("ingestion finished",
		"fetched", res.Fetched(),
		"failed", len(res.Failed()),
		"elapsed", time.Since(start),
	)
	if failed := res.Failed(); len(failed) > 0 {
		d.renderSummary(failed, log)
	}
	return res, nil
}

// retrieve runs the fetch and parse stages for one URL.
func (d *Driver) retrieve(ctx context.Context, log *logger.Logger, url string) (*rss.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, &stageError{stage: FetchFailed, err: &rss.FetchError{URL: url, Err: err}}
	}
	log.Debugw("fetching", "url", url)
	data, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &stageError{stage: FetchFailed, err: err}
	}

	feed, err := d.parser.Parse(data)
	if err != nil {
		return nil, &stageError{stage: ParseFailed, err: err}
	}
	log.Debugw("parsed", "url", url, "title", feed.Title, "entries", len(feed.Entries))
	return feed, nil
}

func (d *Driver) outcome(l rss.Line, s *slot) Outcome {
	o := Outcome{Line: l.Number, URL: l.URL}
	var se *stageError
	if errors.As(s.err, &se) {
		o.Status = se.stage
		o.Err = se.err
		return o
	}
	o.Status = Success
	o.Entries = len(s.feed.Entries)
	return o
}

func (d *Driver) renderSummary(failed []Outcome, log *logger.Logger) {
	tbl := output.NewTable(d.printer.Writer(), []string{"Line", "URL", "Stage", "Error"})
	for _, o := range failed {
		tbl.AddRow([]string{strconv.Itoa(o.Line), o.URL, o.Status.Stage(), causeOf(o.Err).Error()})
	}
	if err := tbl.Render(); err != nil {
		log.Warnw("render failure summary", "error", err)
	}
}

// drain waits for every scheduled line. After an abort the context is
// canceled, so lines still queued return without fetching.
func drain(g *errgroup.Group, slots []*slot) {
	for _, s := range slots {
		if s != nil {
			<-s.done
		}
	}
	// Workers never return errors.
	_ = g.Wait()
}

// stageError tags a retrieval failure with the stage that produced it.
type stageError struct {
	stage Status
	err   error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %v", e.stage.Stage(), e.err)
}

func (e *stageError) Unwrap() error { return e.err }

// causeOf strips the URL prefix a FetchError carries, since the driver
// already prints the URL.
func causeOf(err error) error {
	var fe *rss.FetchError
	if errors.As(err, &fe) {
		return fe.Err
	}
	var pe *rss.ParseError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
