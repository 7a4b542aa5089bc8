// Package cli implements irontide's command line: the argument model and the
// root command that wires it to feed ingestion.
package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/irontide/irontide/internal/logger"
)

// Args is the parsed command line. Path options hold the literal text given;
// nothing is checked against the filesystem until the option is used. An
// empty path means the option was not given.
type Args struct {
	ExportToOPML       bool
	ExportToOPML2      bool
	RefreshOnStart     bool
	ImportFromOPML     string
	URLFile            string
	CacheFile          string
	ConfigFile         string
	QueueFile          string
	SearchHistoryFile  string
	CmdlineHistoryFile string
	Vacuum             bool
	Execute            []string
	Quiet              bool
	Version            bool
	LogLevel           *int
	LogFile            string
	ExportToFile       string
	ImportFromFile     string
	Help               bool
	Cleanup            bool

	set []string // long names of every option given, sorted
}

// wiredOptions are the options this build acts upon.
var wiredOptions = map[string]bool{
	"url-file":  true,
	"help":      true,
	"version":   true,
	"log-level": true,
	"log-file":  true,
}

// InertOptions returns the long names of options that were given but have no
// behavior in this build.
func (a *Args) InertOptions() []string {
	var inert []string
	for _, name := range a.set {
		if !wiredOptions[name] {
			inert = append(inert, name)
		}
	}
	return inert
}

// ErrInvalidLogLevel is returned for any --log-level value that is not an
// integer in [1,6].
var ErrInvalidLogLevel = fmt.Errorf("log level must be an integer between %d and %d", logger.MinVerbosity, logger.MaxVerbosity)

// logLevelValue is a pflag.Value that validates the range on Set.
type logLevelValue struct {
	target **int
}

func (v logLevelValue) String() string {
	if v.target == nil || *v.target == nil {
		return ""
	}
	return strconv.Itoa(**v.target)
}

func (v logLevelValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ErrInvalidLogLevel
	}
	if n < logger.MinVerbosity || n > logger.MaxVerbosity {
		return ErrInvalidLogLevel
	}
	*v.target = &n
	return nil
}

func (v logLevelValue) Type() string { return "loglevel" }

// newFlagSet declares every option and binds it to a.
func newFlagSet(a *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet(ProgramName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&a.ExportToOPML, "export-to-opml", "e", false, "export OPML feed to stdout")
	fs.BoolVar(&a.ExportToOPML2, "export-to-opml2", false, "export OPML 2.0 feed including tags to stdout")
	fs.BoolVarP(&a.RefreshOnStart, "refresh-on-start", "r", false, "refresh feeds on start")
	fs.StringVarP(&a.ImportFromOPML, "import-from-opml", "i", "", "import OPML `file`")
	fs.StringVarP(&a.URLFile, "url-file", "u", "", "read RSS feed URLs from `file`")
	fs.StringVarP(&a.CacheFile, "cache-file", "c", "", "use `file` as cache file")
	fs.StringVarP(&a.ConfigFile, "config-file", "C", "", "read configuration from `file`")
	fs.StringVar(&a.QueueFile, "queue-file", "", "use `file` as podcast queue file")
	fs.StringVar(&a.SearchHistoryFile, "search-history-file", "", "save search history to `file`")
	fs.StringVar(&a.CmdlineHistoryFile, "cmdline-history-file", "", "save command-line history to `file`")
	fs.BoolVarP(&a.Vacuum, "vacuum", "X", false, "compact the cache")
	fs.StringArrayVarP(&a.Execute, "execute", "x", nil, "execute list of commands (repeatable)")
	fs.BoolVarP(&a.Quiet, "quiet", "q", false, "quiet startup")
	fs.BoolVarP(&a.Version, "version", "v", false, "print version information")
	fs.VarP(logLevelValue{target: &a.LogLevel}, "log-level", "l", "write a log with given log level (1-6)")
	fs.StringVarP(&a.LogFile, "log-file", "d", "", "use `file` as output log file")
	fs.StringVarP(&a.ExportToFile, "export-to-file", "E", "", "export list of read articles to `file`")
	fs.StringVarP(&a.ImportFromFile, "import-from-file", "I", "", "import list of read articles from `file`")
	fs.BoolVarP(&a.Help, "help", "h", false, "display help message")
	fs.BoolVar(&a.Cleanup, "cleanup", false, "remove unreferenced items from cache")
	return fs
}

// Parse builds Args from the arguments following the program name. Any
// failure is an *ArgumentError naming the offending option.
func Parse(argv []string) (*Args, error) {
	a := &Args{}
	fs := newFlagSet(a)
	if err := fs.Parse(argv); err != nil {
		return nil, classify(err)
	}
	if err := rejectPositional(fs.Args()); err != nil {
		return nil, err
	}
	a.record(fs)
	return a, nil
}

// record notes which options fs saw on the command line.
func (a *Args) record(fs *pflag.FlagSet) {
	a.set = a.set[:0]
	fs.Visit(func(f *pflag.Flag) {
		a.set = append(a.set, f.Name)
	})
	sort.Strings(a.set)
}

// rejectPositional fails on the first non-option argument.
func rejectPositional(rest []string) error {
	if len(rest) > 0 {
		return &ArgumentError{Option: rest[0], Kind: UnexpectedArgument}
	}
	return nil
}

// ErrorKind classifies an ArgumentError.
type ErrorKind string

const (
	UnknownOption      ErrorKind = "unknown option"
	MissingValue       ErrorKind = "missing value"
	InvalidValue       ErrorKind = "invalid value"
	BadSyntax          ErrorKind = "bad syntax"
	UnexpectedArgument ErrorKind = "unexpected argument"
)

// ArgumentError reports a command line that could not be turned into Args.
type ArgumentError struct {
	Option string // as written by the user, e.g. "--log-level" or "-z"
	Kind   ErrorKind
	Err    error
}

func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for %s: %v", e.Kind, e.Option, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Option)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// classify maps a pflag parse error onto an ArgumentError.
func classify(err error) *ArgumentError {
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return ae
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		return &ArgumentError{Option: strings.TrimPrefix(msg, "unknown flag: "), Kind: UnknownOption}
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		return &ArgumentError{Option: shorthandOption(strings.TrimPrefix(msg, "unknown shorthand flag: ")), Kind: UnknownOption}
	case strings.HasPrefix(msg, "flag needs an argument: "):
		rest := strings.TrimPrefix(msg, "flag needs an argument: ")
		if strings.HasPrefix(rest, "'") {
			rest = shorthandOption(rest)
		}
		return &ArgumentError{Option: rest, Kind: MissingValue}
	case strings.HasPrefix(msg, "invalid argument "):
		return &ArgumentError{Option: invalidArgumentOption(msg), Kind: InvalidValue, Err: err}
	case strings.HasPrefix(msg, "bad flag syntax: "):
		return &ArgumentError{Option: strings.TrimPrefix(msg, "bad flag syntax: "), Kind: BadSyntax}
	default:
		return &ArgumentError{Kind: InvalidValue, Err: err}
	}
}

// shorthandOption turns "'z' in -qz" into "-z".
func shorthandOption(s string) string {
	if len(s) >= 3 && s[0] == '\'' {
		if end := strings.IndexByte(s[1:], '\''); end > 0 {
			return "-" + s[1:1+end]
		}
	}
	return s
}

// invalidArgumentOption extracts the long name from
// `invalid argument "7" for "-l, --log-level" flag: ...`.
func invalidArgumentOption(msg string) string {
	const marker = ` for "`
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	name := msg[i+len(marker):]
	if j := strings.IndexByte(name, '"'); j >= 0 {
		name = name[:j]
	}
	if k := strings.LastIndex(name, ", "); k >= 0 {
		name = name[k+2:]
	}
	return name
}
