package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/irontide/irontide/internal/config"
	"github.com/irontide/irontide/internal/ingest"
	"github.com/irontide/irontide/internal/logger"
	"github.com/irontide/irontide/internal/network"
	"github.com/irontide/irontide/internal/output"
	"github.com/irontide/irontide/internal/rss"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// NewRootCommand returns the irontide command. The whole option set lives on
// the root command; there are no subcommands.
func NewRootCommand() *cobra.Command {
	a := &Args{}
	cmd := &cobra.Command{
		Use:   ProgramName + " [options]",
		Short: "Fetch the RSS/Atom feeds listed in a url file and print their entries",
		Long: `irontide reads feed URLs from a url file, one per line, fetches and parses
each feed and prints the feed title followed by its entry titles.

Blank lines and lines starting with '#' are ignored. A feed that cannot be
fetched or parsed is reported on stderr and the remaining feeds are still
processed.

Example usage:
  irontide -u urls.txt         # Print every feed listed in urls.txt
  irontide -u urls.txt -l 6    # Same, with debug logging on stderr
  irontide --version           # Print version information`,
		Args: func(_ *cobra.Command, args []string) error {
			return rejectPositional(args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		// cobra routes its hidden completion command through the root's
		// persistent hooks; irontide takes no commands.
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if c.HasParent() {
				return &ArgumentError{Option: c.Name(), Kind: UnexpectedArgument}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.record(cmd.Flags())
			return run(cmd.Context(), a, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().AddFlagSet(newFlagSet(a))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return classify(err)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		_ = PrintUsage(w)
		fmt.Fprintf(w, "\n%s\n", c.Long)
	})
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

// Execute runs irontide with the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes irontide with args (program name excluded) and returns the
// process exit code. Fatal errors are written to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", ProgramName, err)
		var ae *ArgumentError
		if errors.As(err, &ae) {
			fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", ProgramName)
		}
		return ExitFailure
	}
	return ExitSuccess
}

// run is the entry point body once the command line has parsed. --help is
// answered by cobra before run is reached.
func run(ctx context.Context, a *Args, stdout, stderr io.Writer) error {
	if a.Version {
		return PrintVersion(stdout)
	}

	settings, err := config.Load(config.DefaultPath(), Version)
	if err != nil {
		return err
	}

	verbosity := 0
	if a.LogLevel != nil {
		verbosity = *a.LogLevel
	}
	log, err := logger.New(logger.Config{Verbosity: verbosity, File: a.LogFile, Stderr: stderr})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	log.Infow("irontide starting", "version", Version, "pid", os.Getpid())
	defer log.Info("irontide stopped")

	mode, err := output.ParseColorMode(settings.Output.Color)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(stderr, output.ResolveColors(mode))

	for _, name := range a.InertOptions() {
		printer.Warning("option --%s is accepted but not implemented in this build", name)
		log.Warnw("option accepted but not implemented in this build", "option", "--"+name)
	}

	if a.URLFile == "" {
		log.Info("no url file given, nothing to do")
		return nil
	}

	factory, err := network.NewClientFactory(settings.Fetch.Proxy)
	if err != nil {
		return err
	}
	if p := factory.ProxyURL(); p != "" {
		log.Debugw("using proxy", "proxy", p)
	}
	client := factory.NewHTTPClient(time.Duration(settings.Fetch.TimeoutSeconds) * time.Second)

	d := ingest.New(
		rss.NewFetcher(client, settings.Fetch.UserAgent, settings.Fetch.MaxBodyBytes),
		rss.NewParser(),
		rss.NewReporter(stdout),
		printer,
		ingest.WithWorkers(settings.Fetch.Workers),
		ingest.WithLogger(log),
	)
	_, err = d.Ingest(ctx, a.URLFile)
	return err
}
