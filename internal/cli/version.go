package cli

import (
	"fmt"
	"io"
	"runtime"
)

const (
	// ProgramName is used in usage and version output.
	ProgramName = "irontide"
	// ProgramURL is the project home page.
	ProgramURL = "https://github.com/irontide/irontide"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// PrintVersion writes the version block shown by --version.
func PrintVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s - %s\nGo: %s\nSystem: %s/%s\n",
		ProgramName, Version, ProgramURL,
		runtime.Version(),
		runtime.GOOS, runtime.GOARCH,
	)
	return err
}

// PrintUsage writes the help text shown by --help.
func PrintUsage(w io.Writer) error {
	fs := newFlagSet(&Args{})
	_, err := fmt.Fprintf(w, "%s %s\nusage: %s [-i <file>|-e] [-u <urlfile>] [-c <cachefile>] [-x <command> ...] [-h]\n\n%s",
		ProgramName, Version, ProgramName, fs.FlagUsages())
	return err
}
