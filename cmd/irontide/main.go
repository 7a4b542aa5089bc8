// Command irontide prints the feeds listed in a url file.
package main

import (
	"os"

	"github.com/irontide/irontide/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
