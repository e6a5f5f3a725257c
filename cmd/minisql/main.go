// Command minisql is the demo binary exercising the compiler pipeline: a
// one-shot "compile" command and an interactive "repl".
package main

import (
	"os"

	"github.com/omar-28-2/minisql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
