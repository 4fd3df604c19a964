// Command sync-upstream rebases the current fork onto its upstream remote and rebuilds it.
package main

import (
	"fmt"
	"os"

	"github.com/temirov/forksync/cmd/cli"
)

const (
	syncCommandNameConstant   = "sync"
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

func main() {
	if executionError := cli.ExecuteCommand(syncCommandNameConstant, os.Args[1:]...); executionError != nil {
		if !cli.ReportedOnConsole(executionError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(failureExitCodeConstant)
	}
}
