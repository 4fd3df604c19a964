// Command rebuild installs dependencies, builds, and bundles the project in the current directory.
package main

import (
	"fmt"
	"os"

	"github.com/temirov/forksync/cmd/cli"
)

const (
	buildCommandNameConstant  = "build"
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

func main() {
	if executionError := cli.ExecuteCommand(buildCommandNameConstant, os.Args[1:]...); executionError != nil {
		if !cli.ReportedOnConsole(executionError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(failureExitCodeConstant)
	}
}
