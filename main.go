package main

import (
	"fmt"
	"os"

	"github.com/temirov/forksync/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main executes the forksync command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		if !cli.ReportedOnConsole(executionError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(failureExitCodeConstant)
	}
}
