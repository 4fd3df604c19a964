package build

import (
	"fmt"
	"strings"
)

const (
	stepAnnouncementTemplateConstant = "Step %d/%d: %s %s"
	installSubcommandConstant        = "install"
	runSubcommandConstant            = "run"
	buildScriptConstant              = "build"
	bundleScriptConstant             = "bundle"
	installFailureMessageConstant    = "Failed to install dependencies."
	buildFailureMessageConstant      = "Failed to build packages."
	bundleFailureMessageConstant     = "Failed to create bundle."
)

// StepName identifies a build step.
type StepName string

// Supported build steps.
const (
	StepInstall StepName = "install"
	StepBuild   StepName = "build"
	StepBundle  StepName = "bundle"
)

// Step describes one package manager invocation of the build sequence.
type Step struct {
	Name           StepName
	Arguments      []string
	FailureMessage string
}

// Announcement renders the progress line printed before the step runs.
func (step Step) Announcement(position int, total int, packageManager string) string {
	return fmt.Sprintf(stepAnnouncementTemplateConstant, position, total, packageManager, strings.Join(step.Arguments, " "))
}

// Steps returns the ordered build sequence.
func Steps() []Step {
	return []Step{
		{Name: StepInstall, Arguments: []string{installSubcommandConstant}, FailureMessage: installFailureMessageConstant},
		{Name: StepBuild, Arguments: []string{runSubcommandConstant, buildScriptConstant}, FailureMessage: buildFailureMessageConstant},
		{Name: StepBundle, Arguments: []string{runSubcommandConstant, bundleScriptConstant}, FailureMessage: bundleFailureMessageConstant},
	}
}
