package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// gitDescribeArguments lists the describe invocations tried in order when the
// binary carries no embedded module version.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the gitscribe build version. Module build
// metadata wins; a git describe of the enclosing checkout covers development
// builds.
func GetApplicationVersion() string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if buildInformationAvailable && buildInformation.Main.Version != "" && buildInformation.Main.Version != "(devel)" {
		return buildInformation.Main.Version
	}
	repositoryRoot, repositoryRootError := locateRepositoryRoot(".")
	if repositoryRootError != nil {
		return unknownVersion
	}
	for _, describeArguments := range gitDescribeArguments {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryRoot
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// locateRepositoryRoot walks upward from startDirectory until it finds a
// directory containing .git.
func locateRepositoryRoot(startDirectory string) (string, error) {
	absoluteDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}
	currentDirectory := absoluteDirectory
	for {
		gitInformation, gitStatError := os.Stat(filepath.Join(currentDirectory, ".git"))
		if gitStatError == nil && gitInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", os.ErrNotExist
		}
		currentDirectory = parentDirectory
	}
}
