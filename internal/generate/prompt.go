package generate

import (
	"fmt"
	"strings"
)

const readmePromptFormat = `You are writing documentation for the repository %s.
Using the repository contents below, write a complete README.md in GitHub
flavored markdown. Cover the project purpose, installation, usage and
repository structure. Respond with the markdown document only.

%s`

const dockerPromptFormat = `You are preparing deployment files for the repository %s.
Using the repository contents below, produce a production Dockerfile, a
docker-compose.yml and an example .env file. Return each one in its own
fenced code block marked dockerfile, yaml and env.

%s`

// ReadmePrompt frames a packed repository document as a README request.
func ReadmePrompt(repoName string, repoContent string) string {
	return fmt.Sprintf(readmePromptFormat, repoName, repoContent)
}

// DockerPrompt frames a packed repository document as a deployment-file
// request, appending build hints when any were extracted.
func DockerPrompt(repoName string, repoContent string, hints BuildHints) string {
	prompt := fmt.Sprintf(dockerPromptFormat, repoName, repoContent)
	var hintParts []string
	if hints.ModulePath != "" {
		hintParts = append(hintParts, "module path "+hints.ModulePath)
	}
	if hints.GoVersion != "" {
		hintParts = append(hintParts, "Go version "+hints.GoVersion)
	}
	if len(hintParts) > 0 {
		prompt += "\nBuild hints: " + strings.Join(hintParts, ", ") + ".\n"
	}
	return prompt
}
