package generate

import "strings"

const (
	fenceDockerfile = "```dockerfile"
	fenceYAML       = "```yaml"
	fenceEnv        = "```env"
	fenceClose      = "```"
)

// DockerArtifacts holds the sections split out of a generated deployment
// bundle. Sections the generator did not produce stay empty.
type DockerArtifacts struct {
	Dockerfile  string `json:"dockerfile,omitempty"`
	Compose     string `json:"compose,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// SplitDockerArtifacts extracts the first dockerfile, yaml and env fenced
// blocks from generated text.
func SplitDockerArtifacts(generated string) DockerArtifacts {
	return DockerArtifacts{
		Dockerfile:  firstFencedBlock(generated, fenceDockerfile),
		Compose:     firstFencedBlock(generated, fenceYAML),
		Environment: firstFencedBlock(generated, fenceEnv),
	}
}

func firstFencedBlock(text string, fence string) string {
	start := strings.Index(text, fence)
	if start < 0 {
		return ""
	}
	rest := text[start+len(fence):]
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		return ""
	}
	rest = rest[newline+1:]
	end := strings.Index(rest, fenceClose)
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}
