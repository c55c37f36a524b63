package generate

import (
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/temirov/gitscribe/internal/ingest"
)

const goModFileHeader = "FILE: go.mod\n"

// BuildHints carries facts sniffed from a packed repository document that
// sharpen deployment-file generation.
type BuildHints struct {
	ModulePath string
	GoVersion  string
}

// ExtractBuildHints looks for a root go.mod section inside an aggregated
// document and parses the module path and Go version out of it. Documents
// without a readable go.mod yield zero hints.
func ExtractBuildHints(document string) BuildHints {
	section := documentSection(document, goModFileHeader)
	if section == "" {
		return BuildHints{}
	}
	parsed, parseErr := modfile.ParseLax("go.mod", []byte(section), nil)
	if parseErr != nil {
		return BuildHints{}
	}
	hints := BuildHints{}
	if parsed.Module != nil {
		hints.ModulePath = parsed.Module.Mod.Path
	}
	if parsed.Go != nil {
		hints.GoVersion = parsed.Go.Version
	}
	return hints
}

func documentSection(document string, fileHeader string) string {
	marker := ingest.SectionDelimiter + "\n" + fileHeader + ingest.SectionDelimiter + "\n"
	start := strings.Index(document, marker)
	if start < 0 {
		return ""
	}
	body := document[start+len(marker):]
	if end := strings.Index(body, "\n\n"+ingest.SectionDelimiter+"\n"); end >= 0 {
		return body[:end]
	}
	return strings.TrimSuffix(body, "\n\n")
}
