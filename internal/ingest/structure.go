package ingest

import (
	"sort"
	"strings"

	"github.com/temirov/gitscribe/internal/github"
)

const (
	structureHeaderLine = "Directory structure:"
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	indentUnit          = "    "
	directorySuffix     = "/"
)

// SortEntries orders a listing for rendering: a directory sorts before a file
// when the kinds differ, otherwise paths compare lexicographically. The input
// slice is left untouched.
func SortEntries(entries []github.Entry) []github.Entry {
	sorted := make([]github.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(left, right int) bool {
		if sorted[left].Kind != sorted[right].Kind {
			return sorted[left].IsDirectory()
		}
		return sorted[left].Path < sorted[right].Path
	})
	return sorted
}

// RenderStructure produces the indented tree listing for a repository. Each
// entry indents four spaces per nesting level. Only the final entry carries
// the end-cap connector; every other entry uses the branch connector
// regardless of its position within its own directory.
func RenderStructure(reference github.RepoRef, entries []github.Entry) string {
	sorted := SortEntries(entries)
	var builder strings.Builder
	builder.WriteString(structureHeaderLine)
	builder.WriteByte('\n')
	builder.WriteString(treeLastConnector)
	builder.WriteString(reference.Name)
	builder.WriteString(directorySuffix)
	builder.WriteByte('\n')
	for index, entry := range sorted {
		connector := treeBranchConnector
		if index == len(sorted)-1 {
			connector = treeLastConnector
		}
		builder.WriteString(strings.Repeat(indentUnit, entry.Depth()))
		builder.WriteString(connector)
		builder.WriteString(entry.Name)
		if entry.IsDirectory() {
			builder.WriteString(directorySuffix)
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}
