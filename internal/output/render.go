// Package output renders repository listings, reports and nested trees for
// the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/types"
	"github.com/temirov/gitscribe/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
)

// RenderJSON marshals a payload with the indentation every command shares.
func RenderJSON(payload interface{}) (string, error) {
	encoded, encodeErr := json.MarshalIndent(payload, indentPrefix, indentSpacer)
	if encodeErr != nil {
		return "", encodeErr
	}
	return string(encoded), nil
}

// BuildRepositoryReport folds a listing and a token estimate into the stats
// report shape.
func BuildRepositoryReport(repository string, entries []github.Entry, estimatedTokens int, tokenizerName string) *types.RepositoryReport {
	report := &types.RepositoryReport{
		Repository:      repository,
		EstimatedTokens: estimatedTokens,
		Tokenizer:       tokenizerName,
	}
	for _, entry := range entries {
		if entry.IsDirectory() {
			report.DirectoryCount++
			continue
		}
		report.FileCount++
		report.TotalSizeBytes += entry.SizeBytes
	}
	report.TotalSize = utils.FormatFileSize(report.TotalSizeBytes)
	return report
}

// RenderRepositoryReportText formats the stats report as labeled lines.
func RenderRepositoryReportText(report *types.RepositoryReport) string {
	var builder strings.Builder
	builder.WriteString("Repository: " + report.Repository + "\n")
	fmt.Fprintf(&builder, "Files: %d\n", report.FileCount)
	fmt.Fprintf(&builder, "Directories: %d\n", report.DirectoryCount)
	builder.WriteString("Total size: " + report.TotalSize + "\n")
	if report.Tokenizer != "" {
		fmt.Fprintf(&builder, "Estimated tokens: %d (%s)\n", report.EstimatedTokens, report.Tokenizer)
		return builder.String()
	}
	fmt.Fprintf(&builder, "Estimated tokens: %d\n", report.EstimatedTokens)
	return builder.String()
}

// RenderRepositoriesText lists repositories one per line with visibility,
// language and star annotations.
func RenderRepositoriesText(repositories []github.Repository) string {
	var builder strings.Builder
	for _, repository := range repositories {
		builder.WriteString(repository.FullName)
		if repository.Private {
			builder.WriteString(" (private)")
		}
		if repository.Language != "" {
			builder.WriteString(" [" + repository.Language + "]")
		}
		if repository.Stars > 0 {
			fmt.Fprintf(&builder, " %d stars", repository.Stars)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
