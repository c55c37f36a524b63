package output

import (
	"testing"

	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/types"
)

func TestBuildRepositoryReport(t *testing.T) {
	t.Parallel()

	entries := []github.Entry{
		{Name: "docs", Path: "docs", Kind: github.EntryKindDirectory},
		{Name: "a.md", Path: "docs/a.md", Kind: github.EntryKindFile, SizeBytes: 1024},
		{Name: "b.md", Path: "docs/b.md", Kind: github.EntryKindFile, SizeBytes: 512},
	}

	report := BuildRepositoryReport("acme/widget", entries, 920, "heuristic")

	if report.Repository != "acme/widget" {
		t.Fatalf("expected repository acme/widget, got %q", report.Repository)
	}
	if report.FileCount != 2 || report.DirectoryCount != 1 {
		t.Fatalf("expected 2 files and 1 directory, got %d and %d", report.FileCount, report.DirectoryCount)
	}
	if report.TotalSizeBytes != 1536 || report.TotalSize != "1.5kb" {
		t.Fatalf("expected total size 1.5kb, got %q (%d)", report.TotalSize, report.TotalSizeBytes)
	}
	if report.EstimatedTokens != 920 || report.Tokenizer != "heuristic" {
		t.Fatalf("unexpected token fields: %+v", report)
	}
}

func TestRenderRepositoryReportText(t *testing.T) {
	t.Parallel()

	report := &types.RepositoryReport{
		Repository:      "acme/widget",
		FileCount:       23,
		DirectoryCount:  4,
		TotalSize:       "1.5kb",
		EstimatedTokens: 920,
		Tokenizer:       "heuristic",
	}

	expected := "Repository: acme/widget\n" +
		"Files: 23\n" +
		"Directories: 4\n" +
		"Total size: 1.5kb\n" +
		"Estimated tokens: 920 (heuristic)\n"
	if rendered := RenderRepositoryReportText(report); rendered != expected {
		t.Fatalf("expected %q, got %q", expected, rendered)
	}
}

func TestRenderRepositoriesText(t *testing.T) {
	t.Parallel()

	repositories := []github.Repository{
		{FullName: "acme/widget", Private: true, Language: "Go", Stars: 12},
		{FullName: "acme/site"},
	}

	expected := "acme/widget (private) [Go] 12 stars\nacme/site\n"
	if rendered := RenderRepositoriesText(repositories); rendered != expected {
		t.Fatalf("expected %q, got %q", expected, rendered)
	}
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	node := &types.TreeNode{Path: "acme/widget", Name: "widget", Type: types.NodeTypeDirectory}
	rendered, renderErr := RenderJSON(node)
	if renderErr != nil {
		t.Fatalf("render json: %v", renderErr)
	}
	expected := "{\n  \"path\": \"acme/widget\",\n  \"name\": \"widget\",\n  \"type\": \"directory\"\n}"
	if rendered != expected {
		t.Fatalf("expected %q, got %q", expected, rendered)
	}
}
