package generate

import (
	"testing"

	"github.com/temirov/gitscribe/internal/ingest"
)

func packedSection(filePath string, content string) string {
	return ingest.SectionDelimiter + "\nFILE: " + filePath + "\n" + ingest.SectionDelimiter + "\n" + content + "\n\n"
}

func TestExtractBuildHints(t *testing.T) {
	document := "Repository: acme/widget\n\n" +
		packedSection("go.mod", "module example.com/widget\n\ngo 1.24.0") +
		packedSection("main.go", "package main")
	hints := ExtractBuildHints(document)
	if hints.ModulePath != "example.com/widget" {
		t.Fatalf("expected module path example.com/widget, got %q", hints.ModulePath)
	}
	if hints.GoVersion != "1.24.0" {
		t.Fatalf("expected Go version 1.24.0, got %q", hints.GoVersion)
	}
}

func TestExtractBuildHintsLastSection(t *testing.T) {
	document := "Repository: acme/widget\n\n" +
		packedSection("main.go", "package main") +
		packedSection("go.mod", "module example.com/widget\n\ngo 1.24.0")
	hints := ExtractBuildHints(document)
	if hints.ModulePath != "example.com/widget" {
		t.Fatalf("expected module path example.com/widget, got %q", hints.ModulePath)
	}
}

func TestExtractBuildHintsWithoutGoMod(t *testing.T) {
	document := "Repository: acme/widget\n\n" + packedSection("main.py", "print('hi')")
	hints := ExtractBuildHints(document)
	if hints.ModulePath != "" || hints.GoVersion != "" {
		t.Fatalf("expected zero hints, got %+v", hints)
	}
}

func TestExtractBuildHintsIgnoresNestedGoMod(t *testing.T) {
	document := "Repository: acme/widget\n\n" +
		packedSection("backend/go.mod", "module example.com/backend\n\ngo 1.24.0")
	hints := ExtractBuildHints(document)
	if hints.ModulePath != "" {
		t.Fatalf("expected no hints from nested go.mod, got %+v", hints)
	}
}
