package generate

import "testing"

func TestSplitDockerArtifacts(t *testing.T) {
	generated := "Here are the deployment files.\n" +
		"```dockerfile\nFROM golang:1.24\nCOPY . .\n```\n" +
		"The compose file:\n" +
		"```yaml\nservices:\n  app:\n    build: .\n```\n" +
		"```env\nPORT=8080\n```\n"
	artifacts := SplitDockerArtifacts(generated)
	if artifacts.Dockerfile != "FROM golang:1.24\nCOPY . ." {
		t.Fatalf("unexpected dockerfile %q", artifacts.Dockerfile)
	}
	if artifacts.Compose != "services:\n  app:\n    build: ." {
		t.Fatalf("unexpected compose %q", artifacts.Compose)
	}
	if artifacts.Environment != "PORT=8080" {
		t.Fatalf("unexpected environment %q", artifacts.Environment)
	}
}

func TestSplitDockerArtifactsMissingSections(t *testing.T) {
	artifacts := SplitDockerArtifacts("no fenced blocks here")
	if artifacts.Dockerfile != "" || artifacts.Compose != "" || artifacts.Environment != "" {
		t.Fatalf("expected empty artifacts, got %+v", artifacts)
	}
}

func TestSplitDockerArtifactsUnterminatedBlock(t *testing.T) {
	artifacts := SplitDockerArtifacts("```dockerfile\nFROM scratch")
	if artifacts.Dockerfile != "FROM scratch" {
		t.Fatalf("expected unterminated block content, got %q", artifacts.Dockerfile)
	}
}
