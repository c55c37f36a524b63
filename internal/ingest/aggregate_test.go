package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/temirov/gitscribe/internal/github"
)

type stubContentSource struct {
	entries       []github.Entry
	contents      map[string]string
	failures      map[string]error
	credentialErr error
	delays        map[string]time.Duration
}

func (source stubContentSource) EnsureCredential() error {
	return source.credentialErr
}

func (source stubContentSource) ListEntries(ctx context.Context, reference github.RepoRef, rootPath string) ([]github.Entry, error) {
	return source.entries, nil
}

func (source stubContentSource) FileContent(ctx context.Context, reference github.RepoRef, filePath string) (string, error) {
	if delay, ok := source.delays[filePath]; ok {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if failure, ok := source.failures[filePath]; ok {
		return "", failure
	}
	content, ok := source.contents[filePath]
	if !ok {
		return "", github.ErrEmptyContent
	}
	return content, nil
}

func fileEntry(path string) github.Entry {
	name := path
	if separator := strings.LastIndex(path, "/"); separator >= 0 {
		name = path[separator+1:]
	}
	return github.Entry{Name: name, Path: path, Kind: github.EntryKindFile}
}

func directoryEntry(path string) github.Entry {
	name := path
	if separator := strings.LastIndex(path, "/"); separator >= 0 {
		name = path[separator+1:]
	}
	return github.Entry{Name: name, Path: path, Kind: github.EntryKindDirectory}
}

func fileSectionText(path string, body string) string {
	return SectionDelimiter + "\n" + fileHeaderPrefix + path + "\n" + SectionDelimiter + "\n" + body + "\n\n"
}

func TestAggregateEntriesSingleFileByteExact(t *testing.T) {
	source := stubContentSource{contents: map[string]string{"x.txt": "hello"}}
	aggregator := NewAggregator(source)
	document, aggregateErr := aggregator.AggregateEntries(
		context.Background(),
		github.RepoRef{Owner: "owner", Name: "repo"},
		[]github.Entry{fileEntry("x.txt")},
	)
	if aggregateErr != nil {
		t.Fatalf("AggregateEntries error: %v", aggregateErr)
	}
	expected := "Repository: owner/repo\n\n" + fileSectionText("x.txt", "hello")
	if document != expected {
		t.Fatalf("expected document %q, got %q", expected, document)
	}
}

func TestAggregateEntriesEmbedsPlaceholders(t *testing.T) {
	testCases := []struct {
		name        string
		failure     error
		placeholder string
	}{
		{
			name:        "missing file",
			failure:     github.NewContentError("broken.txt", http.StatusNotFound),
			placeholder: "[Error: Could not fetch file content - 404]",
		},
		{
			name:        "undecodable content",
			failure:     github.NewDecodeError("broken.txt", errors.New("illegal base64 data")),
			placeholder: "[Binary file or encoding error]",
		},
		{
			name:        "empty payload",
			failure:     github.ErrEmptyContent,
			placeholder: "[Empty file or could not decode content]",
		},
		{
			name:        "network failure",
			failure:     errors.New("connection reset"),
			placeholder: "[Error: Could not fetch file content]",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			source := stubContentSource{
				contents: map[string]string{"ok.txt": "fine"},
				failures: map[string]error{"broken.txt": testCase.failure},
			}
			document, aggregateErr := NewAggregator(source).AggregateEntries(
				context.Background(),
				github.RepoRef{Owner: "owner", Name: "repo"},
				[]github.Entry{fileEntry("broken.txt"), fileEntry("ok.txt")},
			)
			if aggregateErr != nil {
				t.Fatalf("AggregateEntries error: %v", aggregateErr)
			}
			expected := "Repository: owner/repo\n\n" +
				fileSectionText("broken.txt", testCase.placeholder) +
				fileSectionText("ok.txt", "fine")
			if document != expected {
				t.Fatalf("expected document %q, got %q", expected, document)
			}
		})
	}
}

func TestAggregateEntriesKeepsListingOrder(t *testing.T) {
	const fileCount = 12
	entries := make([]github.Entry, 0, fileCount)
	contents := map[string]string{}
	delays := map[string]time.Duration{}
	for index := 0; index < fileCount; index++ {
		name := fmt.Sprintf("file%02d.txt", index)
		entries = append(entries, fileEntry(name))
		contents[name] = fmt.Sprintf("content %02d", index)
		delays[name] = time.Duration(fileCount-index) * 3 * time.Millisecond
	}
	source := stubContentSource{contents: contents, delays: delays}
	document, aggregateErr := NewAggregator(source).WithConcurrency(4).AggregateEntries(
		context.Background(),
		github.RepoRef{Owner: "owner", Name: "repo"},
		entries,
	)
	if aggregateErr != nil {
		t.Fatalf("AggregateEntries error: %v", aggregateErr)
	}
	previousPosition := -1
	for index := 0; index < fileCount; index++ {
		position := strings.Index(document, fmt.Sprintf("content %02d", index))
		if position < 0 {
			t.Fatalf("missing section for file %02d", index)
		}
		if position < previousPosition {
			t.Fatalf("section for file %02d appears out of listing order", index)
		}
		previousPosition = position
	}
}

func TestAggregateEntriesAppliesRules(t *testing.T) {
	source := stubContentSource{contents: map[string]string{
		"main.go":       "package main\n// drop me\nfunc main() {}",
		"notes.md":      "notes",
		"vendor/dep.go": "dependency",
	}}
	rules := RuleSet{
		IncludeExtensions: []string{"go"},
		SkipDirectory:     "^vendor$",
		DropExpressions:   []string{"^// drop"},
	}
	document, aggregateErr := NewAggregator(source).WithRules(rules).AggregateEntries(
		context.Background(),
		github.RepoRef{Owner: "owner", Name: "repo"},
		[]github.Entry{
			directoryEntry("vendor"),
			fileEntry("vendor/dep.go"),
			fileEntry("main.go"),
			fileEntry("notes.md"),
		},
	)
	if aggregateErr != nil {
		t.Fatalf("AggregateEntries error: %v", aggregateErr)
	}
	expected := "Repository: owner/repo\n\n" + fileSectionText("main.go", "package main\nfunc main() {}")
	if document != expected {
		t.Fatalf("expected document %q, got %q", expected, document)
	}
}

func TestAggregateRequiresCredential(t *testing.T) {
	source := stubContentSource{credentialErr: github.ErrNoCredential}
	_, aggregateErr := NewAggregator(source).Aggregate(context.Background(), github.RepoRef{Owner: "owner", Name: "repo"})
	if !errors.Is(aggregateErr, github.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", aggregateErr)
	}
}

func TestAggregateEntriesStopsWhenContextCanceled(t *testing.T) {
	source := stubContentSource{
		contents: map[string]string{"slow.txt": "never delivered"},
		delays:   map[string]time.Duration{"slow.txt": time.Second},
	}
	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()
	_, aggregateErr := NewAggregator(source).AggregateEntries(
		canceledContext,
		github.RepoRef{Owner: "owner", Name: "repo"},
		[]github.Entry{fileEntry("slow.txt")},
	)
	if !errors.Is(aggregateErr, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", aggregateErr)
	}
}
