// Package ingest turns a repository listing into a rendered structure view,
// a packed content document and token metadata.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitscribe/internal/github"
)

// SectionDelimiter separates file sections inside an aggregated document.
const SectionDelimiter = "================================================"

const (
	repositoryHeaderPrefix = "Repository: "
	fileHeaderPrefix       = "FILE: "
	defaultConcurrency     = 8

	placeholderBinaryContent     = "[Binary file or encoding error]"
	placeholderEmptyContent      = "[Empty file or could not decode content]"
	placeholderFetchStatusFormat = "[Error: Could not fetch file content - %d]"
	placeholderFetchFailure      = "[Error: Could not fetch file content]"

	warnPlaceholderMessage = "substituting placeholder for file"
)

// ContentSource provides the listing and per-file reads the ingestion
// pipeline consumes. github.Fetcher satisfies it.
type ContentSource interface {
	EnsureCredential() error
	ListEntries(ctx context.Context, reference github.RepoRef, rootPath string) ([]github.Entry, error)
	FileContent(ctx context.Context, reference github.RepoRef, filePath string) (string, error)
}

// Aggregator packs the files of a repository into one annotated document.
// File sections keep listing order even though contents are fetched
// concurrently.
type Aggregator struct {
	source      ContentSource
	logger      *zap.Logger
	concurrency int
	rules       RuleSet
}

// NewAggregator creates an Aggregator reading through source.
func NewAggregator(source ContentSource) Aggregator {
	return Aggregator{
		source:      source,
		logger:      zap.NewNop(),
		concurrency: defaultConcurrency,
	}
}

// WithLogger attaches a logger used for recovered per-file failures.
func (aggregator Aggregator) WithLogger(logger *zap.Logger) Aggregator {
	if logger == nil {
		return aggregator
	}
	aggregator.logger = logger
	return aggregator
}

// WithConcurrency bounds the number of in-flight content fetches.
func (aggregator Aggregator) WithConcurrency(limit int) Aggregator {
	if limit <= 0 {
		return aggregator
	}
	aggregator.concurrency = limit
	return aggregator
}

// WithRules attaches entry filtering and content transform rules.
func (aggregator Aggregator) WithRules(rules RuleSet) Aggregator {
	aggregator.rules = rules
	return aggregator
}

// Aggregate lists the repository tree and packs every file into one document.
func (aggregator Aggregator) Aggregate(ctx context.Context, reference github.RepoRef) (string, error) {
	if credentialErr := aggregator.source.EnsureCredential(); credentialErr != nil {
		return "", credentialErr
	}
	entries, listErr := aggregator.source.ListEntries(ctx, reference, "")
	if listErr != nil {
		return "", listErr
	}
	return aggregator.AggregateEntries(ctx, reference, entries)
}

// AggregateEntries packs the file entries of an existing listing. A failed
// file fetch embeds a placeholder section instead of aborting; a missing
// credential or a canceled context aborts the whole aggregation.
func (aggregator Aggregator) AggregateEntries(ctx context.Context, reference github.RepoRef, entries []github.Entry) (string, error) {
	if credentialErr := aggregator.source.EnsureCredential(); credentialErr != nil {
		return "", credentialErr
	}
	filtered, filterErr := aggregator.rules.FilterEntries(entries)
	if filterErr != nil {
		return "", filterErr
	}
	prepared, prepareErr := aggregator.rules.prepare()
	if prepareErr != nil {
		return "", prepareErr
	}
	var files []github.Entry
	for _, entry := range filtered {
		if entry.IsFile() {
			files = append(files, entry)
		}
	}

	sections := make([]string, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(aggregator.concurrency)
	for index, file := range files {
		index, file := index, file
		group.Go(func() error {
			section, sectionErr := aggregator.fileSection(groupCtx, reference, file.Path, prepared)
			if sectionErr != nil {
				return sectionErr
			}
			sections[index] = section
			return nil
		})
	}
	if waitErr := group.Wait(); waitErr != nil {
		return "", waitErr
	}

	var builder strings.Builder
	builder.WriteString(repositoryHeaderPrefix)
	builder.WriteString(reference.Identifier())
	builder.WriteString("\n\n")
	for _, section := range sections {
		builder.WriteString(section)
	}
	return builder.String(), nil
}

func (aggregator Aggregator) fileSection(ctx context.Context, reference github.RepoRef, filePath string, rules preparedRuleSet) (string, error) {
	var body string
	content, fetchErr := aggregator.source.FileContent(ctx, reference, filePath)
	if fetchErr != nil {
		if terminalErr := terminalFetchFailure(ctx, fetchErr); terminalErr != nil {
			return "", terminalErr
		}
		body = placeholderFor(fetchErr)
		aggregator.logger.Warn(warnPlaceholderMessage, zap.String("path", filePath), zap.Error(fetchErr))
	} else {
		body = rules.applyTransforms(content)
	}

	var builder strings.Builder
	builder.WriteString(SectionDelimiter)
	builder.WriteByte('\n')
	builder.WriteString(fileHeaderPrefix)
	builder.WriteString(filePath)
	builder.WriteByte('\n')
	builder.WriteString(SectionDelimiter)
	builder.WriteByte('\n')
	builder.WriteString(body)
	builder.WriteString("\n\n")
	return builder.String(), nil
}

// terminalFetchFailure separates failures that abort aggregation from
// per-file failures embedded as placeholders.
func terminalFetchFailure(ctx context.Context, fetchErr error) error {
	if errors.Is(fetchErr, github.ErrNoCredential) {
		return fetchErr
	}
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) {
		return fetchErr
	}
	return nil
}

func placeholderFor(fetchErr error) string {
	var contentErr github.ContentError
	if errors.As(fetchErr, &contentErr) {
		return fmt.Sprintf(placeholderFetchStatusFormat, contentErr.StatusCode())
	}
	var decodeErr github.DecodeError
	if errors.As(fetchErr, &decodeErr) {
		return placeholderBinaryContent
	}
	if errors.Is(fetchErr, github.ErrEmptyContent) {
		return placeholderEmptyContent
	}
	return placeholderFetchFailure
}
