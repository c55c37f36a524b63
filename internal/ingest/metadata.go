package ingest

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/tokenizer"
)

const metadataSampleLimit = 10

const warnSkippedSampleMessage = "skipping unreadable sample file"

// RepositoryMetadata summarizes one traversal. EstimatedTokens is an
// extrapolation from a content sample, not an authoritative count.
type RepositoryMetadata struct {
	RepositoryName  string `json:"repositoryName"`
	FileCount       int    `json:"fileCount"`
	EstimatedTokens int    `json:"estimatedTokens"`
}

// MetadataCalculator derives repository metadata from a listing by sampling
// file contents.
type MetadataCalculator struct {
	source  ContentSource
	counter tokenizer.Counter
	logger  *zap.Logger
}

// NewMetadataCalculator creates a calculator reading through source. A nil
// counter falls back to the heuristic estimator.
func NewMetadataCalculator(source ContentSource, counter tokenizer.Counter) MetadataCalculator {
	if counter == nil {
		counter, _, _ = tokenizer.NewCounter(tokenizer.Config{})
	}
	return MetadataCalculator{
		source:  source,
		counter: counter,
		logger:  zap.NewNop(),
	}
}

// WithLogger attaches a logger used for skipped sample files.
func (calculator MetadataCalculator) WithLogger(logger *zap.Logger) MetadataCalculator {
	if logger == nil {
		return calculator
	}
	calculator.logger = logger
	return calculator
}

// Compute samples up to ten files in listing order, averages their token
// estimates over the successfully read samples and scales by the total file
// count. A listing without files estimates zero tokens.
func (calculator MetadataCalculator) Compute(ctx context.Context, reference github.RepoRef, entries []github.Entry) (RepositoryMetadata, error) {
	if credentialErr := calculator.source.EnsureCredential(); credentialErr != nil {
		return RepositoryMetadata{}, credentialErr
	}
	var files []github.Entry
	for _, entry := range entries {
		if entry.IsFile() {
			files = append(files, entry)
		}
	}
	metadata := RepositoryMetadata{
		RepositoryName: reference.Name,
		FileCount:      len(files),
	}

	sampleSize := len(files)
	if sampleSize > metadataSampleLimit {
		sampleSize = metadataSampleLimit
	}
	totalTokens := 0
	sampledCount := 0
	for _, file := range files[:sampleSize] {
		if ctx != nil && ctx.Err() != nil {
			return RepositoryMetadata{}, ctx.Err()
		}
		content, fetchErr := calculator.source.FileContent(ctx, reference, file.Path)
		if fetchErr != nil {
			if terminalErr := terminalFetchFailure(ctx, fetchErr); terminalErr != nil {
				return RepositoryMetadata{}, terminalErr
			}
			calculator.logger.Warn(warnSkippedSampleMessage, zap.String("path", file.Path), zap.Error(fetchErr))
			continue
		}
		result, countErr := tokenizer.CountBytes(calculator.counter, []byte(content))
		if countErr != nil {
			return RepositoryMetadata{}, countErr
		}
		if !result.Counted {
			calculator.logger.Warn(warnSkippedSampleMessage, zap.String("path", file.Path))
			continue
		}
		totalTokens += result.Tokens
		sampledCount++
	}
	if sampledCount > 0 {
		averageTokens := float64(totalTokens) / float64(sampledCount)
		metadata.EstimatedTokens = int(math.Round(averageTokens * float64(metadata.FileCount)))
	}
	return metadata, nil
}
