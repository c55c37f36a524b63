package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/ingest"
	"github.com/temirov/gitscribe/internal/services/clipboard"
)

const (
	ingestUse              = "ingest <owner/repo>"
	ingestShortDescription = "pack repository files into one document (" + ingestAlias + ")"

	// ingestLongDescription provides detailed help for the ingest command.
	ingestLongDescription = `Pack every file of a repository into a single annotated document.
Each file section carries a delimiter header; unreadable files keep a
placeholder section. Use --rules to filter entries and strip noisy lines.`
	// ingestUsageExample demonstrates ingest command usage.
	ingestUsageExample = `  # Pack a repository into one document on stdout
  gitscribe ingest acme/widget

  # Pack only the docs tree and copy the result
  gitscribe ingest acme/widget --path docs --copy`
)

// createIngestCommand returns the ingest subcommand.
func createIngestCommand(session *commandSession) *cobra.Command {
	var gitReference string
	var rootPath string
	var rulesPath string
	var outputPath string
	var concurrencyLimit int
	var copyRequested bool

	ingestCommand := &cobra.Command{
		Use:     ingestUse,
		Aliases: []string{ingestAlias},
		Short:   ingestShortDescription,
		Long:    ingestLongDescription,
		Example: ingestUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			reference, referenceErr := session.repositoryReference(arguments[0], gitReference)
			if referenceErr != nil {
				return referenceErr
			}
			resolvedConcurrency := concurrencyLimit
			if !command.Flags().Changed(concurrencyFlagName) {
				resolvedConcurrency = session.configuredConcurrency()
			}
			return runIngestCommand(command.Context(), ingestCommandOptions{
				Reference:   reference,
				RootPath:    rootPath,
				RulesPath:   firstNonEmpty(rulesPath, session.configuration.Ingest.RulesPath),
				OutputPath:  outputPath,
				Concurrency: resolvedConcurrency,
				CopyEnabled: session.resolveCopyFlag(command, copyRequested),
				Source:      session.newFetcher(),
				Clipboard:   clipboard.NewService(),
				Logger:      session.logger,
			})
		},
	}

	ingestCommand.Flags().StringVar(&gitReference, referenceFlagName, "", referenceFlagDescription)
	ingestCommand.Flags().StringVar(&rootPath, rootPathFlagName, "", rootPathFlagDescription)
	ingestCommand.Flags().StringVar(&rulesPath, rulesFlagName, "", rulesFlagDescription)
	ingestCommand.Flags().StringVar(&outputPath, outputFlagName, "", outputFlagDescription)
	ingestCommand.Flags().IntVar(&concurrencyLimit, concurrencyFlagName, 0, concurrencyFlagDescription)
	registerCopyFlag(ingestCommand.Flags(), &copyRequested)
	return ingestCommand
}

// ingestCommandOptions stores the resolved inputs for one aggregation run.
type ingestCommandOptions struct {
	Reference   github.RepoRef
	RootPath    string
	RulesPath   string
	OutputPath  string
	Concurrency int
	CopyEnabled bool
	Source      ingest.ContentSource
	Clipboard   clipboard.Copier
	Writer      io.Writer
	Logger      *zap.Logger
}

func runIngestCommand(ctx context.Context, options ingestCommandOptions) error {
	document, aggregateErr := aggregateRepository(ctx, options.Source, options.Reference, options.RootPath, options.RulesPath, options.Concurrency, options.Logger)
	if aggregateErr != nil {
		return aggregateErr
	}
	return deliverDocument(options.Writer, document, options.OutputPath, options.Clipboard, options.CopyEnabled)
}

// aggregateRepository lists the requested tree and packs it into one document.
// An empty rootPath lets the aggregator list from the repository root itself.
func aggregateRepository(ctx context.Context, source ingest.ContentSource, reference github.RepoRef, rootPath string, rulesPath string, concurrency int, logger *zap.Logger) (string, error) {
	aggregator := ingest.NewAggregator(source).WithLogger(logger).WithConcurrency(concurrency)
	if rulesPath != "" {
		rules, rulesErr := ingest.LoadRuleSet(rulesPath)
		if rulesErr != nil {
			return "", rulesErr
		}
		aggregator = aggregator.WithRules(rules)
	}
	if rootPath == "" {
		return aggregator.Aggregate(ctx, reference)
	}
	entries, listErr := source.ListEntries(ctx, reference, rootPath)
	if listErr != nil {
		return "", listErr
	}
	return aggregator.AggregateEntries(ctx, reference, entries)
}
