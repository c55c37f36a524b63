// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/config"
	"github.com/temirov/gitscribe/internal/generate"
	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/ingest"
	"github.com/temirov/gitscribe/internal/output"
	"github.com/temirov/gitscribe/internal/services/clipboard"
	"github.com/temirov/gitscribe/internal/tokenizer"
	"github.com/temirov/gitscribe/internal/types"
	"github.com/temirov/gitscribe/internal/utils"
)

const (
	tokenFlagName           = "token"
	configFileFlagName      = "config"
	verboseFlagName         = "verbose"
	versionFlagName         = "version"
	referenceFlagName       = "ref"
	rootPathFlagName        = "path"
	formatFlagName          = "format"
	rulesFlagName           = "rules"
	outputFlagName          = "output"
	outputDirectoryFlagName = "output-dir"
	concurrencyFlagName     = "concurrency"
	modelFlagName           = "model"
	serviceURLFlagName      = "service-url"
	addressFlagName         = "address"
	visibilityFlagName      = "visibility"
	globalFlagName          = "global"
	forceFlagName           = "force"
	copyFlagName            = "copy"

	tokenFlagDescription           = "GitHub API token overriding configuration and environment"
	configFileFlagDescription      = "path to a configuration file"
	verboseFlagDescription         = "enable debug logging"
	versionFlagDescription         = "display application version"
	referenceFlagDescription       = "git reference (branch, tag or commit)"
	rootPathFlagDescription        = "repository subdirectory to start from"
	formatFlagDescription          = "output format (text or json)"
	rulesFlagDescription           = "path to an ingest rules file"
	outputFlagDescription          = "write the result to a file instead of stdout"
	outputDirectoryFlagDescription = "directory receiving the generated deployment files"
	concurrencyFlagDescription     = "maximum concurrent file fetches (0 selects the default)"
	tokenizerModelFlagDescription  = "tokenizer model to use for token counting"
	generationModelFlagDescription = "generation model name"
	serviceURLFlagDescription      = "base URL of the generation service"
	addressFlagDescription         = "listen address for the generation service"
	visibilityFlagDescription      = "repository visibility filter (all, public or private)"
	globalFlagDescription          = "write the global configuration file"
	forceFlagDescription           = "overwrite an existing configuration file"
	copyFlagDescription            = "copy the result to the clipboard"

	versionTemplate      = "gitscribe version: %s\n"
	rootUse              = "gitscribe"
	rootShortDescription = "gitscribe command line interface"
	rootLongDescription  = `gitscribe reads a GitHub repository through the contents API without cloning it.
It renders the directory structure, estimates the token footprint, packs file
contents into a single prompt-ready document, and turns that document into
README or Docker deployment artifacts through the companion generation service.`

	treeUse     = "tree <owner/repo>"
	statsUse    = "stats <owner/repo>"
	reposUse    = "repos"
	configUse   = "config"
	initUse     = "init"
	treeAlias   = "t"
	ingestAlias = "i"
	statsAlias  = "s"
	readmeAlias = "r"
	deployAlias = "d"

	treeShortDescription   = "render the repository structure (" + treeAlias + ")"
	statsShortDescription  = "summarize repository size and token footprint (" + statsAlias + ")"
	reposShortDescription  = "list repositories of the authenticated user"
	configShortDescription = "manage gitscribe configuration"
	initShortDescription   = "write a starter configuration file"

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the file tree of a GitHub repository without cloning it.
Use --format to select text or json output and --path to start from a subdirectory.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the structure of a repository branch
  gitscribe tree golang/go --ref master

  # Emit the tree as JSON for tooling
  gitscribe tree acme/widget --format json`

	// statsLongDescription provides detailed help for the stats command.
	statsLongDescription = `Summarize a repository: file and directory counts, total size and a token
footprint extrapolated from a sample of file contents.`
	// statsUsageExample demonstrates stats command usage.
	statsUsageExample = `  # Summarize file count and token footprint
  gitscribe stats acme/widget

  # Count with the gpt-4o tokenizer vocabulary
  gitscribe stats acme/widget --model gpt-4o`

	// reposUsageExample demonstrates repos command usage.
	reposUsageExample = `  # List private repositories as JSON
  gitscribe repos --visibility private --format json`

	invalidFormatMessage           = "invalid format value '%s'"
	invalidVisibilityMessage       = "invalid visibility value '%s'"
	clipboardServiceMissingMessage = "clipboard service is not available"
	clipboardCopyErrorFormat       = "copy to clipboard: %w"
	outputWriteErrorFormat         = "write output to %s: %w"
	wroteFileMessageFormat         = "wrote %s\n"

	outputFileMode      = 0o644
	outputDirectoryMode = 0o755
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatText, types.FormatJSON:
		return true
	default:
		return false
	}
}

// isSupportedVisibility reports whether the provided visibility filter is recognized.
func isSupportedVisibility(visibility string) bool {
	switch visibility {
	case github.VisibilityAll, github.VisibilityPublic, github.VisibilityPrivate:
		return true
	default:
		return false
	}
}

// Execute runs the gitscribe application.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCommand := createRootCommand()
	rootCommand.SetArgs(normalizeCopyFlagArguments(os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// commandSession carries the options and services resolved once before any
// subcommand runs: merged configuration, the application logger and the
// credential chain assembled from flag, configuration and environment.
type commandSession struct {
	showVersion    bool
	verbose        bool
	configFilePath string
	tokenOverride  string

	configuration config.ApplicationConfiguration
	logger        *zap.Logger
}

func (session *commandSession) initialize() error {
	loadedConfiguration, configurationErr := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: session.configFilePath})
	if configurationErr != nil {
		return configurationErr
	}
	session.configuration = loadedConfiguration

	logger, loggerErr := utils.NewApplicationLogger(session.verbose)
	if loggerErr != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerErr)
	}
	session.logger = logger
	return nil
}

func (session *commandSession) credentialProvider() github.CredentialProvider {
	return github.DefaultCredentialProvider(session.tokenOverride, session.configuration.GitHub.Token)
}

func (session *commandSession) newFetcher() github.Fetcher {
	fetcher := github.NewFetcher(nil, session.credentialProvider()).WithLogger(session.logger)
	if session.configuration.GitHub.APIBaseURL != "" {
		fetcher = fetcher.WithAPIBase(session.configuration.GitHub.APIBaseURL)
	}
	return fetcher
}

// repositoryReference parses the positional repository identifier and applies
// the git reference resolved from flag and configuration.
func (session *commandSession) repositoryReference(identifier string, flagReference string) (github.RepoRef, error) {
	reference, parseErr := github.ParseRepository(identifier)
	if parseErr != nil {
		return github.RepoRef{}, parseErr
	}
	if resolved := firstNonEmpty(flagReference, session.configuration.GitHub.Reference); resolved != "" {
		reference = reference.WithReference(resolved)
	}
	return reference, nil
}

// resolveCopyFlag prefers an explicit --copy value and falls back to the
// configured clipboard default.
func (session *commandSession) resolveCopyFlag(command *cobra.Command, flagValue bool) bool {
	if command.Flags().Changed(copyFlagName) {
		return flagValue
	}
	if session.configuration.Ingest.Clipboard != nil {
		return *session.configuration.Ingest.Clipboard
	}
	return flagValue
}

func (session *commandSession) configuredConcurrency() int {
	if session.configuration.Ingest.Concurrency != nil {
		return *session.configuration.Ingest.Concurrency
	}
	return 0
}

// newGenerationClient builds the generation service client honoring the
// configured request timeout and service URL.
func (session *commandSession) newGenerationClient(flagServiceURL string) generate.Client {
	client := generate.NewClient(nil)
	if session.configuration.Generation.TimeoutSeconds != nil && *session.configuration.Generation.TimeoutSeconds > 0 {
		client = generate.NewClient(&http.Client{Timeout: time.Duration(*session.configuration.Generation.TimeoutSeconds) * time.Second})
	}
	if serviceURL := firstNonEmpty(flagServiceURL, session.configuration.Generation.ServiceURL); serviceURL != "" {
		client = client.WithBaseURL(serviceURL)
	}
	return client.WithLogger(session.logger)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	session := &commandSession{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if session.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			return session.initialize()
		},
	}
	rootCommand.PersistentFlags().BoolVar(&session.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&session.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&session.configFilePath, configFileFlagName, "", configFileFlagDescription)
	rootCommand.PersistentFlags().StringVar(&session.tokenOverride, tokenFlagName, "", tokenFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(session),
		createIngestCommand(session),
		createStatsCommand(session),
		createReadmeCommand(session),
		createDeployCommand(session),
		createReposCommand(session),
		createServeCommand(session),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(session *commandSession) *cobra.Command {
	var gitReference string
	var rootPath string
	var outputFormat string = types.FormatText
	var copyRequested bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(outputFormat)
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			reference, referenceErr := session.repositoryReference(arguments[0], gitReference)
			if referenceErr != nil {
				return referenceErr
			}
			return runTreeCommand(command.Context(), treeCommandOptions{
				Reference:   reference,
				RootPath:    rootPath,
				Format:      outputFormatLower,
				CopyEnabled: session.resolveCopyFlag(command, copyRequested),
				Source:      session.newFetcher(),
				Clipboard:   clipboard.NewService(),
			})
		},
	}

	treeCommand.Flags().StringVar(&gitReference, referenceFlagName, "", referenceFlagDescription)
	treeCommand.Flags().StringVar(&rootPath, rootPathFlagName, "", rootPathFlagDescription)
	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatText, formatFlagDescription)
	registerCopyFlag(treeCommand.Flags(), &copyRequested)
	return treeCommand
}

// treeCommandOptions stores the resolved inputs for one tree rendering run.
type treeCommandOptions struct {
	Reference   github.RepoRef
	RootPath    string
	Format      string
	CopyEnabled bool
	Source      ingest.ContentSource
	Clipboard   clipboard.Copier
	Writer      io.Writer
}

func runTreeCommand(ctx context.Context, options treeCommandOptions) error {
	entries, listErr := options.Source.ListEntries(ctx, options.Reference, options.RootPath)
	if listErr != nil {
		return listErr
	}
	sorted := ingest.SortEntries(entries)

	var rendered string
	if options.Format == types.FormatJSON {
		renderedJSON, renderErr := output.RenderJSON(output.BuildEntryTree(options.Reference, sorted))
		if renderErr != nil {
			return renderErr
		}
		rendered = renderedJSON
	} else {
		rendered = ingest.RenderStructure(options.Reference, sorted)
	}
	return emitOutput(options.Writer, rendered, options.Clipboard, options.CopyEnabled)
}

// createStatsCommand returns the stats subcommand.
func createStatsCommand(session *commandSession) *cobra.Command {
	var gitReference string
	var rootPath string
	var outputFormat string = types.FormatText
	var tokenizerModel string

	statsCommand := &cobra.Command{
		Use:     statsUse,
		Aliases: []string{statsAlias},
		Short:   statsShortDescription,
		Long:    statsLongDescription,
		Example: statsUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(outputFormat)
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			reference, referenceErr := session.repositoryReference(arguments[0], gitReference)
			if referenceErr != nil {
				return referenceErr
			}
			return runStatsCommand(command.Context(), statsCommandOptions{
				Reference: reference,
				RootPath:  rootPath,
				Format:    outputFormatLower,
				Model:     firstNonEmpty(tokenizerModel, session.configuration.Tokens.Model),
				Source:    session.newFetcher(),
				Logger:    session.logger,
			})
		},
	}

	statsCommand.Flags().StringVar(&gitReference, referenceFlagName, "", referenceFlagDescription)
	statsCommand.Flags().StringVar(&rootPath, rootPathFlagName, "", rootPathFlagDescription)
	statsCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatText, formatFlagDescription)
	statsCommand.Flags().StringVar(&tokenizerModel, modelFlagName, "", tokenizerModelFlagDescription)
	return statsCommand
}

// statsCommandOptions stores the resolved inputs for one stats run.
type statsCommandOptions struct {
	Reference github.RepoRef
	RootPath  string
	Format    string
	Model     string
	Source    ingest.ContentSource
	Logger    *zap.Logger
	Writer    io.Writer
}

func runStatsCommand(ctx context.Context, options statsCommandOptions) error {
	counter, tokenizerName, counterErr := tokenizer.NewCounter(tokenizer.Config{Model: options.Model})
	if counterErr != nil {
		return counterErr
	}
	entries, listErr := options.Source.ListEntries(ctx, options.Reference, options.RootPath)
	if listErr != nil {
		return listErr
	}
	metadata, computeErr := ingest.NewMetadataCalculator(options.Source, counter).
		WithLogger(options.Logger).
		Compute(ctx, options.Reference, entries)
	if computeErr != nil {
		return computeErr
	}
	report := output.BuildRepositoryReport(options.Reference.Identifier(), entries, metadata.EstimatedTokens, tokenizerName)

	if options.Format == types.FormatJSON {
		rendered, renderErr := output.RenderJSON(report)
		if renderErr != nil {
			return renderErr
		}
		return emitOutput(options.Writer, rendered, nil, false)
	}
	return emitOutput(options.Writer, output.RenderRepositoryReportText(report), nil, false)
}

// repositoryLister lists repositories accessible to the current credential.
// github.RepositoryLister satisfies it.
type repositoryLister interface {
	List(ctx context.Context, visibility string) ([]github.Repository, error)
}

// createReposCommand returns the repos subcommand.
func createReposCommand(session *commandSession) *cobra.Command {
	var visibility string = github.VisibilityAll
	var outputFormat string = types.FormatText

	reposCommand := &cobra.Command{
		Use:     reposUse,
		Short:   reposShortDescription,
		Example: reposUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(outputFormat)
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			visibilityLower := strings.ToLower(visibility)
			if !isSupportedVisibility(visibilityLower) {
				return fmt.Errorf(invalidVisibilityMessage, visibility)
			}
			lister := github.NewRepositoryLister(session.credentialProvider())
			if session.configuration.GitHub.APIBaseURL != "" {
				lister = lister.WithAPIBase(session.configuration.GitHub.APIBaseURL)
			}
			return runReposCommand(command.Context(), reposCommandOptions{
				Visibility: visibilityLower,
				Format:     outputFormatLower,
				Lister:     lister,
			})
		},
	}

	reposCommand.Flags().StringVar(&visibility, visibilityFlagName, github.VisibilityAll, visibilityFlagDescription)
	reposCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatText, formatFlagDescription)
	return reposCommand
}

// reposCommandOptions stores the resolved inputs for one repository listing.
type reposCommandOptions struct {
	Visibility string
	Format     string
	Lister     repositoryLister
	Writer     io.Writer
}

func runReposCommand(ctx context.Context, options reposCommandOptions) error {
	repositories, listErr := options.Lister.List(ctx, options.Visibility)
	if listErr != nil {
		return listErr
	}
	if options.Format == types.FormatJSON {
		rendered, renderErr := output.RenderJSON(repositories)
		if renderErr != nil {
			return renderErr
		}
		return emitOutput(options.Writer, rendered, nil, false)
	}
	return emitOutput(options.Writer, output.RenderRepositoriesText(repositories), nil, false)
}

// createConfigCommand returns the config subcommand with its init child.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(createConfigInitCommand())
	return configCommand
}

func createConfigInitCommand() *cobra.Command {
	var globalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initErr := config.InitializeConfiguration(config.InitOptions{Target: target, Force: forceOverwrite})
			if initErr != nil {
				return initErr
			}
			fmt.Fprintf(command.OutOrStdout(), wroteFileMessageFormat, writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&globalTarget, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// emitOutput writes content to the writer, terminating with a newline, and
// optionally copies the exact content to the clipboard.
func emitOutput(writer io.Writer, content string, copier clipboard.Copier, copyEnabled bool) error {
	if writer == nil {
		writer = os.Stdout
	}
	if copyEnabled && copier == nil {
		return errors.New(clipboardServiceMissingMessage)
	}
	if _, writeErr := fmt.Fprint(writer, content); writeErr != nil {
		return writeErr
	}
	if !strings.HasSuffix(content, "\n") {
		if _, writeErr := fmt.Fprintln(writer); writeErr != nil {
			return writeErr
		}
	}
	if copyEnabled {
		if copyErr := copier.Copy(content); copyErr != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyErr)
		}
	}
	return nil
}

// deliverDocument writes the document to the output file when a path is set,
// otherwise to the writer, and optionally copies the exact document text to
// the clipboard.
func deliverDocument(writer io.Writer, document string, outputPath string, copier clipboard.Copier, copyEnabled bool) error {
	if outputPath == "" {
		return emitOutput(writer, document, copier, copyEnabled)
	}
	if copyEnabled && copier == nil {
		return errors.New(clipboardServiceMissingMessage)
	}
	if writeErr := writeOutputFile(outputPath, document); writeErr != nil {
		return writeErr
	}
	if writer == nil {
		writer = os.Stdout
	}
	fmt.Fprintf(writer, wroteFileMessageFormat, outputPath)
	if copyEnabled {
		if copyErr := copier.Copy(document); copyErr != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyErr)
		}
	}
	return nil
}

func writeOutputFile(path string, content string) error {
	if writeErr := os.WriteFile(path, []byte(content), outputFileMode); writeErr != nil {
		return fmt.Errorf(outputWriteErrorFormat, path, writeErr)
	}
	return nil
}
