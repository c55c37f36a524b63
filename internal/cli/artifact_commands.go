package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/generate"
	"github.com/temirov/gitscribe/internal/github"
	"github.com/temirov/gitscribe/internal/ingest"
	"github.com/temirov/gitscribe/internal/services/clipboard"
)

const (
	readmeUse              = "readme <owner/repo>"
	deployUse              = "deploy <owner/repo>"
	readmeShortDescription = "generate a README from repository content (" + readmeAlias + ")"
	deployShortDescription = "generate Docker deployment files (" + deployAlias + ")"

	// readmeLongDescription provides detailed help for the readme command.
	readmeLongDescription = `Pack the repository content and ask the generation service for a README draft.`
	// readmeUsageExample demonstrates readme command usage.
	readmeUsageExample = `  # Generate a README and write it to a file
  gitscribe readme acme/widget --output README.md`

	// deployLongDescription provides detailed help for the deploy command.
	deployLongDescription = `Pack the repository content and ask the generation service for Docker
deployment files. With --output-dir the dockerfile, compose and env sections
are written as separate files; without it the raw response is printed.`
	// deployUsageExample demonstrates deploy command usage.
	deployUsageExample = `  # Generate Dockerfile, compose file and env template
  gitscribe deploy acme/widget --output-dir deploy`

	dockerfileFileName  = "Dockerfile"
	composeFileName     = "docker-compose.yml"
	environmentFileName = ".env.example"

	createOutputDirectoryErrorFormat = "create output directory %s: %w"
)

// artifactGenerator produces generated artifacts from packed repository
// content. generate.Client satisfies it.
type artifactGenerator interface {
	GenerateReadme(ctx context.Context, repoName string, repoContent string) (string, error)
	GenerateDockerFiles(ctx context.Context, repoName string, repoContent string) (string, error)
}

// createReadmeCommand returns the readme subcommand.
func createReadmeCommand(session *commandSession) *cobra.Command {
	var gitReference string
	var outputPath string
	var serviceURL string
	var copyRequested bool

	readmeCommand := &cobra.Command{
		Use:     readmeUse,
		Aliases: []string{readmeAlias},
		Short:   readmeShortDescription,
		Long:    readmeLongDescription,
		Example: readmeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			reference, referenceErr := session.repositoryReference(arguments[0], gitReference)
			if referenceErr != nil {
				return referenceErr
			}
			return runReadmeCommand(command.Context(), readmeCommandOptions{
				Reference:   reference,
				OutputPath:  outputPath,
				Concurrency: session.configuredConcurrency(),
				CopyEnabled: session.resolveCopyFlag(command, copyRequested),
				Source:      session.newFetcher(),
				Generator:   session.newGenerationClient(serviceURL),
				Clipboard:   clipboard.NewService(),
				Logger:      session.logger,
			})
		},
	}

	readmeCommand.Flags().StringVar(&gitReference, referenceFlagName, "", referenceFlagDescription)
	readmeCommand.Flags().StringVar(&outputPath, outputFlagName, "", outputFlagDescription)
	readmeCommand.Flags().StringVar(&serviceURL, serviceURLFlagName, "", serviceURLFlagDescription)
	registerCopyFlag(readmeCommand.Flags(), &copyRequested)
	return readmeCommand
}

// readmeCommandOptions stores the resolved inputs for one README generation.
type readmeCommandOptions struct {
	Reference   github.RepoRef
	OutputPath  string
	Concurrency int
	CopyEnabled bool
	Source      ingest.ContentSource
	Generator   artifactGenerator
	Clipboard   clipboard.Copier
	Writer      io.Writer
	Logger      *zap.Logger
}

func runReadmeCommand(ctx context.Context, options readmeCommandOptions) error {
	document, aggregateErr := aggregateRepository(ctx, options.Source, options.Reference, "", "", options.Concurrency, options.Logger)
	if aggregateErr != nil {
		return aggregateErr
	}
	readmeText, generateErr := options.Generator.GenerateReadme(ctx, options.Reference.Name, document)
	if generateErr != nil {
		return generateErr
	}
	return deliverDocument(options.Writer, readmeText, options.OutputPath, options.Clipboard, options.CopyEnabled)
}

// createDeployCommand returns the deploy subcommand.
func createDeployCommand(session *commandSession) *cobra.Command {
	var gitReference string
	var outputDirectory string
	var serviceURL string

	deployCommand := &cobra.Command{
		Use:     deployUse,
		Aliases: []string{deployAlias},
		Short:   deployShortDescription,
		Long:    deployLongDescription,
		Example: deployUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			reference, referenceErr := session.repositoryReference(arguments[0], gitReference)
			if referenceErr != nil {
				return referenceErr
			}
			return runDeployCommand(command.Context(), deployCommandOptions{
				Reference:       reference,
				OutputDirectory: outputDirectory,
				Concurrency:     session.configuredConcurrency(),
				Source:          session.newFetcher(),
				Generator:       session.newGenerationClient(serviceURL),
				Logger:          session.logger,
			})
		},
	}

	deployCommand.Flags().StringVar(&gitReference, referenceFlagName, "", referenceFlagDescription)
	deployCommand.Flags().StringVar(&outputDirectory, outputDirectoryFlagName, "", outputDirectoryFlagDescription)
	deployCommand.Flags().StringVar(&serviceURL, serviceURLFlagName, "", serviceURLFlagDescription)
	return deployCommand
}

// deployCommandOptions stores the resolved inputs for one deployment
// generation.
type deployCommandOptions struct {
	Reference       github.RepoRef
	OutputDirectory string
	Concurrency     int
	Source          ingest.ContentSource
	Generator       artifactGenerator
	Writer          io.Writer
	Logger          *zap.Logger
}

func runDeployCommand(ctx context.Context, options deployCommandOptions) error {
	document, aggregateErr := aggregateRepository(ctx, options.Source, options.Reference, "", "", options.Concurrency, options.Logger)
	if aggregateErr != nil {
		return aggregateErr
	}
	generatedText, generateErr := options.Generator.GenerateDockerFiles(ctx, options.Reference.Name, document)
	if generateErr != nil {
		return generateErr
	}
	if options.OutputDirectory == "" {
		return emitOutput(options.Writer, generatedText, nil, false)
	}

	artifacts := generate.SplitDockerArtifacts(generatedText)
	writtenPaths, writeErr := writeDockerArtifacts(options.OutputDirectory, artifacts)
	if writeErr != nil {
		return writeErr
	}
	if len(writtenPaths) == 0 {
		return emitOutput(options.Writer, generatedText, nil, false)
	}
	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}
	for _, writtenPath := range writtenPaths {
		fmt.Fprintf(writer, wroteFileMessageFormat, writtenPath)
	}
	return nil
}

// writeDockerArtifacts writes the non-empty artifact sections into the
// directory and returns the written paths in a fixed order.
func writeDockerArtifacts(directory string, artifacts generate.DockerArtifacts) ([]string, error) {
	if mkdirErr := os.MkdirAll(directory, outputDirectoryMode); mkdirErr != nil {
		return nil, fmt.Errorf(createOutputDirectoryErrorFormat, directory, mkdirErr)
	}
	sections := []struct {
		fileName string
		content  string
	}{
		{dockerfileFileName, artifacts.Dockerfile},
		{composeFileName, artifacts.Compose},
		{environmentFileName, artifacts.Environment},
	}
	var writtenPaths []string
	for _, section := range sections {
		if strings.TrimSpace(section.content) == "" {
			continue
		}
		targetPath := filepath.Join(directory, section.fileName)
		if writeErr := writeOutputFile(targetPath, section.content); writeErr != nil {
			return writtenPaths, writeErr
		}
		writtenPaths = append(writtenPaths, targetPath)
	}
	return writtenPaths, nil
}
