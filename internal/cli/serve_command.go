package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/generate"
	"github.com/temirov/gitscribe/internal/server"
)

const (
	serveUse              = "serve"
	serveShortDescription = "run the generation endpoint service"

	// serveLongDescription provides detailed help for the serve command.
	serveLongDescription = `Host the generation endpoints backed by Gemini.
The service answers /api/generate-readme and /api/generate-dockerfiles,
retries rate-limited backend calls and caches responses for unchanged
content. The Gemini API key is read from the environment; a .env file in
the working directory is loaded when present.`
	// serveUsageExample demonstrates serve command usage.
	serveUsageExample = `  # Serve the generation endpoints locally
  gitscribe serve --address 127.0.0.1:8080`

	serviceListeningMessage = "generation service listening"
)

// createServeCommand returns the serve subcommand.
func createServeCommand(session *commandSession) *cobra.Command {
	var listenAddress string
	var generationModel string

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_ = godotenv.Load()
			cacheSize := 0
			if session.configuration.Server.CacheSize != nil {
				cacheSize = *session.configuration.Server.CacheSize
			}
			return runServeCommand(command.Context(), serveCommandOptions{
				Address:   firstNonEmpty(listenAddress, session.configuration.Server.Address),
				Model:     firstNonEmpty(generationModel, session.configuration.Server.Model),
				CacheSize: cacheSize,
				Logger:    session.logger,
			})
		},
	}

	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, "", addressFlagDescription)
	serveCommand.Flags().StringVar(&generationModel, modelFlagName, "", generationModelFlagDescription)
	return serveCommand
}

// serveCommandOptions stores the resolved inputs for one service run. A nil
// Generator selects the Gemini backend.
type serveCommandOptions struct {
	Address   string
	Model     string
	CacheSize int
	Logger    *zap.Logger
	Generator generate.Generator
}

func runServeCommand(ctx context.Context, options serveCommandOptions) error {
	generator := options.Generator
	if generator == nil {
		createdGenerator, generatorErr := generate.NewGeminiGenerator(ctx, options.Model)
		if generatorErr != nil {
			return generatorErr
		}
		generator = createdGenerator
	}
	generationServer, serverErr := server.NewServer(server.Config{
		Address:   options.Address,
		CacheSize: options.CacheSize,
		Logger:    options.Logger,
	}, generator)
	if serverErr != nil {
		return serverErr
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return generationServer.Run(ctx, func(boundAddress string) {
		logger.Info(serviceListeningMessage, zap.String("address", boundAddress))
	})
}
