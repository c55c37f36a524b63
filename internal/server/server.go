// Package server hosts the artifact generation endpoints consumed by the
// readme and deploy commands.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitscribe/internal/generate"
)

const (
	defaultListenAddress    = "127.0.0.1:8080"
	defaultShutdownDuration = 5 * time.Second
	defaultRetryAttempts    = 3
	defaultRetryBaseDelay   = 500 * time.Millisecond
	defaultCacheSize        = 128

	headerContentType = "Content-Type"
	mimeTypeJSON      = "application/json"
	rootPath          = "/"

	errorFieldName          = "error"
	readmeResponseFieldName = "generatedReadme"
	dockerResponseFieldName = "generatedDockerFiles"
	missingContentMessage   = "repoContent is required"

	cacheKeySeparator = "\x00"
)

var errMissingGenerator = errors.New("generator is required")

type generationRequest struct {
	RepoContent string `json:"repoContent"`
	RepoName    string `json:"repoName"`
}

// Config defines runtime options for the generation service.
type Config struct {
	Address         string
	RetryAttempts   int
	RetryBaseDelay  time.Duration
	CacheSize       int
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server serves the generation routes over HTTP. Responses for unchanged
// repository content are answered from an LRU cache without touching the
// backend.
type Server struct {
	config    Config
	generator generate.Generator
	cache     *lru.Cache[string, string]
}

// NewServer creates a Server with defaults applied.
func NewServer(config Config, generator generate.Generator) (Server, error) {
	if generator == nil {
		return Server{}, errMissingGenerator
	}
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.RetryAttempts < 1 {
		normalized.RetryAttempts = defaultRetryAttempts
	}
	if normalized.RetryBaseDelay <= 0 {
		normalized.RetryBaseDelay = defaultRetryBaseDelay
	}
	if normalized.CacheSize <= 0 {
		normalized.CacheSize = defaultCacheSize
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	responseCache, cacheErr := lru.New[string, string](normalized.CacheSize)
	if cacheErr != nil {
		return Server{}, fmt.Errorf("initialize response cache: %w", cacheErr)
	}
	return Server{config: normalized, generator: generator, cache: responseCache}, nil
}

// Run starts the service and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	router := http.NewServeMux()
	router.HandleFunc(rootPath, server.handleRoot)
	router.HandleFunc(generate.RouteGenerateReadme, server.handleGenerateReadme)
	router.HandleFunc(generate.RouteGenerateDockerFiles, server.handleGenerateDockerFiles)

	httpServer := &http.Server{Handler: corsMiddleware(router)}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve generation endpoints: %w", serveErr)
		}
		return nil
	})

	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown generation endpoints: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleRoot(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (server Server) handleGenerateReadme(writer http.ResponseWriter, request *http.Request) {
	server.handleGenerate(writer, request, generate.RouteGenerateReadme, readmeResponseFieldName)
}

func (server Server) handleGenerateDockerFiles(writer http.ResponseWriter, request *http.Request) {
	server.handleGenerate(writer, request, generate.RouteGenerateDockerFiles, dockerResponseFieldName)
}

func (server Server) handleGenerate(writer http.ResponseWriter, request *http.Request, route string, responseFieldName string) {
	if request.Method != http.MethodPost {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload generationRequest
	if decodeErr := json.NewDecoder(request.Body).Decode(&payload); decodeErr != nil {
		server.writeJSON(writer, http.StatusBadRequest, map[string]string{errorFieldName: fmt.Sprintf("decode request body: %v", decodeErr)})
		return
	}
	if payload.RepoContent == "" {
		server.writeJSON(writer, http.StatusBadRequest, map[string]string{errorFieldName: missingContentMessage})
		return
	}

	key := cacheKey(route, payload.RepoName, payload.RepoContent)
	if cached, found := server.cache.Get(key); found {
		server.config.Logger.Debug("serving cached generation",
			zap.String("route", route),
			zap.String("repository", payload.RepoName))
		server.writeJSON(writer, http.StatusOK, map[string]string{responseFieldName: cached})
		return
	}

	generated, generateErr := server.generateWithRetry(request.Context(), server.buildPrompt(route, payload))
	if generateErr != nil {
		if errors.Is(generateErr, generate.ErrRateLimited) {
			server.writeJSON(writer, http.StatusTooManyRequests, map[string]string{errorFieldName: generateErr.Error()})
			return
		}
		server.writeJSON(writer, http.StatusInternalServerError, map[string]string{errorFieldName: generateErr.Error()})
		return
	}

	server.cache.Add(key, generated)
	server.writeJSON(writer, http.StatusOK, map[string]string{responseFieldName: generated})
}

func (server Server) buildPrompt(route string, payload generationRequest) string {
	if route == generate.RouteGenerateDockerFiles {
		return generate.DockerPrompt(payload.RepoName, payload.RepoContent, generate.ExtractBuildHints(payload.RepoContent))
	}
	return generate.ReadmePrompt(payload.RepoName, payload.RepoContent)
}

// generateWithRetry retries rate-limited backend calls with exponential
// backoff. Any other failure returns immediately.
func (server Server) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < server.config.RetryAttempts; attempt++ {
		generated, generateErr := server.generator.Generate(ctx, prompt)
		if generateErr == nil {
			return generated, nil
		}
		if !errors.Is(generateErr, generate.ErrRateLimited) {
			return "", generateErr
		}
		lastErr = generateErr
		if attempt == server.config.RetryAttempts-1 {
			break
		}
		server.config.Logger.Warn("generation backend rate limited",
			zap.Int("attempt", attempt+1),
			zap.Error(generateErr))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		time.Sleep(server.config.RetryBaseDelay * time.Duration(1<<attempt))
	}
	return "", lastErr
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

func cacheKey(route string, repoName string, repoContent string) string {
	digest := sha256.Sum256([]byte(repoContent))
	return route + cacheKeySeparator + repoName + cacheKeySeparator + hex.EncodeToString(digest[:])
}
