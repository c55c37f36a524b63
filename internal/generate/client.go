// Package generate produces repository artifacts (README, deployment files)
// through the generation service and its Gemini backend.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ArtifactKind selects which artifact the generation service produces.
type ArtifactKind string

const (
	ArtifactReadme ArtifactKind = "readme"
	ArtifactDocker ArtifactKind = "docker"
)

const (
	RouteGenerateReadme      = "/api/generate-readme"
	RouteGenerateDockerFiles = "/api/generate-dockerfiles"

	defaultServiceURL     = "http://127.0.0.1:8080"
	defaultRequestTimeout = 120 * time.Second

	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	noContentReceivedMessage  = "no content received"
	genericGenerationMessage  = "generation failed"
	genericRateLimitedMessage = "generation rate limited"
)

// GenerationError reports an application-level failure from the generation
// service.
type GenerationError struct {
	message string
}

// NewGenerationError wraps a remote failure message.
func NewGenerationError(message string) GenerationError {
	if strings.TrimSpace(message) == "" {
		message = genericGenerationMessage
	}
	return GenerationError{message: message}
}

func (generationError GenerationError) Error() string {
	return generationError.message
}

// RateLimitError reports that the generation service exhausted its own
// rate-limit budget. It is distinct from GenerationError so callers can
// choose to retry later.
type RateLimitError struct {
	message string
}

// NewRateLimitError wraps a remote rate-limit message.
func NewRateLimitError(message string) RateLimitError {
	if strings.TrimSpace(message) == "" {
		message = genericRateLimitedMessage
	}
	return RateLimitError{message: message}
}

func (rateLimitError RateLimitError) Error() string {
	return rateLimitError.message
}

type generationRequest struct {
	RepoContent string `json:"repoContent"`
	RepoName    string `json:"repoName"`
}

type generationResponse struct {
	GeneratedReadme      string `json:"generatedReadme,omitempty"`
	GeneratedDockerFiles string `json:"generatedDockerFiles,omitempty"`
	ErrorMessage         string `json:"error,omitempty"`
}

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Client calls the generation service. It performs no retries of its own;
// the service retries its backend internally.
type Client struct {
	httpClient httpClient
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Client. A nil client falls back to a default client
// with a generous timeout, since generation runs take a while.
func NewClient(client httpClient) Client {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return Client{
		httpClient: client,
		baseURL:    defaultServiceURL,
		logger:     zap.NewNop(),
	}
}

// WithBaseURL overrides the generation service URL.
func (client Client) WithBaseURL(base string) Client {
	if base == "" {
		return client
	}
	client.baseURL = strings.TrimRight(base, "/")
	return client
}

// WithLogger attaches a logger.
func (client Client) WithLogger(logger *zap.Logger) Client {
	if logger == nil {
		return client
	}
	client.logger = logger
	return client
}

// GenerateReadme sends the packed repository to the README route.
func (client Client) GenerateReadme(ctx context.Context, repoName string, repoContent string) (string, error) {
	return client.generate(ctx, RouteGenerateReadme, repoName, repoContent, ArtifactReadme)
}

// GenerateDockerFiles sends the packed repository to the deployment-files
// route. The returned text can be split with SplitDockerArtifacts.
func (client Client) GenerateDockerFiles(ctx context.Context, repoName string, repoContent string) (string, error) {
	return client.generate(ctx, RouteGenerateDockerFiles, repoName, repoContent, ArtifactDocker)
}

func (client Client) generate(ctx context.Context, route string, repoName string, repoContent string, kind ArtifactKind) (string, error) {
	payload, marshalErr := json.Marshal(generationRequest{RepoContent: repoContent, RepoName: repoName})
	if marshalErr != nil {
		return "", marshalErr
	}
	request, requestErr := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+route, bytes.NewReader(payload))
	if requestErr != nil {
		return "", requestErr
	}
	request.Header.Set(headerContentType, contentTypeJSON)

	response, responseErr := client.httpClient.Do(request)
	if responseErr != nil {
		return "", fmt.Errorf("call generation service: %w", responseErr)
	}
	defer response.Body.Close()

	var decoded generationResponse
	decodeErr := json.NewDecoder(response.Body).Decode(&decoded)
	if response.StatusCode == http.StatusTooManyRequests {
		return "", NewRateLimitError(decoded.ErrorMessage)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", NewGenerationError(decoded.ErrorMessage)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode generation response: %w", decodeErr)
	}

	artifact := decoded.GeneratedReadme
	if kind == ArtifactDocker {
		artifact = decoded.GeneratedDockerFiles
	}
	if artifact == "" {
		return "", NewGenerationError(noContentReceivedMessage)
	}
	return artifact, nil
}
