package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// ErrRateLimited marks a backend refusal that may clear after a delay.
var ErrRateLimited = errors.New("generation backend rate limited")

// Generator produces artifact text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator generates text with the Gemini API. The underlying client
// reads its API key from the environment.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator for the given model name. An empty
// model selects the default.
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	client, clientErr := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if clientErr != nil {
		return nil, fmt.Errorf("initialize gemini client: %w", clientErr)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate runs one completion and returns the first candidate's text.
// Rate-limit refusals wrap ErrRateLimited so callers can back off.
func (generator *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, generateErr := generator.client.Models.GenerateContent(ctx, generator.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if generateErr != nil {
		var apiErr genai.APIError
		if errors.As(generateErr, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		}
		return "", generateErr
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content generated")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}
