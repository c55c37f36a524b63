package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGenerateReadme(t *testing.T) {
	requestCount := 0
	var receivedPath string
	var receivedRequest generationRequest
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
		receivedPath = request.URL.Path
		if decodeErr := json.NewDecoder(request.Body).Decode(&receivedRequest); decodeErr != nil {
			t.Errorf("decode request: %v", decodeErr)
		}
		writer.Header().Set(headerContentType, contentTypeJSON)
		_ = json.NewEncoder(writer).Encode(map[string]string{"generatedReadme": "# widget\n"})
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	artifact, generateErr := client.GenerateReadme(context.Background(), "widget", "Repository: acme/widget\n\n")
	if generateErr != nil {
		t.Fatalf("GenerateReadme error: %v", generateErr)
	}
	if artifact != "# widget\n" {
		t.Fatalf("expected generated readme, got %q", artifact)
	}
	if receivedPath != RouteGenerateReadme {
		t.Fatalf("expected path %s, got %s", RouteGenerateReadme, receivedPath)
	}
	if receivedRequest.RepoName != "widget" || receivedRequest.RepoContent == "" {
		t.Fatalf("unexpected request payload %+v", receivedRequest)
	}
	if requestCount != 1 {
		t.Fatalf("expected a single request, got %d", requestCount)
	}
}

func TestClientGenerateDockerFiles(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedPath = request.URL.Path
		writer.Header().Set(headerContentType, contentTypeJSON)
		_ = json.NewEncoder(writer).Encode(map[string]string{"generatedDockerFiles": "```dockerfile\nFROM scratch\n```"})
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithBaseURL(server.URL)
	artifact, generateErr := client.GenerateDockerFiles(context.Background(), "widget", "content")
	if generateErr != nil {
		t.Fatalf("GenerateDockerFiles error: %v", generateErr)
	}
	if artifact == "" {
		t.Fatalf("expected generated deployment files")
	}
	if receivedPath != RouteGenerateDockerFiles {
		t.Fatalf("expected path %s, got %s", RouteGenerateDockerFiles, receivedPath)
	}
}

func TestClientGenerationFailures(t *testing.T) {
	testCases := []struct {
		name            string
		statusCode      int
		body            string
		expectRateLimit bool
		expectedMessage string
	}{
		{
			name:            "error payload",
			statusCode:      http.StatusInternalServerError,
			body:            `{"error":"backend exploded"}`,
			expectedMessage: "backend exploded",
		},
		{
			name:            "error without payload",
			statusCode:      http.StatusBadGateway,
			body:            "bad gateway",
			expectedMessage: genericGenerationMessage,
		},
		{
			name:            "rate limited",
			statusCode:      http.StatusTooManyRequests,
			body:            `{"error":"slow down"}`,
			expectRateLimit: true,
			expectedMessage: "slow down",
		},
		{
			name:            "missing artifact field",
			statusCode:      http.StatusOK,
			body:            `{}`,
			expectedMessage: noContentReceivedMessage,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				requestCount++
				writer.Header().Set(headerContentType, contentTypeJSON)
				writer.WriteHeader(testCase.statusCode)
				_, _ = writer.Write([]byte(testCase.body))
			}))
			defer server.Close()

			client := NewClient(server.Client()).WithBaseURL(server.URL)
			_, generateErr := client.GenerateReadme(context.Background(), "widget", "content")
			if generateErr == nil {
				t.Fatalf("expected error")
			}
			if testCase.expectRateLimit {
				var rateLimitErr RateLimitError
				if !errors.As(generateErr, &rateLimitErr) {
					t.Fatalf("expected RateLimitError, got %T: %v", generateErr, generateErr)
				}
				if rateLimitErr.Error() != testCase.expectedMessage {
					t.Fatalf("expected message %q, got %q", testCase.expectedMessage, rateLimitErr.Error())
				}
			} else {
				var generationErr GenerationError
				if !errors.As(generateErr, &generationErr) {
					t.Fatalf("expected GenerationError, got %T: %v", generateErr, generateErr)
				}
				if generationErr.Error() != testCase.expectedMessage {
					t.Fatalf("expected message %q, got %q", testCase.expectedMessage, generationErr.Error())
				}
			}
			if requestCount != 1 {
				t.Fatalf("expected a single request without retries, got %d", requestCount)
			}
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient(nil).WithBaseURL(serverURL)
	_, generateErr := client.GenerateReadme(context.Background(), "widget", "content")
	if generateErr == nil {
		t.Fatalf("expected error for unreachable service")
	}
	var generationErr GenerationError
	if errors.As(generateErr, &generationErr) {
		t.Fatalf("expected transport failure, got GenerationError %v", generationErr)
	}
}
