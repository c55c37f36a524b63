package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/utils"
)

const (
	encodingBase64            = "base64"
	contentTypeDirectory      = "dir"
	defaultAPITimeout         = 30 * time.Second
	defaultAPIBaseURL         = "https://api.github.com"
	defaultUserAgent          = "gitscribe-fetcher"
	headerAuthorization       = "Authorization"
	headerAccept              = "Accept"
	headerGitHubAPIVersion    = "X-GitHub-Api-Version"
	acceptGitHubJSON          = "application/vnd.github+json"
	githubAPIVersionValue     = "2022-11-28"
	authorizationBearerPrefix = "Bearer "
	authorizationTokenPrefix  = "token "
	errorBodySniffLimit       = 8 * 1024

	warnSkippedSubtreeMessage    = "skipping unreadable subtree"
	warnRepeatedDirectoryMessage = "skipping repeated directory path"
)

var (
	errMissingOwner      = errors.New("repository owner is required")
	errMissingRepository = errors.New("repository name is required")
	errMissingCredential = ErrNoCredential
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type apiContent struct {
	Name     string
	Path     string
	Type     string
	Size     int64
	Content  string
	Encoding string
}

// Fetcher lists repository trees and retrieves file contents through the
// GitHub contents API. The zero value is not usable; construct with NewFetcher.
type Fetcher struct {
	client      httpClient
	credentials CredentialProvider
	logger      *zap.Logger
	apiBase     string
	userAgent   string
	timeout     time.Duration
}

// NewFetcher creates a Fetcher using the provided HTTP client and credential
// provider. A nil client falls back to a default client with a timeout.
func NewFetcher(client httpClient, credentials CredentialProvider) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultAPITimeout}
	}
	return Fetcher{
		client:      client,
		credentials: credentials,
		logger:      zap.NewNop(),
		apiBase:     defaultAPIBaseURL,
		userAgent:   defaultUserAgent,
		timeout:     defaultAPITimeout,
	}
}

// WithAPIBase overrides the API base URL.
func (fetcher Fetcher) WithAPIBase(base string) Fetcher {
	if base == "" {
		return fetcher
	}
	fetcher.apiBase = strings.TrimRight(base, "/")
	return fetcher
}

// WithUserAgent overrides the User-Agent header value.
func (fetcher Fetcher) WithUserAgent(agent string) Fetcher {
	if agent == "" {
		return fetcher
	}
	fetcher.userAgent = agent
	return fetcher
}

// WithTimeout overrides the HTTP timeout when the underlying client supports it.
func (fetcher Fetcher) WithTimeout(duration time.Duration) Fetcher {
	if duration <= 0 {
		return fetcher
	}
	fetcher.timeout = duration
	if clientWithTimeout, ok := fetcher.client.(*http.Client); ok {
		clientWithTimeout.Timeout = duration
	}
	return fetcher
}

// WithLogger attaches a logger used for recovered traversal failures.
func (fetcher Fetcher) WithLogger(logger *zap.Logger) Fetcher {
	if logger == nil {
		return fetcher
	}
	fetcher.logger = logger
	return fetcher
}

// EnsureCredential resolves the current credential and reports ErrNoCredential
// when none is available. No network request is made.
func (fetcher Fetcher) EnsureCredential() error {
	_, resolveErr := fetcher.authorizationValue()
	return resolveErr
}

// ListEntries lists the repository tree beneath rootPath in pre-order: each
// directory entry appears before the entries of its own subtree, siblings stay
// in API order. A failed root listing aborts with a ListingError; a failed
// subdirectory listing skips that subtree and continues with its siblings.
func (fetcher Fetcher) ListEntries(ctx context.Context, reference RepoRef, rootPath string) ([]Entry, error) {
	if reference.Owner == "" {
		return nil, errMissingOwner
	}
	if reference.Name == "" {
		return nil, errMissingRepository
	}
	authorizationValue, credentialErr := fetcher.authorizationValue()
	if credentialErr != nil {
		return nil, credentialErr
	}

	normalizedRoot := strings.Trim(strings.TrimSpace(rootPath), "/")
	visited := map[string]struct{}{}
	if normalizedRoot != "" {
		visited[normalizedRoot] = struct{}{}
	}

	var entries []Entry
	walkErr := fetcher.walkDirectory(ctx, &entries, visited, authorizationValue, reference, normalizedRoot, true)
	if walkErr != nil {
		return nil, walkErr
	}
	return entries, nil
}

func (fetcher Fetcher) walkDirectory(ctx context.Context, accumulator *[]Entry, visited map[string]struct{}, authorizationValue string, reference RepoRef, directoryPath string, isRoot bool) error {
	if contextErr := contextFailure(ctx, nil); contextErr != nil {
		return contextErr
	}
	payload, listErr := fetcher.listDirectory(ctx, authorizationValue, reference, directoryPath)
	if listErr != nil {
		if isRoot {
			return listErr
		}
		if contextErr := contextFailure(ctx, listErr); contextErr != nil {
			return contextErr
		}
		fetcher.logger.Warn(warnSkippedSubtreeMessage, zap.String("path", directoryPath), zap.Error(listErr))
		return nil
	}

	for _, node := range payload {
		entry := entryFromContent(node)
		*accumulator = append(*accumulator, entry)
		if !entry.IsDirectory() {
			continue
		}
		if _, seen := visited[entry.Path]; seen {
			fetcher.logger.Warn(warnRepeatedDirectoryMessage, zap.String("path", entry.Path))
			continue
		}
		visited[entry.Path] = struct{}{}
		if walkErr := fetcher.walkDirectory(ctx, accumulator, visited, authorizationValue, reference, entry.Path, false); walkErr != nil {
			return walkErr
		}
	}
	return nil
}

// FileContent fetches one file and decodes its base64 payload into text.
// Failures are reported as typed errors: ContentError for a non-success
// status, ErrEmptyContent for an absent payload, DecodeError for payloads
// that cannot be decoded into text.
func (fetcher Fetcher) FileContent(ctx context.Context, reference RepoRef, filePath string) (string, error) {
	authorizationValue, credentialErr := fetcher.authorizationValue()
	if credentialErr != nil {
		return "", credentialErr
	}
	apiURL, buildErr := fetcher.buildContentsURL(reference, filePath)
	if buildErr != nil {
		return "", buildErr
	}
	payload, payloadErr := fetcher.getContent(ctx, authorizationValue, apiURL, filePath, false)
	if payloadErr != nil {
		return "", payloadErr
	}
	if len(payload) != 1 {
		return "", fmt.Errorf("unexpected payload length %d for %s", len(payload), filePath)
	}
	item := payload[0]
	if item.Encoding != "" && item.Encoding != encodingBase64 {
		return "", NewDecodeError(filePath, fmt.Errorf("unsupported encoding %s", item.Encoding))
	}
	rawContent := strings.ReplaceAll(item.Content, "\n", "")
	if rawContent == "" {
		return "", ErrEmptyContent
	}
	contentBytes, decodeErr := base64.StdEncoding.DecodeString(rawContent)
	if decodeErr != nil {
		return "", NewDecodeError(filePath, decodeErr)
	}
	if utils.IsBinary(contentBytes) {
		return "", NewDecodeError(filePath, errBinaryContent)
	}
	return string(contentBytes), nil
}

func (fetcher Fetcher) listDirectory(ctx context.Context, authorizationValue string, reference RepoRef, directoryPath string) ([]apiContent, error) {
	apiURL, buildErr := fetcher.buildContentsURL(reference, directoryPath)
	if buildErr != nil {
		return nil, buildErr
	}
	return fetcher.getContent(ctx, authorizationValue, apiURL, directoryPath, true)
}

func (fetcher Fetcher) getContent(ctx context.Context, authorizationValue string, apiURL string, itemPath string, listing bool) ([]apiContent, error) {
	request, requestErr := fetcher.buildRequest(ctx, apiURL, authorizationValue)
	if requestErr != nil {
		return nil, requestErr
	}
	response, responseErr := fetcher.client.Do(request)
	if responseErr != nil {
		return nil, fmt.Errorf("request %s: %w", apiURL, responseErr)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, errorBodySniffLimit))
		if listing {
			return nil, NewListingError(itemPath, response.StatusCode)
		}
		return nil, NewContentError(itemPath, response.StatusCode)
	}
	var payload interface{}
	if decodeErr := json.NewDecoder(response.Body).Decode(&payload); decodeErr != nil {
		return nil, fmt.Errorf("decode payload for %s: %w", apiURL, decodeErr)
	}
	switch typed := payload.(type) {
	case []interface{}:
		results := make([]apiContent, 0, len(typed))
		for _, element := range typed {
			if content, ok := convertToContent(element); ok {
				results = append(results, content)
			}
		}
		return results, nil
	case map[string]interface{}:
		if content, ok := convertToContent(typed); ok {
			return []apiContent{content}, nil
		}
	}
	return nil, fmt.Errorf("unexpected GitHub payload for %s", apiURL)
}

func (fetcher Fetcher) buildRequest(ctx context.Context, rawURL string, authorizationValue string) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	request, requestErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if requestErr != nil {
		return nil, requestErr
	}
	if fetcher.userAgent != "" {
		request.Header.Set("User-Agent", fetcher.userAgent)
	}
	if authorizationValue != "" {
		request.Header.Set(headerAuthorization, authorizationValue)
	}
	request.Header.Set(headerAccept, acceptGitHubJSON)
	request.Header.Set(headerGitHubAPIVersion, githubAPIVersionValue)
	return request, nil
}

func (fetcher Fetcher) buildContentsURL(reference RepoRef, itemPath string) (string, error) {
	parsedURL, parseErr := url.Parse(fetcher.apiBase)
	if parseErr != nil {
		return "", parseErr
	}
	prefix := strings.TrimSuffix(parsedURL.Path, "/")
	var builder strings.Builder
	if prefix != "" {
		builder.WriteString(prefix)
	}
	builder.WriteByte('/')
	builder.WriteString("repos/")
	builder.WriteString(url.PathEscape(reference.Owner))
	builder.WriteByte('/')
	builder.WriteString(url.PathEscape(reference.Name))
	builder.WriteString("/contents")
	cleanedPath := strings.Trim(strings.TrimSpace(itemPath), "/")
	if cleanedPath != "" {
		for _, segment := range strings.Split(cleanedPath, "/") {
			if segment == "" {
				continue
			}
			builder.WriteByte('/')
			builder.WriteString(url.PathEscape(segment))
		}
	}
	escapedPath := builder.String()
	unescapedPath, unescapeErr := url.PathUnescape(escapedPath)
	if unescapeErr != nil {
		return "", unescapeErr
	}
	parsedURL.Path = unescapedPath
	parsedURL.RawPath = escapedPath
	query := parsedURL.Query()
	if reference.Reference != "" {
		query.Set("ref", reference.Reference)
	}
	parsedURL.RawQuery = query.Encode()
	return parsedURL.String(), nil
}

func (fetcher Fetcher) authorizationValue() (string, error) {
	if fetcher.credentials == nil {
		return "", errMissingCredential
	}
	token, resolveErr := fetcher.credentials.Resolve()
	if resolveErr != nil {
		return "", resolveErr
	}
	formatted := formatAuthorizationHeaderValue(token)
	if formatted == "" {
		return "", errMissingCredential
	}
	return formatted, nil
}

// entryFromContent maps an API node onto an Entry. Directory nodes keep their
// kind; every other node type participates as a file so the flat collection
// covers the whole listing.
func entryFromContent(content apiContent) Entry {
	kind := EntryKindFile
	if content.Type == contentTypeDirectory {
		kind = EntryKindDirectory
	}
	return Entry{
		Name:      content.Name,
		Path:      content.Path,
		Kind:      kind,
		SizeBytes: content.Size,
	}
}

func convertToContent(value interface{}) (apiContent, bool) {
	asMap, ok := value.(map[string]interface{})
	if !ok {
		return apiContent{}, false
	}
	content := apiContent{}
	if name, ok := asMap["name"].(string); ok {
		content.Name = name
	}
	if pathValue, ok := asMap["path"].(string); ok {
		content.Path = pathValue
	}
	if typeValue, ok := asMap["type"].(string); ok {
		content.Type = typeValue
	}
	if sizeValue, ok := asMap["size"].(float64); ok {
		content.Size = int64(sizeValue)
	}
	if contentValue, ok := asMap["content"].(string); ok {
		content.Content = contentValue
	}
	if encodingValue, ok := asMap["encoding"].(string); ok {
		content.Encoding = encodingValue
	}
	return content, true
}

func formatAuthorizationHeaderValue(rawToken string) string {
	trimmed := strings.TrimSpace(rawToken)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	bearerLower := strings.ToLower(authorizationBearerPrefix)
	tokenLower := strings.ToLower(authorizationTokenPrefix)
	if strings.HasPrefix(lower, bearerLower) || strings.HasPrefix(lower, tokenLower) {
		return trimmed
	}
	if strings.Contains(trimmed, ".") {
		return authorizationBearerPrefix + trimmed
	}
	return authorizationTokenPrefix + trimmed
}

// contextFailure reports the context error when the context is done or when
// cause carries a cancellation. Cancellation is always terminal, even inside
// an otherwise recoverable subtree.
func contextFailure(ctx context.Context, cause error) error {
	if ctx != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if cause != nil && (errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded)) {
		return cause
	}
	return nil
}
