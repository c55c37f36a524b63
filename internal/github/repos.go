package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

const (
	repositoryListPageSize  = 100
	repositoryListSortField = "updated"
	VisibilityAll           = "all"
	VisibilityPublic        = "public"
	VisibilityPrivate       = "private"
)

// Repository is a summary of one repository owned by or shared with the
// authenticated user.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"fullName"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
	Language      string `json:"language,omitempty"`
	Private       bool   `json:"private"`
	Stars         int    `json:"stars"`
}

// RepositoryLister enumerates the repositories visible to the authenticated
// user, most recently updated first.
type RepositoryLister struct {
	credentials CredentialProvider
	apiBase     string
}

// NewRepositoryLister creates a lister backed by the provided credentials.
func NewRepositoryLister(credentials CredentialProvider) RepositoryLister {
	return RepositoryLister{credentials: credentials}
}

// WithAPIBase overrides the API base URL.
func (lister RepositoryLister) WithAPIBase(base string) RepositoryLister {
	if base == "" {
		return lister
	}
	lister.apiBase = base
	return lister
}

// List returns every repository page by page. Visibility must be one of all,
// public or private; an empty value lists everything.
func (lister RepositoryLister) List(ctx context.Context, visibility string) ([]Repository, error) {
	normalizedVisibility, visibilityErr := normalizeVisibility(visibility)
	if visibilityErr != nil {
		return nil, visibilityErr
	}
	if lister.credentials == nil {
		return nil, ErrNoCredential
	}
	token, resolveErr := lister.credentials.Resolve()
	if resolveErr != nil {
		return nil, resolveErr
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gogithub.NewClient(oauth2.NewClient(ctx, tokenSource))
	if lister.apiBase != "" {
		baseURL, parseErr := url.Parse(lister.apiBase)
		if parseErr != nil {
			return nil, fmt.Errorf("parse API base %s: %w", lister.apiBase, parseErr)
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		client.BaseURL = baseURL
	}

	options := &gogithub.RepositoryListOptions{
		Visibility:  normalizedVisibility,
		Sort:        repositoryListSortField,
		ListOptions: gogithub.ListOptions{PerPage: repositoryListPageSize},
	}
	var repositories []Repository
	for {
		page, response, listErr := client.Repositories.List(ctx, "", options)
		if listErr != nil {
			return nil, fmt.Errorf("list repositories: %w", listErr)
		}
		for _, remote := range page {
			repositories = append(repositories, Repository{
				Name:          remote.GetName(),
				FullName:      remote.GetFullName(),
				Description:   remote.GetDescription(),
				DefaultBranch: remote.GetDefaultBranch(),
				Language:      remote.GetLanguage(),
				Private:       remote.GetPrivate(),
				Stars:         remote.GetStargazersCount(),
			})
		}
		if response == nil || response.NextPage == 0 {
			break
		}
		options.Page = response.NextPage
	}
	return repositories, nil
}

func normalizeVisibility(visibility string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(visibility))
	switch trimmed {
	case "", VisibilityAll:
		return VisibilityAll, nil
	case VisibilityPublic, VisibilityPrivate:
		return trimmed, nil
	}
	return "", fmt.Errorf("unsupported repository visibility %q", visibility)
}
