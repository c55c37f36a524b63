package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRepositoryListerPagesThroughResults(t *testing.T) {
	var serverURL string
	var authorizationHeader string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/user/repos" {
			t.Errorf("unexpected request path %s", request.URL.Path)
			writer.WriteHeader(http.StatusNotFound)
			return
		}
		authorizationHeader = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		if request.URL.Query().Get("page") == "2" {
			fmt.Fprint(writer, `[{"name":"beta","full_name":"acme/beta","private":true,"stargazers_count":3}]`)
			return
		}
		writer.Header().Set("Link", fmt.Sprintf(`<%s/user/repos?page=2>; rel="next"`, serverURL))
		fmt.Fprint(writer, `[{"name":"alpha","full_name":"acme/alpha","description":"first","default_branch":"main","language":"Go","private":false,"stargazers_count":7}]`)
	}))
	defer server.Close()
	serverURL = server.URL

	lister := NewRepositoryLister(NewStaticCredentialProvider("test-token")).WithAPIBase(server.URL)
	repositories, listErr := lister.List(context.Background(), VisibilityAll)
	if listErr != nil {
		t.Fatalf("List error: %v", listErr)
	}
	if len(repositories) != 2 {
		t.Fatalf("expected 2 repositories, got %d", len(repositories))
	}
	expectedFirst := Repository{
		Name:          "alpha",
		FullName:      "acme/alpha",
		Description:   "first",
		DefaultBranch: "main",
		Language:      "Go",
		Stars:         7,
	}
	if repositories[0] != expectedFirst {
		t.Fatalf("expected first repository %+v, got %+v", expectedFirst, repositories[0])
	}
	if repositories[1].FullName != "acme/beta" || !repositories[1].Private || repositories[1].Stars != 3 {
		t.Fatalf("unexpected second repository %+v", repositories[1])
	}
	if authorizationHeader != "Bearer test-token" {
		t.Fatalf("expected bearer authorization, got %q", authorizationHeader)
	}
}

func TestRepositoryListerRejectsUnknownVisibility(t *testing.T) {
	lister := NewRepositoryLister(NewStaticCredentialProvider("test-token"))
	_, listErr := lister.List(context.Background(), "bogus")
	if listErr == nil {
		t.Fatalf("expected error for unknown visibility")
	}
}

func TestRepositoryListerRequiresCredential(t *testing.T) {
	lister := NewRepositoryLister(NewStaticCredentialProvider(""))
	_, listErr := lister.List(context.Background(), VisibilityAll)
	if !errors.Is(listErr, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", listErr)
	}
}
