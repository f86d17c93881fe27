// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// We can pass an empty token because we are not authenticating to the real GitHub.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient("", logger)

	// Override the client's internal http client to point to our test server.
	testClient, err := github.NewClient(server.Client()).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	client.gh = testClient

	return client, server
}

func TestClient_ListOrgRepos(t *testing.T) {
	t.Run("translates the repository listing", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/orgs/acme/repos", r.URL.Path)
			fmt.Fprintln(w, `[
				{"name": "widgets", "owner": {"login": "acme"}},
				{"name": "gadgets", "owner": {"login": "acme"}}
			]`)
		})
		client, _ := setupTestClient(t, handler)

		repos, err := client.ListOrgRepos(context.Background(), "acme")

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "acme/widgets", repos[0].FullName())
		assert.Equal(t, "acme/gadgets", repos[1].FullName())
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"message": "Bad credentials"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, err := client.ListOrgRepos(context.Background(), "acme")

		require.Error(t, err)
		var ghErr *github.ErrorResponse
		assert.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusUnauthorized, ghErr.Response.StatusCode)
	})
}

func TestClient_ListCommits(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/repos/acme/widgets/commits", r.URL.Path)
		fmt.Fprintln(w, `[
			{
				"sha": "c2",
				"html_url": "https://github.com/acme/widgets/commit/c2",
				"commit": {"message": "Fix the flux capacitor", "author": {"name": "Jo Dev"}}
			},
			{
				"sha": "c1",
				"html_url": "https://github.com/acme/widgets/commit/c1",
				"commit": {"message": "Initial commit", "author": {"name": "Jo Dev"}}
			}
		]`)
	})
	client, _ := setupTestClient(t, handler)

	commits, err := client.ListCommits(context.Background(), "acme", "widgets")

	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "c2", commits[0].SHA)
	assert.Equal(t, "Jo Dev", commits[0].AuthorName)
	assert.Equal(t, "Fix the flux capacitor", commits[0].Message)
	assert.Equal(t, "https://github.com/acme/widgets/commit/c2", commits[0].URL)
	assert.Equal(t, "c1", commits[1].SHA)
}

func TestClient_ListBranches(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/repos/acme/widgets/branches", r.URL.Path)
		fmt.Fprintln(w, `[
			{"name": "main", "commit": {"sha": "c2"}},
			{"name": "dev", "commit": {"sha": "c9"}}
		]`)
	})
	client, _ := setupTestClient(t, handler)

	branches, err := client.ListBranches(context.Background(), "acme", "widgets")

	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "main", branches[0].Name)
	assert.Equal(t, "c2", branches[0].CommitSHA)
}

func TestClient_ListOpenPulls(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/repos/acme/widgets/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		fmt.Fprintln(w, `[
			{
				"number": 7,
				"title": "Add sprockets",
				"html_url": "https://github.com/acme/widgets/pull/7",
				"user": {"login": "jodev"}
			}
		]`)
	})
	client, _ := setupTestClient(t, handler)

	pulls, err := client.ListOpenPulls(context.Background(), "acme", "widgets")

	require.NoError(t, err)
	require.Len(t, pulls, 1)
	assert.Equal(t, 7, pulls[0].Number)
	assert.Equal(t, "Add sprockets", pulls[0].Title)
	assert.Equal(t, "jodev", pulls[0].AuthorLogin)
}

func TestClient_GetUserName(t *testing.T) {
	t.Run("uses the profile display name", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/users/jodev", r.URL.Path)
			fmt.Fprintln(w, `{"login": "jodev", "name": "Jo Dev"}`)
		})
		client, _ := setupTestClient(t, handler)

		name, err := client.GetUserName(context.Background(), "jodev")

		require.NoError(t, err)
		assert.Equal(t, "Jo Dev", name)
	})

	t.Run("falls back to the login when the profile has no name", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"login": "jodev"}`)
		})
		client, _ := setupTestClient(t, handler)

		name, err := client.GetUserName(context.Background(), "jodev")

		require.NoError(t, err)
		assert.Equal(t, "jodev", name)
	})
}
