// internal/github/client.go
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/kalidyasin/github-commit-notifier/internal/model"
)

const (
	// One page per listing call. The poll loop only needs the most recent
	// window of each list; anything older is covered by the seen-state.
	reposPerPage   = 100
	commitsPerPage = 30
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// ListOrgRepos fetches the repositories of an organization. A single listing
// call; no pagination.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]model.Repository, error) {
	c.logger.Debug("Listing organization repositories", "org", org)

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	repos, _, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
	if err != nil {
		return nil, err
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, model.Repository{
			Owner: r.GetOwner().GetLogin(),
			Name:  r.GetName(),
		})
	}
	return out, nil
}

// ListCommits fetches the most recent commits of a repository,
// most-recent-first, as a single bounded page.
func (c *Client) ListCommits(ctx context.Context, owner, name string) ([]model.Commit, error) {
	c.logger.Debug("Listing commits", "owner", owner, "repo", name)

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: commitsPerPage},
	}
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	out := make([]model.Commit, 0, len(commits))
	for _, commit := range commits {
		out = append(out, toInternalCommit(commit))
	}
	return out, nil
}

// ListBranches fetches a repository's branches with their head commits.
func (c *Client) ListBranches(ctx context.Context, owner, name string) ([]model.Branch, error) {
	c.logger.Debug("Listing branches", "owner", owner, "repo", name)

	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	branches, _, err := c.gh.Repositories.ListBranches(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	out := make([]model.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, model.Branch{
			Name:      b.GetName(),
			CommitSHA: b.GetCommit().GetSHA(),
		})
	}
	return out, nil
}

// ListOpenPulls fetches a repository's open pull requests.
func (c *Client) ListOpenPulls(ctx context.Context, owner, name string) ([]model.PullRequest, error) {
	c.logger.Debug("Listing open pull requests", "owner", owner, "repo", name)

	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	pulls, _, err := c.gh.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	out := make([]model.PullRequest, 0, len(pulls))
	for _, pr := range pulls {
		out = append(out, model.PullRequest{
			Number:      pr.GetNumber(),
			Title:       pr.GetTitle(),
			AuthorLogin: pr.GetUser().GetLogin(),
			URL:         pr.GetHTMLURL(),
		})
	}
	return out, nil
}

// GetUserName resolves a login to the user's display name. Falls back to the
// login when the profile has no name set.
func (c *Client) GetUserName(ctx context.Context, login string) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return "", err
	}
	if name := user.GetName(); name != "" {
		return name, nil
	}
	return login, nil
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.Commit.
func toInternalCommit(c *github.RepositoryCommit) model.Commit {
	return model.Commit{
		SHA:        c.GetSHA(),
		AuthorName: c.GetCommit().GetAuthor().GetName(),
		Message:    c.GetCommit().GetMessage(),
		URL:        c.GetHTMLURL(),
	}
}
