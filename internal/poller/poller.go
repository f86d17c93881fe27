// internal/poller/poller.go

// Package poller drives the polling cycles: list each organization's
// repositories, diff the fetched activity against the seen-state, and hand
// anything new to the notifier.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	custom_errors "github.com/kalidyasin/github-commit-notifier/internal/errors"
	"github.com/kalidyasin/github-commit-notifier/internal/model"
	"github.com/kalidyasin/github-commit-notifier/internal/state"
)

const (
	// Number of repositories to check in parallel within one cycle.
	concurrency = 10

	// Upper bound on one repository's worth of API calls, so a hanging
	// request cannot stall the whole cycle.
	perRepoTimeout = 30 * time.Second
)

// GitHub is the slice of the GitHub API the poller consumes.
type GitHub interface {
	ListOrgRepos(ctx context.Context, org string) ([]model.Repository, error)
	ListCommits(ctx context.Context, owner, name string) ([]model.Commit, error)
	ListBranches(ctx context.Context, owner, name string) ([]model.Branch, error)
	ListOpenPulls(ctx context.Context, owner, name string) ([]model.PullRequest, error)
	GetUserName(ctx context.Context, login string) (string, error)
}

// Notifier receives everything the poller decides is new.
type Notifier interface {
	NotifyCommit(org, repo string, c model.Commit)
	NotifyBranch(org, repo, branch string)
	NotifyPullRequest(org, repo string, pr model.PullRequest)
}

// Poller orchestrates the fetch/diff/notify cycle on a timer.
type Poller struct {
	gh       GitHub
	tracker  *state.Tracker
	notifier Notifier
	logger   *slog.Logger
	orgs     []string
	interval time.Duration
}

// NewPoller creates a new Poller instance.
func NewPoller(gh GitHub, tracker *state.Tracker, notifier Notifier, logger *slog.Logger, orgs []string, interval time.Duration) *Poller {
	return &Poller{
		gh:       gh,
		tracker:  tracker,
		notifier: notifier,
		logger:   logger,
		orgs:     orgs,
		interval: interval,
	}
}

// Start begins the continuous polling process. It blocks until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting poller", "orgs", p.orgs, "interval", p.interval.String(), "concurrency", concurrency)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunCycle(ctx) // Initial cycle

	for {
		select {
		case <-ticker.C:
			p.RunCycle(ctx)
		case <-ctx.Done():
			p.logger.Info("Poller shutting down", "reason", ctx.Err())
			return
		}
	}
}

// RunCycle performs one polling pass over all configured organizations,
// checking repositories concurrently.
func (p *Poller) RunCycle(ctx context.Context) {
	p.logger.Info("Starting poll cycle")

	var repos []model.Repository
	for _, org := range p.orgs {
		orgRepos, err := p.gh.ListOrgRepos(ctx, org)
		if err != nil {
			p.logFetchError("Failed to list repositories", err, "org", org)
			continue
		}
		repos = append(repos, orgRepos...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			p.checkRepo(gctx, repo)
			return nil
		})
	}

	_ = g.Wait()
	p.logger.Info("Poll cycle finished", "repos", len(repos))
}

// checkRepo runs the commit, branch, and pull request checks for one
// repository. Each check fails independently; a failure leaves that check's
// seen-state untouched so the same delta is re-evaluated next cycle.
func (p *Poller) checkRepo(ctx context.Context, repo model.Repository) {
	ctx, cancel := context.WithTimeout(ctx, perRepoTimeout)
	defer cancel()

	if err := p.checkCommits(ctx, repo); err != nil && !errors.Is(err, context.Canceled) {
		p.logFetchError("Failed to check commits", err, "repo", repo.FullName())
	}
	if err := p.checkBranches(ctx, repo); err != nil && !errors.Is(err, context.Canceled) {
		p.logFetchError("Failed to check branches", err, "repo", repo.FullName())
	}
	if err := p.checkPulls(ctx, repo); err != nil && !errors.Is(err, context.Canceled) {
		p.logFetchError("Failed to check pull requests", err, "repo", repo.FullName())
	}
}

// checkCommits fetches the recent commits of a repository and notifies the
// ones not yet seen. The stored head is only advanced after a fully
// successful fetch.
func (p *Poller) checkCommits(ctx context.Context, repo model.Repository) error {
	commits, err := p.gh.ListCommits(ctx, repo.Owner, repo.Name)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		return nil
	}
	head := commits[0]

	seen, ok := p.tracker.Head(repo.FullName())
	if !ok {
		// First time this repository is observed: seed the head without
		// notifying, so a fresh process does not replay the backlog.
		p.tracker.SetHead(repo.FullName(), head.SHA)
		p.logger.Debug("Seeded repository head", "repo", repo.FullName(), "sha", head.SHA)
		return nil
	}

	fresh := selectNewCommits(commits, seen)
	for _, c := range fresh {
		p.notifier.NotifyCommit(repo.Owner, repo.Name, c)
	}
	if len(fresh) > 0 {
		p.logger.Info("Notified new commits", "repo", repo.FullName(), "count", len(fresh))
	}
	p.tracker.SetHead(repo.FullName(), head.SHA)
	return nil
}

// selectNewCommits returns the commits to notify, oldest first, given a
// most-recent-first fetch and the last notified SHA. Commits newer than the
// stored SHA are new; if the stored SHA is absent from the fetch (force-push
// or history rewrite), only the head commit is treated as new rather than an
// unbounded, ambiguous backlog.
func selectNewCommits(commits []model.Commit, seenSHA string) []model.Commit {
	var fresh []model.Commit
	found := false
	for _, c := range commits {
		if c.SHA == seenSHA {
			found = true
			break
		}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return nil
	}
	if !found {
		fresh = fresh[:1]
	}
	// Chronological dispatch order.
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	return fresh
}

func (p *Poller) checkBranches(ctx context.Context, repo model.Repository) error {
	branches, err := p.gh.ListBranches(ctx, repo.Owner, repo.Name)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}

	fresh, seeded := p.tracker.DiffBranches(repo.FullName(), names)
	if seeded {
		p.logger.Debug("Seeded branch set", "repo", repo.FullName(), "branches", len(names))
		return nil
	}
	for _, name := range fresh {
		p.notifier.NotifyBranch(repo.Owner, repo.Name, name)
	}
	return nil
}

func (p *Poller) checkPulls(ctx context.Context, repo model.Repository) error {
	pulls, err := p.gh.ListOpenPulls(ctx, repo.Owner, repo.Name)
	if err != nil {
		return err
	}

	numbers := make([]int, 0, len(pulls))
	byNumber := make(map[int]model.PullRequest, len(pulls))
	for _, pr := range pulls {
		numbers = append(numbers, pr.Number)
		byNumber[pr.Number] = pr
	}

	fresh, seeded := p.tracker.DiffPulls(repo.FullName(), numbers)
	if seeded {
		p.logger.Debug("Seeded pull request set", "repo", repo.FullName(), "pulls", len(numbers))
		return nil
	}
	for _, number := range fresh {
		pr := byNumber[number]
		name, err := p.gh.GetUserName(ctx, pr.AuthorLogin)
		if err != nil {
			p.logger.Warn("Failed to resolve pull request author", "login", pr.AuthorLogin, "error", err)
		} else {
			pr.AuthorName = name
		}
		p.notifier.NotifyPullRequest(repo.Owner, repo.Name, pr)
	}
	return nil
}

// logFetchError logs authorization failures at error level since they will
// recur every cycle; other transport failures are warnings.
func (p *Poller) logFetchError(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if custom_errors.IsAuthorization(err) {
		p.logger.Error(msg, args...)
		return
	}
	p.logger.Warn(msg, args...)
}
