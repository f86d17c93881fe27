// internal/notify/notify.go

// Package notify delivers notifications to the terminal and to the host's
// desktop notification mechanism.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/kalidyasin/github-commit-notifier/internal/model"
)

// recentLimit bounds the in-memory notification history served by the status API.
const recentLimit = 100

// Desktop sends a notification through the host's native mechanism.
type Desktop interface {
	Send(title, body string) error
}

// BeeepDesktop delivers desktop notifications via beeep.
type BeeepDesktop struct{}

func (BeeepDesktop) Send(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Notifier writes notifications to the terminal and dispatches them to a
// Desktop. Desktop failures are logged and never fail the dispatch; terminal
// output always proceeds.
type Notifier struct {
	out     io.Writer
	desktop Desktop
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	recent []model.Notification
}

// NewNotifier creates a Notifier writing terminal output to out.
func NewNotifier(out io.Writer, desktop Desktop, logger *slog.Logger) *Notifier {
	return &Notifier{
		out:     out,
		desktop: desktop,
		logger:  logger,
		now:     time.Now,
	}
}

// NotifyCommit reports a newly observed commit.
func (n *Notifier) NotifyCommit(org, repo string, c model.Commit) {
	title := fmt.Sprintf("New commit in %s/%s", org, repo)
	body := fmt.Sprintf("By %s: %s\nURL: %s", c.AuthorName, c.Message, c.URL)
	n.dispatch(model.Notification{
		Kind:       model.KindCommit,
		Org:        org,
		Repository: repo,
		Title:      title,
		Body:       body,
	})
}

// NotifyBranch reports a newly observed branch.
func (n *Notifier) NotifyBranch(org, repo, branch string) {
	title := fmt.Sprintf("New branch in %s/%s", org, repo)
	body := fmt.Sprintf("Branch: %s\nURL: https://github.com/%s/%s/tree/%s", branch, org, repo, branch)
	n.dispatch(model.Notification{
		Kind:       model.KindBranch,
		Org:        org,
		Repository: repo,
		Title:      title,
		Body:       body,
	})
}

// NotifyPullRequest reports a newly observed open pull request.
func (n *Notifier) NotifyPullRequest(org, repo string, pr model.PullRequest) {
	author := pr.AuthorName
	if author == "" {
		author = pr.AuthorLogin
	}
	title := fmt.Sprintf("New pull request in %s/%s", org, repo)
	body := fmt.Sprintf("#%d %s\nBy: %s\nURL: %s", pr.Number, pr.Title, author, pr.URL)
	n.dispatch(model.Notification{
		Kind:       model.KindPullRequest,
		Org:        org,
		Repository: repo,
		Title:      title,
		Body:       body,
	})
}

func (n *Notifier) dispatch(msg model.Notification) {
	msg.At = n.now()

	fmt.Fprintf(n.out, "%s\n%s\n", msg.Title, msg.Body)

	if err := n.desktop.Send(msg.Title, msg.Body); err != nil {
		n.logger.Warn("Failed to deliver desktop notification", "title", msg.Title, "error", err)
	}

	n.mu.Lock()
	n.recent = append(n.recent, msg)
	if len(n.recent) > recentLimit {
		n.recent = n.recent[len(n.recent)-recentLimit:]
	}
	n.mu.Unlock()
}

// Recent returns the most recent notifications, newest last.
func (n *Notifier) Recent() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Notification, len(n.recent))
	copy(out, n.recent)
	return out
}
