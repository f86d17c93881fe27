// internal/model/models.go
package model

import (
	"fmt"
	"time"
)

// Repository identifies a GitHub repository within a monitored organization.
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the canonical "owner/name" identifier.
func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Commit is the subset of commit data we notify about. Immutable once fetched.
type Commit struct {
	SHA        string `json:"sha"`
	AuthorName string `json:"author_name"`
	Message    string `json:"message"`
	URL        string `json:"url"`
}

// Branch is a repository branch and the commit its head points at.
type Branch struct {
	Name      string `json:"name"`
	CommitSHA string `json:"commit_sha"`
}

// PullRequest is an open pull request on a monitored repository.
// AuthorName carries the user's display name when the user lookup succeeds,
// otherwise it falls back to the login.
type PullRequest struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	AuthorLogin string `json:"author_login"`
	AuthorName  string `json:"author_name"`
	URL         string `json:"url"`
}

// NotificationKind distinguishes the event that produced a notification.
type NotificationKind string

const (
	KindCommit      NotificationKind = "commit"
	KindBranch      NotificationKind = "branch"
	KindPullRequest NotificationKind = "pull_request"
)

// Notification is the payload handed to the terminal and desktop sinks,
// and recorded for the status API.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	Org        string           `json:"org"`
	Repository string           `json:"repository"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	At         time.Time        `json:"at"`
}
