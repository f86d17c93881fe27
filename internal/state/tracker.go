// internal/state/tracker.go

// Package state holds the in-memory record of what has already been notified.
// Nothing here survives a restart: after a restart every repository goes
// through the bootstrap path again and is seeded without notifications.
package state

import (
	"sync"
)

// Tracker maps each repository (by full name) to the most recently notified
// commit SHA, plus the sets of branch names and pull request numbers already
// seen. It is safe for concurrent use by the per-repository checks running
// within one poll cycle.
type Tracker struct {
	mu       sync.Mutex
	heads    map[string]string
	branches map[string]map[string]struct{}
	pulls    map[string]map[int]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		heads:    make(map[string]string),
		branches: make(map[string]map[string]struct{}),
		pulls:    make(map[string]map[int]struct{}),
	}
}

// Head returns the last notified commit SHA for a repository, or ok=false if
// the repository has never been polled.
func (t *Tracker) Head(repo string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sha, ok := t.heads[repo]
	return sha, ok
}

// SetHead records the last notified commit SHA for a repository. Recording
// the same SHA twice has no additional effect.
func (t *Tracker) SetHead(repo, sha string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.heads[repo] = sha
}

// DiffBranches compares the currently fetched branch names against the seen
// set for the repository and returns the names not previously seen, adding
// them to the set. On the first observation of a repository the whole set is
// seeded and seeded=true is returned with no new names, so the caller can
// skip notifying a backlog.
func (t *Tracker) DiffBranches(repo string, current []string) (newNames []string, seeded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen, ok := t.branches[repo]
	if !ok {
		seen = make(map[string]struct{}, len(current))
		for _, name := range current {
			seen[name] = struct{}{}
		}
		t.branches[repo] = seen
		return nil, true
	}

	for _, name := range current {
		if _, dup := seen[name]; !dup {
			newNames = append(newNames, name)
			seen[name] = struct{}{}
		}
	}
	return newNames, false
}

// DiffPulls is DiffBranches for open pull request numbers.
func (t *Tracker) DiffPulls(repo string, current []int) (newNumbers []int, seeded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen, ok := t.pulls[repo]
	if !ok {
		seen = make(map[int]struct{}, len(current))
		for _, n := range current {
			seen[n] = struct{}{}
		}
		t.pulls[repo] = seen
		return nil, true
	}

	for _, n := range current {
		if _, dup := seen[n]; !dup {
			newNumbers = append(newNumbers, n)
			seen[n] = struct{}{}
		}
	}
	return newNumbers, false
}

// Snapshot returns a copy of the head map for the status API.
func (t *Tracker) Snapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	heads := make(map[string]string, len(t.heads))
	for repo, sha := range t.heads {
		heads[repo] = sha
	}
	return heads
}
