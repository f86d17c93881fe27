// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// ErrMissingConfig is returned when a required environment value is absent.
type ErrMissingConfig struct {
	Key string
}

func (e *ErrMissingConfig) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

// ErrInvalidInterval is returned when SLEEP_SECS is not a positive integer.
type ErrInvalidInterval struct {
	Value string
}

func (e *ErrInvalidInterval) Error() string {
	return fmt.Sprintf("invalid poll interval %q: must be a positive integer number of seconds", e.Value)
}

// IsAuthorization reports whether err is the GitHub API rejecting our token.
// These recur every cycle until the token is fixed, so callers log them at a
// higher severity than ordinary transport failures.
func IsAuthorization(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized
}
