package app

import (
	"errors"
	"fmt"
)

// Preload-then-commit: Validate → Preload → Verify → Commit
//
// A background image reaches the surface only after it has fully loaded
// and only if the refresh that asked for it is still the latest one.
//
//  1. VALIDATE - the candidate has a URL and its refresh is still current
//  2. PRELOAD  - the image is fetched and decoded within the preload timeout
//  3. VERIFY   - no newer refresh started while the image was loading
//  4. COMMIT   - the image becomes the visible background

// CommitStep names a stage of preload-then-commit.
type CommitStep string

const (
	StepValidate CommitStep = "validate"
	StepPreload  CommitStep = "preload"
	StepVerify   CommitStep = "verify"
	StepCommit   CommitStep = "commit"
)

// ErrStale means a newer refresh started, so the result was discarded.
var ErrStale = errors.New("superseded by a newer refresh")

// CommitError wraps errors with the step and image where they occurred.
type CommitError struct {
	Step  CommitStep
	URL   string
	Cause error
}

// Error implements the error interface.
func (e *CommitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed for %s: %v", e.Step, e.URL, e.Cause)
	}

	return fmt.Sprintf("%s failed for %s", e.Step, e.URL)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CommitError) Unwrap() error {
	return e.Cause
}

func newCommitError(step CommitStep, url string, cause error) error {
	return &CommitError{Step: step, URL: url, Cause: cause}
}

// IsCommitError checks if an error occurred while applying a background.
func IsCommitError(err error) bool {
	var commitErr *CommitError

	return errors.As(err, &commitErr)
}

// GetCommitStep extracts the step from a commit error.
func GetCommitStep(err error) (CommitStep, bool) {
	var commitErr *CommitError
	if errors.As(err, &commitErr) {
		return commitErr.Step, true
	}

	return "", false
}

// IsStale reports whether err means a newer refresh won.
func IsStale(err error) bool {
	return errors.Is(err, ErrStale)
}
