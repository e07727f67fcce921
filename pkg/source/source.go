// Package source defines the repository-hosting capability consumed by the
// validation engine. Implementations live in sibling packages (see pkg/github).
package source

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals that a requested path, tree, or repository does not exist.
// Callers treat it as an empty result rather than a failure.
var ErrNotFound = errors.New("not found")

// ErrTruncated accompanies a partial listing that stopped at a page limit.
// The returned values are valid; older entries are missing.
var ErrTruncated = errors.New("listing truncated")

// Commit is a single commit observed in repository history.
type Commit struct {
	AuthorName string    `json:"author_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// CodeMatch is one code search hit. Content holds the matched fragment,
// not the whole file.
type CodeMatch struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Repository exposes read access to a single hosted repository.
type Repository interface {
	// Languages returns bytes of source per language.
	Languages(ctx context.Context) (map[string]int64, error)
	// File returns the decoded content of the file at path, or ErrNotFound.
	File(ctx context.Context, path string) (string, error)
	// Commits lists commits on the default branch, newest first, optionally
	// bounded. A listing cut short returns the commits seen with ErrTruncated.
	Commits(ctx context.Context, since, until *time.Time) ([]Commit, error)
	// CommitsBefore returns at most limit commits strictly before t, newest
	// first, in a single request.
	CommitsBefore(ctx context.Context, t time.Time, limit int) ([]Commit, error)
	// Tree lists every file path of the default branch, recursively.
	Tree(ctx context.Context) ([]string, error)
	// SearchCode runs a code search scoped to this repository.
	SearchCode(ctx context.Context, query string) ([]CodeMatch, error)
}

// Requester is implemented by repositories that can issue several requests
// for one call, such as a paged listing. It reports the requests sent so far.
type Requester interface {
	Requests() int64
}
