package github

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidURL is returned for links that do not name a GitHub repository.
var ErrInvalidURL = errors.New("invalid GitHub repository URL")

// ParseRepoURL extracts owner and repository name from links such as
// https://github.com/owner/repo, github.com/owner/repo.git, or
// https://www.github.com/owner/repo/tree/main.
func ParseRepoURL(raw string) (owner, name string, err error) {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://", "git@"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.Replace(s, "github.com:", "github.com/", 1)

	parts := strings.Split(s, "/")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "github.com") {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	owner = parts[1]
	name = strings.TrimSuffix(parts[2], ".git")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}
	return owner, name, nil
}
