// Package github implements the repository capability over the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/JaimeStill/hackid/pkg/source"
)

// ErrRateLimited is returned when GitHub rejects a request for rate limiting.
var ErrRateLimited = errors.New("github rate limit exceeded")

// Client opens repositories through one authenticated go-github client.
type Client struct {
	gh       *gh.Client
	maxPages int
	logger   *slog.Logger
}

// New creates a Client from cfg.
func New(cfg *Config, logger *slog.Logger) (*Client, error) {
	c := gh.NewClient(&http.Client{Timeout: cfg.TimeoutDuration()})
	if cfg.Token != "" {
		c = c.WithAuthToken(cfg.Token)
	}

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		c.BaseURL = u
	}

	return &Client{
		gh:       c,
		maxPages: max(cfg.MaxCommitPages, 1),
		logger:   logger.With("system", "github"),
	}, nil
}

// Open returns a Repository for a GitHub URL.
func (c *Client) Open(repoURL string) (*Repository, error) {
	owner, name, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	return c.Repository(owner, name), nil
}

// Repository returns a Repository for owner/name.
func (c *Client) Repository(owner, name string) *Repository {
	return &Repository{
		client: c,
		owner:  owner,
		name:   name,
	}
}

// Repository is one GitHub repository. It implements source.Repository.
type Repository struct {
	client *Client
	owner  string
	name   string

	requests atomic.Int64
}

var _ source.Repository = (*Repository)(nil)

// Requests returns the number of API requests sent for this repository.
func (r *Repository) Requests() int64 {
	return r.requests.Load()
}

func (r *Repository) hit() {
	r.requests.Add(1)
}

// FullName returns owner/name.
func (r *Repository) FullName() string {
	return r.owner + "/" + r.name
}

func (r *Repository) Languages(ctx context.Context) (map[string]int64, error) {
	r.hit()
	langs, _, err := r.client.gh.Repositories.ListLanguages(ctx, r.owner, r.name)
	if err != nil {
		return nil, mapError(err)
	}
	out := make(map[string]int64, len(langs))
	for k, v := range langs {
		out[k] = int64(v)
	}
	return out, nil
}

func (r *Repository) File(ctx context.Context, path string) (string, error) {
	r.hit()
	file, _, _, err := r.client.gh.Repositories.GetContents(ctx, r.owner, r.name, path, nil)
	if err != nil {
		return "", mapError(err)
	}
	if file == nil {
		return "", fmt.Errorf("%w: %s is a directory", source.ErrNotFound, path)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return content, nil
}

// Commits pages through the default branch history up to the configured
// page limit. An empty repository yields no commits. Hitting the limit
// returns the newest commits with source.ErrTruncated.
func (r *Repository) Commits(ctx context.Context, since, until *time.Time) ([]source.Commit, error) {
	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	if since != nil {
		opts.Since = *since
	}
	if until != nil {
		opts.Until = *until
	}

	var out []source.Commit
	for range r.client.maxPages {
		r.hit()
		commits, resp, err := r.client.gh.Repositories.ListCommits(ctx, r.owner, r.name, opts)
		if err != nil {
			if status(err) == http.StatusConflict {
				return []source.Commit{}, nil
			}
			return nil, mapError(err)
		}

		for _, c := range commits {
			author := c.GetCommit().GetAuthor()
			out = append(out, source.Commit{
				AuthorName: commitAuthor(c),
				Timestamp:  author.GetDate().Time,
			})
		}

		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}

	r.client.logger.WarnContext(ctx, "commit listing truncated", "repo", r.FullName(), "pages", r.client.maxPages)
	return out, fmt.Errorf("%w: %d pages", source.ErrTruncated, r.client.maxPages)
}

// CommitsBefore lists up to limit commits authored strictly before t with
// one request.
func (r *Repository) CommitsBefore(ctx context.Context, t time.Time, limit int) ([]source.Commit, error) {
	limit = max(limit, 1)
	opts := &gh.CommitsListOptions{
		Until:       t,
		ListOptions: gh.ListOptions{PerPage: limit + 1},
	}

	r.hit()
	commits, _, err := r.client.gh.Repositories.ListCommits(ctx, r.owner, r.name, opts)
	if err != nil {
		if status(err) == http.StatusConflict {
			return []source.Commit{}, nil
		}
		return nil, mapError(err)
	}

	out := []source.Commit{}
	for _, c := range commits {
		ts := c.GetCommit().GetAuthor().GetDate().Time
		if !ts.Before(t) {
			continue
		}
		out = append(out, source.Commit{AuthorName: commitAuthor(c), Timestamp: ts})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// commitAuthor prefers the git author name and falls back to the account login.
func commitAuthor(c *gh.RepositoryCommit) string {
	if name := c.GetCommit().GetAuthor().GetName(); name != "" {
		return name
	}
	return c.GetAuthor().GetLogin()
}

// Tree lists every file path on the default branch.
func (r *Repository) Tree(ctx context.Context) ([]string, error) {
	r.hit()
	tree, _, err := r.client.gh.Git.GetTree(ctx, r.owner, r.name, "HEAD", true)
	if err != nil {
		if status(err) == http.StatusConflict {
			return nil, fmt.Errorf("%w: empty repository", source.ErrNotFound)
		}
		return nil, mapError(err)
	}

	var paths []string
	for _, e := range tree.Entries {
		if e.GetType() == "blob" {
			paths = append(paths, e.GetPath())
		}
	}
	if tree.GetTruncated() {
		r.client.logger.WarnContext(ctx, "tree listing truncated", "repo", r.FullName(), "entries", len(paths))
	}
	return paths, nil
}

func (r *Repository) SearchCode(ctx context.Context, query string) ([]source.CodeMatch, error) {
	q := fmt.Sprintf("%s repo:%s", query, r.FullName())
	r.hit()
	result, _, err := r.client.gh.Search.Code(ctx, q, &gh.SearchOptions{
		TextMatch:   true,
		ListOptions: gh.ListOptions{PerPage: 5},
	})
	if err != nil {
		return nil, mapError(err)
	}

	var out []source.CodeMatch
	for _, cr := range result.CodeResults {
		var fragments []string
		for _, tm := range cr.TextMatches {
			if f := tm.GetFragment(); f != "" {
				fragments = append(fragments, f)
			}
		}
		out = append(out, source.CodeMatch{
			Path:    cr.GetPath(),
			Content: strings.Join(fragments, "\n...\n"),
		})
	}
	return out, nil
}

func status(err error) int {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}

func mapError(err error) error {
	var rl *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &rl), errors.As(err, &abuse):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case status(err) == http.StatusNotFound:
		return fmt.Errorf("%w: %w", source.ErrNotFound, err)
	default:
		return err
	}
}
