package validations

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/hackid/pkg/pagination"
	"github.com/JaimeStill/hackid/pkg/query"
	"github.com/JaimeStill/hackid/pkg/repository"
	"github.com/JaimeStill/hackid/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	runner     *Runner
	pacer      *Pacer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a validation repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	runner *Runner,
	pacer *Pacer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		runner:     runner,
		pacer:      pacer,
		logger:     logger.With("system", "validations"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) Validate(ctx context.Context, req Request) (*Validation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v, err := r.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	return r.create(ctx, v)
}

func (r *repo) Batch(ctx context.Context, reqs []Request) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	err := r.pacer.Run(ctx, len(reqs), func(ctx context.Context, i int) {
		results[i] = BatchResult{RepoURL: reqs[i].RepoURL}

		v, err := r.Validate(ctx, reqs[i])
		if err != nil {
			r.logger.WarnContext(ctx, "batch project failed", "repo", reqs[i].RepoURL, "error", err)
			results[i].Error = err.Error()
			return
		}
		results[i].Validation = v
	})
	if err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}

	r.logger.InfoContext(ctx, "batch complete", "projects", len(reqs))
	return results, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Validation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ProjectTitle", "RepoURL", "Hackathon")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count validations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanValidation)
	if err != nil {
		return nil, fmt.Errorf("query validations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Validation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanValidation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) Artifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	v, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, v.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, v.StorageKey)
		}
		return nil, err
	}
	return body, nil
}

func (r *repo) create(ctx context.Context, v *Validation) (*Validation, error) {
	id := uuid.New()
	key := artifactKey(id)

	claims, err := json.Marshal(v.Claims)
	if err != nil {
		return nil, fmt.Errorf("encode claims: %w", err)
	}
	report, err := json.Marshal(v.Report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	q := `
		INSERT INTO validations(id, repo_url, project_title, project_url, hackathon, window_start, window_end,
			status, confidence, external_calls_used, claims, report, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, repo_url, project_title, project_url, hackathon, window_start, window_end,
			status, confidence, external_calls_used, claims, report, storage_key, created_at`

	insertArgs := []any{
		id,
		v.RepoURL,
		v.ProjectTitle,
		v.ProjectURL,
		v.Hackathon,
		v.WindowStart,
		v.WindowEnd,
		string(v.Status),
		v.Confidence,
		v.ExternalCallsUsed,
		string(claims),
		string(report),
		key,
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Validation, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanValidation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.saveArtifact(ctx, key, &saved.Report)

	r.logger.InfoContext(
		ctx, "validation stored",
		"id", saved.ID,
		"repo", saved.RepoURL,
		"status", saved.Status,
	)
	return &saved, nil
}

// saveArtifact writes the report JSON to blob storage. The database record is
// authoritative, so a failed upload is logged and the artifact reads as missing.
func (r *repo) saveArtifact(ctx context.Context, key string, report any) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		r.logger.WarnContext(ctx, "artifact encode failed", "key", key, "error", err)
		return
	}
	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		r.logger.WarnContext(ctx, "artifact upload failed", "key", key, "error", err)
	}
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM validations WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, v.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.WarnContext(
			ctx, "artifact delete failed after record delete",
			"key", v.StorageKey,
			"error", delErr,
		)
	}

	r.logger.InfoContext(ctx, "validation deleted", "id", id)
	return nil
}

func artifactKey(id uuid.UUID) string {
	return fmt.Sprintf("validations/%s.json", id)
}
