package validations

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/hackid/pkg/pagination"
)

// System defines the public contract for validation domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	// Validate runs one project and stores the result.
	Validate(ctx context.Context, req Request) (*Validation, error)
	// Batch runs many projects with pacing and stores each result.
	Batch(ctx context.Context, reqs []Request) ([]BatchResult, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Validation], error)

	Find(ctx context.Context, id uuid.UUID) (*Validation, error)
	// Artifact streams the stored report JSON. The caller must close it.
	Artifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
