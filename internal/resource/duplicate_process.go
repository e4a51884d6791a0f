// Package resource holds REST resources that sit between the HTTP boundary and
// domain services. Resources authorize the caller, delegate, and report an
// outcome kind; they know nothing about status codes.
package resource

import (
	"context"
	"errors"
	"log/slog"

	"processapi/internal/auth"
	"processapi/internal/kv"
	"processapi/internal/logging"
	"processapi/internal/model"
)

// DuplicateProcessNamespace is the key-value collection owned by the resource.
const DuplicateProcessNamespace = "duplicate_process_resource"

var (
	// ErrAccessDenied means the caller lacks the required permission.
	ErrAccessDenied = errors.New("access denied")
	// ErrInternal hides any delegate failure from the caller.
	ErrInternal = errors.New("internal server error")
)

// ProcessDuplicator performs the actual cloning of a process.
type ProcessDuplicator interface {
	DuplicateProcess(ctx context.Context, sourceID string, overrides map[string]any) (*model.Process, error)
}

// Created is a successful creation: the new record and where it can be fetched.
type Created struct {
	Record   *model.Process
	Location string
}

// DuplicateProcessResource duplicates Process records on behalf of a caller.
type DuplicateProcessResource struct {
	// store is acquired for the resource namespace but not read or written
	// by the duplication path.
	store      kv.Store
	logger     *slog.Logger
	duplicator ProcessDuplicator
}

// NewDuplicateProcessResource wires the resource with its collaborators.
func NewDuplicateProcessResource(kvFactory kv.Factory, logger *slog.Logger, duplicator ProcessDuplicator) *DuplicateProcessResource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateProcessResource{
		store:      kvFactory.Get(DuplicateProcessNamespace),
		logger:     logger,
		duplicator: duplicator,
	}
}

// Namespace returns the key-value namespace bound at construction.
func (r *DuplicateProcessResource) Namespace() string {
	return r.store.Namespace()
}

// Create duplicates the process sourceID with overrides applied.
//
// Returns ErrAccessDenied without calling the duplicator when the caller lacks
// "access content". Any duplicator error, or a nil record, is logged and replaced by ErrInternal.
func (r *DuplicateProcessResource) Create(ctx context.Context, caller auth.Account, sourceID string, overrides map[string]any) (*Created, error) {
	if caller == nil || !caller.HasPermission(auth.PermissionAccessContent) {
		return nil, ErrAccessDenied
	}

	p, err := r.duplicator.DuplicateProcess(ctx, sourceID, overrides)
	if err != nil {
		r.logFailure(ctx, sourceID, logging.Redact(err.Error()))
		return nil, ErrInternal
	}
	if p == nil {
		r.logFailure(ctx, sourceID, "no record returned")
		return nil, ErrInternal
	}

	return &Created{Record: p, Location: "/api/processes/" + p.ID}, nil
}

func (r *DuplicateProcessResource) logFailure(ctx context.Context, sourceID, reason string) {
	r.logger.ErrorContext(ctx, "An error occurred while duplicating Process entity: "+reason,
		slog.String("component", "duplicate_process_resource"),
		slog.String("request_id", logging.RequestIDFromContext(ctx)),
		slog.String("source_id", sourceID),
	)
}
