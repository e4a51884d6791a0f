package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"processapi/internal/model"
	"processapi/internal/repository"
	"processapi/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("process not found")
	ErrInvalidOverrides = errors.New("invalid overrides")
)

// copySuffix is appended to the source title when no title override is given.
const copySuffix = " (copy)"

// ProcessService defines the use cases for handling processes.
type ProcessService interface {
	// DuplicateProcess clones the process identified by sourceID, applies overrides,
	// copies its diagram object and persists the clone. Every call creates a new record.
	DuplicateProcess(ctx context.Context, sourceID string, overrides map[string]any) (*model.Process, error)

	// Get returns a single process by its ID.
	Get(ctx context.Context, id string) (*model.Process, error)
}

// processOverrides are the fields a caller may set on a duplicate.
type processOverrides struct {
	Title       *string        `json:"title" validate:"omitempty,max=255"`
	Description *string        `json:"description"`
	Status      *string        `json:"status" validate:"omitempty,oneof=draft active archived"`
	OwnerID     *string        `json:"owner_id" validate:"omitempty,max=255"`
	Fields      map[string]any `json:"fields"`
}

type processService struct {
	store    storage.Storage
	repo     repository.ProcessRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewProcessService constructs a new ProcessService.
func NewProcessService(store storage.Storage, repo repository.ProcessRepository) ProcessService {
	return &processService{
		store:    store,
		repo:     repo,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *processService) DuplicateProcess(ctx context.Context, sourceID string, overrides map[string]any) (*model.Process, error) {
	if sourceID == "" {
		return nil, ErrIDRequired
	}
	ov, err := s.decodeOverrides(overrides)
	if err != nil {
		return nil, err
	}

	src, err := s.repo.FindByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load source process: %w", err)
	}

	clone := s.cloneProcess(src, ov)

	var copiedKey string
	if src.DiagramPath != "" {
		dst := path.Join("processes", clone.ID, path.Base(src.DiagramPath))
		info, err := s.store.Copy(ctx, src.DiagramPath, dst)
		if err != nil {
			return nil, fmt.Errorf("copy diagram: %w", err)
		}
		copiedKey = info.Key
		clone.DiagramPath = info.Key
	}

	stored, err := s.repo.Create(ctx, clone)
	if err != nil {
		if copiedKey != "" {
			// Rollback: delete the copied diagram
			if delErr := s.store.Delete(ctx, copiedKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %w; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// Get returns a process by ID.
func (s *processService) Get(ctx context.Context, id string) (*model.Process, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// decodeOverrides accepts only known keys with the right JSON types.
func (s *processService) decodeOverrides(overrides map[string]any) (processOverrides, error) {
	var ov processOverrides
	if len(overrides) == 0 {
		return ov, nil
	}

	raw, err := json.Marshal(overrides)
	if err != nil {
		return ov, fmt.Errorf("%w: %v", ErrInvalidOverrides, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		return ov, fmt.Errorf("%w: %v", ErrInvalidOverrides, err)
	}

	if ov.Title != nil && strings.TrimSpace(*ov.Title) == "" {
		return ov, fmt.Errorf("%w: title must not be blank", ErrInvalidOverrides)
	}
	if ov.Status != nil && *ov.Status == "" {
		return ov, fmt.Errorf("%w: status must not be empty", ErrInvalidOverrides)
	}
	if err := s.validate.Struct(ov); err != nil {
		return ov, fmt.Errorf("%w: %v", ErrInvalidOverrides, err)
	}
	return ov, nil
}

// cloneProcess builds the new record. Status resets to draft and the
// clone points back at its source.
func (s *processService) cloneProcess(src *model.Process, ov processOverrides) *model.Process {
	now := s.now()
	sourceID := src.ID

	clone := &model.Process{
		ID:          uuid.New().String(),
		Title:       src.Title + copySuffix,
		Description: src.Description,
		Status:      model.ProcessStatusDraft,
		OwnerID:     src.OwnerID,
		Fields:      copyFields(src.Fields),
		ClonedFrom:  &sourceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if ov.Title != nil {
		clone.Title = strings.TrimSpace(*ov.Title)
	}
	if ov.Description != nil {
		clone.Description = *ov.Description
	}
	if ov.Status != nil {
		clone.Status = *ov.Status
	}
	if ov.OwnerID != nil {
		clone.OwnerID = *ov.OwnerID
	}
	for k, v := range ov.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyFields(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
