package model

import "time"

// Process status values.
const (
	ProcessStatusDraft    = "draft"
	ProcessStatusActive   = "active"
	ProcessStatusArchived = "archived"
)

// Process is a business process definition managed by the API.
// It carries JSON tags only; column mapping lives in the postgres repository.
type Process struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	OwnerID     string         `json:"owner_id"`
	DiagramPath string         `json:"diagram_path,omitempty"`
	Fields      map[string]any `json:"fields"`
	ClonedFrom  *string        `json:"cloned_from"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
