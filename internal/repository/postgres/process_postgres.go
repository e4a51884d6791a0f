package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"processapi/internal/model"
	"processapi/internal/repository"
)

// ProcessPostgres is a PostgreSQL implementation of repository.ProcessRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ProcessPostgres struct {
	db *sql.DB
}

// NewProcessPostgres creates a new ProcessPostgres repository.
func NewProcessPostgres(db *sql.DB) *ProcessPostgres {
	return &ProcessPostgres{db: db}
}

var _ repository.ProcessRepository = (*ProcessPostgres)(nil)

const processColumns = `id, title, description, status, owner_id, diagram_path, fields, cloned_from, created_at, updated_at`

// Create inserts a new process row and returns the stored record.
func (r *ProcessPostgres) Create(ctx context.Context, p *model.Process) (*model.Process, error) {
	fields, err := marshalFields(p.Fields)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO processes (` + processColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + processColumns

	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Title,
		p.Description,
		p.Status,
		p.OwnerID,
		p.DiagramPath,
		fields,
		nullString(p.ClonedFrom),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProcess(row)
}

// FindByID fetches a single process by its ID.
func (r *ProcessPostgres) FindByID(ctx context.Context, id string) (*model.Process, error) {
	q := `SELECT ` + processColumns + ` FROM processes WHERE id = $1`
	return scanProcess(r.db.QueryRowContext(ctx, q, id))
}

func scanProcess(row *sql.Row) (*model.Process, error) {
	var (
		p          model.Process
		fields     []byte
		clonedFrom sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.OwnerID,
		&p.DiagramPath,
		&fields,
		&clonedFrom,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Fields = map[string]any{}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &p.Fields); err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
	}
	if clonedFrom.Valid {
		v := clonedFrom.String
		p.ClonedFrom = &v
	}
	return &p, nil
}

func marshalFields(fields map[string]any) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	return string(b), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
