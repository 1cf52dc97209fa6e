package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devloft.app/server/internal/model"
)

type workspaceStore struct {
	pool *pgxpool.Pool
}

const workspaceColumns = `id, project_id, user_id, container_id, port, status, scope, last_activity, created_at`

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	err := row.Scan(
		&ws.ID,
		&ws.ProjectID,
		&ws.UserID,
		&ws.ContainerID,
		&ws.Port,
		&ws.Status,
		&ws.Scope,
		&ws.LastActivity,
		&ws.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *workspaceStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO workspaces (id, project_id, user_id, container_id, port, status, scope, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING `+workspaceColumns,
		ws.ID, ws.ProjectID, ws.UserID, ws.ContainerID, ws.Port, ws.Status, ws.Scope)
	created, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *created
	return nil
}

func (s *workspaceStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.WorkspaceStatus, containerID *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE workspaces SET status = $2, container_id = $3 WHERE id = $1`,
		id, status, containerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE workspaces SET last_activity = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Workspace, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces
		 WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaces(rows)
}

// ListActivePorts returns the host ports held by records that may still
// own their port (status starting or running).
func (s *workspaceStore) ListActivePorts(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT port FROM workspaces WHERE status IN ('starting', 'running')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ports []int
	for rows.Next() {
		var port int
		if err := rows.Scan(&port); err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}
	return ports, rows.Err()
}

func (s *workspaceStore) ListIdleRunning(ctx context.Context, cutoff time.Time) ([]model.Workspace, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces
		 WHERE status = 'running' AND last_activity < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaces(rows)
}

func collectWorkspaces(rows pgx.Rows) ([]model.Workspace, error) {
	var result []model.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ws)
	}
	return result, rows.Err()
}
