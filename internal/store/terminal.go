package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devloft.app/server/internal/model"
)

type terminalStore struct {
	pool *pgxpool.Pool
}

const terminalColumns = `id, workspace_id, tmux_session, owner_id, mode, created_at`

func scanTerminal(row pgx.Row) (*model.TerminalSession, error) {
	var session model.TerminalSession
	err := row.Scan(
		&session.ID,
		&session.WorkspaceID,
		&session.TmuxSession,
		&session.OwnerID,
		&session.Mode,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *terminalStore) GetByID(ctx context.Context, id uuid.UUID) (*model.TerminalSession, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+terminalColumns+` FROM terminal_sessions WHERE id = $1`, id)
	return scanTerminal(row)
}

func (s *terminalStore) Create(ctx context.Context, session *model.TerminalSession) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO terminal_sessions (id, workspace_id, tmux_session, owner_id, mode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+terminalColumns,
		session.ID, session.WorkspaceID, session.TmuxSession, session.OwnerID, session.Mode)
	created, err := scanTerminal(row)
	if err != nil {
		return err
	}
	*session = *created
	return nil
}

func (s *terminalStore) UpdateMode(ctx context.Context, id uuid.UUID, mode model.TerminalMode) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE terminal_sessions SET mode = $2 WHERE id = $1`, id, mode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *terminalStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.TerminalSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+terminalColumns+` FROM terminal_sessions
		 WHERE workspace_id = $1 ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.TerminalSession
	for rows.Next() {
		session, err := scanTerminal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *session)
	}
	return result, rows.Err()
}
