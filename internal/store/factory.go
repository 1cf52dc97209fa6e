package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Stores struct {
	pool *pgxpool.Pool
}

func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{pool: pool}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return &workspaceStore{pool: s.pool}
}

func (s *Stores) Terminals() TerminalStore {
	return &terminalStore{pool: s.pool}
}

func (s *Stores) Components() ComponentStore {
	return &componentStore{pool: s.pool}
}

func (s *Stores) Knowledge() KnowledgeStore {
	return &knowledgeStore{pool: s.pool}
}
