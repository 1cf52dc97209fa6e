package service

import (
	"devloft.app/server/common/embedding"
	"devloft.app/server/core/config"
	"devloft.app/server/internal/bus"
	"devloft.app/server/internal/runtime"
	"devloft.app/server/internal/store"
)

type Services struct {
	stores       *store.Stores
	containers   runtime.ContainerRuntime
	bus          bus.Bus
	embedder     embedding.Client
	workspaceCfg config.WorkspaceConfig
}

func NewServices(stores *store.Stores, containers runtime.ContainerRuntime, b bus.Bus, embedder embedding.Client, workspaceCfg config.WorkspaceConfig) *Services {
	return &Services{
		stores:       stores,
		containers:   containers,
		bus:          b,
		embedder:     embedder,
		workspaceCfg: workspaceCfg,
	}
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(s.stores.Workspaces(), s.containers, s.workspaceCfg)
}

func (s *Services) Terminals() TerminalService {
	return NewTerminalService(s.stores.Terminals(), s.stores.Workspaces(), s.containers)
}

func (s *Services) Graph() GraphService {
	return NewGraphService(s.stores.Components(), s.stores.Knowledge())
}

func (s *Services) Knowledge() KnowledgeService {
	return NewKnowledgeService(s.stores.Knowledge(), s.embedder)
}

func (s *Services) Bus() bus.Bus {
	return s.bus
}
