package model

import (
	"time"

	"github.com/google/uuid"
)

// CanvasComponent is a structural component drawn on a project canvas.
// Components are the nodes of the dependency graph.
type CanvasComponent struct {
	ID            uuid.UUID
	CanvasID      uuid.UUID
	ShapeID       string
	Name          string
	ComponentType string // service, database, queue, ...
	TechStack     *string
	Description   *string
	CreatedAt     time.Time
}
