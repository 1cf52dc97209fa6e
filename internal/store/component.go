package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"devloft.app/server/internal/model"
)

type componentStore struct {
	pool *pgxpool.Pool
}

// ListByProject returns every canvas component across all canvases of a
// project. The join carries the owning canvas id onto each component.
func (s *componentStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.CanvasComponent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cc.id, cc.canvas_id, cc.shape_id, cc.name, cc.component_type, cc.tech_stack, cc.description, cc.created_at
		FROM canvas_components cc
		JOIN canvases c ON c.id = cc.canvas_id
		WHERE c.project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CanvasComponent
	for rows.Next() {
		var comp model.CanvasComponent
		err := rows.Scan(
			&comp.ID,
			&comp.CanvasID,
			&comp.ShapeID,
			&comp.Name,
			&comp.ComponentType,
			&comp.TechStack,
			&comp.Description,
			&comp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, comp)
	}
	return result, rows.Err()
}
