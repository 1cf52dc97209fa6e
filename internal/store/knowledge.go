package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devloft.app/server/internal/model"
)

type knowledgeStore struct {
	pool *pgxpool.Pool
}

const entityColumns = `id, project_id, name, entity_type, description, path, source_type, source_id, embedding IS NOT NULL, created_at`

func scanEntity(row pgx.Row) (*model.KnowledgeEntity, error) {
	var entity model.KnowledgeEntity
	err := row.Scan(
		&entity.ID,
		&entity.ProjectID,
		&entity.Name,
		&entity.EntityType,
		&entity.Description,
		&entity.Path,
		&entity.SourceType,
		&entity.SourceID,
		&entity.HasEmbedding,
		&entity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (s *knowledgeStore) CreateEntity(ctx context.Context, entity *model.KnowledgeEntity) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO knowledge_entities (id, project_id, name, entity_type, description, path, source_type, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+entityColumns,
		entity.ID, entity.ProjectID, entity.Name, entity.EntityType,
		entity.Description, entity.Path, entity.SourceType, entity.SourceID)
	created, err := scanEntity(row)
	if err != nil {
		return err
	}
	*entity = *created
	return nil
}

func (s *knowledgeStore) GetEntity(ctx context.Context, projectID, id uuid.UUID) (*model.KnowledgeEntity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM knowledge_entities WHERE id = $1 AND project_id = $2`,
		id, projectID)
	return scanEntity(row)
}

func (s *knowledgeStore) UpdateEntity(ctx context.Context, entity *model.KnowledgeEntity) error {
	row := s.pool.QueryRow(ctx, `
		UPDATE knowledge_entities
		SET name = $3, description = $4, path = $5
		WHERE id = $1 AND project_id = $2
		RETURNING `+entityColumns,
		entity.ID, entity.ProjectID, entity.Name, entity.Description, entity.Path)
	updated, err := scanEntity(row)
	if err != nil {
		return err
	}
	*entity = *updated
	return nil
}

// DeleteEntity removes an entity and every relation touching it.
func (s *knowledgeStore) DeleteEntity(ctx context.Context, projectID, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`DELETE FROM knowledge_relations WHERE source_id = $1 OR target_id = $1`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM knowledge_entities WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *knowledgeStore) ListEntities(ctx context.Context, projectID uuid.UUID, entityType string) ([]model.KnowledgeEntity, error) {
	query := `SELECT ` + entityColumns + ` FROM knowledge_entities WHERE project_id = $1`
	args := []any{projectID}
	if entityType != "" {
		query += ` AND entity_type = $2`
		args = append(args, entityType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntities(rows)
}

func (s *knowledgeStore) SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE knowledge_entities SET embedding = $2::vector WHERE id = $1`,
		id, vectorLiteral(embedding))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByEmbedding orders entities by cosine distance to the query
// vector. Entities without an embedding are excluded.
func (s *knowledgeStore) SearchByEmbedding(ctx context.Context, projectID uuid.UUID, embedding []float64, entityType string, limit int) ([]model.KnowledgeEntity, error) {
	query := `SELECT ` + entityColumns + ` FROM knowledge_entities
		WHERE project_id = $1 AND embedding IS NOT NULL`
	args := []any{projectID, vectorLiteral(embedding)}
	if entityType != "" {
		query += ` AND entity_type = $3`
		args = append(args, entityType)
	}
	query += ` ORDER BY embedding <=> $2::vector LIMIT ` + strconv.Itoa(limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntities(rows)
}

func (s *knowledgeStore) CreateRelation(ctx context.Context, relation *model.KnowledgeRelation) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO knowledge_relations (id, project_id, source_id, target_id, relation_type, weight)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, project_id, source_id, target_id, relation_type, weight, created_at`,
		relation.ID, relation.ProjectID, relation.SourceID, relation.TargetID,
		relation.RelationType, relation.Weight)
	created, err := scanRelation(row)
	if err != nil {
		return err
	}
	*relation = *created
	return nil
}

func (s *knowledgeStore) ListRelations(ctx context.Context, projectID uuid.UUID) ([]model.KnowledgeRelation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, source_id, target_id, relation_type, weight, created_at
		FROM knowledge_relations WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRelations(rows)
}

// ListRelationsAmong returns relations whose source and target are both
// in the given id set.
func (s *knowledgeStore) ListRelationsAmong(ctx context.Context, projectID uuid.UUID, entityIDs []uuid.UUID) ([]model.KnowledgeRelation, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, source_id, target_id, relation_type, weight, created_at
		FROM knowledge_relations
		WHERE project_id = $1 AND source_id = ANY($2) AND target_id = ANY($2)`,
		projectID, entityIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRelations(rows)
}

func scanRelation(row pgx.Row) (*model.KnowledgeRelation, error) {
	var rel model.KnowledgeRelation
	err := row.Scan(
		&rel.ID,
		&rel.ProjectID,
		&rel.SourceID,
		&rel.TargetID,
		&rel.RelationType,
		&rel.Weight,
		&rel.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func collectEntities(rows pgx.Rows) ([]model.KnowledgeEntity, error) {
	var result []model.KnowledgeEntity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entity)
	}
	return result, rows.Err()
}

func collectRelations(rows pgx.Rows) ([]model.KnowledgeRelation, error) {
	var result []model.KnowledgeRelation
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rel)
	}
	return result, rows.Err()
}

// vectorLiteral renders a pgvector input literal: [v1,v2,...].
func vectorLiteral(v []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
