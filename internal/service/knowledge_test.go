package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	"devloft.app/server/internal/model"
	"devloft.app/server/internal/service"
)

var _ = Describe("KnowledgeService", func() {
	var (
		svc           service.KnowledgeService
		mockKnowledge *mockKnowledgeStore
		embedder      *mockEmbedder
		ctx           context.Context
		projectID     uuid.UUID
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockKnowledge = &mockKnowledgeStore{}
		embedder = &mockEmbedder{}
		projectID = uuid.New()
		svc = service.NewKnowledgeService(mockKnowledge, embedder)
	})

	Describe("CreateEntity", func() {
		It("should store the entity and its embedding", func() {
			entity, err := svc.CreateEntity(ctx, projectID, "auth service", "component", nil, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(entity.Name).To(Equal("auth service"))
			Expect(entity.HasEmbedding).To(BeTrue())
			Expect(mockKnowledge.setEmbeddingCalls).To(Equal(1))
		})

		It("should succeed even when the embedding call fails", func() {
			embedder.embedFn = func(_ context.Context, _ string) ([]float64, error) {
				return nil, errors.New("model overloaded")
			}

			entity, err := svc.CreateEntity(ctx, projectID, "auth service", "component", nil, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(entity.HasEmbedding).To(BeFalse())
			Expect(mockKnowledge.setEmbeddingCalls).To(BeZero())
		})

		It("should skip embedding entirely without a configured client", func() {
			svc = service.NewKnowledgeService(mockKnowledge, nil)

			entity, err := svc.CreateEntity(ctx, projectID, "auth service", "concept", nil, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(entity.HasEmbedding).To(BeFalse())
		})
	})

	Describe("UpdateEntity", func() {
		It("should re-embed when the name changes", func() {
			existing := &model.KnowledgeEntity{
				ID:         uuid.New(),
				ProjectID:  projectID,
				Name:       "old name",
				EntityType: "concept",
			}
			mockKnowledge.getEntityFn = func(_ context.Context, _, _ uuid.UUID) (*model.KnowledgeEntity, error) {
				return existing, nil
			}

			name := "new name"
			entity, err := svc.UpdateEntity(ctx, projectID, existing.ID, &name, nil, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(entity.Name).To(Equal("new name"))
			Expect(mockKnowledge.setEmbeddingCalls).To(Equal(1))
		})

		It("should not re-embed a path-only change", func() {
			existing := &model.KnowledgeEntity{
				ID:         uuid.New(),
				ProjectID:  projectID,
				Name:       "auth service",
				EntityType: "component",
			}
			mockKnowledge.getEntityFn = func(_ context.Context, _, _ uuid.UUID) (*model.KnowledgeEntity, error) {
				return existing, nil
			}

			path := "services/auth"
			_, err := svc.UpdateEntity(ctx, projectID, existing.ID, nil, nil, &path)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockKnowledge.setEmbeddingCalls).To(BeZero())
		})
	})

	Describe("Traverse", func() {
		It("should load the project graph and expand from the start entity", func() {
			hub := model.KnowledgeEntity{ID: uuid.New(), Name: "hub", EntityType: "concept"}
			spoke := model.KnowledgeEntity{ID: uuid.New(), Name: "spoke", EntityType: "concept"}
			far := model.KnowledgeEntity{ID: uuid.New(), Name: "far", EntityType: "concept"}
			mockKnowledge.listEntitiesFn = func(_ context.Context, _ uuid.UUID, entityType string) ([]model.KnowledgeEntity, error) {
				Expect(entityType).To(BeEmpty())
				return []model.KnowledgeEntity{hub, spoke, far}, nil
			}
			mockKnowledge.listRelationsFn = func(_ context.Context, _ uuid.UUID) ([]model.KnowledgeRelation, error) {
				return []model.KnowledgeRelation{
					{ID: uuid.New(), SourceID: hub.ID, TargetID: spoke.ID, RelationType: "relates_to"},
					{ID: uuid.New(), SourceID: spoke.ID, TargetID: far.ID, RelationType: "relates_to"},
				}, nil
			}

			result, err := svc.Traverse(ctx, projectID, hub.ID, 1, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Nodes).To(HaveLen(2))
			Expect(result.Edges).To(HaveLen(1))
		})
	})

	Describe("Search", func() {
		It("should return ErrEmbeddingUnavailable without a configured client", func() {
			svc = service.NewKnowledgeService(mockKnowledge, nil)

			_, err := svc.Search(ctx, projectID, "how does auth work", "", 10)

			Expect(err).To(MatchError(service.ErrEmbeddingUnavailable))
		})

		It("should return ErrEmbeddingUnavailable when the embedding call fails", func() {
			embedder.embedFn = func(_ context.Context, _ string) ([]float64, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.Search(ctx, projectID, "how does auth work", "", 10)

			Expect(err).To(MatchError(service.ErrEmbeddingUnavailable))
		})

		It("should pass the query vector and filters to the store", func() {
			var gotLimit int
			var gotType string
			mockKnowledge.searchByEmbeddingFn = func(_ context.Context, _ uuid.UUID, vec []float64, entityType string, limit int) ([]model.KnowledgeEntity, error) {
				Expect(vec).To(Equal([]float64{0.1, 0.2, 0.3}))
				gotLimit = limit
				gotType = entityType
				return nil, nil
			}

			_, err := svc.Search(ctx, projectID, "query", "decision", 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotLimit).To(Equal(5))
			Expect(gotType).To(Equal("decision"))
		})
	})
})
