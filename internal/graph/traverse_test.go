package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	"devloft.app/server/internal/graph"
)

var _ = Describe("Traverse", func() {
	entity := func(name string) graph.EntityNode {
		return graph.EntityNode{ID: uuid.New(), Name: name, EntityType: "concept"}
	}
	relation := func(from, to graph.EntityNode, relationType string) graph.Relation {
		return graph.Relation{ID: uuid.New(), SourceID: from.ID, TargetID: to.ID, RelationType: relationType}
	}

	It("should annotate nodes with first-reach depth in a star", func() {
		hub := entity("hub")
		s1, s2, s3 := entity("s1"), entity("s2"), entity("s3")
		result := graph.Traverse(
			[]graph.EntityNode{hub, s1, s2, s3},
			[]graph.Relation{
				relation(hub, s1, "relates_to"),
				relation(hub, s2, "relates_to"),
				relation(s3, hub, "relates_to"),
			},
			hub.ID, 1, nil,
		)

		Expect(result.Nodes).To(HaveLen(4))
		for _, n := range result.Nodes {
			if n.ID == hub.ID {
				Expect(n.Depth).To(BeZero())
			} else {
				Expect(n.Depth).To(Equal(1))
			}
		}
		Expect(result.Edges).To(HaveLen(3))
	})

	It("should follow relations in both directions", func() {
		a, b := entity("a"), entity("b")
		result := graph.Traverse(
			[]graph.EntityNode{a, b},
			[]graph.Relation{relation(b, a, "uses")},
			a.ID, 1, nil,
		)

		Expect(result.Nodes).To(HaveLen(2))
	})

	It("should stop at the depth bound", func() {
		a, b, c := entity("a"), entity("b"), entity("c")
		result := graph.Traverse(
			[]graph.EntityNode{a, b, c},
			[]graph.Relation{relation(a, b, "uses"), relation(b, c, "uses")},
			a.ID, 1, nil,
		)

		Expect(result.Nodes).To(HaveLen(2))
		Expect(result.Edges).To(HaveLen(1))
	})

	It("should only follow allowed relation types but keep the depth bound", func() {
		a, b, c := entity("a"), entity("b"), entity("c")
		result := graph.Traverse(
			[]graph.EntityNode{a, b, c},
			[]graph.Relation{
				relation(a, b, "depends_on"),
				relation(a, c, "relates_to"),
			},
			a.ID, 2, []string{"depends_on"},
		)

		Expect(result.Nodes).To(HaveLen(2))
		names := []string{result.Nodes[0].Name, result.Nodes[1].Name}
		Expect(names).To(ConsistOf("a", "b"))
	})

	It("should include unfollowed relations between visited nodes in the edge set", func() {
		a, b := entity("a"), entity("b")
		result := graph.Traverse(
			[]graph.EntityNode{a, b},
			[]graph.Relation{
				relation(a, b, "depends_on"),
				relation(b, a, "relates_to"),
			},
			a.ID, 1, []string{"depends_on"},
		)

		// Both endpoints were reached via depends_on; the relates_to
		// relation between them is still part of the subgraph.
		Expect(result.Edges).To(HaveLen(2))
	})

	It("should return an empty result for an unknown start entity", func() {
		a := entity("a")
		result := graph.Traverse([]graph.EntityNode{a}, nil, uuid.New(), 3, nil)

		Expect(result.Nodes).To(BeEmpty())
		Expect(result.Edges).To(BeEmpty())
	})
})
