package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	"devloft.app/server/internal/graph"
)

var _ = Describe("DetectCycles", func() {
	node := func(name string) graph.Node {
		return graph.Node{ID: uuid.New(), Name: name, ComponentType: "service"}
	}
	edge := func(from, to graph.Node) graph.Edge {
		return graph.Edge{SourceID: from.ID, TargetID: to.ID, RelationType: "depends_on"}
	}

	It("should find a simple three-node cycle", func() {
		a, b, c := node("A"), node("B"), node("C")
		cycles := graph.DetectCycles(
			[]graph.Node{a, b, c},
			[]graph.Edge{edge(a, b), edge(b, c), edge(c, a)},
		)

		Expect(cycles).To(HaveLen(1))
		Expect(cycles[0]).To(Equal([]string{"A", "B", "C"}))
	})

	It("should return no cycles for an acyclic graph", func() {
		a, b, c := node("A"), node("B"), node("C")
		cycles := graph.DetectCycles(
			[]graph.Node{a, b, c},
			[]graph.Edge{edge(a, b), edge(b, c), edge(a, c)},
		)

		Expect(cycles).To(BeEmpty())
	})

	It("should report a self-loop as a single-node cycle", func() {
		a := node("A")
		cycles := graph.DetectCycles(
			[]graph.Node{a},
			[]graph.Edge{{SourceID: a.ID, TargetID: a.ID, RelationType: "depends_on"}},
		)

		Expect(cycles).To(HaveLen(1))
		Expect(cycles[0]).To(Equal([]string{"A"}))
	})

	It("should find two independent cycles", func() {
		a, b := node("A"), node("B")
		c, d := node("C"), node("D")
		cycles := graph.DetectCycles(
			[]graph.Node{a, b, c, d},
			[]graph.Edge{edge(a, b), edge(b, a), edge(c, d), edge(d, c)},
		)

		Expect(cycles).To(HaveLen(2))
	})

	It("should handle an empty graph", func() {
		Expect(graph.DetectCycles(nil, nil)).To(BeEmpty())
	})
})
