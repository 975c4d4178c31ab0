package wallscan

import (
	"testing"

	"go.viam.com/test"
)

func TestOrder(t *testing.T) {
	g := NewGraph([][]int{{1}, {0, 2}, {1}})
	test.That(t, g.Validate(), test.ShouldBeNil)
	test.That(t, g.Order(0), test.ShouldResemble, []int{0, 1, 2})
	test.That(t, g.Order(1), test.ShouldResemble, []int{1, 0, 2})
	test.That(t, g.Order(2), test.ShouldResemble, []int{2, 1, 0})

	test.That(t, LineGraph(3), test.ShouldResemble, g)
}

func TestOrderDisconnected(t *testing.T) {
	g := NewGraph([][]int{{1}, {0, 2}, {1}, {}})
	test.That(t, g.Validate(), test.ShouldBeNil)
	test.That(t, g.Order(0), test.ShouldResemble, []int{0, 1, 2})
	test.That(t, g.Order(3), test.ShouldResemble, []int{3})
}

func TestOrderPreorder(t *testing.T) {
	//   0
	//  / \
	// 1   4
	// |\  |
	// 2 3-5
	g := NewGraph([][]int{
		{1, 4},
		{0, 2, 3},
		{1},
		{1, 5},
		{0, 5},
		{4, 3},
	})
	test.That(t, g.Validate(), test.ShouldBeNil)
	// 5 is reached through 3 before 0 ever gets to 4.
	test.That(t, g.Order(0), test.ShouldResemble, []int{0, 1, 2, 3, 5, 4})
}

func TestOrderSkipsOutOfRange(t *testing.T) {
	g := NewGraph([][]int{{7, -1, 1}, {0}})
	test.That(t, g.Order(0), test.ShouldResemble, []int{0, 1})
	test.That(t, g.Validate(), test.ShouldNotBeNil)

	test.That(t, g.Order(2), test.ShouldBeEmpty)
	test.That(t, g.Order(-1), test.ShouldBeEmpty)
	test.That(t, g.Neighbors(5), test.ShouldBeNil)
}

func TestOrderDeepLine(t *testing.T) {
	const n = 100000
	order := LineGraph(n).Order(0)
	test.That(t, order, test.ShouldHaveLength, n)
	test.That(t, order[n-1], test.ShouldEqual, n-1)
}

func TestValidate(t *testing.T) {
	err := NewGraph([][]int{{1}, {}}).Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "edge 0-1")

	test.That(t, NewGraph(nil).Validate(), test.ShouldBeNil)
	test.That(t, NewGraph(nil).Order(0), test.ShouldBeEmpty)
}

func TestNewGraphCopies(t *testing.T) {
	adj := [][]int{{1}, {0}}
	g := NewGraph(adj)
	adj[0][0] = 5
	test.That(t, g.Neighbors(0), test.ShouldResemble, []int{1})
}
