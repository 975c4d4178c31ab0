package wallscan

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// A Graph is the fixed, undirected neighbor relation between the wall scan's sensor nodes. Node ids
// are dense: 0 through Len()-1.
type Graph struct {
	adj [][]int
}

// NewGraph returns a graph with the given adjacency lists, indexed by node id. Neighbor order is
// kept: it decides traversal order.
func NewGraph(adjacency [][]int) *Graph {
	adj := make([][]int, len(adjacency))
	for i, ns := range adjacency {
		adj[i] = append([]int(nil), ns...)
	}
	return &Graph{adj: adj}
}

// LineGraph returns the graph 0 - 1 - ... - n-1.
func LineGraph(n int) *Graph {
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			adj[i] = append(adj[i], i-1)
		}
		if i < n-1 {
			adj[i] = append(adj[i], i+1)
		}
	}
	return &Graph{adj: adj}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.adj)
}

// Neighbors returns node's neighbors in adjacency order.
func (g *Graph) Neighbors(node int) []int {
	if !g.has(node) {
		return nil
	}
	return g.adj[node]
}

func (g *Graph) has(node int) bool {
	return node >= 0 && node < len(g.adj)
}

// Validate checks that every neighbor is a node and that every edge is listed from both ends.
func (g *Graph) Validate() error {
	for node, ns := range g.adj {
		for _, n := range ns {
			if !g.has(n) {
				return errors.Errorf("node %d lists neighbor %d which is not a node", node, n)
			}
			if !lo.Contains(g.adj[n], node) {
				return errors.Errorf("edge %d-%d is not listed by node %d", node, n, n)
			}
		}
	}
	return nil
}

type frame struct {
	node int
	next int
}

// Order returns the depth-first preorder of the nodes reachable from root, visiting neighbors in
// adjacency order and each node once. An out of range root reaches nothing.
func (g *Graph) Order(root int) []int {
	var order []int
	g.walk(root, func(node int) { order = append(order, node) })
	return order
}

// walk calls visit for each node reachable from root in depth-first preorder. It keeps its own
// stack of partially explored nodes, so depth is bounded by memory rather than the call stack.
func (g *Graph) walk(root int, visit func(node int)) {
	if !g.has(root) {
		return
	}
	visited := make([]bool, len(g.adj))
	visited[root] = true
	visit(root)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		ns := g.adj[top.node]
		if top.next >= len(ns) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := ns[top.next]
		top.next++
		if !g.has(n) || visited[n] {
			continue
		}
		visited[n] = true
		visit(n)
		stack = append(stack, frame{node: n})
	}
}
