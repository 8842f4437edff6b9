// Package graph implements the two graph algorithms canonicalization needs
// over a block of local bindings: topological sorting for initialization
// order, and strongly-connected-component expansion for reporting the full
// membership of an illegal cycle.
//
// Both take the graph as a successor function so callers can keep edges in
// whatever structure they already have; internally nodes are mapped to dense
// integer ids once and all traversal happens on those.
package graph

import (
	"fmt"

	"github.com/roan-lang/roan/util"
)

// CycleError reports one node known to be part of a cycle. Callers that want
// the whole cycle expand it with StronglyConnectedComponent.
type CycleError[N comparable] struct {
	Node N
}

func (e *CycleError[N]) Error() string {
	return fmt.Sprintf("graph contains a cycle through %v", e.Node)
}

const (
	white = iota // unvisited
	gray         // on the current traversal path
	black        // fully explored
)

type frame struct {
	node  int
	child int
}

// TopologicalSort orders nodes so that every node comes before all of its
// successors. Successors outside the given node set are ignored; they are
// references to an enclosing scope, not edges of this graph. The walk is an
// explicit-stack depth-first search, so deeply chained bindings cannot
// exhaust the goroutine stack.
func TopologicalSort[N comparable](nodes []N, successors func(N) []N) ([]N, error) {
	index := make(map[N]int, len(nodes))
	for i, node := range nodes {
		index[node] = i
	}

	succs := make([][]int, len(nodes))
	for i, node := range nodes {
		for _, succ := range successors(node) {
			if j, ok := index[succ]; ok {
				succs[i] = append(succs[i], j)
			}
		}
	}

	state := make([]uint8, len(nodes))
	postorder := make([]int, 0, len(nodes))
	stack := &util.Stack[*frame]{}

	for root := range nodes {
		if state[root] != white {
			continue
		}
		state[root] = gray
		stack.Push(&frame{node: root})

		for {
			top, ok := stack.Peek()
			if !ok {
				break
			}
			if top.child >= len(succs[top.node]) {
				_, _ = stack.Pop()
				state[top.node] = black
				postorder = append(postorder, top.node)
				continue
			}
			next := succs[top.node][top.child]
			top.child++
			switch state[next] {
			case gray:
				// A back edge: next is on the current path.
				return nil, &CycleError[N]{Node: nodes[next]}
			case white:
				state[next] = gray
				stack.Push(&frame{node: next})
			}
		}
	}

	sorted := make([]N, 0, len(nodes))
	for i := len(postorder) - 1; i >= 0; i-- {
		sorted = append(sorted, nodes[postorder[i]])
	}
	return sorted, nil
}

// StronglyConnectedComponent expands start, a node known to be part of a
// cycle, into the full set of nodes mutually reachable with it. The result
// follows successor order beginning at start, so for a simple cycle it lists
// the members in the order its edges traverse them.
func StronglyConnectedComponent[N comparable](start N, successors func(N) []N) []N {
	reachable := reachableFrom(start, successors)

	inComponent := make(map[N]bool, len(reachable))
	for node := range reachable {
		if node == start || reaches(node, start, successors) {
			inComponent[node] = true
		}
	}

	// Walk the component from start in successor order.
	component := make([]N, 0, len(inComponent))
	visited := make(map[N]bool, len(inComponent))
	stack := &util.Stack[N]{}
	stack.Push(start)
	for {
		node, ok := stack.Pop()
		if !ok {
			break
		}
		if visited[node] || !inComponent[node] {
			continue
		}
		visited[node] = true
		component = append(component, node)
		succs := successors(node)
		// Push in reverse so the first successor is explored first.
		for i := len(succs) - 1; i >= 0; i-- {
			stack.Push(succs[i])
		}
	}
	return component
}

func reachableFrom[N comparable](start N, successors func(N) []N) map[N]bool {
	visited := make(map[N]bool)
	stack := &util.Stack[N]{}
	for _, succ := range successors(start) {
		stack.Push(succ)
	}
	for {
		node, ok := stack.Pop()
		if !ok {
			break
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		for _, succ := range successors(node) {
			stack.Push(succ)
		}
	}
	return visited
}

func reaches[N comparable](from, to N, successors func(N) []N) bool {
	return reachableFrom(from, successors)[to]
}
