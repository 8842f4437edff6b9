package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successorsOf(edges map[string][]string) func(string) []string {
	return func(node string) []string {
		return edges[node]
	}
}

func TestTopologicalSortChain(t *testing.T) {
	sorted, err := TopologicalSort([]string{"a", "b", "c"}, successorsOf(map[string][]string{
		"a": {"b"},
		"b": {"c"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sorted)
}

func TestTopologicalSortNodeBeforeSuccessors(t *testing.T) {
	sorted, err := TopologicalSort([]string{"b", "c", "a"}, successorsOf(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
	}))
	require.NoError(t, err)

	index := make(map[string]int, len(sorted))
	for i, node := range sorted {
		index[node] = i
	}
	assert.Less(t, index["a"], index["b"])
	assert.Less(t, index["a"], index["c"])
	assert.Less(t, index["b"], index["c"])
}

func TestTopologicalSortIgnoresExternalSuccessors(t *testing.T) {
	sorted, err := TopologicalSort([]string{"a"}, successorsOf(map[string][]string{
		"a": {"outside"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, sorted)
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	_, err := TopologicalSort([]string{"a", "b"}, successorsOf(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}))
	var cycle *CycleError[string]
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, []string{"a", "b"}, cycle.Node)
}

func TestTopologicalSortSelfLoop(t *testing.T) {
	_, err := TopologicalSort([]string{"a"}, successorsOf(map[string][]string{
		"a": {"a"},
	}))
	var cycle *CycleError[string]
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "a", cycle.Node)
}

func TestStronglyConnectedComponentFollowsEdgeOrder(t *testing.T) {
	succs := successorsOf(map[string][]string{
		"c": {"a"},
		"a": {"b"},
		"b": {"c"},
	})
	assert.Equal(t, []string{"c", "a", "b"}, StronglyConnectedComponent("c", succs))
}

func TestStronglyConnectedComponentExcludesDanglers(t *testing.T) {
	succs := successorsOf(map[string][]string{
		"a": {"b", "d"},
		"b": {"a"},
		"d": {"e"},
	})
	assert.Equal(t, []string{"a", "b"}, StronglyConnectedComponent("a", succs))
}

func TestStronglyConnectedComponentSingleNode(t *testing.T) {
	succs := successorsOf(map[string][]string{
		"a": {"a"},
	})
	assert.Equal(t, []string{"a"}, StronglyConnectedComponent("a", succs))
}
