package redund

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vntrseek/redund/leb36"
)

func sourceWithKey(name string, rep []int) *Source {
	return &Source{
		name:       name,
		current:    &leb36.ProfilePair{Fwd: &leb36.Profile{Key: 1, Indices: rep, ProfLen: len(rep)}, RC: &leb36.Profile{Key: 1, Indices: rep, ProfLen: len(rep)}},
		currentKey: &CanonicalKey{Rep: rep, RLen: len(rep)},
	}
}

func TestHeapifyOrdersBySmallestKey(t *testing.T) {
	sources := []*Source{
		sourceWithKey("c", []int{3}),
		sourceWithKey("a", []int{1}),
		sourceWithKey("b", []int{2}),
	}
	h := NewHeap(sources)
	require.Equal(t, 3, h.Len())
	assert.Equal(t, "a", h.Peek().Name())
}

func TestReplaceTopResiftsAfterAdvance(t *testing.T) {
	sources := []*Source{
		sourceWithKey("a", []int{1}),
		sourceWithKey("b", []int{2}),
		sourceWithKey("c", []int{3}),
	}
	h := NewHeap(sources)
	require.Equal(t, "a", h.Peek().Name())

	// simulate "a" being advanced to a larger key
	h.Peek().currentKey = &CanonicalKey{Rep: []int{9}, RLen: 1}
	h.ReplaceTop()
	assert.Equal(t, "b", h.Peek().Name())
}

func TestReplaceTopRemovesDrainedSource(t *testing.T) {
	sources := []*Source{
		sourceWithKey("a", []int{1}),
		sourceWithKey("b", []int{2}),
	}
	h := NewHeap(sources)
	require.Equal(t, "a", h.Peek().Name())

	h.Peek().current = nil
	h.Peek().currentKey = nil
	h.ReplaceTop()

	require.Equal(t, 1, h.Len())
	assert.Equal(t, "b", h.Peek().Name())
}

func TestPeekOnEmptyHeapIsNil(t *testing.T) {
	h := NewHeap(nil)
	assert.Nil(t, h.Peek())
}

