package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPutPreservesFirstSeenOrder(t *testing.T) {
	r := NewRegistry[int]()
	r.Put("b", 2)
	r.Put("a", 1)
	r.Put("c", 3)

	assert.Equal(t, []string{"b", "a", "c"}, r.Names())
	assert.Equal(t, []int{2, 1, 3}, r.List())
}

func TestRegistryPutReplaceKeepsOriginalPosition(t *testing.T) {
	r := NewRegistry[int]()
	r.Put("a", 1)
	r.Put("b", 2)
	r.Put("a", 99)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestRegistryDeleteRemovesFromOrderAndItems(t *testing.T) {
	r := NewRegistry[string]()
	r.Put("x", "one")
	r.Put("y", "two")
	r.Put("z", "three")

	r.Delete("y")

	assert.Equal(t, []string{"x", "z"}, r.Names())
	_, ok := r.Get("y")
	assert.False(t, ok)
}

func TestRegistryDeleteMissingIsNoop(t *testing.T) {
	r := NewRegistry[string]()
	r.Put("x", "one")
	r.Delete("nonexistent")
	assert.Equal(t, []string{"x"}, r.Names())
}

func TestRegistryNamesReturnsACopy(t *testing.T) {
	r := NewRegistry[int]()
	r.Put("a", 1)

	names := r.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"a"}, r.Names())
}
