package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	p, ok := Find("  paris ")
	require.True(t, ok)
	assert.Equal(t, "museums, food, history, art", p.Interests)

	_, ok = Find("Atlantis")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	require.NotEmpty(t, list)
	list[0].City = "changed"
	assert.Equal(t, "Paris", All()[0].City)

	seen := map[string]bool{}
	for _, p := range All() {
		assert.False(t, seen[p.City], "duplicate preset %s", p.City)
		seen[p.City] = true
		assert.NotEmpty(t, p.Interests)
	}
}
