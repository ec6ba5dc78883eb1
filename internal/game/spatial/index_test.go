package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexQueryOrder(t *testing.T) {
	ix := NewIndex([]Rect{
		R(100, 100, 50, 50),
		R(0, 0, 20, 20),
		R(110, 110, 10, 10),
	})

	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, []int{0, 2}, ix.Query(R(105, 105, 10, 10)))
	assert.Empty(t, ix.Query(R(300, 300, 5, 5)))
}

func TestIndexEdgeContactIsNotOverlap(t *testing.T) {
	ix := NewIndex([]Rect{R(0, 0, 10, 10)})
	if ix.Overlaps(R(10, 0, 5, 5)) {
		t.Error("Touching edge should not overlap")
	}
	if !ix.Overlaps(R(9.5, 0, 5, 5)) {
		t.Error("Expected overlap")
	}
}

func TestNilIndex(t *testing.T) {
	var ix *Index
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.Query(R(0, 0, 1, 1)))
	assert.False(t, ix.Overlaps(R(0, 0, 1, 1)))
}

func TestBlockersFirstPrefersStatic(t *testing.T) {
	static := NewIndex([]Rect{R(50, 0, 10, 10)})
	dynamic := []Rect{R(40, 0, 30, 10)}
	b := NewBlockers(static, dynamic)

	got, ok := b.First(R(45, 0, 20, 5))
	assert.True(t, ok)
	assert.Equal(t, R(50, 0, 10, 10), got)

	got, ok = b.First(R(41, 0, 2, 2))
	assert.True(t, ok)
	assert.Equal(t, dynamic[0], got)

	_, ok = b.First(R(200, 200, 1, 1))
	assert.False(t, ok)
	assert.Len(t, b.All(), 2)
}

func TestBlockersAnyUsesPredicate(t *testing.T) {
	b := NewBlockers(NewIndex([]Rect{R(0, 0, 10, 10), R(20, 0, 10, 10)}), nil)
	calls := 0
	hit := b.Any(R(0, 0, 40, 10), func(r Rect) bool {
		calls++
		return r.X == 20
	})
	assert.True(t, hit)
	assert.Equal(t, 2, calls)

	var nilBlockers *Blockers
	assert.False(t, nilBlockers.Overlaps(R(0, 0, 1, 1)))
}
