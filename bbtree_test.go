package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBTreeInsertQueryRemove(t *testing.T) {
	tree := NewBBTree()
	body := NewBody(1, 1)

	a := NewCircleShape(body, 1, Vector{0, 0})
	b := NewCircleShape(body, 1, Vector{10, 10})
	a.CacheData(TransformIdentity())
	b.CacheData(TransformIdentity())

	tree.Insert(a, a.hashid)
	tree.Insert(b, b.hashid)
	assert.Equal(t, 2, tree.Count())

	var hits []*Shape
	tree.Query(NewBB(-2, -2, 2, 2), func(s *Shape) { hits = append(hits, s) })
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	tree.Remove(a, a.hashid)
	assert.Equal(t, 1, tree.Count())
	assert.False(t, tree.Contains(a, a.hashid))
	assert.True(t, tree.Contains(b, b.hashid))
}

func TestBBTreeReindexQueryFindsOverlappingPairsOnce(t *testing.T) {
	tree := NewBBTree()
	body := NewBody(1, 1)

	a := NewCircleShape(body, 1, Vector{0, 0})
	b := NewCircleShape(body, 1, Vector{0.5, 0})
	a.CacheData(TransformIdentity())
	b.CacheData(TransformIdentity())
	a.hashid, b.hashid = 1, 2

	tree.Insert(a, a.hashid)
	tree.Insert(b, b.hashid)

	pairs := 0
	tree.ReindexQuery(func(x, y *Shape) { pairs++ })
	assert.Equal(t, 1, pairs)
}

func TestBBTreeSegmentQuery(t *testing.T) {
	tree := NewBBTree()
	body := NewBody(1, 1)
	a := NewCircleShape(body, 1, Vector{5, 0})
	a.CacheData(TransformIdentity())
	tree.Insert(a, a.hashid)

	hit := false
	tree.SegmentQuery(Vector{0, 0}, Vector{10, 0}, 1, func(obj *Shape) float64 {
		hit = true
		return 1
	})
	assert.True(t, hit)
}
