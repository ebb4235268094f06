package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceHashInsertQueryRemove(t *testing.T) {
	hash := NewSpaceHash(2)
	body := NewBody(1, 1)

	a := NewCircleShape(body, 1, Vector{0, 0})
	b := NewCircleShape(body, 1, Vector{20, 20})
	a.CacheData(TransformIdentity())
	b.CacheData(TransformIdentity())

	hash.Insert(a, a.hashid)
	hash.Insert(b, b.hashid)
	assert.Equal(t, 2, hash.Count())

	var hits []*Shape
	hash.Query(NewBB(-2, -2, 2, 2), func(s *Shape) { hits = append(hits, s) })
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	hash.Remove(a, a.hashid)
	assert.Equal(t, 1, hash.Count())
	assert.False(t, hash.Contains(a, a.hashid))
	assert.True(t, hash.Contains(b, b.hashid))
}

func TestSpaceHashReindexObjectMovesBucket(t *testing.T) {
	hash := NewSpaceHash(2)
	body := NewBody(1, 1)
	a := NewCircleShape(body, 1, Vector{0, 0})
	a.CacheData(TransformIdentity())
	hash.Insert(a, a.hashid)

	var hitsBefore []*Shape
	hash.Query(NewBB(18, 18, 22, 22), func(s *Shape) { hitsBefore = append(hitsBefore, s) })
	assert.Empty(t, hitsBefore)

	body.SetPosition(Vector{20, 20})
	p := body.Position()
	a.CacheData(NewTransformTranspose(1, 0, p.X, 0, 1, p.Y))
	hash.ReindexObject(a, a.hashid)

	var hitsAfter []*Shape
	hash.Query(NewBB(18, 18, 22, 22), func(s *Shape) { hitsAfter = append(hitsAfter, s) })
	require.Len(t, hitsAfter, 1)
	assert.Equal(t, a, hitsAfter[0])
}

func TestSpaceHashReindexQueryFindsOverlappingPairsOnce(t *testing.T) {
	hash := NewSpaceHash(2)
	body := NewBody(1, 1)

	a := NewCircleShape(body, 1, Vector{0, 0})
	b := NewCircleShape(body, 1, Vector{0.5, 0})
	a.CacheData(TransformIdentity())
	b.CacheData(TransformIdentity())
	a.hashid, b.hashid = 1, 2

	hash.Insert(a, a.hashid)
	hash.Insert(b, b.hashid)

	pairs := 0
	hash.ReindexQuery(func(x, y *Shape) { pairs++ })
	assert.Equal(t, 1, pairs)
}

func TestSpaceHashSegmentQuery(t *testing.T) {
	hash := NewSpaceHash(2)
	body := NewBody(1, 1)
	a := NewCircleShape(body, 1, Vector{5, 0})
	a.CacheData(TransformIdentity())
	hash.Insert(a, a.hashid)

	hit := false
	hash.SegmentQuery(Vector{0, 0}, Vector{10, 0}, 1, func(obj *Shape) float64 {
		hit = true
		return 1
	})
	assert.True(t, hit)
}

func TestSpaceHashQueryDoesNotDuplicateAcrossOverlappingCells(t *testing.T) {
	hash := NewSpaceHash(1)
	body := NewBody(1, 1)

	// A shape wide enough to span several grid cells must still be
	// reported once per Query call, not once per cell it occupies.
	a := NewSegmentShape(body, Vector{-5, 0}, Vector{5, 0}, 0.1)
	a.CacheData(TransformIdentity())
	hash.Insert(a, a.hashid)

	count := 0
	hash.Query(NewBB(-5, -1, 5, 1), func(s *Shape) { count++ })
	assert.Equal(t, 1, count)
}
