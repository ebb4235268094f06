package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointQueryFindsNearestShape(t *testing.T) {
	space := NewSpace()

	near := NewBody(1, 1)
	near.SetPosition(Vector{0, 0})
	space.AddBody(near)
	nearShape := NewCircleShape(near, 1, VectorZero())
	space.AddShape(nearShape)

	far := NewBody(1, 1)
	far.SetPosition(Vector{100, 0})
	space.AddBody(far)
	farShape := NewCircleShape(far, 1, VectorZero())
	space.AddShape(farShape)

	info, found := space.PointQuery(Vector{0.5, 0}, 10, ShapeFilterAll)
	require.True(t, found)
	assert.Equal(t, nearShape, info.Shape)
}

func TestPointQueryRespectsMaxDistance(t *testing.T) {
	space := NewSpace()

	b := NewBody(1, 1)
	b.SetPosition(Vector{0, 0})
	space.AddBody(b)
	s := NewCircleShape(b, 1, VectorZero())
	space.AddShape(s)

	_, found := space.PointQuery(Vector{5, 0}, 1, ShapeFilterAll)
	assert.False(t, found)
}

func TestPointQuerySkipsSensors(t *testing.T) {
	space := NewSpace()

	b := NewBody(1, 1)
	space.AddBody(b)
	s := NewCircleShape(b, 1, VectorZero())
	s.SetSensor(true)
	space.AddShape(s)

	_, found := space.PointQuery(Vector{0, 0}, 5, ShapeFilterAll)
	assert.False(t, found)
}

func TestSegmentQueryFirstReturnsClosestHit(t *testing.T) {
	space := NewSpace()

	nearBody := NewBody(1, 1)
	nearBody.SetPosition(Vector{5, 0})
	space.AddBody(nearBody)
	nearShape := NewCircleShape(nearBody, 1, VectorZero())
	space.AddShape(nearShape)

	farBody := NewBody(1, 1)
	farBody.SetPosition(Vector{10, 0})
	space.AddBody(farBody)
	farShape := NewCircleShape(farBody, 1, VectorZero())
	space.AddShape(farShape)

	info, found := space.SegmentQueryFirst(Vector{0, 0}, Vector{20, 0}, 0, ShapeFilterAll)
	require.True(t, found)
	assert.Equal(t, nearShape, info.Shape)
}

func TestSegmentQueryVisitsAllHits(t *testing.T) {
	space := NewSpace()

	for _, x := range []float64{2, 5, 8} {
		b := NewBody(1, 1)
		b.SetPosition(Vector{x, 0})
		space.AddBody(b)
		s := NewCircleShape(b, 1, VectorZero())
		space.AddShape(s)
	}

	hits := 0
	space.SegmentQuery(Vector{0, 0}, Vector{20, 0}, 0, ShapeFilterAll, func(info SegmentQueryInfo) {
		hits++
	})
	assert.Equal(t, 3, hits)
}

func TestBBQueryReturnsOverlappingShapesOnly(t *testing.T) {
	space := NewSpace()

	inside := NewBody(1, 1)
	inside.SetPosition(Vector{0, 0})
	space.AddBody(inside)
	insideShape := NewCircleShape(inside, 1, VectorZero())
	space.AddShape(insideShape)

	outside := NewBody(1, 1)
	outside.SetPosition(Vector{100, 100})
	space.AddBody(outside)
	outsideShape := NewCircleShape(outside, 1, VectorZero())
	space.AddShape(outsideShape)

	var hits []*Shape
	space.BBQuery(NewBB(-5, -5, 5, 5), ShapeFilterAll, func(s *Shape) { hits = append(hits, s) })
	require.Len(t, hits, 1)
	assert.Equal(t, insideShape, hits[0])
}

func TestShapeQueryReportsActualOverlap(t *testing.T) {
	space := NewSpace()

	a := NewBody(1, 1)
	a.SetPosition(Vector{0, 0})
	space.AddBody(a)
	aShape := NewCircleShape(a, 1, VectorZero())
	space.AddShape(aShape)

	b := NewBody(1, 1)
	b.SetPosition(Vector{0.5, 0})
	space.AddBody(b)
	bShape := NewCircleShape(b, 1, VectorZero())
	space.AddShape(bShape)

	c := NewBody(1, 1)
	c.SetPosition(Vector{100, 0})
	space.AddBody(c)
	cShape := NewCircleShape(c, 1, VectorZero())
	space.AddShape(cShape)

	var overlaps []*Shape
	space.ShapeQuery(aShape, func(other *Shape, info CollisionInfo) {
		overlaps = append(overlaps, other)
		assert.Greater(t, info.Count, 0)
	})
	require.Len(t, overlaps, 1)
	assert.Equal(t, bShape, overlaps[0])
}
