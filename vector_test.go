package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBasics(t *testing.T) {
	a := Vector{3, 4}
	assert.Equal(t, 5.0, a.Length())
	assert.Equal(t, 25.0, a.LengthSq())

	n := a.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)

	assert.Equal(t, Vector{0, 0}, VectorZero().Normalize())
}

func TestVectorPerpRPerp(t *testing.T) {
	a := Vector{1, 0}
	assert.Equal(t, Vector{0, 1}, a.Perp())
	assert.Equal(t, Vector{0, -1}, a.RPerp())
}

func TestVectorCrossDot(t *testing.T) {
	a, b := Vector{1, 0}, Vector{0, 1}
	assert.Equal(t, 1.0, a.Cross(b))
	assert.Equal(t, 0.0, a.Dot(b))
}

func TestBBIntersectsAndMerge(t *testing.T) {
	a := NewBB(0, 0, 2, 2)
	b := NewBB(1, 1, 3, 3)
	c := NewBB(10, 10, 12, 12)

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))

	merged := a.Merge(b)
	assert.Equal(t, BB{0, 0, 3, 3}, merged)
	assert.True(t, merged.ContainsBB(a))
	assert.True(t, merged.ContainsBB(b))
}

func TestBBSegmentQuery(t *testing.T) {
	bb := NewBB(-1, -1, 1, 1)
	alpha, hit := bb.SegmentQuery(Vector{-5, 0}, Vector{5, 0}, 0)
	require.True(t, hit)
	assert.InDelta(t, 0.4, alpha, 1e-9)

	_, missed := bb.SegmentQuery(Vector{-5, 5}, Vector{5, 5}, 0)
	assert.False(t, missed)
}

func TestTransformRoundTrip(t *testing.T) {
	tr := NewTransformTranspose(
		math.Cos(0.3), -math.Sin(0.3), 7,
		math.Sin(0.3), math.Cos(0.3), -2,
	)
	p := Vector{1.5, -0.25}
	world := tr.Point(p)
	back := tr.RigidInverse().Point(world)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestMat2x2TransformIsMatrixVectorProduct(t *testing.T) {
	m := Mat2x2{1, 2, 3, 4}
	v := Vector{5, 6}
	got := m.Transform(v)
	assert.Equal(t, Vector{1*5 + 2*6, 3*5 + 4*6}, got)
}
