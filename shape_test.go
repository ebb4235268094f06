package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleShapeMassScalesWithArea(t *testing.T) {
	body := NewBody(0, 0)
	small := NewCircleShape(body, 1, VectorZero())
	big := NewCircleShape(body, 2, VectorZero())

	assert.InDelta(t, math.Pi*1*1, small.Mass(), 1e-9)
	assert.InDelta(t, math.Pi*2*2, big.Mass(), 1e-9)
	assert.Greater(t, big.Mass(), small.Mass())
}

func TestSetDensityRescalesMassInfo(t *testing.T) {
	body := NewBody(0, 0)
	s := NewCircleShape(body, 1, VectorZero())
	base := s.Mass()

	s.SetDensity(2)
	require.InDelta(t, base*2, s.Mass(), 1e-9)
}

func TestSetDensityReaccumulatesAttachedBody(t *testing.T) {
	space := NewSpace()
	b := NewBody(1, 1)
	space.AddBody(b)
	s := NewCircleShape(b, 1, VectorZero())
	space.AddShape(s)

	before := b.GetMass()
	s.SetDensity(4)
	assert.Greater(t, b.GetMass(), before)
	assert.InDelta(t, s.Mass(), b.GetMass(), 1e-9)
}

func TestSetMassOverridesDensityDerivedValue(t *testing.T) {
	body := NewBody(0, 0)
	s := NewCircleShape(body, 1, VectorZero())
	s.SetMass(10)
	assert.Equal(t, 10.0, s.Mass())
}

func TestBoxShapeIsFourSidedPoly(t *testing.T) {
	body := NewBody(1, 1)
	s := NewBoxShape(body, 2, 4, 0)
	assert.Equal(t, PolyShape, s.Kind())
	assert.Greater(t, s.Mass(), 0.0)
}

func TestShapeFilterReject(t *testing.T) {
	a := ShapeFilter{Group: NoGroup, Categories: 0b01, Mask: 0b10}
	b := ShapeFilter{Group: NoGroup, Categories: 0b10, Mask: 0b01}
	assert.False(t, a.Reject(b))

	sameGroup := ShapeFilter{Group: 1, Categories: AllCategories, Mask: AllCategories}
	assert.True(t, sameGroup.Reject(sameGroup))

	noOverlap := ShapeFilter{Group: NoGroup, Categories: 0b01, Mask: 0b01}
	other := ShapeFilter{Group: NoGroup, Categories: 0b10, Mask: 0b10}
	assert.True(t, noOverlap.Reject(other))
}
