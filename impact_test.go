package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpactRecordedOnCollidingDynamicBody(t *testing.T) {
	space := NewSpace()
	space.SetGravity(VectorZero())

	a := NewBody(1, 1)
	a.SetPosition(Vector{-0.4, 0})
	a.SetVelocity(Vector{5, 0})
	space.AddBody(a)
	aShape := NewCircleShape(a, 1, VectorZero())
	aShape.SetElasticity(0)
	space.AddShape(aShape)

	b := NewBody(1, 1)
	b.SetPosition(Vector{0.6, 0})
	space.AddBody(b)
	bShape := NewCircleShape(b, 1, VectorZero())
	bShape.SetElasticity(0)
	space.AddShape(bShape)

	space.Step(1.0 / 60)

	impact := a.Impact()
	require.Greater(t, impact.Count, 0)
	assert.Greater(t, impact.Size, 0.0)
	assert.Equal(t, BODY_DYNAMIC, impact.BodyTypeA)
	assert.Equal(t, BODY_DYNAMIC, impact.BodyTypeB)
}

func TestImpactClearsAfterRead(t *testing.T) {
	space := NewSpace()
	space.SetGravity(VectorZero())

	a := NewBody(1, 1)
	a.SetPosition(Vector{-0.4, 0})
	a.SetVelocity(Vector{5, 0})
	space.AddBody(a)
	aShape := NewCircleShape(a, 1, VectorZero())
	space.AddShape(aShape)

	b := NewBody(1, 1)
	b.SetPosition(Vector{0.6, 0})
	space.AddBody(b)
	bShape := NewCircleShape(b, 1, VectorZero())
	space.AddShape(bShape)

	space.Step(1.0 / 60)
	first := a.Impact()
	require.Greater(t, first.Count, 0)

	second := a.Impact()
	assert.Equal(t, 0, second.Count)
}

func TestImpactRecordsStaticCollisionPartnerType(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -50})

	ground := space.StaticBody
	groundShape := NewSegmentShape(ground, Vector{-50, 0}, Vector{50, 0}, 0)
	space.AddShape(groundShape)

	ball := NewBody(1, 1)
	ball.SetPosition(Vector{0, 1.01})
	space.AddBody(ball)
	ballShape := NewCircleShape(ball, 1, VectorZero())
	space.AddShape(ballShape)

	dt := 1.0 / 60
	for i := 0; i < 5; i++ {
		space.Step(dt)
	}

	impact := ball.Impact()
	if impact.Count > 0 {
		assert.Equal(t, BODY_STATIC, impact.BodyTypeB)
	}
}
