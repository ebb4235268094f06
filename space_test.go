package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeFallIntegratesGravity(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -10})

	b := NewBody(1, 1)
	space.AddBody(b)
	b.SetPosition(Vector{0, 100})

	dt := 1.0 / 60
	for i := 0; i < 60; i++ {
		space.Step(dt)
	}

	// After one second of free fall v = g*t.
	assert.InDelta(t, -10.0, b.Velocity().Y, 0.2)
	assert.Less(t, b.Position().Y, 100.0)
}

func TestBodyRestsOnStaticGround(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -100})

	ground := space.StaticBody
	groundShape := NewSegmentShape(ground, Vector{-50, 0}, Vector{50, 0}, 0)
	groundShape.SetElasticity(0)
	space.AddShape(groundShape)

	ball := NewBody(1, 1)
	space.AddBody(ball)
	ballShape := NewCircleShape(ball, 1, VectorZero())
	ballShape.SetElasticity(0)
	space.AddShape(ballShape)
	ball.SetPosition(Vector{0, 5})

	dt := 1.0 / 60
	for i := 0; i < 600; i++ {
		space.Step(dt)
	}

	// Settles with its surface on the ground (center at ~radius above it),
	// not sunk through or left floating.
	assert.InDelta(t, 1.0, ball.Position().Y, 0.2)
}

func TestElasticBounceRecoversHeight(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -100})

	ground := space.StaticBody
	groundShape := NewSegmentShape(ground, Vector{-50, 0}, Vector{50, 0}, 0)
	groundShape.SetElasticity(1)
	space.AddShape(groundShape)

	ball := NewBody(1, 1)
	space.AddBody(ball)
	ballShape := NewCircleShape(ball, 1, VectorZero())
	ballShape.SetElasticity(1)
	space.AddShape(ballShape)
	ball.SetPosition(Vector{0, 10})

	dt := 1.0 / 240
	maxHeightAfterBounce := 0.0
	bounced := false
	for i := 0; i < 4000; i++ {
		space.Step(dt)
		if ball.Velocity().Y < 0 {
			bounced = false
		}
		if ball.Velocity().Y > 0 {
			bounced = true
		}
		if bounced && ball.Position().Y > maxHeightAfterBounce {
			maxHeightAfterBounce = ball.Position().Y
		}
	}

	// A bouncy ball should regain a meaningful fraction of its drop height.
	assert.Greater(t, maxHeightAfterBounce, 3.0)
}

func TestPinJointHoldsDistanceUnderGravity(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -50})

	anchor := space.StaticBody
	bob := NewBody(1, 1)
	space.AddBody(bob)
	bob.SetPosition(Vector{5, 0})

	joint := NewPinJoint(anchor, bob, Vector{0, 0}, Vector{0, 0})
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 1200; i++ {
		space.Step(dt)
	}

	dist := bob.Position().Dist(anchor.Position())
	assert.InDelta(t, 5.0, dist, 0.2)
}

func TestSpaceActivateWakesSleepingComponent(t *testing.T) {
	space := NewSpace()
	space.SleepTimeThreshold = 0.1

	b := NewBody(1, 1)
	space.AddBody(b)
	s := NewCircleShape(b, 1, VectorZero())
	space.AddShape(s)

	dt := 1.0 / 60
	for i := 0; i < 30; i++ {
		space.Step(dt)
	}
	require.True(t, b.IsSleeping())

	space.Activate(b)
	assert.False(t, b.IsSleeping())
}

func TestArbiterExpiresAfterPersistenceWindow(t *testing.T) {
	space := NewSpace()

	a := NewBody(1, 1)
	b := NewBody(1, 1)
	space.AddBody(a)
	space.AddBody(b)

	sa := NewCircleShape(a, 1, VectorZero())
	sb := NewCircleShape(b, 1, VectorZero())
	space.AddShape(sa)
	space.AddShape(sb)

	a.SetPosition(Vector{-0.5, 0})
	b.SetPosition(Vector{0.5, 0})

	dt := 1.0 / 60
	space.Step(dt)
	assert.Equal(t, 1, space.cachedArbiters.Count())

	// Pull them far enough apart that broadphase never refreshes the pair
	// again; after collisionPersistence steps the cached arbiter drops.
	b.SetPosition(Vector{500, 0})
	for i := uint(0); i < space.collisionPersistence+2; i++ {
		space.Step(dt)
	}
	assert.Equal(t, 0, space.cachedArbiters.Count())
}

func TestPostStepCallbackRunsExactlyOnceAndIsCoalesced(t *testing.T) {
	space := NewSpace()
	b := NewBody(1, 1)
	space.AddBody(b)

	calls := 0
	cb := func(s *Space, key, data interface{}) { calls++ }

	space.Lock()
	first := space.AddPostStepCallback(cb, "remove-body", b)
	second := space.AddPostStepCallback(cb, "remove-body", b)
	space.Unlock(true)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 1, calls)
}
