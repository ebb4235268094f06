package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlideJointKeepsDistanceWithinRange(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -50})

	anchor := space.StaticBody
	bob := NewBody(1, 1)
	space.AddBody(bob)
	bob.SetPosition(Vector{3, 0})

	joint := NewSlideJoint(anchor, bob, Vector{0, 0}, Vector{0, 0}, 2, 5)
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 2400; i++ {
		space.Step(dt)
	}

	dist := bob.Position().Dist(anchor.Position())
	assert.GreaterOrEqual(t, dist, 2.0-0.2)
	assert.LessOrEqual(t, dist, 5.0+0.2)
}

func TestPivotJointHoldsCoincidentAnchors(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -50})

	a := NewBody(1, 1)
	space.AddBody(a)
	a.SetPosition(Vector{0, 0})

	b := NewBody(1, 1)
	space.AddBody(b)
	b.SetPosition(Vector{2, 0})

	pivot := Vector{1, 0}
	joint := NewPivotJoint(a, b, pivot)
	space.AddConstraint(joint)

	anchorA := a.WorldToLocal(pivot)
	anchorB := b.WorldToLocal(pivot)

	dt := 1.0 / 120
	for i := 0; i < 600; i++ {
		space.Step(dt)
	}

	worldA := a.LocalToWorld(anchorA)
	worldB := b.LocalToWorld(anchorB)
	assert.InDelta(t, 0.0, worldA.Dist(worldB), 0.2)
}

func TestGrooveJointConstrainsAnchorToSegment(t *testing.T) {
	space := NewSpace()
	space.SetGravity(Vector{0, -50})

	a := space.StaticBody

	b := NewBody(1, 1)
	space.AddBody(b)
	b.SetPosition(Vector{2, 0})

	joint := NewGrooveJoint(a, b, Vector{-10, 0}, Vector{10, 0}, Vector{0, 0})
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 600; i++ {
		space.Step(dt)
	}

	// b's anchor is its own origin, so b's position must stay on the
	// horizontal groove no matter how hard gravity pulls; b may still slide
	// along the groove and rotate.
	assert.InDelta(t, 0.0, b.Position().Y, 0.5)
}

func TestDampedSpringPullsBodyTowardRestLength(t *testing.T) {
	space := NewSpace()
	space.SetGravity(VectorZero())

	anchor := space.StaticBody
	bob := NewBody(1, 1)
	space.AddBody(bob)
	bob.SetPosition(Vector{10, 0})

	joint := NewDampedSpring(anchor, bob, Vector{0, 0}, Vector{0, 0}, 3, 50, 5)
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 2400; i++ {
		space.Step(dt)
	}

	dist := bob.Position().Dist(anchor.Position())
	assert.InDelta(t, 3.0, dist, 0.3)
}

func TestDampedRotarySpringPullsTowardRestAngle(t *testing.T) {
	space := NewSpace()

	a := space.StaticBody
	b := NewBody(1, 1)
	space.AddBody(b)
	b.SetAngle(1.0)

	joint := NewDampedRotarySpring(a, b, 0, 20, 2)
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 2400; i++ {
		space.Step(dt)
	}

	assert.InDelta(t, 0.0, b.Angle(), 0.1)
}

func TestRotaryLimitJointClampsRelativeAngle(t *testing.T) {
	space := NewSpace()

	a := space.StaticBody
	b := NewBody(1, 1)
	space.AddBody(b)
	b.SetAngularVelocity(10)

	joint := NewRotaryLimitJoint(a, b, -0.5, 0.5)
	space.AddConstraint(joint)

	dt := 1.0 / 240
	for i := 0; i < 2400; i++ {
		space.Step(dt)
	}

	relAngle := b.Angle() - a.Angle()
	assert.LessOrEqual(t, relAngle, 0.5+0.05)
}

func TestRatchetJointOnlyAdvancesForward(t *testing.T) {
	space := NewSpace()

	a := space.StaticBody
	b := NewBody(1, 1)
	space.AddBody(b)

	joint := NewRatchetJoint(a, b, 0, math.Pi/4)
	space.AddConstraint(joint)

	// Torque tries to push b backward; the ratchet should prevent the
	// relative angle from going negative past the phase.
	dt := 1.0 / 120
	for i := 0; i < 600; i++ {
		b.SetTorque(-5)
		space.Step(dt)
	}

	// Starting exactly on a ratchet notch, sustained backward torque should
	// be blocked rather than let the relative angle drift negative.
	relAngle := b.Angle() - a.Angle()
	assert.GreaterOrEqual(t, relAngle, -0.15)
}

func TestGearJointLocksAngularRatio(t *testing.T) {
	space := NewSpace()

	a := NewBody(1, 1)
	space.AddBody(a)
	b := NewBody(1, 1)
	space.AddBody(b)

	joint := NewGearJoint(a, b, 0, 2)
	space.AddConstraint(joint)

	a.SetAngularVelocity(3)

	dt := 1.0 / 120
	for i := 0; i < 600; i++ {
		space.Step(dt)
	}

	// The gear constraint holds b.w*ratio - a.w near zero every step.
	assert.InDelta(t, a.AngularVelocity(), b.AngularVelocity()*2, 0.3)
}

func TestSimpleMotorDrivesConstantRelativeRate(t *testing.T) {
	space := NewSpace()

	a := space.StaticBody
	b := NewBody(1, 1)
	space.AddBody(b)

	joint := NewSimpleMotor(a, b, 5)
	space.AddConstraint(joint)

	dt := 1.0 / 120
	for i := 0; i < 600; i++ {
		space.Step(dt)
	}

	assert.InDelta(t, 5.0, b.AngularVelocity()-a.AngularVelocity(), 0.5)
}
