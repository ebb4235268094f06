package physics

import "math"

// constraintClass is the per-variant behavior of a Constraint, dispatched
// through the Constraint wrapper rather than a function-pointer vtable
// (the same tagged-interface approach used for Shape's ShapeKind switch).
type constraintClass interface {
	PreStep(c *Constraint, dt float64)
	ApplyCachedImpulse(c *Constraint, dtCoef float64)
	ApplyImpulse(c *Constraint, dt float64)
	GetImpulse(c *Constraint) float64
}

// Constraint is a joint between two bodies. The embedded class holds the
// variant-specific math; everything here is the state every variant
// shares: which bodies it joins, its solver limits, and its list-threading
// for Body.constraintList.
type Constraint struct {
	class constraintClass

	a, b *Body

	maxForce    float64
	errorBias   float64
	maxBias     float64
	collideBody bool

	nextA, nextB *Constraint

	PreSolve  func(c *Constraint, space *Space)
	PostSolve func(c *Constraint, space *Space)

	UserData interface{}
}

func newConstraint(class constraintClass, a, b *Body) *Constraint {
	return &Constraint{
		class:     class,
		a:         a,
		b:         b,
		maxForce:  INFINITY,
		maxBias:   INFINITY,
		errorBias: math.Pow(1.0e-3, 60.0),
	}
}

func (c *Constraint) BodyA() *Body { return c.a }
func (c *Constraint) BodyB() *Body { return c.b }

func (c *Constraint) MaxForce() float64     { return c.maxForce }
func (c *Constraint) SetMaxForce(f float64) { c.maxForce = f }

func (c *Constraint) MaxBias() float64     { return c.maxBias }
func (c *Constraint) SetMaxBias(f float64) { c.maxBias = f }

func (c *Constraint) ErrorBias() float64     { return c.errorBias }
func (c *Constraint) SetErrorBias(f float64) { c.errorBias = f }

func (c *Constraint) CollideBodies() bool     { return c.collideBody }
func (c *Constraint) SetCollideBodies(v bool) { c.collideBody = v }

// Next returns the next constraint in body's constraint thread.
func (c *Constraint) Next(body *Body) *Constraint {
	if body == c.a {
		return c.nextA
	}
	return c.nextB
}

func (c *Constraint) preStep(dt float64)                 { c.class.PreStep(c, dt) }
func (c *Constraint) applyCachedImpulse(dtCoef float64)  { c.class.ApplyCachedImpulse(c, dtCoef) }
func (c *Constraint) applyImpulse(dt float64)            { c.class.ApplyImpulse(c, dt) }

// GetImpulse returns the magnitude of the impulse this constraint applied
// during the most recently solved step. For the two damped springs it is
// the magnitude of the spring force (or torque) computed in PreStep.
func (c *Constraint) GetImpulse() float64 { return c.class.GetImpulse(c) }

// biasCoefClamped returns the fraction of positional error a joint
// corrects per step, 1 - errorBias^dt. It does no clamping; each joint
// variant clamps the resulting bias velocity to maxBias itself.
func biasCoefClamped(errorBias, dt float64) float64 {
	return 1 - math.Pow(errorBias, dt)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// kScalar is the inverse effective mass, a.iInv + b.iInv, of a purely
// rotational constraint axis (rotary joints, motors); callers take its
// reciprocal.
func kScalar(a, b *Body) float64 {
	return a.iInv + b.iInv
}

// kTensor computes the 2x2 effective mass matrix for a point constraint
// (pivot/groove) relating the two bodies' linear+angular response at
// offsets r1, r2, returned as its inverse for direct use in PreStep.
func kTensor(a, b *Body, r1, r2 Vector) Mat2x2 {
	mSum := a.mInv + b.mInv

	k11 := mSum + a.iInv*r1.Y*r1.Y + b.iInv*r2.Y*r2.Y
	k12 := -a.iInv*r1.X*r1.Y - b.iInv*r2.X*r2.Y
	k21 := k12
	k22 := mSum + a.iInv*r1.X*r1.X + b.iInv*r2.X*r2.X

	det := k11*k22 - k12*k21
	assertHard(det != 0, "constraint bodies have zero effective mass along this axis")
	invDet := 1 / det

	return Mat2x2{k22 * invDet, -k12 * invDet, -k21 * invDet, k11 * invDet}
}

func relativeVelocityAt(a, b *Body, r1, r2 Vector) Vector {
	return relativeVelocity(a, b, r1, r2)
}

// effectiveMassScalar is the 1-D effective mass of a and b along a single
// axis n, acting at offsets r1/r2 — the same quantity Arbiter.PreStep
// computes per contact normal/tangent, reused here for the scalar (pin,
// slide, spring) joints.
func effectiveMassScalar(a, b *Body, r1, r2, n Vector) float64 {
	k := a.mInv + b.mInv + a.iInv*sq(r1.Cross(n)) + b.iInv*sq(r2.Cross(n))
	if k == 0 {
		return 0
	}
	return 1 / k
}
