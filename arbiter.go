package physics

import "math"

type arbiterState int

const (
	// arbiterStateFirstCollision means Begin has not yet been called for
	// this pair; it runs once, this step, before PreSolve.
	arbiterStateFirstCollision arbiterState = iota
	// arbiterStateNormal is the steady state for an overlapping pair.
	arbiterStateNormal
	// arbiterStateIgnore means a handler's Begin/PreSolve returned false;
	// the pair is tracked but produces no impulses until it separates.
	arbiterStateIgnore
	// arbiterStateCached means the pair stopped overlapping this step but
	// is kept around for collisionPersistence steps in case it returns,
	// so warm-start data survives a one- or two-frame gap.
	arbiterStateCached
	// arbiterStateInvalidated marks an arbiter whose cached state is stale;
	// Update moves it back to FirstCollision, as it does a Cached one.
	arbiterStateInvalidated
)

// arbiterThread is one body's link in the arbiter's two embedded
// doubly-linked list nodes, mirroring cpArbiterThread.
type arbiterThread struct {
	next, prev *Arbiter
}

// Arbiter is the persistent record of a colliding shape pair. It survives
// across steps (as long as the shapes keep overlapping, or until
// collisionPersistence steps after they stop) so the solver can warm-start
// from the previous step's accumulated impulses.
type Arbiter struct {
	handler *CollisionHandler
	swapped bool
	state   arbiterState

	e, u      float64
	surfaceVr Vector

	shapeA, shapeB *Shape
	bodyA, bodyB   *Body

	threadA, threadB arbiterThread

	contacts [maxContactsPerArbiter]Contact
	count    int
	normal   Vector

	stamp uint
	data  interface{}
}

func newArbiter(a, b *Shape) *Arbiter {
	return &Arbiter{
		shapeA: a, shapeB: b,
		bodyA: a.body, bodyB: b.body,
		state: arbiterStateFirstCollision,
	}
}

// ThreadForBody returns the thread node belonging to b, which must be one
// of the arbiter's two bodies.
func (arb *Arbiter) ThreadForBody(b *Body) *arbiterThread {
	if b == arb.bodyA {
		return &arb.threadA
	}
	assertHard(b == arb.bodyB, "body is not part of this arbiter")
	return &arb.threadB
}

// ArbiterNext returns the next arbiter in body's arbiter thread.
func ArbiterNext(arb *Arbiter, body *Body) *Arbiter {
	return arb.ThreadForBody(body).next
}

// unthreadHelper splices arb out of one body's arbiter list.
func unthreadHelper(arb *Arbiter, b *Body) {
	thread := arb.ThreadForBody(b)
	prev, next := thread.prev, thread.next

	if prev != nil {
		prev.ThreadForBody(b).next = next
	} else if b.arbiterList == arb {
		b.arbiterList = next
	}
	if next != nil {
		next.ThreadForBody(b).prev = prev
	}

	thread.prev, thread.next = nil, nil
}

// Unthread removes the arbiter from both bodies' contact graphs, e.g. once
// it has expired out of the cache.
func (arb *Arbiter) Unthread() {
	unthreadHelper(arb, arb.bodyA)
	unthreadHelper(arb, arb.bodyB)
}

// Update re-derives the manifold from a fresh CollisionInfo, matching
// points against the previous step's by Hash to preserve their
// accumulated impulses (warm starting), and moves a Cached or Invalidated
// arbiter back to FirstCollision. Begin itself is called by
// Space.collideShapes, only when it creates a new arbiter.
func (arb *Arbiter) Update(info CollisionInfo, handler *CollisionHandler, a, b *Shape) {
	// Collide reports info.A/info.B in the order its arguments were given,
	// so swapped is set only when info.A is not a.
	arb.swapped = info.A != a

	if arb.state == arbiterStateCached || arb.state == arbiterStateInvalidated {
		arb.state = arbiterStateFirstCollision
	}

	old := arb.contacts
	oldCount := arb.count

	arb.count = info.Count
	arb.normal = info.Normal
	bodyA, bodyB := a.body, b.body
	for i := 0; i < info.Count; i++ {
		pt := info.Points[i]
		c := Contact{
			Hash:  pt.Hash,
			Depth: pt.Depth,
			R1:    pt.Point.Sub(bodyA.transform.Point(bodyA.cog)),
			R2:    pt.Point.Sub(bodyB.transform.Point(bodyB.cog)),
		}
		for j := 0; j < oldCount; j++ {
			if old[j].Hash == pt.Hash {
				c.JnAcc, c.JtAcc = old[j].JnAcc, old[j].JtAcc
				break
			}
		}
		arb.contacts[i] = c
	}

	arb.handler = handler
	arb.e = a.e * b.e
	arb.u = a.u * b.u
	arb.surfaceVr = a.surfaceV.Sub(b.surfaceV)

	arb.shapeA, arb.shapeB = a, b
	arb.bodyA, arb.bodyB = bodyA, bodyB
}

// Ignore marks the arbiter so it skips impulse solving. The mark stays for
// as long as the arbiter remains cached, i.e. until the pair separates and
// the arbiter expires.
func (arb *Arbiter) Ignore() {
	arb.state = arbiterStateIgnore
}

func (arb *Arbiter) Count() int      { return arb.count }
func (arb *Arbiter) Normal() Vector  { return arb.normal }
func (arb *Arbiter) Bodies() (*Body, *Body) {
	if arb.swapped {
		return arb.bodyB, arb.bodyA
	}
	return arb.bodyA, arb.bodyB
}
func (arb *Arbiter) Shapes() (*Shape, *Shape) {
	if arb.swapped {
		return arb.shapeB, arb.shapeA
	}
	return arb.shapeA, arb.shapeB
}

// GetImpulse sums the accumulated normal+friction impulse over all contact
// points, for reporting (e.g. into Impact).
func (arb *Arbiter) GetImpulse() Vector {
	var sum Vector
	n := arb.normal
	t := n.Perp()
	for i := 0; i < arb.count; i++ {
		c := arb.contacts[i]
		sum = sum.Add(n.Mult(c.JnAcc)).Add(t.Mult(c.JtAcc))
	}
	return sum
}

// PreStep precomputes per-contact effective mass, restitution bias and the
// positional-correction bias velocity, ahead of the solver's iterations.
func (arb *Arbiter) PreStep(dt, slop, biasCoef float64) {
	a, b := arb.bodyA, arb.bodyB
	n := arb.normal

	for i := 0; i < arb.count; i++ {
		c := &arb.contacts[i]

		r1 := c.R1
		r2 := c.R2

		kn := a.mInv + b.mInv + a.iInv*sq(r1.Cross(n)) + b.iInv*sq(r2.Cross(n))
		c.NMass = 1 / kn

		t := n.Perp()
		kt := a.mInv + b.mInv + a.iInv*sq(r1.Cross(t)) + b.iInv*sq(r2.Cross(t))
		c.TMass = 1 / kt

		vRel := relativeVelocity(a, b, r1, r2).Dot(n)
		c.Bounce = vRel * arb.e

		c.BiasVel = math.Max(0, -(c.Depth-slop)*biasCoef/dt)
		c.JBias = 0
	}
}

func sq(v float64) float64 { return v * v }

func relativeVelocity(a, b *Body, r1, r2 Vector) Vector {
	v1 := a.vVec.Add(r1.Perp().Mult(a.w))
	v2 := b.vVec.Add(r2.Perp().Mult(b.w))
	return v2.Sub(v1)
}

// ApplyCachedImpulse re-applies the previous step's accumulated impulses,
// scaled by dtCoef (ratio of this step's dt to the previous one), so a
// changing timestep doesn't over- or under-correct the warm start.
func (arb *Arbiter) ApplyCachedImpulse(dtCoef float64) {
	if arb.state == arbiterStateIgnore {
		return
	}
	a, b := arb.bodyA, arb.bodyB
	n := arb.normal
	t := n.Perp()

	for i := 0; i < arb.count; i++ {
		c := &arb.contacts[i]
		j := n.Mult(c.JnAcc).Add(t.Mult(c.JtAcc)).Mult(dtCoef)
		a.applyImpulse(j.Neg(), c.R1)
		b.applyImpulse(j, c.R2)
	}
}

// ApplyImpulse runs one sequential-impulse iteration over the manifold:
// for each contact it solves the bias impulse (kept separate from the
// accumulated, reportable impulse), then the normal impulse, then friction
// clamped by the normal impulse just accumulated.
func (arb *Arbiter) ApplyImpulse() {
	if arb.state == arbiterStateIgnore {
		return
	}
	a, b := arb.bodyA, arb.bodyB
	n := arb.normal
	t := n.Perp()
	surfaceVr := arb.surfaceVr

	for i := 0; i < arb.count; i++ {
		c := &arb.contacts[i]
		r1, r2 := c.R1, c.R2

		vb1 := a.vBias.Add(r1.Perp().Mult(a.wBias))
		vb2 := b.vBias.Add(r2.Perp().Mult(b.wBias))
		vr := relativeVelocity(a, b, r1, r2)

		vbn := vb2.Sub(vb1).Dot(n)
		jbn := (c.BiasVel - vbn) * c.NMass
		jbnOld := c.JBias
		c.JBias = math.Max(jbnOld+jbn, 0)
		jbn = c.JBias - jbnOld
		// Bias impulses only correct the pseudo-velocity (vBias/wBias),
		// never the real velocity, or positional correction would leak
		// energy into the body's solved motion.
		a.vBias = a.vBias.Sub(n.Mult(jbn * a.mInv))
		b.vBias = b.vBias.Add(n.Mult(jbn * b.mInv))
		a.wBias -= a.iInv * r1.Cross(n.Mult(jbn))
		b.wBias += b.iInv * r2.Cross(n.Mult(jbn))

		vrn := vr.Dot(n)
		jn := -(c.Bounce + vrn) * c.NMass
		jnOld := c.JnAcc
		c.JnAcc = math.Max(jnOld+jn, 0)
		jn = c.JnAcc - jnOld

		vrt := vr.Dot(t) + surfaceVr.Dot(t)
		jtMax := arb.u * c.JnAcc
		jt := -vrt * c.TMass
		jtOld := c.JtAcc
		c.JtAcc = clampAbs(jtOld+jt, jtMax)
		jt = c.JtAcc - jtOld

		j := n.Mult(jn).Add(t.Mult(jt))
		a.applyImpulse(j.Neg(), r1)
		b.applyImpulse(j, r2)
	}
}

func clampAbs(v, max float64) float64 {
	if v < -max {
		return -max
	}
	if v > max {
		return max
	}
	return v
}
