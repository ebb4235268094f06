package physics

import "math"

// BodyType selects how a Body participates in the simulation.
type BodyType int

const (
	BODY_DYNAMIC BodyType = iota
	BODY_KINEMATIC
	BODY_STATIC
)

const INFINITY = math.MaxFloat64

// Impact is a per-body scratch record summarizing the collisions this body
// took part in during the most recently solved step. See impact.go.
type Impact struct {
	P, N Vector

	Size, KE           float64
	Bounce, BounceRigid float64

	Count int
	Stamp uint

	Dirty bool

	MaterialTypeA, MaterialTypeB uint8
	BodyTypeA, BodyTypeB         BodyType
}

// Body is a rigid entity with pose, velocity and inertia. See spec.md §3
// for the invariants each field must satisfy.
type Body struct {
	Type BodyType

	space *Space

	// pose
	p     Vector // position of the center of gravity in world space
	a     float64
	s     Vector // non-uniform scale
	cog   Vector // center of gravity, body-local

	// velocities
	w     float64
	vVec  Vector // linear velocity
	vBias Vector
	wBias float64

	// accumulated force/torque, cleared each UpdateVelocity
	f Vector
	t float64

	m, mInv float64
	i, iInv float64

	Gravity     float64 // per-body gravity scale, 1.0 by default
	MaxVelocity float64
	Buoyancy    float64 // stored, unused by UpdateVelocity; see SPEC_FULL.md §5

	ParentEntity interface{}
	OwnerEntity  interface{}

	transform         Transform
	transformUnscaled Transform

	bb BB

	shapeList      *Shape
	arbiterList    *Arbiter
	constraintList *Constraint

	sleepingRoot     *Body
	sleepingNext     *Body
	sleepingIdleTime float64

	impact Impact

	UserData interface{}
}

// NewBody creates a dynamic body at the origin with the given mass and
// moment of inertia and zero velocities.
func NewBody(mass, moment float64) *Body {
	b := &Body{
		Type:        BODY_DYNAMIC,
		s:           Vector{1, 1},
		Gravity:     1.0,
		MaxVelocity: 50.0,
		Buoyancy:    0.5,
		transform:   TransformIdentity(),
	}
	b.SetMass(mass)
	b.SetMoment(moment)
	b.SetAngle(0)
	return b
}

// NewKinematicBody creates a body that moves under explicit velocity but is
// unaffected by forces or collisions.
func NewKinematicBody() *Body {
	b := NewBody(0, 0)
	b.SetType(BODY_KINEMATIC)
	return b
}

// NewStaticBody creates an immovable body.
func NewStaticBody() *Body {
	b := NewBody(0, 0)
	b.SetType(BODY_STATIC)
	return b
}

func (b *Body) GetType() BodyType { return b.Type }

// SetType reshuffles mass accounting and re-registers the body (and its
// shapes) with the owning space's arrays/partitions. Must not be called
// while the space is locked.
func (b *Body) SetType(t BodyType) {
	old := b.Type
	if old == t {
		return
	}

	b.Type = t
	if t == BODY_STATIC {
		b.sleepingIdleTime = INFINITY
	} else {
		b.sleepingIdleTime = 0
	}

	if t == BODY_DYNAMIC {
		b.m, b.i = 0, 0
		b.mInv, b.iInv = INFINITY, INFINITY
		b.AccumulateMassFromShapes()
	} else {
		b.m, b.i = INFINITY, INFINITY
		b.mInv, b.iInv = 0, 0
		b.vVec = VectorZero()
		b.w = 0
	}

	if b.space != nil {
		assertHard(b.space.locked == 0, "cannot change a body's type while its space is locked")

		if old != BODY_STATIC {
			b.Activate()
		}

		fromArr := b.space.ArrayForBodyType(old)
		toArr := b.space.ArrayForBodyType(t)
		if fromArr != toArr {
			removeBody(fromArr, b)
			*toArr = append(*toArr, b)
		}

		fromIdx := b.space.staticShapes
		if old != BODY_STATIC {
			fromIdx = b.space.dynamicShapes
		}
		toIdx := b.space.staticShapes
		if t != BODY_STATIC {
			toIdx = b.space.dynamicShapes
		}
		if fromIdx != toIdx {
			for shape := b.shapeList; shape != nil; shape = shape.next {
				fromIdx.Remove(shape, shape.hashid)
				toIdx.Insert(shape, shape.hashid)
			}
		}
	}
}

func removeBody(arr *[]*Body, b *Body) {
	s := *arr
	for i, v := range s {
		if v == b {
			*arr = append(s[:i], s[i+1:]...)
			return
		}
	}
}

func (b *Body) IsSleeping() bool { return b.sleepingRoot != nil }

func (b *Body) ComponentRoot() *Body { return b.sleepingRoot }

func (b *Body) ComponentAdd(root *Body) {
	b.sleepingRoot = root
	b.sleepingNext = root.sleepingNext
	root.sleepingNext = b
}

func (b *Body) Space() *Space { return b.space }

func (b *Body) Activate() {
	if b.Type != BODY_DYNAMIC {
		return
	}
	if b.space != nil {
		b.space.Activate(b)
	}
	b.sleepingIdleTime = 0
}

func (b *Body) GetMass() float64 { return b.m }

func (b *Body) SetMass(mass float64) {
	assertHard(b.Type == BODY_DYNAMIC, "cannot set the mass of a kinematic or static body")
	assertHard(mass >= 0 && mass < INFINITY, "mass must be positive and finite")
	b.Activate()
	b.m = mass
	if mass == 0 {
		b.mInv = INFINITY
	} else {
		b.mInv = 1 / mass
	}
}

func (b *Body) GetMoment() float64 { return b.i }

func (b *Body) SetMoment(moment float64) {
	assertHard(moment >= 0, "moment of inertia must be positive")
	b.Activate()
	b.i = moment
	if moment == 0 {
		b.iInv = INFINITY
	} else {
		b.iInv = 1 / moment
	}
}

func (b *Body) MassInv() float64    { return b.mInv }
func (b *Body) MomentInv() float64  { return b.iInv }

func (b *Body) CenterOfGravity() Vector { return b.cog }

func (b *Body) SetCenterOfGravity(cog Vector) {
	b.Activate()
	b.cog = cog
}

func (b *Body) Position() Vector {
	return b.transform.Point(VectorZero())
}

func (b *Body) SetPosition(position Vector) {
	p := b.transform.Vect(b.cog).Add(position)
	b.p = p
	b.setTransform(p, b.a, b.s)
}

func (b *Body) SetTransform(position Vector, angle float64, scale Vector) {
	p := b.transform.Vect(b.cog).Add(position)
	b.p = p
	b.a = fmod(angle, TAU)
	b.s = scale
	b.setTransform(p, b.a, b.s)
}

func (b *Body) setTransform(p Vector, a float64, s Vector) {
	rot := VectorForAngle(a)
	c := Vector{b.cog.X * s.X, b.cog.Y * s.Y}

	b.transformUnscaled = NewTransformTranspose(
		rot.X, -rot.Y, p.X-(c.X*rot.X-c.Y*rot.Y),
		rot.Y, rot.X, p.Y-(c.X*rot.Y+c.Y*rot.X),
	)
	b.transform = b.transformUnscaled.Mult(TransformScale(s.X, s.Y))
}

func (b *Body) Velocity() Vector { return b.vVec }

func (b *Body) SetVelocity(v Vector) {
	b.Activate()
	b.vVec = v
}

func (b *Body) Force() Vector { return b.f }

func (b *Body) SetForce(f Vector) {
	b.Activate()
	b.f = f
}

func (b *Body) Angle() float64 { return b.a }

func (b *Body) SetAngle(angle float64) {
	b.Activate()
	b.a = fmod(angle, TAU)
	b.setTransform(b.p, b.a, b.s)
}

func (b *Body) AngularVelocity() float64 { return b.w }

func (b *Body) SetAngularVelocity(w float64) {
	b.Activate()
	b.w = w
}

func (b *Body) Torque() float64 { return b.t }

func (b *Body) SetTorque(t float64) {
	b.Activate()
	b.t = t
}

// ApplyForceAtWorldPoint adds force at a world-space point, accumulating
// the resulting torque about the body's center of gravity.
func (b *Body) ApplyForceAtWorldPoint(force, point Vector) {
	b.Activate()
	b.f = b.f.Add(force)
	r := point.Sub(b.transform.Point(b.cog))
	b.t += r.Cross(force)
}

func (b *Body) ApplyForceAtLocalPoint(force, point Vector) {
	b.ApplyForceAtWorldPoint(b.transform.Vect(force), b.transform.Point(point))
}

func (b *Body) ApplyImpulseAtWorldPoint(impulse, point Vector) {
	b.Activate()
	r := point.Sub(b.transform.Point(b.cog))
	b.applyImpulse(impulse, r)
}

func (b *Body) ApplyImpulseAtLocalPoint(impulse, point Vector) {
	b.ApplyImpulseAtWorldPoint(b.transform.Vect(impulse), b.transform.Point(point))
}

func (b *Body) applyImpulse(impulse, r Vector) {
	b.vVec = b.vVec.Add(impulse.Mult(b.mInv))
	b.w += b.iInv * r.Cross(impulse)
}

func (b *Body) VelocityAtWorldPoint(point Vector) Vector {
	r := point.Sub(b.transform.Point(b.cog))
	return b.vVec.Add(r.Perp().Mult(b.w))
}

func (b *Body) VelocityAtLocalPoint(point Vector) Vector {
	r := b.transform.Vect(point.Sub(b.cog))
	return b.vVec.Add(r.Perp().Mult(b.w))
}

func (b *Body) LocalToWorld(p Vector) Vector         { return b.transform.Point(p) }
func (b *Body) LocalToWorldUnscaled(p Vector) Vector { return b.transformUnscaled.Point(p) }
func (b *Body) WorldToLocal(p Vector) Vector         { return b.transform.RigidInverse().Point(p) }
func (b *Body) WorldToLocalUnscaled(p Vector) Vector { return b.transformUnscaled.RigidInverse().Point(p) }

func (b *Body) KineticEnergy() float64 {
	vsq := b.vVec.Dot(b.vVec)
	wsq := b.w * b.w
	var e float64
	if vsq != 0 {
		e += vsq * b.m
	}
	if wsq != 0 {
		e += wsq * b.i
	}
	return e
}

// UpdateVelocity integrates forces and gravity into velocity. Skipped for
// kinematic bodies, matching cpBodyUpdateVelocity.
func (b *Body) UpdateVelocity(gravity Vector, dampingV, dampingW, dt float64) {
	if b.Type == BODY_KINEMATIC {
		return
	}
	assertWarn(b.m > 0 && b.i > 0, "body's mass and moment must be positive to simulate")

	b.vVec = b.vVec.Mult(dampingV).Add(gravity.Mult(b.Gravity).Add(b.f.Mult(b.mInv)).Mult(dt))
	b.w = b.w*dampingW + b.t*b.iInv*dt

	b.f = VectorZero()
	b.t = 0
}

// UpdatePosition integrates velocity (plus any bias velocity from the
// positional-correction pass) into pose, then clears the bias terms.
func (b *Body) UpdatePosition(dt float64) {
	p := b.p.Add(b.vVec.Add(b.vBias).Mult(dt))
	b.p = p
	a := fmod(b.a+(b.w+b.wBias)*dt, TAU)
	b.a = a
	b.setTransform(p, a, b.s)

	b.vBias = VectorZero()
	b.wBias = 0
}

// AccumulateMassFromShapes must only be called when shapes with mass info
// are modified, added or removed. Welford-style accumulation across the
// body's shape list.
func (b *Body) AccumulateMassFromShapes() {
	b.m, b.i = 0, 0
	b.cog = VectorZero()

	pos := b.Position()
	bb := BB{pos.X, pos.Y, pos.X, pos.Y}

	if b.shapeList != nil && b.space != nil {
		for shape := b.shapeList; shape != nil; shape = shape.next {
			info := shape.massInfo
			m := info.M

			bb = bb.Merge(shape.bb)

			if m > 0 {
				msum := b.m + m
				b.i += m*info.I + b.cog.DistSq(info.Cog)*(m*b.m)/msum
				b.cog = b.cog.Lerp(info.Cog, m/msum)
				b.m = msum
			}
		}
	} else {
		b.m = 1.0
		b.i = 1.0
	}

	if b.Type != BODY_DYNAMIC {
		b.m, b.i = INFINITY, INFINITY
		b.mInv, b.iInv = 0, 0
		b.vVec = VectorZero()
		b.w = 0
	} else {
		b.mInv = 1 / b.m
		b.iInv = 1 / b.i
	}

	b.bb = bb.Offset(pos.Neg())

	// Realign since the CoG has probably moved.
	b.SetPosition(pos)
}

func (b *Body) AddShape(shape *Shape) {
	next := b.shapeList
	if next != nil {
		next.prev = shape
	}
	shape.next = next
	shape.prev = nil
	b.shapeList = shape
}

func (b *Body) RemoveShape(shape *Shape) {
	prev := shape.prev
	next := shape.next
	if prev != nil {
		prev.next = next
	} else {
		b.shapeList = next
	}
	if next != nil {
		next.prev = prev
	}
	shape.prev = nil
	shape.next = nil
}

func (b *Body) RemoveConstraint(constraint *Constraint) {
	b.constraintList = filterConstraints(b.constraintList, b, constraint)
}

func filterConstraints(node *Constraint, body *Body, filter *Constraint) *Constraint {
	if node == nil {
		return nil
	}
	if node == filter {
		return node.Next(body)
	}
	if node.a == body {
		node.nextA = filterConstraints(node.nextA, body, filter)
	} else {
		node.nextB = filterConstraints(node.nextB, body, filter)
	}
	return node
}

// PushArbiter threads arb into this body's arbiter list (head insertion).
func (b *Body) PushArbiter(arb *Arbiter) {
	thread := arb.ThreadForBody(b)
	assertHard(thread.next == nil && thread.prev == nil, "arbiter thread already linked")

	next := b.arbiterList
	if next != nil {
		nextThread := next.ThreadForBody(b)
		assertHard(nextThread.prev == nil, "contact graph is corrupt")
		nextThread.prev = arb
	}
	thread.next = next
	b.arbiterList = arb
}

func (b *Body) EachShape(f func(shape *Shape)) {
	shape := b.shapeList
	for shape != nil {
		next := shape.next
		f(shape)
		shape = next
	}
}

func (b *Body) EachConstraint(f func(c *Constraint)) {
	c := b.constraintList
	for c != nil {
		next := c.Next(b)
		f(c)
		c = next
	}
}

func (b *Body) EachArbiter(f func(arb *Arbiter)) {
	arb := b.arbiterList
	for arb != nil {
		next := ArbiterNext(arb, b)
		swapped := arb.swapped
		arb.swapped = b == arb.bodyB
		f(arb)
		arb.swapped = swapped
		arb = next
	}
}
