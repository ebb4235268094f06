package physics

import "math"

// Space owns the simulation's bodies, shapes, constraints and collision
// state, and drives them forward one fixed timestep at a time via Step.
type Space struct {
	Iterations int

	gravity Vector
	damping float64

	idleSpeedThreshold   float64
	SleepTimeThreshold   float64
	collisionSlop        float64
	collisionBias        float64
	collisionPersistence uint

	stamp  uint
	currDt float64

	dynamicBodies      []*Body
	staticBodies       []*Body
	rousedBodies       []*Body
	sleepingComponents []*Body

	shapeIDCounter HashValue

	staticShapes  SpatialIndex
	dynamicShapes SpatialIndex

	constraints []*Constraint
	arbiters    []*Arbiter

	cachedArbiters *HashSetArbiter

	locked        int
	usesWildcards bool

	collisionHandlers *HashSetCollisionHandler
	defaultHandler    *CollisionHandler

	skipPostStep      bool
	postStepCallbacks []postStepCallback

	StaticBody *Body

	UserData interface{}
}

// NewSpace returns a space with Chipmunk's usual defaults: 10 solver
// iterations, no gravity, no damping (no energy loss), and a BBTree
// broadphase for both partitions.
func NewSpace() *Space {
	space := &Space{
		Iterations:           10,
		damping:              1.0,
		idleSpeedThreshold:   0,
		SleepTimeThreshold:   INFINITY,
		collisionSlop:        0.1,
		collisionBias:        0.0017970074636700,
		collisionPersistence: 3,

		staticShapes:  NewBBTree(),
		dynamicShapes: NewBBTree(),

		cachedArbiters:    NewHashSetArbiter(),
		collisionHandlers: NewHashSetCollisionHandler(),
	}

	space.StaticBody = NewStaticBody()
	space.StaticBody.space = space
	return space
}

func (space *Space) Gravity() Vector     { return space.gravity }
func (space *Space) SetGravity(g Vector) { space.gravity = g }

func (space *Space) Damping() float64     { return space.damping }
func (space *Space) SetDamping(d float64) { space.damping = d }

func (space *Space) CollisionSlop() float64     { return space.collisionSlop }
func (space *Space) SetCollisionSlop(v float64) { space.collisionSlop = v }

func (space *Space) CollisionBias() float64     { return space.collisionBias }
func (space *Space) SetCollisionBias(v float64) { space.collisionBias = v }

func (space *Space) CollisionPersistence() uint     { return space.collisionPersistence }
func (space *Space) SetCollisionPersistence(v uint) { space.collisionPersistence = v }

func (space *Space) CurrentTimeStep() float64 { return space.currDt }

func (space *Space) IsLocked() bool { return space.locked != 0 }

// UseSpatialHash hot-swaps both partitions to a SpaceHash of the given
// cell size, re-inserting every shape currently indexed. Must not be
// called while the space is locked.
func (space *Space) UseSpatialHash(cellSize float64) {
	assertHard(space.locked == 0, "cannot change spatial index while the space is locked")

	newStatic := NewSpaceHash(cellSize)
	space.staticShapes.Each(func(s *Shape) { newStatic.Insert(s, s.hashid) })
	space.staticShapes = newStatic

	newDynamic := NewSpaceHash(cellSize)
	space.dynamicShapes.Each(func(s *Shape) { newDynamic.Insert(s, s.hashid) })
	space.dynamicShapes = newDynamic
}

func (space *Space) ArrayForBodyType(t BodyType) *[]*Body {
	if t == BODY_STATIC {
		return &space.staticBodies
	}
	return &space.dynamicBodies
}

// Lock increments the reentrant lock depth; mutating operations
// (add/remove body/shape/constraint) assert this is zero.
func (space *Space) Lock() { space.locked++ }

// Unlock decrements the lock depth and, once it reaches zero, reactivates
// any bodies roused mid-step and drains the post-step callback queue.
func (space *Space) Unlock(runPostStep bool) {
	space.locked--
	assertHard(space.locked >= 0, "space unlocked more times than it was locked")
	if space.locked != 0 {
		return
	}

	roused := space.rousedBodies
	space.rousedBodies = nil
	for _, b := range roused {
		space.activateBody(b)
	}

	if runPostStep {
		space.runPostStepCallbacks()
	}
}

// AddBody registers body's type-appropriate array slot. The body must not
// already belong to a space.
func (space *Space) AddBody(body *Body) *Body {
	assertHard(body.space == nil, "body is already added to a space")
	assertHard(space.locked == 0, "cannot add a body while the space is locked")

	body.space = space
	arr := space.ArrayForBodyType(body.Type)
	*arr = append(*arr, body)
	return body
}

// RemoveBody unregisters body, first waking its component if it was
// asleep so the contact graph isn't left referencing a body no longer in
// the space.
func (space *Space) RemoveBody(body *Body) {
	assertHard(space.locked == 0, "cannot remove a body while the space is locked")
	if body.IsSleeping() {
		space.Activate(body)
	}
	removeBody(space.ArrayForBodyType(body.Type), body)
	body.space = nil
}

// AddShape inserts shape into the partition matching its body's type and
// assigns it a fresh hashid.
func (space *Space) AddShape(shape *Shape) *Shape {
	assertHard(shape.body != nil, "shape must have a body before it can be added to a space")
	assertHard(shape.space == nil, "shape is already added to a space")
	assertHard(space.locked == 0, "cannot add a shape while the space is locked")

	space.shapeIDCounter++
	shape.hashid = space.shapeIDCounter
	shape.space = space

	shape.body.AddShape(shape)
	shape.CacheBB()

	if shape.body.Type == BODY_STATIC {
		space.staticShapes.Insert(shape, shape.hashid)
	} else {
		space.dynamicShapes.Insert(shape, shape.hashid)
		shape.body.AccumulateMassFromShapes()
	}
	return shape
}

func (space *Space) RemoveShape(shape *Shape) {
	assertHard(space.locked == 0, "cannot remove a shape while the space is locked")

	if shape.body.Type == BODY_STATIC {
		space.staticShapes.Remove(shape, shape.hashid)
	} else {
		space.dynamicShapes.Remove(shape, shape.hashid)
	}
	shape.body.RemoveShape(shape)
	space.cachedArbiters.Filter(func(arb *Arbiter) bool {
		if arb.shapeA == shape || arb.shapeB == shape {
			arb.Unthread()
			return false
		}
		return true
	})
	shape.space = nil
}

// AddConstraint threads constraint onto both bodies' constraint lists.
func (space *Space) AddConstraint(constraint *Constraint) *Constraint {
	assertHard(space.locked == 0, "cannot add a constraint while the space is locked")

	a, b := constraint.a, constraint.b
	constraint.nextA = a.constraintList
	a.constraintList = constraint
	constraint.nextB = b.constraintList
	b.constraintList = constraint

	space.constraints = append(space.constraints, constraint)
	return constraint
}

func (space *Space) RemoveConstraint(constraint *Constraint) {
	assertHard(space.locked == 0, "cannot remove a constraint while the space is locked")

	constraint.a.RemoveConstraint(constraint)
	constraint.b.RemoveConstraint(constraint)
	for i, c := range space.constraints {
		if c == constraint {
			space.constraints = append(space.constraints[:i], space.constraints[i+1:]...)
			break
		}
	}
}

// activateBody wakes a dynamic body's whole component through Activate or,
// while the space is locked, queues the body on rousedBodies; Unlock calls
// it again for each queued body.
func (space *Space) activateBody(body *Body) {
	if body.Type != BODY_DYNAMIC {
		return
	}
	if space.locked != 0 {
		space.rousedBodies = append(space.rousedBodies, body)
		return
	}
	space.Activate(body)
}

// LookupHandler returns the effective handler for the type pair, composed
// from the specific and wildcard handlers as described on lookupHandler.
// It registers nothing.
func (space *Space) LookupHandler(typeA, typeB uint) *CollisionHandler {
	return space.lookupHandler(typeA, typeB)
}

// NewCollisionHandler registers (or replaces) the handler for an ordered
// type pair on this space.
func (space *Space) NewCollisionHandler(typeA, typeB uint) *CollisionHandler {
	h := NewCollisionHandler(typeA, typeB)
	space.collisionHandlers.Insert(h)
	return h
}

// NewWildcardCollisionHandler registers a handler matching typ against any
// other type, and flips the space into wildcard-aware handler lookup.
func (space *Space) NewWildcardCollisionHandler(typ uint) *CollisionHandler {
	h := NewWildcardCollisionHandler(typ)
	space.collisionHandlers.Insert(h)
	space.usesWildcards = true
	return h
}

// UseWildcardDefaultHandler installs the handler returned for any type
// pair that has no specific or wildcard handler registered.
func (space *Space) UseWildcardDefaultHandler() {
	space.usesWildcards = true
	space.defaultHandler = NewCollisionHandler(0, 0)
}

func (space *Space) EachBody(f func(body *Body)) {
	space.Lock()
	for _, b := range space.dynamicBodies {
		f(b)
	}
	for _, b := range space.staticBodies {
		f(b)
	}
	space.Unlock(true)
}

func (space *Space) EachShape(f func(shape *Shape)) {
	space.Lock()
	space.dynamicShapes.Each(f)
	space.staticShapes.Each(f)
	space.Unlock(true)
}

func (space *Space) EachConstraint(f func(c *Constraint)) {
	space.Lock()
	for _, c := range space.constraints {
		f(c)
	}
	space.Unlock(true)
}

// collideShapes runs narrow-phase on a candidate pair surfaced by the
// broadphase, creating or refreshing the pair's persistent Arbiter and
// invoking the appropriate handler's Begin/PreSolve for this step.
func (space *Space) collideShapes(a, b *Shape) {
	if a == b || a.body == b.body || a.Filter.Reject(b.Filter) {
		return
	}
	if pe := a.body.ParentEntity; pe != nil && pe == b.body.ParentEntity {
		return
	}
	if a.kind > b.kind {
		a, b = b, a
	}

	info := Collide(a, b)
	if info.Count == 0 {
		return
	}

	handler := space.lookupHandler(a.Type, b.Type)

	arb := space.cachedArbiters.Find(a, b)
	firstCollision := arb == nil
	if firstCollision {
		arb = newArbiter(a, b)
		space.cachedArbiters.Insert(arb)
		a.body.PushArbiter(arb)
		b.body.PushArbiter(arb)
	}

	arb.Update(info, handler, a, b)

	if firstCollision && !handler.Begin(arb, space) {
		arb.Ignore()
	}

	if arb.state != arbiterStateIgnore && !handler.PreSolve(arb, space) {
		arb.Ignore()
	}

	if arb.state != arbiterStateIgnore {
		space.arbiters = append(space.arbiters, arb)
	}

	arb.stamp = space.stamp
	// Only wake bodies that are actually asleep — waking on every touching
	// pair would reset sleepingIdleTime on awake contacting bodies every
	// step and they'd never accumulate toward sleep.
	if a.body.IsSleeping() {
		a.body.Activate()
	}
	if b.body.IsSleeping() {
		b.body.Activate()
	}
}

// arbiterAsleep reports whether either side of arb is currently sleeping,
// so the solver passes below can leave it untouched rather than feeding it
// velocity changes while the rest of its component is at rest.
func arbiterAsleep(arb *Arbiter) bool {
	return arb.bodyA.IsSleeping() || arb.bodyB.IsSleeping()
}

func constraintAsleep(c *Constraint) bool {
	return c.a.IsSleeping() || c.b.IsSleeping()
}

// broadphase walks the dynamic partition against both itself and the
// static partition, handing every overlapping pair to collideShapes.
func (space *Space) broadphase() {
	space.dynamicShapes.Each(func(s *Shape) {
		s.CacheBB()
		space.dynamicShapes.ReindexObject(s, s.hashid)
	})

	space.dynamicShapes.ReindexQuery(func(a, b *Shape) {
		space.collideShapes(a, b)
	})

	space.dynamicShapes.Each(func(dyn *Shape) {
		space.staticShapes.Query(dyn.BB(), func(st *Shape) {
			space.collideShapes(dyn, st)
		})
	})
}

// expireCachedArbiters drops cached arbiters that have gone unrefreshed
// for longer than collisionPersistence steps, firing Separate for any that
// were still Normal (i.e. touching) when they dropped out of this step's
// broadphase.
func (space *Space) expireCachedArbiters() {
	space.cachedArbiters.Filter(func(arb *Arbiter) bool {
		if space.stamp-arb.stamp <= space.collisionPersistence {
			return true
		}
		if arb.state == arbiterStateNormal || arb.state == arbiterStateFirstCollision {
			arb.handler.Separate(arb, space)
		}
		arb.Unthread()
		return false
	})
}

// Step advances the simulation by dt: broadphase + narrow phase to refresh
// arbiters, PreStep for every arbiter/constraint, warm-started sequential
// impulse solving, position integration, sleeping, and post-step callback
// drain, in that order.
func (space *Space) Step(dt float64) {
	if dt == 0 {
		return
	}

	space.stamp++

	prevDt := space.currDt
	space.currDt = dt

	space.Lock()

	space.arbiters = space.arbiters[:0]
	space.broadphase()

	for _, arb := range space.arbiters {
		arb.state = arbiterStateNormal
	}

	biasCoef := 1 - math.Pow(space.collisionBias, dt)
	for _, arb := range space.arbiters {
		if arbiterAsleep(arb) {
			continue
		}
		arb.PreStep(dt, space.collisionSlop, biasCoef)
	}
	for _, c := range space.constraints {
		if constraintAsleep(c) {
			continue
		}
		c.preStep(dt)
	}

	dtCoef := 0.0
	if prevDt != 0 {
		dtCoef = dt / prevDt
	}
	for _, arb := range space.arbiters {
		if arbiterAsleep(arb) {
			continue
		}
		arb.ApplyCachedImpulse(dtCoef)
	}
	for _, c := range space.constraints {
		if constraintAsleep(c) {
			continue
		}
		c.applyCachedImpulse(dtCoef)
	}

	gravity := space.gravity
	damping := math.Pow(space.damping, dt)
	for _, b := range space.dynamicBodies {
		if !b.IsSleeping() {
			b.UpdateVelocity(gravity, damping, damping, dt)
		}
	}

	for _, c := range space.constraints {
		if c.PreSolve != nil {
			c.PreSolve(c, space)
		}
	}

	for i := 0; i < space.Iterations; i++ {
		for _, arb := range space.arbiters {
			if arbiterAsleep(arb) {
				continue
			}
			arb.ApplyImpulse()
		}
		for _, c := range space.constraints {
			if constraintAsleep(c) {
				continue
			}
			c.applyImpulse(dt)
		}
	}

	for _, c := range space.constraints {
		if c.PostSolve != nil {
			c.PostSolve(c, space)
		}
	}

	for _, arb := range space.arbiters {
		arb.handler.PostSolve(arb, space)
		recordImpact(arb, space.stamp)
	}

	for _, b := range space.dynamicBodies {
		if !b.IsSleeping() {
			b.UpdatePosition(dt)
		}
	}

	space.expireCachedArbiters()
	space.processComponents(dt)

	space.Unlock(true)
}
