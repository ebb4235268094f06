package physics

import "math"

// --- PinJoint: keeps the distance between two anchor points fixed. ---

type pinJoint struct {
	anchorA, anchorB Vector
	dist             float64

	r1, r2 Vector
	n      Vector
	nMass  float64

	jnAcc, bias float64
}

// NewPinJoint rigidly separates anchorA (in a's frame) from anchorB (in
// b's frame) by their current distance.
func NewPinJoint(a, b *Body, anchorA, anchorB Vector) *Constraint {
	pa := a.LocalToWorld(anchorA)
	pb := b.LocalToWorld(anchorB)
	pj := &pinJoint{anchorA: anchorA, anchorB: anchorB, dist: pa.Dist(pb)}
	return newConstraint(pj, a, b)
}

func (j *pinJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	j.r1 = a.transform.Vect(j.anchorA.Sub(a.cog))
	j.r2 = b.transform.Vect(j.anchorB.Sub(b.cog))

	delta := b.transform.Point(j.anchorB).Sub(a.transform.Point(j.anchorA))
	dist := delta.Length()
	if dist > 1e-9 {
		j.n = delta.Mult(1 / dist)
	} else {
		j.n = Vector{1, 0}
	}

	j.nMass = effectiveMassScalar(a, b, j.r1, j.r2, j.n)

	coef := biasCoefClamped(c.errorBias, dt)
	j.bias = clampf(-coef*(dist-j.dist)/dt, -c.maxBias, c.maxBias)
}

func (j *pinJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	impulse := j.n.Mult(j.jnAcc * dtCoef)
	c.a.applyImpulse(impulse.Neg(), j.r1)
	c.b.applyImpulse(impulse, j.r2)
}

func (j *pinJoint) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	vr := relativeVelocityAt(a, b, j.r1, j.r2)
	vrn := vr.Dot(j.n)

	jn := (j.bias - vrn) * j.nMass
	jnOld := j.jnAcc
	j.jnAcc = clampf(jnOld+jn, -c.maxForce*dt, c.maxForce*dt)
	jn = j.jnAcc - jnOld

	impulse := j.n.Mult(jn)
	a.applyImpulse(impulse.Neg(), j.r1)
	b.applyImpulse(impulse, j.r2)
}

func (j *pinJoint) GetImpulse(c *Constraint) float64 { return math.Abs(j.jnAcc) }

// --- SlideJoint: like PinJoint, but the distance may range over [min, max]. ---

type slideJoint struct {
	anchorA, anchorB Vector
	min, max         float64

	r1, r2 Vector
	n      Vector
	nMass  float64

	jnAcc, bias float64
}

// NewSlideJoint keeps the anchors' separation within [min, max].
func NewSlideJoint(a, b *Body, anchorA, anchorB Vector, min, max float64) *Constraint {
	sj := &slideJoint{anchorA: anchorA, anchorB: anchorB, min: min, max: max}
	return newConstraint(sj, a, b)
}

func (j *slideJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	j.r1 = a.transform.Vect(j.anchorA.Sub(a.cog))
	j.r2 = b.transform.Vect(j.anchorB.Sub(b.cog))

	delta := b.transform.Point(j.anchorB).Sub(a.transform.Point(j.anchorA))
	dist := delta.Length()

	var clamped float64
	flip := false
	switch {
	case dist < j.min:
		clamped = dist - j.min
		flip = true
	case dist > j.max:
		clamped = j.max - dist
	default:
		j.nMass = 0
		j.jnAcc = 0
		return
	}

	if dist > 1e-9 {
		j.n = delta.Mult(1 / dist)
	} else {
		j.n = Vector{0, 0}
	}
	if flip {
		j.n = j.n.Neg()
	}

	j.nMass = effectiveMassScalar(a, b, j.r1, j.r2, j.n)

	coef := biasCoefClamped(c.errorBias, dt)
	j.bias = clampf(coef*clamped/dt, -c.maxBias, c.maxBias)
}

func (j *slideJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	if j.nMass == 0 {
		return
	}
	impulse := j.n.Mult(j.jnAcc * dtCoef)
	c.a.applyImpulse(impulse.Neg(), j.r1)
	c.b.applyImpulse(impulse, j.r2)
}

func (j *slideJoint) ApplyImpulse(c *Constraint, dt float64) {
	if j.nMass == 0 {
		return
	}
	a, b := c.a, c.b
	vr := relativeVelocityAt(a, b, j.r1, j.r2)
	vrn := vr.Dot(j.n)

	jn := (j.bias - vrn) * j.nMass
	jnOld := j.jnAcc
	j.jnAcc = clampf(jnOld+jn, -c.maxForce*dt, 0)
	jn = j.jnAcc - jnOld

	impulse := j.n.Mult(jn)
	a.applyImpulse(impulse.Neg(), j.r1)
	b.applyImpulse(impulse, j.r2)
}

func (j *slideJoint) GetImpulse(c *Constraint) float64 { return math.Abs(j.jnAcc) }

// --- PivotJoint: forces two anchor points to coincide (a hinge). ---

type pivotJoint struct {
	anchorA, anchorB Vector

	r1, r2 Vector
	kInv   Mat2x2
	bias   Vector
	jAcc   Vector
}

// NewPivotJoint hinges a and b at the single world point pivot.
func NewPivotJoint(a, b *Body, pivot Vector) *Constraint {
	pj := &pivotJoint{
		anchorA: a.WorldToLocal(pivot),
		anchorB: b.WorldToLocal(pivot),
	}
	return newConstraint(pj, a, b)
}

func (j *pivotJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	j.r1 = a.transform.Vect(j.anchorA.Sub(a.cog))
	j.r2 = b.transform.Vect(j.anchorB.Sub(b.cog))

	j.kInv = kTensor(a, b, j.r1, j.r2)

	delta := b.transform.Point(j.anchorB).Sub(a.transform.Point(j.anchorA))
	coef := biasCoefClamped(c.errorBias, dt)
	bias := delta.Mult(-coef / dt)
	j.bias = Vector{clampf(bias.X, -c.maxBias, c.maxBias), clampf(bias.Y, -c.maxBias, c.maxBias)}
}

func (j *pivotJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	impulse := j.jAcc.Mult(dtCoef)
	c.a.applyImpulse(impulse.Neg(), j.r1)
	c.b.applyImpulse(impulse, j.r2)
}

func (j *pivotJoint) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	vr := relativeVelocityAt(a, b, j.r1, j.r2)

	impulse := j.kInv.Transform(j.bias.Sub(vr))
	maxImpulse := c.maxForce * dt
	if impulse.Length() > maxImpulse && impulse.Length() > 0 {
		impulse = impulse.Mult(maxImpulse / impulse.Length())
	}

	j.jAcc = j.jAcc.Add(impulse)
	a.applyImpulse(impulse.Neg(), j.r1)
	b.applyImpulse(impulse, j.r2)
}

func (j *pivotJoint) GetImpulse(c *Constraint) float64 { return j.jAcc.Length() }

// --- GrooveJoint: anchor on b must lie on the segment [grooveA, grooveB] (a's frame). ---

type grooveJoint struct {
	grooveA, grooveB Vector
	anchorB          Vector

	grooveN Vector
	r1, r2  Vector
	kInv    Mat2x2
	bias    Vector
	jAcc    Vector
}

// NewGrooveJoint keeps b's anchorB on the line segment from grooveA to
// grooveB, both given in a's local frame.
func NewGrooveJoint(a, b *Body, grooveA, grooveB, anchorB Vector) *Constraint {
	gj := &grooveJoint{grooveA: grooveA, grooveB: grooveB, anchorB: anchorB}
	return newConstraint(gj, a, b)
}

func (j *grooveJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b

	grooveA := a.transform.Point(j.grooveA)
	grooveB := a.transform.Point(j.grooveB)
	dBody := grooveB.Sub(grooveA)
	j.grooveN = dBody.Perp().Normalize()

	anchorWorld := b.transform.Point(j.anchorB)
	clamped := clamp01(dBody.Dot(anchorWorld.Sub(grooveA)) / math.Max(dBody.LengthSq(), 1e-9))
	pGroove := grooveA.Add(dBody.Mult(clamped))

	j.r1 = pGroove.Sub(a.transform.Point(a.cog))
	j.r2 = b.transform.Vect(j.anchorB.Sub(b.cog))

	j.kInv = kTensor(a, b, j.r1, j.r2)

	delta := anchorWorld.Sub(pGroove)
	coef := biasCoefClamped(c.errorBias, dt)
	bias := delta.Mult(-coef / dt)
	j.bias = Vector{clampf(bias.X, -c.maxBias, c.maxBias), clampf(bias.Y, -c.maxBias, c.maxBias)}
}

func (j *grooveJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	impulse := j.jAcc.Mult(dtCoef)
	c.a.applyImpulse(impulse.Neg(), j.r1)
	c.b.applyImpulse(impulse, j.r2)
}

func (j *grooveJoint) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	vr := relativeVelocityAt(a, b, j.r1, j.r2)

	impulse := j.kInv.Transform(j.bias.Sub(vr))
	// Only resist motion perpendicular to the groove; sliding along it is free.
	impulse = j.grooveN.Mult(impulse.Dot(j.grooveN))

	maxImpulse := c.maxForce * dt
	if impulse.Length() > maxImpulse && impulse.Length() > 0 {
		impulse = impulse.Mult(maxImpulse / impulse.Length())
	}

	j.jAcc = j.jAcc.Add(impulse)
	a.applyImpulse(impulse.Neg(), j.r1)
	b.applyImpulse(impulse, j.r2)
}

func (j *grooveJoint) GetImpulse(c *Constraint) float64 { return j.jAcc.Length() }

// --- DampedSpring: a linear spring-damper between two anchor points. ---

type dampedSpring struct {
	anchorA, anchorB   Vector
	restLength         float64
	stiffness, damping float64

	r1, r2 Vector
	n      Vector
	nMass  float64

	fAcc float64
}

// NewDampedSpring connects anchorA (a's frame) to anchorB (b's frame) with
// a spring of natural length restLength, the given stiffness and damping.
func NewDampedSpring(a, b *Body, anchorA, anchorB Vector, restLength, stiffness, damping float64) *Constraint {
	ds := &dampedSpring{anchorA: anchorA, anchorB: anchorB, restLength: restLength, stiffness: stiffness, damping: damping}
	return newConstraint(ds, a, b)
}

func (j *dampedSpring) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	j.r1 = a.transform.Vect(j.anchorA.Sub(a.cog))
	j.r2 = b.transform.Vect(j.anchorB.Sub(b.cog))

	delta := b.transform.Point(j.anchorB).Sub(a.transform.Point(j.anchorA))
	dist := delta.Length()
	if dist > 1e-9 {
		j.n = delta.Mult(1 / dist)
	} else {
		j.n = Vector{0, 1}
	}

	j.nMass = effectiveMassScalar(a, b, j.r1, j.r2, j.n)

	// Explicit spring/damper: the force is computed from this step's
	// stretch and relative velocity and applied once in PreStep rather than
	// solved as an accumulated impulse — it acts continuously, not like a
	// contact.
	springF := (dist - j.restLength) * j.stiffness
	vrn := relativeVelocityAt(a, b, j.r1, j.r2).Dot(j.n)
	dampF := vrn * j.damping

	f := springF + dampF
	j.fAcc = f

	impulse := j.n.Mult(f * dt)
	a.applyImpulse(impulse, j.r1)
	b.applyImpulse(impulse.Neg(), j.r2)
}

func (j *dampedSpring) ApplyCachedImpulse(c *Constraint, dtCoef float64) {}
func (j *dampedSpring) ApplyImpulse(c *Constraint, dt float64)          {}
func (j *dampedSpring) GetImpulse(c *Constraint) float64                { return math.Abs(j.fAcc) }

// --- DampedRotarySpring: a torsional spring-damper on the relative angle. ---

type dampedRotarySpring struct {
	restAngle          float64
	stiffness, damping float64

	tAcc float64
}

func NewDampedRotarySpring(a, b *Body, restAngle, stiffness, damping float64) *Constraint {
	drs := &dampedRotarySpring{restAngle: restAngle, stiffness: stiffness, damping: damping}
	return newConstraint(drs, a, b)
}

func (j *dampedRotarySpring) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	relAngle := b.a - a.a
	t := (relAngle - j.restAngle) * j.stiffness
	t += (b.w - a.w) * j.damping
	j.tAcc = t

	a.t += t
	b.t -= t
}

func (j *dampedRotarySpring) ApplyCachedImpulse(c *Constraint, dtCoef float64) {}
func (j *dampedRotarySpring) ApplyImpulse(c *Constraint, dt float64)          {}
func (j *dampedRotarySpring) GetImpulse(c *Constraint) float64                { return math.Abs(j.tAcc) }

// --- RotaryLimitJoint: clamps the relative angle of two bodies to [min, max]. ---

type rotaryLimitJoint struct {
	min, max float64

	iSum  float64
	bias  float64
	jAcc  float64
	state int // -1 below min, 0 within range, 1 above max
}

func NewRotaryLimitJoint(a, b *Body, min, max float64) *Constraint {
	rl := &rotaryLimitJoint{min: min, max: max}
	return newConstraint(rl, a, b)
}

func (j *rotaryLimitJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	relAngle := b.a - a.a

	var overlap float64
	switch {
	case relAngle < j.min:
		j.state = -1
		overlap = j.min - relAngle
	case relAngle > j.max:
		j.state = 1
		overlap = j.max - relAngle
	default:
		j.state = 0
		j.jAcc = 0
		return
	}

	j.iSum = 1 / kScalar(a, b)
	coef := biasCoefClamped(c.errorBias, dt)
	j.bias = clampf(coef*overlap/dt, -c.maxBias, c.maxBias)
}

func (j *rotaryLimitJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	if j.state == 0 {
		return
	}
	t := j.jAcc * dtCoef
	c.a.w -= t * c.a.iInv
	c.b.w += t * c.b.iInv
}

func (j *rotaryLimitJoint) ApplyImpulse(c *Constraint, dt float64) {
	if j.state == 0 {
		return
	}
	a, b := c.a, c.b
	wr := b.w - a.w

	t := (j.bias - wr) * j.iSum
	jOld := j.jAcc
	if j.state == -1 {
		j.jAcc = clampf(jOld+t, 0, c.maxForce*dt)
	} else {
		j.jAcc = clampf(jOld+t, -c.maxForce*dt, 0)
	}
	t = j.jAcc - jOld

	a.w -= t * a.iInv
	b.w += t * b.iInv
}

func (j *rotaryLimitJoint) GetImpulse(c *Constraint) float64 { return math.Abs(j.jAcc) }

// --- RatchetJoint: a rotary ratchet that only turns forward in steps of `ratchet`. ---

type ratchetJoint struct {
	angle, phase, ratchet float64

	iSum float64
	bias float64
	jAcc float64
}

func NewRatchetJoint(a, b *Body, phase, ratchet float64) *Constraint {
	rj := &ratchetJoint{phase: phase, ratchet: ratchet, angle: b.a - a.a}
	return newConstraint(rj, a, b)
}

func (j *ratchetJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	angle := b.a - a.a
	phase := math.Floor((angle-j.phase)/j.ratchet) * j.ratchet
	ratchet := math.Max(phase, j.angle) + j.phase - angle

	j.iSum = 1 / kScalar(a, b)
	coef := biasCoefClamped(c.errorBias, dt)
	j.bias = clampf(coef*ratchet/dt, -c.maxBias, c.maxBias)
	j.angle = angle
}

func (j *ratchetJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	t := j.jAcc * dtCoef
	c.a.w -= t * c.a.iInv
	c.b.w += t * c.b.iInv
}

func (j *ratchetJoint) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	wr := b.w - a.w

	ratchet := j.bias
	t := (ratchet - wr) * j.iSum
	jOld := j.jAcc
	var lo, hi float64
	if ratchet > 0 {
		lo, hi = 0, c.maxForce*dt
	} else {
		lo, hi = -c.maxForce*dt, 0
	}
	j.jAcc = clampf(jOld+t, lo, hi)
	t = j.jAcc - jOld

	a.w -= t * a.iInv
	b.w += t * b.iInv
}

func (j *ratchetJoint) GetImpulse(c *Constraint) float64 { return math.Abs(j.jAcc) }

// --- GearJoint: locks the angular velocity ratio between two bodies. ---

type gearJoint struct {
	phase, ratio    float64
	ratioInv        float64

	iSum float64
	bias float64
	jAcc float64
}

func NewGearJoint(a, b *Body, phase, ratio float64) *Constraint {
	gj := &gearJoint{phase: phase, ratio: ratio, ratioInv: 1 / ratio}
	return newConstraint(gj, a, b)
}

func (j *gearJoint) PreStep(c *Constraint, dt float64) {
	a, b := c.a, c.b
	j.iSum = 1 / (a.iInv*j.ratioInv + j.ratio*b.iInv)

	coef := biasCoefClamped(c.errorBias, dt)
	overlap := b.a*j.ratio - a.a - j.phase
	j.bias = clampf(-coef*overlap/dt, -c.maxBias, c.maxBias)
}

func (j *gearJoint) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	t := j.jAcc * dtCoef
	c.a.w -= t * c.a.iInv * j.ratioInv
	c.b.w += t * c.b.iInv
}

func (j *gearJoint) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	wr := b.w*j.ratio - a.w

	t := (j.bias - wr) * j.iSum
	jOld := j.jAcc
	j.jAcc = clampf(jOld+t, -c.maxForce*dt, c.maxForce*dt)
	t = j.jAcc - jOld

	a.w -= t * a.iInv * j.ratioInv
	b.w += t * b.iInv
}

func (j *gearJoint) GetImpulse(c *Constraint) float64 { return math.Abs(j.jAcc) }

// --- SimpleMotor: drives a constant relative angular velocity. ---

type simpleMotor struct {
	rate float64

	iSum float64
	jAcc float64
}

func NewSimpleMotor(a, b *Body, rate float64) *Constraint {
	sm := &simpleMotor{rate: rate}
	return newConstraint(sm, a, b)
}

func (j *simpleMotor) PreStep(c *Constraint, dt float64) {
	j.iSum = 1 / kScalar(c.a, c.b)
}

func (j *simpleMotor) ApplyCachedImpulse(c *Constraint, dtCoef float64) {
	t := j.jAcc * dtCoef
	c.a.w -= t * c.a.iInv
	c.b.w += t * c.b.iInv
}

func (j *simpleMotor) ApplyImpulse(c *Constraint, dt float64) {
	a, b := c.a, c.b
	wr := b.w - a.w - j.rate

	t := -wr * j.iSum
	jOld := j.jAcc
	j.jAcc = clampf(jOld+t, -c.maxForce*dt, c.maxForce*dt)
	t = j.jAcc - jOld

	a.w -= t * a.iInv
	b.w += t * b.iInv
}

func (j *simpleMotor) GetImpulse(c *Constraint) float64 { return math.Abs(j.jAcc) }
