package physics

// impactBlend is the weight given to a new hit against a body's existing,
// not-yet-read Impact record when more than one collision lands on the
// same body within a single step. 0.5 means repeated light taps read
// similarly to one proportionally harder hit, rather than the last one
// silently overwriting the rest.
const impactBlend = 0.5

// recordImpact folds one solved arbiter's contribution into both bodies'
// Impact scratch records. Called once per arbiter after the solver has
// finished accumulating impulses for the step: Size sums the post-solve
// JnAcc, while Bounce/BounceRigid sum the restitution terms PreStep set.
func recordImpact(arb *Arbiter, stamp uint) {
	if arb.state == arbiterStateIgnore || arb.count == 0 {
		return
	}

	a, b := arb.bodyA, arb.bodyB
	n := arb.normal

	var sum, bounce, bounceRigid float64
	for i := 0; i < arb.count; i++ {
		c := &arb.contacts[i]
		sum += c.JnAcc
		bounce += c.Bounce
		if a.Type == BODY_DYNAMIC && b.Type == BODY_DYNAMIC {
			bounceRigid += c.Bounce
		}
	}

	ke := a.KineticEnergy() + b.KineticEnergy()
	p := arb.contacts[0].R1.Add(a.transform.Point(a.cog))

	applyImpact(a, p, n.Neg(), ke, sum, bounce, bounceRigid, b, stamp)
	applyImpact(b, p, n, ke, sum, bounce, bounceRigid, a, stamp)
}

func applyImpact(body *Body, p, n Vector, ke, size, bounce, bounceRigid float64, other *Body, stamp uint) {
	if body.Type != BODY_DYNAMIC {
		return
	}

	imp := &body.impact
	if imp.Dirty && imp.Stamp == stamp {
		imp.P = imp.P.Lerp(p, impactBlend)
		imp.N = imp.N.Lerp(n, impactBlend)
		imp.Size = imp.Size*(1-impactBlend) + size*impactBlend
		imp.KE = imp.KE*(1-impactBlend) + ke*impactBlend
		imp.Bounce = imp.Bounce*(1-impactBlend) + bounce*impactBlend
		imp.BounceRigid = imp.BounceRigid*(1-impactBlend) + bounceRigid*impactBlend
		imp.Count++
	} else {
		imp.P, imp.N = p, n
		imp.Size, imp.KE = size, ke
		imp.Bounce, imp.BounceRigid = bounce, bounceRigid
		imp.Count = 1
	}

	imp.Stamp = stamp
	imp.Dirty = true
	imp.BodyTypeA, imp.BodyTypeB = body.Type, other.Type
}

// Impact returns the body's aggregated impact record for the step that
// just ran, and clears its dirty flag — a body with no collisions this
// step returns a zero-Count record.
func (b *Body) Impact() Impact {
	imp := b.impact
	b.impact.Dirty = false
	b.impact.Count = 0
	if b.space != nil && imp.Stamp != b.space.stamp {
		return Impact{}
	}
	return imp
}
