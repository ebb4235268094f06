package physics

import "math"

// contactPoint is one point of a CollisionInfo manifold, not yet promoted
// to a Contact (that happens in Arbiter.Update/PreStep once the point is
// matched against the previous step's warm-start state by Hash).
type contactPoint struct {
	Point Vector
	Depth float64
	Hash  HashValue
}

// CollisionInfo is the result of narrow-phase testing of one shape pair.
// Normal points from A to B. Count is 0 when the shapes do not overlap.
type CollisionInfo struct {
	A, B   *Shape
	Normal Vector
	Count  int
	Points [maxContactsPerArbiter]contactPoint
}

// Collide runs narrow-phase collision on the pair, normalizing shape order
// by Kind (circle < segment < poly) so only one function handles each
// unordered pair, and flips the result back to the caller's order.
func Collide(a, b *Shape) CollisionInfo {
	if a.kind > b.kind {
		info := Collide(b, a)
		info.A, info.B = info.B, info.A
		info.Normal = info.Normal.Neg()
		return info
	}

	switch {
	case a.kind == CircleShape && b.kind == CircleShape:
		return circleToCircle(a, b)
	case a.kind == CircleShape && b.kind == SegmentShape:
		return circleToSegmentInfo(a, b)
	case a.kind == CircleShape && b.kind == PolyShape:
		return circleToPoly(a, b)
	case a.kind == SegmentShape && b.kind == SegmentShape:
		return segmentToSegment(a, b)
	case a.kind == SegmentShape && b.kind == PolyShape:
		return segmentToPoly(a, b)
	case a.kind == PolyShape && b.kind == PolyShape:
		return polyToPoly(a, b)
	}
	return CollisionInfo{A: a, B: b}
}

func circleToCircle(a, b *Shape) CollisionInfo {
	info := CollisionInfo{A: a, B: b}
	delta := b.circle.tc.Sub(a.circle.tc)
	dsq := delta.LengthSq()
	rsum := a.circle.r + b.circle.r
	if dsq >= rsum*rsum {
		return info
	}

	d := math.Sqrt(dsq)
	var n Vector
	if d > 1e-9 {
		n = delta.Mult(1 / d)
	} else {
		n = Vector{0, 1}
	}
	info.Normal = n
	point := a.circle.tc.Lerp(b.circle.tc, a.circle.r/rsum)
	info.Count = 1
	info.Points[0] = contactPoint{Point: point, Depth: d - rsum, Hash: HashPair(a.hashid, b.hashid)}
	return info
}

func circleToSegmentInfo(circleShape, segShape *Shape) CollisionInfo {
	info := CollisionInfo{A: circleShape, B: segShape}
	seg := segShape.segment
	closest := closestPointOnSegment(circleShape.circle.tc, seg.ta, seg.tb)

	delta := circleShape.circle.tc.Sub(closest)
	dsq := delta.LengthSq()
	rsum := circleShape.circle.r + seg.r
	if dsq >= rsum*rsum {
		return info
	}

	d := math.Sqrt(dsq)
	var n Vector
	if d > 1e-9 {
		n = delta.Mult(-1 / d)
	} else {
		n = seg.tn
	}
	info.Normal = n
	point := closest.Sub(n.Mult(seg.r))
	info.Count = 1
	info.Points[0] = contactPoint{Point: point, Depth: d - rsum, Hash: HashPair(circleShape.hashid, segShape.hashid)}
	return info
}

func segmentToSegment(a, b *Shape) CollisionInfo {
	info := CollisionInfo{A: a, B: b}
	// Treat as two capsules: test the four endpoint-vs-segment distances
	// and keep the closest pair. A full segment/segment manifold (parallel
	// overlap producing two points) is not needed for the thin, mostly
	// static-geometry role segments play here.
	candidates := []struct{ p, q Vector }{
		{a.segment.ta, closestPointOnSegment(a.segment.ta, b.segment.ta, b.segment.tb)},
		{a.segment.tb, closestPointOnSegment(a.segment.tb, b.segment.ta, b.segment.tb)},
		{closestPointOnSegment(b.segment.ta, a.segment.ta, a.segment.tb), b.segment.ta},
		{closestPointOnSegment(b.segment.tb, a.segment.ta, a.segment.tb), b.segment.tb},
	}

	rsum := a.segment.r + b.segment.r
	bestDsq := math.Inf(1)
	var bestP, bestQ Vector
	for _, c := range candidates {
		dsq := c.p.DistSq(c.q)
		if dsq < bestDsq {
			bestDsq, bestP, bestQ = dsq, c.p, c.q
		}
	}
	// Crossing segments touch even though no endpoint is near the other
	// segment.
	da := a.segment.tb.Sub(a.segment.ta)
	db := b.segment.tb.Sub(b.segment.ta)
	if denom := da.Cross(db); denom != 0 {
		w := b.segment.ta.Sub(a.segment.ta)
		s, u := w.Cross(db)/denom, w.Cross(da)/denom
		if s >= 0 && s <= 1 && u >= 0 && u <= 1 {
			p := a.segment.ta.Add(da.Mult(s))
			bestDsq, bestP, bestQ = 0, p, p
		}
	}

	if bestDsq >= rsum*rsum {
		return info
	}
	d := math.Sqrt(bestDsq)
	var n Vector
	if d > 1e-9 {
		n = bestQ.Sub(bestP).Mult(1 / d)
	} else {
		n = a.segment.tn
	}
	info.Normal = n
	info.Count = 1
	info.Points[0] = contactPoint{Point: bestP.Lerp(bestQ, 0.5), Depth: d - rsum, Hash: HashPair(a.hashid, b.hashid)}
	return info
}

func circleToPoly(circleShape, polyShape *Shape) CollisionInfo {
	info := CollisionInfo{A: circleShape, B: polyShape}
	q := circleShape.circle.tc
	r := circleShape.circle.r + polyShape.poly.r

	planes := polyShape.poly.planes
	maxDist := math.Inf(-1)
	var closestPlane splittingPlane
	for _, pl := range planes {
		d := pl.n.Dot(q.Sub(pl.v0))
		if d > maxDist {
			maxDist, closestPlane = d, pl
		}
	}
	if maxDist >= r {
		return info
	}

	if maxDist < 0 {
		// center is inside the polygon: push out along the least-penetrating face
		n := closestPlane.n
		info.Normal = n.Neg()
		info.Count = 1
		info.Points[0] = contactPoint{Point: q.Sub(n.Mult(circleShape.circle.r)), Depth: maxDist - r, Hash: HashPair(circleShape.hashid, polyShape.hashid)}
		return info
	}

	closest := q.Sub(closestPlane.n.Mult(maxDist))
	if dist := q.Dist(closest); dist > 1e-9 && dist >= r {
		return info
	}

	n := q.Sub(closest)
	d := n.Length()
	if d > 1e-9 {
		n = n.Mult(1 / d)
	} else {
		n = closestPlane.n.Neg()
	}
	info.Normal = n.Neg()
	info.Count = 1
	info.Points[0] = contactPoint{Point: closest, Depth: d - r, Hash: HashPair(circleShape.hashid, polyShape.hashid)}
	return info
}

func segmentToPoly(segShape, polyShape *Shape) CollisionInfo {
	// Approximate the segment as a two-vertex, radius-inflated polygon and
	// reuse the poly/poly SAT+clip path.
	seg := segShape.segment
	segPlanes := []splittingPlane{
		{v0: seg.ta, n: seg.tn},
		{v0: seg.tb, n: seg.tn.Neg()},
	}
	return polyPolyCore(segShape, polyShape, segPlanes, seg.r, polyShape.poly.planes, polyShape.poly.r)
}

func polyToPoly(a, b *Shape) CollisionInfo {
	return polyPolyCore(a, b, a.poly.planes, a.poly.r, b.poly.planes, b.poly.r)
}

// polyPolyCore runs SAT between two convex, radius-inflated polygons given
// as world-space plane lists, then clips the incident edge against the
// reference face to produce up to two contact points. This is the same
// shallow-contact approach used by most 2D engines for poly/poly manifolds.
func polyPolyCore(a, b *Shape, aPlanes []splittingPlane, ar float64, bPlanes []splittingPlane, br float64) CollisionInfo {
	info := CollisionInfo{A: a, B: b}

	rsum := ar + br

	sepA, faceA := maxSeparation(aPlanes, bPlanes)
	if sepA >= rsum {
		return info
	}
	sepB, faceB := maxSeparation(bPlanes, aPlanes)
	if sepB >= rsum {
		return info
	}

	var ref, inc []splittingPlane
	var refIsA bool
	var refFace int
	if sepB > sepA+1e-6 {
		ref, inc, refFace, refIsA = bPlanes, aPlanes, faceB, false
	} else {
		ref, inc, refFace, refIsA = aPlanes, bPlanes, faceA, true
	}

	refPlane := ref[refFace]
	n := refPlane.n

	// Incident face: the one in inc most anti-parallel to the reference normal.
	incFace := 0
	minDot := math.Inf(1)
	for i, pl := range inc {
		d := pl.n.Dot(n)
		if d < minDot {
			minDot, incFace = d, i
		}
	}
	v1 := inc[incFace].v0
	v2 := inc[(incFace+1)%len(inc)].v0

	count := 0
	for _, v := range []Vector{v1, v2} {
		depth := n.Dot(v.Sub(refPlane.v0)) - rsum
		if depth < 0 && count < maxContactsPerArbiter {
			info.Points[count] = contactPoint{Point: v.Sub(n.Mult(depth / 2)), Depth: depth, Hash: HashPair(HashPair(a.hashid, b.hashid), HashValue(refFace*16+incFace*2+count))}
			count++
		}
	}
	if count == 0 {
		return info
	}

	info.Count = count
	if refIsA {
		info.Normal = n
	} else {
		info.Normal = n.Neg()
	}
	return info
}

// maxSeparation finds the plane of `planes` with the greatest separation
// from `other`'s vertices, i.e. the best separating axis originating on
// this shape's faces.
func maxSeparation(planes []splittingPlane, other []splittingPlane) (float64, int) {
	best := math.Inf(-1)
	bestIdx := 0
	for i, pl := range planes {
		minDist := math.Inf(1)
		for _, opl := range other {
			d := pl.n.Dot(opl.v0.Sub(pl.v0))
			if d < minDist {
				minDist = d
			}
		}
		if minDist > best {
			best, bestIdx = minDist, i
		}
	}
	return best, bestIdx
}
