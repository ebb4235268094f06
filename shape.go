package physics

import "math"

// ShapeKind is the tag of a Shape's geometry union. Per REDESIGN FLAGS item
// 2, concrete shape variants are a tagged sum dispatched through a switch in
// each operation, rather than a function-pointer vtable.
type ShapeKind int

const (
	CircleShape ShapeKind = iota
	SegmentShape
	PolyShape
)

// MassInfo is a shape's contribution to its body's mass properties.
type MassInfo struct {
	M, I   float64
	Cog    Vector
	Area   float64
}

// PointQueryInfo is the result of querying the nearest point on a shape to
// a query point. Distance is negative when the point is inside the shape.
type PointQueryInfo struct {
	Shape    *Shape
	Point    Vector
	Distance float64
	Gradient Vector
}

// SegmentQueryInfo is the result of a ray cast against a single shape.
type SegmentQueryInfo struct {
	Shape  *Shape
	Point  Vector
	Normal Vector
	Alpha  float64
}

// circleGeometry is the CircleShape payload.
type circleGeometry struct {
	c, tc Vector // untransformed / cached transformed center
	r     float64
}

// segmentGeometry is the SegmentShape payload.
type segmentGeometry struct {
	a, b, n    Vector
	ta, tb, tn Vector
	r          float64
}

// splittingPlane is one edge of a convex polygon, in plane form v0/n.
type splittingPlane struct {
	v0, n Vector
}

// polyGeometry is the PolyShape payload. planes holds one plane per edge:
// body-local after construction, replaced by world-space planes in
// CacheData.
type polyGeometry struct {
	r      float64
	verts  []Vector // untransformed, CCW winding
	planes []splittingPlane
}

// Shape is convex geometry attached to a Body, used for collision and
// queries. Lifecycle: created detached; AddShape on a Space attaches it to
// its body's shape list and inserts it into the owning partition.
type Shape struct {
	kind ShapeKind

	circle  circleGeometry
	segment segmentGeometry
	poly    polyGeometry

	space *Space
	body  *Body

	massInfo MassInfo
	density  float64
	bb       BB

	sensor bool

	e, u    float64
	surfaceV Vector

	UserData interface{}

	Type   uint
	Filter ShapeFilter

	hashid HashValue

	// intrusive list links for Body.shapeList
	next, prev *Shape
}

func newShape(kind ShapeKind) *Shape {
	return &Shape{
		kind:   kind,
		e:      0,
		u:      0,
		Filter: ShapeFilterAll,
	}
}

// NewCircleShape creates a detached circle shape, offset from the owning
// body's origin by c, with radius r, at unit density.
func NewCircleShape(body *Body, r float64, c Vector) *Shape {
	s := newShape(CircleShape)
	s.circle = circleGeometry{c: c, r: r}
	s.body = body
	s.density = 1
	s.recomputeMassInfo()
	return s
}

// NewSegmentShape creates a detached rounded segment shape from a to b with
// thickness r, at unit density.
func NewSegmentShape(body *Body, a, b Vector, r float64) *Shape {
	s := newShape(SegmentShape)
	n := b.Sub(a).Perp().Normalize()
	s.segment = segmentGeometry{a: a, b: b, n: n, r: r}
	s.body = body
	s.density = 1
	s.recomputeMassInfo()
	return s
}

// NewPolyShape creates a detached convex polygon from verts (any winding;
// normalized to CCW) inflated by radius r, at unit density.
func NewPolyShape(body *Body, verts []Vector, r float64) *Shape {
	s := newShape(PolyShape)
	hull := convexHull(verts)
	s.poly = polyGeometry{r: r, verts: hull, planes: polyPlanes(hull)}
	s.body = body
	s.density = 1
	s.recomputeMassInfo()
	return s
}

// recomputeMassInfo rebuilds massInfo from the shape's current geometry and
// density. Density scales mass and moment linearly; Area is geometry-only.
func (s *Shape) recomputeMassInfo() {
	switch s.kind {
	case CircleShape:
		unit := CircleMassInfo(1, 0, s.circle.r, s.circle.c)
		s.massInfo = CircleMassInfo(s.density*unit.Area, 0, s.circle.r, s.circle.c)
	case SegmentShape:
		unit := SegmentMassInfo(1, s.segment.r, s.segment.a, s.segment.b, s.segment.r)
		s.massInfo = SegmentMassInfo(s.density*unit.Area, s.segment.r, s.segment.a, s.segment.b, s.segment.r)
	case PolyShape:
		unit := PolyMassInfo(1, s.poly.verts, s.poly.r, VectorZero())
		s.massInfo = PolyMassInfo(s.density*unit.Area, s.poly.verts, s.poly.r, VectorZero())
	}
}

// Density returns the shape's current density.
func (s *Shape) Density() float64 { return s.density }

// SetDensity rescales the shape's mass info and, if it is already attached
// to a dynamic body, re-accumulates that body's total mass.
func (s *Shape) SetDensity(density float64) {
	s.density = density
	s.recomputeMassInfo()
	if s.body != nil && s.body.Type == BODY_DYNAMIC {
		s.body.AccumulateMassFromShapes()
	}
}

// Mass returns this shape's contribution to its body's mass.
func (s *Shape) Mass() float64 { return s.massInfo.M }

// SetMass directly overrides the shape's mass contribution (and rescales
// its moment proportionally), bypassing density.
func (s *Shape) SetMass(mass float64) {
	if s.massInfo.M > 0 {
		s.massInfo.I *= mass / s.massInfo.M
	}
	s.massInfo.M = mass
	if s.body != nil && s.body.Type == BODY_DYNAMIC {
		s.body.AccumulateMassFromShapes()
	}
}

// NewBoxShape is a convenience constructor for an axis-aligned box centered
// on the body origin.
func NewBoxShape(body *Body, w, h, r float64) *Shape {
	hw, hh := w/2, h/2
	verts := []Vector{{-hw, -hh}, {-hw, hh}, {hw, hh}, {hw, -hh}}
	return NewPolyShape(body, verts, r)
}

func (s *Shape) Body() *Body { return s.body }
func (s *Shape) Space() *Space { return s.space }

func (s *Shape) SetSpace(space *Space) { s.space = space }
func (s *Shape) SetHashId(h HashValue) { s.hashid = h }
func (s *Shape) HashId() HashValue     { return s.hashid }

func (s *Shape) Sensor() bool      { return s.sensor }
func (s *Shape) SetSensor(v bool)  { s.sensor = v }

func (s *Shape) Elasticity() float64     { return s.e }
func (s *Shape) SetElasticity(v float64) { s.e = v }

func (s *Shape) Friction() float64     { return s.u }
func (s *Shape) SetFriction(v float64) { s.u = v }

func (s *Shape) SurfaceVelocity() Vector     { return s.surfaceV }
func (s *Shape) SetSurfaceVelocity(v Vector) { s.surfaceV = v }

func (s *Shape) MassInfo() MassInfo { return s.massInfo }

func (s *Shape) BB() BB { return s.bb }

func (s *Shape) Kind() ShapeKind { return s.kind }

// CacheData refreshes the shape's cached world-space geometry and returns
// its new AABB.
func (s *Shape) CacheData(transform Transform) BB {
	switch s.kind {
	case CircleShape:
		tc := transform.Point(s.circle.c)
		s.circle.tc = tc
		s.bb = NewBBForCircle(tc, s.circle.r)
	case SegmentShape:
		ta := transform.Point(s.segment.a)
		tb := transform.Point(s.segment.b)
		tn := transform.Vect(s.segment.n).Normalize()
		s.segment.ta, s.segment.tb, s.segment.tn = ta, tb, tn
		r := s.segment.r
		s.bb = BB{
			L: math.Min(ta.X, tb.X) - r,
			B: math.Min(ta.Y, tb.Y) - r,
			R: math.Max(ta.X, tb.X) + r,
			T: math.Max(ta.Y, tb.Y) + r,
		}
	case PolyShape:
		planes := make([]splittingPlane, len(s.poly.verts))
		bb := BB{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
		for i, v := range s.poly.verts {
			tv := transform.Point(v)
			bb = bb.MergeVect(tv)
			planes[i].v0 = tv
		}
		for i := range planes {
			next := planes[(i+1)%len(planes)].v0
			edge := next.Sub(planes[i].v0)
			planes[i].n = edge.RPerp().Normalize()
		}
		s.poly.planes = planes
		r := s.poly.r
		s.bb = BB{bb.L - r, bb.B - r, bb.R + r, bb.T + r}
	}
	return s.bb
}

func (s *Shape) Update(transform Transform) BB {
	return s.CacheData(transform)
}

// CacheBB recomputes the shape's AABB using its body's current transform.
func (s *Shape) CacheBB() BB {
	if s.body != nil {
		return s.CacheData(s.body.transform)
	}
	return s.bb
}

func ShapeGetBB(obj interface{}) BB {
	return obj.(*Shape).bb
}

// PointQuery finds the nearest point on the shape to p.
func (s *Shape) PointQuery(p Vector) PointQueryInfo {
	switch s.kind {
	case CircleShape:
		delta := p.Sub(s.circle.tc)
		d := delta.Length()
		r := s.circle.r
		var g Vector
		if d > 1e-9 {
			g = delta.Mult(1 / d)
		} else {
			g = Vector{0, 1}
		}
		return PointQueryInfo{s, s.circle.tc.Add(g.Mult(r)), d - r, g}
	case SegmentShape:
		closest := closestPointOnSegment(p, s.segment.ta, s.segment.tb)
		delta := p.Sub(closest)
		d := delta.Length()
		r := s.segment.r
		var g Vector
		if d > 1e-9 {
			g = delta.Mult(1 / d)
		} else {
			g = s.segment.tn
		}
		return PointQueryInfo{s, closest.Add(g.Mult(r)), d - r, g}
	case PolyShape:
		return s.polyPointQuery(p)
	}
	return PointQueryInfo{Distance: math.Inf(1)}
}

func (s *Shape) polyPointQuery(p Vector) PointQueryInfo {
	planes := s.poly.planes
	maxDist := math.Inf(-1)
	var closestPlane splittingPlane
	for _, pl := range planes {
		dist := pl.n.Dot(p.Sub(pl.v0))
		if dist > maxDist {
			maxDist = dist
			closestPlane = pl
		}
	}
	g := closestPlane.n
	closest := p.Sub(g.Mult(maxDist))
	if maxDist > 0 {
		// outside: true gradient is toward the nearest vertex/edge clamp,
		// the plane normal is a correct (if coarse) direction for convex
		// polygons with rounding radius applied below.
		return PointQueryInfo{s, closest.Add(g.Mult(s.poly.r)), maxDist - s.poly.r, g}
	}
	return PointQueryInfo{s, p.Add(g.Mult(-maxDist + s.poly.r)), maxDist - s.poly.r, g}
}

func closestPointOnSegment(p, a, b Vector) Vector {
	delta := a.Sub(b)
	t := clamp01(delta.Dot(a.Sub(p)) / delta.LengthSq())
	return a.Sub(delta.Mult(t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SegmentQuery ray-casts a tube of the given radius against the shape.
func (s *Shape) SegmentQuery(a, b Vector, radius float64) (SegmentQueryInfo, bool) {
	switch s.kind {
	case CircleShape:
		return circleSegmentQuery(s, s.circle.tc, s.circle.r, a, b, radius)
	case SegmentShape:
		return segmentSegmentQuery(s, a, b, radius)
	case PolyShape:
		return polySegmentQuery(s, a, b, radius)
	}
	return SegmentQueryInfo{}, false
}

func circleSegmentQuery(s *Shape, center Vector, r1 float64, a, b Vector, r2 float64) (SegmentQueryInfo, bool) {
	da := a.Sub(center)
	db := b.Sub(center)
	rsum := r1 + r2

	qa := da.Dot(da) - 2*da.Dot(db) + db.Dot(db)
	qb := -2*da.Dot(da) + 2*da.Dot(db)
	qc := da.Dot(da) - rsum*rsum

	det := qb*qb - 4*qa*qc
	if det >= 0 && qa != 0 {
		t := (-qb - math.Sqrt(det)) / (2 * qa)
		if 0 <= t && t <= 1 {
			pt := a.Lerp(b, t)
			n := pt.Sub(center).Normalize()
			return SegmentQueryInfo{s, pt.Sub(n.Mult(r2)), n, t}, true
		}
	}
	return SegmentQueryInfo{}, false
}

func segmentSegmentQuery(s *Shape, a, b Vector, r2 float64) (SegmentQueryInfo, bool) {
	n := s.segment.tn
	d := s.segment.ta.Sub(a).Dot(n)
	r := s.segment.r + r2

	flip := d < 0
	if flip {
		n = n.Neg()
		d = -d
	}

	dt := b.Sub(a).Dot(n)
	if dt <= 0 {
		return SegmentQueryInfo{}, false
	}

	t := (d - r) / dt
	if t < 0 || 1 < t {
		return SegmentQueryInfo{}, false
	}

	point := a.Lerp(b, t)
	axis := s.segment.tb.Sub(s.segment.ta)
	dt2 := point.Sub(s.segment.ta).Dot(axis.Normalize())
	seglen := axis.Length()
	if dt2 < -r || dt2 > seglen+r {
		if dt2 < 0 {
			return circleSegmentQuery(s, s.segment.ta, s.segment.r, a, b, r2)
		}
		return circleSegmentQuery(s, s.segment.tb, s.segment.r, a, b, r2)
	}
	return SegmentQueryInfo{s, point.Add(n.Mult(r2)), n.Neg(), t}, true
}

func polySegmentQuery(s *Shape, a, b Vector, r2 float64) (SegmentQueryInfo, bool) {
	planes := s.poly.planes
	if len(planes) == 0 {
		return SegmentQueryInfo{}, false
	}
	r := s.poly.r + r2

	tMin, tMax := 0.0, 1.0
	var normal Vector
	for _, pl := range planes {
		an := pl.n.Dot(a.Sub(pl.v0)) - r
		bn := pl.n.Dot(b.Sub(pl.v0)) - r
		if an > 0 && bn > 0 {
			return SegmentQueryInfo{}, false
		}
		if an <= 0 && bn <= 0 {
			continue
		}
		t := an / (an - bn)
		if an > 0 {
			if t > tMin {
				tMin = t
				normal = pl.n
			}
		} else if t < tMax {
			tMax = t
		}
	}
	if tMin <= tMax {
		point := a.Lerp(b, tMin)
		return SegmentQueryInfo{s, point.Sub(normal.Mult(r2)), normal, tMin}, true
	}
	return SegmentQueryInfo{}, false
}

func (s *Shape) Destroy() {
	s.body = nil
	s.space = nil
}

// --- Mass info ---

func CircleMassInfo(m, innerR, outerR float64, offset Vector) MassInfo {
	return MassInfo{
		M:    m,
		I:    m * (0.5 * (innerR*innerR + outerR*outerR) + offset.LengthSq()),
		Cog:  offset,
		Area: math.Pi * (outerR*outerR - innerR*innerR),
	}
}

func SegmentMassInfo(m float64, r float64, a, b Vector, _ float64) MassInfo {
	length := b.Sub(a).Length()
	offset := a.Add(b).Mult(0.5)
	return MassInfo{
		M:    m,
		I:    m * ((length*length+4*r*r)/12 + offset.LengthSq()),
		Cog:  offset,
		Area: length*2*r + math.Pi*r*r,
	}
}

func PolyMassInfo(m float64, verts []Vector, r float64, offset Vector) MassInfo {
	if len(verts) < 3 {
		return MassInfo{M: m, I: 0, Cog: offset, Area: 0}
	}

	centroid := polyCentroid(verts)
	var sum1, sum2 float64
	n := len(verts)
	for i := 0; i < n; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%n]
		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)
		sum1 += a * b
		sum2 += a
	}

	area := polyArea(verts)
	var moment float64
	if sum2 != 0 {
		moment = m * sum1 / (6 * sum2)
	}
	// moment about centroid, translated to offset via parallel axis theorem
	i := moment - m*centroid.LengthSq() + m*centroid.Sub(offset).LengthSq()

	return MassInfo{M: m, I: i, Cog: centroid, Area: area + length2(verts)*r + math.Pi*r*r}
}

func length2(verts []Vector) float64 {
	n := len(verts)
	var perimeter float64
	for i := 0; i < n; i++ {
		perimeter += verts[i].Dist(verts[(i+1)%n])
	}
	return perimeter
}

func polyArea(verts []Vector) float64 {
	var area float64
	n := len(verts)
	for i := 0; i < n; i++ {
		area += verts[i].Cross(verts[(i+1)%n])
	}
	return math.Abs(area) / 2
}

func polyCentroid(verts []Vector) Vector {
	var cx, cy, areaSum float64
	n := len(verts)
	for i := 0; i < n; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%n]
		cross := v1.Cross(v2)
		areaSum += cross
		cx += (v1.X + v2.X) * cross
		cy += (v1.Y + v2.Y) * cross
	}
	if areaSum == 0 {
		return VectorZero()
	}
	factor := 1 / (3 * areaSum)
	return Vector{cx * factor, cy * factor}
}

// convexHull reduces an arbitrary point set to its CCW convex hull using a
// simple gift-wrapping pass — the shape's point count is always small.
func convexHull(points []Vector) []Vector {
	if len(points) < 3 {
		return points
	}

	start := 0
	for i, p := range points {
		if p.X < points[start].X || (p.X == points[start].X && p.Y < points[start].Y) {
			start = i
		}
	}

	hull := []Vector{}
	point := start
	for {
		hull = append(hull, points[point])
		next := (point + 1) % len(points)
		for i := range points {
			if i == point {
				continue
			}
			cross := points[next].Sub(points[point]).Cross(points[i].Sub(points[point]))
			if cross < 0 {
				next = i
			}
		}
		point = next
		if point == start {
			break
		}
	}
	return hull
}

func polyPlanes(verts []Vector) []splittingPlane {
	n := len(verts)
	planes := make([]splittingPlane, n)
	for i := 0; i < n; i++ {
		next := verts[(i+1)%n]
		edge := next.Sub(verts[i])
		planes[i] = splittingPlane{v0: verts[i], n: edge.RPerp().Normalize()}
	}
	return planes
}
