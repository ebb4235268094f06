package physics

import "math"

// Vector is a 2D value-type vector. Every operation returns a new Vector;
// none of them mutate the receiver. The solver relies on this — contact
// offsets, accumulated impulses and bias velocities are all passed around
// as independent copies within a single step.
type Vector struct {
	X, Y float64
}

func V(x, y float64) Vector { return Vector{x, y} }

func VectorZero() Vector { return Vector{0, 0} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Neg() Vector         { return Vector{-v.X, -v.Y} }
func (v Vector) Mult(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

func (v Vector) Dot(o Vector) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vector) Cross(o Vector) float64 { return v.X*o.Y - v.Y*o.X }

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vector) Perp() Vector { return Vector{-v.Y, v.X} }

// RPerp returns the vector rotated 90 degrees clockwise.
func (v Vector) RPerp() Vector { return Vector{v.Y, -v.X} }

func (v Vector) LengthSq() float64 { return v.Dot(v) }
func (v Vector) Length() float64   { return math.Sqrt(v.LengthSq()) }

func (v Vector) DistSq(o Vector) float64 { return v.Sub(o).LengthSq() }
func (v Vector) Dist(o Vector) float64   { return v.Sub(o).Length() }

func (v Vector) Normalize() Vector {
	length := v.Length()
	if length == 0 {
		return Vector{0, 0}
	}
	return v.Mult(1 / length)
}

func (v Vector) Lerp(o Vector, t float64) Vector {
	return v.Mult(1 - t).Add(o.Mult(t))
}

// Rotate treats v as a complex number and multiplies by o.
func (v Vector) Rotate(o Vector) Vector {
	return Vector{v.X*o.X - v.Y*o.Y, v.X*o.Y + v.Y*o.X}
}

// Unrotate treats v as a complex number and divides by the unit complex o.
func (v Vector) Unrotate(o Vector) Vector {
	return Vector{v.X*o.X + v.Y*o.Y, v.Y*o.X - v.X*o.Y}
}

func (v Vector) Clamp(max float64) Vector {
	if v.Dot(v) > max*max {
		return v.Normalize().Mult(max)
	}
	return v
}

func (v Vector) Equal(o Vector) bool { return v.X == o.X && v.Y == o.Y }

func VectorForAngle(a float64) Vector {
	return Vector{math.Cos(a), math.Sin(a)}
}

func (v Vector) ToAngle() float64 {
	return math.Atan2(v.Y, v.X)
}

// TAU is a full turn in radians, matching the engine's 2*pi angle wrapping.
const TAU = 2 * math.Pi

func fmod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r < 0 {
		r += b
	}
	return r
}

// BB is an axis-aligned bounding box, left/bottom/right/top.
type BB struct {
	L, B, R, T float64
}

func NewBB(l, b, r, t float64) BB { return BB{l, b, r, t} }

func NewBBForCircle(p Vector, r float64) BB {
	return BB{p.X - r, p.Y - r, p.X + r, p.Y + r}
}

func NewBBForExtents(c Vector, hw, hh float64) BB {
	return BB{c.X - hw, c.Y - hh, c.X + hw, c.Y + hh}
}

func (bb BB) Intersects(o BB) bool {
	return bb.L <= o.R && o.L <= bb.R && bb.B <= o.T && o.B <= bb.T
}

func (bb BB) ContainsBB(o BB) bool {
	return bb.L <= o.L && bb.R >= o.R && bb.B <= o.B && bb.T >= o.T
}

func (bb BB) ContainsVect(v Vector) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.B <= v.Y && bb.T >= v.Y
}

func (bb BB) Merge(o BB) BB {
	return BB{
		math.Min(bb.L, o.L),
		math.Min(bb.B, o.B),
		math.Max(bb.R, o.R),
		math.Max(bb.T, o.T),
	}
}

func (bb BB) MergeVect(v Vector) BB {
	return BB{
		math.Min(bb.L, v.X),
		math.Min(bb.B, v.Y),
		math.Max(bb.R, v.X),
		math.Max(bb.T, v.Y),
	}
}

func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.T - bb.B)
}

func (bb BB) MergedArea(o BB) float64 {
	return (math.Max(bb.R, o.R) - math.Min(bb.L, o.L)) * (math.Max(bb.T, o.T) - math.Min(bb.B, o.B))
}

func (bb BB) Offset(v Vector) BB {
	return BB{bb.L + v.X, bb.B + v.Y, bb.R + v.X, bb.T + v.Y}
}

func (bb BB) Center() Vector {
	return Vector{(bb.L + bb.R) / 2, (bb.B + bb.T) / 2}
}

// SegmentQuery returns the alpha in [0,1] along a->b where the segment
// first enters bb expanded by r, and whether it does at all.
func (bb BB) SegmentQuery(a, b Vector, r float64) (float64, bool) {
	bb = BB{bb.L - r, bb.B - r, bb.R + r, bb.T + r}

	idx := 1 / (b.X - a.X)
	tx1 := (bb.L - a.X) * idx
	tx2 := (bb.R - a.X) * idx
	txmin, txmax := math.Min(tx1, tx2), math.Max(tx1, tx2)

	idy := 1 / (b.Y - a.Y)
	ty1 := (bb.B - a.Y) * idy
	ty2 := (bb.T - a.Y) * idy
	tymin, tymax := math.Min(ty1, ty2), math.Max(ty1, ty2)

	tmin := math.Max(txmin, tymin)
	tmax := math.Min(txmax, tymax)

	if tmin <= tmax && 0 <= tmax && tmin <= 1 {
		return math.Max(tmin, 0), true
	}
	return 0, false
}

// Mat2x2 is a 2x2 matrix stored row-major; used by pivot/groove joints for
// their combined effective mass.
type Mat2x2 struct {
	A, B, C, D float64
}

func (m Mat2x2) Transform(v Vector) Vector {
	return Vector{v.X*m.A + v.Y*m.B, v.X*m.C + v.Y*m.D}
}

func (m Mat2x2) Inverse() Mat2x2 {
	det := m.A*m.D - m.B*m.C
	invDet := 1 / det
	return Mat2x2{
		m.D * invDet, -m.B * invDet,
		-m.C * invDet, m.A * invDet,
	}
}

// Transform is a 2D affine transform: [a c tx; b d ty; 0 0 1].
type Transform struct {
	A, B, C, D, Tx, Ty float64
}

func TransformIdentity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

// NewTransformTranspose matches cpTransformNewTranspose: arguments are given
// in row-major order (a, c, tx, b, d, ty).
func NewTransformTranspose(a, c, tx, b, d, ty float64) Transform {
	return Transform{a, b, c, d, tx, ty}
}

func (t Transform) Point(p Vector) Vector {
	return Vector{t.A*p.X + t.C*p.Y + t.Tx, t.B*p.X + t.D*p.Y + t.Ty}
}

func (t Transform) Vect(v Vector) Vector {
	return Vector{t.A*v.X + t.C*v.Y, t.B*v.X + t.D*v.Y}
}

func (t Transform) Mult(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.C*o.B,
		B: t.B*o.A + t.D*o.B,
		C: t.A*o.C + t.C*o.D,
		D: t.B*o.C + t.D*o.D,
		Tx: t.A*o.Tx + t.C*o.Ty + t.Tx,
		Ty: t.B*o.Tx + t.D*o.Ty + t.Ty,
	}
}

func TransformScale(sx, sy float64) Transform {
	return Transform{sx, 0, 0, sy, 0, 0}
}

// RigidInverse inverts a rigid (rotation + translation, no scale) transform.
func (t Transform) RigidInverse() Transform {
	return Transform{
		A: t.D, B: -t.B, C: -t.C, D: t.A,
		Tx: -(t.D*t.Tx - t.C*t.Ty),
		Ty: -(t.A*t.Ty - t.B*t.Tx),
	}
}

func (t Transform) TransformBB(bb BB) BB {
	center := bb.Center()
	hw := (bb.R - bb.L) * 0.5
	hh := (bb.T - bb.B) * 0.5

	a := t.A * hw
	b := t.C * hh
	d := t.B * hw
	e := t.D * hh

	hwMax := math.Abs(a) + math.Abs(b)
	hhMax := math.Abs(d) + math.Abs(e)

	c := t.Point(center)
	return NewBBForExtents(c, hwMax, hhMax)
}
