package physics

import "math"

// PointQuery finds the shape (if any) whose surface is within maxDistance
// of point, matching filter, and returns the nearest one.
func (space *Space) PointQuery(point Vector, maxDistance float64, filter ShapeFilter) (PointQueryInfo, bool) {
	bb := NewBBForCircle(point, math.Max(maxDistance, 0))

	best := PointQueryInfo{Distance: math.Inf(1)}
	found := false

	query := func(s *Shape) {
		if s.Filter.Reject(filter) || s.sensor {
			return
		}
		info := s.PointQuery(point)
		if info.Distance < maxDistance && info.Distance < best.Distance {
			best = info
			found = true
		}
	}

	space.dynamicShapes.Query(bb, query)
	space.staticShapes.Query(bb, query)
	return best, found
}

// PointQueryNearest is PointQuery with no distance limit and
// ShapeFilterAll; sensor shapes are still skipped.
func (space *Space) PointQueryNearest(point Vector) (PointQueryInfo, bool) {
	return space.PointQuery(point, math.Inf(1), ShapeFilterAll)
}

// SegmentQuery calls f for every shape intersected along a segment, not
// just the nearest.
func (space *Space) SegmentQuery(a, b Vector, radius float64, filter ShapeFilter, f func(info SegmentQueryInfo)) {
	query := func(s *Shape) float64 {
		if s.Filter.Reject(filter) {
			return 1
		}
		if info, ok := s.SegmentQuery(a, b, radius); ok {
			f(info)
		}
		return 1
	}

	space.dynamicShapes.SegmentQuery(a, b, 1, query)
	space.staticShapes.SegmentQuery(a, b, 1, query)
}

// SegmentQueryFirst returns only the closest hit along the segment.
func (space *Space) SegmentQueryFirst(a, b Vector, radius float64, filter ShapeFilter) (SegmentQueryInfo, bool) {
	best := SegmentQueryInfo{Alpha: 1}
	found := false

	query := func(s *Shape) float64 {
		if s.Filter.Reject(filter) {
			return best.Alpha
		}
		info, ok := s.SegmentQuery(a, b, radius)
		if ok && info.Alpha < best.Alpha {
			best = info
			found = true
			return info.Alpha
		}
		return best.Alpha
	}

	space.dynamicShapes.SegmentQuery(a, b, 1, query)
	space.staticShapes.SegmentQuery(a, b, 1, query)
	return best, found
}

// BBQuery calls f for every shape (matching filter) whose cached AABB
// overlaps bb — a coarse broadphase-level query, not a precise overlap
// test.
func (space *Space) BBQuery(bb BB, filter ShapeFilter, f func(shape *Shape)) {
	query := func(s *Shape) {
		if !s.Filter.Reject(filter) {
			f(s)
		}
	}
	space.dynamicShapes.Query(bb, query)
	space.staticShapes.Query(bb, query)
}

// ShapeQuery calls f once per shape whose geometry actually overlaps
// shape (via Collide, not just AABB), together with the resulting
// CollisionInfo.
func (space *Space) ShapeQuery(shape *Shape, f func(other *Shape, info CollisionInfo)) {
	bb := shape.BB()

	query := func(other *Shape) {
		if other == shape || shape.Filter.Reject(other.Filter) {
			return
		}
		info := Collide(shape, other)
		if info.Count > 0 {
			f(other, info)
		}
	}

	space.dynamicShapes.Query(bb, query)
	space.staticShapes.Query(bb, query)
}
