package physics

// SpatialIndex stores a set of objects keyed by bounding box for
// broadphase queries. Space keeps two instances (static geometry, dynamic
// geometry), hot-swappable via UseSpatialHash, mirroring the teacher's
// BBTree/SpaceHash split.
type SpatialIndex interface {
	Insert(obj *Shape, hashid HashValue)
	Remove(obj *Shape, hashid HashValue)
	Contains(obj *Shape, hashid HashValue) bool

	ReindexObject(obj *Shape, hashid HashValue)
	ReindexAll()
	ReindexQuery(f func(a, b *Shape))

	Each(f func(obj *Shape))

	Query(bb BB, f func(obj *Shape))
	SegmentQuery(a, b Vector, exit float64, f func(obj *Shape) float64)

	Count() int
}
