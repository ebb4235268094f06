package physics

import "math"

// SpaceHash buckets shapes into a uniform grid of cellSize, trading the
// BBTree's O(log n) query for O(1) bucket lookups when most shapes are a
// similar size — the usual case for the dynamic partition in a scene with
// many same-sized bodies. Swappable in for either of Space's partitions
// via UseSpatialHash.
type SpaceHash struct {
	cellSize float64
	buckets  map[[2]int][]*Shape
	bbs      map[*Shape]BB
}

func NewSpaceHash(cellSize float64) *SpaceHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpaceHash{
		cellSize: cellSize,
		buckets:  make(map[[2]int][]*Shape),
		bbs:      make(map[*Shape]BB),
	}
}

func (h *SpaceHash) cellFor(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / h.cellSize)), int(math.Floor(y / h.cellSize))}
}

func (h *SpaceHash) cellsFor(bb BB) (lo, hi [2]int) {
	lo = h.cellFor(bb.L, bb.B)
	hi = h.cellFor(bb.R, bb.T)
	return
}

func (h *SpaceHash) eachCell(bb BB, f func(cell [2]int)) {
	lo, hi := h.cellsFor(bb)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			f([2]int{x, y})
		}
	}
}

func (h *SpaceHash) Insert(obj *Shape, hashid HashValue) {
	bb := obj.BB()
	h.bbs[obj] = bb
	h.eachCell(bb, func(cell [2]int) {
		h.buckets[cell] = append(h.buckets[cell], obj)
	})
}

func (h *SpaceHash) Remove(obj *Shape, hashid HashValue) {
	bb, ok := h.bbs[obj]
	if !ok {
		return
	}
	h.eachCell(bb, func(cell [2]int) {
		bucket := h.buckets[cell]
		for i, s := range bucket {
			if s == obj {
				h.buckets[cell] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
	})
	delete(h.bbs, obj)
}

func (h *SpaceHash) Contains(obj *Shape, hashid HashValue) bool {
	_, ok := h.bbs[obj]
	return ok
}

func (h *SpaceHash) ReindexObject(obj *Shape, hashid HashValue) {
	if _, ok := h.bbs[obj]; ok {
		h.Remove(obj, hashid)
	}
	h.Insert(obj, hashid)
}

func (h *SpaceHash) ReindexAll() {
	objs := make([]*Shape, 0, len(h.bbs))
	for obj := range h.bbs {
		objs = append(objs, obj)
	}
	for _, obj := range objs {
		h.ReindexObject(obj, 0)
	}
}

func (h *SpaceHash) ReindexQuery(f func(a, b *Shape)) {
	h.ReindexAll()
	seen := make(map[HashValue]bool)
	for obj := range h.bbs {
		h.Query(obj.BB(), func(other *Shape) {
			if obj == other {
				return
			}
			key := arbiterKey(obj, other)
			if !seen[key] {
				seen[key] = true
				f(obj, other)
			}
		})
	}
}

func (h *SpaceHash) Each(f func(obj *Shape)) {
	for obj := range h.bbs {
		f(obj)
	}
}

func (h *SpaceHash) Query(bb BB, f func(obj *Shape)) {
	seen := make(map[*Shape]bool)
	h.eachCell(bb, func(cell [2]int) {
		for _, obj := range h.buckets[cell] {
			if !seen[obj] && obj.BB().Intersects(bb) {
				seen[obj] = true
				f(obj)
			}
		}
	})
}

func (h *SpaceHash) SegmentQuery(a, b Vector, exit float64, f func(obj *Shape) float64) {
	bb := NewBB(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Max(a.X, b.X), math.Max(a.Y, b.Y))
	seen := make(map[*Shape]bool)
	h.eachCell(bb, func(cell [2]int) {
		for _, obj := range h.buckets[cell] {
			if seen[obj] {
				continue
			}
			seen[obj] = true
			if r := f(obj); r < exit {
				exit = r
			}
		}
	})
}

func (h *SpaceHash) Count() int { return len(h.bbs) }
