package physics

// HashSetArbiter is a bucketed hash table keyed by the commutative pair
// hash of the two colliding shapes' HashIds, holding the persistent
// Arbiter for that pair across frames. A plain Go map would work too, but
// the teacher's bucket/chain layout is kept so Filter (used to expire
// entries) rewrites each bucket in place in a single linear pass, deleting
// buckets that end up empty.
type HashSetArbiter struct {
	buckets map[HashValue][]*Arbiter
}

func NewHashSetArbiter() *HashSetArbiter {
	return &HashSetArbiter{buckets: make(map[HashValue][]*Arbiter)}
}

func arbiterKey(a, b *Shape) HashValue {
	return HashPair(a.hashid, b.hashid)
}

// Find returns the cached arbiter for the shape pair, or nil.
func (h *HashSetArbiter) Find(a, b *Shape) *Arbiter {
	key := arbiterKey(a, b)
	for _, arb := range h.buckets[key] {
		if arb.shapeA == a && arb.shapeB == b || arb.shapeA == b && arb.shapeB == a {
			return arb
		}
	}
	return nil
}

// Insert adds arb, keyed by its own shape pair.
func (h *HashSetArbiter) Insert(arb *Arbiter) {
	key := arbiterKey(arb.shapeA, arb.shapeB)
	h.buckets[key] = append(h.buckets[key], arb)
}

// Remove deletes arb from the table, if present.
func (h *HashSetArbiter) Remove(arb *Arbiter) {
	key := arbiterKey(arb.shapeA, arb.shapeB)
	bucket := h.buckets[key]
	for i, v := range bucket {
		if v == arb {
			h.buckets[key] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// Each calls f once per stored arbiter.
func (h *HashSetArbiter) Each(f func(arb *Arbiter)) {
	for _, bucket := range h.buckets {
		for _, arb := range bucket {
			f(arb)
		}
	}
}

// Filter removes entries for which keep returns false, in place.
func (h *HashSetArbiter) Filter(keep func(arb *Arbiter) bool) {
	for key, bucket := range h.buckets {
		out := bucket[:0]
		for _, arb := range bucket {
			if keep(arb) {
				out = append(out, arb)
			}
		}
		if len(out) == 0 {
			delete(h.buckets, key)
		} else {
			h.buckets[key] = out
		}
	}
}

func (h *HashSetArbiter) Count() int {
	n := 0
	for _, bucket := range h.buckets {
		n += len(bucket)
	}
	return n
}

// HashSetCollisionHandler maps collision type pairs to their registered
// CollisionHandler.
type HashSetCollisionHandler struct {
	entries map[HashValue]*CollisionHandler
}

func NewHashSetCollisionHandler() *HashSetCollisionHandler {
	return &HashSetCollisionHandler{entries: make(map[HashValue]*CollisionHandler)}
}

func handlerKey(a, b uint) HashValue {
	return HashPair(HashUint(a), HashUint(b))
}

func (h *HashSetCollisionHandler) Find(a, b uint) (*CollisionHandler, bool) {
	handler, ok := h.entries[handlerKey(a, b)]
	return handler, ok
}

func (h *HashSetCollisionHandler) Insert(handler *CollisionHandler) {
	h.entries[handlerKey(handler.TypeA, handler.TypeB)] = handler
	h.entries[handlerKey(handler.TypeB, handler.TypeA)] = handler
}
