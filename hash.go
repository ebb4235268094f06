package physics

import "unsafe"

// HashValue is the engine's hash key type. Shapes are keyed by the
// sequential hashid Space.AddShape assigns them, and arbiters by the pair
// hash of their two shapes' ids; HashPointer keys by pointer identity.
type HashValue uintptr

func HashPointer(p unsafe.Pointer) HashValue {
	return HashValue(uintptr(p))
}

func HashUint(v uint) HashValue {
	return HashValue(v)
}

// HashPair combines two hash values commutatively (order-independent) so
// that a shape pair hashes the same regardless of query order.
func HashPair(a, b HashValue) HashValue {
	// Golden-ratio derived multiplier, same family as cpHashPair's mixing
	// constant; XOR keeps the combination commutative.
	const mul = HashValue(2654435761)
	return (a * mul) ^ (b * mul)
}
