package physics

// WildcardCollisionType is never a real Shape.Type; registering a handler
// against it matches the named type paired with any other type, composed
// (AND-ed) with that pair's specific handler if one also exists.
const WildcardCollisionType uint = ^uint(0)

// CollisionHandler groups the four callbacks invoked for a shape-type pair
// as their arbiters progress through Begin, PreSolve, PostSolve and
// Separate.
type CollisionHandler struct {
	TypeA, TypeB uint

	Begin     func(arb *Arbiter, space *Space) bool
	PreSolve  func(arb *Arbiter, space *Space) bool
	PostSolve func(arb *Arbiter, space *Space)
	Separate  func(arb *Arbiter, space *Space)

	UserData interface{}
}

func alwaysCollide(*Arbiter, *Space) bool { return true }
func doNothing(*Arbiter, *Space)          {}

// NewCollisionHandler returns a handler with every callback set to its
// permissive default (collide, no-op post-solve/separate).
func NewCollisionHandler(a, b uint) *CollisionHandler {
	return &CollisionHandler{
		TypeA: a, TypeB: b,
		Begin:     alwaysCollide,
		PreSolve:  alwaysCollide,
		PostSolve: doNothing,
		Separate:  doNothing,
	}
}

// NewWildcardCollisionHandler returns a handler matching typ paired with
// any other shape type.
func NewWildcardCollisionHandler(typ uint) *CollisionHandler {
	return NewCollisionHandler(typ, WildcardCollisionType)
}

// collisionHandlerDefault is used whenever no handler (specific or
// wildcard) has been registered for a pair and UseWildcardDefaultHandler
// has not installed a space-wide default.
var collisionHandlerDefault = NewCollisionHandler(0, 0)

// lookupHandler resolves the effective handler for the type pair
// (typeA, typeB). Every applicable handler runs: the specific one, then
// typeA's wildcard handler, then typeB's; Begin and PreSolve accept the
// pair only if all of them accept it.
func (space *Space) lookupHandler(typeA, typeB uint) *CollisionHandler {
	specific, hasSpecific := space.collisionHandlers.Find(typeA, typeB)

	wa, hasWA := space.collisionHandlers.Find(typeA, WildcardCollisionType)
	wb, hasWB := space.collisionHandlers.Find(typeB, WildcardCollisionType)

	if !hasWA && !hasWB {
		if hasSpecific {
			return specific
		}
		if space.usesWildcards && space.defaultHandler != nil {
			return space.defaultHandler
		}
		return collisionHandlerDefault
	}

	combined := NewCollisionHandler(typeA, typeB)
	if hasSpecific {
		combined.Begin = specific.Begin
		combined.PreSolve = specific.PreSolve
		combined.PostSolve = specific.PostSolve
		combined.Separate = specific.Separate
	}
	if hasWA {
		combined.Begin = andBool(combined.Begin, wa.Begin)
		combined.PreSolve = andBool(combined.PreSolve, wa.PreSolve)
		combined.PostSolve = andVoid(combined.PostSolve, wa.PostSolve)
		combined.Separate = andVoid(combined.Separate, wa.Separate)
	}
	if hasWB {
		combined.Begin = andBool(combined.Begin, wb.Begin)
		combined.PreSolve = andBool(combined.PreSolve, wb.PreSolve)
		combined.PostSolve = andVoid(combined.PostSolve, wb.PostSolve)
		combined.Separate = andVoid(combined.Separate, wb.Separate)
	}
	return combined
}

func andBool(f, g func(*Arbiter, *Space) bool) func(*Arbiter, *Space) bool {
	return func(arb *Arbiter, space *Space) bool {
		a := f(arb, space)
		b := g(arb, space)
		return a && b
	}
}

func andVoid(f, g func(*Arbiter, *Space)) func(*Arbiter, *Space) {
	return func(arb *Arbiter, space *Space) {
		f(arb, space)
		g(arb, space)
	}
}
