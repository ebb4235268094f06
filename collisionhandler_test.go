package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupHandlerFallsBackToPermissiveDefault(t *testing.T) {
	space := NewSpace()
	h := space.LookupHandler(1, 2)
	require.NotNil(t, h)
	assert.True(t, h.Begin(nil, space))
	assert.True(t, h.PreSolve(nil, space))
}

func TestLookupHandlerFindsExactRegistration(t *testing.T) {
	space := NewSpace()
	registered := space.NewCollisionHandler(1, 2)
	registered.Begin = func(*Arbiter, *Space) bool { return false }

	got := space.LookupHandler(1, 2)
	assert.Same(t, registered, got)
	assert.False(t, got.Begin(nil, space))
}

func TestExactHandlerComposesWithWildcard(t *testing.T) {
	space := NewSpace()

	wildcardCalled := false
	wc := space.NewWildcardCollisionHandler(1)
	wc.PreSolve = func(*Arbiter, *Space) bool {
		wildcardCalled = true
		return true
	}

	specific := space.NewCollisionHandler(1, 2)
	specific.PreSolve = func(*Arbiter, *Space) bool { return false }

	// An exact (1,2) registration runs together with the wildcard: both
	// are called, and the exact handler's veto still rejects the pair.
	got := space.LookupHandler(1, 2)
	assert.False(t, got.PreSolve(nil, space))
	assert.True(t, wildcardCalled)
}

func TestBothWildcardsComposeWithAND(t *testing.T) {
	space := NewSpace()

	wa := space.NewWildcardCollisionHandler(1)
	wa.PreSolve = func(*Arbiter, *Space) bool { return true }

	wb := space.NewWildcardCollisionHandler(2)
	wb.PreSolve = func(*Arbiter, *Space) bool { return false }

	// No exact (1,2) handler: both wildcards apply and are AND-composed,
	// so either side vetoing the pair is enough to reject it.
	got := space.LookupHandler(1, 2)
	assert.False(t, got.PreSolve(nil, space))
}

func TestWildcardHandlerAppliesWhenNoExactMatch(t *testing.T) {
	space := NewSpace()

	wc := space.NewWildcardCollisionHandler(1)
	called := false
	wc.PreSolve = func(*Arbiter, *Space) bool {
		called = true
		return true
	}

	got := space.LookupHandler(1, 99)
	assert.True(t, got.PreSolve(nil, space))
	assert.True(t, called)
}
