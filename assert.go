package physics

import "github.com/havocphys/havoc2d/internal/enginelog"

// assertHard panics on a precondition violation — the caller broke the
// engine's contract (mutating a locked space, negative mass, NaN pose).
// These are always fatal; there is no recovery path that keeps the engine
// internally consistent.
func assertHard(cond bool, msg string) {
	if !cond {
		panic("physics: " + msg)
	}
}

// assertWarn logs and continues. Used where the contract was merely bent
// (an unused callback, a post-step callback added to an unlocked space) and
// the engine can keep running.
func assertWarn(cond bool, msg string) {
	if !cond {
		enginelog.Warnf("%s", msg)
	}
}
