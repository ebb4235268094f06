package physics

// PostStepFunc runs once, after Step has finished its solve pass and
// unlocked the space, so it is free to add/remove bodies, shapes and
// constraints — mutations that are unsafe while the space is mid-step.
type PostStepFunc func(space *Space, key, data interface{})

type postStepCallback struct {
	fn   PostStepFunc
	key  interface{}
	data interface{}
}

// AddPostStepCallback queues fn to run once the space unlocks, coalesced
// by key: a second call with a key already queued this step is dropped
// (matching cpSpaceAddPostStepCallback), so e.g. "remove this body" only
// has to be queued once no matter how many arbiters triggered it.
func (space *Space) AddPostStepCallback(fn PostStepFunc, key, data interface{}) bool {
	assertWarn(space.locked != 0 || space.skipPostStep, "post-step callbacks are only necessary when the space is locked")

	for _, cb := range space.postStepCallbacks {
		if cb.key == key {
			return false
		}
	}

	space.postStepCallbacks = append(space.postStepCallbacks, postStepCallback{fn: fn, key: key, data: data})
	return true
}

// runPostStepCallbacks drains the queue. skipPostStep guards against a
// callback re-entrantly mutating the queue it's being drained from (e.g.
// a callback that itself calls a space operation deferring another
// callback) — those land at the end and still run, but this pass won't
// recurse into draining them a second time.
func (space *Space) runPostStepCallbacks() {
	if space.skipPostStep {
		return
	}
	space.skipPostStep = true

	for len(space.postStepCallbacks) > 0 {
		callbacks := space.postStepCallbacks
		space.postStepCallbacks = nil
		for _, cb := range callbacks {
			cb.fn(space, cb.key, cb.data)
		}
	}

	space.skipPostStep = false
}
