package physics

import (
	"fmt"

	"github.com/katalvlaran/lvlath/graph"
)

// bodyVertexID gives each dynamic body a stable graph vertex id for the
// lifetime of one processComponents call. Pointer identity is enough; the
// graph is rebuilt from scratch every time components are (re)computed.
func bodyVertexID(b *Body) string {
	return fmt.Sprintf("%p", b)
}

// buildContactGraph connects every pair of dynamic bodies joined by a live
// arbiter or a constraint, so ProcessComponents can find connected
// components with a single BFS per unvisited body. Static and kinematic
// bodies participate as edges (a contact against one keeps the dynamic
// side awake if that other body is moving) but are never themselves graph
// vertices: a static body commonly touches many otherwise-unrelated
// components and must not merge them.
func (space *Space) buildContactGraph() *graph.Graph {
	g := graph.NewGraph(false, false)
	for _, b := range space.dynamicBodies {
		g.AddVertex(&graph.Vertex{ID: bodyVertexID(b)})
	}

	for _, b := range space.dynamicBodies {
		b.EachArbiter(func(arb *Arbiter) {
			other := arb.bodyA
			if other == b {
				other = arb.bodyB
			}
			if other.Type == BODY_DYNAMIC {
				g.AddEdge(bodyVertexID(b), bodyVertexID(other), 0)
			}
		})
		b.EachConstraint(func(c *Constraint) {
			other := c.a
			if other == b {
				other = c.b
			}
			if other != nil && other.Type == BODY_DYNAMIC {
				g.AddEdge(bodyVertexID(b), bodyVertexID(other), 0)
			}
		})
	}
	return g
}

// componentActive reports whether any of bodies (one connected component)
// keeps the component awake: being idle for less than threshold, or
// touching a moving kinematic body.
func componentActive(bodies []*Body, threshold float64) bool {
	for _, b := range bodies {
		if b.sleepingIdleTime < threshold {
			return true
		}
		for arb := b.arbiterList; arb != nil; arb = ArbiterNext(arb, b) {
			other := arb.bodyA
			if other == b {
				other = arb.bodyB
			}
			if other.Type == BODY_KINEMATIC && (other.vVec.LengthSq() > 0 || other.w != 0) {
				return true
			}
		}
	}
	return false
}

// processComponents partitions the space's awake dynamic bodies into
// connected components (via the contact/constraint graph) and puts each
// component whose bodies have all been idle past SleepTimeThreshold to
// sleep, threading them onto a sleeping root body.
func (space *Space) processComponents(dt float64) {
	if len(space.dynamicBodies) == 0 {
		return
	}

	for _, b := range space.dynamicBodies {
		idleSpeedSq := space.idleSpeedThreshold * space.idleSpeedThreshold
		if idleSpeedSq == 0 {
			idleSpeedSq = 1e-6
		}
		if b.vVec.LengthSq() > idleSpeedSq || b.w*b.w > idleSpeedSq {
			b.sleepingIdleTime = 0
		} else {
			b.sleepingIdleTime += dt
		}
	}

	g := space.buildContactGraph()
	visited := make(map[*Body]bool, len(space.dynamicBodies))

	for _, start := range space.dynamicBodies {
		if visited[start] || start.IsSleeping() {
			continue
		}

		res, err := g.BFS(bodyVertexID(start), nil)
		if err != nil {
			continue
		}

		members := make([]*Body, 0, len(res.Order))
		byID := make(map[string]*Body, len(res.Order))
		for _, b := range space.dynamicBodies {
			byID[bodyVertexID(b)] = b
		}
		for _, v := range res.Order {
			b := byID[v.ID]
			members = append(members, b)
			visited[b] = true
		}

		if !componentActive(members, space.SleepTimeThreshold) {
			space.sleepComponent(members)
		}
	}
}

// sleepComponent puts every body in members to sleep, threading them
// behind a single root (the first member) via Body.ComponentAdd, and pulls
// them off space.dynamicBodies so they no longer take part in velocity/
// position integration; Step's solver passes separately skip any arbiter
// or constraint touching a sleeping body.
func (space *Space) sleepComponent(members []*Body) {
	if len(members) == 0 {
		return
	}
	root := members[0]
	root.sleepingRoot = root
	for _, b := range members[1:] {
		b.ComponentAdd(root)
	}
	space.sleepingComponents = append(space.sleepingComponents, root)

	for _, b := range members {
		removeBody(&space.dynamicBodies, b)
	}
}

// Activate wakes body's entire sleeping component (if any) and removes it
// from the space's sleeping list, called whenever a body's state is
// mutated in a way that could invalidate the component's rest assumption.
func (space *Space) Activate(body *Body) {
	if body.Type != BODY_DYNAMIC {
		return
	}

	root := body.sleepingRoot
	if root == nil {
		return
	}

	for i, r := range space.sleepingComponents {
		if r == root {
			space.sleepingComponents = append(space.sleepingComponents[:i], space.sleepingComponents[i+1:]...)
			break
		}
	}

	for b := root; b != nil; {
		next := b.sleepingNext
		b.sleepingRoot = nil
		b.sleepingNext = nil
		b.sleepingIdleTime = 0
		space.dynamicBodies = append(space.dynamicBodies, b)
		b = next
	}
}
