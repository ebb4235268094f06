// Package physics is a 2D rigid-body simulation core: broadphase spatial
// indexing, persistent contact arbiters with warm-started sequential
// impulses, the ten-variant constraint library, sleeping, and the Space
// orchestrator tying them together one fixed Step at a time.
//
// The solver and data model trace back to Chipmunk2D (lineage via the
// TFlippy/Shitmunk2D Go port this package grew out of); shapes and
// constraints are dispatched through Go interfaces and type switches
// rather than the original's function-pointer vtables.
package physics
