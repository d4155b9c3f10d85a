// Package plum grows the branching line drawing.
//
// A [Scheduler] holds the queue of pending [Step] values. Each tick the queue
// is snapshotted and cleared; every snapshotted step is either held for the
// next tick or executed. Executing a step strokes one short segment and
// enqueues zero, one or two follow-up steps that deflect slightly left and
// right of the parent direction.
//
// Every step belongs to a lineage: the origin it was seeded from and all of
// its descendants. A lineage shares one segment counter, stored in the
// scheduler and addressed by index, so a step carries the index instead of a
// pointer. Young lineages branch with probability 0.8, older ones with 0.5,
// and any branch that wanders past the margin around the surface stops.
//
// All randomness comes from an injected [Rand]; the same seed, size and
// [Params] replay the same drawing.
//
// Scheduler is not safe for concurrent use. It is driven from a single
// display-refresh loop.
package plum
