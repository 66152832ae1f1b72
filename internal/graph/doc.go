// Package graph owns the editable weighted directed graph: nodes, edges and
// the mutation invariants that hold after every operation.
//
// Invariants maintained by the Model:
//   - every edge's endpoints reference existing nodes
//   - at most one edge exists per ordered (from, to) pair; (a,b) and (b,a)
//     are distinct edges and may coexist
//   - removing a node removes every edge incident to it, including its
//     self-loop, in the same operation
//
// Mutations never touch the rendering boundary themselves; callers apply the
// matching upsert/remove calls after a successful mutation.
package graph
