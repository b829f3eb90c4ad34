// Package decaygraph builds the directed species graph of a particle list
// (edge parent → product for every decay channel that is followed) and runs
// depth-first analyses over it.
//
// What:
//
//   - Graph: n vertices identified by 0-based species positions, sorted
//     and de-duplicated successor lists.
//   - DetectCycles: reports the cycles closed by back edges, found with
//     three-colour marking (White, Gray, Black); each cycle is rotated to its
//     minimal form (Booth's algorithm) so output is deterministic.
//   - TopologicalSort: orders species so that every parent precedes its
//     products; returns ErrCycleDetected on a cyclic graph.
//
// Why:
//
//   - Resonance tables occasionally contain self-feeding or cyclic decays.
//     The resolver truncates recursion at re-entry; this package reports the
//     offending cycles so the truncation can be surfaced as a warning.
//
// Complexity:
//
//   - DetectCycles:    Time O(V+E + C·L), Memory O(V + L_max)
//   - TopologicalSort: Time O(V+E),       Memory O(V)
//
// Errors:
//
//   - ErrGraphNil          graph pointer is nil
//   - ErrVertexOutOfRange  edge endpoint outside [0, n)
//   - ErrCycleDetected     cycle found during TopologicalSort
//   - context.Canceled     traversal cancelled via context
package decaygraph
