// Package resolver resolves the decay graph of a particle list into the
// tables consumed by statistical hadron resonance gas calculations.
//
// What:
//
//   - Mean feeddown: for every (target, source) pair, the mean number of
//     target particles produced in the full decay cascade of the source.
//     One table follows decays by stability flag; four more follow decays by
//     feeddown level (none, weak, weak+EM, weak+EM+strong), each including
//     the previous one.
//   - Probability distributions: P(n) of producing n target particles in the
//     cascade of a source, by convolution over products and branching-ratio
//     mixing over channels.
//   - Cumulants: the first four cumulants of the same distributions, composed
//     directly (additive over the independent products of a channel, moment
//     mixing over channels).
//   - Final states: every distinct stable final state of a cascade with its
//     probability, merged and truncated to a bounded number of outcomes.
//   - Charged multiplicity distributions derived from the final states.
//
// Traversal:
//
// The mean walk is an explicit-stack depth-first walk carrying the set of
// species on the active path; re-entering an active species counts the
// species itself but does not expand it again. The memoized distribution and
// final-state recursions use the same active-path rule, so cyclic or
// self-feeding decay tables always terminate. Cycles are reported through the
// logger, the Observer and Tables.Cycles.
//
// Truncation:
//
// Final-state sets are sorted by probability (descending) with ties broken by
// lexicographic order of the final-state vector, then cut to the configured
// maximum (DefaultMaxFinalStates). The discarded probability is recorded in
// Tables.Truncated; the result is independent of evaluation order.
//
// Concurrency:
//
// Resolve compiles a private snapshot of the Source and then fans out over
// outer species with errgroup; each goroutine writes only its own result slot.
// Cancellation is checked once per outer species.
package resolver
