// Package particle defines the leaf data types of a hadron resonance gas
// particle list: species records, their decay channels, and the decay-type
// and feeddown classifications used to bucket decays.
//
// What:
//
//   - Species: one particle species (PDG-like identifier, mass, quantum
//     numbers, stability flag, ordered decay channels).
//   - DecayChannel: one decay mode, with effective and originally loaded
//     branching ratios and an ordered multiset of product identifiers.
//   - DecayType: Stable < Weak < Electromagnetic < Strong, derived from a
//     species by Classify.
//   - Feeddown: None < Weak < Electromagnetic < Strong, the inclusiveness
//     level used to decide which decays are traversed.
//   - Antiparticle: charge-conjugate synthesis with a generated name.
//
// Classification (Classify) is a pure function:
//
//  1. |ID| found in the known stable / weak / electromagnetic tables wins.
//  2. Otherwise a false stability flag means a strong decay.
//  3. Otherwise strange or charm content means a weak decay, else stable.
//
// Nothing in this package resolves identifiers to positions; that is the
// job of the owning list (package particlelist).
package particle
