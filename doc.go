// Package feeddown resolves the decay topology of a hadron resonance gas
// particle list into the feeddown tables used by statistical (thermal
// model) calculations in heavy-ion physics.
//
// What it computes, for every pair of species:
//
//   - the mean number of target particles produced in the full decay
//     cascade of a source, by stability flag and per feeddown level
//     (none, weak, weak+EM, weak+EM+strong);
//   - the probability distribution of that number and its first four
//     cumulants, for fluctuation observables;
//   - per source, every distinct stable final state with its probability,
//     capped to a bounded number of outcomes.
//
// Packages:
//
//	particle/     - species, decay channels, decay-type and feeddown classification
//	particlelist/ - ordered list, identifier index, antiparticles, BR normalization
//	decaygraph/   - species graph, canonical cycle detection, topological order
//	resolver/     - the cascade walks and the output tables
//	config/       - gcfg file with FEEDDOWN_* environment overrides
//	metrics/      - Prometheus collectors for resolver measurements
//	tablestore/   - SQLite archive of resolved tables keyed by identifiers
//	examples/     - runnable light-meson demo
//
// Typical flow:
//
//	l := particlelist.New(particlelist.DefaultConfig())
//	err := l.Load(species, decays)             // from an external loader
//	err = l.ProcessDecays(ctx)                 // resolver.Resolve under the hood
//	tab, err := l.Tables()
//	mean := tab.Mean(particle.FeeddownStrong, target, source)
//
// Cyclic or self-feeding decay tables are tolerated: cascades stop at the
// first re-entry into an active ancestor and the cycles are reported.
package feeddown
