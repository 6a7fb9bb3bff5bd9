// Package store provides durable storage for simulated earthquake catalogs.
//
// Each simulation run is recorded with its full parameter set, seed and
// burn-in count next to the catalog it produced. Because the simulation is
// deterministic for a fixed seed, a stored run is self-describing: the
// catalog can always be re-derived from the run row alone, which is what
// the replay command uses to verify integrity.
//
// Runs are immutable once written. SQLite with WAL mode allows concurrent
// readers while a run is being inserted.
package store
