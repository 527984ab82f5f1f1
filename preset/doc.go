// Package preset stores the prompt and schema presets that drive the card
// review flows, plus per-card session history. Three backends share the same
// Store interface: an in-memory store for tests and single-process use, a
// Redis store for shared deployments, and an etcd store for clustered ones.
//
// Built-in presets ship with the SDK and are seeded read-only; user presets
// can be created, updated, and deleted freely. Schema presets are validated
// before they are accepted.
package preset
