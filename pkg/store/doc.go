// Package store provides persistence for timer snapshots.
//
// FileStore keeps one JSON file per timer identity under a state
// directory, which makes the durable state inspectable with any text
// tooling. Memory keeps snapshots in a map and is meant for tests and
// ephemeral runs. Both satisfy the engine's Store port.
package store
