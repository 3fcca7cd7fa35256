// Package journal records the engine's observable side effects as a stream
// of events: lifecycle transitions, alarm scheduling, alarm firings, and
// port failures.
//
// The engine publishes every event to a Journal implementation. FileJournal
// appends events to a CBOR-encoded file for later inspection with Reader;
// SlogAdapter mirrors events to a structured logger during development;
// MultiJournal fans out to several sinks at once. Pass NoopJournal (or nil
// via the engine's configuration) to disable journaling.
//
// Events use integer CBOR keys to keep the on-disk form compact.
package journal
