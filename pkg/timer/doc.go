// Package timer defines the domain types shared by the countdown engine and
// its collaborators: timer identities, lifecycle states, the live Record, and
// the durable Snapshot exchanged with the persistence layer.
//
// # Lifecycle
//
// A Record is created in StateReady with a full duration. It is mutated only
// through engine commands and is in exactly one lifecycle state at any
// instant. Deleting a timer removes its snapshot and cancels any pending
// alarm; a dangling alarm or an orphaned snapshot is a defect.
//
// # Snapshots
//
// A Snapshot is the durable ground truth for one timer. For a running timer
// it stores the absolute expiry instant; for every other state it stores the
// remaining/total pair verbatim. Exactly one of the two is meaningful
// depending on the state, which is what lets the engine reconcile with the
// wall clock after an arbitrary process gap.
package timer
