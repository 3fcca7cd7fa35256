// Package alarm implements the one-shot alarm scheduler behind a timer's
// expiry notification.
//
// The Scheduler keeps at most one pending alarm per identifier. Scheduling
// replaces any pending alarm with the same identifier, and a fire time
// that is not in the future is a no-op: an already-due alarm is never
// scheduled. Fired alarms are delivered to a Notifier.
//
// Alarms live in the scheduling process. They do not survive it; an engine
// restoring a running timer reschedules its alarm from the persisted
// expiry.
package alarm
