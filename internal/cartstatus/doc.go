// Package cartstatus derives crash-cart freshness from log history.
//
// Nothing here is persisted. Status and alerts are pure functions of the
// crash records and the current date, recomputed on every render so they can
// never go stale relative to the dates they summarize.
//
// Derivation runs in three steps:
//
//  1. Aggregate: per CartKey, the most recent non-empty central and med box
//     expiration dates, each tracked independently by record timestamp.
//  2. Derive: the most urgent day offset of the two dates picks the Status.
//  3. Alerts: one line per (cart, component) that is expired or due within
//     AlertHorizonDays, ordered by urgency and capped at MaxAlerts.
package cartstatus
