// Package store provides SQLite-backed durable storage for UnitFlow logs.
//
// The store implements an append-only record collection plus two settings:
//   - Records: supply and crash-cart log entries, keyed by record id
//   - Author: the last non-empty author / checked-by name
//   - Locations: the ordered crash-cart location list
//
// # Guarantees
//
//   - Append is synchronous: a record is visible to every read that starts
//     after Append returns
//   - Records are never updated or individually deleted; Clear removes all of
//     them (settings survive)
//   - Payloads are stored in the persisted JSON layout with no schema
//     version; unknown fields are ignored and missing ones default to empty
//   - A malformed payload is skipped on read, never returned as an error
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
