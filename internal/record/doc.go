// Package record defines the UnitFlow log model.
//
// A Record is one immutable logged event: either a supply-room restock entry
// or a crash-cart check. Both shapes share one struct and one store; Mode
// discriminates them and the fields of the other mode are always empty.
//
// This package imports nothing internal. Every other internal package builds
// on it.
//
// Key constraints:
//   - Records are created only through NewSupply / NewCrash (or decoded from
//     persisted JSON) and never mutated afterwards
//   - Timestamps are epoch milliseconds, matching the persisted layout
//   - JSON tags use the persisted camelCase layout (ts, cartType, ...)
package record
