// Package harness runs UnitFlow scenarios end to end.
//
// A scenario drives an app.App through a sequence of user operations
// against a fresh in-memory store, with a fixed clock and sequential record
// ids, then checks assertions on the resulting state. Because time and
// identity are fixed, the same scenario always produces the same trace,
// which is compared against a golden file.
//
// # Scenario Format
//
//	name: expired_central
//	description: "An expired central date alone marks the cart EXPIRED"
//	now: "2026-03-04T10:00:00Z"
//	timezone: UTC
//	steps:
//	  - submit_crash:
//	      cart_type: Adult
//	      location: "ER – Main"
//	      cart_number: "12"
//	      reason: Expiration swap
//	      central_new: "2026-03-01"
//	      checked_by: Lee
//	  - begin_selection: crash-today
//	  - toggle: { scope: crash-today, id: rec-001 }
//	    expect: { accepted: true }
//	  - export: { target: selected, format: csv }
//	    expect: { delivered: true }
//	assertions:
//	  - type: cart_status
//	    cart: { cart_type: Adult, location: "ER – Main", cart_number: "12" }
//	    status: EXPIRED
//	  - type: selection
//	    active: true
//	    scope: crash-today
//	    count: 1
//
// Each step names exactly one operation. Record ids are "rec-001",
// "rec-002", ... in submission order.
//
// # Assertion Types
//
//   - cart_status: the derived status of one cart
//   - alerts: the exact alert lines, in order
//   - alert_count: the number of alert lines
//   - selection: the exposed selection state
//   - list_count: the number of entries rendered in one list
//   - artifact: a delivered artifact by name, optionally checking its body
//   - artifact_count: the number of delivered artifacts
//   - record_count: the number of stored records
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/expired_central.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
