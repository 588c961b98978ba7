package record

// DefaultLocations is used whenever no location list has been saved.
var DefaultLocations = []string{
	"4th Floor Tower – 4 South",
	"4th Floor Tower – 4 East",
	"3rd Floor Tower – 3 South",
	"3rd Floor Tower – 3 East",
	"ICU Pavilion – Pav A",
	"ICU Pavilion – Pav B",
	"ICU Pavilion – Pav C",
	"ER – Main",
	"X-Ray Dept",
	"Cath Lab",
	"Backup Cart – Central",
}

// Form defaults.
const (
	DefaultCartType   = "Adult"
	DefaultSupplyType = "Replenishment"
	DefaultSeverity   = SeverityLow
)

// Crash check reasons offered by the crash form.
const (
	ReasonAfterUse       = "After use (code event)"
	ReasonExpirationSwap = "Expiration swap"
	ReasonRoutineReseal  = "Routine reseal (seal broken)"
)

// DefaultReason is preselected on the crash form.
const DefaultReason = ReasonAfterUse

// RequiresExpiration reports whether a crash reason is expected to record
// new expiration dates.
func RequiresExpiration(reason string) bool {
	return reason == ReasonExpirationSwap || reason == ReasonRoutineReseal
}
