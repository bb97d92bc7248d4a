package loader

// Outcome classifies a single unit load attempt.
type Outcome int

const (
	// Loaded means the unit produced a valid, working descriptor.
	Loaded Outcome = iota
	// Stubbed means the unit could not run because one or more declared
	// capabilities are unavailable; a stub descriptor stands in for it.
	Stubbed
	// Failed means the unit's load failed for a reason other than a missing
	// capability. A stub is still synthesized when the unit's manifest was
	// readable; otherwise the unit is visible only in diagnostics.
	Failed
)

// String returns the operator-facing name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Stubbed:
		return "stubbed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is the diagnostic result of one unit load attempt. Records are
// append-only: one per unit per load run.
type Record struct {
	// Unit is the unit's directory name.
	Unit string `json:"unit"`
	// NodeID is the node id recovered from the unit's manifest. Empty when
	// the manifest itself was unreadable.
	NodeID  string  `json:"node_id,omitempty"`
	Outcome Outcome `json:"outcome"`
	// MissingCapabilities lists the unavailable capabilities that degraded
	// the load. Empty for failures unrelated to capabilities.
	MissingCapabilities []string `json:"missing_capabilities,omitempty"`
	// ErrorDetail preserves the failure message for operator inspection.
	ErrorDetail string `json:"error_detail,omitempty"`
}

// MarshalText renders the outcome as its string name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
