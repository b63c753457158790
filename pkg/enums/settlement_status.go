package enums

import "fmt"

// SettlementStatus is the approval state of a cash settlement report.
// Reports move from pending to exactly one of approved or rejected and are
// never reopened.
type SettlementStatus string

const (
	SettlementStatusPending  SettlementStatus = "pending"
	SettlementStatusApproved SettlementStatus = "approved"
	SettlementStatusRejected SettlementStatus = "rejected"
)

var validSettlementStatuses = []SettlementStatus{
	SettlementStatusPending,
	SettlementStatusApproved,
	SettlementStatusRejected,
}

// String implements fmt.Stringer.
func (s SettlementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettlementStatus.
func (s SettlementStatus) IsValid() bool {
	for _, candidate := range validSettlementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsResolved reports whether the report has left the pending state.
func (s SettlementStatus) IsResolved() bool {
	return s == SettlementStatusApproved || s == SettlementStatusRejected
}

// ParseSettlementStatus converts raw input into a SettlementStatus.
func ParseSettlementStatus(value string) (SettlementStatus, error) {
	for _, candidate := range validSettlementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement status %q", value)
}
