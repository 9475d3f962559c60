// Package records defines the normalized interaction record consumed by the
// graph engine. Records are produced by an external normalizer; this package
// only carries the type, its usage-type vocabulary, and validity checks.
package records

import "strings"

// Usage types as emitted by the normalizer. The direction classification
// (outgoing vs incoming) is decided upstream and encoded in the type name;
// the engine never re-derives it from raw carrier data.
const (
	UsageOutgoingCall = "outgoing_call"
	UsageIncomingCall = "incoming_call"
	UsageOutgoingSMS  = "outgoing_sms"
	UsageIncomingSMS  = "incoming_sms"
)

// InteractionRecord is a single normalized call or SMS event.
type InteractionRecord struct {
	InitiatorID     string `json:"initiator_id"`
	RecipientID     string `json:"recipient_id"`
	UsageType       string `json:"usage_type"`
	TimestampMs     int64  `json:"timestamp_ms"`
	DurationSeconds int64  `json:"duration_seconds"`
	TowerID         string `json:"tower_id,omitempty"`
	DeviceID        string `json:"device_id,omitempty"`
	FileID          string `json:"file_id"`
}

// IsIncoming reports whether the record's usage type reverses attribution:
// for incoming types the nominal recipient is the true initiator.
func IsIncoming(usageType string) bool {
	return strings.HasPrefix(usageType, "incoming")
}

// IsValid reports whether the record is well-formed enough to aggregate.
// Malformed records are skipped during build, never fatal.
func (r InteractionRecord) IsValid() bool {
	if r.InitiatorID == "" || r.RecipientID == "" {
		return false
	}
	if r.UsageType == "" {
		return false
	}
	return r.TimestampMs >= 0
}

// EffectiveParties returns the true (source, target) pair after applying the
// direction classification.
func (r InteractionRecord) EffectiveParties() (sourceID, targetID string) {
	if IsIncoming(r.UsageType) {
		return r.RecipientID, r.InitiatorID
	}
	return r.InitiatorID, r.RecipientID
}
