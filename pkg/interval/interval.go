// Package interval provides half-open time interval arithmetic for the
// temporal filtering layer. All timestamps are Unix milliseconds.
package interval

// Span is a half-open interval [StartMs, EndMs). A span with EndMs <= StartMs
// is empty.
type Span struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

// NewSpan returns the span [startMs, endMs).
func NewSpan(startMs, endMs int64) Span {
	return Span{StartMs: startMs, EndMs: endMs}
}

// IsEmpty reports whether the span contains no instants.
func (s Span) IsEmpty() bool {
	return s.EndMs <= s.StartMs
}

// Contains reports whether the instant tMs falls within the span.
func (s Span) Contains(tMs int64) bool {
	return tMs >= s.StartMs && tMs < s.EndMs
}

// Intersects reports whether two half-open spans share at least one instant.
// Empty spans intersect nothing.
func (s Span) Intersects(other Span) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	return s.StartMs < other.EndMs && other.StartMs < s.EndMs
}

// Union returns the smallest span covering both s and other. Empty operands
// are ignored.
func (s Span) Union(other Span) Span {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}
	out := s
	if other.StartMs < out.StartMs {
		out.StartMs = other.StartMs
	}
	if other.EndMs > out.EndMs {
		out.EndMs = other.EndMs
	}
	return out
}

// Extend grows the span to include the instant tMs. Extending the zero span
// yields the single-instant span [tMs, tMs+1).
func (s Span) Extend(tMs int64) Span {
	if s == (Span{}) {
		return Span{StartMs: tMs, EndMs: tMs + 1}
	}
	out := s
	if tMs < out.StartMs {
		out.StartMs = tMs
	}
	if tMs >= out.EndMs {
		out.EndMs = tMs + 1
	}
	return out
}

// ClosedIntersects reports whether the closed intervals [aFirst, aLast] and
// [bFirst, bLast] overlap. Node and edge activity ranges are stored as
// closed first/last timestamps, so temporal filtering uses this form.
func ClosedIntersects(aFirst, aLast, bFirst, bLast int64) bool {
	return aFirst <= bLast && bFirst <= aLast
}
