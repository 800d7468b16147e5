package entity

// PlayerSegment partitions traffic into real players, internal/test accounts
// and the union of both. Every query in the engine is filtered identically by
// the requested segment.
type PlayerSegment string

const (
	SegmentAll      PlayerSegment = "all"
	SegmentReal     PlayerSegment = "real"
	SegmentInternal PlayerSegment = "internal"
)

// ParsePlayerSegment normalizes a caller-supplied player type, defaulting to
// SegmentAll for empty or unknown values.
func ParsePlayerSegment(s string) PlayerSegment {
	switch PlayerSegment(s) {
	case SegmentReal:
		return SegmentReal
	case SegmentInternal:
		return SegmentInternal
	default:
		return SegmentAll
	}
}

// String implements fmt.Stringer.
func (p PlayerSegment) String() string { return string(p) }
