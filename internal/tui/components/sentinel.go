package components

// Sentinel is the scroll trigger for infinite lists. It reports whether the
// selection is close enough to the end of the loaded items that the next
// page should be requested.
//
// The signal is level-triggered, not edge-triggered: Intersecting stays true
// for every cursor move inside the threshold zone, and the caller is
// expected to gate duplicate fetches on the list's loading and hasMore
// flags rather than on this signal going false in between.
type Sentinel struct {
	// Threshold is how many rows before the end the trigger fires.
	// Values below 1 behave as 1 (fire on the last row).
	Threshold int
}

// NewSentinel creates a sentinel that fires threshold rows before the end
func NewSentinel(threshold int) Sentinel {
	return Sentinel{Threshold: threshold}
}

// Intersecting reports whether the cursor at index is within the trigger
// zone of a list holding count items. An empty list never intersects;
// requesting its first page is the view's mount concern, not a scroll
// concern.
func (s Sentinel) Intersecting(index, count int) bool {
	if count == 0 {
		return false
	}
	threshold := s.Threshold
	if threshold < 1 {
		threshold = 1
	}
	return index >= count-threshold
}
