package subtitle

import "time"

// Resolve returns the entry active at time t, or nil when no entry covers t.
// Both interval ends are inclusive. Entries are expected sorted by start time
// and non-overlapping; if that invariant is violated, the first matching
// entry in stored order wins. That is a deliberate tie-break over malformed
// input, not a correctness guarantee.
func Resolve(entries []Entry, t time.Duration) *Entry {
	for i := range entries {
		if t >= entries[i].Start && t <= entries[i].End {
			return &entries[i]
		}
	}
	return nil
}
