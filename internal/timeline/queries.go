package timeline

// Timeline is the ordered, queryable view over a pod's normalized
// events. Construction always goes through Normalize so the
// ordering invariant holds for every query below.
type Timeline struct {
	Events []NormalizedEvent
}

// New builds a Timeline from raw events.
func New(events []RawEvent) Timeline {
	return Timeline{Events: Normalize(events)}
}

// Has reports whether any event matches reason.
func (t Timeline) Has(reason string) bool {
	for _, e := range t.Events {
		if e.Reason == reason {
			return true
		}
	}
	return false
}

// HasKind reports whether any event has the given kind.
func (t Timeline) HasKind(kind Kind) bool {
	for _, e := range t.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Count returns the number of events matching reason. When an event
// carries a Count > 1 (a Kubernetes event aggregating repeats), that
// count is summed rather than counted as one occurrence.
func (t Timeline) Count(reason string) int {
	n := 0
	for _, e := range t.Events {
		if e.Reason == reason {
			if e.Count > 0 {
				n += e.Count
			} else {
				n++
			}
		}
	}
	return n
}

// First returns the earliest event matching reason, by timeline order.
func (t Timeline) First(reason string) (NormalizedEvent, bool) {
	for _, e := range t.Events {
		if e.Reason == reason {
			return e, true
		}
	}
	return NormalizedEvent{}, false
}

// Last returns the latest event matching reason, by timeline order.
func (t Timeline) Last(reason string) (NormalizedEvent, bool) {
	var found NormalizedEvent
	ok := false
	for _, e := range t.Events {
		if e.Reason == reason {
			found = e
			ok = true
		}
	}
	return found, ok
}

// DurationBetween returns LastSeen(to) - FirstSeen(from) in seconds,
// and false if either reason is absent or either timestamp is
// unknown (zero) — forbids inferring durations from missing
// timestamps.
func (t Timeline) DurationBetween(from, to string) (int64, bool) {
	fromEv, ok := t.First(from)
	if !ok || fromEv.FirstSeen == 0 {
		return 0, false
	}
	toEv, ok := t.Last(to)
	if !ok || toEv.LastSeen == 0 {
		return 0, false
	}
	d := toEv.LastSeen - fromEv.FirstSeen
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Repeated reports whether reason occurred at least min times within
// the trailing within seconds, measured back from that reason's most
// recent LastSeen. within <= 0 means unbounded (plain occurrence
// count). When within > 0 but any matching event's LastSeen is zero
// (unknown), the window can't be computed honestly, so the decision
// falls back to raw occurrence count rather than inferring a
// repetition window from absent timestamps.
func (t Timeline) Repeated(reason string, min int, within int64) bool {
	if within <= 0 {
		return t.Count(reason) >= min
	}

	var matches []NormalizedEvent
	for _, e := range t.Events {
		if e.Reason == reason {
			if e.LastSeen == 0 {
				return t.Count(reason) >= min
			}
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return false
	}

	latest := matches[len(matches)-1].LastSeen
	n := 0
	for _, e := range matches {
		if latest-e.LastSeen > within {
			continue
		}
		if e.Count > 0 {
			n += e.Count
		} else {
			n++
		}
	}
	return n >= min
}

// Pattern reports whether the given reasons all occur, in the given
// relative order, within the timeline. It does not require
// adjacency, only relative ordering by LastSeen.
func (t Timeline) Pattern(reasons ...string) bool {
	idx := 0
	for _, e := range t.Events {
		if idx >= len(reasons) {
			break
		}
		if e.Reason == reasons[idx] {
			idx++
		}
	}
	return idx == len(reasons)
}
