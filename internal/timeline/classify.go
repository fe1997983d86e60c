package timeline

// RawEvent mirrors the subset of a Kubernetes Event object the
// normalizer consults.
type RawEvent struct {
	Reason         string
	Message        string
	Source         string
	InvolvedObject string
	FirstSeen      int64
	LastSeen       int64
	Count          int
}

// classification pairs the Kind/Phase a reason maps to.
type classification struct {
	kind  Kind
	phase Phase
}

// reasonTable is the fixed reason→(kind,phase) mapping. Reasons not
// present here classify as Generic/Warning.
var reasonTable = map[string]classification{
	"FailedScheduling":       {KindScheduling, PhaseFailure},
	"Unschedulable":          {KindScheduling, PhaseFailure},
	"FailedMount":            {KindVolume, PhaseFailure},
	"ProvisioningFailed":     {KindVolume, PhaseFailure},
	"Failed":                 {KindImage, PhaseFailure},
	"ErrImagePull":           {KindImage, PhaseFailure},
	"ImagePullBackOff":       {KindImage, PhaseFailure},
	"BackOff":                {KindLifecycle, PhaseFailure},
	"OOMKilled":              {KindLifecycle, PhaseFailure},
	"Unhealthy":              {KindProbe, PhaseFailure},
	"FailedCreatePodSandBox": {KindNetwork, PhaseFailure},
	"Evicted":                {KindNodePressure, PhaseFailure},
	"NodeNotReady":           {KindNodePressure, PhaseFailure},
	"FailedCreate":           {KindOwner, PhaseFailure},
}

// classify returns the (kind, phase) pair for reason, defaulting to
// Generic/Warning for reasons outside the fixed table.
func classify(reason string) (Kind, Phase) {
	if c, ok := reasonTable[reason]; ok {
		return c.kind, c.phase
	}
	return KindGeneric, PhaseWarning
}

// Normalize classifies raw events and orders them by LastSeen
// ascending, breaking ties by input order, so evaluation over the
// same input is always deterministic.
func Normalize(events []RawEvent) []NormalizedEvent {
	out := make([]NormalizedEvent, 0, len(events))
	for i, e := range events {
		kind, phase := classify(e.Reason)
		out = append(out, NormalizedEvent{
			Kind:           kind,
			Phase:          phase,
			Reason:         e.Reason,
			Message:        e.Message,
			Source:         e.Source,
			FirstSeen:      e.FirstSeen,
			LastSeen:       e.LastSeen,
			Count:          e.Count,
			InvolvedObject: e.InvolvedObject,
			index:          i,
		})
	}
	stableSortByLastSeen(out)
	return out
}

func stableSortByLastSeen(events []NormalizedEvent) {
	// insertion sort: the corpus is small (tens of events at most) and
	// insertion sort is trivially stable, which a library sort without
	// an explicit tiebreak field would not guarantee as clearly.
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && less(events[j], events[j-1]) {
			events[j], events[j-1] = events[j-1], events[j]
			j--
		}
	}
}

func less(a, b NormalizedEvent) bool {
	if a.LastSeen != b.LastSeen {
		return a.LastSeen < b.LastSeen
	}
	return a.index < b.index
}
