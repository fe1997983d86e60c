// Package causality defines the value types the resolution engine
// reasons over: evidenced causes, evidence records, causal chains, and
// the final Explanation record. All types are immutable once built —
// callers never mutate a Cause or CausalChain after construction.
package causality

import "github.com/google/uuid"

// EvidenceSource identifies where a piece of evidence came from. Source
// determines evidenceQuality weighting in the engine's confidence
// composition.
type EvidenceSource string

const (
	SourceObjectState EvidenceSource = "ObjectState"
	SourceCondition    EvidenceSource = "Condition"
	SourceEvent        EvidenceSource = "Event"
	SourceTimeline     EvidenceSource = "Timeline"
)

// SourceWeight returns the evidenceQuality weight for a source, per
// ObjectState=1.0, Condition=0.9, Timeline=0.75, Event=0.6.
func SourceWeight(s EvidenceSource) float64 {
	switch s {
	case SourceObjectState:
		return 1.0
	case SourceCondition:
		return 0.9
	case SourceTimeline:
		return 0.75
	case SourceEvent:
		return 0.6
	default:
		return 0.0
	}
}

// Evidence is a record attached to a Cause explaining how it was
// derived.
type Evidence struct {
	Source  EvidenceSource `json:"source" yaml:"source"`
	Locator string         `json:"locator" yaml:"locator"` // field path or event reason
	Snippet string         `json:"snippet" yaml:"snippet"`
}

// InvolvedObject identifies the resource a Cause is about. Together
// with Kind it forms a Cause's identity.
type InvolvedObject struct {
	Kind      string `json:"kind" yaml:"kind"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string `json:"name" yaml:"name"`
	UID       string `json:"uid,omitempty" yaml:"uid,omitempty"`
}

// Severity classifies how serious a Cause is, independent of
// confidence.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Cause is a named, evidenced claim about why the pod is in its
// current state.
type Cause struct {
	ID             string         `json:"id" yaml:"id"`
	Kind           string         `json:"kind" yaml:"kind"`
	InvolvedObject InvolvedObject `json:"involvedObject" yaml:"involvedObject"`
	Message        string         `json:"message" yaml:"message"`
	Evidence       []Evidence     `json:"evidence" yaml:"evidence"`
	Confidence     float64        `json:"confidence" yaml:"confidence"`
	Severity       Severity       `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// identity returns the (kind, involvedObject) tuple that defines a
// Cause's identity for deduplication.
func (c Cause) identity() string {
	io := c.InvolvedObject
	return c.Kind + "|" + io.Kind + "|" + io.Namespace + "|" + io.Name + "|" + io.UID
}

// CausalChain bundles root-cause claims, observable symptoms, and
// corroborating contributing factors.
type CausalChain struct {
	Causes       []Cause `json:"causes" yaml:"causes"`
	Symptoms     []Cause `json:"symptoms" yaml:"symptoms"`
	Contributing []Cause `json:"contributing" yaml:"contributing"`
}

// evidenceQuality scores the quality of a cause, keeping the highest
// copy on dedup — higher evidence weight, then more evidence entries,
// then higher declared confidence.
func evidenceQuality(c Cause) (float64, int, float64) {
	best := 0.0
	for _, e := range c.Evidence {
		if w := SourceWeight(e.Source); w > best {
			best = w
		}
	}
	return best, len(c.Evidence), c.Confidence
}

// betterCause reports whether candidate should replace incumbent when
// deduplicating by identity: retain the highest evidence-quality copy.
func betterCause(candidate, incumbent Cause) bool {
	cw, cn, cc := evidenceQuality(candidate)
	iw, in, ic := evidenceQuality(incumbent)
	if cw != iw {
		return cw > iw
	}
	if cn != in {
		return cn > in
	}
	return cc > ic
}

// DedupCauses removes duplicate causes by identity, retaining the
// highest evidence-quality copy and preserving first-occurrence order.
func DedupCauses(causes []Cause) []Cause {
	order := make([]string, 0, len(causes))
	best := make(map[string]Cause, len(causes))
	for _, c := range causes {
		id := c.identity()
		if existing, ok := best[id]; ok {
			if betterCause(c, existing) {
				best[id] = c
			}
			continue
		}
		best[id] = c
		order = append(order, id)
	}
	out := make([]Cause, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

// ContainsIdentity reports whether causes already contains a cause with
// the same identity as c.
func ContainsIdentity(causes []Cause, c Cause) bool {
	target := c.identity()
	for _, existing := range causes {
		if existing.identity() == target {
			return true
		}
	}
	return false
}

// causeIDNamespace roots the deterministic UUIDv5 space Cause IDs are
// drawn from, so the same (kind, involvedObject) identity always
// produces the same ID across runs.
var causeIDNamespace = uuid.MustParse("9c6a9b1e-2e6f-4b39-9e3f-4a8d2f0b7c11")

// StampID assigns c a deterministic UUIDv5 ID derived from its identity
// if it does not already have one. Rule authors normally leave ID
// empty; the engine calls this once a cause is produced, so IDs stay
// stable across repeated runs against identical input without
// resorting to randomness.
func StampID(c Cause) Cause {
	if c.ID != "" {
		return c
	}
	c.ID = uuid.NewSHA1(causeIDNamespace, []byte(c.identity())).String()
	return c
}

// StampChain stamps IDs on every cause in chain's Causes, Symptoms, and
// Contributing slices.
func StampChain(chain CausalChain) CausalChain {
	chain.Causes = stampAll(chain.Causes)
	chain.Symptoms = stampAll(chain.Symptoms)
	chain.Contributing = stampAll(chain.Contributing)
	return chain
}

func stampAll(causes []Cause) []Cause {
	if causes == nil {
		return nil
	}
	out := make([]Cause, len(causes))
	for i, c := range causes {
		out[i] = StampID(c)
	}
	return out
}
