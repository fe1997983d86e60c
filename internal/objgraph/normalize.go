package objgraph

import (
	"fmt"

	"github.com/kdiagnostics/kubediag/internal/causality"
)

// Raw mirrors the snapshot shape described in : a required
// pod map, a required events slice, and a set of optional object maps.
// This is the normalizer's only input type — everything downstream
// operates on the typed ObjectGraph it produces.
type Raw struct {
	Pod            map[string]interface{}
	Events         []map[string]interface{}
	PVC            map[string]interface{}
	PV             map[string]interface{}
	StorageClass   map[string]interface{}
	Node           map[string]interface{}
	Owner          map[string]interface{}
	ServiceAccount map[string]interface{}
	Secrets        []map[string]interface{}
	ConfigMaps     []map[string]interface{}
}

// Build normalizes raw into an ObjectGraph. The optional PVC, PV and
// StorageClass objects are attached as supplied; Build does not check
// that their names match the pod's claim, the PVC's volumeName or the
// PV's storageClassName.
// Returns an InputInvalidError when the pod is absent or structurally
// malformed.
func Build(raw Raw) (*ObjectGraph, error) {
	if raw.Pod == nil {
		return nil, causality.NewInputInvalid("pod object is required")
	}

	pod, err := normalizePod(raw.Pod)
	if err != nil {
		return nil, causality.NewInputInvalid(fmt.Sprintf("malformed pod: %v", err))
	}

	g := &ObjectGraph{Pod: *pod}

	if raw.PVC != nil {
		g.SetPVC(normalizePVC(raw.PVC))
	}
	if raw.PV != nil {
		g.SetPV(normalizePV(raw.PV))
	}
	if raw.StorageClass != nil {
		g.SetStorageClass(normalizeStorageClass(raw.StorageClass))
	}
	if raw.Node != nil {
		g.SetNode(normalizeNode(raw.Node))
	}
	if raw.Owner != nil {
		g.SetOwner(normalizeOwner(raw.Owner))
	}
	if raw.ServiceAccount != nil {
		name, _ := raw.ServiceAccount["metadata"].(map[string]interface{})
		g.SetServiceAccount(ServiceAccount{Name: stringField(name, "name"), Exists: true})
	}
	if raw.Secrets != nil {
		g.SetSecrets(namesOf(raw.Secrets))
	}
	if raw.ConfigMaps != nil {
		g.SetConfigMaps(namesOf(raw.ConfigMaps))
	}

	return g, nil
}

func namesOf(objs []map[string]interface{}) []string {
	names := make([]string, 0, len(objs))
	for _, o := range objs {
		meta, _ := o["metadata"].(map[string]interface{})
		if n := stringField(meta, "name"); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// --- map access helpers ---

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]interface{}, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// int64Field reads a unix-seconds timestamp field. Snapshots carry
// these as numbers, not RFC3339 strings, consistent with how events
// feed firstSeen/lastSeen into the timeline.
func int64Field(m map[string]interface{}, key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func boolField(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	v, _ := m[key].(bool)
	return v
}

func mapField(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]interface{})
	return v
}

func sliceField(m map[string]interface{}, key string) []interface{} {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]interface{})
	return v
}

func stringMapField(m map[string]interface{}, key string) map[string]string {
	raw := mapField(m, key)
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
