package objgraph

func normalizePVC(raw map[string]interface{}) PVC {
	meta := mapField(raw, "metadata")
	status := mapField(raw, "status")
	spec := mapField(raw, "spec")
	return PVC{
		Name:       stringField(meta, "name"),
		Namespace:  stringField(meta, "namespace"),
		Phase:      stringField(status, "phase"),
		VolumeName: stringField(spec, "volumeName"),
	}
}

func normalizePV(raw map[string]interface{}) PV {
	meta := mapField(raw, "metadata")
	status := mapField(raw, "status")
	spec := mapField(raw, "spec")
	return PV{
		Name:             stringField(meta, "name"),
		Phase:            stringField(status, "phase"),
		StorageClassName: stringField(spec, "storageClassName"),
	}
}

func normalizeStorageClass(raw map[string]interface{}) StorageClass {
	meta := mapField(raw, "metadata")
	return StorageClass{
		Name:              stringField(meta, "name"),
		Provisioner:       stringField(raw, "provisioner"),
		VolumeBindingMode: stringField(raw, "volumeBindingMode"),
	}
}

func normalizeNode(raw map[string]interface{}) Node {
	meta := mapField(raw, "metadata")
	status := mapField(raw, "status")
	spec := mapField(raw, "spec")

	n := Node{
		Name:          stringField(meta, "name"),
		Unschedulable: boolField(spec, "unschedulable"),
	}

	for _, raw := range sliceField(status, "conditions") {
		cm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		n.Conditions = append(n.Conditions, NodeCondition{
			Type:               stringField(cm, "type"),
			Status:             stringField(cm, "status"),
			Reason:             stringField(cm, "reason"),
			LastTransitionTime: int64Field(cm, "lastTransitionTime"),
		})
	}

	for _, raw := range sliceField(spec, "taints") {
		tm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		n.Taints = append(n.Taints, Toleration{
			Key:    stringField(tm, "key"),
			Value:  stringField(tm, "value"),
			Effect: stringField(tm, "effect"),
		})
	}

	return n
}

func normalizeOwner(raw map[string]interface{}) Owner {
	meta := mapField(raw, "metadata")
	status := mapField(raw, "status")
	return Owner{
		Kind:            stringField(raw, "kind"),
		Name:            stringField(meta, "name"),
		DesiredReplicas: intField(status, "replicas"),
		ReadyReplicas:   intField(status, "readyReplicas"),
	}
}

// CrossLink does nothing. A snapshot carries at most one PVC, PV and
// StorageClass, Build attaches each one as supplied, and no code
// compares the pod's claim name, the PVC's volumeName or the PV's
// storageClassName against the attached objects.
func (g *ObjectGraph) CrossLink() {
	// Presence-only cross-linking: a PVC referenced by a pod volume but
	// not supplied in the input is simply absent (Present(KindPVC) is
	// false), which rules interpret as "unknown", not as an error.
}

// PodClaimsPVC reports whether the pod has a volume backed by a
// persistentVolumeClaim, and returns the claim name.
func (g *ObjectGraph) PodClaimsPVC() (string, bool) {
	for _, v := range g.Pod.Spec.Volumes {
		if v.PVCClaimName != "" {
			return v.PVCClaimName, true
		}
	}
	return "", false
}
