package objgraph

import "fmt"

func normalizePod(raw map[string]interface{}) (*Pod, error) {
	meta := mapField(raw, "metadata")
	status := mapField(raw, "status")
	spec := mapField(raw, "spec")

	name := stringField(meta, "name")
	if name == "" {
		return nil, fmt.Errorf("metadata.name is required")
	}

	p := &Pod{
		Name:      name,
		Namespace: stringField(meta, "namespace"),
		UID:       stringField(meta, "uid"),
		Phase:     stringField(status, "phase"),
	}

	for _, raw := range sliceField(status, "conditions") {
		cm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		p.Conditions = append(p.Conditions, PodCondition{
			Type:    stringField(cm, "type"),
			Status:  stringField(cm, "status"),
			Reason:  stringField(cm, "reason"),
			Message: stringField(cm, "message"),
		})
	}

	statuses := sliceField(status, "containerStatuses")
	for _, raw := range statuses {
		cs, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		p.ContainerStatuses = append(p.ContainerStatuses, normalizeContainerStatus(cs))
	}

	for _, own := range sliceField(meta, "ownerReferences") {
		om, ok := own.(map[string]interface{})
		if !ok {
			continue
		}
		p.OwnerKind = stringField(om, "kind")
		p.OwnerName = stringField(om, "name")
		break // only a single owning controller is tracked
	}

	p.NodeName = stringField(spec, "nodeName")
	p.Spec = normalizePodSpec(spec)

	return p, nil
}

func normalizeContainerStatus(cs map[string]interface{}) ContainerStatus {
	out := ContainerStatus{
		Name:         stringField(cs, "name"),
		Ready:        boolField(cs, "ready"),
		RestartCount: intField(cs, "restartCount"),
	}

	if waiting := mapField(cs, "state"); waiting != nil {
		if w := mapField(waiting, "waiting"); w != nil {
			out.WaitingReason = stringField(w, "reason")
			out.WaitingMessage = stringField(w, "message")
		}
	}

	if lastState := mapField(cs, "lastState"); lastState != nil {
		if t := mapField(lastState, "terminated"); t != nil {
			out.HasLastTermination = true
			out.LastTerminationReason = stringField(t, "reason")
			out.LastTerminationExitCode = intField(t, "exitCode")
		}
	}

	return out
}

func normalizePodSpec(spec map[string]interface{}) PodSpec {
	out := PodSpec{
		NodeSelector: stringMapField(spec, "nodeSelector"),
		Priority:     intField(spec, "priority"),
	}

	for _, raw := range sliceField(spec, "containers") {
		cm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		c := Container{
			Name:  stringField(cm, "name"),
			Image: stringField(cm, "image"),
		}
		if resources := mapField(cm, "resources"); resources != nil {
			if limits := mapField(resources, "limits"); limits != nil {
				_, c.HasMemoryLimit = limits["memory"]
			}
		}
		if readiness := mapField(cm, "readinessProbe"); readiness != nil {
			c.HasReadinessProbe = true
		}
		if liveness := mapField(cm, "livenessProbe"); liveness != nil {
			c.HasLivenessProbe = true
		}
		out.Containers = append(out.Containers, c)
	}

	for _, raw := range sliceField(spec, "volumes") {
		vm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		v := Volume{Name: stringField(vm, "name")}
		if pvc := mapField(vm, "persistentVolumeClaim"); pvc != nil {
			v.PVCClaimName = stringField(pvc, "claimName")
		}
		if secret := mapField(vm, "secret"); secret != nil {
			v.SecretName = stringField(secret, "secretName")
		}
		if cm := mapField(vm, "configMap"); cm != nil {
			v.ConfigMapName = stringField(cm, "name")
		}
		out.Volumes = append(out.Volumes, v)
	}

	for _, raw := range sliceField(spec, "tolerations") {
		tm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		out.Tolerations = append(out.Tolerations, Toleration{
			Key:      stringField(tm, "key"),
			Operator: stringField(tm, "operator"),
			Value:    stringField(tm, "value"),
			Effect:   stringField(tm, "effect"),
		})
	}

	if sc := mapField(spec, "securityContext"); sc != nil {
		out.HasSecurityContext = len(sc) > 0
	}

	out.ServiceAccountName = stringField(spec, "serviceAccountName")

	for _, raw := range sliceField(spec, "imagePullSecrets") {
		sm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if n := stringField(sm, "name"); n != "" {
			out.ImagePullSecrets = append(out.ImagePullSecrets, n)
		}
	}

	return out
}
