// Package objgraph implements the ObjectGraph value type: a labeled,
// immutable-after-construction view over a pod and the cluster objects
// related to it. Raw inputs arrive as untyped maps (mirroring
// Kubernetes API object JSON shapes); objgraph walks those maps the
// way internal/analysis/anomaly/detector.go walks snapshot data,
// rather than decoding into typed k8s.io/api structs, so legacy or
// partial fixtures that would fail strict decoding are still
// tolerated.
package objgraph

import "github.com/kdiagnostics/kubediag/internal/causality"

// Kind enumerates the object kinds an ObjectGraph may carry.
type Kind string

const (
	KindPod            Kind = "pod"
	KindEvents         Kind = "events"
	KindPVC            Kind = "pvc"
	KindPV             Kind = "pv"
	KindStorageClass   Kind = "storageclass"
	KindNode           Kind = "node"
	KindOwner          Kind = "owner"
	KindServiceAccount Kind = "serviceaccount"
	KindSecrets        Kind = "secrets"
	KindConfigMaps     Kind = "configmaps"
)

// ContainerStatus mirrors the subset of a Kubernetes container status
// the rule corpus consults.
type ContainerStatus struct {
	Name                 string
	Ready                bool
	RestartCount         int
	WaitingReason        string
	WaitingMessage       string
	LastTerminationReason string
	LastTerminationExitCode int
	HasLastTermination   bool
}

// Toleration mirrors a pod spec toleration entry.
type Toleration struct {
	Key      string
	Operator string
	Value    string
	Effect   string
}

// Volume mirrors a pod spec volume relevant to storage diagnosis.
type Volume struct {
	Name         string
	PVCClaimName string // set when this volume is a persistentVolumeClaim
	SecretName   string
	ConfigMapName string
}

// Container mirrors the subset of a pod spec container the rule corpus
// consults.
type Container struct {
	Name            string
	Image           string
	HasMemoryLimit  bool
	HasReadinessProbe bool
	HasLivenessProbe bool
}

// PodSpec mirrors the subset of a pod's spec consulted by the rule
// corpus.
type PodSpec struct {
	Containers          []Container
	Volumes             []Volume
	NodeSelector        map[string]string
	Tolerations         []Toleration
	Priority            int
	HasSecurityContext  bool
	ServiceAccountName  string
	ImagePullSecrets    []string
}

// PodCondition mirrors a pod status condition.
type PodCondition struct {
	Type    string
	Status  string
	Reason  string
	Message string
}

// Pod is the normalized view of the subject workload. Always present.
type Pod struct {
	Name               string
	Namespace          string
	UID                string
	Phase              string
	Conditions         []PodCondition
	ContainerStatuses  []ContainerStatus
	OwnerKind          string
	OwnerName          string
	NodeName           string
	Spec               PodSpec
}

// PVC is the normalized view of a PersistentVolumeClaim.
type PVC struct {
	Name       string
	Namespace  string
	Phase      string
	VolumeName string // PV this claim is bound to, if any
}

// PV is the normalized view of a PersistentVolume.
type PV struct {
	Name             string
	Phase            string
	StorageClassName string
}

// StorageClass is the normalized view of a StorageClass.
type StorageClass struct {
	Name                string
	Provisioner         string
	VolumeBindingMode   string
}

// NodeCondition mirrors a node status condition, derived
type NodeCondition struct {
	Type               string
	Status             string
	Reason             string
	LastTransitionTime int64 // unix seconds, 0 if unknown
}

// Node is the normalized view of the node a pod is scheduled on.
type Node struct {
	Name       string
	Unschedulable bool
	Conditions []NodeCondition
	Taints     []Toleration // taints share the (key,value,effect) shape
}

// Owner is the normalized view of a pod's owning controller
// (ReplicaSet/Deployment/StatefulSet).
type Owner struct {
	Kind            string
	Name            string
	DesiredReplicas int
	ReadyReplicas   int
}

// ServiceAccount is the normalized view of the pod's service account.
type ServiceAccount struct {
	Name   string
	Exists bool
}

// ObjectGraph is the normalized, acyclic view over a pod and its
// related cluster objects. Fields are nil/zero-value when the
// corresponding object was absent from the input, distinguishing
// "missing" from "present but empty" via the Has* flags.
type ObjectGraph struct {
	Pod Pod // required

	hasPVC bool
	PVC    PVC

	hasPV bool
	PV    PV

	hasStorageClass bool
	StorageClass    StorageClass

	hasNode bool
	Node    Node

	hasOwner bool
	Owner    Owner

	hasServiceAccount bool
	ServiceAccount    ServiceAccount

	hasSecrets    bool
	SecretNames   []string

	hasConfigMaps bool
	ConfigMapNames []string
}

// PodInvolvedObject returns the causality.InvolvedObject identifying
// this graph's subject pod, the identity most rules attach their
// Cause to.
func (g *ObjectGraph) PodInvolvedObject() causality.InvolvedObject {
	return causality.InvolvedObject{Kind: "Pod", Namespace: g.Pod.Namespace, Name: g.Pod.Name, UID: g.Pod.UID}
}

// Present reports whether kind was supplied in the original input.
func (g *ObjectGraph) Present(kind Kind) bool {
	switch kind {
	case KindPod:
		return true
	case KindPVC:
		return g.hasPVC
	case KindPV:
		return g.hasPV
	case KindStorageClass:
		return g.hasStorageClass
	case KindNode:
		return g.hasNode
	case KindOwner:
		return g.hasOwner
	case KindServiceAccount:
		return g.hasServiceAccount
	case KindSecrets:
		return g.hasSecrets
	case KindConfigMaps:
		return g.hasConfigMaps
	default:
		return false
	}
}

// RequireAll reports whether every kind in kinds is present in the
// graph. Used by the Registry's requirement filter.
func (g *ObjectGraph) RequireAll(kinds []Kind) bool {
	for _, k := range kinds {
		if !g.Present(k) {
			return false
		}
	}
	return true
}

// CountPresent returns how many of the given optional kinds are
// present, used for the dataCompleteness confidence factor.
func (g *ObjectGraph) CountPresent(kinds []Kind) int {
	n := 0
	for _, k := range kinds {
		if g.Present(k) {
			n++
		}
	}
	return n
}

// SetPVC marks the PVC as present with the given value.
func (g *ObjectGraph) SetPVC(v PVC) { g.hasPVC = true; g.PVC = v }

// SetPV marks the PV as present with the given value.
func (g *ObjectGraph) SetPV(v PV) { g.hasPV = true; g.PV = v }

// SetStorageClass marks the StorageClass as present with the given value.
func (g *ObjectGraph) SetStorageClass(v StorageClass) { g.hasStorageClass = true; g.StorageClass = v }

// SetNode marks the Node as present with the given value.
func (g *ObjectGraph) SetNode(v Node) { g.hasNode = true; g.Node = v }

// SetOwner marks the Owner as present with the given value.
func (g *ObjectGraph) SetOwner(v Owner) { g.hasOwner = true; g.Owner = v }

// SetServiceAccount marks the ServiceAccount as present with the given value.
func (g *ObjectGraph) SetServiceAccount(v ServiceAccount) { g.hasServiceAccount = true; g.ServiceAccount = v }

// SetSecrets marks secrets as present with the given names.
func (g *ObjectGraph) SetSecrets(names []string) { g.hasSecrets = true; g.SecretNames = names }

// SetConfigMaps marks configmaps as present with the given names.
func (g *ObjectGraph) SetConfigMaps(names []string) { g.hasConfigMaps = true; g.ConfigMapNames = names }
