// Package checks implements the Suggested-Checks Library: a static
// mapping from a Cause's symbolic kind to an ordered list of
// human-readable operator remediation checks. Unknown
// kinds yield an empty list; the only permitted interpolation is the
// involved object's name.
package checks

var library = map[string][]string{
	"UnschedulableTaint": {
		"inspect node taints with `kubectl describe nodes`",
		"inspect pod tolerations in spec.tolerations",
	},
	"UnschedulableNodeSelector": {
		"inspect pod spec.nodeSelector against node labels",
		"run `kubectl get nodes --show-labels`",
	},
	"UnschedulableInsufficientResources": {
		"inspect node allocatable capacity with `kubectl describe nodes`",
		"review pod resource requests in spec.containers[].resources.requests",
	},
	"SchedulingFlapping": {
		"inspect the FailedScheduling event history for recurring causes",
	},
	"ImagePullSecretMissingCompound": {
		"verify the image reference and registry credentials",
		"add the required secret to spec.imagePullSecrets",
	},
	"ImagePullBackOff": {
		"verify the image reference is correct and reachable",
		"check registry authentication and imagePullSecrets",
	},
	"ErrImagePull": {
		"verify the image reference is correct and reachable",
	},
	"ImageTagNotFound": {
		"confirm the image tag exists in the registry",
	},
	"PVCPendingThenCrashloopRule": {
		"inspect the PersistentVolumeClaim's events and storage class",
		"verify the provisioner has enough capacity",
	},
	"PVCNotBound": {
		"inspect the PersistentVolumeClaim's events with `kubectl describe pvc`",
		"confirm a matching StorageClass and provisioner exist",
	},
	"CrashLoopBackoff": {
		"inspect container logs for the crash reason",
		"check the container's last termination state",
	},
	"ProvisioningFailed": {
		"inspect the storage provisioner's logs",
	},
	"PVCBoundPVMissing": {
		"supply the PersistentVolume object for inspection",
	},
	"OOMKilled": {
		"review the container's memory limit against observed usage",
		"check for a memory leak or undersized limit",
	},
	"OOMKilledNoMemoryLimit": {
		"set a memory limit on the container to avoid node-wide pressure",
	},
	"ContainerNonZeroExit": {
		"inspect container logs for the exit reason",
	},
	"RapidRestartEscalation": {
		"inspect container logs across recent restarts",
	},
	"RepeatedProbeFailure": {
		"inspect probe configuration (path, port, timeout) against the application's actual readiness",
	},
	"LivenessProbeKillingContainer": {
		"increase the liveness probe's initialDelaySeconds or timeoutSeconds",
		"inspect application startup logs",
	},
	"NoReadinessProbeConfigured": {
		"add a readiness probe to the container spec",
	},
	"SandboxCreationFailed": {
		"inspect kubelet and CNI plugin logs on the node",
	},
	"NetworkNotReady": {
		"check CNI plugin health on the node",
	},
	"AdmissionWebhookRejected": {
		"inspect the webhook's rejection message for the specific policy violated",
	},
	"SecurityContextDenied": {
		"review the pod's securityContext against the cluster's admission policy",
	},
	"NodeNotReadyEvictedRule": {
		"inspect node disk usage and image garbage collection thresholds",
		"free up node disk space or reschedule to a healthier node",
	},
	"NodeNotReady": {
		"inspect node conditions with `kubectl describe node`",
	},
	"Evicted": {
		"inspect node resource pressure at the time of eviction",
	},
	"OwnerFailedCreate": {
		"inspect the owning controller's events",
	},
	"OwnerDesiredReplicasNotReady": {
		"inspect the other pods owned by the same controller",
	},
}

// ForKind returns the ordered checks for kind. Unknown kinds yield an
// empty slice.
func ForKind(kind string) []string {
	entries, ok := library[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}

// Default returns the advisory checks for the zero-match ("NoMatch")
// case
func Default() []string {
	return []string{
		"inspect pod status with `kubectl describe pod`",
		"inspect recent events with `kubectl get events`",
	}
}
