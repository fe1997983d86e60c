package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForKindReturnsKnownChecks(t *testing.T) {
	got := ForKind("PVCNotBound")
	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "kubectl describe pvc")
}

func TestForKindUnknownKindReturnsNil(t *testing.T) {
	assert.Nil(t, ForKind("NotARealCauseKind"))
}

func TestForKindReturnsACopyNotTheSharedSlice(t *testing.T) {
	got := ForKind("OOMKilled")
	got[0] = "mutated"

	again := ForKind("OOMKilled")
	assert.NotEqual(t, "mutated", again[0])
}

func TestDefaultReturnsAdvisoryChecks(t *testing.T) {
	assert.Len(t, Default(), 2)
}
