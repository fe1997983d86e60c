package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "pod": {"metadata": {"name": "web-0", "namespace": "default"}, "status": {"phase": "Pending"}},
  "events": [{"reason": "FailedScheduling", "message": "0/3 nodes available"}],
  "node": {"metadata": {"name": "node-1"}},
  "unknownTopLevelField": "ignored"
}`

func TestDecodeParsesKnownFields(t *testing.T) {
	raw, err := Decode([]byte(sampleSnapshot))
	require.NoError(t, err)

	meta := raw.Pod["metadata"].(map[string]interface{})
	assert.Equal(t, "web-0", meta["name"])
	require.Len(t, raw.Events, 1)
	assert.Equal(t, "FailedScheduling", raw.Events[0]["reason"])
	assert.NotNil(t, raw.Node)
	assert.Nil(t, raw.PVC)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestLoadFileReadsAndDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o644))

	raw, err := LoadFile(path)
	require.NoError(t, err)
	meta := raw.Pod["metadata"].(map[string]interface{})
	assert.Equal(t, "web-0", meta["name"])
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
