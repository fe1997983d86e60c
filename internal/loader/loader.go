// Package loader parses a JSON snapshot file into the engine's Input
// record, ignoring unknown extra keys rather than rejecting them.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kdiagnostics/kubediag/internal/objgraph"
)

// document mirrors the on-disk JSON snapshot shape.
type document struct {
	Pod            map[string]interface{}   `json:"pod"`
	Events         []map[string]interface{} `json:"events"`
	PVC            map[string]interface{}   `json:"pvc"`
	PV             map[string]interface{}   `json:"pv"`
	StorageClass   map[string]interface{}   `json:"storageclass"`
	Node           map[string]interface{}   `json:"node"`
	Owner          map[string]interface{}   `json:"owner"`
	ServiceAccount map[string]interface{}   `json:"serviceaccount"`
	Secrets        []map[string]interface{} `json:"secrets"`
	ConfigMaps     []map[string]interface{} `json:"configmaps"`
}

// LoadFile reads and decodes a snapshot file at path into objgraph.Raw.
// encoding/json already ignores unknown keys by default, satisfying
// the tolerance requirement without extra code.
func LoadFile(path string) (objgraph.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return objgraph.Raw{}, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses raw JSON bytes into objgraph.Raw.
func Decode(data []byte) (objgraph.Raw, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return objgraph.Raw{}, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return objgraph.Raw{
		Pod:            doc.Pod,
		Events:         doc.Events,
		PVC:            doc.PVC,
		PV:             doc.PV,
		StorageClass:   doc.StorageClass,
		Node:           doc.Node,
		Owner:          doc.Owner,
		ServiceAccount: doc.ServiceAccount,
		Secrets:        doc.Secrets,
		ConfigMaps:     doc.ConfigMaps,
	}, nil
}
