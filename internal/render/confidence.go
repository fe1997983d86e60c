package render

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// fixedConfidence formats a confidence score with exactly three
// decimal places in both JSON and YAML, matching the text renderer's
// "%.3f" so a bare 0.9 reads as 0.900 in every output format instead
// of losing its trailing zeros to the default float encoding.
type fixedConfidence float64

func (f fixedConfidence) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(f), 'f', 3, 64)), nil
}

func (f fixedConfidence) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: strconv.FormatFloat(float64(f), 'f', 3, 64),
	}, nil
}
