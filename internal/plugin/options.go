package plugin

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeOptions decodes a host option map onto dst. Fields already set on dst
// act as defaults; keys that dst does not declare are rejected.
func DecodeOptions(options map[string]any, dst any) error {
	if len(options) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}

// EncodeOptions converts a typed configuration back into a host option map
// keyed by its yaml field names.
func EncodeOptions(src any) (map[string]any, error) {
	raw, err := yaml.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return out, nil
}
