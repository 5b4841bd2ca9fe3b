package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name  string   `yaml:"name"`
	Depth int      `yaml:"depth"`
	Tags  []string `yaml:"tags"`
}

func TestDecodeOptionsKeepsDefaults(t *testing.T) {
	cfg := sampleConfig{Name: "default", Depth: 2}

	require.NoError(t, DecodeOptions(map[string]any{"depth": 5}, &cfg))

	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 5, cfg.Depth)
}

func TestDecodeOptionsRejectsUnknownKeys(t *testing.T) {
	cfg := sampleConfig{}

	err := DecodeOptions(map[string]any{"colour": "blue"}, &cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestDecodeOptionsEmptyIsNoop(t *testing.T) {
	cfg := sampleConfig{Name: "x"}
	require.NoError(t, DecodeOptions(nil, &cfg))
	assert.Equal(t, "x", cfg.Name)
}

func TestEncodeOptions(t *testing.T) {
	out, err := EncodeOptions(sampleConfig{Name: "n", Depth: 1, Tags: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, "n", out["name"])
	assert.Equal(t, 1, out["depth"])
	assert.Equal(t, []any{"a"}, out["tags"])
}

type failingConfig struct{}

func (failingConfig) MarshalYAML() (any, error) { return nil, errors.New("broken") }

func TestEncodeOptionsReportsErrors(t *testing.T) {
	_, err := EncodeOptions(failingConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	_, err = EncodeOptions("not a mapping")
	assert.Error(t, err)
}
