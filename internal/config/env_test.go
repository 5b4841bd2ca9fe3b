package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBool(t *testing.T) {
	tests := []struct {
		value string
		set   bool
		want  bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"True", true, true},
		{"1", true, true},
		{"0", true, false},
		{"false", true, false},
		{"yes", true, false},
		{" true", true, false},
		{"", true, false},
		{"", false, false},
	}
	for _, tt := range tests {
		env := MapEnv{}
		if tt.set {
			env["FLAG"] = tt.value
		}
		assert.Equal(t, tt.want, Bool(env, "FLAG"), "value %q set=%v", tt.value, tt.set)
	}
}

func TestString(t *testing.T) {
	env := MapEnv{"SET": "value", "EMPTY": ""}

	assert.Equal(t, "value", String(env, "SET", "def"))
	assert.Equal(t, "", String(env, "EMPTY", "def"), "set but empty is not defaulted")
	assert.Equal(t, "def", String(env, "MISSING", "def"))
	assert.Equal(t, "def", String(nil, "SET", "def"))
}

func TestLayeredEnv(t *testing.T) {
	env := LayeredEnv{nil, MapEnv{"A": "first"}, MapEnv{"A": "second", "B": "b"}}

	v, ok := env.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, "b", String(env, "B", ""))

	_, ok = env.Lookup("C")
	assert.False(t, ok)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# kroki\nKROKI_SERVER_URL=https://kroki.internal\nKROKI_DOWNLOAD_IMAGES=\"true\"\n"), 0o600))

	env, err := LoadEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://kroki.internal", env["KROKI_SERVER_URL"])
	assert.True(t, Bool(env, "KROKI_DOWNLOAD_IMAGES"))

	_, err = LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestOSEnv(t *testing.T) {
	t.Setenv("TECHDOCS_CORE_TEST_VAR", "x")
	assert.Equal(t, "x", String(OSEnv, "TECHDOCS_CORE_TEST_VAR", ""))
}
