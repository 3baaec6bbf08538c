package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/stretchr/testify/require"
)

// WriteConfig writes content to config.yaml in a fresh temp dir and returns its path.
// It fails the test immediately on error.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write config")
	return path
}

// NewProvider returns a memory provider with the given ports already plugged.
func NewProvider(t *testing.T, inputs, outputs []string) *memory.Provider {
	t.Helper()

	p := memory.NewProvider()
	p.PlugInput(inputs...)
	p.PlugOutput(outputs...)
	return p
}
