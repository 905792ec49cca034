//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	t.Parallel()
	sess := NewSession(t)
	defer sess.Cleanup()

	workspace, err := sess.CreateTestWorkspace(WithProducts("Classic Shirt"))
	require.NoError(t, err, "Failed to create test workspace")

	// -url keeps the app away from the network; no -config uses the default location
	err = sess.StartApp("-url", sess.catalog.URL())
	require.NoError(t, err, "Failed to start app")
	require.True(t, sess.Ready(), "Should draw the title")

	path := filepath.Join(workspace, ".config", "combosearch", "config.toml")
	require.True(t, sess.WaitFor(func(string) bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second), "Should write the default config")
	require.True(t, sess.OutputContainsPlain("Saved", 3*time.Second), "Should announce the saved config")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), sess.catalog.URL(), "Flags must not become the saved defaults")
	require.Contains(t, string(data), "api.escuelajs.co", "The default endpoint is written")
}

func TestManualVariantFromConfig(t *testing.T) {
	t.Parallel()
	sess := NewSession(t)
	defer sess.Cleanup()

	_, err := sess.CreateTestWorkspace(WithProducts("Classic Shirt"), WithVariant("manual"))
	require.NoError(t, err, "Failed to create test workspace")

	require.NoError(t, sess.StartSearch(), "Failed to start app")
	require.True(t, sess.Ready(), "Should draw the title")
	require.True(t, sess.OutputContainsPlain("manual", 3*time.Second), "Should show the variant in the header")
	require.True(t, sess.OutputContainsPlain("Loaded", 3*time.Second), "Should announce the loaded config")
}
