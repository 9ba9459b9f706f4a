package test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/elementsproject/lnregtest/network"
	"github.com/elementsproject/lnregtest/topology"
	"github.com/stretchr/testify/require"
)

// binDir is the directory holding the daemon binaries, PATH when empty.
func binDir() string {
	return os.Getenv("LNREGTEST_BIN_DIR")
}

// requireBinaries skips the test unless every daemon topo needs can be
// found.
func requireBinaries(t *testing.T, topo *topology.Network) {
	t.Helper()

	names := []string{"bitcoind"}
	for _, node := range topo.Nodes {
		switch node.Daemon {
		case topology.DaemonLnd:
			names = append(names, "lnd")
		case topology.DaemonCLN:
			names = append(names, "lightningd")
		}
	}
	for _, name := range names {
		path := name
		if dir := binDir(); dir != "" {
			path = filepath.Join(dir, name)
		}
		if _, err := exec.LookPath(path); err != nil {
			t.Skipf("%s not found, skipping", name)
		}
	}
}

// makeTestDataDir creates a temporary directory for test data with proper
// cleanup. It does not use t.TempDir() to keep unix socket paths short.
func makeTestDataDir(t *testing.T) string {
	t.Helper()

	if baseDir := os.Getenv("LNREGTEST_TEST_DIR"); baseDir != "" {
		testDir := filepath.Join(baseDir, fmt.Sprintf("t%d", time.Now().UnixNano()))
		require.NoError(t, os.MkdirAll(testDir, 0o755), "failed to create test dir in LNREGTEST_TEST_DIR")
		t.Cleanup(func() { removeTestDir(t, testDir) })
		return testDir
	}

	shortBase := "/tmp/lnrt"
	if err := os.MkdirAll(shortBase, 0o755); err == nil {
		testDir := filepath.Join(shortBase, fmt.Sprintf("%d-%d", os.Getpid(), time.Now().UnixNano()%1000000))
		if err := os.MkdirAll(testDir, 0o755); err == nil {
			t.Cleanup(func() { removeTestDir(t, testDir) })
			return testDir
		}
	}

	testDir, err := os.MkdirTemp("", "lnregtest-")
	require.NoError(t, err, "failed to create temp dir")
	t.Cleanup(func() { removeTestDir(t, testDir) })
	return testDir
}

func removeTestDir(t *testing.T, testDir string) {
	if t.Failed() && os.Getenv("LNREGTEST_KEEP_DIR") == "1" {
		t.Logf("keeping testDir %s", testDir)
		return
	}
	if err := os.RemoveAll(testDir); err != nil {
		t.Logf("Failed to remove testDir %s: %v", testDir, err)
	}
}

func testConfig(baseDir string) network.Config {
	cfg := network.DefaultConfig()
	cfg.BaseDir = baseDir
	cfg.BinaryDir = binDir()
	return cfg
}

// startNetwork runs topo in baseDir and stops it when the test ends. The
// daemon logs are printed if the test failed.
func startNetwork(t *testing.T, topo *topology.Network, cfg network.Config) *network.Network {
	t.Helper()

	n, err := network.New(topo, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if _, err := n.Stop(); err != nil {
			t.Logf("Stop() %v", err)
		}
	})
	DumpOnFailure(t, n)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	require.NoError(t, n.Run(ctx))
	return n
}
