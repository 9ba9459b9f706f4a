package testframework

import (
	"testing"

	"github.com/elementsproject/lnregtest/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFreePorts(t *testing.T) {
	topo, err := topology.Builtin("star_ring_mixed")
	require.NoError(t, err)

	free, err := WithFreePorts(topo)
	require.NoError(t, err)
	require.NoError(t, free.Validate())

	seen := map[int]bool{}
	add := func(port int) {
		assert.NotZero(t, port)
		assert.False(t, seen[port], "port %d handed out twice", port)
		seen[port] = true
	}
	add(free.Ledger.RPCPort)
	add(free.Ledger.P2PPort)
	add(free.Ledger.ZMQBlockPort)
	add(free.Ledger.ZMQTxPort)
	for i, node := range free.Nodes {
		for _, port := range node.Ports() {
			add(port)
		}
		assert.Equal(t, topo.Nodes[i].RESTPort == 0, node.RESTPort == 0, node.Name)
	}

	// The source topology is left alone.
	assert.Equal(t, topology.DefaultLedger().RPCPort, topo.Ledger.RPCPort)
	assert.Equal(t, len(topo.Channels), len(free.Channels))
}

func TestDaemonProcessPrefix(t *testing.T) {
	p := NewDaemonProcess([]string{"lnd"}, "lnd-A")
	assert.Equal(t, "lnd-A", p.Prefix())
}
