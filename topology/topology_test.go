package topology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeNodes() *Network {
	return &Network{
		Name: "abc",
		Nodes: []NodeSpec{
			{Name: "A", Role: RoleMaster, Daemon: DaemonLnd, ListenPort: 9735, RPCPort: 11009, RESTPort: 8080},
			{Name: "B", Role: RolePeer, Daemon: DaemonLnd, ListenPort: 9736, RPCPort: 11010, RESTPort: 8081},
			{Name: "C", Role: RolePeer, Daemon: DaemonCLN, ListenPort: 9737, RPCPort: 11011},
		},
		Channels: []ChannelSpec{
			{ID: 1, From: "A", To: "B", Capacity: 100000},
			{ID: 2, From: "A", To: "C", Capacity: 200000},
			{ID: 3, From: "B", To: "C", Capacity: 300000, LocalBalance: 200000, RemoteBalance: 100000},
		},
	}
}

func requireConfigError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrConfiguration)
	assert.Contains(t, err.Error(), field)
}

func TestValidateAcceptsThreeNodes(t *testing.T) {
	n := threeNodes()
	require.NoError(t, n.Validate())

	assert.Equal(t, DefaultLedger(), n.Ledger)
	// Balances default to everything on the local side.
	assert.Equal(t, btcutil.Amount(100000), n.Channels[0].LocalBalance)
	assert.Equal(t, btcutil.Amount(0), n.Channels[0].RemoteBalance)
	assert.Equal(t, btcutil.Amount(200000), n.Channels[2].LocalBalance)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *Network)
		field  string
	}{
		{
			name:   "unknown node",
			mutate: func(n *Network) { n.Channels[1].To = "Z" },
			field:  "channels[1].to",
		},
		{
			name:   "shared port",
			mutate: func(n *Network) { n.Nodes[2].RPCPort = 9735 },
			field:  "nodes[2].rpc_port",
		},
		{
			name:   "port shared with ledger",
			mutate: func(n *Network) { n.Nodes[1].RESTPort = 18443 },
			field:  "nodes[1].rest_port",
		},
		{
			name: "local below remote",
			mutate: func(n *Network) {
				n.Channels[2].LocalBalance = 100000
				n.Channels[2].RemoteBalance = 200000
			},
			field: "channels[2].local_balance",
		},
		{
			name:   "balances above capacity",
			mutate: func(n *Network) { n.Channels[2].LocalBalance = 250000 },
			field:  "channels[2].remote_balance",
		},
		{
			name:   "reflexive channel",
			mutate: func(n *Network) { n.Channels[0].To = "A" },
			field:  "channels[0].to",
		},
		{
			name:   "duplicate channel id",
			mutate: func(n *Network) { n.Channels[2].ID = 1 },
			field:  "channels[2].id",
		},
		{
			name:   "gap in node names",
			mutate: func(n *Network) { n.Nodes[2].Name = "D" },
			field:  "nodes[2].name",
		},
		{
			name:   "lowercase name",
			mutate: func(n *Network) { n.Nodes[1].Name = "b" },
			field:  "nodes[1].name",
		},
		{
			name:   "master not A",
			mutate: func(n *Network) { n.Nodes[1].Role = RoleMaster },
			field:  "nodes[1].role",
		},
		{
			name:   "no master",
			mutate: func(n *Network) { n.Nodes[0].Role = RolePeer },
			field:  "nodes",
		},
		{
			name:   "unknown daemon",
			mutate: func(n *Network) { n.Nodes[0].Daemon = "eclair" },
			field:  "nodes[0].daemon",
		},
		{
			name:   "zero capacity",
			mutate: func(n *Network) { n.Channels[0].Capacity = 0 },
			field:  "channels[0].capacity",
		},
		{
			name:   "zero channel id",
			mutate: func(n *Network) { n.Channels[0].ID = 0 },
			field:  "channels[0].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := threeNodes()
			tt.mutate(n)
			requireConfigError(t, n.Validate(), tt.field)
		})
	}
}

func TestLimit(t *testing.T) {
	n := threeNodes()
	require.NoError(t, n.Validate())

	limited, err := n.Limit("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, limited.NodeNames())
	require.Len(t, limited.Channels, 1)
	assert.Equal(t, 1, limited.Channels[0].ID)

	// The original stays untouched.
	assert.Len(t, n.Nodes, 3)

	all, err := n.Limit("Z")
	require.NoError(t, err)
	assert.Len(t, all.Channels, 3)

	_, err = n.Limit("bb")
	requireConfigError(t, err, "node_limit")
}

func TestLimitKeepsChannelIDs(t *testing.T) {
	star, err := Builtin("star_ring")
	require.NoError(t, err)

	limited, err := star.Limit("C")
	require.NoError(t, err)

	var ids []int
	for _, c := range limited.OrderedChannels() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int{1, 4, 5}, ids)
}

func TestChannelsFrom(t *testing.T) {
	n := threeNodes()
	require.NoError(t, n.Validate())

	from := n.ChannelsFrom("A")
	require.Len(t, from, 2)
	assert.Equal(t, 1, from[0].ID)
	assert.Equal(t, 2, from[1].ID)
	assert.Empty(t, n.ChannelsFrom("C"))
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"simple", "star_ring", "star_ring_mixed"}, BuiltinNames())

	star, err := Builtin("star_ring")
	require.NoError(t, err)
	assert.Len(t, star.Nodes, 7)
	assert.Len(t, star.Channels, 12)
	assert.Equal(t, "A", star.Master().Name)

	c5, ok := star.Channel(5)
	require.True(t, ok)
	assert.Equal(t, "B", c5.From)
	assert.Equal(t, "C", c5.To)
	assert.Equal(t, btcutil.Amount(10000000), c5.Capacity)

	mixed, err := Builtin("star_ring_mixed")
	require.NoError(t, err)
	b, _ := mixed.Node("B")
	assert.Equal(t, DaemonCLN, b.Daemon)
	assert.Zero(t, b.RESTPort)

	simple, err := Builtin("simple")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, simple.NodeNames())
	assert.Equal(t, btcutil.Amount(300000), simple.Channels[2].Capacity)
	assert.Equal(t, btcutil.Amount(300000), simple.Channels[2].LocalBalance)

	_, err = Builtin("nope")
	requireConfigError(t, err, "unknown builtin")
}

func TestLoadYAMLAndTOML(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "net.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: pair
nodes:
  - name: A
    role: master
    daemon: lnd
    listen_port: 9735
    rpc_port: 11009
    rest_port: 8080
  - name: B
    role: peer
    daemon: cln
    listen_port: 9736
    rpc_port: 11010
channels:
  - id: 1
    from: A
    to: B
    capacity: 1000000
    local_balance: 600000
    remote_balance: 400000
`), 0o600))

	n, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "pair", n.Name)
	assert.Equal(t, DefaultLedger(), n.Ledger)
	assert.Equal(t, btcutil.Amount(400000), n.Channels[0].RemoteBalance)

	tomlPath := filepath.Join(dir, "net.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
name = "single"

[[nodes]]
name = "A"
role = "master"
daemon = "lnd"
listen_port = 9735
rpc_port = 11009
`), 0o600))

	n, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, n.NodeNames())
	assert.Empty(t, n.Channels)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`
name: typo
nodes:
  - name: A
    role: master
    daemon: lnd
    listen_port: 9735
    rpc_prot: 11009
`), FormatYAML)
	requireConfigError(t, err, "rpc_prot")
}

func TestResolve(t *testing.T) {
	n, err := Resolve("simple")
	require.NoError(t, err)
	assert.Equal(t, "simple", n.Name)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = FormatFromPath("net.json")
	requireConfigError(t, err, "unsupported")
}
