// Package topology describes the target shape of a regtest network: which
// payment nodes exist, how they are reached and which channels connect them.
//
// A Network is a plain value. It is validated once, before any process is
// started, and then handed by reference to everything that needs it.
package topology

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
)

type Role string

const (
	RoleMaster Role = "master"
	RolePeer   Role = "peer"
)

type Daemon string

const (
	DaemonLnd Daemon = "lnd"
	DaemonCLN Daemon = "cln"
)

// MasterName is the name of the node every topology is anchored at.
const MasterName = "A"

// LedgerSpec holds the ports of the bitcoind instance backing the network.
type LedgerSpec struct {
	RPCPort      int `yaml:"rpc_port" toml:"rpc_port" validate:"required,min=1,max=65535"`
	P2PPort      int `yaml:"p2p_port" toml:"p2p_port" validate:"required,min=1,max=65535"`
	ZMQBlockPort int `yaml:"zmq_block_port" toml:"zmq_block_port" validate:"required,min=1,max=65535"`
	ZMQTxPort    int `yaml:"zmq_tx_port" toml:"zmq_tx_port" validate:"required,min=1,max=65535"`
}

type NodeSpec struct {
	Name   string `yaml:"name" toml:"name" validate:"required,len=1,uppercase"`
	Role   Role   `yaml:"role" toml:"role" validate:"required,oneof=master peer"`
	Daemon Daemon `yaml:"daemon" toml:"daemon" validate:"required,oneof=lnd cln"`

	ListenPort int `yaml:"listen_port" toml:"listen_port" validate:"required,min=1,max=65535"`
	RPCPort    int `yaml:"rpc_port" toml:"rpc_port" validate:"required,min=1,max=65535"`
	// RESTPort is only served by lnd.
	RESTPort int `yaml:"rest_port" toml:"rest_port" validate:"omitempty,min=1,max=65535"`

	BaseFeeMsat uint64 `yaml:"base_fee_msat" toml:"base_fee_msat"`
	FeeRatePPM  uint64 `yaml:"fee_rate_ppm" toml:"fee_rate_ppm"`
}

// Ports returns every port the node binds, keyed by field name.
func (n NodeSpec) Ports() map[string]int {
	ports := map[string]int{
		"listen_port": n.ListenPort,
		"rpc_port":    n.RPCPort,
	}
	if n.RESTPort != 0 {
		ports["rest_port"] = n.RESTPort
	}
	return ports
}

// ChannelSpec is a channel opened by From towards To. RemoteBalance is
// pushed to To on open.
type ChannelSpec struct {
	ID            int            `yaml:"id" toml:"id" validate:"required,min=1"`
	From          string         `yaml:"from" toml:"from" validate:"required"`
	To            string         `yaml:"to" toml:"to" validate:"required"`
	Capacity      btcutil.Amount `yaml:"capacity" toml:"capacity" validate:"required,gt=0"`
	LocalBalance  btcutil.Amount `yaml:"local_balance" toml:"local_balance" validate:"min=0"`
	RemoteBalance btcutil.Amount `yaml:"remote_balance" toml:"remote_balance" validate:"min=0"`
}

type Network struct {
	Name     string        `yaml:"name" toml:"name" validate:"required"`
	Ledger   LedgerSpec    `yaml:"ledger" toml:"ledger"`
	Nodes    []NodeSpec    `yaml:"nodes" toml:"nodes" validate:"required,min=1,dive"`
	Channels []ChannelSpec `yaml:"channels" toml:"channels" validate:"dive"`
}

// DefaultLedger uses bitcoind's regtest defaults.
func DefaultLedger() LedgerSpec {
	return LedgerSpec{
		RPCPort:      18443,
		P2PPort:      18444,
		ZMQBlockPort: 28332,
		ZMQTxPort:    28333,
	}
}

func (n *Network) applyDefaults() {
	if n.Ledger == (LedgerSpec{}) {
		n.Ledger = DefaultLedger()
	}
	for i := range n.Channels {
		c := &n.Channels[i]
		if c.LocalBalance == 0 && c.RemoteBalance == 0 {
			c.LocalBalance = c.Capacity
		}
	}
}

// Node returns the NodeSpec of the named node.
func (n *Network) Node(name string) (NodeSpec, bool) {
	for _, node := range n.Nodes {
		if node.Name == name {
			return node, true
		}
	}
	return NodeSpec{}, false
}

func (n *Network) Master() NodeSpec {
	node, _ := n.Node(MasterName)
	return node
}

// NodeNames returns the node names in declaration order.
func (n *Network) NodeNames() []string {
	names := make([]string, 0, len(n.Nodes))
	for _, node := range n.Nodes {
		names = append(names, node.Name)
	}
	return names
}

// OrderedChannels returns the channels sorted by ascending id.
func (n *Network) OrderedChannels() []ChannelSpec {
	channels := make([]ChannelSpec, len(n.Channels))
	copy(channels, n.Channels)
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].ID < channels[j].ID
	})
	return channels
}

// ChannelsFrom returns the channels opened by the named node in ascending id
// order.
func (n *Network) ChannelsFrom(name string) []ChannelSpec {
	var channels []ChannelSpec
	for _, c := range n.OrderedChannels() {
		if c.From == name {
			channels = append(channels, c)
		}
	}
	return channels
}

// Channel returns the channel with the given id.
func (n *Network) Channel(id int) (ChannelSpec, bool) {
	for _, c := range n.Channels {
		if c.ID == id {
			return c, true
		}
	}
	return ChannelSpec{}, false
}

// Limit returns a copy of the topology holding only the nodes from "A" up to
// and including last, and the channels between them. A last beyond the final
// node keeps everything.
func (n *Network) Limit(last string) (*Network, error) {
	if len(last) != 1 || last[0] < 'A' || last[0] > 'Z' {
		return nil, configError("node_limit", "must be a single uppercase letter, got %q", last)
	}

	limited := &Network{
		Name:   n.Name,
		Ledger: n.Ledger,
	}
	keep := map[string]bool{}
	for _, node := range n.Nodes {
		if node.Name <= last {
			limited.Nodes = append(limited.Nodes, node)
			keep[node.Name] = true
		}
	}
	for _, c := range n.Channels {
		if keep[c.From] && keep[c.To] {
			limited.Channels = append(limited.Channels, c)
		}
	}

	if err := limited.Validate(); err != nil {
		return nil, err
	}
	return limited, nil
}
