package network

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/testframework"
	"github.com/elementsproject/lnregtest/topology"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

// world is an in-memory regtest chain with payment nodes on top of it.
// Payments and channel opens confirm with the next mined block.
type world struct {
	sync.Mutex
	height  uint32
	txs     int
	clients map[string]*fakeClient // by pubkey
	addrs   map[string]*fakeClient

	unconfirmed map[*fakeClient]btcutil.Amount
	pending     []*fakeChannel
	channels    []*fakeChannel

	opens    int
	connects int
	payments int
}

type fakeChannel struct {
	funder, fundee *fakeClient
	capacity, push btcutil.Amount
	txid           chainhash.Hash
	scid           lnwire.ShortChannelID
}

func newWorld() *world {
	return &world{
		height:      1,
		clients:     map[string]*fakeClient{},
		addrs:       map[string]*fakeClient{},
		unconfirmed: map[*fakeClient]btcutil.Amount{},
	}
}

func newPubKey(t *testing.T) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}

func (w *world) newTxid() chainhash.Hash {
	w.txs++
	return chainhash.HashH([]byte(fmt.Sprintf("tx-%d", w.txs)))
}

func (w *world) mine(n int) {
	w.Lock()
	defer w.Unlock()
	w.height += uint32(n)
	for c, amt := range w.unconfirmed {
		c.balance += amt
	}
	w.unconfirmed = map[*fakeClient]btcutil.Amount{}
	for i, ch := range w.pending {
		ch.scid = lnwire.ShortChannelID{BlockHeight: w.height - uint32(n) + 1, TxIndex: uint32(i + 1)}
		w.channels = append(w.channels, ch)
	}
	w.pending = nil
}

func (w *world) pay(addr string, amt btcutil.Amount) (*chainhash.Hash, error) {
	w.Lock()
	defer w.Unlock()
	c, ok := w.addrs[addr]
	if !ok {
		return nil, fmt.Errorf("unknown address %s", addr)
	}
	w.unconfirmed[c] += amt
	w.payments++
	txid := w.newTxid()
	return &txid, nil
}

func (w *world) counts() (opens, connects, payments int) {
	w.Lock()
	defer w.Unlock()
	return w.opens, w.connects, w.payments
}

// fakeClient is a lightning.PaymentNode living in a world.
type fakeClient struct {
	w       *world
	key     string
	alias   string
	balance btcutil.Amount
	peers   map[string]bool
	addrs   int
}

func (w *world) newClient(alias, key string) *fakeClient {
	w.Lock()
	defer w.Unlock()
	c := &fakeClient{w: w, key: key, alias: alias, peers: map[string]bool{}}
	w.clients[key] = c
	return c
}

func (c *fakeClient) GetInfo(ctx context.Context) (*lightning.NodeInfo, error) {
	c.w.Lock()
	defer c.w.Unlock()
	return &lightning.NodeInfo{
		PubKey:        c.key,
		Alias:         c.alias,
		BlockHeight:   c.w.height,
		SyncedToChain: true,
		NumPeers:      len(c.peers),
	}, nil
}

func (c *fakeClient) NewAddress(ctx context.Context) (string, error) {
	c.w.Lock()
	defer c.w.Unlock()
	c.addrs++
	addr := fmt.Sprintf("bcrt1-%s-%d", c.alias, c.addrs)
	c.w.addrs[addr] = c
	return addr, nil
}

func (c *fakeClient) WalletBalance(ctx context.Context) (btcutil.Amount, error) {
	c.w.Lock()
	defer c.w.Unlock()
	return c.balance, nil
}

func (c *fakeClient) ConnectPeer(ctx context.Context, pubkey, host string) error {
	c.w.Lock()
	defer c.w.Unlock()
	peer, ok := c.w.clients[pubkey]
	if !ok {
		return fmt.Errorf("no node %s at %s", pubkey, host)
	}
	c.w.connects++
	c.peers[pubkey] = true
	peer.peers[c.key] = true
	return nil
}

func (c *fakeClient) IsConnected(ctx context.Context, pubkey string) (bool, error) {
	c.w.Lock()
	defer c.w.Unlock()
	return c.peers[pubkey], nil
}

func (c *fakeClient) OpenChannel(ctx context.Context, pubkey string, capacity, push btcutil.Amount) (*lightning.PendingChannel, error) {
	c.w.Lock()
	defer c.w.Unlock()
	if !c.peers[pubkey] {
		return nil, fmt.Errorf("peer %s is not connected", pubkey)
	}
	if c.balance < capacity {
		return nil, fmt.Errorf("insufficient funds: %v < %v", c.balance, capacity)
	}
	c.balance -= capacity
	c.w.opens++
	ch := &fakeChannel{
		funder:   c,
		fundee:   c.w.clients[pubkey],
		capacity: capacity,
		push:     push,
		txid:     c.w.newTxid(),
	}
	c.w.pending = append(c.w.pending, ch)
	return &lightning.PendingChannel{FundingTxID: ch.txid}, nil
}

func (c *fakeClient) ListChannels(ctx context.Context) ([]lightning.Channel, error) {
	c.w.Lock()
	defer c.w.Unlock()
	var channels []lightning.Channel
	for _, ch := range c.w.channels {
		if ch.funder != c && ch.fundee != c {
			continue
		}
		local, remote, peer := ch.capacity-ch.push, ch.push, ch.fundee
		if ch.fundee == c {
			local, remote, peer = remote, local, ch.funder
		}
		channels = append(channels, lightning.Channel{
			ChannelID:     ch.scid,
			RemotePubKey:  peer.key,
			Capacity:      ch.capacity,
			LocalBalance:  local,
			RemoteBalance: remote,
			Initiator:     ch.funder == c,
			Active:        true,
			FundingTxID:   ch.txid,
		})
	}
	return channels, nil
}

func (c *fakeClient) ChannelBalance(ctx context.Context) (*lightning.ChannelBalance, error) {
	channels, _ := c.ListChannels(ctx)
	var b lightning.ChannelBalance
	for _, ch := range channels {
		b.Local += ch.LocalBalance
		b.Remote += ch.RemoteBalance
	}
	return &b, nil
}

func (c *fakeClient) DescribeGraph(ctx context.Context) ([]lightning.GraphEdge, error) {
	c.w.Lock()
	defer c.w.Unlock()
	var edges []lightning.GraphEdge
	for _, ch := range c.w.channels {
		n1, n2 := ch.funder.key, ch.fundee.key
		if n2 < n1 {
			n1, n2 = n2, n1
		}
		edges = append(edges, lightning.GraphEdge{ChannelID: ch.scid, Node1: n1, Node2: n2, Capacity: ch.capacity})
	}
	return edges, nil
}

// fakeNode is a supervised payment node without a process.
type fakeNode struct {
	*testframework.RuntimeNode
	spec   topology.NodeSpec
	client lightning.PaymentNode
}

func newFakeNode(spec topology.NodeSpec, dataDir string, client lightning.PaymentNode) *fakeNode {
	process := testframework.NewDaemonProcess([]string{"fake-" + string(spec.Daemon)}, spec.Name)
	return &fakeNode{
		RuntimeNode: testframework.NewRuntimeNode(spec.Name, dataDir, process),
		spec:        spec,
		client:      client,
	}
}

func (n *fakeNode) Runtime() *testframework.RuntimeNode { return n.RuntimeNode }
func (n *fakeNode) Launch() error                       { return nil }
func (n *fakeNode) Shutdown() error                     { return nil }
func (n *fakeNode) Spec() topology.NodeSpec             { return n.spec }
func (n *fakeNode) Client() lightning.PaymentNode       { return n.client }
func (n *fakeNode) Addr() string                        { return fmt.Sprintf("127.0.0.1:%d", n.spec.ListenPort) }
func (n *fakeNode) CLICommand() string                  { return "fake-cli " + n.spec.Name }

func (n *fakeNode) Ready(ctx context.Context) (bool, error) {
	info, err := n.client.GetInfo(ctx)
	if err != nil {
		return false, err
	}
	n.SetPubKey(info.PubKey)
	return info.SyncedToChain, nil
}

func (n *fakeNode) RawInfo(ctx context.Context) (string, error) {
	return fmt.Sprintf(`{"alias":%q}`, n.spec.Name), nil
}

type fakeLedger struct {
	*testframework.RuntimeNode
	w      *world
	setups int
}

func newFakeLedger(w *world, dataDir string) *fakeLedger {
	process := testframework.NewDaemonProcess([]string{"fake-bitcoind"}, testframework.LedgerName)
	return &fakeLedger{
		RuntimeNode: testframework.NewRuntimeNode(testframework.LedgerName, dataDir, process),
		w:           w,
	}
}

func (l *fakeLedger) Runtime() *testframework.RuntimeNode     { return l.RuntimeNode }
func (l *fakeLedger) Launch() error                           { return nil }
func (l *fakeLedger) Ready(ctx context.Context) (bool, error) { return true, nil }
func (l *fakeLedger) Shutdown() error                         { return nil }
func (l *fakeLedger) CLICommand() string                      { return "fake-bitcoin-cli" }

func (l *fakeLedger) Setup(ctx context.Context) error {
	l.setups++
	return nil
}

func (l *fakeLedger) RpcEndpoint() testframework.LedgerEndpoint {
	return testframework.LedgerEndpoint{Host: "127.0.0.1", RpcPort: 18443}
}

func (l *fakeLedger) NewAddress(ctx context.Context) (string, error) {
	return "bcrt1-ledger", nil
}

func (l *fakeLedger) GetBalance(ctx context.Context) (btcutil.Amount, error) {
	return 50 * btcutil.SatoshiPerBitcoin, nil
}

func (l *fakeLedger) GenerateBlocks(ctx context.Context, n int) error {
	l.w.mine(n)
	return nil
}

func (l *fakeLedger) GetBlockchainInfo(ctx context.Context) (*testframework.BlockchainInfo, error) {
	l.w.Lock()
	defer l.w.Unlock()
	return &testframework.BlockchainInfo{Chain: "regtest", Blocks: l.w.height}, nil
}

func (l *fakeLedger) SendToAddress(ctx context.Context, address string, amount btcutil.Amount) (*chainhash.Hash, error) {
	return l.w.pay(address, amount)
}
