package network

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/graph"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/lightning/mocks"
	"github.com/elementsproject/lnregtest/poll"
	"github.com/elementsproject/lnregtest/testframework"
	ledgermocks "github.com/elementsproject/lnregtest/testframework/mocks"
	"github.com/elementsproject/lnregtest/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.StopGrace = time.Second
	cfg.Probe = poll.Policy{
		Interval:    5 * time.Millisecond,
		Multiplier:  1.5,
		MaxInterval: 20 * time.Millisecond,
		Timeout:     2 * time.Second,
	}
	return cfg
}

func simpleTopology(t *testing.T) *topology.Network {
	topo, err := topology.Builtin("simple")
	require.NoError(t, err)
	return topo
}

func nodeKeys(t *testing.T, names ...string) map[string]string {
	keys := map[string]string{}
	for _, name := range names {
		keys[name] = newPubKey(t)
	}
	return keys
}

type harness struct {
	w       *world
	keys    map[string]string
	ledger  *fakeLedger
	clients map[string]lightning.PaymentNode
	created []string
}

func newHarness(t *testing.T, w *world, keys map[string]string) *harness {
	return &harness{
		w:       w,
		keys:    keys,
		ledger:  newFakeLedger(w, t.TempDir()),
		clients: map[string]lightning.PaymentNode{},
	}
}

func (h *harness) factory(cfg testframework.NodeConfig) (testframework.LightningNode, error) {
	name := cfg.Spec.Name
	h.created = append(h.created, name)
	client, ok := h.clients[name]
	if !ok {
		client = h.w.newClient(name, h.keys[name])
		h.clients[name] = client
	}
	return newFakeNode(cfg.Spec, filepath.Join(cfg.BaseDir, "nodes", name), client), nil
}

func (h *harness) network(t *testing.T, topo *topology.Network, cfg Config) *Network {
	n, err := New(topo, cfg, WithLedger(h.ledger), WithNodeFactory(h.factory))
	require.NoError(t, err)
	t.Cleanup(func() { n.Stop() })
	return n
}

func TestAssembleSimpleNetwork(t *testing.T) {
	w := newWorld()
	h := newHarness(t, w, nodeKeys(t, "A", "B", "C"))
	cfg := testConfig(t)
	cfg.DumpNodeInfo = true
	n := h.network(t, simpleTopology(t), cfg)

	ctx := context.Background()
	require.NoError(t, n.Run(ctx))
	assert.Equal(t, 1, h.ledger.setups)

	opens, connects, _ := w.counts()
	assert.Equal(t, 3, opens)
	assert.Equal(t, 3, connects)

	snapshot, err := n.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, snapshot.Nodes())
	require.Len(t, snapshot.Outgoing("A"), 2)
	require.Len(t, snapshot.Outgoing("B"), 1)
	assert.Empty(t, snapshot.Outgoing("C"))
	assert.Len(t, snapshot.Edges("C"), 2)

	for _, c := range simpleTopology(t).Channels {
		e, ok := snapshot.Edge(c.From, c.ID)
		require.True(t, ok, "channel %d", c.ID)
		assert.Equal(t, c.To, e.Peer)
		assert.Equal(t, c.Capacity, e.Capacity)
		assert.Equal(t, c.LocalBalance, e.LocalBalance)
		assert.True(t, e.Initiator)

		e, ok = snapshot.Edge(c.To, c.ID)
		require.True(t, ok)
		assert.Equal(t, c.From, e.Peer)
		assert.False(t, e.Initiator)
	}

	mapper := n.Mapper()
	assert.True(t, mapper.Sealed())
	for _, name := range []string{"A", "B", "C"} {
		key, err := mapper.ResolveKey(name)
		require.NoError(t, err)
		assert.Equal(t, h.keys[name], key)
		back, err := mapper.ResolveName(key)
		require.NoError(t, err)
		assert.Equal(t, name, back)
	}
	assert.Equal(t, []int{1, 2, 3}, mapper.ChannelNumbers())

	view, err := n.MasterGraphView(ctx)
	require.NoError(t, err)
	require.Len(t, view, 3)
	for i, e := range view {
		c, _ := simpleTopology(t).Channel(i + 1)
		assert.Equal(t, c.ID, e.Channel)
		assert.ElementsMatch(t, []string{c.From, c.To}, []string{e.Node1, e.Node2})
		assert.Equal(t, c.Capacity, e.Capacity)
	}

	commands := n.CLICommands()
	assert.Equal(t, "fake-cli B", commands["B"])
	assert.Equal(t, "fake-bitcoin-cli", commands[testframework.LedgerName])

	stopped, err := n.Stop()
	require.NoError(t, err)
	assert.Zero(t, stopped)
	_, err = n.Stop()
	assert.NoError(t, err)
}

func TestAssembleAbortsOnFirstOpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := newWorld()
	keys := nodeKeys(t, "A", "B", "C")
	h := newHarness(t, w, keys)

	a := mocks.NewMockPaymentNode(ctrl)
	a.EXPECT().GetInfo(gomock.Any()).Return(&lightning.NodeInfo{PubKey: keys["A"], SyncedToChain: true}, nil).AnyTimes()
	a.EXPECT().WalletBalance(gomock.Any()).Return(btcutil.Amount(10*btcutil.SatoshiPerBitcoin), nil).AnyTimes()
	a.EXPECT().IsConnected(gomock.Any(), keys["B"]).Return(true, nil).AnyTimes()
	a.EXPECT().OpenChannel(gomock.Any(), keys["B"], btcutil.Amount(100000), btcutil.Amount(0)).
		Return(nil, errors.New("insufficient funds"))
	h.clients["A"] = a

	n := h.network(t, simpleTopology(t), testConfig(t))
	err := n.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrAssembly)
	assert.ErrorContains(t, err, "insufficient funds")

	var ferr *failure.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, 1, ferr.Channel)
	assert.Equal(t, "A", ferr.Node)
	assert.Equal(t, "open", ferr.Op)

	opens, _, _ := w.counts()
	assert.Zero(t, opens, "channel 3 must not be attempted")
	assert.False(t, n.Mapper().Sealed())

	_, err = n.Mapper().ResolveRuntimeID(1)
	assert.ErrorIs(t, err, failure.ErrNotFound)
	assert.True(t, failure.IsRetryable(err))
}

// brokenLedger supervises like fakeLedger but sends chain calls to node.
type brokenLedger struct {
	*fakeLedger
	node testframework.LedgerNode
}

func (l *brokenLedger) NewAddress(ctx context.Context) (string, error) {
	return l.node.NewAddress(ctx)
}

func (l *brokenLedger) GetBalance(ctx context.Context) (btcutil.Amount, error) {
	return l.node.GetBalance(ctx)
}

func (l *brokenLedger) GenerateBlocks(ctx context.Context, n int) error {
	return l.node.GenerateBlocks(ctx, n)
}

func (l *brokenLedger) GetBlockchainInfo(ctx context.Context) (*testframework.BlockchainInfo, error) {
	return l.node.GetBlockchainInfo(ctx)
}

func (l *brokenLedger) SendToAddress(ctx context.Context, address string, amount btcutil.Amount) (*chainhash.Hash, error) {
	return l.node.SendToAddress(ctx, address, amount)
}

func TestAssembleFailsWhenLedgerCannotPay(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := newWorld()
	h := newHarness(t, w, nodeKeys(t, "A", "B", "C"))

	node := ledgermocks.NewMockLedgerNode(ctrl)
	node.EXPECT().SendToAddress(gomock.Any(), gomock.Any(), btcutil.Amount(btcutil.SatoshiPerBitcoin)).
		Return(nil, errors.New("Insufficient funds"))
	ledger := &brokenLedger{fakeLedger: h.ledger, node: node}

	n, err := New(simpleTopology(t), testConfig(t), WithLedger(ledger), WithNodeFactory(h.factory))
	require.NoError(t, err)
	t.Cleanup(func() { n.Stop() })

	err = n.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrAssembly)
	assert.ErrorContains(t, err, "Insufficient funds")

	var ferr *failure.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "fund", ferr.Op)
	assert.Equal(t, "A", ferr.Node)
	assert.Equal(t, 1, ferr.Channel)
	assert.ErrorIs(t, err, &failure.Error{Kind: failure.Assembly, Node: "A", Channel: 1})

	opens, connects, _ := w.counts()
	assert.Zero(t, opens)
	assert.Zero(t, connects)
	assert.Equal(t, 1, h.ledger.setups)
}

func TestRestoreFromStoredMapping(t *testing.T) {
	w := newWorld()
	keys := nodeKeys(t, "A", "B", "C")
	cfg := testConfig(t)
	ctx := context.Background()

	first := newHarness(t, w, keys)
	n := first.network(t, simpleTopology(t), cfg)
	require.NoError(t, n.Run(ctx))
	before, err := n.Snapshot(ctx)
	require.NoError(t, err)
	_, err = n.Stop()
	require.NoError(t, err)

	cfg.FromScratch = false
	second := newHarness(t, w, keys)
	second.clients = first.clients
	n = second.network(t, simpleTopology(t), cfg)
	require.NoError(t, n.Run(ctx))

	opens, _, _ := w.counts()
	assert.Equal(t, 3, opens, "restore must not open channels")
	assert.True(t, n.Mapper().Sealed())

	after, err := n.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, graph.Compare(before, after, 0).Empty())
	_, err = n.Stop()
	require.NoError(t, err)

	// A node with a different identity does not match the stored mapping.
	third := newHarness(t, w, keys)
	third.clients["A"] = first.clients["A"]
	third.clients["B"] = w.newClient("B", newPubKey(t))
	third.clients["C"] = first.clients["C"]
	n = third.network(t, simpleTopology(t), cfg)
	err = n.Run(ctx)
	assert.ErrorIs(t, err, failure.ErrConfiguration)
	assert.ErrorContains(t, err, "nodes.B")
}

func TestNodeLimit(t *testing.T) {
	w := newWorld()
	h := newHarness(t, w, nodeKeys(t, "A", "B", "C"))
	cfg := testConfig(t)
	cfg.NodeLimit = "B"
	cfg.ParallelProbe = true
	n := h.network(t, simpleTopology(t), cfg)

	require.NoError(t, n.Run(context.Background()))
	assert.Equal(t, []string{"A", "B"}, h.created)
	_, ok := n.Node("C")
	assert.False(t, ok)

	snapshot, err := n.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, snapshot.Nodes())
	assert.Equal(t, 1, snapshot.NumChannels())
}

func TestNewRejectsBadInput(t *testing.T) {
	w := newWorld()
	h := newHarness(t, w, nodeKeys(t, "A", "B", "C"))

	_, err := New(simpleTopology(t), Config{}, WithLedger(h.ledger), WithNodeFactory(h.factory))
	assert.ErrorIs(t, err, failure.ErrConfiguration)

	topo := simpleTopology(t)
	topo.Channels[0].To = "Z"
	_, err = New(topo, testConfig(t), WithLedger(h.ledger), WithNodeFactory(h.factory))
	assert.ErrorIs(t, err, failure.ErrConfiguration)

	cfg := testConfig(t)
	cfg.NodeLimit = "ab"
	_, err = New(simpleTopology(t), cfg, WithLedger(h.ledger), WithNodeFactory(h.factory))
	assert.ErrorIs(t, err, failure.ErrConfiguration)
}

func TestFromScratchCleansBaseDir(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.BaseDir, "nodes", "A", "stale")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, nil, 0600))
	keep := filepath.Join(cfg.BaseDir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, nil, 0600))

	h := newHarness(t, newWorld(), nodeKeys(t, "A", "B", "C"))
	h.network(t, simpleTopology(t), cfg)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, btcutil.Amount(btcutil.SatoshiPerBitcoin), cfg.WalletFunding)
	assert.Equal(t, 6, cfg.ConfirmationBlocks)
	assert.Equal(t, 6, cfg.ChannelConfirmations)
	assert.True(t, cfg.FromScratch)
	assert.Equal(t, poll.DefaultPolicy(), cfg.Probe)

	var empty Config
	empty.applyDefaults()
	assert.Equal(t, cfg.WalletFunding, empty.WalletFunding)
	assert.Equal(t, cfg.Probe, empty.Probe)
}

func TestCommandsWithoutStarting(t *testing.T) {
	cfg := testConfig(t)
	cfg.BinaryDir = "/opt/bin"

	commands, err := Commands(simpleTopology(t), cfg)
	require.NoError(t, err)
	assert.Len(t, commands, 4)
	assert.Equal(t, "/opt/bin/lncli --lnddir="+filepath.Join(cfg.BaseDir, "nodes", "A")+
		" --network=regtest --rpcserver=127.0.0.1:11009", commands["A"])
	assert.Contains(t, commands[testframework.LedgerName], "/opt/bin/bitcoin-cli -datadir="+
		filepath.Join(cfg.BaseDir, testframework.LedgerName))
	assert.NoFileExists(t, filepath.Join(cfg.BaseDir, testframework.LedgerName, "bitcoin.conf"))
}
