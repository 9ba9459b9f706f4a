// Package network runs a regtest network described by a topology.
//
// A Network starts the ledger and the payment nodes, funds the wallets of
// the nodes, opens the channels of the topology in order and translates what
// the nodes report back into the names of the topology.
package network

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/ident"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/poll"
	"github.com/elementsproject/lnregtest/testframework"
	"github.com/elementsproject/lnregtest/topology"
)

type Network struct {
	topo *topology.Network
	cfg  Config

	prober     *poll.Prober
	supervisor *testframework.Supervisor
	ledger     testframework.Ledger
	newNode    NodeFactory
	nodes      []testframework.LightningNode
	byName     map[string]testframework.LightningNode

	mu     sync.Mutex
	mapper *ident.Mapper
}

// New prepares the ledger and node drivers of topo. Nothing is started.
func New(topo *topology.Network, cfg Config, opts ...Option) (*Network, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if cfg.NodeLimit != "" {
		limited, err := topo.Limit(cfg.NodeLimit)
		if err != nil {
			return nil, err
		}
		topo = limited
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, failure.Configurationf("config", "%v", err)
	}

	if cfg.FromScratch {
		if err := clean(cfg.BaseDir); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(cfg.BaseDir, os.ModeDir|os.ModePerm); err != nil {
		return nil, fmt.Errorf("os.MkdirAll() %w", err)
	}

	prober := poll.NewProber(cfg.Probe)
	n := &Network{
		topo:       topo,
		cfg:        cfg,
		prober:     prober,
		supervisor: testframework.NewSupervisor(prober, cfg.StartDelay, cfg.StopGrace),
		newNode:    DefaultNodeFactory,
		byName:     map[string]testframework.LightningNode{},
		mapper:     ident.NewMapper(),
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.ledger == nil {
		ledger, err := testframework.NewBitcoinNode(cfg.BaseDir, cfg.BinaryDir, topo.Ledger)
		if err != nil {
			return nil, err
		}
		n.ledger = ledger
	}

	for _, spec := range topo.Nodes {
		node, err := n.newNode(testframework.NodeConfig{
			BaseDir: cfg.BaseDir,
			BinDir:  cfg.BinaryDir,
			Spec:    spec,
			Ledger:  n.ledger,
		})
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", spec.Name, err)
		}
		n.nodes = append(n.nodes, node)
		n.byName[spec.Name] = node
	}
	return n, nil
}

// clean removes what a previous run left in baseDir.
func clean(baseDir string) error {
	for _, p := range []string{
		filepath.Join(baseDir, testframework.LedgerName),
		filepath.Join(baseDir, "nodes"),
		filepath.Join(baseDir, mappingFile),
	} {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("os.RemoveAll() %w", err)
		}
	}
	return nil
}

// Run starts the network and assembles it. A network whose mapping was
// stored by an earlier run is restored instead: the daemons restart on
// their existing data, funding and assembly are skipped and every node has
// to report the public key it was stored with.
func (n *Network) Run(ctx context.Context) (err error) {
	start := time.Now()

	store, err := ident.Open(n.cfg.mappingPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	empty, err := store.Empty()
	if err != nil {
		return fmt.Errorf("Empty() %w", err)
	}
	if !n.cfg.FromScratch && !empty {
		if err := n.restore(ctx, store); err != nil {
			return err
		}
		log.Infof("[network] %s restored in %s", n.topo.Name, time.Since(start).Round(time.Millisecond))
		return nil
	}

	if err := n.Start(ctx); err != nil {
		return err
	}
	if err := n.Assemble(ctx); err != nil {
		return err
	}
	n.Mapper().Seal()
	if err := store.Save(n.Mapper()); err != nil {
		return fmt.Errorf("Save() %w", err)
	}
	log.Infof("[network] %s assembled in %s", n.topo.Name, time.Since(start).Round(time.Millisecond))
	return nil
}

func (n *Network) restore(ctx context.Context, store *ident.Store) error {
	mapper, err := store.Load()
	if err != nil {
		return fmt.Errorf("Load() %w", err)
	}
	for _, number := range mapper.ChannelNumbers() {
		if _, ok := n.topo.Channel(number); !ok {
			return failure.Configurationf(mappingFile, "stored channel %d is not part of the topology", number)
		}
	}
	n.mu.Lock()
	n.mapper = mapper
	n.mu.Unlock()

	if err := n.Start(ctx); err != nil {
		return err
	}
	mapper.Seal()
	return nil
}

// Start starts the ledger, prepares its wallet and starts the payment
// nodes in topology order. The public key of every node is registered.
func (n *Network) Start(ctx context.Context) error {
	if err := n.supervisor.Start(ctx, n.ledger); err != nil {
		return err
	}
	if err := n.ledger.Setup(ctx); err != nil {
		return failure.NewReadiness(n.ledger.Runtime().Name(), "setup", err)
	}

	if n.cfg.ParallelProbe {
		daemons := make([]testframework.Daemon, 0, len(n.nodes))
		for _, node := range n.nodes {
			if err := n.supervisor.Launch(ctx, node); err != nil {
				return err
			}
			daemons = append(daemons, node)
		}
		if err := n.supervisor.WaitAllReady(ctx, daemons...); err != nil {
			return err
		}
	} else {
		for _, node := range n.nodes {
			if err := n.supervisor.Start(ctx, node); err != nil {
				return err
			}
		}
	}

	for _, node := range n.nodes {
		if err := n.registerNode(ctx, node); err != nil {
			return err
		}
		if n.cfg.DumpNodeInfo {
			n.dumpInfo(ctx, node)
		}
	}
	return nil
}

func (n *Network) registerNode(ctx context.Context, node testframework.LightningNode) error {
	name := node.Spec().Name
	pubkey := node.Runtime().PubKey()
	if pubkey == "" {
		info, err := node.Client().GetInfo(ctx)
		if err != nil {
			return fmt.Errorf("node %s: GetInfo() %w", name, err)
		}
		pubkey = info.PubKey
		node.Runtime().SetPubKey(pubkey)
	}

	mapper := n.Mapper()
	if stored, err := mapper.ResolveKey(name); err == nil && stored != pubkey {
		return failure.Configurationf("nodes."+name,
			"reports public key %s, the stored mapping has %s", pubkey, stored)
	}
	if err := mapper.RegisterNode(name, pubkey); err != nil {
		return failure.Configurationf("nodes."+name, "%v", err)
	}
	log.Infof("[%s] ready as %s", name, pubkey)
	return nil
}

func (n *Network) dumpInfo(ctx context.Context, node testframework.LightningNode) {
	raw, err := node.RawInfo(ctx)
	if err != nil {
		log.Warnf("[%s] RawInfo() %v", node.Spec().Name, err)
		return
	}
	log.Debugf("[%s] %s", node.Spec().Name, raw)
}

// Stop stops every started daemon. It is safe to call more than once.
func (n *Network) Stop() (int, error) {
	return n.supervisor.StopAll()
}

func (n *Network) Topology() *topology.Network {
	return n.topo
}

func (n *Network) Mapper() *ident.Mapper {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mapper
}

func (n *Network) Ledger() testframework.Ledger {
	return n.ledger
}

func (n *Network) Node(name string) (testframework.LightningNode, bool) {
	node, ok := n.byName[name]
	return node, ok
}

// IsAlive reports whether the named daemon's process is running.
func (n *Network) IsAlive(name string) bool {
	return n.supervisor.IsAlive(name)
}

// CLICommands returns the command line controlling each daemon by name.
func (n *Network) CLICommands() map[string]string {
	commands := map[string]string{}
	if cli, ok := n.ledger.(interface{ CLICommand() string }); ok {
		commands[n.ledger.Runtime().Name()] = cli.CLICommand()
	}
	for _, node := range n.nodes {
		commands[node.Spec().Name] = node.CLICommand()
	}
	return commands
}

// Commands returns the command lines of a network's daemons without
// preparing or starting any of them.
func Commands(topo *topology.Network, cfg Config) (map[string]string, error) {
	commands := map[string]string{
		testframework.LedgerName: testframework.LedgerCLICommand(cfg.BaseDir, cfg.BinaryDir),
	}
	for _, spec := range topo.Nodes {
		node, err := DefaultNodeFactory(testframework.NodeConfig{
			BaseDir: cfg.BaseDir,
			BinDir:  cfg.BinaryDir,
			Spec:    spec,
		})
		if err != nil {
			return nil, err
		}
		commands[spec.Name] = node.CLICommand()
	}
	return commands, nil
}

// DumpLogs returns the last lines of every daemon's output.
func (n *Network) DumpLogs(lines int) string {
	var out string
	for _, d := range n.supervisor.Daemons() {
		p := d.Runtime().Process
		if p == nil {
			continue
		}
		out += fmt.Sprintf("===== %s =====\n%s\n%s\n", p.Prefix(),
			p.StdOut.Tail(lines, "."), p.StdErr.Tail(lines, "."))
	}
	return out
}
