package testframework

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/elementsproject/lnregtest/clightning"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/topology"
)

const clnRpcFile = "lightning-rpc"

var CLIGHTNING_CONFIG = map[string]string{
	"network":           "regtest",
	"log-level":         "debug",
	"ignore-fee-limits": "true",
}

type CLightningNode struct {
	*RuntimeNode

	ConfigFile string
	NetworkDir string
	spec       topology.NodeSpec
	cfg        NodeConfig

	mu     sync.Mutex
	client *clightning.Client
}

// NewCLightningNode prepares a lightningd in its own lightning-dir. The
// node's rpc_port is not used, lightningd is controlled over its unix
// socket.
func NewCLightningNode(cfg NodeConfig) (*CLightningNode, error) {
	dataDir := cfg.dataDir()
	networkDir := filepath.Join(dataDir, "regtest")
	err := os.MkdirAll(networkDir, os.ModeDir|os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("os.MkdirAll() %w", err)
	}

	cmdLine := []string{
		binary(cfg.BinDir, "lightningd"),
		fmt.Sprintf("--lightning-dir=%s", dataDir),
	}

	return &CLightningNode{
		RuntimeNode: NewRuntimeNode(cfg.Spec.Name, dataDir, NewDaemonProcess(cmdLine, "clightning-"+cfg.Spec.Name)),
		ConfigFile:  filepath.Join(dataDir, "config"),
		NetworkDir:  networkDir,
		spec:        cfg.Spec,
		cfg:         cfg,
	}, nil
}

func (n *CLightningNode) Runtime() *RuntimeNode {
	return n.RuntimeNode
}

func (n *CLightningNode) Spec() topology.NodeSpec {
	return n.spec
}

func (n *CLightningNode) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.spec.ListenPort)
}

func (n *CLightningNode) config() map[string]string {
	ledger := n.cfg.Ledger.RpcEndpoint()

	config := make(map[string]string, len(CLIGHTNING_CONFIG)+10)
	for k, v := range CLIGHTNING_CONFIG {
		config[k] = v
	}
	config["alias"] = n.spec.Name
	config["addr"] = n.Addr()
	config["fee-base"] = strconv.FormatUint(n.spec.BaseFeeMsat, 10)
	config["fee-per-satoshi"] = strconv.FormatUint(n.spec.FeeRatePPM, 10)
	config["bitcoin-cli"] = ledger.BitcoinCli
	config["bitcoin-rpcconnect"] = ledger.Host
	config["bitcoin-rpcport"] = strconv.Itoa(ledger.RpcPort)
	config["bitcoin-rpcuser"] = ledger.RpcUser
	config["bitcoin-rpcpassword"] = ledger.RpcPassword
	config["bitcoin-datadir"] = ledger.DataDir
	return config
}

// Launch writes the config file lightningd picks up from its lightning-dir.
func (n *CLightningNode) Launch() error {
	if err := WriteConfig(n.ConfigFile, n.config(), nil, ""); err != nil {
		return err
	}
	return n.Process.Run()
}

// Ready connects to the rpc socket once it exists and then waits for
// lightningd to be synced to the ledger's tip.
func (n *CLightningNode) Ready(ctx context.Context) (bool, error) {
	if !n.Process.IsRunning() {
		return false, fmt.Errorf("lightningd exited: %v", n.Process.ExitErr())
	}

	client, err := n.dial()
	if err != nil {
		return false, err
	}

	info, err := client.GetInfo(ctx)
	if err != nil {
		return false, err
	}
	n.SetPubKey(info.PubKey)

	chain, err := n.cfg.Ledger.GetBlockchainInfo(ctx)
	if err != nil {
		return false, err
	}
	if !info.SyncedToChain || info.BlockHeight < chain.Blocks {
		return false, fmt.Errorf("synced=%v at height %d of %d", info.SyncedToChain, info.BlockHeight, chain.Blocks)
	}
	return true, nil
}

func (n *CLightningNode) dial() (*clightning.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client != nil {
		return n.client, nil
	}
	socket := filepath.Join(n.NetworkDir, clnRpcFile)
	if !fileExists(socket) {
		return nil, fmt.Errorf("waiting for %s", socket)
	}
	client, err := clightning.Dial(clnRpcFile, n.NetworkDir, TIMEOUT)
	if err != nil {
		return nil, err
	}
	if err := client.TrackOpened(filepath.Join(n.DataDir, "opened_channels")); err != nil {
		client.Close()
		return nil, err
	}
	n.client = client
	return client, nil
}

func (n *CLightningNode) Client() lightning.PaymentNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client == nil {
		return nil
	}
	return n.client
}

func (n *CLightningNode) RawInfo(ctx context.Context) (string, error) {
	n.mu.Lock()
	client := n.client
	n.mu.Unlock()
	if client == nil {
		return "", fmt.Errorf("%s is not connected", n.Name())
	}
	return client.RawInfo(ctx)
}

func (n *CLightningNode) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client != nil {
		n.client.Close()
		n.client = nil
	}
	return nil
}

func (n *CLightningNode) CLICommand() string {
	return fmt.Sprintf("%s --lightning-dir=%s --network=regtest",
		binary(n.cfg.BinDir, "lightning-cli"), n.DataDir)
}
