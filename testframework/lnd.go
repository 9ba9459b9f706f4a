package testframework

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/lnd"
	"github.com/elementsproject/lnregtest/topology"
)

var LND_CONFIG = map[string]string{
	"bitcoin.active":  "true",
	"bitcoin.regtest": "true",
	"bitcoin.node":    "bitcoind",
	"noseedbackup":    "true",
	"debuglevel":      "debug",
}

// NodeConfig is what a payment node driver needs to materialize its daemon.
type NodeConfig struct {
	BaseDir string
	BinDir  string
	Spec    topology.NodeSpec
	// Ledger is asked for its endpoint on every launch since the rpc
	// password changes per run.
	Ledger Ledger
}

func (c NodeConfig) dataDir() string {
	return filepath.Join(c.BaseDir, "nodes", c.Spec.Name)
}

type LndNode struct {
	*RuntimeNode

	ConfigFile string
	spec       topology.NodeSpec
	cfg        NodeConfig

	mu     sync.Mutex
	client *lnd.Client
}

func NewLndNode(cfg NodeConfig) (*LndNode, error) {
	dataDir := cfg.dataDir()
	err := os.MkdirAll(dataDir, os.ModeDir|os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("os.MkdirAll() %w", err)
	}

	configFile := filepath.Join(dataDir, "lnd.conf")
	cmdLine := []string{
		binary(cfg.BinDir, "lnd"),
		fmt.Sprintf("--lnddir=%s", dataDir),
		fmt.Sprintf("--configfile=%s", configFile),
	}

	return &LndNode{
		RuntimeNode: NewRuntimeNode(cfg.Spec.Name, dataDir, NewDaemonProcess(cmdLine, "lnd-"+cfg.Spec.Name)),
		ConfigFile:  configFile,
		spec:        cfg.Spec,
		cfg:         cfg,
	}, nil
}

func (n *LndNode) Runtime() *RuntimeNode {
	return n.RuntimeNode
}

func (n *LndNode) Spec() topology.NodeSpec {
	return n.spec
}

func (n *LndNode) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.spec.ListenPort)
}

func (n *LndNode) tlsCertPath() string {
	return filepath.Join(n.DataDir, "tls.cert")
}

func (n *LndNode) macaroonPath() string {
	return filepath.Join(n.DataDir, "data", "chain", "bitcoin", "regtest", "admin.macaroon")
}

func (n *LndNode) config() map[string]string {
	ledger := n.cfg.Ledger.RpcEndpoint()

	config := make(map[string]string, len(LND_CONFIG)+12)
	for k, v := range LND_CONFIG {
		config[k] = v
	}
	config["alias"] = n.spec.Name
	config["listen"] = n.Addr()
	config["rpclisten"] = fmt.Sprintf("127.0.0.1:%d", n.spec.RPCPort)
	if n.spec.RESTPort != 0 {
		config["restlisten"] = fmt.Sprintf("127.0.0.1:%d", n.spec.RESTPort)
	} else {
		config["norest"] = "true"
	}
	config["bitcoin.basefee"] = strconv.FormatUint(n.spec.BaseFeeMsat, 10)
	config["bitcoin.feerate"] = strconv.FormatUint(n.spec.FeeRatePPM, 10)
	config["bitcoind.rpchost"] = fmt.Sprintf("%s:%d", ledger.Host, ledger.RpcPort)
	config["bitcoind.rpcuser"] = ledger.RpcUser
	config["bitcoind.rpcpass"] = ledger.RpcPassword
	config["bitcoind.zmqpubrawblock"] = ledger.ZmqRawBlock
	config["bitcoind.zmqpubrawtx"] = ledger.ZmqRawTx
	return config
}

func (n *LndNode) Launch() error {
	if err := WriteConfig(n.ConfigFile, n.config(), nil, ""); err != nil {
		return err
	}
	return n.Process.Run()
}

// Ready dials lnd once its tls certificate and macaroon exist and then
// waits for it to be synced to the ledger's tip.
func (n *LndNode) Ready(ctx context.Context) (bool, error) {
	if !n.Process.IsRunning() {
		return false, fmt.Errorf("lnd exited: %v", n.Process.ExitErr())
	}

	client, err := n.dial(ctx)
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

func (n *LndNode) dial(ctx context.Context) (*lnd.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client != nil {
		return n.client, nil
	}
	for _, path := range []string{n.tlsCertPath(), n.macaroonPath()} {
		if !fileExists(path) {
			return nil, fmt.Errorf("waiting for %s", path)
		}
	}
	client, err := lnd.Dial(ctx, &lnd.ClientConfig{
		Host:         fmt.Sprintf("127.0.0.1:%d", n.spec.RPCPort),
		TlsCertPath:  n.tlsCertPath(),
		MacaroonPath: n.macaroonPath(),
	})
	if err != nil {
		return nil, err
	}
	n.client = client
	return client, nil
}

func (n *LndNode) Client() lightning.PaymentNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client == nil {
		return nil
	}
	return n.client
}

func (n *LndNode) RawInfo(ctx context.Context) (string, error) {
	n.mu.Lock()
	client := n.client
	n.mu.Unlock()
	if client == nil {
		return "", fmt.Errorf("%s is not connected", n.Name())
	}
	return client.RawInfo(ctx)
}

func (n *LndNode) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.client == nil {
		return nil
	}
	err := n.client.Close()
	n.client = nil
	return err
}

func (n *LndNode) CLICommand() string {
	return fmt.Sprintf("%s --lnddir=%s --network=regtest --rpcserver=127.0.0.1:%d",
		binary(n.cfg.BinDir, "lncli"), n.DataDir, n.spec.RPCPort)
}
