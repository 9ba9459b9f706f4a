package testframework

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/topology"
)

const (
	// LedgerName names the bitcoind node in logs and errors.
	LedgerName = "bitcoind"

	// MatureHeight is the height at which the first coinbase is spendable.
	MatureHeight = 101

	defaultWallet = "lnregtest"
	rpcUser       = "lnregtest"
)

var BITCOIND_CONFIG = map[string]string{
	"regtest":     "1",
	"server":      "1",
	"txindex":     "1",
	"fallbackfee": "0.00001",
	"rpcuser":     rpcUser,
}

type BitcoinNode struct {
	*RuntimeNode
	*RpcProxy

	ConfigFile  string
	RpcPort     int
	RpcUser     string
	RpcPassword string
	WalletName  string

	spec   topology.LedgerSpec
	binDir string
}

// NewBitcoinNode prepares a bitcoind in baseDir/bitcoind. The data directory
// survives restarts, the rpc password is fresh for every run.
func NewBitcoinNode(baseDir, binDir string, spec topology.LedgerSpec) (*BitcoinNode, error) {
	dataDir := filepath.Join(baseDir, LedgerName)
	err := os.MkdirAll(dataDir, os.ModeDir|os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("os.MkdirAll() %w", err)
	}

	rpcPass, err := GenerateRandomString(24)
	if err != nil {
		return nil, fmt.Errorf("GenerateRandomString() %w", err)
	}

	config := make(map[string]string, len(BITCOIND_CONFIG)+3)
	for k, v := range BITCOIND_CONFIG {
		config[k] = v
	}
	config["rpcpassword"] = rpcPass
	config["zmqpubrawblock"] = fmt.Sprintf("tcp://127.0.0.1:%d", spec.ZMQBlockPort)
	config["zmqpubrawtx"] = fmt.Sprintf("tcp://127.0.0.1:%d", spec.ZMQTxPort)
	regtestConfig := map[string]string{
		"rpcport": strconv.Itoa(spec.RPCPort),
		"port":    strconv.Itoa(spec.P2PPort),
	}

	configFile := filepath.Join(dataDir, "bitcoin.conf")
	if err := WriteConfig(configFile, config, regtestConfig, "regtest"); err != nil {
		return nil, err
	}

	proxy, err := NewRpcProxy(configFile)
	if err != nil {
		return nil, fmt.Errorf("NewRpcProxy(configFile) %w", err)
	}

	cmdLine := []string{
		binary(binDir, "bitcoind"),
		fmt.Sprintf("-datadir=%s", dataDir),
		fmt.Sprintf("-conf=%s", configFile),
		"-printtoconsole",
		"-logtimestamps",
		"-addresstype=bech32",
	}

	return &BitcoinNode{
		RuntimeNode: NewRuntimeNode(LedgerName, dataDir, NewDaemonProcess(cmdLine, LedgerName)),
		RpcProxy:    proxy,
		ConfigFile:  configFile,
		RpcPort:     spec.RPCPort,
		RpcUser:     rpcUser,
		RpcPassword: rpcPass,
		WalletName:  defaultWallet,
		spec:        spec,
		binDir:      binDir,
	}, nil
}

func (n *BitcoinNode) Runtime() *RuntimeNode {
	return n.RuntimeNode
}

func (n *BitcoinNode) Launch() error {
	return n.Process.Run()
}

// Ready holds once bitcoind answers rpc calls and left the warmup phase.
func (n *BitcoinNode) Ready(ctx context.Context) (bool, error) {
	if !n.Process.IsRunning() {
		return false, fmt.Errorf("bitcoind exited: %v", n.Process.ExitErr())
	}
	if _, err := n.GetBlockchainInfo(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (n *BitcoinNode) Shutdown() error {
	return nil
}

// Setup loads the ledger wallet, creating it on first start, and mines
// until the first coinbase is spendable.
func (n *BitcoinNode) Setup(ctx context.Context) error {
	if err := n.loadWallet(ctx); err != nil {
		return err
	}

	info, err := n.GetBlockchainInfo(ctx)
	if err != nil {
		return err
	}
	if info.Blocks < MatureHeight {
		log.Debugf("[%s] mining %d blocks to maturity", LedgerName, MatureHeight-info.Blocks)
		return n.GenerateBlocks(ctx, int(MatureHeight-info.Blocks))
	}
	return nil
}

func (n *BitcoinNode) loadWallet(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.Call("createwallet", n.WalletName)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("Call(\"createwallet\") %w", err)
		}
		_, err = n.Call("loadwallet", n.WalletName)
		if err != nil && !strings.Contains(err.Error(), "already loaded") {
			return fmt.Errorf("Call(\"loadwallet\") %w", err)
		}
	}
	n.UpdateServiceUrl(n.WalletURL(n.WalletName))
	return nil
}

func (n *BitcoinNode) RpcEndpoint() LedgerEndpoint {
	return LedgerEndpoint{
		Host:        "127.0.0.1",
		RpcPort:     n.spec.RPCPort,
		RpcUser:     n.RpcUser,
		RpcPassword: n.RpcPassword,
		ZmqRawBlock: fmt.Sprintf("tcp://127.0.0.1:%d", n.spec.ZMQBlockPort),
		ZmqRawTx:    fmt.Sprintf("tcp://127.0.0.1:%d", n.spec.ZMQTxPort),
		DataDir:     n.DataDir,
		BitcoinCli:  binary(n.binDir, "bitcoin-cli"),
	}
}

func (n *BitcoinNode) NewAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r, err := n.Call("getnewaddress")
	if err != nil {
		return "", fmt.Errorf("Call(\"getnewaddress\") %w", err)
	}
	addr, err := r.GetString()
	if err != nil {
		return "", fmt.Errorf("GetString() %w", err)
	}
	return addr, nil
}

func (n *BitcoinNode) GetBalance(ctx context.Context) (btcutil.Amount, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r, err := n.Call("getbalance")
	if err != nil {
		return 0, fmt.Errorf("Call(\"getbalance\") %w", err)
	}
	btc, err := r.GetFloat()
	if err != nil {
		return 0, fmt.Errorf("GetFloat() %w", err)
	}
	return btcutil.NewAmount(btc)
}

func (n *BitcoinNode) GenerateBlocks(ctx context.Context, b int) error {
	address, err := n.NewAddress(ctx)
	if err != nil {
		return err
	}
	_, err = n.Call("generatetoaddress", b, address)
	if err != nil {
		return fmt.Errorf("Call(\"generatetoaddress\") %w", err)
	}
	return nil
}

func (n *BitcoinNode) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := n.Call("getblockchaininfo")
	if err != nil {
		return nil, fmt.Errorf("Call(\"getblockchaininfo\") %w", err)
	}
	var info BlockchainInfo
	if err := r.GetObject(&info); err != nil {
		return nil, fmt.Errorf("GetObject() %w", err)
	}
	return &info, nil
}

// SendToAddress pays amount to a regtest address and returns the txid.
func (n *BitcoinNode) SendToAddress(ctx context.Context, address string, amount btcutil.Amount) (*chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := btcutil.DecodeAddress(address, &chaincfg.RegressionNetParams); err != nil {
		return nil, fmt.Errorf("DecodeAddress(%s) %w", address, err)
	}
	r, err := n.Call("sendtoaddress", address, amount.ToBTC())
	if err != nil {
		return nil, fmt.Errorf("Call(\"sendtoaddress\", %s, %v) %w", address, amount, err)
	}
	txid, err := r.GetString()
	if err != nil {
		return nil, fmt.Errorf("GetString() %w", err)
	}
	return chainhash.NewHashFromStr(txid)
}

func (n *BitcoinNode) CLICommand() string {
	return bitcoinCLICommand(n.binDir, n.DataDir, n.ConfigFile, n.WalletName)
}

// LedgerCLICommand is the bitcoin-cli invocation for the ledger kept in
// baseDir, without preparing the ledger.
func LedgerCLICommand(baseDir, binDir string) string {
	dataDir := filepath.Join(baseDir, LedgerName)
	return bitcoinCLICommand(binDir, dataDir, filepath.Join(dataDir, "bitcoin.conf"), defaultWallet)
}

func bitcoinCLICommand(binDir, dataDir, configFile, wallet string) string {
	return fmt.Sprintf("%s -datadir=%s -conf=%s -rpcwallet=%s",
		binary(binDir, "bitcoin-cli"), dataDir, configFile, wallet)
}
