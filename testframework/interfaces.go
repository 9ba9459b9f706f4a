package testframework

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/topology"
)

// BlockchainInfo is the part of getblockchaininfo the network looks at.
type BlockchainInfo struct {
	Chain                string `json:"chain"`
	Blocks               uint32 `json:"blocks"`
	Headers              uint32 `json:"headers"`
	BestBlockHash        string `json:"bestblockhash"`
	InitialBlockDownload bool   `json:"initialblockdownload"`
}

// LedgerNode controls the chain backend of the network.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_ledger_node.go -package=mocks github.com/elementsproject/lnregtest/testframework LedgerNode
type LedgerNode interface {
	NewAddress(ctx context.Context) (string, error)
	// GetBalance returns the spendable balance of the ledger wallet.
	GetBalance(ctx context.Context) (btcutil.Amount, error)
	// GenerateBlocks mines n blocks to the ledger wallet.
	GenerateBlocks(ctx context.Context, n int) error
	GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error)
	SendToAddress(ctx context.Context, address string, amount btcutil.Amount) (*chainhash.Hash, error)
}

// Daemon is a process the Supervisor launches and probes.
type Daemon interface {
	Runtime() *RuntimeNode
	// Launch materializes the configuration and spawns the process.
	Launch() error
	// Ready is the readiness condition of the daemon.
	Ready(ctx context.Context) (bool, error)
	// Shutdown releases control connections before the process is stopped.
	Shutdown() error
}

// Ledger is a supervised LedgerNode.
type Ledger interface {
	Daemon
	LedgerNode
	// Setup prepares a ready ledger for funding, e.g. loads its wallet.
	Setup(ctx context.Context) error
	// RpcEndpoint is what payment nodes need to reach the ledger.
	RpcEndpoint() LedgerEndpoint
}

// LedgerEndpoint holds the connection details payment nodes are configured
// with.
type LedgerEndpoint struct {
	Host        string
	RpcPort     int
	RpcUser     string
	RpcPassword string
	ZmqRawBlock string
	ZmqRawTx    string
	DataDir     string
	BitcoinCli  string
}

// LightningNode is a supervised payment node.
type LightningNode interface {
	Daemon
	Spec() topology.NodeSpec
	// Client is nil until the node is ready.
	Client() lightning.PaymentNode
	// Addr is the p2p address peers connect to.
	Addr() string
	// CLICommand is the command line to control the node by hand.
	CLICommand() string
	// RawInfo is the daemon's own getinfo rendered as json.
	RawInfo(ctx context.Context) (string, error)
}
