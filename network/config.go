package network

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/poll"
	"github.com/elementsproject/lnregtest/testframework"
	"github.com/elementsproject/lnregtest/topology"
)

const mappingFile = "mapping.db"

type Config struct {
	// BaseDir holds the ledger's and every node's data directory and the
	// persisted identifier mapping.
	BaseDir string
	// BinaryDir is searched for the daemon binaries. Empty means PATH.
	BinaryDir string

	// StartDelay is waited between two daemon launches.
	StartDelay time.Duration
	StopGrace  time.Duration
	Probe      poll.Policy

	// WalletFunding is paid to a node's wallet per funding transaction.
	WalletFunding btcutil.Amount
	// FundingReserve is kept on top of the capacity of every channel a
	// node opens, for fees and channel reserves.
	FundingReserve       btcutil.Amount
	ConfirmationBlocks   int
	ChannelConfirmations int

	// FromScratch drops the data of a previous run. Otherwise a network
	// with a stored mapping is restarted without assembling it again.
	FromScratch   bool
	ParallelProbe bool
	// NodeLimit keeps the nodes A up to NodeLimit. Empty keeps all.
	NodeLimit string
	// DumpNodeInfo logs the getinfo of every node once it is ready.
	DumpNodeInfo bool
}

func DefaultConfig() Config {
	return Config{
		StopGrace:            testframework.DefaultStopGrace,
		Probe:                poll.DefaultPolicy(),
		WalletFunding:        btcutil.SatoshiPerBitcoin,
		FundingReserve:       100_000,
		ConfirmationBlocks:   6,
		ChannelConfirmations: 6,
		FromScratch:          true,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.StopGrace <= 0 {
		c.StopGrace = def.StopGrace
	}
	c.Probe = c.Probe.WithDefaults()
	if c.WalletFunding <= 0 {
		c.WalletFunding = def.WalletFunding
	}
	if c.FundingReserve < 0 {
		c.FundingReserve = 0
	}
	if c.ConfirmationBlocks <= 0 {
		c.ConfirmationBlocks = def.ConfirmationBlocks
	}
	if c.ChannelConfirmations <= 0 {
		c.ChannelConfirmations = def.ChannelConfirmations
	}
}

func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base directory is required")
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("start delay must not be negative")
	}
	return nil
}

func (c Config) mappingPath() string {
	return filepath.Join(c.BaseDir, mappingFile)
}

// NodeFactory creates the driver of a payment node.
type NodeFactory func(cfg testframework.NodeConfig) (testframework.LightningNode, error)

// DefaultNodeFactory drives lnd and Core Lightning daemons.
func DefaultNodeFactory(cfg testframework.NodeConfig) (testframework.LightningNode, error) {
	switch cfg.Spec.Daemon {
	case topology.DaemonLnd:
		return testframework.NewLndNode(cfg)
	case topology.DaemonCLN:
		return testframework.NewCLightningNode(cfg)
	default:
		return nil, fmt.Errorf("unknown daemon %q", cfg.Spec.Daemon)
	}
}

type Option func(*Network)

// WithLedger replaces the bitcoind ledger.
func WithLedger(ledger testframework.Ledger) Option {
	return func(n *Network) {
		n.ledger = ledger
	}
}

func WithNodeFactory(factory NodeFactory) Option {
	return func(n *Network) {
		n.newNode = factory
	}
}
