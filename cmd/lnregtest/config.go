package lnregtest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/network"
	"github.com/elementsproject/lnregtest/poll"
	"github.com/elementsproject/lnregtest/topology"
	"github.com/jessevdk/go-flags"
)

// SnapshotFile is written to the run directory once a network is up.
const SnapshotFile = "snapshot.json"

var (
	DefaultDatadir       = btcutil.AppDataDir("lnregtest", false)
	DefaultConfigFile    = filepath.Join(DefaultDatadir, "lnregtest.conf")
	DefaultTopology      = "star_ring"
	DefaultWalletFunding = uint64(btcutil.SatoshiPerBitcoin)
)

type Config struct {
	ConfigFile string `long:"configfile" description:"path to configfile"`
	DataDir    string `long:"datadir" description:"directory the networks are kept in"`
	BinDir     string `long:"bindir" description:"directory holding bitcoind, lnd and lightningd, PATH when empty"`
	Topology   string `long:"topology" description:"builtin topology name or path to a .yaml/.toml topology"`
	Network    string `long:"network" description:"name of the run, its data lives in datadir/<network> (defaults to the topology name)"`

	NodeLimit   string        `long:"nodelimit" description:"only run the nodes A up to this letter"`
	FromScratch bool          `long:"fromscratch" description:"drop the data of an earlier run instead of restarting it"`
	StartDelay  time.Duration `long:"startdelay" description:"wait between two daemon starts"`
	Timeout     time.Duration `long:"timeout" description:"longest wait for a single readiness probe"`

	WalletFunding uint64 `long:"walletfunding" description:"satoshi paid per wallet funding transaction"`
	ParallelProbe bool   `long:"parallelprobe" description:"probe the payment nodes concurrently"`
	Debug         bool   `long:"debug" description:"debug logging and getinfo dumps"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigFile:    DefaultConfigFile,
		DataDir:       DefaultDatadir,
		Topology:      DefaultTopology,
		Timeout:       poll.DefaultTimeout(),
		WalletFunding: DefaultWalletFunding,
	}
}

// LoadConfig parses args on top of the defaults. Options from the config
// file apply first, command line flags override them.
func LoadConfig(args []string) (*Config, error) {
	cfg := DefaultConfig()
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		fileParser := flags.NewParser(cfg, flags.Default|flags.IgnoreUnknown)
		err = flags.NewIniParser(fileParser).ParseFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	flagParser := flags.NewParser(cfg, flags.Default)
	if _, err := flagParser.ParseArgs(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsHelp reports whether err is go-flags answering --help.
func IsHelp(err error) bool {
	var ferr *flags.Error
	return errors.As(err, &ferr) && ferr.Type == flags.ErrHelp
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("datadir must be set")
	}
	if c.Topology == "" {
		return errors.New("topology must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("startdelay must not be negative, got %s", c.StartDelay)
	}
	if c.WalletFunding == 0 {
		return errors.New("walletfunding must be positive")
	}
	return nil
}

// LoadTopology resolves the topology and applies the node limit.
func (c *Config) LoadTopology() (*topology.Network, error) {
	topo, err := topology.Resolve(c.Topology)
	if err != nil {
		return nil, err
	}
	if c.NodeLimit != "" {
		return topo.Limit(c.NodeLimit)
	}
	return topo, nil
}

// RunDir is the base directory of the network run.
func (c *Config) RunDir(topo *topology.Network) string {
	name := c.Network
	if name == "" {
		name = topo.Name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) NetworkConfig(topo *topology.Network) network.Config {
	cfg := network.DefaultConfig()
	cfg.BaseDir = c.RunDir(topo)
	cfg.BinaryDir = c.BinDir
	cfg.StartDelay = c.StartDelay
	cfg.Probe.Timeout = c.Timeout
	cfg.WalletFunding = btcutil.Amount(c.WalletFunding)
	cfg.FromScratch = c.FromScratch
	cfg.ParallelProbe = c.ParallelProbe
	cfg.DumpNodeInfo = c.Debug
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf("ConfigFile %s, Datadir %s, Bindir %s, Topology %s, Network %s, NodeLimit %q, FromScratch %v, StartDelay %s, Timeout %s, WalletFunding %d, ParallelProbe %v, Debug %v",
		c.ConfigFile, c.DataDir, c.BinDir, c.Topology, c.Network, c.NodeLimit, c.FromScratch,
		c.StartDelay, c.Timeout, c.WalletFunding, c.ParallelProbe, c.Debug)
}
