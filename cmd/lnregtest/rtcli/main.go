package main

import (
	"encoding/json"
	"fmt"
	log2 "log"
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/cmd/lnregtest"
	"github.com/elementsproject/lnregtest/graph"
	"github.com/elementsproject/lnregtest/ident"
	"github.com/elementsproject/lnregtest/network"
	"github.com/elementsproject/lnregtest/topology"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "rtcli"
	app.Usage = "lnregtest network tool"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Value: lnregtest.DefaultDatadir,
			Usage: "directory the networks are kept in",
		},
		cli.StringFlag{
			Name:  "network",
			Usage: "name of the run, defaults to the topology name",
		},
	}
	app.Commands = []cli.Command{
		validateCommand, mappingCommand, commandsCommand, diffCommand,
	}
	err := app.Run(os.Args)
	if err != nil {
		log2.Fatal(err)
	}
}

var (
	topologyFlag = cli.StringFlag{
		Name:  "topology",
		Value: lnregtest.DefaultTopology,
		Usage: "builtin topology name or path to a .yaml/.toml topology",
	}
	nodeLimitFlag = cli.StringFlag{
		Name:  "nodelimit",
		Usage: "only keep the nodes A up to this letter",
	}
	binDirFlag = cli.StringFlag{
		Name:  "bindir",
		Usage: "directory holding the daemon binaries, PATH when empty",
	}
	toleranceFlag = cli.Int64Flag{
		Name:  "tolerance",
		Usage: "allowed balance difference in satoshi",
	}

	validateCommand = cli.Command{
		Name:   "validate",
		Usage:  "check a topology and print its channels",
		Flags:  []cli.Flag{topologyFlag, nodeLimitFlag},
		Action: validate,
	}
	mappingCommand = cli.Command{
		Name:   "mapping",
		Usage:  "print the identifier mapping stored by a network run",
		Flags:  []cli.Flag{topologyFlag},
		Action: mapping,
	}
	commandsCommand = cli.Command{
		Name:   "commands",
		Usage:  "print the command line controlling each daemon",
		Flags:  []cli.Flag{topologyFlag, nodeLimitFlag, binDirFlag},
		Action: commands,
	}
	diffCommand = cli.Command{
		Name:      "diff",
		Usage:     "compare two snapshot files",
		ArgsUsage: "expected.json actual.json",
		Flags:     []cli.Flag{toleranceFlag},
		Action:    diff,
	}
)

func loadTopology(ctx *cli.Context) (*topology.Network, error) {
	topo, err := topology.Resolve(ctx.String("topology"))
	if err != nil {
		return nil, err
	}
	if limit := ctx.String("nodelimit"); limit != "" {
		return topo.Limit(limit)
	}
	return topo, nil
}

func runDir(ctx *cli.Context, topo *topology.Network) string {
	cfg := lnregtest.DefaultConfig()
	cfg.DataDir = ctx.GlobalString("datadir")
	cfg.Network = ctx.GlobalString("network")
	return cfg.RunDir(topo)
}

func validate(ctx *cli.Context) error {
	topo, err := loadTopology(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("topology %s is valid: %d nodes, %d channels\n", topo.Name, len(topo.Nodes), len(topo.Channels))
	for _, node := range topo.Nodes {
		fmt.Printf("  %s %-6s %-4s listen=%d rpc=%d\n", node.Name, node.Role, node.Daemon, node.ListenPort, node.RPCPort)
	}
	for _, c := range topo.OrderedChannels() {
		fmt.Printf("  %2d %s -> %s capacity=%d local=%d remote=%d\n",
			c.ID, c.From, c.To, int64(c.Capacity), int64(c.LocalBalance), int64(c.RemoteBalance))
	}
	return nil
}

func mapping(ctx *cli.Context) error {
	topo, err := loadTopology(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(runDir(ctx, topo), "mapping.db")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no mapping stored for %s: %w", topo.Name, err)
	}
	store, err := ident.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	m, err := store.Load()
	if err != nil {
		return err
	}

	nodes := m.Nodes()
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s %s\n", name, nodes[name])
	}
	channels := m.Channels()
	for _, number := range m.ChannelNumbers() {
		id := channels[number]
		fmt.Printf("%d %s (%d)\n", number, id, id.ToUint64())
	}
	return nil
}

func commands(ctx *cli.Context) error {
	topo, err := loadTopology(ctx)
	if err != nil {
		return err
	}
	cfg := network.DefaultConfig()
	cfg.BaseDir = runDir(ctx, topo)
	cfg.BinaryDir = ctx.String("bindir")
	cmds, err := network.Commands(topo, cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, cmds[name])
	}
	return nil
}

func diff(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.ShowCommandHelp(ctx, "diff")
	}
	expected, err := readSnapshot(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	actual, err := readSnapshot(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	d := graph.Compare(expected, actual, btcutil.Amount(ctx.Int64("tolerance")))
	fmt.Println(d)
	if !d.Empty() {
		return cli.NewExitError("snapshots differ", 1)
	}
	return nil
}

func readSnapshot(path string) (*graph.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s graph.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}
