package main

import (
	"context"
	"encoding/json"
	"errors"
	core_log "log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/elementsproject/lnregtest/cmd/lnregtest"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/network"
)

var GitCommit string

func main() {
	err := run()
	if err != nil {
		core_log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	// load config
	cfg, err := lnregtest.LoadConfig(os.Args[1:])
	if lnregtest.IsHelp(err) {
		return nil
	}
	if err != nil {
		return err
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger, err := log.NewDefaultZapLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log.SetLogger(logger)

	log.Infof("lnregtestd starting up with commit %s and cfg: %s", GitCommit, cfg)

	topo, err := cfg.LoadTopology()
	if err != nil {
		return err
	}
	n, err := network.New(topo, cfg.NetworkConfig(topo))
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- n.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Infof("received signal: %v, shutting down", sig)
		cancel()
		<-runErr
		return stop(n, nil)
	case err := <-runErr:
		if err != nil {
			log.Errorf("network failed: %v", err)
			log.Infof("daemon output:\n%s", n.DumpLogs(20))
			return stop(n, err)
		}
	}

	snapshotFile := filepath.Join(cfg.RunDir(topo), lnregtest.SnapshotFile)
	if err := writeSnapshot(ctx, n, snapshotFile); err != nil {
		log.Warnf("could not write snapshot: %v", err)
	} else {
		log.Infof("snapshot written to %s", snapshotFile)
	}
	if cfg.Debug {
		logMasterView(ctx, n)
	}
	printCommands(n)
	log.Infof("network %s is up, stop with ctrl-c", topo.Name)

	sig := <-sigChan
	log.Infof("received signal: %v, shutting down", sig)
	return stop(n, nil)
}

func stop(n *network.Network, cause error) error {
	stopped, err := n.Stop()
	log.Infof("stopped %d daemons", stopped)
	return errors.Join(cause, err)
}

func writeSnapshot(ctx context.Context, n *network.Network, path string) error {
	snapshot, err := n.Snapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func logMasterView(ctx context.Context, n *network.Network) {
	view, err := n.MasterGraphView(ctx)
	if err != nil {
		log.Warnf("MasterGraphView() %v", err)
		return
	}
	for _, e := range view {
		log.Debugf("graph: channel %d %s <-> %s capacity %d", e.Channel, e.Node1, e.Node2, int64(e.Capacity))
	}
}

func printCommands(n *network.Network) {
	commands := n.CLICommands()
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Infof("%s: %s", name, commands[name])
	}
}
