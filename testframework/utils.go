package testframework

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"

	"github.com/elementsproject/lnregtest/topology"
)

func GetFreePort() (port int, err error) {
	var a *net.TCPAddr
	if a, err = net.ResolveTCPAddr("tcp", "localhost:0"); err == nil {
		var l *net.TCPListener
		if l, err = net.ListenTCP("tcp", a); err == nil {
			defer l.Close()
			return l.Addr().(*net.TCPAddr).Port, nil
		}
	}
	return
}

// WithFreePorts returns a copy of topo whose ledger and node ports are
// replaced by distinct ports that are free right now. Runs on a shared host
// use it to stay out of each other's way.
func WithFreePorts(topo *topology.Network) (*topology.Network, error) {
	seen := map[int]bool{}
	next := func(port *int) error {
		if *port == 0 {
			return nil
		}
		for i := 0; i < 100; i++ {
			p, err := GetFreePort()
			if err != nil {
				return err
			}
			if !seen[p] {
				seen[p] = true
				*port = p
				return nil
			}
		}
		return errors.New("no distinct free port found")
	}

	out := *topo
	out.Nodes = append([]topology.NodeSpec(nil), topo.Nodes...)
	out.Channels = append([]topology.ChannelSpec(nil), topo.Channels...)
	ports := []*int{&out.Ledger.RPCPort, &out.Ledger.P2PPort, &out.Ledger.ZMQBlockPort, &out.Ledger.ZMQTxPort}
	for i := range out.Nodes {
		ports = append(ports, &out.Nodes[i].ListenPort, &out.Nodes[i].RPCPort, &out.Nodes[i].RESTPort)
	}
	for _, port := range ports {
		if err := next(port); err != nil {
			return nil, err
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func GenerateRandomString(n int) (string, error) {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		ret[i] = letters[num.Int64()]
	}

	return string(ret), nil
}

// binary returns the path of a daemon binary. An empty binDir leaves the
// lookup to PATH.
func binary(binDir, name string) string {
	if binDir == "" {
		return name
	}
	return filepath.Join(binDir, name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
