package testframework

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/ybbus/jsonrpc"
)

// RpcProxy is a JSON-RPC client for bitcoind configured from its config
// file.
type RpcProxy struct {
	rpcHost    string
	rpcPort    int
	configFile string
	serviceURL *url.URL
	authHeader []byte

	mu  sync.RWMutex
	Rpc jsonrpc.RPCClient
}

func NewRpcProxy(configFile string) (*RpcProxy, error) {
	conf, err := ReadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("ReadConfig() %w", err)
	}

	var rpcPort int
	if port, ok := conf["rpcport"]; ok {
		portInt, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("could not convert string to int %w", err)
		}
		rpcPort = portInt
	} else {
		return nil, fmt.Errorf("rpcport not found in config %s", configFile)
	}

	rpcHost := "127.0.0.1"
	if host, ok := conf["rpchost"]; ok {
		rpcHost = host
	}

	serviceURL, err := url.Parse(fmt.Sprintf("http://%s:%d", rpcHost, rpcPort))
	if err != nil {
		return nil, fmt.Errorf("url.Parse() %w", err)
	}

	user, ok := conf["rpcuser"]
	if !ok {
		return nil, fmt.Errorf("rpcuser not found in config %s", configFile)
	}
	pass, ok := conf["rpcpassword"]
	if !ok {
		return nil, fmt.Errorf("rpcpassword not found in config %s", configFile)
	}

	auth64 := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", user, pass)))
	authHeader := append([]byte("Basic "), []byte(auth64)...)

	p := &RpcProxy{
		rpcHost:    rpcHost,
		rpcPort:    rpcPort,
		configFile: configFile,
		serviceURL: serviceURL,
		authHeader: authHeader,
	}
	p.UpdateServiceUrl(serviceURL.String())
	return p, nil
}

// Call sends method and returns an error for transport failures and for
// error responses alike.
func (p *RpcProxy) Call(method string, parameters ...any) (*jsonrpc.RPCResponse, error) {
	p.mu.RLock()
	rpc := p.Rpc
	p.mu.RUnlock()

	r, err := rpc.Call(method, parameters...)
	if err != nil {
		return nil, err
	}
	if r.Error != nil {
		return nil, r.Error
	}
	return r, nil
}

// UpdateServiceUrl points the client at url, e.g. a wallet endpoint.
func (p *RpcProxy) UpdateServiceUrl(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Rpc = jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
		CustomHeaders: map[string]string{
			"Authorization": string(p.authHeader),
		},
	})
}

func (p *RpcProxy) WalletURL(wallet string) string {
	return fmt.Sprintf("%s/wallet/%s", p.serviceURL.String(), wallet)
}
