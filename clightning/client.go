// Package clightning adapts a core lightning rpc socket to the payment node
// capabilities a regtest network drives.
package clightning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/elementsproject/glightning/glightning"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	// stateNormal is the channeld state of an open and usable channel.
	stateNormal      = "CHANNELD_NORMAL"
	stateAwaitLockin = "CHANNELD_AWAITING_LOCKIN"

	outputConfirmed = "confirmed"
)

// LightningClient is the subset of glightning.Lightning a regtest network
// drives.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_lightning_client.go -package=mocks github.com/elementsproject/lnregtest/clightning LightningClient
type LightningClient interface {
	GetInfo() (*glightning.NodeInfo, error)
	NewAddr() (string, error)
	ListFunds() (*glightning.FundsResult, error)
	ListPeers() ([]*glightning.Peer, error)
	Connect(peerId, host string, port uint) (string, error)
	FundChannelExt(id string, amount *glightning.Sat, feerate *glightning.FeeRate, announce bool, minConf *uint16, pushMSat *glightning.MSat) (*glightning.FundChannelResult, error)
	ListChannels() ([]*glightning.Channel, error)
}

// Client implements lightning.PaymentNode for core lightning.
//
// listfunds does not report which side funded a channel, so the client
// remembers the funding transactions it created itself.
type Client struct {
	rpc LightningClient
	ln  *glightning.Lightning

	sync.Mutex
	opened     map[chainhash.Hash]struct{}
	openedFile string
}

func NewClient(rpc LightningClient) *Client {
	return &Client{
		rpc:    rpc,
		opened: make(map[chainhash.Hash]struct{}),
	}
}

// Dial connects to the rpc socket rpcFile inside lightningDir.
func Dial(rpcFile, lightningDir string, timeout time.Duration) (*Client, error) {
	lcli := glightning.NewLightning()
	lcli.SetTimeout(uint(timeout.Seconds()))
	if err := lcli.StartUp(rpcFile, lightningDir); err != nil {
		return nil, fmt.Errorf("StartUp(%s) %w", rpcFile, err)
	}
	c := NewClient(lcli)
	c.ln = lcli
	return c, nil
}

// Close closes the rpc socket.
func (c *Client) Close() {
	if c.ln != nil {
		c.ln.Shutdown()
	}
}

// RawInfo returns lightningd's getinfo response rendered as json.
func (c *Client) RawInfo(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := c.rpc.GetInfo()
	if err != nil {
		return "", fmt.Errorf("GetInfo() %w", err)
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json.Marshal() %w", err)
	}
	return string(b), nil
}

// TrackOpened keeps the funding txids of opened channels in path, one per
// line, so that the initiator side survives a restart.
func (c *Client) TrackOpened(path string) error {
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ReadFile(%s) %w", path, err)
	}

	c.Lock()
	defer c.Unlock()
	for _, line := range strings.Fields(string(b)) {
		txid, err := chainhash.NewHashFromStr(line)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.opened[*txid] = struct{}{}
	}
	c.openedFile = path
	return nil
}

// MarkOpened records txid as a channel funded by this node.
func (c *Client) MarkOpened(txid chainhash.Hash) error {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.opened[txid]; ok {
		return nil
	}
	c.opened[txid] = struct{}{}
	if c.openedFile == "" {
		return nil
	}

	f, err := os.OpenFile(c.openedFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("OpenFile(%s) %w", c.openedFile, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, txid.String()); err != nil {
		return fmt.Errorf("write %s: %w", c.openedFile, err)
	}
	return nil
}

func (c *Client) isOpener(txid chainhash.Hash) bool {
	c.Lock()
	defer c.Unlock()
	_, ok := c.opened[txid]
	return ok
}

func (c *Client) GetInfo(ctx context.Context) (*lightning.NodeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := c.rpc.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("GetInfo() %w", err)
	}
	return &lightning.NodeInfo{
		PubKey:        info.Id,
		Alias:         info.Alias,
		BlockHeight:   uint32(info.Blockheight),
		SyncedToChain: info.IsBitcoindSync() && info.IsLightningdSync(),
		NumPeers:      info.PeerCount,
		NumActive:     info.ActiveChannelCount,
	}, nil
}

func (c *Client) NewAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	addr, err := c.rpc.NewAddr()
	if err != nil {
		return "", fmt.Errorf("NewAddr() %w", err)
	}
	return addr, nil
}

func (c *Client) WalletBalance(ctx context.Context) (btcutil.Amount, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	funds, err := c.rpc.ListFunds()
	if err != nil {
		return 0, fmt.Errorf("ListFunds() %w", err)
	}
	var sum btcutil.Amount
	for _, output := range funds.Outputs {
		if output.Status != outputConfirmed {
			continue
		}
		value := msatToSat(output.AmountMilliSatoshi)
		if value == 0 {
			value = btcutil.Amount(output.Value)
		}
		sum += value
	}
	return sum, nil
}

func (c *Client) ConnectPeer(ctx context.Context, pubkey, host string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h, p, err := net.SplitHostPort(host)
	if err != nil {
		return fmt.Errorf("SplitHostPort(%s) %w", host, err)
	}
	port, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return fmt.Errorf("port of %s: %w", host, err)
	}
	if _, err := c.rpc.Connect(pubkey, h, uint(port)); err != nil {
		if strings.Contains(err.Error(), "already connected") {
			return nil
		}
		return fmt.Errorf("Connect(%s@%s) %w", pubkey, host, err)
	}
	return nil
}

func (c *Client) IsConnected(ctx context.Context, pubkey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	peers, err := c.rpc.ListPeers()
	if err != nil {
		return false, fmt.Errorf("ListPeers() %w", err)
	}
	for _, peer := range peers {
		if peer.Id == pubkey && peer.Connected {
			return true, nil
		}
	}
	return false, nil
}

// OpenChannel funds a public channel at the default feerate. The output
// index is unknown until the channel shows up in ListChannels.
func (c *Client) OpenChannel(ctx context.Context, pubkey string, capacity, push btcutil.Amount) (*lightning.PendingChannel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var pushMsat *glightning.MSat
	if push > 0 {
		pushMsat = glightning.NewMsat(uint64(push) * 1000)
	}
	res, err := c.rpc.FundChannelExt(pubkey, glightning.NewSat64(uint64(capacity)), nil, true, nil, pushMsat)
	if err != nil {
		return nil, fmt.Errorf("FundChannelExt(%s) %w", pubkey, err)
	}
	txid, err := chainhash.NewHashFromStr(res.FundingTxId)
	if err != nil {
		return nil, fmt.Errorf("NewHashFromStr(%s) %w", res.FundingTxId, err)
	}
	if err := c.MarkOpened(*txid); err != nil {
		return nil, err
	}
	return &lightning.PendingChannel{FundingTxID: *txid}, nil
}

func (c *Client) ListChannels(ctx context.Context) ([]lightning.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	funds, err := c.rpc.ListFunds()
	if err != nil {
		return nil, fmt.Errorf("ListFunds() %w", err)
	}

	channels := make([]lightning.Channel, 0, len(funds.Channels))
	for _, ch := range funds.Channels {
		channel, err := c.toChannel(ch)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func (c *Client) toChannel(ch *glightning.FundingChannel) (lightning.Channel, error) {
	var scid lnwire.ShortChannelID
	if ch.ShortChannelId != "" {
		var err error
		scid, err = lightning.ParseShortChannelID(ch.ShortChannelId)
		if err != nil {
			return lightning.Channel{}, err
		}
	}
	txid, err := chainhash.NewHashFromStr(ch.FundingTxId)
	if err != nil {
		return lightning.Channel{}, fmt.Errorf("NewHashFromStr(%s) %w", ch.FundingTxId, err)
	}

	local, capacity := channelAmounts(ch)
	return lightning.Channel{
		ChannelID:     scid,
		RemotePubKey:  ch.Id,
		Capacity:      capacity,
		LocalBalance:  local,
		RemoteBalance: capacity - local,
		Initiator:     c.isOpener(*txid),
		Active:        ch.State == stateNormal && ch.Connected && ch.ShortChannelId != "",
		FundingTxID:   *txid,
		OutputIndex:   uint32(ch.FundingOutput),
	}, nil
}

func (c *Client) ChannelBalance(ctx context.Context) (*lightning.ChannelBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	funds, err := c.rpc.ListFunds()
	if err != nil {
		return nil, fmt.Errorf("ListFunds() %w", err)
	}
	balance := &lightning.ChannelBalance{}
	for _, ch := range funds.Channels {
		local, capacity := channelAmounts(ch)
		switch ch.State {
		case stateNormal:
			balance.Local += local
			balance.Remote += capacity - local
		case stateAwaitLockin:
			balance.PendingOpen += local
		}
	}
	return balance, nil
}

// DescribeGraph folds the two directed halves listchannels reports per
// channel into one edge with node1 < node2.
func (c *Client) DescribeGraph(ctx context.Context) ([]lightning.GraphEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chans, err := c.rpc.ListChannels()
	if err != nil {
		return nil, fmt.Errorf("ListChannels() %w", err)
	}

	seen := make(map[string]lightning.GraphEdge)
	for _, ch := range chans {
		if _, ok := seen[ch.ShortChannelId]; ok {
			continue
		}
		scid, err := lightning.ParseShortChannelID(ch.ShortChannelId)
		if err != nil {
			return nil, err
		}
		node1, node2 := ch.Source, ch.Destination
		if node2 < node1 {
			node1, node2 = node2, node1
		}
		capacity := msatToSat(ch.AmountMsat)
		if capacity == 0 {
			capacity = btcutil.Amount(ch.Satoshis)
		}
		seen[ch.ShortChannelId] = lightning.GraphEdge{
			ChannelID: scid,
			Node1:     node1,
			Node2:     node2,
			Capacity:  capacity,
		}
	}

	edges := make([]lightning.GraphEdge, 0, len(seen))
	for _, e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ChannelID.ToUint64() < edges[j].ChannelID.ToUint64()
	})
	return edges, nil
}

// channelAmounts returns our side and the capacity of ch. Current
// lightningd only reports the msat fields, older ones only channel_sat.
func channelAmounts(ch *glightning.FundingChannel) (local, capacity btcutil.Amount) {
	local = msatToSat(ch.OurAmountMilliSatoshi)
	if local == 0 {
		local = btcutil.Amount(ch.ChannelSatoshi)
	}
	capacity = msatToSat(ch.AmountMilliSatoshi)
	if capacity == 0 {
		capacity = btcutil.Amount(ch.ChannelTotalSatoshi)
	}
	return local, capacity
}

func msatToSat(a glightning.Amount) btcutil.Amount {
	return btcutil.Amount(a.MSat() / 1000)
}
