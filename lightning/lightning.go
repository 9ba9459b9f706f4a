// Package lightning holds the capability set a regtest network needs from a
// payment node, independent of the daemon implementing it.
package lightning

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lnwire"
)

type NodeInfo struct {
	PubKey        string
	Alias         string
	BlockHeight   uint32
	SyncedToChain bool
	NumPeers      int
	NumActive     int
}

// Channel is one channel as seen from the local node.
type Channel struct {
	ChannelID     lnwire.ShortChannelID
	RemotePubKey  string
	Capacity      btcutil.Amount
	LocalBalance  btcutil.Amount
	RemoteBalance btcutil.Amount
	CommitFee     btcutil.Amount
	Initiator     bool
	Active        bool
	FundingTxID   chainhash.Hash
	OutputIndex   uint32
}

// PendingChannel identifies a channel by its funding transaction until it
// has a short channel id.
// PendingChannel is a channel just opened. OutputKnown is false when the
// daemon does not report the funding output index on open.
type PendingChannel struct {
	FundingTxID chainhash.Hash
	OutputIndex uint32
	OutputKnown bool
}

type ChannelBalance struct {
	Local       btcutil.Amount
	Remote      btcutil.Amount
	PendingOpen btcutil.Amount
}

// GraphEdge is a channel from the gossip view of a node.
type GraphEdge struct {
	ChannelID lnwire.ShortChannelID
	Node1     string
	Node2     string
	Capacity  btcutil.Amount
}

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_payment_node.go -package=mocks github.com/elementsproject/lnregtest/lightning PaymentNode
type PaymentNode interface {
	GetInfo(ctx context.Context) (*NodeInfo, error)
	NewAddress(ctx context.Context) (string, error)
	// WalletBalance returns the confirmed on-chain balance.
	WalletBalance(ctx context.Context) (btcutil.Amount, error)
	// ConnectPeer connects to pubkey at host. Connecting to an already
	// connected peer is not an error.
	ConnectPeer(ctx context.Context, pubkey, host string) error
	IsConnected(ctx context.Context, pubkey string) (bool, error)
	// OpenChannel funds a channel of capacity and pushes push to the peer.
	OpenChannel(ctx context.Context, pubkey string, capacity, push btcutil.Amount) (*PendingChannel, error)
	ListChannels(ctx context.Context) ([]Channel, error)
	ChannelBalance(ctx context.Context) (*ChannelBalance, error)
	DescribeGraph(ctx context.Context) ([]GraphEdge, error)
}

// ParseShortChannelID accepts both the "103x1x0" and the "103:1:0" notation.
func ParseShortChannelID(s string) (lnwire.ShortChannelID, error) {
	parts := strings.Split(strings.ReplaceAll(s, ":", "x"), "x")
	if len(parts) != 3 {
		return lnwire.ShortChannelID{}, fmt.Errorf("malformed short channel id %q", s)
	}
	height, err := strconv.ParseUint(parts[0], 10, 24)
	if err != nil {
		return lnwire.ShortChannelID{}, fmt.Errorf("block height of %q: %w", s, err)
	}
	tx, err := strconv.ParseUint(parts[1], 10, 24)
	if err != nil {
		return lnwire.ShortChannelID{}, fmt.Errorf("tx index of %q: %w", s, err)
	}
	out, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return lnwire.ShortChannelID{}, fmt.Errorf("output index of %q: %w", s, err)
	}
	return lnwire.ShortChannelID{
		BlockHeight: uint32(height),
		TxIndex:     uint32(tx),
		TxPosition:  uint16(out),
	}, nil
}

// ParseChannelPoint splits a "txid:index" outpoint.
func ParseChannelPoint(s string) (chainhash.Hash, uint32, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return chainhash.Hash{}, 0, fmt.Errorf("malformed channel point %q", s)
	}
	hash, err := chainhash.NewHashFromStr(s[:i])
	if err != nil {
		return chainhash.Hash{}, 0, fmt.Errorf("NewHashFromStr() %w", err)
	}
	index, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return chainhash.Hash{}, 0, fmt.Errorf("output index of %q: %w", s, err)
	}
	return *hash, uint32(index), nil
}

// FindByFunding returns the channel opened by pending. The output index
// only takes part when it is known.
func FindByFunding(channels []Channel, pending PendingChannel) (Channel, bool) {
	for _, c := range channels {
		if c.FundingTxID != pending.FundingTxID {
			continue
		}
		if pending.OutputKnown && c.OutputIndex != pending.OutputIndex {
			continue
		}
		return c, true
	}
	return Channel{}, false
}
