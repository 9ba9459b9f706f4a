package lnd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// LightningClient is the subset of lnrpc.LightningClient a regtest network
// drives.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_lightning_client.go -package=mocks github.com/elementsproject/lnregtest/lnd LightningClient
type LightningClient interface {
	GetInfo(ctx context.Context, in *lnrpc.GetInfoRequest, opts ...grpc.CallOption) (*lnrpc.GetInfoResponse, error)
	NewAddress(ctx context.Context, in *lnrpc.NewAddressRequest, opts ...grpc.CallOption) (*lnrpc.NewAddressResponse, error)
	WalletBalance(ctx context.Context, in *lnrpc.WalletBalanceRequest, opts ...grpc.CallOption) (*lnrpc.WalletBalanceResponse, error)
	ConnectPeer(ctx context.Context, in *lnrpc.ConnectPeerRequest, opts ...grpc.CallOption) (*lnrpc.ConnectPeerResponse, error)
	ListPeers(ctx context.Context, in *lnrpc.ListPeersRequest, opts ...grpc.CallOption) (*lnrpc.ListPeersResponse, error)
	OpenChannelSync(ctx context.Context, in *lnrpc.OpenChannelRequest, opts ...grpc.CallOption) (*lnrpc.ChannelPoint, error)
	ListChannels(ctx context.Context, in *lnrpc.ListChannelsRequest, opts ...grpc.CallOption) (*lnrpc.ListChannelsResponse, error)
	ChannelBalance(ctx context.Context, in *lnrpc.ChannelBalanceRequest, opts ...grpc.CallOption) (*lnrpc.ChannelBalanceResponse, error)
	DescribeGraph(ctx context.Context, in *lnrpc.ChannelGraphRequest, opts ...grpc.CallOption) (*lnrpc.ChannelGraph, error)
}

// Client implements lightning.PaymentNode on top of lnd's grpc api.
type Client struct {
	rpc  LightningClient
	conn *grpc.ClientConn
}

func NewClient(rpc LightningClient) *Client {
	return &Client{rpc: rpc}
}

// Dial connects to lnd and returns a client owning the connection.
func Dial(ctx context.Context, cfg *ClientConfig) (*Client, error) {
	conn, err := GetClientConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: lnrpc.NewLightningClient(conn), conn: conn}, nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RawInfo returns lnd's getinfo response rendered as json.
func (c *Client) RawInfo(ctx context.Context) (string, error) {
	info, err := c.rpc.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		return "", fmt.Errorf("GetInfo() %w", err)
	}
	b, err := protojson.MarshalOptions{Multiline: true}.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("protojson.Marshal() %w", err)
	}
	return string(b), nil
}

func (c *Client) GetInfo(ctx context.Context) (*lightning.NodeInfo, error) {
	info, err := c.rpc.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		return nil, fmt.Errorf("GetInfo() %w", err)
	}
	return &lightning.NodeInfo{
		PubKey:        info.IdentityPubkey,
		Alias:         info.Alias,
		BlockHeight:   info.BlockHeight,
		SyncedToChain: info.SyncedToChain,
		NumPeers:      int(info.NumPeers),
		NumActive:     int(info.NumActiveChannels),
	}, nil
}

func (c *Client) NewAddress(ctx context.Context) (string, error) {
	res, err := c.rpc.NewAddress(ctx, &lnrpc.NewAddressRequest{
		Type: lnrpc.AddressType_WITNESS_PUBKEY_HASH,
	})
	if err != nil {
		return "", fmt.Errorf("NewAddress() %w", err)
	}
	return res.Address, nil
}

func (c *Client) WalletBalance(ctx context.Context) (btcutil.Amount, error) {
	res, err := c.rpc.WalletBalance(ctx, &lnrpc.WalletBalanceRequest{})
	if err != nil {
		return 0, fmt.Errorf("WalletBalance() %w", err)
	}
	return btcutil.Amount(res.ConfirmedBalance), nil
}

func (c *Client) ConnectPeer(ctx context.Context, pubkey, host string) error {
	_, err := c.rpc.ConnectPeer(ctx, &lnrpc.ConnectPeerRequest{
		Addr: &lnrpc.LightningAddress{
			Pubkey: pubkey,
			Host:   host,
		},
	})
	if err != nil {
		if isAlreadyConnected(err) {
			return nil
		}
		return fmt.Errorf("ConnectPeer(%s@%s) %w", pubkey, host, err)
	}
	return nil
}

func isAlreadyConnected(err error) bool {
	msg := err.Error()
	if s, ok := status.FromError(err); ok {
		msg = s.Message()
	}
	return strings.Contains(msg, "already connected")
}

func (c *Client) IsConnected(ctx context.Context, pubkey string) (bool, error) {
	res, err := c.rpc.ListPeers(ctx, &lnrpc.ListPeersRequest{})
	if err != nil {
		return false, fmt.Errorf("ListPeers() %w", err)
	}
	for _, peer := range res.Peers {
		if peer.PubKey == pubkey {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) OpenChannel(ctx context.Context, pubkey string, capacity, push btcutil.Amount) (*lightning.PendingChannel, error) {
	key, err := hex.DecodeString(pubkey)
	if err != nil {
		return nil, fmt.Errorf("DecodeString(%s) %w", pubkey, err)
	}
	cp, err := c.rpc.OpenChannelSync(ctx, &lnrpc.OpenChannelRequest{
		NodePubkey:         key,
		LocalFundingAmount: int64(capacity),
		PushSat:            int64(push),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenChannelSync() %w", err)
	}
	txid, err := lnrpc.GetChanPointFundingTxid(cp)
	if err != nil {
		return nil, fmt.Errorf("GetChanPointFundingTxid() %w", err)
	}
	return &lightning.PendingChannel{
		FundingTxID: *txid,
		OutputIndex: cp.OutputIndex,
		OutputKnown: true,
	}, nil
}

func (c *Client) ListChannels(ctx context.Context) ([]lightning.Channel, error) {
	res, err := c.rpc.ListChannels(ctx, &lnrpc.ListChannelsRequest{})
	if err != nil {
		return nil, fmt.Errorf("ListChannels() %w", err)
	}

	channels := make([]lightning.Channel, 0, len(res.Channels))
	for _, ch := range res.Channels {
		txid, index, err := lightning.ParseChannelPoint(ch.ChannelPoint)
		if err != nil {
			return nil, err
		}
		channels = append(channels, lightning.Channel{
			ChannelID:     lnwire.NewShortChanIDFromInt(ch.ChanId),
			RemotePubKey:  ch.RemotePubkey,
			Capacity:      btcutil.Amount(ch.Capacity),
			LocalBalance:  btcutil.Amount(ch.LocalBalance),
			RemoteBalance: btcutil.Amount(ch.RemoteBalance),
			CommitFee:     btcutil.Amount(ch.CommitFee),
			Initiator:     ch.Initiator,
			Active:        ch.Active,
			FundingTxID:   txid,
			OutputIndex:   index,
		})
	}
	return channels, nil
}

func (c *Client) ChannelBalance(ctx context.Context) (*lightning.ChannelBalance, error) {
	res, err := c.rpc.ChannelBalance(ctx, &lnrpc.ChannelBalanceRequest{})
	if err != nil {
		return nil, fmt.Errorf("ChannelBalance() %w", err)
	}
	balance := &lightning.ChannelBalance{}
	if res.LocalBalance != nil {
		balance.Local = btcutil.Amount(res.LocalBalance.Sat)
	}
	if res.RemoteBalance != nil {
		balance.Remote = btcutil.Amount(res.RemoteBalance.Sat)
	}
	if res.PendingOpenLocalBalance != nil {
		balance.PendingOpen = btcutil.Amount(res.PendingOpenLocalBalance.Sat)
	}
	return balance, nil
}

func (c *Client) DescribeGraph(ctx context.Context) ([]lightning.GraphEdge, error) {
	res, err := c.rpc.DescribeGraph(ctx, &lnrpc.ChannelGraphRequest{IncludeUnannounced: true})
	if err != nil {
		return nil, fmt.Errorf("DescribeGraph() %w", err)
	}
	edges := make([]lightning.GraphEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		edges = append(edges, lightning.GraphEdge{
			ChannelID: lnwire.NewShortChanIDFromInt(e.ChannelId),
			Node1:     e.Node1Pub,
			Node2:     e.Node2Pub,
			Capacity:  btcutil.Amount(e.Capacity),
		})
	}
	return edges, nil
}
