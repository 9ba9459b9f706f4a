package network

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/elementsproject/lnregtest/failure"
	"github.com/elementsproject/lnregtest/lightning"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/testframework"
	"github.com/elementsproject/lnregtest/topology"
)

// Assemble funds the wallets of the nodes and opens every channel of the
// topology in ascending id order. The first failure aborts; later channels
// are not attempted and the daemons keep running.
func (n *Network) Assemble(ctx context.Context) error {
	if err := n.fundOpeners(ctx); err != nil {
		return err
	}

	connected := map[[2]string]bool{}
	for _, c := range n.topo.OrderedChannels() {
		if err := n.assembleChannel(ctx, c, connected); err != nil {
			return err
		}
	}
	return nil
}

// fundingNeed is what a node's wallet has to hold to open all of its
// channels.
func (n *Network) fundingNeed(name string) btcutil.Amount {
	var need btcutil.Amount
	for _, c := range n.topo.ChannelsFrom(name) {
		need += c.Capacity + n.cfg.FundingReserve
	}
	return need
}

func (n *Network) fundOpeners(ctx context.Context) error {
	needs := map[string]btcutil.Amount{}
	for _, node := range n.nodes {
		name := node.Spec().Name
		if need := n.fundingNeed(name); need > 0 {
			needs[name] = need
		}
	}
	if node, err := n.fund(ctx, needs); err != nil {
		var channel int
		if opens := n.topo.ChannelsFrom(node); len(opens) > 0 {
			channel = opens[0].ID
		}
		return failure.NewAssembly(channel, node, "fund", err)
	}
	return nil
}

// fund pays every node in needs until its wallet covers the need, mines the
// funding transactions and waits for the nodes to see their balance. On
// failure it returns the name of the node being funded, the ledger's name
// when mining failed.
func (n *Network) fund(ctx context.Context, needs map[string]btcutil.Amount) (string, error) {
	var paid []string
	for _, node := range n.nodes {
		name := node.Spec().Name
		need, ok := needs[name]
		if !ok {
			continue
		}
		client := node.Client()
		balance, err := client.WalletBalance(ctx)
		if err != nil {
			return name, fmt.Errorf("WalletBalance() %w", err)
		}
		if balance >= need {
			continue
		}

		payments := int((need - balance + n.cfg.WalletFunding - 1) / n.cfg.WalletFunding)
		for i := 0; i < payments; i++ {
			address, err := client.NewAddress(ctx)
			if err != nil {
				return name, fmt.Errorf("NewAddress() %w", err)
			}
			if _, err := n.ledger.SendToAddress(ctx, address, n.cfg.WalletFunding); err != nil {
				return name, err
			}
		}
		log.Infof("[%s] funded with %d x %v", name, payments, n.cfg.WalletFunding)
		paid = append(paid, name)
	}
	if len(paid) == 0 {
		return "", nil
	}

	if err := n.ledger.GenerateBlocks(ctx, n.cfg.ConfirmationBlocks); err != nil {
		return n.ledger.Runtime().Name(), err
	}
	for _, name := range paid {
		client, need := n.byName[name].Client(), needs[name]
		err := n.prober.Until(ctx, name, fmt.Sprintf("wallet balance of %v", need), func(ctx context.Context) (bool, error) {
			balance, err := client.WalletBalance(ctx)
			if err != nil {
				return false, err
			}
			return balance >= need, nil
		})
		if err != nil {
			return name, err
		}
	}
	return "", nil
}

func (n *Network) assembleChannel(ctx context.Context, c topology.ChannelSpec, connected map[[2]string]bool) error {
	from, to := n.byName[c.From], n.byName[c.To]
	fail := func(node, op string, err error) error {
		return failure.NewAssembly(c.ID, node, op, err)
	}

	// The opener needs the capacity, the peer needs a non-empty wallet
	// for anchor channels.
	needs := map[string]btcutil.Amount{
		c.From: c.Capacity + n.cfg.FundingReserve,
		c.To:   1,
	}
	if node, err := n.fund(ctx, needs); err != nil {
		return fail(node, "fund", err)
	}

	fromClient := from.Client()
	toKey := to.Runtime().PubKey()

	pair := [2]string{c.From, c.To}
	if !connected[pair] {
		if err := n.connect(ctx, fromClient, c.From, toKey, to.Addr()); err != nil {
			return fail(c.From, "connect", err)
		}
		connected[pair] = true
	}

	log.Infof("[%s] opening channel %d to %s: capacity %d, push %d",
		c.From, c.ID, c.To, int64(c.Capacity), int64(c.RemoteBalance))
	pending, err := fromClient.OpenChannel(ctx, toKey, c.Capacity, c.RemoteBalance)
	if err != nil {
		return fail(c.From, "open", err)
	}

	if err := n.ledger.GenerateBlocks(ctx, n.cfg.ChannelConfirmations); err != nil {
		return fail(c.From, "confirm", err)
	}

	var opened lightning.Channel
	for _, node := range []testframework.LightningNode{from, to} {
		name, client := node.Spec().Name, node.Client()
		err := n.prober.Until(ctx, name, fmt.Sprintf("channel %d active", c.ID), func(ctx context.Context) (bool, error) {
			channels, err := client.ListChannels(ctx)
			if err != nil {
				return false, err
			}
			ch, ok := lightning.FindByFunding(channels, *pending)
			if !ok || !ch.Active || ch.ChannelID.ToUint64() == 0 {
				return false, nil
			}
			if node == from {
				opened = ch
			}
			return true, nil
		})
		if err != nil {
			return fail(name, "confirm", err)
		}
	}

	if err := n.Mapper().RegisterChannel(c.ID, opened.ChannelID); err != nil {
		return fail(c.From, "register", err)
	}
	log.Infof("[%s] channel %d is %s", c.From, c.ID, opened.ChannelID)
	return nil
}

// connect connects to the peer unless already connected and waits for the
// connection to show up.
func (n *Network) connect(ctx context.Context, client lightning.PaymentNode, name, pubkey, addr string) error {
	ok, err := client.IsConnected(ctx, pubkey)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := client.ConnectPeer(ctx, pubkey, addr); err != nil {
		return err
	}
	return n.prober.Until(ctx, name, "connection to "+pubkey, func(ctx context.Context) (bool, error) {
		return client.IsConnected(ctx, pubkey)
	})
}
