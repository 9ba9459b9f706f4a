package network

import (
	"context"
	"fmt"
	"sort"

	"github.com/elementsproject/lnregtest/graph"
	"github.com/elementsproject/lnregtest/log"
	"github.com/elementsproject/lnregtest/testframework"
)

// Snapshot asks every ready node for its channels and returns them by
// name. Channels still waiting for confirmation are left out.
func (n *Network) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	mapper := n.Mapper()
	b := graph.NewBuilder()
	for _, node := range n.nodes {
		name := node.Spec().Name
		if node.Runtime().State() != testframework.Ready {
			log.Warnf("[%s] not ready, left out of the snapshot", name)
			continue
		}
		b.AddNode(name)

		channels, err := node.Client().ListChannels(ctx)
		if err != nil {
			return nil, fmt.Errorf("node %s: ListChannels() %w", name, err)
		}
		for _, c := range channels {
			if c.ChannelID.ToUint64() == 0 {
				continue
			}
			peer, err := mapper.ResolveName(c.RemotePubKey)
			if err != nil {
				return nil, fmt.Errorf("node %s: peer of %s: %w", name, c.ChannelID, err)
			}
			number, err := mapper.ResolveChannelNumber(c.ChannelID)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", name, err)
			}
			err = b.AddEdge(name, graph.Edge{
				Channel:       number,
				Peer:          peer,
				Capacity:      c.Capacity,
				LocalBalance:  c.LocalBalance,
				RemoteBalance: c.RemoteBalance,
				CommitFee:     c.CommitFee,
				Initiator:     c.Initiator,
				Active:        c.Active,
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// MasterGraphView returns the public graph as the master node knows it,
// ordered by channel number.
func (n *Network) MasterGraphView(ctx context.Context) ([]graph.GossipEdge, error) {
	master, ok := n.byName[n.topo.Master().Name]
	if !ok || master.Client() == nil {
		return nil, fmt.Errorf("master node is not running")
	}
	edges, err := master.Client().DescribeGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("DescribeGraph() %w", err)
	}

	mapper := n.Mapper()
	view := make([]graph.GossipEdge, 0, len(edges))
	for _, e := range edges {
		number, err := mapper.ResolveChannelNumber(e.ChannelID)
		if err != nil {
			return nil, err
		}
		node1, err := mapper.ResolveName(e.Node1)
		if err != nil {
			return nil, err
		}
		node2, err := mapper.ResolveName(e.Node2)
		if err != nil {
			return nil, err
		}
		view = append(view, graph.GossipEdge{
			Channel:  number,
			Node1:    node1,
			Node2:    node2,
			Capacity: e.Capacity,
		})
	}
	sort.Slice(view, func(i, j int) bool {
		return view[i].Channel < view[j].Channel
	})
	return view, nil
}
