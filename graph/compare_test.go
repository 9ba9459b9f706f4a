package graph

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareWithItself(t *testing.T) {
	s := simpleSnapshot(t)
	d := Compare(s, s, 0)
	assert.True(t, d.Empty())
	assert.Equal(t, "no differences", d.String())
}

func TestCompareBalanceBeyondTolerance(t *testing.T) {
	expected := simpleSnapshot(t)

	b := NewBuilder()
	for _, node := range expected.Nodes() {
		for _, e := range expected.Edges(node) {
			if node == "A" && e.Channel == 1 {
				e.LocalBalance -= 5000
				e.RemoteBalance += 5000
			}
			if node == "A" && e.Channel == 2 {
				e.LocalBalance -= 100
			}
			require.NoError(t, b.AddEdge(node, e))
		}
	}
	actual := b.Build()

	d := Compare(expected, actual, 1000)
	require.False(t, d.Empty())
	require.Len(t, d.Changed, 1)
	c := d.Changed[0]
	assert.Equal(t, "A", c.Node)
	assert.Equal(t, 1, c.Expected.Channel)
	assert.Equal(t, "A: channel 1 to B local 100000 -> 95000, remote 0 -> 5000", c.String())
	assert.Contains(t, d.String(), "~ A: channel 1 to B local 100000 -> 95000")
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)

	assert.True(t, Compare(expected, actual, 5000).Empty())
}

func TestCompareStructure(t *testing.T) {
	expected := simpleSnapshot(t)

	b := NewBuilder()
	require.NoError(t, b.AddEdge("A", Edge{Channel: 1, Peer: "B", Capacity: 100000, LocalBalance: 100000, Initiator: true}))
	// Same peer, different capacity.
	require.NoError(t, b.AddEdge("A", Edge{Channel: 2, Peer: "C", Capacity: 250000, LocalBalance: 250000, Initiator: true}))
	require.NoError(t, b.AddEdge("B", Edge{Channel: 1, Peer: "A", Capacity: 100000, RemoteBalance: 100000}))
	require.NoError(t, b.AddEdge("D", Edge{Channel: 4, Peer: "A", Capacity: 1}))
	actual := b.Build()

	d := Compare(expected, actual, 0)
	assert.Equal(t, []string{"C"}, d.MissingNodes)
	assert.Equal(t, []string{"D"}, d.ExtraNodes)
	assert.Equal(t, []NodeEdge{
		{Node: "A", Edge: Edge{Channel: 2, Peer: "C", Capacity: 200000, LocalBalance: 200000, Initiator: true, Active: true}},
		{Node: "B", Edge: Edge{Channel: 3, Peer: "C", Capacity: 300000, LocalBalance: 300000, Initiator: true, Active: true}},
		{Node: "C", Edge: Edge{Channel: 2, Peer: "A", Capacity: 200000, RemoteBalance: 200000, Active: true}},
		{Node: "C", Edge: Edge{Channel: 3, Peer: "B", Capacity: 300000, RemoteBalance: 300000, Active: true}},
	}, d.Removed)
	require.Len(t, d.Added, 2)
	assert.Equal(t, "A: channel 2 to C capacity 250000", d.Added[0].String())
	assert.Equal(t, "D: channel 4 to A capacity 1", d.Added[1].String())
	assert.Empty(t, d.Changed)

	assert.Equal(t, "missing node C\n"+
		"extra node D\n"+
		"- A: channel 2 to C capacity 200000\n"+
		"- B: channel 3 to C capacity 300000\n"+
		"- C: channel 2 to A capacity 200000\n"+
		"- C: channel 3 to B capacity 300000\n"+
		"+ A: channel 2 to C capacity 250000\n"+
		"+ D: channel 4 to A capacity 1", d.String())
}

func TestCompareNilSnapshots(t *testing.T) {
	s := simpleSnapshot(t)

	assert.True(t, Compare(nil, nil, 0).Empty())

	d := Compare(nil, s, 0)
	assert.Equal(t, []string{"A", "B", "C"}, d.ExtraNodes)
	assert.Len(t, d.Added, 6)
	assert.Empty(t, d.Removed)

	d = Compare(s, nil, 0)
	assert.Equal(t, []string{"A", "B", "C"}, d.MissingNodes)
	assert.Len(t, d.Removed, 6)
	assert.Empty(t, d.Added)
}

func TestComparePairsInChannelOrder(t *testing.T) {
	build := func(balances ...int64) *Snapshot {
		b := NewBuilder()
		for i, bal := range balances {
			require.NoError(t, b.AddEdge("A", Edge{Channel: i + 1, Peer: "B", Capacity: 1000, LocalBalance: btcutil.Amount(bal)}))
		}
		return b.Build()
	}

	// Channel numbers may differ as long as the pairing by order matches.
	expected := build(1000, 500)
	actual := NewBuilder()
	require.NoError(t, actual.AddEdge("A", Edge{Channel: 7, Peer: "B", Capacity: 1000, LocalBalance: 1000}))
	require.NoError(t, actual.AddEdge("A", Edge{Channel: 9, Peer: "B", Capacity: 1000, LocalBalance: 500}))
	assert.True(t, Compare(expected, actual.Build(), 0).Empty())

	d := Compare(expected, build(1000, 500, 0), 0)
	require.Len(t, d.Added, 1)
	assert.Equal(t, 3, d.Added[0].Edge.Channel)

	d = Compare(build(1000, 500), build(500, 1000), 0)
	assert.Len(t, d.Changed, 2)
}
