package graph

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simpleSnapshot is the three node network A->B 100000, A->C 200000,
// B->C 300000 with everything on the opener's side.
func simpleSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	b := NewBuilder()
	add := func(node string, e Edge) {
		require.NoError(t, b.AddEdge(node, e))
	}
	open := func(id int, from, to string, capacity btcutil.Amount) {
		add(from, Edge{Channel: id, Peer: to, Capacity: capacity, LocalBalance: capacity, Initiator: true, Active: true})
		add(to, Edge{Channel: id, Peer: from, Capacity: capacity, RemoteBalance: capacity, Active: true})
	}
	open(1, "A", "B", 100000)
	open(2, "A", "C", 200000)
	open(3, "B", "C", 300000)
	return b.Build()
}

func TestSnapshotViews(t *testing.T) {
	s := simpleSnapshot(t)

	assert.Equal(t, []string{"A", "B", "C"}, s.Nodes())
	assert.Len(t, s.Outgoing("A"), 2)
	assert.Len(t, s.Outgoing("B"), 1)
	assert.Empty(t, s.Outgoing("C"))
	assert.Len(t, s.Edges("C"), 2)
	assert.Equal(t, 3, s.NumChannels())

	e, ok := s.Edge("A", 2)
	require.True(t, ok)
	assert.Equal(t, "C", e.Peer)
	assert.Equal(t, btcutil.Amount(200000), e.Capacity)

	_, ok = s.Edge("C", 1)
	assert.False(t, ok)

	// Returned slices are copies.
	edges := s.Edges("A")
	edges[0].Capacity = 1
	e, _ = s.Edge("A", 1)
	assert.Equal(t, btcutil.Amount(100000), e.Capacity)
}

func TestBuilderRejectsBadEdges(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddEdge("A", Edge{Channel: 1, Peer: "B"}))
	assert.Error(t, b.AddEdge("A", Edge{Channel: 1, Peer: "C"}))
	assert.Error(t, b.AddEdge("A", Edge{Channel: 0, Peer: "B"}))
	assert.Error(t, b.AddEdge("A", Edge{Channel: 2, Peer: "A"}))
	assert.Error(t, b.AddEdge("", Edge{Channel: 2, Peer: "B"}))

	b.AddNode("D")
	s := b.Build()
	assert.Equal(t, []string{"A", "D"}, s.Nodes())
	assert.Empty(t, s.Edges("D"))
}

func TestSnapshotJSON(t *testing.T) {
	s := simpleSnapshot(t)
	b := NewBuilder()
	b.AddNode("D")
	require.NoError(t, b.AddEdge("A", Edge{Channel: 1, Peer: "B", Capacity: 5}))
	withEmpty := b.Build()

	raw, err := json.Marshal(withEmpty)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"A": [{"channel":1,"peer":"B","capacity":5,"local_balance":0,"remote_balance":0,"commit_fee":0,"initiator":false,"active":false}],
		"D": []
	}`, string(raw))

	raw, err = json.Marshal(s)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, Compare(s, &decoded, 0).Empty())
	assert.Equal(t, s.String(), decoded.String())

	assert.Error(t, json.Unmarshal([]byte(`{"A":[{"channel":1,"peer":"A"}]}`), &decoded))
}

func TestSnapshotString(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddEdge("A", Edge{Channel: 1, Peer: "B", Capacity: 100, LocalBalance: 100, Initiator: true}))
	require.NoError(t, b.AddEdge("B", Edge{Channel: 1, Peer: "A", Capacity: 100, RemoteBalance: 100, Active: true}))

	assert.Equal(t, "A\n"+
		"  1 -> B capacity=100 local=100 remote=0 fee=0 active=false\n"+
		"B\n"+
		"  1 <- A capacity=100 local=0 remote=100 fee=0 active=true\n", b.Build().String())
}
