package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// NodeEdge is an edge together with the node that sees it.
type NodeEdge struct {
	Node string
	Edge Edge
}

func (e NodeEdge) String() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Edge)
}

// Change is a pair of matching edges whose balances differ by more than the
// tolerance.
type Change struct {
	Node     string
	Expected Edge
	Actual   Edge
}

func (c Change) String() string {
	return fmt.Sprintf("%s: channel %d to %s local %d -> %d, remote %d -> %d",
		c.Node, c.Expected.Channel, c.Expected.Peer,
		int64(c.Expected.LocalBalance), int64(c.Actual.LocalBalance),
		int64(c.Expected.RemoteBalance), int64(c.Actual.RemoteBalance))
}

// Diff is what it takes to get from the expected to the actual snapshot.
type Diff struct {
	MissingNodes []string
	ExtraNodes   []string
	Added        []NodeEdge
	Removed      []NodeEdge
	Changed      []Change
}

func (d Diff) Empty() bool {
	return len(d.MissingNodes) == 0 && len(d.ExtraNodes) == 0 &&
		len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

func (d Diff) String() string {
	if d.Empty() {
		return "no differences"
	}
	var sb strings.Builder
	for _, n := range d.MissingNodes {
		fmt.Fprintf(&sb, "missing node %s\n", n)
	}
	for _, n := range d.ExtraNodes {
		fmt.Fprintf(&sb, "extra node %s\n", n)
	}
	for _, e := range d.Removed {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	for _, e := range d.Added {
		fmt.Fprintf(&sb, "+ %s\n", e)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(&sb, "~ %s\n", c)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

type edgeKey struct {
	peer     string
	capacity btcutil.Amount
}

// Compare diffs expected against actual. Edges of a node match when they
// have the same peer and capacity, channel numbers do not have to agree.
// Several matching edges are paired in channel number order. Paired edges
// differ when a balance is off by more than tolerance satoshi.
//
// A nil snapshot counts as empty. All edges of a missing node are listed as
// removed, all edges of an extra node as added.
func Compare(expected, actual *Snapshot, tolerance btcutil.Amount) Diff {
	if tolerance < 0 {
		tolerance = 0
	}
	if expected == nil {
		expected = &Snapshot{}
	}
	if actual == nil {
		actual = &Snapshot{}
	}

	var d Diff
	for _, name := range expected.Nodes() {
		if !actual.HasNode(name) {
			d.MissingNodes = append(d.MissingNodes, name)
		}
	}
	for _, name := range actual.Nodes() {
		if !expected.HasNode(name) {
			d.ExtraNodes = append(d.ExtraNodes, name)
		}
	}

	names := expected.Nodes()
	names = append(names, d.ExtraNodes...)
	sort.Strings(names)
	for _, name := range names {
		compareNode(&d, name, expected.edges[name], actual.edges[name], tolerance)
	}
	return d
}

func compareNode(d *Diff, node string, expected, actual []Edge, tolerance btcutil.Amount) {
	want := groupByKey(expected)
	got := groupByKey(actual)

	keys := make([]edgeKey, 0, len(want)+len(got))
	for k := range want {
		keys = append(keys, k)
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].peer != keys[j].peer {
			return keys[i].peer < keys[j].peer
		}
		return keys[i].capacity < keys[j].capacity
	})

	for _, k := range keys {
		w, g := want[k], got[k]
		n := min(len(w), len(g))
		for i := 0; i < n; i++ {
			if !within(w[i].LocalBalance, g[i].LocalBalance, tolerance) ||
				!within(w[i].RemoteBalance, g[i].RemoteBalance, tolerance) {
				d.Changed = append(d.Changed, Change{Node: node, Expected: w[i], Actual: g[i]})
			}
		}
		for _, e := range w[n:] {
			d.Removed = append(d.Removed, NodeEdge{Node: node, Edge: e})
		}
		for _, e := range g[n:] {
			d.Added = append(d.Added, NodeEdge{Node: node, Edge: e})
		}
	}
}

// groupByKey keeps the channel number order of edges within each group.
func groupByKey(edges []Edge) map[edgeKey][]Edge {
	groups := map[edgeKey][]Edge{}
	for _, e := range edges {
		k := edgeKey{peer: e.Peer, capacity: e.Capacity}
		groups[k] = append(groups[k], e)
	}
	return groups
}

func within(a, b, tolerance btcutil.Amount) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
