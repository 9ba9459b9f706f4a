// Package graph holds name-addressed snapshots of a regtest network and
// compares them.
//
// A Snapshot maps every node name to the channels that node sees, keyed by
// the channel number of the topology. Both endpoints of a channel keep their
// own view, nothing is reconciled.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// Edge is one channel as seen from one of its endpoints.
type Edge struct {
	Channel       int            `json:"channel"`
	Peer          string         `json:"peer"`
	Capacity      btcutil.Amount `json:"capacity"`
	LocalBalance  btcutil.Amount `json:"local_balance"`
	RemoteBalance btcutil.Amount `json:"remote_balance"`
	CommitFee     btcutil.Amount `json:"commit_fee"`
	Initiator     bool           `json:"initiator"`
	Active        bool           `json:"active"`
}

func (e Edge) String() string {
	return fmt.Sprintf("channel %d to %s capacity %d", e.Channel, e.Peer, int64(e.Capacity))
}

// GossipEdge is a channel from a node's view of the public graph.
type GossipEdge struct {
	Channel  int            `json:"channel"`
	Node1    string         `json:"node1"`
	Node2    string         `json:"node2"`
	Capacity btcutil.Amount `json:"capacity"`
}

// Snapshot is immutable once built.
type Snapshot struct {
	edges map[string][]Edge
}

// Nodes returns the node names in alphabetical order.
func (s *Snapshot) Nodes() []string {
	names := make([]string, 0, len(s.edges))
	for name := range s.edges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Snapshot) HasNode(name string) bool {
	_, ok := s.edges[name]
	return ok
}

// Edges returns the edges of node ordered by channel number.
func (s *Snapshot) Edges(node string) []Edge {
	return append([]Edge(nil), s.edges[node]...)
}

// Outgoing returns the edges node opened.
func (s *Snapshot) Outgoing(node string) []Edge {
	var out []Edge
	for _, e := range s.edges[node] {
		if e.Initiator {
			out = append(out, e)
		}
	}
	return out
}

func (s *Snapshot) Edge(node string, channel int) (Edge, bool) {
	for _, e := range s.edges[node] {
		if e.Channel == channel {
			return e, true
		}
	}
	return Edge{}, false
}

// NumChannels counts the distinct channel numbers in the snapshot.
func (s *Snapshot) NumChannels() int {
	seen := map[int]struct{}{}
	for _, edges := range s.edges {
		for _, e := range edges {
			seen[e.Channel] = struct{}{}
		}
	}
	return len(seen)
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string][]Edge, len(s.edges))
	for name, edges := range s.edges {
		if edges == nil {
			edges = []Edge{}
		}
		out[name] = edges
	}
	return json.Marshal(out)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in map[string][]Edge
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b := NewBuilder()
	for name, edges := range in {
		b.AddNode(name)
		for _, e := range edges {
			if err := b.AddEdge(name, e); err != nil {
				return err
			}
		}
	}
	*s = *b.Build()
	return nil
}

func (s *Snapshot) String() string {
	var sb strings.Builder
	for _, name := range s.Nodes() {
		fmt.Fprintf(&sb, "%s\n", name)
		for _, e := range s.edges[name] {
			dir := "<-"
			if e.Initiator {
				dir = "->"
			}
			fmt.Fprintf(&sb, "  %d %s %s capacity=%d local=%d remote=%d fee=%d active=%v\n",
				e.Channel, dir, e.Peer, int64(e.Capacity), int64(e.LocalBalance),
				int64(e.RemoteBalance), int64(e.CommitFee), e.Active)
		}
	}
	return sb.String()
}

// Builder collects edges into a Snapshot. It is not safe for concurrent use.
type Builder struct {
	edges map[string]map[int]Edge
}

func NewBuilder() *Builder {
	return &Builder{edges: map[string]map[int]Edge{}}
}

// AddNode makes node part of the snapshot even if it has no channels.
func (b *Builder) AddNode(node string) {
	if _, ok := b.edges[node]; !ok {
		b.edges[node] = map[int]Edge{}
	}
}

// AddEdge adds the view node has of a channel. A node sees every channel
// at most once.
func (b *Builder) AddEdge(node string, e Edge) error {
	switch {
	case node == "":
		return fmt.Errorf("edge without node")
	case e.Channel < 1:
		return fmt.Errorf("node %s: invalid channel number %d", node, e.Channel)
	case e.Peer == "" || e.Peer == node:
		return fmt.Errorf("node %s: channel %d has invalid peer %q", node, e.Channel, e.Peer)
	}

	b.AddNode(node)
	if _, ok := b.edges[node][e.Channel]; ok {
		return fmt.Errorf("node %s: channel %d added twice", node, e.Channel)
	}
	b.edges[node][e.Channel] = e
	return nil
}

// Build returns the snapshot of everything added so far. The builder can
// be reused.
func (b *Builder) Build() *Snapshot {
	s := &Snapshot{edges: make(map[string][]Edge, len(b.edges))}
	for name, byChannel := range b.edges {
		edges := make([]Edge, 0, len(byChannel))
		for _, e := range byChannel {
			edges = append(edges, e)
		}
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].Channel < edges[j].Channel
		})
		s.edges[name] = edges
	}
	return s
}
