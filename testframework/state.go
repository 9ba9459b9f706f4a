package testframework

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of a supervised daemon.
type State int

const (
	NotStarted State = iota
	Starting
	Ready
	Failed
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid state transition")

// transitions lists the valid successors of each state. Stopped is reachable
// from everywhere and is terminal.
var transitions = map[State][]State{
	NotStarted: {Starting},
	Starting:   {Ready, Failed},
	Ready:      {Failed},
	Failed:     {Starting},
}

// CanTransition reports whether s may move to next.
func (s State) CanTransition(next State) bool {
	if s == Stopped {
		return false
	}
	if next == Stopped {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RuntimeNode is the runtime side of a daemon: its process, its data
// directory, the public key it reported and its lifecycle state.
type RuntimeNode struct {
	Process *DaemonProcess
	DataDir string

	name string

	sync.RWMutex
	state   State
	pubKey  string
	lastErr error
}

func NewRuntimeNode(name, dataDir string, process *DaemonProcess) *RuntimeNode {
	return &RuntimeNode{
		Process: process,
		DataDir: dataDir,
		name:    name,
	}
}

func (n *RuntimeNode) Name() string {
	return n.name
}

func (n *RuntimeNode) State() State {
	n.RLock()
	defer n.RUnlock()
	return n.state
}

// Err returns the error that moved the node to Failed.
func (n *RuntimeNode) Err() error {
	n.RLock()
	defer n.RUnlock()
	return n.lastErr
}

// PubKey is empty until the node reported its identity.
func (n *RuntimeNode) PubKey() string {
	n.RLock()
	defer n.RUnlock()
	return n.pubKey
}

func (n *RuntimeNode) SetPubKey(pubKey string) {
	n.Lock()
	defer n.Unlock()
	n.pubKey = pubKey
}

// Transition moves the node to next. Moving a stopped node to Stopped again
// is a no-op.
func (n *RuntimeNode) Transition(next State) error {
	n.Lock()
	defer n.Unlock()
	return n.transition(next)
}

func (n *RuntimeNode) transition(next State) error {
	if n.state == Stopped && next == Stopped {
		return nil
	}
	if !n.state.CanTransition(next) {
		return fmt.Errorf("%s: %s -> %s: %w", n.name, n.state, next, ErrInvalidTransition)
	}
	n.state = next
	return nil
}

func (n *RuntimeNode) MarkReady() error {
	return n.Transition(Ready)
}

func (n *RuntimeNode) MarkFailed(err error) error {
	n.Lock()
	defer n.Unlock()
	if err := n.transition(Failed); err != nil {
		return err
	}
	n.lastErr = err
	return nil
}

// IsAlive reports whether the node's process is running.
func (n *RuntimeNode) IsAlive() bool {
	return n.Process != nil && n.Process.IsRunning()
}
