// Package ident translates the identifiers daemons assign at runtime into the
// names a topology uses.
//
// Nodes are known by their letter and channels by their number in the
// topology. At runtime a node is its identity public key and a channel is its
// short channel id. Every entry is written once; registering the same value
// again is a no-op, registering a different value is an error.
package ident

import (
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/elementsproject/lnregtest/failure"
	"github.com/lightningnetwork/lnd/lnwire"
)

type Mapper struct {
	mu sync.RWMutex

	keyByName  map[string]string
	nameByKey  map[string]string
	idByNumber map[int]lnwire.ShortChannelID
	numberByID map[lnwire.ShortChannelID]int

	sealed bool
}

func NewMapper() *Mapper {
	return &Mapper{
		keyByName:  map[string]string{},
		nameByKey:  map[string]string{},
		idByNumber: map[int]lnwire.ShortChannelID{},
		numberByID: map[lnwire.ShortChannelID]int{},
	}
}

// ValidatePubKey checks that key is a hex encoded compressed secp256k1 point.
func ValidatePubKey(key string) error {
	raw, err := hex.DecodeString(key)
	if err != nil {
		return fmt.Errorf("public key %q is not hex: %w", key, err)
	}
	if len(raw) != btcec.PubKeyBytesLenCompressed {
		return fmt.Errorf("public key %q has %d bytes, expected %d", key, len(raw),
			btcec.PubKeyBytesLenCompressed)
	}
	if _, err := btcec.ParsePubKey(raw); err != nil {
		return fmt.Errorf("ParsePubKey(%s) %w", key, err)
	}
	return nil
}

func (m *Mapper) RegisterNode(name, pubkey string) error {
	if err := ValidatePubKey(pubkey); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.keyByName[name]; ok {
		if existing == pubkey {
			return nil
		}
		return fmt.Errorf("node %s already mapped to %s, refusing %s", name, existing, pubkey)
	}
	if existing, ok := m.nameByKey[pubkey]; ok {
		return fmt.Errorf("public key %s already mapped to node %s, refusing %s", pubkey, existing, name)
	}

	m.keyByName[name] = pubkey
	m.nameByKey[pubkey] = name
	return nil
}

func (m *Mapper) RegisterChannel(number int, id lnwire.ShortChannelID) error {
	if number < 1 {
		return fmt.Errorf("channel number must be positive, got %d", number)
	}
	if id.IsDefault() {
		return fmt.Errorf("channel %d: refusing empty short channel id", number)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.idByNumber[number]; ok {
		if existing == id {
			return nil
		}
		return fmt.Errorf("channel %d already mapped to %s, refusing %s", number, existing, id)
	}
	if existing, ok := m.numberByID[id]; ok {
		return fmt.Errorf("short channel id %s already mapped to channel %d, refusing %d", id, existing, number)
	}

	m.idByNumber[number] = id
	m.numberByID[id] = number
	return nil
}

// Seal marks assembly as complete. Lookups of unknown identifiers are no
// longer retryable afterwards.
func (m *Mapper) Seal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sealed = true
}

func (m *Mapper) Sealed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sealed
}

func (m *Mapper) notFound(format string, args ...any) error {
	return failure.NewNotFound(fmt.Sprintf(format, args...), !m.sealed)
}

func (m *Mapper) ResolveName(pubkey string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.nameByKey[pubkey]
	if !ok {
		return "", m.notFound("node for public key %s", pubkey)
	}
	return name, nil
}

func (m *Mapper) ResolveKey(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.keyByName[name]
	if !ok {
		return "", m.notFound("public key of node %s", name)
	}
	return key, nil
}

func (m *Mapper) ResolveChannelNumber(id lnwire.ShortChannelID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	number, ok := m.numberByID[id]
	if !ok {
		return 0, m.notFound("channel number of short channel id %s", id)
	}
	return number, nil
}

func (m *Mapper) ResolveRuntimeID(number int) (lnwire.ShortChannelID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.idByNumber[number]
	if !ok {
		return lnwire.ShortChannelID{}, m.notFound("short channel id of channel %d", number)
	}
	return id, nil
}

// Nodes returns a copy of the name to public key table.
func (m *Mapper) Nodes() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes := make(map[string]string, len(m.keyByName))
	for k, v := range m.keyByName {
		nodes[k] = v
	}
	return nodes
}

// Channels returns a copy of the channel number to short channel id table.
func (m *Mapper) Channels() map[int]lnwire.ShortChannelID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	channels := make(map[int]lnwire.ShortChannelID, len(m.idByNumber))
	for k, v := range m.idByNumber {
		channels[k] = v
	}
	return channels
}

// ChannelNumbers returns the registered channel numbers in ascending order.
func (m *Mapper) ChannelNumbers() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	numbers := make([]int, 0, len(m.idByNumber))
	for n := range m.idByNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
