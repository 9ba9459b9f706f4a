package ident

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/lightningnetwork/lnd/lnwire"
	"go.etcd.io/bbolt"
)

var (
	NODE_BUCKET    = []byte("node-mapping")
	CHANNEL_BUCKET = []byte("channel-mapping")
)

// Store persists a Mapper so a network can be restarted from its data
// directory without assembling it again.
type Store struct {
	db *bbolt.DB
}

func NewStore(db *bbolt.DB) (*Store, error) {
	tx, err := db.Begin(true)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	for _, bucket := range [][]byte{NODE_BUCKET, CHANNEL_BUCKET} {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Open opens the store at path, creating it if needed. A store held by a
// running network is locked and Open gives up after a second.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt.Open(%s) %w", path, err)
	}
	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes every entry of the mapper, replacing what was stored before.
func (s *Store) Save(m *Mapper) error {
	nodes := m.Nodes()
	channels := m.Channels()

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{NODE_BUCKET, CHANNEL_BUCKET} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
		}

		nb, err := tx.CreateBucket(NODE_BUCKET)
		if err != nil {
			return err
		}
		for name, key := range nodes {
			if err := nb.Put([]byte(name), []byte(key)); err != nil {
				return err
			}
		}

		cb, err := tx.CreateBucket(CHANNEL_BUCKET)
		if err != nil {
			return err
		}
		for number, id := range channels {
			var v [8]byte
			binary.BigEndian.PutUint64(v[:], id.ToUint64())
			if err := cb.Put([]byte(strconv.Itoa(number)), v[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns a mapper filled with the stored entries. It is empty when
// nothing was saved yet.
func (s *Store) Load() (*Mapper, error) {
	m := NewMapper()
	err := s.db.View(func(tx *bbolt.Tx) error {
		err := tx.Bucket(NODE_BUCKET).ForEach(func(k, v []byte) error {
			return m.RegisterNode(string(k), string(v))
		})
		if err != nil {
			return err
		}

		return tx.Bucket(CHANNEL_BUCKET).ForEach(func(k, v []byte) error {
			number, err := strconv.Atoi(string(k))
			if err != nil {
				return fmt.Errorf("bad channel number %q: %w", k, err)
			}
			if len(v) != 8 {
				return fmt.Errorf("bad short channel id for channel %d", number)
			}
			id := lnwire.NewShortChanIDFromInt(binary.BigEndian.Uint64(v))
			return m.RegisterChannel(number, id)
		})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Empty reports whether no node mapping has been saved.
func (s *Store) Empty() (bool, error) {
	empty := true
	err := s.db.View(func(tx *bbolt.Tx) error {
		k, _ := tx.Bucket(NODE_BUCKET).Cursor().First()
		empty = k == nil
		return nil
	})
	return empty, err
}
