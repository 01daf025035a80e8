// Package badgerstore implements merkle.Backend on top of a badger/v2
// key-value store, the same embedded database flow-go's storage/badger
// layer persists its chain state in. Every node key is prefixed the way
// flow-go's storage/badger/operation package prefixes its own keys. A Store
// opens and owns its own *badger.DB (see Open); there is no constructor
// that takes an existing database.
package badgerstore

import (
	"errors"

	"github.com/dgraph-io/badger/v2"

	"github.com/dapperwick/bitsmt/storage/merkle"
)

// codeNode is the single-byte key prefix every node key is stored under.
const codeNode = byte(0x01)

func nodeKey(h merkle.Hash) []byte {
	out := make([]byte, 1+merkle.HashLen)
	out[0] = codeNode
	copy(out[1:], h[:])
	return out
}

// Store is a merkle.Backend backed by badger/v2. Unlike MemoryBackend, it
// survives process restarts: the tree's roots are themselves just Hash
// values, so a caller persists those separately (e.g. alongside other
// chain state) and reopens the same Store to resume reading the tree.
type Store struct {
	db    *badger.DB
	batch *badger.WriteBatch
}

// Open opens (creating if absent) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements merkle.Backend.
func (s *Store) Get(key merkle.Hash) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			value = append([]byte(nil), v...)
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Put implements merkle.Backend. Inside a batch bracket (InitBatch has been
// called and FinishBatch has not), the write goes to the open
// badger.WriteBatch instead of its own transaction.
func (s *Store) Put(key merkle.Hash, value []byte) error {
	if s.batch != nil {
		return s.batch.Set(nodeKey(key), value)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(key), value)
	})
}

// Delete implements merkle.Backend.
func (s *Store) Delete(key merkle.Hash) error {
	if s.batch != nil {
		return s.batch.Delete(nodeKey(key))
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(nodeKey(key))
	})
}

// InitBatch implements merkle.Backend, opening a badger.WriteBatch that
// every subsequent Put/Delete is routed through until FinishBatch.
func (s *Store) InitBatch() error {
	s.batch = s.db.NewWriteBatch()
	return nil
}

// FinishBatch implements merkle.Backend, flushing and releasing the open
// write batch.
func (s *Store) FinishBatch() error {
	if s.batch == nil {
		return nil
	}
	err := s.batch.Flush()
	s.batch = nil
	return err
}
