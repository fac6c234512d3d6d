package store

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"

	corestore "cosmossdk.io/collections/corecompat"
	dbm "github.com/cosmos/cosmos-db"
)

// DBName is the on-disk database name under the data directory.
const DBName = "application"

var _ corestore.KVStore = (*Store)(nil)

// Store is the committed application state. All writes reach it through a
// Branch, so a block is either persisted completely or not at all.
type Store struct {
	db dbm.DB
}

// Open opens (or creates) the database for backend under dir.
func Open(backend, dir string) (*Store, error) {
	if dbm.BackendType(backend) != dbm.MemDBBackend {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
	}
	db, err := dbm.NewDB(DBName, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", backend, err)
	}
	return &Store{db: db}, nil
}

// NewMemStore returns a Store backed by an in-memory database.
func NewMemStore() *Store {
	return &Store{db: dbm.NewMemDB()}
}

func (s *Store) Get(key []byte) ([]byte, error) { return s.db.Get(key) }

func (s *Store) Has(key []byte) (bool, error) { return s.db.Has(key) }

func (s *Store) Set(key, value []byte) error { return s.db.Set(key, value) }

func (s *Store) Delete(key []byte) error { return s.db.Delete(key) }

func (s *Store) Iterator(start, end []byte) (corestore.Iterator, error) {
	return s.db.Iterator(start, end)
}

func (s *Store) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	return s.db.ReverseIterator(start, end)
}

// Branch opens a write overlay on top of the committed state.
func (s *Store) Branch() *Branch {
	return newBranch(s)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// writeBatch applies a set of pending changes atomically.
func (s *Store) writeBatch(keys []string, dirty map[string]entry) error {
	batch := s.db.NewBatchWithSize(len(keys))
	defer func() { _ = batch.Close() }()

	for _, k := range keys {
		e := dirty[k]
		if e.deleted {
			if err := batch.Delete([]byte(k)); err != nil {
				return fmt.Errorf("batch delete: %w", err)
			}
			continue
		}
		if err := batch.Set([]byte(k), e.value); err != nil {
			return fmt.Errorf("batch set: %w", err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("batch write: %w", err)
	}
	return nil
}

// Hash returns a deterministic digest of every key/value visible through kv.
//
// Iteration order is the byte order of keys, so two stores holding the same
// entries hash identically regardless of write history.
func Hash(kv corestore.KVStore) ([]byte, error) {
	it, err := kv.Iterator(nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	h := sha256.New()
	var lenBuf [8]byte
	for ; it.Valid(); it.Next() {
		k, v := it.Key(), it.Value()
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(k)))
		h.Write(lenBuf[:])
		h.Write(k)
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(v)))
		h.Write(lenBuf[:])
		h.Write(v)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
