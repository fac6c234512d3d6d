package store

import (
	"bytes"
	"errors"
	"sort"

	corestore "cosmossdk.io/collections/corecompat"
	dbm "github.com/cosmos/cosmos-db"
)

var (
	errKeyEmpty  = errors.New("key cannot be empty")
	errValueNil  = errors.New("value cannot be nil")
	errDiscarded = errors.New("branch already written or discarded")
)

var _ corestore.KVStore = (*Branch)(nil)

type entry struct {
	value   []byte
	deleted bool
}

// Branch buffers writes on top of a parent store. Reads fall through to the
// parent for keys the branch has not touched. Nothing reaches the parent until
// Write is called; dropping the branch discards every buffered change.
//
// Branches nest: a per-tx branch opened on a per-block branch commits into the
// block branch, which in turn commits into the Store.
type Branch struct {
	parent corestore.KVStore
	dirty  map[string]entry
	closed bool
}

func newBranch(parent corestore.KVStore) *Branch {
	return &Branch{parent: parent, dirty: map[string]entry{}}
}

// Branch opens a nested overlay whose Write commits into b.
func (b *Branch) Branch() *Branch {
	return newBranch(b)
}

func (b *Branch) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errKeyEmpty
	}
	if e, ok := b.dirty[string(key)]; ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.parent.Get(key)
}

func (b *Branch) Has(key []byte) (bool, error) {
	v, err := b.Get(key)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (b *Branch) Set(key, value []byte) error {
	if b.closed {
		return errDiscarded
	}
	if len(key) == 0 {
		return errKeyEmpty
	}
	if value == nil {
		return errValueNil
	}
	b.dirty[string(key)] = entry{value: bytes.Clone(value)}
	return nil
}

func (b *Branch) Delete(key []byte) error {
	if b.closed {
		return errDiscarded
	}
	if len(key) == 0 {
		return errKeyEmpty
	}
	b.dirty[string(key)] = entry{deleted: true}
	return nil
}

func (b *Branch) Iterator(start, end []byte) (corestore.Iterator, error) {
	merged, err := b.snapshot(start, end)
	if err != nil {
		return nil, err
	}
	return merged.Iterator(start, end)
}

func (b *Branch) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	merged, err := b.snapshot(start, end)
	if err != nil {
		return nil, err
	}
	return merged.ReverseIterator(start, end)
}

// snapshot materializes the [start, end) view of parent+overlay into a MemDB
// so iteration sees a consistent ordering and callers may write to the branch
// while iterating.
func (b *Branch) snapshot(start, end []byte) (*dbm.MemDB, error) {
	merged := dbm.NewMemDB()

	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	for ; it.Valid(); it.Next() {
		if _, touched := b.dirty[string(it.Key())]; touched {
			continue
		}
		if err := merged.Set(bytes.Clone(it.Key()), bytes.Clone(it.Value())); err != nil {
			_ = it.Close()
			return nil, err
		}
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return nil, err
	}
	if err := it.Close(); err != nil {
		return nil, err
	}

	for k, e := range b.dirty {
		if e.deleted || !inDomain([]byte(k), start, end) {
			continue
		}
		if err := merged.Set([]byte(k), e.value); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Write flushes the buffered changes into the parent and closes the branch.
func (b *Branch) Write() error {
	if b.closed {
		return errDiscarded
	}
	keys := make([]string, 0, len(b.dirty))
	for k := range b.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch p := b.parent.(type) {
	case *Store:
		if err := p.writeBatch(keys, b.dirty); err != nil {
			return err
		}
	case *Branch:
		if p.closed {
			return errDiscarded
		}
		for _, k := range keys {
			p.dirty[k] = b.dirty[k]
		}
	default:
		for _, k := range keys {
			e := b.dirty[k]
			var err error
			if e.deleted {
				err = p.Delete([]byte(k))
			} else {
				err = p.Set([]byte(k), e.value)
			}
			if err != nil {
				return err
			}
		}
	}
	b.closed = true
	b.dirty = nil
	return nil
}

// Discard drops every buffered change.
func (b *Branch) Discard() {
	b.closed = true
	b.dirty = nil
}

// Dirty reports how many keys the branch has buffered.
func (b *Branch) Dirty() int {
	return len(b.dirty)
}

func inDomain(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) >= 0 {
		return false
	}
	return true
}
