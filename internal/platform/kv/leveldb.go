package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB wraps the embedded LevelDB handle used as the durable key-value
// store for ledger state.
type LevelDB struct {
	conn *leveldb.DB
}

// Open opens (or creates) a LevelDB instance at the given path.
func Open(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{conn: db}, nil
}

func (l *LevelDB) Close() error {
	return l.conn.Close()
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.conn.Put(key, value, nil)
}

// Get returns leveldb.ErrNotFound for missing keys.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.conn.Get(key, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.conn.Delete(key, nil)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.conn.Has(key, nil)
}

// NewPrefixIterator loops over every key sharing the given prefix.
func (l *LevelDB) NewPrefixIterator(prefix []byte) iterator.Iterator {
	return l.conn.NewIterator(util.BytesPrefix(prefix), nil)
}
