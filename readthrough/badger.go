package readthrough

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "memo:"

// OpenBadger opens (creating if necessary) a badger database at dir for use
// as a persistent Backend. The caller closes it.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening badger cache at '%s': %w", dir, err)
	}
	return NewBadger(db), nil
}

func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

type Badger struct {
	db *badger.DB
}

func (b *Badger) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("cache miss for '%s': %w", key, ErrMiss)
		} else if err != nil {
			return fmt.Errorf("error reading cache entry '%s': %w", key, err)
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (b *Badger) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerKeyPrefix+key), value); err != nil {
			return fmt.Errorf("error writing cache entry '%s': %w", key, err)
		}
		return nil
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}
