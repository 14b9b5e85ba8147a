package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

/**
* Embedded key-value storage. Every table is a key prefix inside the same badger db.
 */
type BadgerStore struct {
	db *badger.DB
}

// BadgerTable stores each document under "<table>/<id>".
type BadgerTable struct {
	db   *badger.DB
	name string
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	if dir == "" {
		return nil, errors.New("no_badger_dir_provided")
	}
	return openBadger(badger.DefaultOptions(dir))
}

/**
* Badger store without any persistence, used for tests and throwaway instances.
 */
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	opts.Logger = badgerLogger{}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}
	logger.Infof("Opened badger store at %s.", opts.Dir)
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Table(name string) *BadgerTable {
	return &BadgerTable{db: s.db, name: name}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (t *BadgerTable) Name() string {
	return t.name
}

func (t *BadgerTable) key(id string) []byte {
	return []byte(t.name + "/" + id)
}

func (t *BadgerTable) Get(ctx context.Context, id string) (document []byte, err error) {
	err = t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(t.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(t.name, id)
		}
		if err != nil {
			return err
		}
		document, err = item.ValueCopy(nil)
		return err
	})
	return document, err
}

func (t *BadgerTable) Insert(ctx context.Context, id string, document []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(t.key(id))
		if err == nil {
			return alreadyExists(t.name, id)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(t.key(id), document)
	})
}

func (t *BadgerTable) Update(ctx context.Context, id string, document []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(t.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(t.name, id)
		}
		if err != nil {
			return err
		}
		return txn.Set(t.key(id), document)
	})
}

func (t *BadgerTable) Remove(ctx context.Context, id string) error {
	return t.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(t.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(t.name, id)
		}
		if err != nil {
			return err
		}
		return txn.Delete(t.key(id))
	})
}

func (t *BadgerTable) Truncate(ctx context.Context) error {
	prefix := []byte(t.name + "/")
	var keys [][]byte
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := t.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("badger: truncate %s: %w", t.name, err)
		}
	}
	return wb.Flush()
}

func (t *BadgerTable) Ping(ctx context.Context) error {
	if t.db.IsClosed() {
		return errors.New("badger_db_closed")
	}
	return nil
}

// routes badger's own output through the service logger
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Errorf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warnf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debugf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Tracef("badger: "+format, args...)
}
