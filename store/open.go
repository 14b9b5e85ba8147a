package store

import (
	"fmt"

	"github.com/usnistgov/oar-customer-service/config"
)

/**
* The two tables of the service, plus whatever has to be released on shutdown.
 */
type Stores struct {
	Records    Table
	PublicKeys Table
	closers    []func() error
}

func (s *Stores) Close() (err error) {
	for _, closer := range s.closers {
		if closeErr := closer(); closeErr != nil {
			logger.Warnf("Was not able to close store. Err: %v", closeErr)
			err = closeErr
		}
	}
	return err
}

/**
* Opens the tables for the configured backend.
 */
func Open(cfg config.Config) (stores *Stores, err error) {
	stores = &Stores{}
	switch cfg.StoreBackend() {
	case config.StoreBackendJson:
		logger.Warn("Records are kept in flat json files. Do NEVER use this for anything but development or testing!")
		if stores.Records, err = NewJsonFileTable(cfg.RecordsDbPath(), RecordsTable); err != nil {
			return nil, err
		}
		if stores.PublicKeys, err = NewJsonFileTable(cfg.PublicKeysDbPath(), PublicKeysTable); err != nil {
			return nil, err
		}
	case config.StoreBackendBadger:
		recordsStore, err := NewBadgerStore(cfg.RecordsDbPath())
		if err != nil {
			return nil, err
		}
		stores.closers = append(stores.closers, recordsStore.Close)
		stores.Records = recordsStore.Table(RecordsTable)

		// both tables may share one db, badger locks its directory
		keysStore := recordsStore
		if cfg.PublicKeysDbPath() != cfg.RecordsDbPath() {
			if keysStore, err = NewBadgerStore(cfg.PublicKeysDbPath()); err != nil {
				recordsStore.Close()
				return nil, err
			}
			stores.closers = append(stores.closers, keysStore.Close)
		}
		stores.PublicKeys = keysStore.Table(PublicKeysTable)
	case config.StoreBackendMySql:
		repository, adapter, err := GetMySqlRepository()
		if err != nil {
			return nil, err
		}
		stores.closers = append(stores.closers, adapter.Close)
		stores.Records = NewSqlRecordsTable(repository)
		stores.PublicKeys = NewSqlPublicKeysTable(repository)
	default:
		return nil, fmt.Errorf("unsupported store backend %s", cfg.StoreBackend())
	}
	logger.Infof("Using %s as storage backend.", cfg.StoreBackend())
	return stores, nil
}
