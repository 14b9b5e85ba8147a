package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-rel/mysql"
	"github.com/go-rel/rel"
	"github.com/go-rel/rel/where"
	_ "github.com/go-sql-driver/mysql"
	dbModel "github.com/usnistgov/oar-customer-service/sql"
)

/**
* Table backed by a sql table with an id and a json body column. The schema is created through
* the migrations in db/migrations.
 */
type SqlTable struct {
	repo   rel.Repository
	name   string
	newRow func() dbModel.Row
}

func NewSqlRecordsTable(repository rel.Repository) *SqlTable {
	return &SqlTable{repo: repository, name: RecordsTable, newRow: func() dbModel.Row { return &dbModel.Record{} }}
}

func NewSqlPublicKeysTable(repository rel.Repository) *SqlTable {
	return &SqlTable{repo: repository, name: PublicKeysTable, newRow: func() dbModel.Row { return &dbModel.PublicKey{} }}
}

/**
* Connects to the mysql db configured through MYSQL_* env vars.
 */
func GetMySqlRepository() (repository rel.Repository, adapter rel.Adapter, err error) {

	mysqlHost := os.Getenv("MYSQL_HOST")
	if mysqlHost == "" {
		return repository, adapter, errors.New("no mysql host configured")
	}
	mySqlPort := 3306
	mysqlPortEnv := os.Getenv("MYSQL_PORT")
	if mysqlPortEnv != "" {
		mySqlPort, err = strconv.Atoi(mysqlPortEnv)
		if err != nil {
			return repository, adapter, fmt.Errorf("invalid mysql port configured: %s", mysqlPortEnv)
		}
	}
	mysqlDb := os.Getenv("MYSQL_DATABASE")
	if mysqlDb == "" {
		return repository, adapter, errors.New("no mysql db configured")
	}

	mysqlUser := os.Getenv("MYSQL_USERNAME")
	mysqlPassword := os.Getenv("MYSQL_PASSWORD")
	if mysqlUser == "" {
		logger.Infof("No user configured for mySql, will try to connect as root.")
		mysqlUser = "root"
	}

	var connectionString string
	if mysqlPassword != "" {
		connectionString = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", mysqlUser, mysqlPassword, mysqlHost, mySqlPort, mysqlDb)
	} else {
		logger.Infof("No password configured for mySql, will try to connect without credentials.")
		connectionString = fmt.Sprintf("%s@tcp(%s:%d)/%s", mysqlUser, mysqlHost, mySqlPort, mysqlDb)
	}

	adapter, err = mysql.Open(connectionString)
	if err != nil {
		return repository, adapter, fmt.Errorf("was not able to connect to db %s:%d/%s as user %s: %w", mysqlHost, mySqlPort, mysqlDb, mysqlUser, err)
	}
	logger.Infof("Connected to mysql at %s:%d/%s.", mysqlHost, mySqlPort, mysqlDb)
	return rel.New(adapter), adapter, nil
}

func (t *SqlTable) Name() string {
	return t.name
}

func (t *SqlTable) Get(ctx context.Context, id string) ([]byte, error) {
	row, err := t.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return []byte(row.GetBody()), nil
}

func (t *SqlTable) Insert(ctx context.Context, id string, document []byte) error {
	_, err := t.find(ctx, id)
	if err == nil {
		return alreadyExists(t.name, id)
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	row := t.newRow()
	row.Set(id, string(document))
	if err := t.repo.Insert(ctx, row); err != nil {
		return fmt.Errorf("was not able to insert %s/%s: %w", t.name, id, err)
	}
	return nil
}

func (t *SqlTable) Update(ctx context.Context, id string, document []byte) error {
	row, err := t.find(ctx, id)
	if err != nil {
		return err
	}
	row.Set(id, string(document))
	if err := t.repo.Update(ctx, row); err != nil {
		return fmt.Errorf("was not able to update %s/%s: %w", t.name, id, err)
	}
	return nil
}

func (t *SqlTable) Remove(ctx context.Context, id string) error {
	row, err := t.find(ctx, id)
	if err != nil {
		return err
	}
	return t.repo.Delete(ctx, row)
}

func (t *SqlTable) Truncate(ctx context.Context) error {
	_, err := t.repo.DeleteAny(ctx, rel.From(t.name).Where(where.Ne("id", "")))
	return err
}

func (t *SqlTable) Ping(ctx context.Context) error {
	return t.repo.Ping(ctx)
}

func (t *SqlTable) find(ctx context.Context, id string) (row dbModel.Row, err error) {
	row = t.newRow()
	err = t.repo.Find(ctx, row, where.Eq("id", id))
	var notFoundError rel.NotFoundError
	if errors.As(err, &notFoundError) {
		return row, notFound(t.name, id)
	}
	if err != nil {
		return row, fmt.Errorf("was not able to query %s/%s: %w", t.name, id, err)
	}
	return row, nil
}
