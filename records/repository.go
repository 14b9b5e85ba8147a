package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
	"github.com/usnistgov/oar-customer-service/store"
)

var logger = logging.Log()

type RecordRepository interface {
	GetRecord(ctx context.Context, id string) (record model.Record, httpErr model.HttpError)
	CreateRecord(ctx context.Context, record model.Record) model.HttpError
	UpdateRecord(ctx context.Context, record model.Record) model.HttpError
	DeleteRecord(ctx context.Context, id string) model.HttpError
}

/**
* Repository keeping the records as json documents in a store table.
 */
type TableRecordRepository struct {
	table store.Table
}

func NewRecordRepository(table store.Table) *TableRecordRepository {
	return &TableRecordRepository{table: table}
}

func (r *TableRecordRepository) GetRecord(ctx context.Context, id string) (record model.Record, httpErr model.HttpError) {
	document, err := r.table.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return record, model.RecordNotFoundError(err)
	}
	if err != nil {
		return record, model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error reading record: %v", err), RootError: err}
	}
	if err := json.Unmarshal(document, &record); err != nil {
		logger.Warnf("Stored record %s is not valid json. Err: %v", id, err)
		return record, model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error reading record: %v", err), RootError: err}
	}
	return record, httpErr
}

func (r *TableRecordRepository) CreateRecord(ctx context.Context, record model.Record) model.HttpError {
	document, err := json.Marshal(record)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error creating record: %v", err), RootError: err}
	}
	if err := r.table.Insert(ctx, record.Id, document); err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error creating record: %v", err), RootError: err}
	}
	return model.HttpError{}
}

func (r *TableRecordRepository) UpdateRecord(ctx context.Context, record model.Record) model.HttpError {
	document, err := json.Marshal(record)
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error updating record: %v", err), RootError: err}
	}
	err = r.table.Update(ctx, record.Id, document)
	if errors.Is(err, store.ErrNotFound) {
		return model.RecordNotFoundError(err)
	}
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error updating record: %v", err), RootError: err}
	}
	return model.HttpError{}
}

func (r *TableRecordRepository) DeleteRecord(ctx context.Context, id string) model.HttpError {
	err := r.table.Remove(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.RecordNotFoundError(err)
	}
	if err != nil {
		return model.HttpError{Status: http.StatusInternalServerError, Message: fmt.Sprintf("Error deleting record: %v", err), RootError: err}
	}
	return model.HttpError{}
}
