package records

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/usnistgov/oar-customer-service/model"
	"github.com/usnistgov/oar-customer-service/store"
)

type mockRecordRepository struct {
	records     map[string]model.Record
	createError model.HttpError
	updateError model.HttpError
	updates     int
}

func (mrr *mockRecordRepository) GetRecord(ctx context.Context, id string) (record model.Record, httpErr model.HttpError) {
	record, ok := mrr.records[id]
	if !ok {
		return record, model.RecordNotFoundError(store.ErrNotFound)
	}
	return record, httpErr
}

func (mrr *mockRecordRepository) CreateRecord(ctx context.Context, record model.Record) model.HttpError {
	if mrr.createError != (model.HttpError{}) {
		return mrr.createError
	}
	mrr.records[record.Id] = record
	return model.HttpError{}
}

func (mrr *mockRecordRepository) UpdateRecord(ctx context.Context, record model.Record) model.HttpError {
	if mrr.updateError != (model.HttpError{}) {
		return mrr.updateError
	}
	mrr.updates++
	mrr.records[record.Id] = record
	return model.HttpError{}
}

func (mrr *mockRecordRepository) DeleteRecord(ctx context.Context, id string) model.HttpError {
	delete(mrr.records, id)
	return model.HttpError{}
}

func getUserInfo(approvalStatus string) model.UserInfo {
	return model.UserInfo{
		FullName:       "John Doe",
		Organization:   "NIST",
		Email:          "john.doe@example.com",
		ReceiveEmails:  "Yes",
		Country:        "United States",
		ApprovalStatus: approvalStatus,
		ProductTitle:   "Research Data",
		Subject:        "RPA: ark:/88434/mds2-2909",
		Description:    "Product Title:\nResearch Data",
	}
}

func TestCreateRecord(t *testing.T) {
	type test struct {
		testName       string
		createError    model.HttpError
		expectedRecord model.Record
		expectedError  model.HttpError
	}
	persistenceError := model.HttpError{Status: http.StatusInternalServerError, Message: "Error creating record: broken", RootError: errors.New("broken")}
	tests := []test{
		{"Successfully create a record.", model.HttpError{}, model.Record{Id: "myId", CaseNum: "123456", UserInfo: getUserInfo("Pending")}, model.HttpError{}},
		{"Return persistence failures.", persistenceError, model.Record{}, persistenceError},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			repository := &mockRecordRepository{records: map[string]model.Record{}, createError: tc.createError}
			service := NewRecordService(repository)
			service.newId = func() string { return "myId" }
			service.newCaseNum = func() string { return "123456" }

			record, httpErr := service.CreateRecord(context.Background(), getUserInfo("Pending"))
			if httpErr != tc.expectedError {
				t.Errorf("%s: Unexpected error. Expected: %v, Actual: %v", tc.testName, tc.expectedError, httpErr)
			}
			if diff := cmp.Diff(tc.expectedRecord, record); diff != "" {
				t.Errorf("%s: Unexpected record: %s", tc.testName, diff)
			}
		})
	}
}

func TestGeneratedIdentifiers(t *testing.T) {
	for i := 0; i < 1000; i++ {
		caseNum, err := strconv.Atoi(randomCaseNum())
		if err != nil || caseNum < minCaseNum || caseNum > maxCaseNum {
			t.Fatalf("Case number %d is out of range. Err: %v", caseNum, err)
		}
	}
	if _, err := uuid.Parse(randomId()); err != nil {
		t.Errorf("Record ids should be uuids, err: %v", err)
	}
	if randomId() == randomId() {
		t.Errorf("Record ids should be random.")
	}
}

func TestUpdateApprovalStatus(t *testing.T) {
	type test struct {
		testName         string
		recordId         string
		updateError      model.HttpError
		expectedResponse model.RecordUpdateResponse
		expectedStatus   int
	}
	tests := []test{
		{"Successfully update the status.", "myId", model.HttpError{}, model.RecordUpdateResponse{RecordId: "myId", ApprovalStatus: "Approved_2023-04-25T10:00:00.000Z"}, 0},
		{"Return not found for unknown records.", "unknown", model.HttpError{}, model.RecordUpdateResponse{}, http.StatusNotFound},
		{"Return persistence failures.", "myId", model.HttpError{Status: http.StatusInternalServerError, Message: "Error updating record: broken"}, model.RecordUpdateResponse{}, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			original := model.Record{Id: "myId", CaseNum: "123456", UserInfo: getUserInfo("Pending")}
			repository := &mockRecordRepository{records: map[string]model.Record{"myId": original}, updateError: tc.updateError}
			service := NewRecordService(repository)

			response, httpErr := service.UpdateApprovalStatus(context.Background(), tc.recordId, "Approved_2023-04-25T10:00:00.000Z")
			if httpErr.Status != tc.expectedStatus {
				t.Errorf("%s: Unexpected status. Expected: %d, Actual: %v", tc.testName, tc.expectedStatus, httpErr)
			}
			if diff := cmp.Diff(tc.expectedResponse, response); diff != "" {
				t.Errorf("%s: Unexpected response: %s", tc.testName, diff)
			}
			if tc.expectedStatus != 0 {
				if diff := cmp.Diff(original, repository.records["myId"]); diff != "" {
					t.Errorf("%s: Record should not change on failure: %s", tc.testName, diff)
				}
				return
			}
			expected := original
			expected.UserInfo.ApprovalStatus = "Approved_2023-04-25T10:00:00.000Z"
			if diff := cmp.Diff(expected, repository.records["myId"]); diff != "" {
				t.Errorf("%s: Only the approval status should change: %s", tc.testName, diff)
			}
		})
	}
}

func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	table, err := store.NewJsonFileTable(filepath.Join(t.TempDir(), "db.json"), store.RecordsTable)
	if err != nil {
		t.Fatalf("Was not able to create table: %v", err)
	}
	service := NewRecordService(NewRecordRepository(table))
	record, httpErr := service.CreateRecord(ctx, getUserInfo("Pending"))
	if httpErr != (model.HttpError{}) {
		t.Fatalf("Was not able to create record: %v", httpErr)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, httpErr := service.UpdateApprovalStatus(ctx, record.Id, "Status_"+strconv.Itoa(i)); httpErr != (model.HttpError{}) {
				t.Errorf("Concurrent update failed: %v", httpErr)
			}
		}(i)
	}
	wg.Wait()

	stored, httpErr := service.GetRecord(ctx, record.Id)
	if httpErr != (model.HttpError{}) {
		t.Fatalf("Was not able to read record: %v", httpErr)
	}
	expected := getUserInfo(stored.UserInfo.ApprovalStatus)
	if diff := cmp.Diff(expected, stored.UserInfo); diff != "" {
		t.Errorf("Concurrent updates should only touch the status: %s", diff)
	}
}
