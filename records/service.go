package records

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/usnistgov/oar-customer-service/model"
)

const (
	minCaseNum = 100000
	maxCaseNum = 999999
)

type RecordService struct {
	repository RecordRepository
	// guards read-modify-write of approval status
	updateLock sync.Mutex
	newId      func() string
	newCaseNum func() string
}

func NewRecordService(repository RecordRepository) *RecordService {
	return &RecordService{repository: repository, newId: randomId, newCaseNum: randomCaseNum}
}

func (s *RecordService) CreateRecord(ctx context.Context, userInfo model.UserInfo) (record model.Record, httpErr model.HttpError) {
	record = model.Record{Id: s.newId(), CaseNum: s.newCaseNum(), UserInfo: userInfo}
	httpErr = s.repository.CreateRecord(ctx, record)
	if httpErr != (model.HttpError{}) {
		logger.Warnf("Was not able to create record for %s. Err: %v", userInfo.Email, httpErr.RootError)
		return model.Record{}, httpErr
	}
	logger.Infof("Created record %s with case number %s.", record.Id, record.CaseNum)
	return record, httpErr
}

func (s *RecordService) GetRecord(ctx context.Context, id string) (record model.Record, httpErr model.HttpError) {
	return s.repository.GetRecord(ctx, id)
}

/**
* Replaces the approval status of the record, leaving all other fields untouched.
 */
func (s *RecordService) UpdateApprovalStatus(ctx context.Context, id string, approvalStatus string) (response model.RecordUpdateResponse, httpErr model.HttpError) {
	s.updateLock.Lock()
	defer s.updateLock.Unlock()

	record, httpErr := s.repository.GetRecord(ctx, id)
	if httpErr != (model.HttpError{}) {
		return response, httpErr
	}
	record.UserInfo.ApprovalStatus = approvalStatus
	httpErr = s.repository.UpdateRecord(ctx, record)
	if httpErr != (model.HttpError{}) {
		return response, httpErr
	}
	logger.Infof("Approval status of record %s is now %s.", id, approvalStatus)
	return model.RecordUpdateResponse{RecordId: id, ApprovalStatus: approvalStatus}, httpErr
}

func randomId() string {
	return uuid.NewString()
}

func randomCaseNum() string {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCaseNum-minCaseNum+1))
	if err != nil {
		// the system random source never fails on supported platforms
		logger.Fatalf("Was not able to read random bytes. Err: %v", err)
	}
	return strconv.FormatInt(n.Int64()+minCaseNum, 10)
}
