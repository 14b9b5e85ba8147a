package records

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/usnistgov/oar-customer-service/model"
)

func getRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewRecordController(NewRecordService(getBadgerRepository(t)))
	router := gin.New()
	router.POST("/records", controller.CreateRecord)
	router.GET("/records/:id", controller.GetRecord)
	router.PATCH("/records/:id", controller.UpdateRecord)
	return router
}

func doRequest(router *gin.Engine, method string, path string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRecordLifecycle(t *testing.T) {
	router := getRouter(t)

	createBody, _ := json.Marshal(map[string]interface{}{"userInfo": getUserInfo("Pending")})
	recorder := doRequest(router, http.MethodPost, "/records", string(createBody))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Create should succeed, but was %d: %s", recorder.Code, recorder.Body.String())
	}
	var created model.RecordWrapper
	json.Unmarshal(recorder.Body.Bytes(), &created)
	if created.Record.Id == "" || len(created.Record.CaseNum) != 6 {
		t.Errorf("Id and case number should be generated, but was %s.", recorder.Body.String())
	}
	if diff := cmp.Diff(getUserInfo("Pending"), created.Record.UserInfo); diff != "" {
		t.Errorf("User info should be stored as provided: %s", diff)
	}

	recorder = doRequest(router, http.MethodGet, "/records/"+created.Record.Id, "")
	var fetched model.RecordWrapper
	json.Unmarshal(recorder.Body.Bytes(), &fetched)
	if recorder.Code != http.StatusOK {
		t.Errorf("Get should succeed, but was %d.", recorder.Code)
	}
	if diff := cmp.Diff(created, fetched); diff != "" {
		t.Errorf("Unexpected record returned: %s", diff)
	}

	recorder = doRequest(router, http.MethodPatch, "/records/"+created.Record.Id, `{"Approval_Status__c":"Approved_2023-04-25T10:00:00.000Z"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Update should succeed, but was %d: %s", recorder.Code, recorder.Body.String())
	}
	expectedBody := `{"recordId":"` + created.Record.Id + `","approvalStatus":"Approved_2023-04-25T10:00:00.000Z"}`
	if recorder.Body.String() != expectedBody {
		t.Errorf("Unexpected update response. Expected: %s, Actual: %s", expectedBody, recorder.Body.String())
	}

	recorder = doRequest(router, http.MethodGet, "/records/"+created.Record.Id, "")
	json.Unmarshal(recorder.Body.Bytes(), &fetched)
	if fetched.Record.UserInfo.ApprovalStatus != "Approved_2023-04-25T10:00:00.000Z" || fetched.Record.UserInfo.FullName != "John Doe" {
		t.Errorf("Only the status should have changed, record is %s.", recorder.Body.String())
	}
}

func TestRecordErrors(t *testing.T) {
	router := getRouter(t)

	type test struct {
		testName       string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedDetail string
	}
	tests := []test{
		{"Return not found for unknown records.", http.MethodGet, "/records/unknown", "", http.StatusNotFound, model.RecordNotFoundMessage},
		{"Return not found when updating unknown records.", http.MethodPatch, "/records/unknown", `{"Approval_Status__c":"Approved"}`, http.StatusNotFound, model.RecordNotFoundMessage},
		{"Reject updates without a status.", http.MethodPatch, "/records/unknown", `{"status":"Approved"}`, http.StatusBadRequest, "Invalid update"},
		{"Reject creation without user info.", http.MethodPost, "/records", `{}`, http.StatusBadRequest, "Invalid record"},
		{"Reject creation with invalid emails.", http.MethodPost, "/records", `{"userInfo":{"fullName":"a","organization":"b","email":"not-an-email","receiveEmails":"Yes","country":"c","approvalStatus":"Pending","subject":"s","description":"d"}}`, http.StatusBadRequest, "Invalid record"},
		{"Reject creation with missing fields.", http.MethodPost, "/records", `{"userInfo":{"fullName":"a"}}`, http.StatusBadRequest, "Invalid record"},
		{"Reject malformed json.", http.MethodPost, "/records", `{"userInfo":`, http.StatusBadRequest, "Invalid record"},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			recorder := doRequest(router, tc.method, tc.path, tc.body)
			if recorder.Code != tc.expectedStatus {
				t.Errorf("%s: Unexpected status. Expected: %d, Actual: %d", tc.testName, tc.expectedStatus, recorder.Code)
			}
			var detail model.ErrorDetail
			json.Unmarshal(recorder.Body.Bytes(), &detail)
			if !strings.HasPrefix(detail.Detail, tc.expectedDetail) {
				t.Errorf("%s: Unexpected detail. Expected: %s, Actual: %s", tc.testName, tc.expectedDetail, detail.Detail)
			}
		})
	}
}
