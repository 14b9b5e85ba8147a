package records

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usnistgov/oar-customer-service/logging"
	"github.com/usnistgov/oar-customer-service/model"
)

type RecordController struct {
	service *RecordService
}

func NewRecordController(service *RecordService) *RecordController {
	return &RecordController{service: service}
}

func (rc *RecordController) CreateRecord(c *gin.Context) {
	var createRecord model.CreateRecord
	if err := c.ShouldBindJSON(&createRecord); err != nil {
		logger.Debugf("Was not able to bind create request. Err: %v", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorDetail{Detail: fmt.Sprintf("Invalid record: %v", err)})
		return
	}
	record, httpErr := rc.service.CreateRecord(c.Request.Context(), *createRecord.UserInfo)
	if httpErr != (model.HttpError{}) {
		c.AbortWithStatusJSON(httpErr.Status, model.ErrorDetail{Detail: httpErr.Message})
		return
	}
	c.JSON(http.StatusOK, model.RecordWrapper{Record: record})
}

func (rc *RecordController) GetRecord(c *gin.Context) {
	recordId := c.Param("id")
	record, httpErr := rc.service.GetRecord(c.Request.Context(), recordId)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to get record %s. Err: %v", recordId, httpErr.RootError)
		c.AbortWithStatusJSON(httpErr.Status, model.ErrorDetail{Detail: httpErr.Message})
		return
	}
	c.JSON(http.StatusOK, model.RecordWrapper{Record: record})
}

func (rc *RecordController) UpdateRecord(c *gin.Context) {
	recordId := c.Param("id")
	var update model.RecordUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		logger.Debugf("Was not able to bind update request for %s. Err: %v", recordId, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorDetail{Detail: fmt.Sprintf("Invalid update: %v", err)})
		return
	}
	response, httpErr := rc.service.UpdateApprovalStatus(c.Request.Context(), recordId, *update.ApprovalStatus)
	if httpErr != (model.HttpError{}) {
		logger.Debugf("Was not able to update record %s: %s", recordId, logging.PrettyPrintObject(update))
		c.AbortWithStatusJSON(httpErr.Status, model.ErrorDetail{Detail: httpErr.Message})
		return
	}
	c.JSON(http.StatusOK, response)
}
