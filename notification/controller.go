package notification

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/usnistgov/oar-customer-service/model"
)

const timestampLayout = "2006-01-02 15:04:05"

type EmailController struct {
	sender EmailSender
	now    func() time.Time
}

func NewEmailController(sender EmailSender) *EmailController {
	return &EmailController{sender: sender, now: time.Now}
}

func (ec *EmailController) SendEmail(c *gin.Context) {
	var emailInfo model.EmailInfo
	if err := c.ShouldBindJSON(&emailInfo); err != nil {
		logger.Debugf("Was not able to bind email request. Err: %v", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorDetail{Detail: fmt.Sprintf("Invalid email info: %v", err)})
		return
	}
	logger.Infof("Sending email to '%s' with subject '%s'", emailInfo.Recipient, emailInfo.Subject)

	if err := ec.sender.SendEmail(c.Request.Context(), emailInfo.Recipient, emailInfo.Subject, emailInfo.Content); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorDetail{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.EmailStatus{EmailInfo: emailInfo, Timestamp: ec.now().Format(timestampLayout)})
}
