package model

type EmailInfo struct {
	Recipient string `json:"recipient" binding:"required,email"`
	RecordId  string `json:"recordId" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type EmailStatus struct {
	EmailInfo EmailInfo `json:"email_info"`
	Timestamp string    `json:"timestamp"`
}
