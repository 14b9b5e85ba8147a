package model

// UserInfo carries the requester supplied fields of a record. ApprovalStatus is the only field
// the service itself changes.
type UserInfo struct {
	FullName       string `json:"fullName" binding:"required"`
	Organization   string `json:"organization" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	ReceiveEmails  string `json:"receiveEmails" binding:"required"`
	Country        string `json:"country" binding:"required"`
	ApprovalStatus string `json:"approvalStatus" binding:"required"`
	ProductTitle   string `json:"productTitle,omitempty"`
	Subject        string `json:"subject" binding:"required"`
	Description    string `json:"description" binding:"required"`
}

type Record struct {
	Id       string   `json:"id"`
	CaseNum  string   `json:"caseNum"`
	UserInfo UserInfo `json:"userInfo"`
}

type RecordWrapper struct {
	Record Record `json:"record"`
}

type CreateRecord struct {
	UserInfo *UserInfo `json:"userInfo" binding:"required"`
}

type RecordUpdate struct {
	ApprovalStatus *string `json:"Approval_Status__c" binding:"required"`
}

type RecordUpdateResponse struct {
	RecordId       string `json:"recordId"`
	ApprovalStatus string `json:"approvalStatus"`
}
