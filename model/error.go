package model

import "net/http"

// fixed messages surfaced to callers
const (
	MissingTokenMessage         = "Bearer token is missing in header"
	InvalidTokenMessage         = "Bearer token is invalid"
	RecordNotFoundMessage       = "Record not found"
	UnsupportedGrantTypeMessage = "unsupported_grant_type"
	ClientNotFoundMessage       = "client_id not found in public keys"
)

type HttpError struct {
	Status    int
	Message   string
	RootError error
}

func (err *HttpError) Error() string {
	return err.Message
}

func (err *HttpError) GetRoot() error {
	return err.RootError
}

// ErrorDetail is the body of every failed call to a gated endpoint.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// OauthError is the body of a failed token request.
type OauthError struct {
	Error string `json:"error"`
}

func MissingTokenError() HttpError {
	return HttpError{Status: http.StatusUnauthorized, Message: MissingTokenMessage}
}

func InvalidTokenError(rootError error) HttpError {
	return HttpError{Status: http.StatusUnauthorized, Message: InvalidTokenMessage, RootError: rootError}
}

func RecordNotFoundError(rootError error) HttpError {
	return HttpError{Status: http.StatusNotFound, Message: RecordNotFoundMessage, RootError: rootError}
}
