package http

import (
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

/**
* Client for outgoing calls, falls back to a 30s timeout.
 */
func NewHttpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
