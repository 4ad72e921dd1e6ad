package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrStatus is wrapped by errors describing a non-2xx response.
var ErrStatus = errors.New("unexpected http status")

// maxErrorBody bounds how much of an error response we keep in the error text.
const maxErrorBody = 2048

// Error checks the given http response for an error code, and, if one is
// present, reads the start of the body and returns a friendly error.
func Error(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bs, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: %d; error reading body: %v", ErrStatus, resp.StatusCode, err)
	}
	return fmt.Errorf("%w: %d:\n%s", ErrStatus, resp.StatusCode, string(bs))
}

// RetryAfter returns the Retry-After header of a response that asked us to
// slow down: any 429, or a 503 that says when to come back.
func RetryAfter(resp *http.Response) (string, bool) {
	retryAfter := resp.Header.Get("Retry-After")
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return retryAfter, true
	case resp.StatusCode == http.StatusServiceUnavailable && retryAfter != "":
		return retryAfter, true
	default:
		return "", false
	}
}
