package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/moodtunes/internal/shared"
)

// maxErrorBody caps how much of an upstream error body is kept for logging.
const maxErrorBody = 4 << 10

// UpstreamError describes a failed call to a third-party API.
//
// It carries the diagnostic detail (status, headers, body) that is logged server-side and never sent to clients.
type UpstreamError struct {
	Service string
	Op      string
	Status  int
	Header  http.Header
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Service, e.Op)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the underlying cause and [shared.ErrAPIRequest] to [errors.Is].
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

// KeyVals flattens the error into structured log fields.
func (e *UpstreamError) KeyVals() []any {
	return []any{
		"service", e.Service,
		"op", e.Op,
		"status", e.Status,
		"headers", e.Header,
		"body", e.Body,
		"message", e.Error(),
	}
}

// AsUpstream extracts an [UpstreamError] from err's chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// newStatusError builds an [UpstreamError] from a non-2xx response, draining a bounded slice of its body.
func newStatusError(service, op string, resp *http.Response) *UpstreamError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &UpstreamError{
		Service: service,
		Op:      op,
		Status:  resp.StatusCode,
		Header:  resp.Header.Clone(),
		Body:    string(body),
	}
}
