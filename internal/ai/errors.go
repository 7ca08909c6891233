// README: Transient/permanent classification of provider errors.
package ai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRateLimited and ErrUnavailable mark failures worth retrying.
	ErrRateLimited = errors.New("model backend rate limited")
	ErrUnavailable = errors.New("model backend unavailable")
	// ErrBadRequest marks a request the backend will never accept.
	ErrBadRequest = errors.New("model backend rejected the request")
)

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if code, ok := grpcCode(err); ok && code == codes.DeadlineExceeded {
		return true
	}
	return false
}

// IsTransient reports whether a failed model call may succeed if retried:
// timeouts, transport failures, rate limiting and server-side errors.
// Caller cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrBadRequest) {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) {
		return true
	}
	if IsTimeout(err) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return transientHTTP(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientHTTP(reqErr.HTTPStatusCode)
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return transientHTTP(gErr.Code)
	}
	if code, ok := grpcCode(err); ok {
		switch code {
		case codes.ResourceExhausted, codes.Unavailable, codes.Internal, codes.Aborted:
			return true
		}
		return false
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func transientHTTP(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

func grpcCode(err error) (codes.Code, bool) {
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return se.GRPCStatus().Code(), true
	}
	return codes.OK, false
}
