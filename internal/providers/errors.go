package providers

import (
	"errors"
	"fmt"

	"infinite-experiment/skywatch/internal/constants"
)

// ProviderError is a typed failure from an upstream fare provider
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(code string, err error) *ProviderError {
	return &ProviderError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

func providerErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsAuthError reports credential or handshake failures
func IsAuthError(err error) bool {
	switch providerErrorCode(err) {
	case constants.ErrCodeInvalidAPIKey, constants.ErrCodeAuthenticationFailed:
		return true
	}
	return false
}

// IsTransportError reports network, timeout and non-success response failures
func IsTransportError(err error) bool {
	switch providerErrorCode(err) {
	case constants.ErrCodeNetworkError,
		constants.ErrCodeTimeout,
		constants.ErrCodeRateLimited,
		constants.ErrCodeUpstreamError,
		constants.ErrCodeDecodeError,
		constants.ErrCodeInvalidDataFormat:
		return true
	}
	return false
}

// IsEmptyResult reports a successful call that produced no usable offers
func IsEmptyResult(err error) bool {
	return providerErrorCode(err) == constants.ErrCodeEmptyResult
}

// FallbackReason buckets an error for logs and the fallback counter
func FallbackReason(err error) string {
	switch {
	case err == nil:
		return "empty"
	case IsAuthError(err):
		return "auth"
	case providerErrorCode(err) == constants.ErrCodeTimeout:
		return "timeout"
	case IsTransportError(err):
		return "transport"
	case IsEmptyResult(err):
		return "empty"
	default:
		return "unknown"
	}
}
