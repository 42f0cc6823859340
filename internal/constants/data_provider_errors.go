package constants

// Data Provider Error Codes
// These constants define specific error scenarios for the upstream fare provider

// Credential-related errors
const (
	ErrCodeInvalidAPIKey        = "INVALID_API_KEY"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
)

// Transport-related errors
const (
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
	ErrCodeDecodeError   = "DECODE_ERROR"
)

// Result errors
const (
	ErrCodeEmptyResult       = "EMPTY_RESULT"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

// Error Messages
// Human-readable messages corresponding to error codes

var DataProviderErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:        "The Amadeus API key or secret is missing or invalid",
	ErrCodeAuthenticationFailed: "Authentication with Amadeus failed",

	ErrCodeRateLimited:   "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:  "Unable to connect to Amadeus",
	ErrCodeTimeout:       "The Amadeus request timed out",
	ErrCodeUpstreamError: "Amadeus returned an unexpected response",
	ErrCodeDecodeError:   "Unable to decode the Amadeus response",

	ErrCodeEmptyResult:       "Amadeus returned no offers for the requested route",
	ErrCodeInvalidDataFormat: "The request data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := DataProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
