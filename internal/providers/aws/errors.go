package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

type ErrorCategory string

// Error categories for better error classification and handling
const (
	// ErrPermissionDenied is returned when AWS API access is denied
	ErrPermissionDenied ErrorCategory = "permission_denied"

	// ErrThrottling is returned when AWS API throttles the request
	ErrThrottling ErrorCategory = "request_throttled"

	// ErrConfigurationError is returned when there's an issue with AWS configuration
	ErrConfigurationError ErrorCategory = "configuration_error"

	// ErrNetworkError is returned for network-related errors accessing AWS API
	ErrNetworkError ErrorCategory = "network_error"

	// ErrInvalidInput is returned when invalid input is provided
	ErrInvalidInput ErrorCategory = "invalid_input"

	// ErrInternalError is returned for unexpected internal errors
	ErrInternalError ErrorCategory = "internal_error"
)

// Error represents an error that occurred during AWS operations with
// additional context about what went wrong.
type Error struct {
	// Category for programmatic error handling
	Category ErrorCategory

	// ResourceType identifies the AWS resource type (e.g., EC2)
	ResourceType string

	// Region is the region the request was made against, when known
	Region string

	// Message provides human-readable details
	Message string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Category, e.Message)
	switch {
	case e.Region != "":
		msg += fmt.Sprintf(" [resource: %s/%s]", e.ResourceType, e.Region)
	case e.ResourceType != "":
		msg += fmt.Sprintf(" [resource type: %s]", e.ResourceType)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewAWSError creates a new AWS error with the specified details
func NewAWSError(category ErrorCategory, resourceType, region, message string, underlying error) *Error {
	return &Error{
		Category:     category,
		ResourceType: resourceType,
		Region:       region,
		Message:      message,
		Underlying:   underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var awsErr *Error
	if errors.As(err, &awsErr) {
		return awsErr.Category == category
	}

	return false
}

// ClassifyAWSError classifies an AWS error by its API error code, falling
// back to the error message for transport and SDK errors.
func ClassifyAWSError(err error, resourceType, region string) *Error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		errMsg = apiErr.ErrorCode() + " " + errMsg
	}

	switch {
	// Reference: https://docs.aws.amazon.com/AWSEC2/latest/APIReference/errors-overview.html
	case contains(errMsg, "UnauthorizedOperation", "AuthFailure", "InvalidClientTokenId",
		"OptInRequired", "ExpiredToken"):
		return NewAWSError(ErrPermissionDenied, resourceType, region,
			"Access denied", err)

	case contains(errMsg, "RequestLimitExceeded", "Throttling"):
		return NewAWSError(ErrThrottling, resourceType, region,
			"Request throttled", err)

	case contains(errMsg, "InvalidParameter", "ValidationError", "MalformedQueryString"):
		return NewAWSError(ErrInvalidInput, resourceType, region,
			"Invalid input", err)

	case contains(errMsg, "could not find region", "failed to retrieve credentials",
		"no EC2 IMDS role found", "Missing Region"):
		return NewAWSError(ErrConfigurationError, resourceType, region,
			"AWS SDK configuration error", err)

	case contains(errMsg, "no such host", "connection refused", "timeout"):
		return NewAWSError(ErrNetworkError, resourceType, region,
			"Network error while accessing AWS API", err)

	default:
		return NewAWSError(ErrInternalError, resourceType, region,
			"Internal error occurred", err)
	}
}

// contains checks if the error message contains any of the provided substrings
func contains(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(strings.ToLower(s), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
