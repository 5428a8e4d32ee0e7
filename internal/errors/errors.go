package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("missing or invalid fields")
	// ErrScoreOutOfRange is returned when a score is outside 1..10.
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidCredentials is returned when the administrator password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrReservedStudentID is returned when a student login claims the administrator slot.
	ErrReservedStudentID = errors.New("student id is reserved")
	// ErrUnauthorized is returned when no valid session is present.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched with errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrScoreOutOfRange):
		return NewHTTPError(http.StatusBadRequest, ErrScoreOutOfRange.Error(), "SCORE_OUT_OF_RANGE")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProjectNotFound.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrReservedStudentID):
		return NewHTTPError(http.StatusForbidden, ErrReservedStudentID.Error(), "RESERVED_STUDENT_ID")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
