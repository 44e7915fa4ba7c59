// Package utils provides utility functions and helpers for the application.
// This file implements the JSON response helpers shared by all handlers.
//
// Successful responses are written as-is, without an envelope. Every error
// response has the same shape:
//
//	{"code": "<machine code>", "message": "<human message>", "details": {...}}
//
// where details is omitted when empty.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string         `json:"code"`              // A machine-readable error code
	Message string         `json:"message"`           // A human-readable error message
	Details map[string]any `json:"details,omitempty"` // Additional details, e.g. validation errors
}

// MessageResponse is the body of responses that only carry a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorCodes maps sentinel errors onto response codes.
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNotFound, constants.CodeNotFound},
	{ErrBadRequest, constants.CodeBadRequest},
	{ErrUnauthorized, constants.CodeUnauthorized},
	{ErrForbidden, constants.CodeForbidden},
	{ErrValidation, constants.CodeValidationError},
	{ErrDuplicate, constants.CodeDuplicateResource},
	{ErrInvalidCredentials, constants.CodeInvalidCredentials},
	{ErrInvalidToken, constants.CodeTokenInvalid},
	{ErrInvalidResetToken, constants.CodeInvalidResetToken},
	{ErrTooManyRequests, constants.CodeTooManyRequests},
}

// JSON sends a JSON response with the given status code and data.
// This is the primary function for sending successful responses.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The value to encode as the response body
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	SendJSON(w, statusCode, data)
}

// Message sends a JSON body of the form {"message": msg}.
func Message(w http.ResponseWriter, statusCode int, msg string) {
	SendJSON(w, statusCode, MessageResponse{Message: msg})
}

// Error sends an error response with the given status code and error information.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code
//   - message: A human-readable error message
//   - details: Additional details about the error, may be nil
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	SendJSON(w, statusCode, ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ErrorCode returns the response code for an application error.
func ErrorCode(err *AppError) string {
	for _, ec := range errorCodes {
		if errors.Is(err.Err, ec.err) {
			return ec.code
		}
	}
	return constants.CodeInternalError
}

// ErrorFromAppError sends an error response based on an AppError.
//
// Server errors are logged with their developer information, which never
// reaches the client.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Str("dev_info", err.DevInfo).
			Int("status", err.StatusCode).
			Msg(err.Message)
	}

	var details map[string]any
	if len(err.Details) > 0 || err.Field != "" {
		details = make(map[string]any, len(err.Details)+1)
		for k, v := range err.Details {
			details[k] = v
		}
		if err.Field != "" {
			if _, exists := details[err.Field]; !exists {
				details[err.Field] = err.Message
			}
		}
	}

	Error(w, err.StatusCode, ErrorCode(err), err.Message, details)
}

// SendJSON is a helper function to send JSON data with proper headers.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"code":"internal_error","message":"Failed to generate response"}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// BadRequest sends a 400 Bad Request response with the given message.
func BadRequest(w http.ResponseWriter, message string, details map[string]any) {
	Error(w, http.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgNoToken
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	Error(w, http.StatusForbidden, constants.CodeForbidden, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// InternalServerError sends a 500 response. The error is logged, not exposed.
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgInternalServerError, nil)
}
