/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrContentTooLong:       {Code: ErrContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Registry and Delivery Business Logic Errors
	ErrUserAlreadyExists: {Code: ErrUserAlreadyExists, Message: "User id is already registered.", Status: http.StatusConflict},
	ErrUserNotFound:      {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrReceiverTaken:     {Code: ErrReceiverTaken, Message: "Notification stream already open for this user.", Status: http.StatusConflict},
	ErrMailboxFull:       {Code: ErrMailboxFull, Message: "Could not deliver notification.", Status: http.StatusInternalServerError},
	ErrMailboxClosed:     {Code: ErrMailboxClosed, Message: "Could not deliver notification.", Status: http.StatusInternalServerError},

	// 3xxx: Authentication Errors
	ErrUnauthenticated: {Code: ErrUnauthenticated, Message: "Could not authenticate.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
