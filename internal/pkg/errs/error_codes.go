/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrContentTooLong = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Registry and Delivery Business Logic Errors
const (
	// ErrUserAlreadyExists indicates that the user id being registered is already present in the registry.
	ErrUserAlreadyExists = 2101

	// ErrUserNotFound indicates that the requested user id is not present in the registry.
	ErrUserNotFound = 2102

	// ErrReceiverTaken indicates that the user's notification stream has already been claimed
	// by another receive call.
	ErrReceiverTaken = 2103

	// ErrMailboxFull indicates that the destination user's mailbox rejected a notification
	// because it is at capacity.
	ErrMailboxFull = 2201

	// ErrMailboxClosed indicates that the destination user's mailbox has been closed
	// (the user is being deregistered).
	ErrMailboxClosed = 2202
)

// 3xxx: Authentication Errors
const (
	// ErrUnauthenticated indicates missing, malformed, or mismatched user_id/user_token
	// call credentials.
	ErrUnauthenticated = 3001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
