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

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006
)

// 2xxx: Message and Profile Validation Errors
const (
	// ErrInvalidNick indicates that the nickname is empty or exceeds the length limit.
	ErrInvalidNick = 2001

	// ErrMessageContentEmpty indicates that the message text is empty.
	ErrMessageContentEmpty = 2002

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2003

	// ErrInvalidDisplayName indicates that the display name chosen during setup is empty or too long.
	ErrInvalidDisplayName = 2101

	// ErrPhotoTypeInvalid indicates that the uploaded photo is not an accepted image type.
	ErrPhotoTypeInvalid = 2102

	// ErrPhotoTooLarge indicates that the uploaded photo exceeded the size limit.
	ErrPhotoTooLarge = 2103
)

// 3xxx: User State Errors
const (
	// ErrUserNotFound indicates that the referenced user id does not exist.
	ErrUserNotFound = 3001

	// ErrNickConflict indicates that a concurrent request created the same nickname.
	ErrNickConflict = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStoreFailed indicates that the persistent store rejected or failed an operation.
	ErrStoreFailed = 5001

	// ErrFileStorageFailed indicates that writing or removing an uploaded file failed.
	ErrFileStorageFailed = 5002
)
