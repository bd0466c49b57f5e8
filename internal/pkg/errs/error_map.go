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
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},

	// 2xxx: Message and Profile Validation Errors
	ErrInvalidNick:           {Code: ErrInvalidNick, Message: "Nickname must be between 1 and %d characters.", Status: http.StatusBadRequest},
	ErrMessageContentEmpty:   {Code: ErrMessageContentEmpty, Message: "Message cannot be empty.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrInvalidDisplayName:    {Code: ErrInvalidDisplayName, Message: "Display name must be between 1 and %d characters.", Status: http.StatusBadRequest},
	ErrPhotoTypeInvalid:      {Code: ErrPhotoTypeInvalid, Message: "Photo must be a JPEG, PNG, WebP or GIF image.", Status: http.StatusBadRequest},
	ErrPhotoTooLarge:         {Code: ErrPhotoTooLarge, Message: "Photo is too large.", Status: http.StatusRequestEntityTooLarge},

	// 3xxx: User State Errors
	ErrUserNotFound: {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrNickConflict: {Code: ErrNickConflict, Message: "Nickname was just taken. Please try again.", Status: http.StatusConflict},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreFailed:       {Code: ErrStoreFailed, Message: "Could not save your data. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
