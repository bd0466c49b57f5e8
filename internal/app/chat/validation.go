package chat

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"nickchat/internal/pkg/errs"
)

const (
	// MaxNickLength is the maximum nickname length in characters.
	MaxNickLength = 64

	// MaxMessageLength is the maximum message length in characters.
	MaxMessageLength = 2000

	// MaxDisplayNameLength is the maximum display name length in characters.
	MaxDisplayNameLength = 50

	// MaxPhotoSizeMB is the maximum allowed photo size in megabytes.
	MaxPhotoSizeMB = 5

	// MaxPhotoSize is the maximum allowed photo size in bytes.
	MaxPhotoSize = MaxPhotoSizeMB * 1024 * 1024
)

// AllowedMIMETypes defines the set of permitted MIME types for profile photos.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// NormalizeNick trims surrounding whitespace and checks the length limit.
// Nicknames are otherwise taken verbatim: "Ana" and "ana" are different users.
func NormalizeNick(nick string) (string, *errs.CustomError) {
	nick = strings.TrimSpace(nick)

	n := utf8.RuneCountInString(nick)
	if n == 0 || n > MaxNickLength {
		return "", errs.NewError(errs.ErrInvalidNick, MaxNickLength)
	}

	return nick, nil
}

// ValidateText checks that a message is non-blank and within the length limit.
// The text itself is stored unmodified.
func ValidateText(text string) *errs.CustomError {
	if strings.TrimSpace(text) == "" {
		return errs.NewError(errs.ErrMessageContentEmpty)
	}

	if utf8.RuneCountInString(text) > MaxMessageLength {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	return nil
}

// NormalizeDisplayName trims the display name and checks the length limit.
func NormalizeDisplayName(name string) (string, *errs.CustomError) {
	name = strings.TrimSpace(name)

	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxDisplayNameLength {
		return "", errs.NewError(errs.ErrInvalidDisplayName, MaxDisplayNameLength)
	}

	return name, nil
}

// ValidatePhotoSize checks if the provided file size is within acceptable limits.
func ValidatePhotoSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > MaxPhotoSize {
		return errs.NewError(errs.ErrPhotoTooLarge)
	}

	return nil
}

// ValidatePhotoType checks that the MIME type is an accepted image type and
// matches the file extension. It returns the lower-cased extension.
func ValidatePhotoType(fileName string, mimeType string) (string, *errs.CustomError) {
	lowerMimeType := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(lowerMimeType, ';'); i >= 0 {
		lowerMimeType = strings.TrimSpace(lowerMimeType[:i])
	}

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return "", errs.NewError(errs.ErrPhotoTypeInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return "", errs.NewError(errs.ErrPhotoTypeInvalid)
	}

	return ext, nil
}
