/*
Package randx generates collision-resistant identifiers for stored files.
*/
package randx

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PhotoName returns a file name for an uploaded photo: a UUIDv7 (millisecond
// timestamp followed by random bits) plus the lower-cased extension ext.
// ext may be given with or without the leading dot.
func PhotoName(ext string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate photo name: %w", err)
	}

	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return id.String() + ext, nil
}

// IsPhotoName reports whether name has the shape produced by PhotoName.
// It is used to refuse path traversal when deleting stored files.
func IsPhotoName(name string) bool {
	base, ext, _ := strings.Cut(name, ".")
	if strings.ContainsAny(ext, `/\.`) {
		return false
	}

	id, err := uuid.Parse(base)
	return err == nil && id.Version() == 7
}
