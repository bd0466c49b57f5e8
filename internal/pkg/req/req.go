/*
Package req provides helper functions for HTTP request parsing and data binding.

It wraps JSON decoding and multipart form parsing and turns every failure into
an errs.CustomError so handlers can respond directly.
*/
package req

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"nickchat/internal/pkg/errs"
)

const (
	// MaxJSONBodySize caps JSON request bodies.
	MaxJSONBodySize int64 = 64 << 10 // 64 KB

	// MaxFormMemory is the memory ParseMultipartForm may use before spilling
	// file parts to temporary files.
	MaxFormMemory int64 = 8 << 20 // 8 MB

	// MaxRequestFileSize caps the whole multipart body, including files.
	MaxRequestFileSize int64 = 10 << 20 // 10 MB
)

// BindJSON decodes the JSON request body into dst. Unknown fields and trailing
// content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart parses a multipart or URL-encoded form, bounding the body size.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	err := r.ParseMultipartForm(MaxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}

	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// FormInt64 reads a required positive integer form field.
func FormInt64(r *http.Request, key string) (int64, *errs.CustomError) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}

	return v, nil
}

// OptionalFile returns the uploaded file for key, or nil when the form has none.
func OptionalFile(r *http.Request, key string) (multipart.File, *multipart.FileHeader, *errs.CustomError) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}

	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errs.NewError(errs.ErrFormParseFailed)
	}

	return file, header, nil
}
