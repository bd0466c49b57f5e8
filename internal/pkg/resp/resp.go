/*
Package resp provides helper functions for constructing and sending HTTP JSON responses.

Chat operations answer with their own payload shapes; service endpoints and all
errors use the JSONResponse envelope carrying a machine-readable code.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"nickchat/internal/pkg/errs"
	"nickchat/internal/pkg/logx"
)

// JSONResponse defines the envelope used for errors and service endpoints.
type JSONResponse struct {
	// Code is the business status code (0 for success, others for specific errors, see errs package).
	Code int `json:"code"`

	// Message is the client-friendly status description or error message.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`
}

// RespondJSON sets the Content-Type and writes payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.FromContext(r.Context(), logx.Logger()).Error().
			Err(err).
			Int("http_status", httpStatus).
			Msg("Error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondData writes payload as-is with HTTP 200 OK.
func RespondData(w http.ResponseWriter, r *http.Request, payload any) {
	RespondJSON(w, r, http.StatusOK, payload)
}

// RespondSuccess wraps data in the JSONResponse envelope and writes it with HTTP 200 OK.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError writes customErr in the JSONResponse envelope using its HTTP status.
// A nil customErr is reported as ErrUnknown.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	status := customErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	}
	RespondJSON(w, r, status, res)
}
