package handler

import (
	"net/http"

	"nickchat/internal/app/chat"
	"nickchat/internal/pkg/errs"
	"nickchat/internal/pkg/logx"
	"nickchat/internal/pkg/req"
	"nickchat/internal/pkg/resp"
)

type SetupResponse struct {
	Status string   `json:"status"`
	User   UserView `json:"user"`
}

// HandleSetup completes the profile of a user (display name and optional
// photo) and activates it. Expects multipart/form-data with the fields
// userId, newName and, optionally, the file part photo.
func HandleSetup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		userID, customErr := req.FormInt64(r, "userId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input := chat.SetupInput{
			UserID:      userID,
			DisplayName: r.FormValue("newName"),
		}

		file, header, customErr := req.OptionalFile(r, "photo")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if file != nil {
			defer file.Close()
			input.Photo = &chat.Photo{
				FileName: header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Size:     header.Size,
				Body:     file,
			}
		}

		updated, customErr := deps.Chat.Setup(r.Context(), input)
		if customErr != nil {
			if errs.Is(customErr, errs.ErrUserNotFound) {
				logx.FromContext(r.Context(), logx.Logger()).Warn().
					Int64("user_id", userID).
					Msg("setup: unknown user")
			}
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondData(w, r, SetupResponse{
			Status: StatusSuccess,
			User:   newUserView(updated),
		})
	}
}
