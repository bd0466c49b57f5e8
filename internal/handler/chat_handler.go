/*
Package handler provides the HTTP handlers and routing setup for the chat server.
*/
package handler

import (
	"net/http"

	"nickchat/internal/pkg/req"
	"nickchat/internal/pkg/resp"
)

const (
	// ActionNeedProfile tells the client to show the profile popup before resubmitting.
	ActionNeedProfile = "NEED_PROFILE"

	StatusSent    = "SENT"
	StatusSuccess = "SUCCESS"
)

type SendInput struct {
	Nick string `json:"nick"`
	Text string `json:"text"`
}

type NeedProfileResponse struct {
	Action string `json:"action"`
	UserID int64  `json:"userId"`
}

type SentResponse struct {
	Status  string      `json:"status"`
	Message MessageView `json:"message"`
}

// HandleSend stores a message for an active user, or asks the client to
// complete the profile first. The text of a deferred message is dropped.
func HandleSend(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SendInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, customErr := deps.Chat.Send(r.Context(), input.Nick, input.Text)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if result.NeedProfile {
			resp.RespondData(w, r, NeedProfileResponse{
				Action: ActionNeedProfile,
				UserID: result.UserID,
			})
			return
		}

		resp.RespondData(w, r, SentResponse{
			Status:  StatusSent,
			Message: newMessageView(result.Message),
		})
	}
}

// HandleHistory returns every message, oldest first.
func HandleHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, customErr := deps.Chat.History(r.Context())
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		views := make([]MessageView, 0, len(messages))
		for _, m := range messages {
			views = append(views, newMessageView(m))
		}

		resp.RespondData(w, r, views)
	}
}
