/*
Package chat implements the nickname chat: the activation gate in front of
sending, profile setup, and the append-only message log.

This file defines the Service, which owns the ghost-to-active transition and
appends to the log only on behalf of active users.
*/
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nickchat/internal/app/storage"
	"nickchat/internal/app/user"
	"nickchat/internal/pkg/errs"
	"nickchat/internal/pkg/logx"
	"nickchat/internal/pkg/metrics"
	"nickchat/internal/pkg/randx"
)

// cleanupTimeout bounds best-effort removal of stored photos.
const cleanupTimeout = 10 * time.Second

// Photo is an uploaded profile picture awaiting storage.
type Photo struct {
	FileName string
	MimeType string
	Size     int64
	Body     io.Reader
}

// SetupInput carries the fields of a profile setup request.
type SetupInput struct {
	UserID      int64
	DisplayName string

	// Photo is nil when the client sent none.
	Photo *Photo
}

// SendResult is the outcome of Send. Exactly one of the two shapes is set:
// NeedProfile with UserID, or a stored Message.
type SendResult struct {
	NeedProfile bool
	UserID      int64
	Message     Message
}

// Service coordinates the store and the photo storage for the three chat operations.
type Service struct {
	store   Store
	photos  storage.StorageService
	logger  zerolog.Logger
	cleanup sync.WaitGroup
}

// NewService constructs a Service. photos may be nil, in which case setups
// that carry a photo fail with ErrFileStorageFailed.
func NewService(store Store, photos storage.StorageService) *Service {
	return &Service{
		store:  store,
		photos: photos,
		logger: logx.Component("ChatService"),
	}
}

func (s *Service) log(ctx context.Context) *zerolog.Logger {
	return logx.FromContext(ctx, &s.logger)
}

// ResolveForSend finds the user owning nick or creates it as a Ghost.
// created reports whether this call created the user.
func (s *Service) ResolveForSend(ctx context.Context, nick string) (user.User, bool, *errs.CustomError) {
	u, created, err := s.store.FindOrCreateUser(ctx, nick)
	if err != nil {
		if errors.Is(err, ErrNickConflict) {
			s.log(ctx).Warn().Str("nick", nick).Msg("Concurrent first contact for nickname")
			return user.User{}, false, errs.NewError(errs.ErrNickConflict)
		}
		return user.User{}, false, errs.NewError(errs.ErrStoreFailed, fmt.Errorf("find or create user %q: %w", nick, err))
	}

	if created {
		metrics.IncGhostCreated()
		s.log(ctx).Info().Int64("user_id", u.ID).Str("nick", nick).Msg("Ghost user created")
	}

	return u, created, nil
}

// CompleteSetup activates the user, overwriting display name and avatar.
// Calling it again on an active user is allowed.
func (s *Service) CompleteSetup(ctx context.Context, userID int64, displayName string, avatarURL *string) (user.User, *errs.CustomError) {
	u, err := s.store.ActivateUser(ctx, userID, displayName, avatarURL)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return user.User{}, errs.NewError(errs.ErrUserNotFound)
		}
		return user.User{}, errs.NewError(errs.ErrStoreFailed, fmt.Errorf("activate user %d: %w", userID, err))
	}

	return u, nil
}

// Send stores text on behalf of nick when the user is active. Otherwise it
// reports NeedProfile and drops the text; the client resubmits after setup.
func (s *Service) Send(ctx context.Context, nick, text string) (SendResult, *errs.CustomError) {
	nick, cerr := NormalizeNick(nick)
	if cerr != nil {
		return SendResult{}, cerr
	}

	if cerr := ValidateText(text); cerr != nil {
		return SendResult{}, cerr
	}

	u, _, cerr := s.ResolveForSend(ctx, nick)
	if cerr != nil {
		metrics.IncSend(metrics.OutcomeError)
		return SendResult{}, cerr
	}

	if !u.CanAcceptMessage() {
		metrics.IncSend(metrics.OutcomeNeedProfile)
		return SendResult{NeedProfile: true, UserID: u.ID}, nil
	}

	msg, err := s.store.InsertMessage(ctx, u.ID, text)
	if err != nil {
		if errors.Is(err, ErrUserNotActive) {
			metrics.IncSend(metrics.OutcomeNeedProfile)
			return SendResult{NeedProfile: true, UserID: u.ID}, nil
		}
		metrics.IncSend(metrics.OutcomeError)
		return SendResult{}, errs.NewError(errs.ErrStoreFailed, fmt.Errorf("insert message for user %d: %w", u.ID, err))
	}

	metrics.IncSend(metrics.OutcomeSent)
	s.log(ctx).Debug().Int64("user_id", u.ID).Int64("message_id", msg.ID).Msg("Message stored")

	return SendResult{UserID: u.ID, Message: msg}, nil
}

// Setup validates the input, stores the optional photo and activates the user.
//
// The photo is written before the user row is updated. If the update then
// fails the new file is removed on a best-effort basis. A previous photo that
// is replaced is removed in the background.
func (s *Service) Setup(ctx context.Context, in SetupInput) (user.User, *errs.CustomError) {
	if in.UserID <= 0 {
		return user.User{}, errs.NewError(errs.ErrInvalidParams)
	}

	displayName, cerr := NormalizeDisplayName(in.DisplayName)
	if cerr != nil {
		return user.User{}, cerr
	}

	var ext string
	if in.Photo != nil {
		if cerr := ValidatePhotoSize(in.Photo.Size); cerr != nil {
			return user.User{}, cerr
		}
		if ext, cerr = ValidatePhotoType(in.Photo.FileName, in.Photo.MimeType); cerr != nil {
			return user.User{}, cerr
		}
	}

	previous, err := s.store.GetUser(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return user.User{}, errs.NewError(errs.ErrUserNotFound)
		}
		return user.User{}, errs.NewError(errs.ErrStoreFailed, fmt.Errorf("load user %d: %w", in.UserID, err))
	}

	var avatarURL *string
	if in.Photo != nil {
		ref, cerr := s.storePhoto(ctx, in.Photo, ext)
		if cerr != nil {
			return user.User{}, cerr
		}
		avatarURL = &ref
	}

	updated, cerr := s.CompleteSetup(ctx, in.UserID, displayName, avatarURL)
	if cerr != nil {
		if avatarURL != nil {
			s.removePhoto(ctx, *avatarURL)
		}
		return user.User{}, cerr
	}

	if old := previous.AvatarRef(); old != "" && old != updated.AvatarRef() {
		s.cleanup.Add(1)
		go func() {
			defer s.cleanup.Done()
			s.removePhoto(context.WithoutCancel(ctx), old)
		}()
	}

	metrics.IncActivation(avatarURL != nil)
	s.log(ctx).Info().
		Int64("user_id", updated.ID).
		Str("previous_state", previous.State.String()).
		Bool("photo", avatarURL != nil).
		Msg("Profile setup completed")

	return updated, nil
}

// History returns the whole message log, oldest first.
func (s *Service) History(ctx context.Context) ([]Message, *errs.CustomError) {
	messages, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, errs.NewError(errs.ErrStoreFailed, fmt.Errorf("list messages: %w", err))
	}

	if messages == nil {
		messages = []Message{}
	}

	return messages, nil
}

// Wait blocks until background photo cleanups have finished.
func (s *Service) Wait() {
	s.cleanup.Wait()
}

func (s *Service) storePhoto(ctx context.Context, p *Photo, ext string) (string, *errs.CustomError) {
	if s.photos == nil {
		return "", errs.NewError(errs.ErrFileStorageFailed, errors.New("photo storage is not configured"))
	}

	name, err := randx.PhotoName(ext)
	if err != nil {
		return "", errs.NewError(errs.ErrFileStorageFailed, err)
	}

	ref, err := s.photos.Save(ctx, name, p.MimeType, p.Size, p.Body)
	if err != nil {
		return "", errs.NewError(errs.ErrFileStorageFailed, fmt.Errorf("save photo %s: %w", name, err))
	}

	return ref, nil
}

// removePhoto deletes a stored photo. Failure leaves an orphaned file, which is logged and counted.
func (s *Service) removePhoto(ctx context.Context, ref string) {
	if s.photos == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.photos.Delete(ctx, ref); err != nil {
		metrics.IncOrphanedFile()
		s.log(ctx).Warn().Err(err).Str("avatar_url", ref).Msg("Failed to remove stored photo")
	}
}
