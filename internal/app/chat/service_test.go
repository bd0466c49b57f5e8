package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nickchat/internal/app/chat"
	"nickchat/internal/app/memstore"
	"nickchat/internal/app/user"
	"nickchat/internal/mocks"
	"nickchat/internal/pkg/errs"
)

func newService(t *testing.T) (*chat.Service, *memstore.Store, *mocks.StorageServiceMock) {
	t.Helper()
	store := memstore.New()
	photos := new(mocks.StorageServiceMock)
	t.Cleanup(func() { photos.AssertExpectations(t) })
	return chat.NewService(store, photos), store, photos
}

func pngPhoto() *chat.Photo {
	return &chat.Photo{
		FileName: "me.png",
		MimeType: "image/png",
		Size:     4,
		Body:     strings.NewReader("\x89PNG"),
	}
}

func TestSendFromUnknownNickNeedsProfile(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	res, cerr := svc.Send(ctx, "ana", "hi")
	require.Nil(t, cerr)
	assert.True(t, res.NeedProfile)
	assert.EqualValues(t, 1, res.UserID)

	u, err := store.GetUser(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.OriginalNick)
	assert.Equal(t, user.StateGhost, u.State)

	// The deferred text was not stored.
	history, cerr := svc.History(ctx)
	require.Nil(t, cerr)
	assert.Empty(t, history)
}

func TestResolveForSendIsIdempotent(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, created, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)
	assert.True(t, created)

	second, created, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestActivationScenario(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res, cerr := svc.Send(ctx, "ana", "hi")
	require.Nil(t, cerr)
	require.True(t, res.NeedProfile)

	u, cerr := svc.Setup(ctx, chat.SetupInput{UserID: res.UserID, DisplayName: "Ana"})
	require.Nil(t, cerr)
	assert.True(t, u.IsActive())
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Ana", *u.DisplayName)
	assert.Nil(t, u.AvatarURL)

	res, cerr = svc.Send(ctx, "ana", "hi")
	require.Nil(t, cerr)
	assert.False(t, res.NeedProfile)
	assert.Equal(t, "hi", res.Message.Text)
	assert.Equal(t, u.ID, res.Message.UserID)
	assert.Equal(t, "Ana", *res.Message.User.DisplayName)

	history, cerr := svc.History(ctx)
	require.Nil(t, cerr)
	require.Len(t, history, 1)
	assert.Equal(t, res.Message.ID, history[0].ID)
}

func TestSetupUnknownUser(t *testing.T) {
	svc, store, photos := newService(t)
	ctx := context.Background()

	_, cerr := svc.Setup(ctx, chat.SetupInput{UserID: 999, DisplayName: "Ghost", Photo: pngPhoto()})
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)

	// Nothing was stored or created.
	photos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	_, err := store.GetUser(ctx, 999)
	assert.ErrorIs(t, err, chat.ErrUserNotFound)
}

func TestCompleteSetupUnknownUser(t *testing.T) {
	svc, _, _ := newService(t)

	_, cerr := svc.CompleteSetup(context.Background(), 999, "Ghost", nil)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserNotFound, cerr.Code)
}

func TestSetupWithPhotoStoresReference(t *testing.T) {
	svc, _, photos := newService(t)
	ctx := context.Background()

	ghost, _, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)

	photos.On("Save", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".png")
	}), "image/png", int64(4), mock.Anything).Return("/uploads/new.png", nil).Once()

	u, cerr := svc.Setup(ctx, chat.SetupInput{UserID: ghost.ID, DisplayName: "  Ana  ", Photo: pngPhoto()})
	require.Nil(t, cerr)
	assert.Equal(t, "Ana", *u.DisplayName)
	assert.Equal(t, "/uploads/new.png", u.AvatarRef())
}

type failingActivateStore struct {
	*memstore.Store
}

func (failingActivateStore) ActivateUser(context.Context, int64, string, *string) (user.User, error) {
	return user.User{}, errors.New("connection reset")
}

func TestSetupFailureRemovesStoredPhoto(t *testing.T) {
	inner := memstore.New()
	photos := new(mocks.StorageServiceMock)
	svc := chat.NewService(failingActivateStore{inner}, photos)
	ctx := context.Background()

	ghost, _, err := inner.FindOrCreateUser(ctx, "ana")
	require.NoError(t, err)

	photos.On("Save", mock.Anything, mock.Anything, "image/png", int64(4), mock.Anything).Return("/uploads/orphan.png", nil).Once()
	photos.On("Delete", mock.Anything, "/uploads/orphan.png").Return(nil).Once()

	_, cerr := svc.Setup(ctx, chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: pngPhoto()})
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrStoreFailed, cerr.Code)

	photos.AssertExpectations(t)

	u, err := inner.GetUser(ctx, ghost.ID)
	require.NoError(t, err)
	assert.False(t, u.IsActive())
}

func TestSetupStorageFailure(t *testing.T) {
	svc, store, photos := newService(t)
	ctx := context.Background()

	ghost, _, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)

	photos.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full")).Once()

	_, cerr = svc.Setup(ctx, chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: pngPhoto()})
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrFileStorageFailed, cerr.Code)

	u, err := store.GetUser(ctx, ghost.ID)
	require.NoError(t, err)
	assert.False(t, u.IsActive())
}

func TestResetupReplacesAndRemovesOldPhoto(t *testing.T) {
	svc, _, photos := newService(t)
	ctx := context.Background()

	ghost, _, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)

	photos.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("/uploads/first.png", nil).Once()
	_, cerr = svc.Setup(ctx, chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: pngPhoto()})
	require.Nil(t, cerr)

	photos.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("/uploads/second.png", nil).Once()
	photos.On("Delete", mock.Anything, "/uploads/first.png").Return(nil).Once()

	u, cerr := svc.Setup(ctx, chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana B.", Photo: pngPhoto()})
	require.Nil(t, cerr)
	assert.Equal(t, "Ana B.", *u.DisplayName)
	assert.Equal(t, "/uploads/second.png", u.AvatarRef())
	assert.True(t, u.IsActive())

	svc.Wait()
}

func TestSendValidation(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		nick string
		text string
		code int
	}{
		{"empty nick", "  ", "hi", errs.ErrInvalidNick},
		{"long nick", strings.Repeat("n", chat.MaxNickLength+1), "hi", errs.ErrInvalidNick},
		{"empty text", "ana", " \n", errs.ErrMessageContentEmpty},
		{"long text", "ana", strings.Repeat("x", chat.MaxMessageLength+1), errs.ErrMessageContentTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, cerr := svc.Send(ctx, tc.nick, tc.text)
			require.NotNil(t, cerr)
			assert.Equal(t, tc.code, cerr.Code)
		})
	}

	// Rejected requests never create users.
	_, created, err := store.FindOrCreateUser(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSetupValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	ghost, _, cerr := svc.ResolveForSend(ctx, "ana")
	require.Nil(t, cerr)

	cases := []struct {
		name  string
		input chat.SetupInput
		code  int
	}{
		{"no user id", chat.SetupInput{DisplayName: "Ana"}, errs.ErrInvalidParams},
		{"blank name", chat.SetupInput{UserID: ghost.ID, DisplayName: " "}, errs.ErrInvalidDisplayName},
		{"long name", chat.SetupInput{UserID: ghost.ID, DisplayName: strings.Repeat("a", chat.MaxDisplayNameLength+1)}, errs.ErrInvalidDisplayName},
		{"wrong type", chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: &chat.Photo{FileName: "cv.pdf", MimeType: "application/pdf", Size: 10}}, errs.ErrPhotoTypeInvalid},
		{"mismatched extension", chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: &chat.Photo{FileName: "me.png", MimeType: "image/jpeg", Size: 10}}, errs.ErrPhotoTypeInvalid},
		{"too large", chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: &chat.Photo{FileName: "me.png", MimeType: "image/png", Size: chat.MaxPhotoSize + 1}}, errs.ErrPhotoTooLarge},
		{"empty photo", chat.SetupInput{UserID: ghost.ID, DisplayName: "Ana", Photo: &chat.Photo{FileName: "me.png", MimeType: "image/png"}}, errs.ErrInvalidParams},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, cerr := svc.Setup(ctx, tc.input)
			require.NotNil(t, cerr)
			assert.Equal(t, tc.code, cerr.Code)
		})
	}
}

type brokenStore struct {
	*memstore.Store
}

func (brokenStore) FindOrCreateUser(context.Context, string) (user.User, bool, error) {
	return user.User{}, false, errors.New("connection refused")
}

func (brokenStore) ListMessages(context.Context) ([]chat.Message, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailuresSurfaceAsStoreErrors(t *testing.T) {
	svc := chat.NewService(brokenStore{memstore.New()}, nil)
	ctx := context.Background()

	_, cerr := svc.Send(ctx, "ana", "hi")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrStoreFailed, cerr.Code)

	_, cerr = svc.History(ctx)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrStoreFailed, cerr.Code)
}

type conflictStore struct {
	*memstore.Store
}

func (conflictStore) FindOrCreateUser(context.Context, string) (user.User, bool, error) {
	return user.User{}, false, chat.ErrNickConflict
}

func TestNickConflictSurfacesAsConflict(t *testing.T) {
	svc := chat.NewService(conflictStore{memstore.New()}, nil)

	_, cerr := svc.Send(context.Background(), "ana", "hi")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrNickConflict, cerr.Code)
}

func TestHistoryOnEmptyLogIsEmptySlice(t *testing.T) {
	svc, _, _ := newService(t)

	history, cerr := svc.History(context.Background())
	require.Nil(t, cerr)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
