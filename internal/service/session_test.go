package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

func newTestSessionService() (*SessionService, *mockStore) {
	store := new(mockStore)
	svc := NewSessionService(store, newTestLogger())
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestResolve(t *testing.T) {
	svc, _ := newTestSessionService()
	valid := uuid.NewString()

	id, generated := svc.Resolve(valid)
	assert.Equal(t, valid, id)
	assert.False(t, generated)

	for _, in := range []string{"", "   ", "not-a-uuid", "s1"} {
		id, generated := svc.Resolve(in)
		assert.True(t, generated, in)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.NotEqual(t, in, id)
	}
}

func TestTouch(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	store.On("TouchSession", ctx, "s1", map[string]string{"k": "v"}).Return(nil)

	assert.True(t, svc.Touch(ctx, "s1", map[string]string{"k": "v"}))
}

func TestTouch_FailureIsSwallowed(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	store.On("TouchSession", ctx, "s1", mock.Anything).Return(errStoreDown)

	assert.False(t, svc.Touch(ctx, "s1", nil))
}

func TestTouch_EmptySession(t *testing.T) {
	svc, store := newTestSessionService()

	assert.False(t, svc.Touch(context.Background(), "", nil))
	store.AssertNotCalled(t, "TouchSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_NewSession(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()

	var updates map[string]string
	store.On("TouchSession", ctx, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]string) }).
		Return(nil)

	id, persisted := svc.Start(ctx, "")

	assert.True(t, persisted)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		domain.FieldAgentInitialized: "true",
		domain.FieldCreatedAt:        "2026-04-01T08:00:00Z",
	}, updates)
	store.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestStart_KnownSessionIsOnlyRefreshed(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	id := uuid.NewString()

	store.On("GetSession", ctx, id).Return(&domain.Session{ID: id}, nil)
	store.On("TouchSession", ctx, id, map[string]string(nil)).Return(nil)

	got, persisted := svc.Start(ctx, id)

	assert.Equal(t, id, got)
	assert.True(t, persisted)
	store.AssertExpectations(t)
}

func TestStart_UnknownValidID(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	id := uuid.NewString()

	store.On("GetSession", ctx, id).Return(nil, apperrors.NotFound("session", id))
	store.On("TouchSession", ctx, id, mock.MatchedBy(func(m map[string]string) bool {
		return m[domain.FieldAgentInitialized] == "true"
	})).Return(nil)

	got, persisted := svc.Start(ctx, id)

	assert.Equal(t, id, got)
	assert.True(t, persisted)
	store.AssertExpectations(t)
}

func TestStart_StoreDown(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	store.On("TouchSession", ctx, mock.Anything, mock.Anything).Return(errStoreDown)

	id, persisted := svc.Start(ctx, "")

	assert.NotEmpty(t, id)
	assert.False(t, persisted)
}

func TestGet(t *testing.T) {
	svc, store := newTestSessionService()
	ctx := context.Background()
	sess := &domain.Session{ID: "s1"}
	store.On("GetSession", ctx, "s1").Return(sess, nil)

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingSession)
}
