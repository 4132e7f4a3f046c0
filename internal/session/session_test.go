package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"social-service/internal/domain/entities"
	"social-service/internal/domain/errs"
	"social-service/internal/session"
	"social-service/internal/storage"
	"social-service/internal/store"
)

func newFixture(t *testing.T) (*session.Session, *store.Store, storage.BlobStore) {
	t.Helper()
	blobs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	st := store.New(blobs, logger)
	st.Load(context.Background())
	sess := session.New(blobs, session.NewTokenSigner("test-secret"), logger)
	return sess, st, blobs
}

func register(t *testing.T, st *store.Store, name string) *entities.User {
	t.Helper()
	user, err := st.RegisterUser(context.Background(), name, name+"@example.com", "p1", "", "")
	require.NoError(t, err)
	return user
}

func TestLoginStateMachine(t *testing.T) {
	sess, st, _ := newFixture(t)
	ctx := context.Background()
	register(t, st, "alice")

	assert.Equal(t, session.LoggedOut, sess.State())
	_, err := sess.RequireAuth()
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = sess.Login(ctx, st, "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Equal(t, session.LoggedOut, sess.State())

	user, err := sess.Login(ctx, st, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, session.PendingTOS, sess.State())

	// Privileged operations are gated until the terms are accepted.
	_, err = sess.RequireAuth()
	assert.ErrorIs(t, err, errs.ErrTOSRequired)

	require.NoError(t, sess.AcceptTOS(ctx, st))
	assert.Equal(t, session.Active, sess.State())
	assert.True(t, user.TOSAccepted)
	require.NotNil(t, user.TOSAcceptedAt)

	got, err := sess.RequireAuth()
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	sess.Logout(ctx)
	assert.Equal(t, session.LoggedOut, sess.State())
	assert.Nil(t, sess.Current())
}

func TestDeclineTOSLogsOut(t *testing.T) {
	sess, st, _ := newFixture(t)
	ctx := context.Background()
	user := register(t, st, "alice")

	_, err := sess.Login(ctx, st, "alice", "p1")
	require.NoError(t, err)
	require.Equal(t, session.PendingTOS, sess.State())

	require.NoError(t, sess.DeclineTOS(ctx))
	assert.Equal(t, session.LoggedOut, sess.State())
	assert.False(t, user.TOSAccepted)
}

func TestRestoreRoundTrip(t *testing.T) {
	sess, st, blobs := newFixture(t)
	ctx := context.Background()
	user := register(t, st, "alice")
	_, err := sess.Login(ctx, st, "alice", "p1")
	require.NoError(t, err)
	require.NoError(t, sess.AcceptTOS(ctx, st))

	// A fresh process restores the persisted session.
	restored := session.New(blobs, session.NewTokenSigner("test-secret"), zaptest.NewLogger(t))
	restored.Restore(ctx, st)
	require.NotNil(t, restored.Current())
	assert.Equal(t, user.ID, restored.Current().ID)
	assert.Equal(t, session.Active, restored.State())
}

func TestRestorePendingTOS(t *testing.T) {
	sess, st, blobs := newFixture(t)
	ctx := context.Background()
	register(t, st, "alice")
	_, err := sess.Login(ctx, st, "alice", "p1")
	require.NoError(t, err)

	restored := session.New(blobs, session.NewTokenSigner("test-secret"), zaptest.NewLogger(t))
	restored.Restore(ctx, st)
	assert.Equal(t, session.PendingTOS, restored.State())
	_, err = restored.RequireAuth()
	assert.ErrorIs(t, err, errs.ErrTOSRequired)
}

func TestRestoreWithNoSnapshot(t *testing.T) {
	sess, st, _ := newFixture(t)
	sess.Restore(context.Background(), st)
	assert.Equal(t, session.LoggedOut, sess.State())
}

func TestRestoreDiscardsTamperedSnapshot(t *testing.T) {
	sess, st, blobs := newFixture(t)
	ctx := context.Background()
	require.NoError(t, blobs.Put(ctx, storage.KeyCurrentUser, []byte("garbage")))

	sess.Restore(ctx, st)
	assert.Equal(t, session.LoggedOut, sess.State())

	// The bad snapshot is cleared, not kept around.
	_, err := blobs.Get(ctx, storage.KeyCurrentUser)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestRestoreRejectsForeignSignature(t *testing.T) {
	sess, st, blobs := newFixture(t)
	ctx := context.Background()
	user := register(t, st, "alice")

	foreign := session.NewTokenSigner("other-secret")
	token, err := foreign.Sign(user.ID)
	require.NoError(t, err)
	require.NoError(t, blobs.Put(ctx, storage.KeyCurrentUser, []byte(token)))

	sess.Restore(ctx, st)
	assert.Equal(t, session.LoggedOut, sess.State())
}

func TestRestoreDiscardsUnknownUser(t *testing.T) {
	sess, st, blobs := newFixture(t)
	ctx := context.Background()

	signer := session.NewTokenSigner("test-secret")
	token, err := signer.Sign(9999)
	require.NoError(t, err)
	require.NoError(t, blobs.Put(ctx, storage.KeyCurrentUser, []byte(token)))

	sess.Restore(ctx, st)
	assert.Equal(t, session.LoggedOut, sess.State())
}

func TestTokenSignerRoundTrip(t *testing.T) {
	signer := session.NewTokenSigner("secret")
	token, err := signer.Sign(42)
	require.NoError(t, err)

	id, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = signer.Parse("not-a-token")
	assert.Error(t, err)
}
