// Package session tracks the single authenticated user and gates privileged
// operations behind authentication and terms-of-service acceptance.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"social-service/internal/domain/entities"
	"social-service/internal/domain/errs"
	"social-service/internal/storage"
	"social-service/internal/store"
)

type State int

const (
	LoggedOut State = iota
	// PendingTOS is logged in but blocked until the user accepts or
	// declines the terms of service.
	PendingTOS
	Active
)

func (s State) String() string {
	switch s {
	case PendingTOS:
		return "pending-tos"
	case Active:
		return "active"
	default:
		return "logged-out"
	}
}

type Session struct {
	blobs  storage.BlobStore
	signer *TokenSigner
	log    *zap.Logger

	user  *entities.User
	state State
}

func New(blobs storage.BlobStore, signer *TokenSigner, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{blobs: blobs, signer: signer, log: log}
}

func (s *Session) Current() *entities.User { return s.user }

func (s *Session) State() State { return s.state }

// Login authenticates against the store and persists a signed session
// snapshot. A user who has not accepted the terms lands in PendingTOS.
func (s *Session) Login(ctx context.Context, st *store.Store, username, password string) (*entities.User, error) {
	user, err := st.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	s.establish(ctx, user)
	return user, nil
}

// Establish starts a session for an already-authenticated user, e.g. the
// auto-login right after registration.
func (s *Session) Establish(ctx context.Context, user *entities.User) {
	s.establish(ctx, user)
}

func (s *Session) establish(ctx context.Context, user *entities.User) {
	s.user = user
	if user.TOSAccepted {
		s.state = Active
	} else {
		s.state = PendingTOS
	}
	token, err := s.signer.Sign(user.ID)
	if err != nil {
		s.log.Error("session snapshot sign failed", zap.Error(err))
		return
	}
	if err := s.blobs.Put(ctx, storage.KeyCurrentUser, []byte(token)); err != nil {
		s.log.Error("session snapshot write failed", zap.Error(err))
	}
	s.log.Info("session established",
		zap.Int("user", user.ID), zap.Stringer("state", s.state))
}

func (s *Session) Logout(ctx context.Context) {
	s.user = nil
	s.state = LoggedOut
	if err := s.blobs.Delete(ctx, storage.KeyCurrentUser); err != nil {
		s.log.Error("session snapshot delete failed", zap.Error(err))
	}
}

// RequireAuth returns the current user, or the gating error for the current
// state: ErrUnauthenticated when logged out, ErrTOSRequired while the terms
// are pending.
func (s *Session) RequireAuth() (*entities.User, error) {
	switch s.state {
	case Active:
		return s.user, nil
	case PendingTOS:
		return nil, errs.ErrTOSRequired
	default:
		return nil, errs.ErrUnauthenticated
	}
}

// Restore re-establishes a persisted session on startup. Any defect in the
// snapshot (unreadable, bad signature, unknown user) clears it silently and
// leaves the session logged out.
func (s *Session) Restore(ctx context.Context, st *store.Store) {
	data, err := s.blobs.Get(ctx, storage.KeyCurrentUser)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("session snapshot read failed", zap.Error(err))
		return
	}
	userID, err := s.signer.Parse(string(data))
	if err != nil {
		s.log.Warn("discarding invalid session snapshot")
		s.Logout(ctx)
		return
	}
	user := st.UserByID(userID)
	if user == nil {
		s.log.Warn("discarding session snapshot for unknown user", zap.Int("user", userID))
		s.Logout(ctx)
		return
	}
	s.user = user
	if user.TOSAccepted {
		s.state = Active
	} else {
		s.state = PendingTOS
	}
	s.log.Info("session restored",
		zap.Int("user", user.ID), zap.Stringer("state", s.state))
}

// AcceptTOS records acceptance and activates the session.
func (s *Session) AcceptTOS(ctx context.Context, st *store.Store) error {
	if s.user == nil {
		return errs.ErrUnauthenticated
	}
	st.AcceptTOS(ctx, s.user)
	s.state = Active
	return nil
}

// DeclineTOS logs the user out; the terms flags on the record are left as
// they were.
func (s *Session) DeclineTOS(ctx context.Context) error {
	if s.user == nil {
		return errs.ErrUnauthenticated
	}
	s.log.Info("tos declined", zap.Int("user", s.user.ID))
	s.Logout(ctx)
	return nil
}
