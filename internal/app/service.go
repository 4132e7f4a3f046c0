// Package app is the explicit command surface the presentation layer calls.
// The service enforces session and terms-of-service gating, then delegates
// to the store; it owns no state of its own.
package app

import (
	"context"

	"go.uber.org/zap"

	"social-service/internal/domain/entities"
	"social-service/internal/domain/errs"
	"social-service/internal/infrastructure"
	"social-service/internal/session"
	"social-service/internal/store"
)

type Service struct {
	store   *store.Store
	session *session.Session
	logins  *infrastructure.LoginLimiter
	log     *zap.Logger
}

func NewService(st *store.Store, sess *session.Session, logins *infrastructure.LoginLimiter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, session: sess, logins: logins, log: log}
}

// Register creates the account and auto-logs it in; the new session is
// pending terms acceptance.
func (s *Service) Register(ctx context.Context, cmd RegisterUserCommand) (*entities.User, error) {
	user, err := s.store.RegisterUser(ctx, cmd.Username, cmd.Email, cmd.Password, cmd.Pronouns, cmd.Bio)
	if err != nil {
		return nil, err
	}
	s.session.Establish(ctx, user)
	return user, nil
}

func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*entities.User, error) {
	if s.logins != nil && !s.logins.Allow(cmd.Username) {
		return nil, errs.ErrRateLimited
	}
	return s.session.Login(ctx, s.store, cmd.Username, cmd.Password)
}

func (s *Service) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// Restore picks up a persisted session on startup.
func (s *Service) Restore(ctx context.Context) {
	s.session.Restore(ctx, s.store)
}

func (s *Service) AcceptTOS(ctx context.Context) error {
	return s.session.AcceptTOS(ctx, s.store)
}

func (s *Service) DeclineTOS(ctx context.Context) error {
	return s.session.DeclineTOS(ctx)
}

func (s *Service) CurrentUser() *entities.User {
	return s.session.Current()
}

func (s *Service) SessionState() session.State {
	return s.session.State()
}

func (s *Service) CreatePost(ctx context.Context, cmd CreatePostCommand) (*entities.Post, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return nil, err
	}
	return s.store.CreatePost(ctx, user, cmd.Title, cmd.Description, cmd.Tags, cmd.Image)
}

func (s *Service) DeletePost(ctx context.Context, cmd DeletePostCommand) error {
	user, err := s.session.RequireAuth()
	if err != nil {
		return err
	}
	return s.store.DeletePost(ctx, user, cmd.PostID)
}

func (s *Service) ToggleLike(ctx context.Context, cmd ToggleLikeCommand) (bool, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return false, err
	}
	return s.store.ToggleLike(ctx, user, cmd.PostID)
}

func (s *Service) ToggleFollow(ctx context.Context, cmd ToggleFollowCommand) (bool, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return false, err
	}
	return s.store.ToggleFollow(ctx, user, cmd.TargetUserID)
}

func (s *Service) AddComment(ctx context.Context, cmd AddCommentCommand) (*entities.Comment, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return nil, err
	}
	return s.store.AddComment(ctx, user, cmd.PostID, cmd.Text)
}

func (s *Service) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) error {
	user, err := s.session.RequireAuth()
	if err != nil {
		return err
	}
	return s.store.UpdateProfile(ctx, user, store.ProfileUpdate{
		Username: cmd.Username,
		Email:    cmd.Email,
		Pronouns: cmd.Pronouns,
		Bio:      cmd.Bio,
		Avatar:   cmd.Avatar,
	})
}

// Notifications returns the current user's notifications, newest first.
func (s *Service) Notifications() ([]*entities.Notification, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return nil, err
	}
	return s.store.NotificationsFor(user.ID), nil
}

func (s *Service) UnreadNotifications() (int, error) {
	user, err := s.session.RequireAuth()
	if err != nil {
		return 0, err
	}
	return s.store.UnreadCount(user.ID), nil
}

func (s *Service) MarkNotificationsRead(ctx context.Context) error {
	user, err := s.session.RequireAuth()
	if err != nil {
		return err
	}
	s.store.MarkNotificationsRead(ctx, user.ID)
	return nil
}

// Browsing is open to everyone, logged in or not.

func (s *Service) Feed() []*entities.Post { return s.store.Feed() }

func (s *Service) TrendingPosts(limit int) []*entities.Post { return s.store.TrendingPosts(limit) }

func (s *Service) SearchPosts(query string) []*entities.Post { return s.store.SearchPosts(query) }

func (s *Service) SearchUsers(query string) []*entities.User { return s.store.SearchUsers(query) }

func (s *Service) PostsByAuthor(userID int) []*entities.Post { return s.store.PostsByAuthor(userID) }

func (s *Service) CommentsForPost(postID int) []*entities.Comment {
	return s.store.CommentsForPost(postID)
}
