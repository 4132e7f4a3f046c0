// Demo: wires the configured storage backend to the store and session, then
// runs the register, login, TOS, post, like, follow, and comment flow end to
// end. Safe to re-run against the same data directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"social-service/internal/app"
	"social-service/internal/config"
	"social-service/internal/domain/entities"
	"social-service/internal/domain/errs"
	"social-service/internal/infrastructure"
	"social-service/internal/session"
	"social-service/internal/storage"
	"social-service/internal/store"
)

const demoImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	blobs, err := storage.Open(cfg)
	if err != nil {
		logger.Fatal("open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	ctx := context.Background()
	st := store.New(blobs, logger)
	st.Load(ctx)

	sess := session.New(blobs, session.NewTokenSigner(cfg.SessionSecret), logger)
	limiter := infrastructure.NewLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)
	svc := app.NewService(st, sess, limiter, logger)

	svc.Restore(ctx)
	if u := svc.CurrentUser(); u != nil {
		logger.Info("picked up previous session", zap.String("user", u.Username))
		svc.Logout(ctx)
	}

	if err := run(ctx, svc, logger); err != nil {
		logger.Fatal("demo failed", zap.Error(err))
	}
	logger.Info("demo finished")
}

func run(ctx context.Context, svc *app.Service, logger *zap.Logger) error {
	alice, err := signIn(ctx, svc, "alice", "alice@example.com", "hunter2!")
	if err != nil {
		return err
	}

	post, err := svc.CreatePost(ctx, app.CreatePostCommand{
		Title:       "Sunset over the bay",
		Description: "Caught this on the evening walk.",
		Tags:        []string{"sunset", "photography"},
		Image:       demoImage,
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	logger.Info("post created", zap.Int("id", post.ID))
	svc.Logout(ctx)

	if _, err := signIn(ctx, svc, "bob", "bob@example.com", "p4ssword"); err != nil {
		return err
	}
	liked, err := svc.ToggleLike(ctx, app.ToggleLikeCommand{PostID: post.ID})
	if err != nil {
		return fmt.Errorf("like: %w", err)
	}
	logger.Info("toggled like", zap.Bool("liked", liked), zap.Int("likes", post.Likes))

	if _, err := svc.ToggleFollow(ctx, app.ToggleFollowCommand{TargetUserID: alice.ID}); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if _, err := svc.AddComment(ctx, app.AddCommentCommand{PostID: post.ID, Text: "Gorgeous colors!"}); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	svc.Logout(ctx)

	if _, err := signIn(ctx, svc, "alice", "alice@example.com", "hunter2!"); err != nil {
		return err
	}
	unread, err := svc.UnreadNotifications()
	if err != nil {
		return err
	}
	logger.Info("unread notifications", zap.Int("count", unread))
	notifications, err := svc.Notifications()
	if err != nil {
		return err
	}
	for _, n := range notifications {
		logger.Info("notification", zap.String("type", n.Type), zap.String("message", n.Message))
	}
	if err := svc.MarkNotificationsRead(ctx); err != nil {
		return err
	}
	svc.Logout(ctx)
	return nil
}

// signIn logs in, registering the account first if it does not exist yet,
// and accepts the terms so privileged operations go through.
func signIn(ctx context.Context, svc *app.Service, username, email, password string) (*entities.User, error) {
	user, err := svc.Login(ctx, app.LoginCommand{Username: username, Password: password})
	if errors.Is(err, errs.ErrUserNotFound) {
		user, err = svc.Register(ctx, app.RegisterUserCommand{
			Username: username,
			Email:    email,
			Password: password,
			Pronouns: "they/them",
		})
	}
	if err != nil {
		return nil, fmt.Errorf("sign in %s: %w", username, err)
	}
	if svc.SessionState() == session.PendingTOS {
		if err := svc.AcceptTOS(ctx); err != nil {
			return nil, err
		}
	}
	return user, nil
}
