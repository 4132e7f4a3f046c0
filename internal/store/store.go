// Package store holds the single source of truth: all entity collections,
// the shared identifier sequence, and the load/migrate/save cycle against
// the storage collaborator.
//
// A Store serves one interactive session and is not safe for concurrent use.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"social-service/internal/domain/entities"
	"social-service/internal/domain/errs"
	"social-service/internal/storage"
)

type Store struct {
	blobs storage.BlobStore
	log   *zap.Logger

	users         []*entities.User
	posts         []*entities.Post
	comments      []*entities.Comment
	notifications []*entities.Notification

	// nextID is shared across all four entity kinds so identifiers are
	// unique process-wide. Recomputed on load as max existing id + 1.
	nextID int
}

func New(blobs storage.BlobStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{blobs: blobs, log: log}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = make([]*entities.User, 0)
	s.posts = make([]*entities.Post, 0)
	s.comments = make([]*entities.Comment, 0)
	s.notifications = make([]*entities.Notification, 0)
	s.nextID = 1
}

// Load reads the persisted collections. Any read or decode failure resets
// every collection to empty and continues; corruption never crashes the
// process. Legacy user records are migrated and re-saved.
func (s *Store) Load(ctx context.Context) {
	s.reset()
	ok := s.loadInto(ctx, storage.KeyUsers, &s.users)
	ok = ok && s.loadInto(ctx, storage.KeyPosts, &s.posts)
	ok = ok && s.loadInto(ctx, storage.KeyComments, &s.comments)
	ok = ok && s.loadInto(ctx, storage.KeyNotifications, &s.notifications)
	if !ok {
		s.log.Warn("load failed, resetting all collections")
		s.reset()
		return
	}
	if s.migrateUsers() {
		s.log.Info("migrated legacy user records")
		s.persist(ctx)
	}
	s.recomputeNextID()
	s.log.Info("loaded collections",
		zap.Int("users", len(s.users)),
		zap.Int("posts", len(s.posts)),
		zap.Int("comments", len(s.comments)),
		zap.Int("notifications", len(s.notifications)),
		zap.Int("nextId", s.nextID))
}

func (s *Store) loadInto(ctx context.Context, key string, dst any) bool {
	data, err := s.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return true
	}
	if err != nil {
		s.log.Error("blob read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Error("blob corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// migrateUsers backfills fields added after the first schema: records
// persisted before the follow feature decode with nil slices. A missing
// tosAccepted decodes straight to the migrated default (false, no timestamp).
func (s *Store) migrateUsers() bool {
	changed := false
	for _, u := range s.users {
		if u.Posts == nil {
			u.Posts = make([]int, 0)
			changed = true
		}
		if u.Following == nil {
			u.Following = make([]int, 0)
			changed = true
		}
		if u.Followers == nil {
			u.Followers = make([]int, 0)
			changed = true
		}
	}
	return changed
}

func (s *Store) recomputeNextID() {
	maxID := 0
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	for _, p := range s.posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	for _, c := range s.comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	for _, n := range s.notifications {
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	s.nextID = maxID + 1
}

// Save writes all four collections. A failed write is reported but does not
// roll back in-memory state; the next mutation tries again.
func (s *Store) Save(ctx context.Context) error {
	var firstErr error
	collections := []struct {
		key   string
		value any
	}{
		{storage.KeyUsers, s.users},
		{storage.KeyPosts, s.posts},
		{storage.KeyComments, s.comments},
		{storage.KeyNotifications, s.notifications},
	}
	for _, c := range collections {
		data, err := json.Marshal(c.value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", c.key, err)
		}
		if err := s.blobs.Put(ctx, c.key, data); err != nil {
			perr := &errs.PersistenceError{Op: "write", Key: c.key, Err: err}
			s.log.Error("blob write failed", zap.Error(perr))
			if firstErr == nil {
				firstErr = perr
			}
		}
	}
	return firstErr
}

// persist is the write-through step of every mutating operation. Errors are
// already logged by Save and deliberately swallowed.
func (s *Store) persist(ctx context.Context) {
	_ = s.Save(ctx)
}

func (s *Store) takeID() int {
	id := s.nextID
	s.nextID++
	return id
}

// RegisterUser creates a user with a fresh identifier and a bcrypt-hashed
// password. Username and email collisions are checked case-insensitively.
func (s *Store) RegisterUser(ctx context.Context, username, email, password, pronouns, bio string) (*entities.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errs.ErrValidation
	}
	if s.UserByUsername(username) != nil {
		return nil, errs.ErrDuplicateUsername
	}
	if s.userByEmail(email) != nil {
		return nil, errs.ErrDuplicateEmail
	}
	user := entities.NewUser(s.takeID(), username, email, pronouns, bio)
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	s.users = append(s.users, user)
	s.persist(ctx)
	s.log.Info("user registered", zap.Int("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate looks the user up case-insensitively and verifies the
// password against the stored hash.
func (s *Store) Authenticate(username, password string) (*entities.User, error) {
	user := s.UserByUsername(username)
	if user == nil {
		return nil, errs.ErrUserNotFound
	}
	if err := user.CheckPassword(password); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Store) CreatePost(ctx context.Context, author *entities.User, title, description string, tags []string, image string) (*entities.Post, error) {
	if title == "" || description == "" || image == "" {
		return nil, errs.ErrValidation
	}
	post := entities.NewPost(s.takeID(), author, title, description, tags, image)
	s.posts = append(s.posts, post)
	author.AddPost(post.ID)
	s.persist(ctx)
	s.log.Info("post created", zap.Int("id", post.ID), zap.String("author", author.Username))
	return post, nil
}

// DeletePost removes a post the requester owns and cascades deletion of its
// comments.
func (s *Store) DeletePost(ctx context.Context, requester *entities.User, postID int) error {
	post := s.PostByID(postID)
	if post == nil {
		return errs.ErrNotFound
	}
	if post.AuthorID != requester.ID {
		return errs.ErrForbidden
	}
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	if author := s.UserByID(post.AuthorID); author != nil {
		author.RemovePost(postID)
	}
	remaining := s.comments[:0]
	for _, c := range s.comments {
		if c.PostID != postID {
			remaining = append(remaining, c)
		}
	}
	s.comments = remaining
	s.persist(ctx)
	s.log.Info("post deleted", zap.Int("id", postID))
	return nil
}

// ToggleLike likes the post if the user has not liked it, otherwise removes
// the like. A notification goes to the author on new likes only, and never
// for self-likes.
func (s *Store) ToggleLike(ctx context.Context, user *entities.User, postID int) (bool, error) {
	post := s.PostByID(postID)
	if post == nil {
		return false, errs.ErrNotFound
	}
	liked := post.ToggleLike(user.ID)
	if liked && user.ID != post.AuthorID && s.UserByID(post.AuthorID) != nil {
		s.notify(entities.NotificationLike,
			fmt.Sprintf("%s liked your post", user.Username), user.ID, post.AuthorID)
	}
	s.persist(ctx)
	return liked, nil
}

// ToggleFollow follows the target if not already followed, otherwise
// unfollows. Self-follow is rejected. Only a new follow notifies the target.
func (s *Store) ToggleFollow(ctx context.Context, user *entities.User, targetUserID int) (bool, error) {
	if targetUserID == user.ID {
		return false, errs.ErrSelfFollow
	}
	target := s.UserByID(targetUserID)
	if target == nil {
		return false, errs.ErrNotFound
	}
	var following bool
	if user.IsFollowing(targetUserID) {
		user.Unfollow(target)
	} else {
		user.Follow(target)
		following = true
		s.notify(entities.NotificationFollow,
			fmt.Sprintf("%s started following you", user.Username), user.ID, targetUserID)
	}
	s.persist(ctx)
	return following, nil
}

func (s *Store) AddComment(ctx context.Context, user *entities.User, postID int, text string) (*entities.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.ErrValidation
	}
	post := s.PostByID(postID)
	if post == nil {
		return nil, errs.ErrNotFound
	}
	comment := entities.NewComment(s.takeID(), user, postID, text)
	s.comments = append(s.comments, comment)
	if user.ID != post.AuthorID && s.UserByID(post.AuthorID) != nil {
		s.notify(entities.NotificationComment,
			fmt.Sprintf("%s commented on your post", user.Username), user.ID, post.AuthorID)
	}
	s.persist(ctx)
	return comment, nil
}

// ProfileUpdate carries the editable profile fields. A nil Avatar leaves the
// current avatar untouched.
type ProfileUpdate struct {
	Username string
	Email    string
	Pronouns string
	Bio      string
	Avatar   *string
}

// UpdateProfile applies the update to the canonical user record. Historical
// posts and comments keep their author snapshots as created.
func (s *Store) UpdateProfile(ctx context.Context, user *entities.User, upd ProfileUpdate) error {
	if upd.Username == "" || upd.Email == "" {
		return errs.ErrValidation
	}
	if other := s.UserByUsername(upd.Username); other != nil && other.ID != user.ID {
		return errs.ErrDuplicateUsername
	}
	if other := s.userByEmail(upd.Email); other != nil && other.ID != user.ID {
		return errs.ErrDuplicateEmail
	}
	user.Username = upd.Username
	user.Email = upd.Email
	user.Pronouns = upd.Pronouns
	user.Bio = upd.Bio
	if upd.Avatar != nil {
		user.Avatar = *upd.Avatar
	}
	s.persist(ctx)
	return nil
}

func (s *Store) AcceptTOS(ctx context.Context, user *entities.User) {
	user.AcceptTOS()
	s.persist(ctx)
	s.log.Info("tos accepted", zap.Int("user", user.ID))
}

func (s *Store) notify(kind, message string, actorID, targetUserID int) {
	n := entities.NewNotification(s.takeID(), kind, message, actorID, targetUserID)
	s.notifications = append(s.notifications, n)
}

func (s *Store) UserByID(id int) *entities.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) UserByUsername(username string) *entities.User {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u
		}
	}
	return nil
}

func (s *Store) userByEmail(email string) *entities.User {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) PostByID(id int) *entities.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Feed returns all posts, newest first.
func (s *Store) Feed() []*entities.Post {
	out := make([]*entities.Post, len(s.posts))
	copy(out, s.posts)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) PostsByAuthor(userID int) []*entities.Post {
	var out []*entities.Post
	for _, p := range s.posts {
		if p.AuthorID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) CommentsForPost(postID int) []*entities.Comment {
	var out []*entities.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out
}

// TrendingPosts returns up to limit posts ordered by like count.
func (s *Store) TrendingPosts(limit int) []*entities.Post {
	out := make([]*entities.Post, len(s.posts))
	copy(out, s.posts)
	sort.Slice(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) SearchPosts(query string) []*entities.Post {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*entities.Post
	for _, p := range s.posts {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) SearchUsers(query string) []*entities.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*entities.User
	for _, u := range s.users {
		if u.Matches(query) {
			out = append(out, u)
		}
	}
	return out
}

// NotificationsFor returns a user's notifications, newest first.
func (s *Store) NotificationsFor(userID int) []*entities.Notification {
	var out []*entities.Notification
	for _, n := range s.notifications {
		if n.TargetUserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) UnreadCount(userID int) int {
	count := 0
	for _, n := range s.notifications {
		if n.TargetUserID == userID && !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) MarkNotificationsRead(ctx context.Context, userID int) {
	changed := false
	for _, n := range s.notifications {
		if n.TargetUserID == userID && !n.Read {
			n.Read = true
			changed = true
		}
	}
	if changed {
		s.persist(ctx)
	}
}

// Users exposes the collection for rendering and seeding. Callers must treat
// it as read-only.
func (s *Store) Users() []*entities.User { return s.users }

func (s *Store) Posts() []*entities.Post { return s.posts }

func (s *Store) Comments() []*entities.Comment { return s.comments }

func (s *Store) Notifications() []*entities.Notification { return s.notifications }
