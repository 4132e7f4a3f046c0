// Seed tool: populates a storage backend with randomized users, posts,
// comments, likes, and follows through the normal store operations, so every
// invariant (mutual follows, like counts, unique ids) holds in seeded data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"social-service/internal/config"
	"social-service/internal/domain/entities"
	"social-service/internal/storage"
	"social-service/internal/store"
)

const seedImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

var adjectives = []string{"golden", "quiet", "neon", "misty", "late", "wild"}
var subjects = []string{"harbor", "forest", "rooftop", "market", "coastline", "alley"}

func main() {
	var numUsers int
	var numPosts int
	var numComments int
	var numLikes int
	flag.IntVar(&numUsers, "users", 10, "number of users")
	flag.IntVar(&numPosts, "posts", 40, "number of posts")
	flag.IntVar(&numComments, "comments", 80, "number of comments")
	flag.IntVar(&numLikes, "likes", 120, "number of like toggles")
	flag.Parse()

	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	blobs, err := storage.Open(cfg)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}

	ctx := context.Background()
	st := store.New(blobs, logger)
	st.Load(ctx)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	if err := seed(ctx, st, r, numUsers, numPosts, numComments, numLikes); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seeded",
		zap.Int("users", len(st.Users())),
		zap.Int("posts", len(st.Posts())),
		zap.Int("comments", len(st.Comments())),
		zap.Duration("took", time.Since(start)))
}

func seed(ctx context.Context, st *store.Store, r *rand.Rand, numUsers, numPosts, numComments, numLikes int) error {
	users := make([]*entities.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		// Numbered past existing users so re-runs don't collide.
		name := fmt.Sprintf("seeduser%d", len(st.Users())+1)
		user, err := st.RegisterUser(ctx, name, name+"@example.com", "seedpassword",
			entities.PronounPresets[r.Intn(len(entities.PronounPresets))], "seeded account")
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		st.AcceptTOS(ctx, user)
		users = append(users, user)
	}

	posts := make([]*entities.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[r.Intn(len(users))]
		title := fmt.Sprintf("%s %s #%d",
			adjectives[r.Intn(len(adjectives))], subjects[r.Intn(len(subjects))], i+1)
		post, err := st.CreatePost(ctx, author, title, "seeded description",
			[]string{adjectives[r.Intn(len(adjectives))]}, seedImage)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}

	for i := 0; i < numComments; i++ {
		user := users[r.Intn(len(users))]
		post := posts[r.Intn(len(posts))]
		if _, err := st.AddComment(ctx, user, post.ID, "nice shot"); err != nil {
			return fmt.Errorf("comment: %w", err)
		}
	}

	for i := 0; i < numLikes; i++ {
		user := users[r.Intn(len(users))]
		post := posts[r.Intn(len(posts))]
		if _, err := st.ToggleLike(ctx, user, post.ID); err != nil {
			return fmt.Errorf("like: %w", err)
		}
	}

	// A few random follows; self-follows are skipped rather than retried.
	for i := 0; i < numUsers*2; i++ {
		user := users[r.Intn(len(users))]
		target := users[r.Intn(len(users))]
		if user.ID == target.ID {
			continue
		}
		if _, err := st.ToggleFollow(ctx, user, target.ID); err != nil {
			return fmt.Errorf("follow: %w", err)
		}
	}
	return nil
}
