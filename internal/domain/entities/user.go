package entities

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PronounPresets are the options offered at registration. The field itself
// is free text; a custom value is passed through unchanged.
var PronounPresets = []string{"he/him", "she/her", "they/them", "he/they", "she/they", "any/all"}

type User struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"password"`
	Pronouns      string     `json:"pronouns"`
	Bio           string     `json:"bio"`
	Avatar        string     `json:"avatar"`
	CreatedAt     time.Time  `json:"createdAt"`
	TOSAccepted   bool       `json:"tosAccepted"`
	TOSAcceptedAt *time.Time `json:"tosAcceptedAt"`
	Posts         []int      `json:"posts"`
	Following     []int      `json:"following"`
	Followers     []int      `json:"followers"`
}

func NewUser(id int, username, email, pronouns, bio string) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Pronouns:  pronouns,
		Bio:       bio,
		CreatedAt: time.Now().UTC(),
		Posts:     make([]int, 0),
		Following: make([]int, 0),
		Followers: make([]int, 0),
	}
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares in constant time via bcrypt.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) AcceptTOS() {
	now := time.Now().UTC()
	u.TOSAccepted = true
	u.TOSAcceptedAt = &now
}

func (u *User) AddPost(postID int) {
	u.Posts = append(u.Posts, postID)
}

func (u *User) RemovePost(postID int) {
	u.Posts = removeID(u.Posts, postID)
}

func (u *User) IsFollowing(userID int) bool {
	return containsID(u.Following, userID)
}

// Follow records the relationship on both sides. The following/followers
// slices stay mutual inverses because nothing else writes them.
func (u *User) Follow(target *User) {
	if u.IsFollowing(target.ID) {
		return
	}
	u.Following = append(u.Following, target.ID)
	target.Followers = append(target.Followers, u.ID)
}

func (u *User) Unfollow(target *User) {
	u.Following = removeID(u.Following, target.ID)
	target.Followers = removeID(target.Followers, u.ID)
}

// Matches reports whether the user shows up for a search query.
// The query must already be lowercased.
func (u *User) Matches(query string) bool {
	return strings.Contains(strings.ToLower(u.Username), query) ||
		strings.Contains(strings.ToLower(u.Bio), query)
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
