package entities

import (
	"strings"
	"time"
)

// Post is an image upload. Author and AuthorAvatar are snapshots taken at
// creation time; AuthorID is the authoritative reference. Snapshots are not
// reconciled when the author later edits their profile.
type Post struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	Image        string    `json:"image"`
	Author       string    `json:"author"`
	AuthorID     int       `json:"authorId"`
	AuthorAvatar string    `json:"authorAvatar"`
	Likes        int       `json:"likes"`
	LikedBy      []int     `json:"likedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewPost(id int, author *User, title, description string, tags []string, image string) *Post {
	if tags == nil {
		tags = make([]string, 0)
	}
	return &Post{
		ID:           id,
		Title:        title,
		Description:  description,
		Tags:         tags,
		Image:        image,
		Author:       author.Username,
		AuthorID:     author.ID,
		AuthorAvatar: author.Avatar,
		LikedBy:      make([]int, 0),
		CreatedAt:    time.Now().UTC(),
	}
}

func (p *Post) LikedByUser(userID int) bool {
	return containsID(p.LikedBy, userID)
}

// ToggleLike adds or removes a like and reports whether the post is liked
// afterwards. Likes always equals len(LikedBy).
func (p *Post) ToggleLike(userID int) bool {
	if p.LikedByUser(userID) {
		p.LikedBy = removeID(p.LikedBy, userID)
		p.Likes--
		return false
	}
	p.LikedBy = append(p.LikedBy, userID)
	p.Likes++
	return true
}

// Matches reports whether the post shows up for a search query.
// The query must already be lowercased.
func (p *Post) Matches(query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Author), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
