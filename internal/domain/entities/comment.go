package entities

import "time"

// Comment lives and dies with its post; deleting the post cascades.
type Comment struct {
	ID           int       `json:"id"`
	PostID       int       `json:"postId"`
	Author       string    `json:"author"`
	AuthorID     int       `json:"authorId"`
	AuthorAvatar string    `json:"authorAvatar"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewComment(id int, author *User, postID int, text string) *Comment {
	return &Comment{
		ID:           id,
		PostID:       postID,
		Author:       author.Username,
		AuthorID:     author.ID,
		AuthorAvatar: author.Avatar,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}
}
