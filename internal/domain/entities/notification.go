package entities

import "time"

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
)

// Notification is created only as a side effect of a like, comment, or
// follow, and only when the actor is not the target.
type Notification struct {
	ID           int       `json:"id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	UserID       int       `json:"userId"`
	TargetUserID int       `json:"targetUserId"`
	CreatedAt    time.Time `json:"createdAt"`
	Read         bool      `json:"read"`
}

func NewNotification(id int, kind, message string, actorID, targetUserID int) *Notification {
	return &Notification{
		ID:           id,
		Type:         kind,
		Message:      message,
		UserID:       actorID,
		TargetUserID: targetUserID,
		CreatedAt:    time.Now().UTC(),
	}
}
