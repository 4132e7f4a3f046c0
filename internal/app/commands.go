package app

// Command structs carry user intents from the presentation layer into the
// core; each maps to one named operation on the service.
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	Pronouns string
	Bio      string
}

type LoginCommand struct {
	Username string
	Password string
}

type CreatePostCommand struct {
	Title       string
	Description string
	Tags        []string
	Image       string
}

type DeletePostCommand struct {
	PostID int
}

type ToggleLikeCommand struct {
	PostID int
}

type ToggleFollowCommand struct {
	TargetUserID int
}

type AddCommentCommand struct {
	PostID int
	Text   string
}

type UpdateProfileCommand struct {
	Username string
	Email    string
	Pronouns string
	Bio      string
	// Avatar replaces the stored avatar only when non-nil.
	Avatar *string
}
