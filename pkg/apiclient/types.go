package apiclient

import "time"

// User is an account as the server reports it. Auth responses carry only the
// id, username, and email; profile endpoints fill the remaining fields.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	FullName   string    `json:"full_name,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	DateJoined time.Time `json:"date_joined"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tokens is the credential pair issued on login and registration.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the success payload of login and register.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Tokens  Tokens `json:"tokens"`
}

// RegisterRequest is the payload for account creation. PasswordConfirm must
// match Password; the server enforces it as well.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched
// by the server.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Poll is the list representation of a poll.
type Poll struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Creator     string     `json:"creator"`
	IsPublic    bool       `json:"is_public"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	TotalVotes  int        `json:"total_votes"`
	IsActive    bool       `json:"is_active"`
	IsExpired   bool       `json:"is_expired"`
}

// PollDetail is the full representation, including options.
type PollDetail struct {
	Poll
	UpdatedAt time.Time    `json:"updated_at"`
	Options   []PollOption `json:"options"`
}

// PollOption is one votable choice with its current tally.
type PollOption struct {
	ID             int64   `json:"id"`
	Text           string  `json:"text"`
	VoteCount      int     `json:"vote_count"`
	VotePercentage float64 `json:"vote_percentage"`
}

// PollResults is the results view of a poll.
type PollResults struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TotalVotes  int          `json:"total_votes"`
	Options     []PollOption `json:"options"`
	IsActive    bool         `json:"is_active"`
}

// ShareInfo is the shareable link for a poll the caller owns.
type ShareInfo struct {
	PollID   int64  `json:"poll_id"`
	ShareURL string `json:"share_url"`
	Title    string `json:"title"`
}

// CreatePollRequest is the payload for creating or replacing a poll. Options
// must contain between 2 and 10 entries. A nil IsPublic defaults to public on
// the server.
type CreatePollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Options     []string   `json:"options"`
}

// CreatedPoll is the echo the server returns for create and update calls. It
// carries no ID; callers list their polls to pick up server-assigned IDs.
type CreatedPoll struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"is_public"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// PollStatus filters poll listings by lifecycle state.
type PollStatus string

const (
	// StatusActive selects polls still accepting votes.
	StatusActive PollStatus = "active"
	// StatusExpired selects polls past their expiry time.
	StatusExpired PollStatus = "expired"
)

// PollFilter narrows ListPolls. Zero values mean no filtering.
type PollFilter struct {
	// Search matches against title and description, case-insensitively.
	Search string
	// Status selects active or expired polls.
	Status PollStatus
}
