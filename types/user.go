package types

import (
	"regexp"
	"strings"
	"time"

	"github.com/koligo/koligo/validator"
)

var reUsername = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,17}$`)

type User struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// DevLogin resolves an identity by username, creating the user if needed.
// Only meant for development setups where authentication is external.
type DevLogin struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func (in *DevLogin) Validate() error {
	v := validator.New()

	in.Username = strings.TrimSpace(in.Username)
	if in.Email != nil {
		*in.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if in.Username == "" {
		v.AddError("Username", "Username is required")
	} else if !reUsername.MatchString(in.Username) {
		v.AddError("Username", "Username is invalid")
	}

	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		v.AddError("Email", "Email is invalid")
	}

	return v.AsError()
}

type AuthOutput struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
