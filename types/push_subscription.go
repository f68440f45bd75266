package types

import (
	"net/url"
	"strings"
	"time"

	"github.com/koligo/koligo/validator"
)

type WebPushSubscription struct {
	UserID    string    `db:"user_id" json:"userID"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	Auth      string    `db:"auth" json:"auth"`
	P256dh    string    `db:"p256dh" json:"p256dh"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type AddWebPushSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		Auth   string `json:"auth"`
		P256dh string `json:"p256dh"`
	} `json:"keys"`

	userID string
}

func (in *AddWebPushSubscription) SetUserID(userID string) {
	in.userID = userID
}

func (in AddWebPushSubscription) UserID() string {
	return in.userID
}

func (in *AddWebPushSubscription) Validate() error {
	v := validator.New()

	in.Endpoint = strings.TrimSpace(in.Endpoint)
	if u, err := url.Parse(in.Endpoint); err != nil || u.Scheme != "https" || u.Host == "" {
		v.AddError("Endpoint", "Endpoint must be an https URL")
	}
	if in.Keys.Auth == "" {
		v.AddError("Keys.Auth", "Auth key is required")
	}
	if in.Keys.P256dh == "" {
		v.AddError("Keys.P256dh", "P256dh key is required")
	}

	return v.AsError()
}
