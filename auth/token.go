package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/hako/branca"
	"github.com/nicolasparada/go-errs"
)

var ErrInvalidToken = errs.UnauthenticatedError("invalid token")

// Tokens issues and verifies opaque bearer tokens carrying a user ID.
type Tokens struct {
	codec *branca.Branca
	ttl   time.Duration
}

// NewTokens expects a 32 bytes long key.
func NewTokens(key string, ttl time.Duration) (*Tokens, error) {
	if len(key) != 32 {
		return nil, errors.New("token key must be 32 bytes long")
	}

	codec := branca.NewBranca(key)
	codec.SetTTL(uint32(ttl.Seconds()))

	return &Tokens{codec: codec, ttl: ttl}, nil
}

func (t *Tokens) Issue(userID string) (string, time.Time, error) {
	token, err := t.codec.EncodeToString(userID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode token: %w", err)
	}

	return token, time.Now().Add(t.ttl), nil
}

func (t *Tokens) UserID(token string) (string, error) {
	userID, err := t.codec.DecodeToString(token)
	if err != nil || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
