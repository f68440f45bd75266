package service

import (
	"context"
	"errors"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
)

var errDevLoginDisabled = errs.PermissionDeniedError("dev login disabled")

// DevLogin resolves the user by username, creating it on first use,
// and issues a bearer token for it.
func (svc *Service) DevLogin(ctx context.Context, in types.DevLogin) (types.AuthOutput, error) {
	var out types.AuthOutput

	if !svc.devLogin {
		return out, errDevLoginDisabled
	}

	if err := in.Validate(); err != nil {
		return out, err
	}

	role := types.RoleUser
	if _, ok := svc.adminUsernames[in.Username]; ok {
		role = types.RoleAdmin
	}

	user, err := svc.Cockroach.UpsertUser(ctx, in, role)
	if err != nil {
		return out, err
	}

	token, expiresAt, err := svc.Tokens.Issue(user.ID)
	if err != nil {
		return out, err
	}

	out.User = user
	out.Token = token
	out.ExpiresAt = expiresAt
	return out, nil
}

// UserFromToken resolves the user a bearer token was issued for.
func (svc *Service) UserFromToken(ctx context.Context, token string) (types.User, error) {
	userID, err := svc.Tokens.UserID(token)
	if err != nil {
		return types.User{}, err
	}

	user, err := svc.Cockroach.User(ctx, userID)
	if errors.Is(err, errs.NotFound) {
		return user, auth.ErrInvalidToken
	}

	return user, err
}

func (svc *Service) Me(ctx context.Context) (types.User, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return loggedInUser, errs.Unauthenticated
	}

	return loggedInUser, nil
}
