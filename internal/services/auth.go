package services

import (
	"context"

	"tradmin/internal/api"
	"tradmin/internal/session"
)

// Auth performs login and maintains the injected session store.
type Auth struct {
	api  *api.Client
	sess *session.Store
}

func NewAuth(c *api.Client, sess *session.Store) *Auth {
	return &Auth{api: c, sess: sess}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and, on success, installs the session so every
// subsequent authenticated call carries the bearer token.
func (a *Auth) Login(ctx context.Context, username, password string) (session.Session, error) {
	env, err := a.api.Post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, false)
	if err != nil {
		return session.Session{}, err
	}
	res, err := api.Decode[loginResponse](env)
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{Token: res.AccessToken, UserID: res.UserID, Username: res.Username}
	if err := a.sess.Login(sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Logout clears the session; there is no server-side call to make.
func (a *Auth) Logout() error {
	return a.sess.Logout()
}
