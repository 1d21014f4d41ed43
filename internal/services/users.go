package services

import (
	"context"
	"fmt"

	"tradmin/internal/api"
	"tradmin/internal/listctl"
)

// Users manages admin accounts, including the lock/unlock toggles.
type Users struct {
	api *api.Client
}

func NewUsers(c *api.Client) *Users { return &Users{api: c} }

const userBase = "/users"

func (s *Users) List(ctx context.Context) ([]User, error) {
	return getAs[[]User](ctx, s.api, userBase, true)
}

func (s *Users) ListPage(ctx context.Context, q listctl.Query) (listctl.Page[User], error) {
	return listPageAs[User](ctx, s.api, userBase, q, true)
}

func (s *Users) Get(ctx context.Context, id int64) (User, error) {
	return getAs[User](ctx, s.api, fmt.Sprintf("%s/%d", userBase, id), true)
}

func (s *Users) Create(ctx context.Context, req UserCreateRequest) (User, error) {
	return postAs[User](ctx, s.api, userBase, req)
}

func (s *Users) Update(ctx context.Context, id int64, req UserUpdateRequest) (User, error) {
	return putAs[User](ctx, s.api, fmt.Sprintf("%s/%d", userBase, id), req)
}

func (s *Users) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", userBase, id), true)
	return err
}

// Lock disables the account. The endpoint is idempotent and returns the
// updated user.
func (s *Users) Lock(ctx context.Context, id int64) (User, error) {
	return putAs[User](ctx, s.api, fmt.Sprintf("%s/%d/lock", userBase, id), nil)
}

// Unlock re-enables the account.
func (s *Users) Unlock(ctx context.Context, id int64) (User, error) {
	return putAs[User](ctx, s.api, fmt.Sprintf("%s/%d/unlock", userBase, id), nil)
}
