package services

import (
	"context"
	"fmt"

	"tradmin/internal/api"
)

// Introductions manages the introductory text sections. The set is small and
// never paginated.
type Introductions struct {
	api *api.Client
}

func NewIntroductions(c *api.Client) *Introductions { return &Introductions{api: c} }

const introductionBase = "/introductions"

func (s *Introductions) List(ctx context.Context) ([]Introduction, error) {
	return getAs[[]Introduction](ctx, s.api, introductionBase, false)
}

func (s *Introductions) Get(ctx context.Context, id int64) (Introduction, error) {
	return getAs[Introduction](ctx, s.api, fmt.Sprintf("%s/%d", introductionBase, id), false)
}

func (s *Introductions) Create(ctx context.Context, req IntroductionRequest) (Introduction, error) {
	return postAs[Introduction](ctx, s.api, introductionBase, req)
}

func (s *Introductions) Update(ctx context.Context, id int64, req IntroductionRequest) (Introduction, error) {
	return putAs[Introduction](ctx, s.api, fmt.Sprintf("%s/%d", introductionBase, id), req)
}

func (s *Introductions) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", introductionBase, id), true)
	return err
}
