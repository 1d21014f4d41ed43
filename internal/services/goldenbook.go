package services

import (
	"context"
	"fmt"

	"tradmin/internal/api"
	"tradmin/internal/listctl"
)

// GoldenBooks manages award records.
type GoldenBooks struct {
	api *api.Client
}

func NewGoldenBooks(c *api.Client) *GoldenBooks { return &GoldenBooks{api: c} }

const goldenBookBase = "/golden-book"

func (s *GoldenBooks) List(ctx context.Context) ([]GoldenBook, error) {
	return getAs[[]GoldenBook](ctx, s.api, goldenBookBase, false)
}

func (s *GoldenBooks) ListPage(ctx context.Context, q listctl.Query) (listctl.Page[GoldenBook], error) {
	return listPageAs[GoldenBook](ctx, s.api, goldenBookBase, q, false)
}

func (s *GoldenBooks) Get(ctx context.Context, id int64) (GoldenBook, error) {
	return getAs[GoldenBook](ctx, s.api, fmt.Sprintf("%s/%d", goldenBookBase, id), false)
}

func (s *GoldenBooks) Create(ctx context.Context, req GoldenBookRequest) (GoldenBook, error) {
	return postAs[GoldenBook](ctx, s.api, goldenBookBase, req)
}

func (s *GoldenBooks) Update(ctx context.Context, id int64, req GoldenBookRequest) (GoldenBook, error) {
	return putAs[GoldenBook](ctx, s.api, fmt.Sprintf("%s/%d", goldenBookBase, id), req)
}

func (s *GoldenBooks) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", goldenBookBase, id), true)
	return err
}
