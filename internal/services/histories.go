package services

import (
	"context"
	"fmt"

	"tradmin/internal/api"
	"tradmin/internal/listctl"
)

// Histories manages historical milestones.
type Histories struct {
	api *api.Client
}

func NewHistories(c *api.Client) *Histories { return &Histories{api: c} }

const historyBase = "/histories"

func (s *Histories) List(ctx context.Context) ([]History, error) {
	return getAs[[]History](ctx, s.api, historyBase, false)
}

func (s *Histories) ListPage(ctx context.Context, q listctl.Query) (listctl.Page[History], error) {
	return listPageAs[History](ctx, s.api, historyBase, q, false)
}

func (s *Histories) Get(ctx context.Context, id int64) (History, error) {
	return getAs[History](ctx, s.api, fmt.Sprintf("%s/%d", historyBase, id), false)
}

func (s *Histories) Create(ctx context.Context, req HistoryRequest) (History, error) {
	return postAs[History](ctx, s.api, historyBase, req)
}

func (s *Histories) Update(ctx context.Context, id int64, req HistoryRequest) (History, error) {
	return putAs[History](ctx, s.api, fmt.Sprintf("%s/%d", historyBase, id), req)
}

func (s *Histories) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", historyBase, id), true)
	return err
}
