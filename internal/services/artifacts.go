package services

import (
	"context"
	"fmt"

	"tradmin/internal/api"
	"tradmin/internal/listctl"
)

// Artifacts manages museum artifacts.
type Artifacts struct {
	api *api.Client
}

func NewArtifacts(c *api.Client) *Artifacts { return &Artifacts{api: c} }

const artifactBase = "/artifacts"

func (s *Artifacts) List(ctx context.Context) ([]Artifact, error) {
	return getAs[[]Artifact](ctx, s.api, artifactBase, false)
}

func (s *Artifacts) ListPage(ctx context.Context, q listctl.Query) (listctl.Page[Artifact], error) {
	return listPageAs[Artifact](ctx, s.api, artifactBase, q, false)
}

func (s *Artifacts) Get(ctx context.Context, id int64) (Artifact, error) {
	return getAs[Artifact](ctx, s.api, fmt.Sprintf("%s/%d", artifactBase, id), false)
}

func (s *Artifacts) Create(ctx context.Context, req ArtifactRequest) (Artifact, error) {
	return postAs[Artifact](ctx, s.api, artifactBase, req)
}

func (s *Artifacts) Update(ctx context.Context, id int64, req ArtifactRequest) (Artifact, error) {
	return putAs[Artifact](ctx, s.api, fmt.Sprintf("%s/%d", artifactBase, id), req)
}

func (s *Artifacts) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", artifactBase, id), true)
	return err
}
