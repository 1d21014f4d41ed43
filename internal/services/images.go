package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"tradmin/internal/api"
)

// Images manages the image library: metadata CRUD plus the multipart upload
// and replace endpoints. Binary content goes through the download endpoint,
// which requires the bearer header (see internal/preview).
type Images struct {
	api *api.Client
}

func NewImages(c *api.Client) *Images { return &Images{api: c} }

const imageBase = "/images"

func (s *Images) List(ctx context.Context) ([]Image, error) {
	return getAs[[]Image](ctx, s.api, imageBase, true)
}

func (s *Images) Get(ctx context.Context, id int64) (Image, error) {
	return getAs[Image](ctx, s.api, fmt.Sprintf("%s/%d", imageBase, id), true)
}

func (s *Images) Update(ctx context.Context, id int64, req ImageUpdateRequest) (Image, error) {
	return putAs[Image](ctx, s.api, fmt.Sprintf("%s/%d", imageBase, id), req)
}

func (s *Images) Delete(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", imageBase, id), true)
	return err
}

// Upload sends one file (multipart field "file", optional "description").
func (s *Images) Upload(ctx context.Context, path, description string) (Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	fields := map[string]string{}
	if description != "" {
		fields["description"] = description
	}
	env, err := s.api.PostMultipart(ctx, imageBase+"/upload", fields, []api.FilePart{
		{Field: "file", Filename: filepath.Base(path), Reader: bytes.NewReader(b)},
	}, true)
	if err != nil {
		return Image{}, err
	}
	return api.Decode[Image](env)
}

// UploadMultiple sends several files in one request (repeated "files"
// parts). Files are read concurrently before the request is built.
func (s *Images) UploadMultiple(ctx context.Context, paths []string) ([]Image, error) {
	bufs := make([][]byte, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			bufs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	parts := make([]api.FilePart, len(paths))
	for i, p := range paths {
		parts[i] = api.FilePart{Field: "files", Filename: filepath.Base(p), Reader: bytes.NewReader(bufs[i])}
	}
	env, err := s.api.PostMultipart(ctx, imageBase+"/upload/multiple", nil, parts, true)
	if err != nil {
		return nil, err
	}
	return api.Decode[[]Image](env)
}

// Replace swaps the stored binary for an existing image id.
func (s *Images) Replace(ctx context.Context, id int64, path string) (Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	env, err := s.api.PutMultipart(ctx, fmt.Sprintf("%s/%d/replace", imageBase, id), nil, []api.FilePart{
		{Field: "file", Filename: filepath.Base(path), Reader: bytes.NewReader(b)},
	}, true)
	if err != nil {
		return Image{}, err
	}
	return api.Decode[Image](env)
}

// DownloadURL is the absolute URL of the authenticated binary endpoint.
func (s *Images) DownloadURL(id int64) string {
	return s.api.URL(fmt.Sprintf("%s/%d/download", imageBase, id))
}
