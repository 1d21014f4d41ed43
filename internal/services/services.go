// Package services maps domain operations onto the backend REST surface.
// One service per resource; all of them share the api.Client adapter.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"tradmin/internal/api"
	"tradmin/internal/listctl"
)

func getAs[T any](ctx context.Context, c *api.Client, path string, auth bool) (T, error) {
	env, err := c.Get(ctx, path, auth)
	if err != nil {
		var zero T
		return zero, err
	}
	return api.Decode[T](env)
}

func postAs[T any](ctx context.Context, c *api.Client, path string, body any) (T, error) {
	env, err := c.Post(ctx, path, body, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return api.Decode[T](env)
}

func putAs[T any](ctx context.Context, c *api.Client, path string, body any) (T, error) {
	env, err := c.Put(ctx, path, body, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return api.Decode[T](env)
}

// pageQuery encodes a listctl.Query as the backend's pagination params.
func pageQuery(q listctl.Query) string {
	v := url.Values{}
	v.Set("page", fmt.Sprint(q.Page))
	v.Set("size", fmt.Sprint(q.Size))
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		v.Set("sortDir", string(q.SortDir))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	return "?" + v.Encode()
}

func listPageAs[T any](ctx context.Context, c *api.Client, base string, q listctl.Query, auth bool) (listctl.Page[T], error) {
	return getAs[listctl.Page[T]](ctx, c, base+pageQuery(q), auth)
}
