// Package api is the HTTP adapter for the tradition-room CMS backend. It
// attaches the bearer token, speaks the {success,data,error,message}
// envelope for JSON and multipart bodies, and folds transport and
// application failures into one error taxonomy.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"tradmin/internal/config"
	"tradmin/internal/logging"
	"tradmin/internal/metrics"
	"tradmin/internal/session"
)

type Client struct {
	baseURL string
	prefix  string
	http    *http.Client
	sess    *session.Store
	log     *logging.Logger
	met     *metrics.Manager
	ua      string
}

func New(cfg *config.Config, log *logging.Logger, sess *session.Store, met *metrics.Manager) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server.BaseURL, "/"),
		prefix:  cfg.APIPrefix(),
		http:    newHTTPClient(cfg),
		sess:    sess,
		log:     log,
		met:     met,
		ua:      userAgent(cfg),
	}
}

func newHTTPClient(cfg *config.Config) *http.Client {
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.Server.TLSSkipVerify, //nolint:gosec // operator opt-in for self-signed backends
		},
	}
	client := &http.Client{Transport: tr, Timeout: timeout}
	// Preserve UA across redirects. Avoid leaking Authorization across hosts.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) == 0 {
			return nil
		}
		prev := via[len(via)-1]
		if ua := prev.Header.Get("User-Agent"); ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		if prev.URL != nil && req.URL != nil && strings.EqualFold(prev.URL.Host, req.URL.Host) {
			if auth := prev.Header.Get("Authorization"); auth != "" {
				req.Header.Set("Authorization", auth)
			}
		}
		return nil
	}
	return client
}

func userAgent(cfg *config.Config) string {
	if cfg != nil && cfg.Server.UserAgent != "" {
		return cfg.Server.UserAgent
	}
	return fmt.Sprintf("tradmin (%s/%s)", runtime.GOOS, runtime.GOARCH)
}

// URL joins the base URL, API prefix, and an endpoint path.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + c.prefix + path
}

// AbsoluteURL resolves a possibly relative backend URL (e.g. an image's
// public url field) against the configured base.
func (c *Client) AbsoluteURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}

func (c *Client) prepare(req *http.Request, auth bool) bool {
	req.Header.Set("User-Agent", c.ua)
	if !auth || c.sess == nil {
		return false
	}
	// Read the token once; the request sees either the old or the new
	// session, never a mix.
	tok := c.sess.Token()
	if tok == "" {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return true
}

// Get issues an authenticated (or anonymous) GET and decodes the envelope.
func (c *Client) Get(ctx context.Context, path string, auth bool) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, auth)
}

func (c *Client) Post(ctx context.Context, path string, body any, auth bool) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodPost, path, body, auth)
}

func (c *Client) Put(ctx context.Context, path string, body any, auth bool) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodPut, path, body, auth)
}

func (c *Client) Delete(ctx context.Context, path string, auth bool) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil, auth)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, auth bool) (*Envelope, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	hadAuth := c.prepare(req, auth)
	return c.roundTrip(req, hadAuth)
}

// FilePart is one file in a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// PostMultipart sends form fields plus files, used by the image upload and
// replace endpoints. Content-Type is left to the multipart writer.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, auth bool) (*Envelope, error) {
	return c.doMultipart(ctx, http.MethodPost, path, fields, files, auth)
}

func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, auth bool) (*Envelope, error) {
	return c.doMultipart(ctx, http.MethodPut, path, fields, files, auth)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []FilePart, auth bool) (*Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	hadAuth := c.prepare(req, auth)
	return c.roundTrip(req, hadAuth)
}

// GetBinary fetches raw bytes (the image download endpoint). The bearer
// header is attached here because nothing else in the stack can: a plain
// image reference cannot carry headers.
func (c *Client) GetBinary(ctx context.Context, url string, auth bool) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	hadAuth := c.prepare(req, auth)
	c.met.IncRequests()
	resp, err := c.http.Do(req)
	if err != nil {
		c.met.IncRequestErrors()
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		c.met.IncRequestErrors()
		return nil, "", &Error{Status: resp.StatusCode, Message: friendlyStatusMessage(resp.StatusCode, resp.Status, hadAuth)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func (c *Client) roundTrip(req *http.Request, hadAuth bool) (*Envelope, error) {
	c.met.IncRequests()
	c.log.Debugf("%s %s", req.Method, logging.SanitizeURL(req.URL.String()))
	resp, err := c.http.Do(req)
	if err != nil {
		c.met.IncRequestErrors()
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.met.IncRequestErrors()
		return nil, err
	}

	var env Envelope
	parsed := json.Unmarshal(body, &env) == nil && (env.Success || env.Error != "" || env.Message != "" || bytes.Contains(body, []byte(`"success"`)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.met.IncRequestErrors()
		if parsed {
			// Structured application error: keep the backend's wording and
			// any field-level validation messages.
			msg := env.Error
			if msg == "" {
				msg = env.Message
			}
			if msg == "" {
				msg = friendlyStatusMessage(resp.StatusCode, resp.Status, hadAuth)
			}
			return nil, &Error{Status: resp.StatusCode, Message: msg, Fields: fieldErrors(env.Data)}
		}
		return nil, &Error{Status: resp.StatusCode, Message: friendlyStatusMessage(resp.StatusCode, resp.Status, hadAuth)}
	}

	if !parsed {
		return nil, fmt.Errorf("malformed response from %s", logging.SanitizeURL(req.URL.String()))
	}
	if !env.Success {
		c.met.IncRequestErrors()
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "request failed"
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg, Fields: fieldErrors(env.Data)}
	}
	return &env, nil
}
