// Package api implements the authenticated request layer: a gateway that
// attaches credentials to outbound REST calls and recovers from credential
// expiry, and a coordinator that keeps renewal single-flight.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avidals/bocado/internal/logging"
)

// CredentialSource is the gateway's view of the token store. The gateway
// reads credentials and writes back a renewed access credential; it never
// touches the refresh credential.
type CredentialSource interface {
	// Access returns the current access credential, ok=false when absent.
	Access(ctx context.Context) (string, bool)
	// Refresh returns the current refresh credential, ok=false when absent.
	Refresh(ctx context.Context) (string, bool)
	// SetAccess replaces only the access half after a silent renewal.
	SetAccess(ctx context.Context, access string) error
}

// Config holds gateway construction parameters.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string
	// Credentials supplies and receives tokens. Required.
	Credentials CredentialSource
	// Timeout bounds every single request attempt. Zero means 15s.
	Timeout time.Duration
	// HTTPClient overrides the transport; nil gets a default client.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Gateway wraps every outbound call to the backend.
//
// Behavior on a 401 for a request that carried a credential: delegate to the
// RefreshCoordinator, then resubmit the original request exactly once with
// the renewed credential. A request that carried no credential (login,
// register, public catalog) never enters the renewal flow; its 401 is an
// ordinary auth error.
type Gateway struct {
	baseURL   string
	http      *http.Client
	creds     CredentialSource
	refresher *RefreshCoordinator
	timeout   time.Duration
	log       logging.Logger

	mu      sync.RWMutex
	session context.Context
}

const defaultTimeout = 15 * time.Second

func New(cfg Config) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("Credentials is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	g := &Gateway{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpClient,
		creds:   cfg.Credentials,
		timeout: timeout,
		log:     log,
	}
	g.refresher = newRefreshCoordinator(g, cfg.Credentials, log)
	return g, nil
}

// Refresher exposes the renewal coordinator so the session controller can
// register its expiry handler.
func (g *Gateway) Refresher() *RefreshCoordinator {
	return g.refresher
}

// BindSession ties subsequent authenticated requests to ctx: when ctx is
// cancelled (logout), every in-flight authenticated request dies with it.
// Pass nil to unbind.
func (g *Gateway) BindSession(ctx context.Context) {
	g.mu.Lock()
	g.session = ctx
	g.mu.Unlock()
}

func (g *Gateway) sessionContext() context.Context {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, nil, body, out)
}

func (g *Gateway) Patch(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// PostPublic issues a POST that deliberately carries no credential and never
// triggers renewal. Login, registration, and password reset go through here:
// a bad-credentials 401 from those endpoints is a normal auth error, not a
// sign that the session expired.
func (g *Gateway) PostPublic(ctx context.Context, path string, body, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	status, _, data, err := g.send(ctx, http.MethodPost, path, nil, payload, "", "application/json")
	if err != nil {
		return err
	}
	return settle(status, data, out)
}

// GetPublic issues an unauthenticated GET (e.g. email verification).
func (g *Gateway) GetPublic(ctx context.Context, path string, query url.Values, out any) error {
	status, _, data, err := g.send(ctx, http.MethodGet, path, query, nil, "", "application/json")
	if err != nil {
		return err
	}
	return settle(status, data, out)
}

// Download fetches a binary resource, buffering it fully. It participates in
// the same credential/renewal flow as JSON requests. Returns the body and
// the Content-Type reported by the server.
func (g *Gateway) Download(ctx context.Context, path string) ([]byte, string, error) {
	status, header, data, err := g.execute(ctx, http.MethodGet, path, nil, nil, "*/*")
	if err != nil {
		return nil, "", err
	}
	if status >= 400 {
		return nil, "", errorFromResponse(status, data)
	}
	return data, header.Get("Content-Type"), nil
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	status, _, data, err := g.execute(ctx, method, path, query, payload, "application/json")
	if err != nil {
		return err
	}
	return settle(status, data, out)
}

// execute runs one request through the credential flow: attach the access
// credential when present, and on a 401 renew once and resubmit once. The
// single structural retry is the loop guard; a request that fails again
// after renewal is returned as-is.
func (g *Gateway) execute(ctx context.Context, method, path string, query url.Values, payload []byte, accept string) (int, http.Header, []byte, error) {
	token, bore := g.creds.Access(ctx)

	status, header, data, err := g.send(ctx, method, path, query, payload, token, accept)
	if err != nil {
		return 0, nil, nil, err
	}

	if status == http.StatusUnauthorized && bore {
		fresh, rerr := g.refresher.EnsureFresh(ctx)
		if rerr != nil {
			return 0, nil, nil, rerr
		}
		g.log.Debug(ctx, "resubmitting after renewal", "method", method, "path", path)
		status, header, data, err = g.send(ctx, method, path, query, payload, fresh, accept)
		if err != nil {
			return 0, nil, nil, err
		}
	}

	return status, header, data, nil
}

// send performs a single HTTP round trip. Any failure to obtain a response
// (including timeout) maps to a network error.
func (g *Gateway) send(ctx context.Context, method, path string, query url.Values, payload []byte, token, accept string) (int, http.Header, []byte, error) {
	rctx, cancel := g.requestContext(ctx, token != "")
	defer cancel()

	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(rctx, method, u, body)
	if err != nil {
		return 0, nil, nil, &Error{Kind: KindUnknown, Message: err.Error()}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return 0, nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, networkError(err)
	}

	g.log.Debug(ctx, "request finished", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, resp.Header, data, nil
}

// requestContext bounds the attempt with the per-request timeout and, for
// authenticated requests, ties it to the session lifetime so logout cancels
// everything still in flight.
func (g *Gateway) requestContext(ctx context.Context, authenticated bool) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithTimeout(ctx, g.timeout)

	if !authenticated {
		return rctx, cancel
	}
	sess := g.sessionContext()
	if sess == nil {
		return rctx, cancel
	}
	stop := context.AfterFunc(sess, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("encode request: %v", err)}
	}
	return payload, nil
}

// settle turns a buffered response into either a decoded payload or a
// normalized error.
func settle(status int, data []byte, out any) error {
	if status >= 400 {
		return errorFromResponse(status, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("decode response: %v", err), Status: status}
	}
	return nil
}
