// Package api talks to the backend over HTTP: a shared Transport that
// injects the bearer token and watches for authorization failures, plus
// typed gateways for the auth and content endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nkosarev/vidgen/internal/logging"
)

// TokenProvider supplies the current bearer token, or "" when the client
// is unauthenticated. The transport asks for the token on every request
// rather than caching it, so a logout that happens mid-workflow is
// observed by the very next request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Transport is the configured HTTP client every gateway call goes through.
// It does not retry and imposes no deadline of its own; callers control
// cancellation through the context.
type Transport struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     logging.Logger

	onUnauthorized func()
}

// NewTransport builds a Transport for the given base endpoint. tokens may
// be nil for a client that never authenticates.
func NewTransport(baseURL string, tokens TokenProvider, log logging.Logger) *Transport {
	if log == nil {
		log = logging.NewNop()
	}
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		log:     log.With("component", "transport"),
	}
}

// OnUnauthorized registers fn to run whenever any response comes back with
// status 401, before the call's own error is returned. This is the global
// session-invalidation hook: it fires regardless of which call produced
// the 401.
func (t *Transport) OnUnauthorized(fn func()) {
	t.onUnauthorized = fn
}

// URL joins path onto the base endpoint without issuing a request.
func (t *Transport) URL(path string) string {
	return t.baseURL + path
}

// Do sends one request. The bearer token, when present, is attached as an
// Authorization header. A 401 response triggers the unauthorized hook
// synchronously and is then returned to the caller like any other
// response.
func (t *Transport) Do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if t.tokens != nil {
		token, err := t.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.log.Warn(ctx, "authorization rejected, invalidating session", "path", path)
		if t.onUnauthorized != nil {
			t.onUnauthorized()
		}
	}

	return resp, nil
}

// GetJSON issues a GET and decodes a 2xx JSON body into v.
func (t *Transport) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := t.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, v)
}

// PostForm issues a form-encoded POST and decodes a 2xx JSON body into v.
func (t *Transport) PostForm(ctx context.Context, path string, form url.Values, v any) error {
	resp, err := t.Do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	return DecodeJSON(resp, v)
}

// PostJSON issues a JSON POST and decodes a 2xx JSON body into v.
func (t *Transport) PostJSON(ctx context.Context, path string, body any, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}
	resp, err := t.Do(ctx, http.MethodPost, path, "application/json", strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	return DecodeJSON(resp, v)
}

// errorBody mirrors the backend's error payloads: FastAPI routes answer
// {"detail": ...}, a few legacy ones {"message": ...}.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// DecodeJSON closes the response body, maps any non-2xx status to *Error,
// and otherwise decodes the JSON body into v (pass nil to discard it).
func DecodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return asError(resp)
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func asError(resp *http.Response) error {
	detail := http.StatusText(resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			if eb.Detail != "" {
				detail = eb.Detail
			} else if eb.Message != "" {
				detail = eb.Message
			}
		}
	}

	return &Error{Status: resp.StatusCode, Detail: detail}
}
