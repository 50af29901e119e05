// Package syncapi implements the remote sync service client over HTTP.
//
// Status mapping: any status in [200,400) is success, [400,500) is an
// application-level error carrying the server's message, and 500+ or a
// transport failure is a server error.
package syncapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mkarren/techsync/internal/domain"
	"github.com/mkarren/techsync/internal/ports"
)

const maxResponseBytes = 1 << 20

// APIError is an application-level rejection from the sync service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}

	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.SyncClient = (*Client)(nil)

func (c *Client) CheckIdentity(ctx context.Context, code string) (domain.Identity, error) {
	var payload identityPayload
	err := c.do(ctx, http.MethodPost, "auth/check", "", nil, checkRequest{Code: code}, &payload)
	if err != nil {
		return domain.Identity{}, authRejection("check identity", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) Connect(ctx context.Context, ident domain.Identity) (domain.Identity, error) {
	var payload identityPayload
	err := c.do(ctx, http.MethodPost, "auth/connect", "", nil, identityFromDomain(ident), &payload)
	if err != nil {
		return domain.Identity{}, authRejection("connect", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) RefreshConnection(ctx context.Context, token string) (domain.Identity, error) {
	var payload identityPayload
	if err := c.do(ctx, http.MethodPost, "auth/refresh", token, nil, nil, &payload); err != nil {
		return domain.Identity{}, fmt.Errorf("refresh connection: %w", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) Sync(ctx context.Context, profile domain.ProfileName, token string, mode ports.SyncMode, levels map[domain.TechID]domain.TechRecord) (domain.ProfileState, error) {
	query := url.Values{}
	query.Set("mode", string(mode))

	var payload profilePayload
	path := "sync/" + url.PathEscape(string(profile))
	if err := c.do(ctx, http.MethodPost, path, token, query, techLevelsFromDomain(levels), &payload); err != nil {
		return domain.ProfileState{}, fmt.Errorf("sync %q: %w", profile, err)
	}

	return payload.toDomain(), nil
}

func (c *Client) GuildData(ctx context.Context, token string) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := c.do(ctx, http.MethodGet, "corpdata", token, nil, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch guild data: %w", err)
	}

	return payload, nil
}

func (c *Client) UserGuilds(ctx context.Context, token string) ([]domain.GuildRef, error) {
	var payload guildListPayload
	if err := c.do(ctx, http.MethodGet, "user/corporations", token, nil, nil, &payload); err != nil {
		return nil, fmt.Errorf("list user guilds: %w", err)
	}

	guilds := make([]domain.GuildRef, 0, len(payload.Corporations))
	for _, entry := range payload.Corporations {
		guilds = append(guilds, domain.GuildRef{ID: entry.ID, Name: entry.Name})
	}

	return guilds, nil
}

// authRejection converts an application-level error on the identity
// endpoints into an auth rejection; transport errors pass through.
func authRejection(op string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w: %s", op, domain.ErrAuthRejected, apiErr.Message)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body any, out any) error {
	endpoint, err := buildAPIURL(c.BaseURL, path)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode < http.StatusInternalServerError:
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	default:
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeErrorMessage(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}

	return payload.Error
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}

	return endpoint.String(), nil
}
