package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "sclhub-api/internal/shared/errors"

	"go.uber.org/zap"
)

const componentName = "webflow_client"

// Client talks to the Webflow v2 REST API. It depends only on the stable
// HTTP contract (verbs + JSON shapes), not on any SDK, and is constructed
// explicitly so tests can point it at a fake server.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	siteID         string
	collectionID   string
	parentFolderID string
	timeout        time.Duration
	log            *zap.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	Token          string
	SiteID         string
	CollectionID   string
	ParentFolderID string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// NewClient creates a new Webflow API client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        opts.BaseURL,
		token:          opts.Token,
		siteID:         opts.SiteID,
		collectionID:   opts.CollectionID,
		parentFolderID: opts.ParentFolderID,
		timeout:        timeout,
		log:            log.With(zap.String("component", componentName)),
	}
}

// apiError is the JSON error body the remote API returns on failure.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// doJSON issues an authenticated request and decodes a JSON response into
// out (which may be nil). Non-2xx statuses are mapped to the application
// error taxonomy; the remote message is retained as the cause for
// diagnostics.
func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to encode request").WithCause(err).WithComponent(componentName)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return apperrors.NewInternalError("failed to build request").WithCause(err).WithComponent(componentName)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return apperrors.NewUnavailableError("remote CMS timed out").WithCause(err).WithComponent(componentName)
		}
		return apperrors.NewUnavailableError("remote CMS unreachable").WithCause(err).WithComponent(componentName)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewInternalError("failed to decode CMS response").WithCause(err).WithComponent(componentName)
		}
		return nil
	}

	return c.statusError(method, url, resp)
}

func (c *Client) statusError(method, url string, resp *http.Response) error {
	var remote apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &remote)
	if remote.Message == "" {
		remote.Message = string(raw)
	}
	cause := fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, remote.Message)
	c.log.Warn("remote CMS call failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("remote resource").WithCause(cause).WithComponent(componentName)
	case http.StatusConflict:
		return apperrors.NewConflictError("remote resource conflict").WithCause(cause).WithComponent(componentName)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return apperrors.NewUnavailableError("remote CMS unavailable").WithCause(cause).WithComponent(componentName)
	default:
		return apperrors.NewInternalError("remote CMS request failed").WithCause(cause).WithComponent(componentName)
	}
}
