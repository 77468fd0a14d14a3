// Package graph talks to Microsoft Graph: app-only token, sendMail and drive uploads.
package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/config"
)

const graphScope = "https://graph.microsoft.com/.default"

// tokenResponse is the client-credentials grant reply.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// apiError is the Graph error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is an authenticated Graph API client shared by the mail and drive adapters.
type Client struct {
	cfg    config.GraphConfig
	api    *resty.Client
	files  *resty.Client
	auth   *resty.Client
	logger *zap.Logger

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

// NewClient creates a Graph client from application credentials.
// Only drive uploads are retried. sendMail goes out exactly once per Send.
func NewClient(cfg config.GraphConfig, logger *zap.Logger) *Client {
	api := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(60 * time.Second).
		SetLogger(logger.Sugar()).
		SetHeader("Accept", "application/json")

	files := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(120 * time.Second).
		SetLogger(logger.Sugar()).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	auth := resty.New().
		SetBaseURL(cfg.AuthURL).
		SetTimeout(30 * time.Second).
		SetLogger(logger.Sugar())

	return &Client{cfg: cfg, api: api, files: files, auth: auth, logger: logger, now: time.Now}
}

// accessToken returns a cached token, fetching a new one shortly before expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}

	var tok tokenResponse
	var apiErr map[string]any
	resp, err := c.auth.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"scope":         graphScope,
		}).
		SetResult(&tok).
		SetError(&apiErr).
		Post("/" + c.cfg.TenantID + "/oauth2/v2.0/token")
	if err != nil {
		return "", fmt.Errorf("failed to request graph token: %w", err)
	}
	if resp.IsError() || tok.AccessToken == "" {
		c.logger.Error("graph token request rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.Any("error", apiErr),
		)
		return "", fmt.Errorf("graph token request rejected: status %d", resp.StatusCode())
	}

	c.token = tok.AccessToken
	c.expires = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// request returns an authorised request bound to ctx. It is sent once.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	return c.authorize(ctx, c.api)
}

// idempotentRequest is like request but retried on transport errors.
// Use it only for calls that can be repeated safely, such as PUT uploads.
func (c *Client) idempotentRequest(ctx context.Context) (*resty.Request, error) {
	return c.authorize(ctx, c.files)
}

func (c *Client) authorize(ctx context.Context, rc *resty.Client) (*resty.Request, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return rc.R().SetContext(ctx).SetAuthToken(token), nil
}

func checkResponse(resp *resty.Response, op string, apiErr *apiError) error {
	if !resp.IsError() {
		return nil
	}
	if apiErr != nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%s failed: %s (%s, status %d)", op, apiErr.Error.Message, apiErr.Error.Code, resp.StatusCode())
	}
	return fmt.Errorf("%s failed: status %d", op, resp.StatusCode())
}
