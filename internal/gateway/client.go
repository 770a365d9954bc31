// Package gateway contains the HTTP adapters to the two external
// collaborators: the catalog (stock oracle) and the Order Service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinithim/storefront-checkout/internal/auth"
	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/pkg/utils"
)

// Client is the shared HTTP plumbing: URL joining, bearer forwarding, and
// error classification into the checkout error taxonomy.
type Client struct {
	logger  *slog.Logger
	baseURL string
	http    *http.Client
}

func NewClient(logger *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do issues the request and decodes the response into out (when non-nil).
// When authenticated is set, a missing bearer credential fails before any
// bytes leave the process: an order-mutating call without a token is an
// authentication error, never a generic one.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build request url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, ok := auth.TokenFromContext(ctx)
	if authenticated && !ok {
		return entities.ErrAuthRequired
	}
	if ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTransientService, err)
	}
	defer res.Body.Close()

	if err := classifyStatus(res); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func classifyStatus(res *http.Response) error {
	switch {
	case res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return entities.ErrAuthRequired
	case res.StatusCode == http.StatusNotFound:
		return entities.ErrOrderNotFound
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnprocessableEntity:
		var ver utils.ValidationErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&ver); err == nil && len(ver.Fields) > 0 {
			return &entities.ValidationError{Fields: ver.Fields}
		}
		return &entities.ValidationError{Fields: map[string]string{}}
	default:
		return fmt.Errorf("%w: upstream returned %d", entities.ErrTransientService, res.StatusCode)
	}
}
