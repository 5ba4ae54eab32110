package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/observability"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Client is the typed HTTP client for the upstream business API. All calls
// go through the AuthTransport, so bearer injection and refresh-on-401 are
// transparent to callers.
type Client struct {
	http    *http.Client
	baseURL string
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New builds a client. transport should be an AuthTransport wired to the
// session manager.
func New(baseURL string, transport http.RoundTripper, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

type upstreamError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// doJSON issues a JSON request and decodes the response into out (when out
// is non-nil). op names the call for metrics.
func (c *Client) doJSON(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, op, out)
}

// doForm issues a form-encoded POST, used by the password-grant login.
func (c *Client) doForm(ctx context.Context, op, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(op, 0, time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewTimedOut(op)
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return apperrors.NewTimedOut(op)
		}
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		return c.mapStatus(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("decode %s response: %w", op, err))
	}
	return nil
}

func (c *Client) mapStatus(op string, resp *http.Response) error {
	var ue upstreamError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&ue)
	msg := ue.Message
	if msg == "" {
		msg = ue.Detail
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if msg == "" {
			msg = "authentication denied"
		}
		return apperrors.NewUnauthorized(msg)
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "access denied"
		}
		return apperrors.NewForbidden(msg)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFound(op, nil)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.NewConflict(msg, nil)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid request"
		}
		return apperrors.NewValidationError(msg, nil)
	default:
		c.logger.Warn("upstream error",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
		)
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("%s: upstream status %d", op, resp.StatusCode))
	}
}
