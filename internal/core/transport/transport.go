// Package transport executes signed requests against the Pusher REST API.
//
// The core never blocks on its own: Transport.Send is the only I/O boundary,
// and callers who want asynchrony use Dispatch to get a result channel.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/request"
	"github.com/solatis/pusher-rest/internal/types"
)

// Response is the raw outcome of one HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends a signed request and returns the raw response.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, req *request.Request) (*Response, error)
}

// HTTPTransport sends requests with net/http to a fixed base URL.
type HTTPTransport struct {
	baseURL *url.URL
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPTransport creates a transport for baseURL (scheme://host:port).
// A nil logger disables logging.
func NewHTTPTransport(baseURL string, timeout time.Duration, logger *zap.Logger) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Send performs the HTTP exchange. Non-2xx statuses are returned as a
// Response, not an error; see ProcessResponse.
func (t *HTTPTransport) Send(ctx context.Context, req *request.Request) (*Response, error) {
	requestID := types.NewRequestID()
	start := time.Now()

	u := *t.baseURL
	u.Path = req.Path
	u.RawQuery = req.EncodedQuery()

	var body io.Reader = http.NoBody
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}
	for k, v := range req.Headers() {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Warn("request failed",
			zap.String("request_id", string(requestID)),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, fmt.Errorf("pusher request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.logger.Debug("request completed",
		zap.String("request_id", string(requestID)),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// ProcessResponse maps a status code onto the error taxonomy.
// 200 and 202 return the body; everything else returns a *types.RemoteError.
func ProcessResponse(resp *Response) ([]byte, error) {
	var kind error
	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return resp.Body, nil
	case http.StatusBadRequest:
		kind = types.ErrBadRequest
	case http.StatusUnauthorized:
		kind = types.ErrBadAuth
	case http.StatusForbidden:
		kind = types.ErrForbidden
	case http.StatusNotFound:
		kind = types.ErrNotFound
	default:
		kind = types.ErrUnexpectedStatus
	}
	return nil, &types.RemoteError{StatusCode: resp.StatusCode, Body: string(resp.Body), Kind: kind}
}

// Result is the outcome delivered by Dispatch.
type Result struct {
	Body []byte
	Err  error
}

// Dispatch sends req on its own goroutine and delivers exactly one Result.
// The channel has capacity one, so the sender never blocks on an unread result.
func Dispatch(ctx context.Context, t Transport, req *request.Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		resp, err := t.Send(ctx, req)
		if err != nil {
			out <- Result{Err: err}
			return
		}
		body, err := ProcessResponse(resp)
		out <- Result{Body: body, Err: err}
	}()
	return out
}
