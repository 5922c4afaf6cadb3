package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/auth"
	"github.com/solatis/pusher-rest/internal/core/request"
	"github.com/solatis/pusher-rest/internal/types"
)

var testCreds = request.Credentials{AppID: "1", Key: "key", Secret: "secret"}

func TestHTTPTransport_Send(t *testing.T) {
	t.Run("POST carries body, headers and signed query", func(t *testing.T) {
		var gotMethod, gotPath, gotBody, gotLibrary, gotContentType string
		var gotQuery map[string][]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			gotLibrary = r.Header.Get("X-Pusher-Library")
			gotContentType = r.Header.Get("Content-Type")
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		tr, err := NewHTTPTransport(srv.URL, time.Second, zap.NewNop())
		require.NoError(t, err)

		req := request.Sign(testCreds, request.MethodPost, "/apps/1/events", nil, []byte(`{"name":"e"}`), time.Now())
		resp, err := tr.Send(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "{}", string(resp.Body))
		assert.Equal(t, "POST", gotMethod)
		assert.Equal(t, "/apps/1/events", gotPath)
		assert.Equal(t, `{"name":"e"}`, gotBody)
		assert.Equal(t, "application/json", gotContentType)
		assert.Contains(t, gotLibrary, request.LibraryName)
		assert.Equal(t, req.Signature, gotQuery["auth_signature"][0])
		assert.Equal(t, req.BodyMD5, gotQuery["body_md5"][0])
	})

	t.Run("server can verify the signature from the wire", func(t *testing.T) {
		var verified bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			params := make(map[string]string)
			for k, v := range q {
				if k != "auth_signature" {
					params[k] = v[0]
				}
			}
			check := &request.Request{Method: r.Method, Path: r.URL.Path, Params: params}
			verified = auth.Verify("secret", check.StringToSign(), q.Get("auth_signature"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		tr, err := NewHTTPTransport(srv.URL, time.Second, nil)
		require.NoError(t, err)

		req := request.Sign(testCreds, request.MethodGet, "/apps/1/channels",
			map[string]string{"filter_by_prefix": "presence-", "info": "user_count,subscription_count"}, nil, time.Now())
		_, err = tr.Send(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, verified)
	})

	t.Run("non-2xx is a response, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("over quota"))
		}))
		defer srv.Close()

		tr, err := NewHTTPTransport(srv.URL, time.Second, nil)
		require.NoError(t, err)
		resp, err := tr.Send(context.Background(), request.Sign(testCreds, request.MethodGet, "/x", nil, nil, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "over quota", string(resp.Body))
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		tr, err := NewHTTPTransport(srv.URL, time.Second, nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = tr.Send(ctx, request.Sign(testCreds, request.MethodGet, "/x", nil, nil, time.Now()))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewHTTPTransport_InvalidURL(t *testing.T) {
	_, err := NewHTTPTransport("ftp://example.com", time.Second, nil)
	assert.Error(t, err)
	_, err = NewHTTPTransport("://bad", time.Second, nil)
	assert.Error(t, err)
}

func TestProcessResponse(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{200, nil},
		{202, nil},
		{400, types.ErrBadRequest},
		{401, types.ErrBadAuth},
		{403, types.ErrForbidden},
		{404, types.ErrNotFound},
		{500, types.ErrUnexpectedStatus},
		{413, types.ErrUnexpectedStatus},
		{204, types.ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		body, err := ProcessResponse(&Response{StatusCode: tt.status, Body: []byte("payload")})
		if tt.kind == nil {
			assert.NoError(t, err)
			assert.Equal(t, "payload", string(body))
			continue
		}
		assert.ErrorIs(t, err, tt.kind, "status %d", tt.status)
		var remote *types.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, tt.status, remote.StatusCode)
		assert.Equal(t, "payload", remote.Body)
	}
}

type stubTransport struct {
	resp *Response
	err  error
}

func (s *stubTransport) Send(ctx context.Context, req *request.Request) (*Response, error) {
	return s.resp, s.err
}

func TestDispatch(t *testing.T) {
	req := request.Sign(testCreds, request.MethodGet, "/x", nil, nil, time.Now())

	res := <-Dispatch(context.Background(), &stubTransport{resp: &Response{StatusCode: 200, Body: []byte("ok")}}, req)
	assert.NoError(t, res.Err)
	assert.Equal(t, "ok", string(res.Body))

	res = <-Dispatch(context.Background(), &stubTransport{resp: &Response{StatusCode: 401}}, req)
	assert.ErrorIs(t, res.Err, types.ErrBadAuth)

	sendErr := errors.New("boom")
	res = <-Dispatch(context.Background(), &stubTransport{err: sendErr}, req)
	assert.ErrorIs(t, res.Err, sendErr)
}
