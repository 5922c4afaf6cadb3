// Package request builds canonical, signed Pusher REST requests.
//
// A Request is a plain value: method, path, signed query parameters and body.
// It never performs I/O. Transports turn it into an HTTP exchange.
package request

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/pusher-rest/internal/core/auth"
)

// LibraryName and Version populate the X-Pusher-Library header.
const (
	LibraryName = "pusher-rest-go"
	Version     = "0.1.0"
)

// AuthVersion is the only signing scheme the REST API accepts.
const AuthVersion = "1.0"

// Credentials identify an app.
type Credentials struct {
	AppID  string
	Key    string
	Secret string
}

// Request is a fully signed REST request.
type Request struct {
	Method string
	Path   string
	// Params holds every signed query parameter with lower-cased keys,
	// excluding auth_signature.
	Params    map[string]string
	Body      []byte
	BodyMD5   string
	Signature string
}

// Sign produces a Request for method and path.
//
// params become query parameters alongside auth_key, auth_timestamp,
// auth_version and body_md5. The string to sign is METHOD\nPATH\nquery where
// query is the canonical form of those parameters. auth_signature is
// appended afterwards and is not itself signed.
func Sign(creds Credentials, method, path string, params map[string]string, body []byte, now time.Time) *Request {
	if body == nil {
		body = []byte{}
	}
	sum := md5.Sum(body)
	bodyMD5 := hex.EncodeToString(sum[:])

	signed := make(map[string]string, len(params)+4)
	for k, v := range params {
		signed[strings.ToLower(k)] = v
	}
	signed["auth_key"] = creds.Key
	signed["auth_timestamp"] = strconv.FormatInt(now.Unix(), 10)
	signed["auth_version"] = AuthVersion
	signed["body_md5"] = bodyMD5

	req := &Request{
		Method:  method,
		Path:    path,
		Params:  signed,
		Body:    body,
		BodyMD5: bodyMD5,
	}
	req.Signature = auth.Sign(creds.Secret, req.StringToSign())
	return req
}

// StringToSign returns METHOD\nPATH\ncanonical query.
func (r *Request) StringToSign() string {
	return r.Method + "\n" + r.Path + "\n" + canonicalQuery(r.Params, false)
}

// QueryString is the canonical query followed by auth_signature, unescaped.
func (r *Request) QueryString() string {
	return canonicalQuery(r.Params, false) + "&auth_signature=" + r.Signature
}

// EncodedQuery is QueryString with values escaped for the wire.
func (r *Request) EncodedQuery() string {
	return canonicalQuery(r.Params, true) + "&auth_signature=" + r.Signature
}

// SignedPath is the path plus the encoded query.
func (r *Request) SignedPath() string {
	return r.Path + "?" + r.EncodedQuery()
}

// HasBody reports whether the method carries a JSON body.
func (r *Request) HasBody() bool {
	return r.Method != MethodGet
}

// Headers returns the headers every transport must send.
func (r *Request) Headers() map[string]string {
	h := map[string]string{
		"X-Pusher-Library": LibraryName + " " + Version,
	}
	if r.HasBody() {
		h["Content-Type"] = "application/json"
	}
	return h
}

func canonicalQuery(params map[string]string, escape bool) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		if escape {
			b.WriteString(url.QueryEscape(params[k]))
		} else {
			b.WriteString(params[k])
		}
	}
	return b.String()
}
