package testutil

import (
	"net/http"

	"atproto-handle/pkg/requestcontext"
)

// WithBearer sets an Authorization: Bearer header on req.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// WithHost points req at a virtual host, the way a handle lookup arrives.
func WithHost(req *http.Request, host string) *http.Request {
	req.Host = host
	return req
}

// WithRequestID injects a request id as the request-id middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
