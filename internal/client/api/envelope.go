package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// Envelope is the wrapper every backend endpoint responds with.
type Envelope[T any] struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
	Timestamp  string `json:"timestamp"`
}

// Decode strictly unmarshals body into T. Anything that is not a JSON object
// or does not fit T is a *DecodeError.
func Decode[T any](endpoint string, body []byte) (T, error) {
	var v T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return v, &DecodeError{Endpoint: endpoint, Err: errors.New("expected a JSON object")}
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, &DecodeError{Endpoint: endpoint, Err: err}
	}
	return v, nil
}

// DecodeEnvelope decodes the standard envelope around T.
func DecodeEnvelope[T any](endpoint string, body []byte) (*Envelope[T], error) {
	env, err := Decode[Envelope[T]](endpoint, body)
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// NewJSONRequest builds a Request with body marshalled as JSON.
// A nil body sends no payload.
func NewJSONRequest(method, path string, body any) (Request, error) {
	r := Request{Method: method, Path: path}
	if body == nil {
		return r, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Request{}, err
	}
	r.Body = b
	return r, nil
}

// Call performs r and decodes the envelope around T.
func Call[T any](ctx context.Context, c *Client, r Request) (*Envelope[T], error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	return DecodeEnvelope[T](r.Method+" "+r.Path, resp.Body)
}

// Get is Call for a GET with optional query parameters.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (*Envelope[T], error) {
	return Call[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post is Call for a POST with a JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	r, err := NewJSONRequest(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return Call[T](ctx, c, r)
}

// Put is Call for a PUT with a JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	r, err := NewJSONRequest(http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	return Call[T](ctx, c, r)
}

// Delete is Call for a DELETE without a body.
func Delete[T any](ctx context.Context, c *Client, path string) (*Envelope[T], error) {
	return Call[T](ctx, c, Request{Method: http.MethodDelete, Path: path})
}
