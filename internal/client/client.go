// Package client is a Go client for the inventory API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 30 * time.Second

var (
	// ErrRequestFailed is matched by every error caused by an unexpected status.
	ErrRequestFailed = errors.New("request failed")

	// ErrMissingID is returned when an update targets a resource without an id.
	ErrMissingID = errors.New("resource has no id")
)

// NotFoundError reports a 404 response. Message carries the server's explanation.
type NotFoundError struct {
	Kind    string
	ID      int
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// StatusError reports any other unexpected status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", ErrRequestFailed, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", ErrRequestFailed, e.StatusCode)
}

// Is makes StatusError match ErrRequestFailed.
func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Client talks to an inventory server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Products returns the products API.
func (c *Client) Products() *ProductService {
	return &ProductService{
		rest: resourceClient{client: c, kind: model.KindProduct, path: "/products", codec: jsonCodec},
	}
}

// Records returns the records API.
func (c *Client) Records() *RecordService {
	return &RecordService{
		rest: resourceClient{client: c, kind: model.KindRecord, path: "/records", codec: xmlCodec},
	}
}

type codec struct {
	contentType string
	marshal     func(v any) ([]byte, error)
	unmarshal   func(data []byte, v any) error
}

var (
	jsonCodec = codec{contentType: "application/json", marshal: json.Marshal, unmarshal: json.Unmarshal}
	xmlCodec  = codec{contentType: "application/xml", marshal: xml.Marshal, unmarshal: xml.Unmarshal}
)

// resourceClient issues the CRUD requests of one resource kind.
type resourceClient struct {
	client *Client
	kind   string
	path   string
	codec  codec
}

func (rc resourceClient) itemPath(id int) string {
	return rc.path + "/" + strconv.Itoa(id)
}

func (rc resourceClient) list(ctx context.Context, query url.Values, into any) error {
	target := rc.path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	resp, err := rc.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return rc.statusError(resp)
	}
	return rc.decode(resp, into)
}

func (rc resourceClient) get(ctx context.Context, id int, into any) error {
	resp, err := rc.do(ctx, http.MethodGet, rc.itemPath(id), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return rc.decode(resp, into)
	case http.StatusNotFound:
		return rc.notFound(resp, id)
	default:
		return rc.statusError(resp)
	}
}

// create posts body and returns the id taken from the Location header.
func (rc resourceClient) create(ctx context.Context, body any) (int, error) {
	resp, err := rc.do(ctx, http.MethodPost, rc.path, body)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, rc.statusError(resp)
	}

	return idFromLocation(resp.Header.Get("Location"))
}

func (rc resourceClient) replace(ctx context.Context, id int, body any) error {
	return rc.mutate(ctx, http.MethodPut, id, body)
}

func (rc resourceClient) delete(ctx context.Context, id int) error {
	return rc.mutate(ctx, http.MethodDelete, id, nil)
}

func (rc resourceClient) mutate(ctx context.Context, method string, id int, body any) error {
	resp, err := rc.do(ctx, method, rc.itemPath(id), body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return rc.notFound(resp, id)
	case resp.StatusCode >= http.StatusBadRequest:
		return rc.statusError(resp)
	}
	return nil
}

func (rc resourceClient) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := rc.codec.marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", rc.kind, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rc.client.baseURL+target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", rc.codec.contentType)
	if body != nil {
		req.Header.Set("Content-Type", rc.codec.contentType)
	}

	resp, err := rc.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	return resp, nil
}

func (rc resourceClient) decode(resp *http.Response, into any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", rc.kind, err)
	}
	if err := rc.codec.unmarshal(data, into); err != nil {
		return fmt.Errorf("decode %s response: %w", rc.kind, err)
	}
	return nil
}

func (rc resourceClient) notFound(resp *http.Response, id int) error {
	return &NotFoundError{Kind: rc.kind, ID: id, Message: rc.errorMessage(resp)}
}

func (rc resourceClient) statusError(resp *http.Response) error {
	return &StatusError{StatusCode: resp.StatusCode, Message: rc.errorMessage(resp)}
}

// errorMessage extracts the message of an error body, falling back to the raw text.
func (rc resourceClient) errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body model.ErrorResponse
	if rc.codec.unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}

// idFromLocation parses the numeric last segment of a Location header.
func idFromLocation(location string) (int, error) {
	if location == "" {
		return 0, fmt.Errorf("%w: missing Location header", ErrRequestFailed)
	}

	raw := location[strings.LastIndex(location, "/")+1:]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed Location %q: %v", ErrRequestFailed, location, err)
	}
	return id, nil
}
