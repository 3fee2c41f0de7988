//go:build functional

// Package functional provides functional tests for the inventory API and event feed.
package functional

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/client"
	"github.com/vyrodovalexey/inventory-api/internal/config"
	"github.com/vyrodovalexey/inventory-api/internal/server"
)

// Environment variable names for test configuration.
const (
	EnvTestServerHost = "TEST_SERVER_HOST"
	EnvTestTimeout    = "TEST_TIMEOUT"
	EnvTestEvents     = "TEST_EVENTS_ENABLED"
)

// Default test configuration values.
const (
	DefaultTestHost         = "localhost"
	DefaultTestTimeout      = 30 * time.Second
	DefaultRequestTimeout   = 5 * time.Second
	DefaultWebSocketTimeout = 10 * time.Second
	DefaultShutdownTimeout  = 5 * time.Second
)

// Content types used by raw requests.
const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
)

// TestConfig holds test configuration loaded from environment.
type TestConfig struct {
	Host          string
	Timeout       time.Duration
	EventsEnabled bool
}

// LoadTestConfig loads test configuration from environment variables.
func LoadTestConfig() *TestConfig {
	cfg := &TestConfig{
		Host:          DefaultTestHost,
		Timeout:       DefaultTestTimeout,
		EventsEnabled: true,
	}

	if host := os.Getenv(EnvTestServerHost); host != "" {
		cfg.Host = host
	}

	if timeout := os.Getenv(EnvTestTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Timeout = d
		}
	}

	if events := os.Getenv(EnvTestEvents); events != "" {
		if b, err := strconv.ParseBool(events); err == nil {
			cfg.EventsEnabled = b
		}
	}

	return cfg
}

// TestServer runs a real inventory server on a free port.
type TestServer struct {
	Server    *server.Server
	Inventory *server.Inventory
	BaseURL   string
	WSURL     string
	Port      int
	timeout   time.Duration
	t         *testing.T
	mu        sync.Mutex
	started   bool
}

// NewTestServer creates a new test server instance.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testCfg := LoadTestConfig()

	listener, err := net.Listen("tcp", net.JoinHostPort(testCfg.Host, "0"))
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	if err := listener.Close(); err != nil {
		t.Fatalf("Failed to release port: %v", err)
	}

	cfg := config.Default()
	cfg.ServerPort = port
	cfg.ProbePort = 0
	cfg.ShutdownTimeout = DefaultShutdownTimeout
	cfg.MetricsEnabled = false
	cfg.EventsEnabled = testCfg.EventsEnabled

	inv := server.NewInventory()
	srv := server.New(cfg, zap.NewNop(), inv)

	return &TestServer{
		Server:    srv,
		Inventory: inv,
		BaseURL:   fmt.Sprintf("http://%s:%d", testCfg.Host, port),
		WSURL:     fmt.Sprintf("ws://%s:%d", testCfg.Host, port),
		Port:      port,
		timeout:   testCfg.Timeout,
		t:         t,
	}
}

// Start starts the test server and blocks until it answers /health.
func (ts *TestServer) Start() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.started {
		return
	}

	go func() {
		if err := ts.Server.Start(); err != nil {
			ts.t.Logf("Server error: %v", err)
		}
	}()

	ts.waitForReady()
	ts.started = true
}

// waitForReady waits for the server to be ready to accept connections.
func (ts *TestServer) waitForReady() {
	ctx, cancel := context.WithTimeout(context.Background(), ts.timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.t.Fatalf("Server did not become ready within timeout")
		case <-ticker.C:
			resp, err := http.Get(ts.BaseURL + "/health")
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
	}
}

// Stop stops the test server.
func (ts *TestServer) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := ts.Server.Shutdown(ctx); err != nil {
		ts.t.Logf("Server shutdown error: %v", err)
	}

	ts.started = false
}

// Client returns an inventory API client pointed at the test server.
func (ts *TestServer) Client() *client.Client {
	return client.New(ts.BaseURL, client.WithTimeout(DefaultRequestTimeout))
}

// startServer creates and starts a server that is stopped on test cleanup.
func startServer(t *testing.T) *TestServer {
	t.Helper()

	ts := NewTestServer(t)
	ts.Start()
	t.Cleanup(ts.Stop)

	return ts
}

// Response is a raw HTTP response with its body read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RawRequest sends a request with an optional body and returns the raw response.
func RawRequest(t *testing.T, method, url, contentType, body string) *Response {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}
}

// requestContext returns a context bounded by DefaultRequestTimeout.
func requestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultRequestTimeout)
	t.Cleanup(cancel)
	return ctx
}

// AssertStatusCode asserts that the response has the expected status code.
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

// AssertHeader asserts that the response has the expected header value.
func AssertHeader(t *testing.T, resp *Response, key, expected string) {
	t.Helper()
	if got := resp.Headers.Get(key); got != expected {
		t.Errorf("Expected header %s=%q, got %q", key, expected, got)
	}
}

// AssertStatusError asserts that err is a client.StatusError with the given code.
func AssertStatusError(t *testing.T, err error, expected int) *client.StatusError {
	t.Helper()

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *client.StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != expected {
		t.Errorf("Expected status %d, got %d (%s)", expected, statusErr.StatusCode, statusErr.Message)
	}
	return statusErr
}

// AssertNotFound asserts that err is a client.NotFoundError.
func AssertNotFound(t *testing.T, err error) *client.NotFoundError {
	t.Helper()

	var notFound *client.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *client.NotFoundError, got %T: %v", err, err)
	}
	return notFound
}

// LogTestStart logs the start of a test.
func LogTestStart(t *testing.T, testID, testName string) {
	t.Helper()
	t.Logf("Starting test %s: %s", testID, testName)
}

// LogTestEnd logs the end of a test.
func LogTestEnd(t *testing.T, testID string) {
	t.Helper()
	t.Logf("Completed test %s", testID)
}
