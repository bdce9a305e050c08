package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bluewriter/bluewriter/internal/app"
	"github.com/bluewriter/bluewriter/internal/config"
	"github.com/bluewriter/bluewriter/pkg/mcpserver/bluewriter"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// TestServer wraps a running App for testing
type TestServer struct {
	App     *app.App
	BaseURL string
	Config  *types.Config
	TempDir string

	cancel context.CancelFunc
	done   chan error
}

// TestServerOption configures TestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	envFile      string
	pollInterval time.Duration
}

// WithEnvFile sets the .env file to load
func WithEnvFile(path string) TestServerOption {
	return func(c *testServerConfig) {
		c.envFile = path
	}
}

// WithPollInterval sets the dispatch loop interval
func WithPollInterval(d time.Duration) TestServerOption {
	return func(c *testServerConfig) {
		c.pollInterval = d
	}
}

// StartTestServer creates an App over a temporary database and runs it
// until Stop.
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := &testServerConfig{pollInterval: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.envFile != "" {
		_ = godotenv.Load(cfg.envFile)
	} else {
		_ = godotenv.Load("../../.env")
	}

	tempDir, err := os.MkdirTemp("", "bluewriter-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	appConfig := buildTestConfig(tempDir, cfg.pollInterval)
	a, err := app.New(appConfig)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	ts := &TestServer{
		App:     a,
		Config:  appConfig,
		TempDir: tempDir,
		cancel:  cancel,
		done:    done,
	}

	if err := waitForServer(a, 10*time.Second); err != nil {
		ts.Stop()
		return nil, fmt.Errorf("server failed to start: %w", err)
	}
	ts.BaseURL = a.Server.URL()
	return ts, nil
}

// Stop shuts down the test server and cleans up
func (ts *TestServer) Stop() error {
	ts.cancel()

	var errs []error
	select {
	case err := <-ts.done:
		errs = append(errs, err)
	case <-time.After(app.ShutdownTimeout):
		errs = append(errs, errors.New("app did not stop"))
	}
	errs = append(errs, ts.App.Close())

	if ts.TempDir != "" {
		os.RemoveAll(ts.TempDir)
	}
	return errors.Join(errs...)
}

// Client returns a new test client for this server
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// SSEClient returns a new SSE client for this server
func (ts *TestServer) SSEClient() *SSEClient {
	return NewSSEClient(ts.BaseURL)
}

// MCPServer is an MCP SSE endpoint over the same services as the HTTP API.
type MCPServer struct {
	Endpoint string
	sse      *server.SSEServer
}

// StartMCP serves the MCP tools over SSE on a free port.
func (ts *TestServer) StartMCP() (*MCPServer, error) {
	port, err := findAvailablePort()
	if err != nil {
		return nil, fmt.Errorf("failed to find available port: %w", err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	mcpServer := bluewriter.NewServer(bluewriter.Services{
		Projects:     ts.App.Projects,
		Stories:      ts.App.Stories,
		Chapters:     ts.App.Chapters,
		Encyclopedia: ts.App.Encyclopedia,
		Canvas:       ts.App.Canvas,
		Editors:      ts.App.Editors,
	}, "test")
	sse := server.NewSSEServer(mcpServer, server.WithBaseURL("http://"+addr))

	go func() {
		_ = sse.Start(addr)
	}()

	err = backoff.Retry(func() error {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return err
		}
		return conn.Close()
	}, retryPolicy(5*time.Second))
	if err != nil {
		sse.Shutdown(context.Background())
		return nil, fmt.Errorf("mcp server not ready: %w", err)
	}

	return &MCPServer{Endpoint: "http://" + addr + "/sse", sse: sse}, nil
}

// Stop shuts down the MCP endpoint.
func (m *MCPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.sse.Shutdown(ctx)
}

// buildTestConfig listens on an ephemeral port and keeps every file under dir.
func buildTestConfig(dir string, pollInterval time.Duration) *types.Config {
	cfg := config.Default()
	cfg.Database = filepath.Join(dir, "bluewriter.db")
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Dispatch.PollIntervalMs = int(pollInterval / time.Millisecond)
	if cfg.Dispatch.PollIntervalMs <= 0 {
		cfg.Dispatch.PollIntervalMs = 1
	}
	return cfg
}

// findAvailablePort finds an available TCP port
func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

func retryPolicy(timeout time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = timeout
	return b
}

// waitForServer waits until the app's HTTP server answers /health
func waitForServer(a *app.App, timeout time.Duration) error {
	httpClient := &http.Client{Timeout: time.Second}
	return backoff.Retry(func() error {
		if !a.Server.Running() {
			return errors.New("http server not started")
		}
		resp, err := httpClient.Get(a.Server.URL() + "/health")
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health returned %d", resp.StatusCode)
		}
		return nil
	}, retryPolicy(timeout))
}
