package e2etest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/status-im/crypto-converter/core"
)

// TestEnv represents a test environment
type TestEnv struct {
	Registry      *core.Registry
	MockServer    *MockServer
	Context       context.Context
	CancelFunc    context.CancelFunc
	ConfigPath    string
	ServerBaseURL string
}

// SetupTest starts the whole service against the mock upstream of provider
func SetupTest(t *testing.T, provider string) *TestEnv {
	ctx, cancel := context.WithCancel(context.Background())

	mockServer := NewMockServer()

	cfg, configPath, err := loadTestConfig(provider, mockServer.GetURL(), mockServer.GetWSURL())
	if err != nil {
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to load test config: %v", err)
	}

	port, err := freePort()
	if err != nil {
		cleanupTestConfig(configPath)
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to find a free port: %v", err)
	}
	cfg.Server.Port = strconv.Itoa(port)

	registry, err := core.Setup(ctx, cfg)
	if err != nil {
		cleanupTestConfig(configPath)
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to setup services: %v", err)
	}

	if err := registry.StartAll(ctx); err != nil {
		registry.StopAll()
		cleanupTestConfig(configPath)
		mockServer.Close()
		cancel()
		t.Fatalf("Failed to start services: %v", err)
	}

	env := &TestEnv{
		Registry:      registry,
		MockServer:    mockServer,
		Context:       ctx,
		CancelFunc:    cancel,
		ConfigPath:    configPath,
		ServerBaseURL: fmt.Sprintf("http://localhost:%d", port),
	}

	if !waitForServer(env.ServerBaseURL+"/health", 5*time.Second) {
		env.TearDown()
		t.Fatalf("Server did not start at %s", env.ServerBaseURL)
	}

	return env
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.Registry != nil {
		env.Registry.StopAll()
	}
	if env.MockServer != nil {
		env.MockServer.Close()
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
	if env.ConfigPath != "" {
		cleanupTestConfig(env.ConfigPath)
	}
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

func waitForServer(url string, maxWait time.Duration) bool {
	pollInterval := 50 * time.Millisecond
	timeout := time.Now().Add(maxWait)

	for time.Now().Before(timeout) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(pollInterval)
	}
	return false
}
