package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return fmt.Sprintf("%d", l.Addr().(*net.TCPAddr).Port)
}

func TestDefaultServerConfig(t *testing.T) {
	config := DefaultServerConfig()

	assert.Equal(t, "0.0.0.0", config.Host)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, 15*time.Second, config.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.ShutdownTimeout)
	assert.NotNil(t, config.Logger)
}

func TestServerConfig_Address(t *testing.T) {
	config := &ServerConfig{Host: "localhost", Port: "9090"}
	assert.Equal(t, "localhost:9090", config.Address())
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, gin.New())

	require.NotNil(t, server)
	assert.Equal(t, "0.0.0.0:8080", server.config.Address())
}

func TestServer_RunWithContext(t *testing.T) {
	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	config := DefaultServerConfig()
	config.Host = "127.0.0.1"
	config.Port = freePort(t)
	config.ShutdownTimeout = 2 * time.Second

	server := NewServer(config, router)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.RunWithContext(ctx)
	}()

	// Wait for the listener to come up, then verify it serves.
	url := "http://" + config.Address() + "/ping"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 25*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	config := DefaultServerConfig()
	config.Host = "127.0.0.1"
	config.Port = fmt.Sprintf("%d", l.Addr().(*net.TCPAddr).Port)

	server := NewServer(config, gin.New())

	err = server.Start()
	assert.Error(t, err)
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	server := NewServer(DefaultServerConfig(), gin.New())

	err := server.Shutdown(context.Background())
	assert.NoError(t, err)
}
