package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tierkv/tierkv/internal/shared"
)

func TestServerStartAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := New("127.0.0.1:0", handler, shared.New(io.Discard, shared.ERROR))

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	addr := waitForAddr(t, srv)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err, "clean shutdown should not surface an error")
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestServerStartFailsOnBadAddress(t *testing.T) {
	srv := New("256.256.256.256:99999", nil, shared.New(io.Discard, shared.ERROR))
	assert.Error(t, srv.Start())
}

func TestServerAddrBeforeStart(t *testing.T) {
	srv := New("127.0.0.1:0", nil, shared.New(io.Discard, shared.ERROR))
	assert.Equal(t, "", srv.Addr())
}

func waitForAddr(t *testing.T, srv *Server) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if addr := srv.Addr(); addr != "" {
			return addr
		}
		if time.Now().After(deadline) {
			t.Fatal("server never bound a listener")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
